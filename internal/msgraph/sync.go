package msgraph

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	DryRun bool
	// Location is used for event times without an offset and for the
	// meeting's date and time. Nil means UTC.
	Location *time.Location
	// Now decides whether an imported meeting is already completed.
	Now time.Time
	// Out receives one line per event. Nil discards.
	Out io.Writer
}

// parseGraphTime parses a Graph dateTime. With a Prefer: outlook.timezone
// header Graph returns "2026-02-27T09:00:00.0000000" without a zone suffix.
func parseGraphTime(dt string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildNotes combines bodyPreview and location.
func buildNotes(event CalendarEvent) string {
	var parts []string
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, "Location: "+event.Location.DisplayName)
	}
	return strings.Join(parts, "\n")
}

func attendeeNames(event CalendarEvent) []string {
	var names []string
	for _, a := range event.Attendees {
		if a.Type == "resource" {
			continue
		}
		name := a.EmailAddress.Name
		if name == "" {
			name = a.EmailAddress.Address
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// shouldSkip reports whether the event is not a meeting worth journaling.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private":
		return true
	case event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MapEventToMeeting converts a Graph event into a meeting with a fresh ID.
// Meetings that ended before now are marked completed.
func MapEventToMeeting(event CalendarEvent, loc *time.Location, now time.Time) (model.Meeting, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := parseGraphTime(event.Start.DateTime, loc)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, loc)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("parsing end time: %w", err)
	}
	start = start.In(loc)

	return model.Meeting{
		ID:         uuid.NewString(),
		ExternalID: event.ID,
		Title:      event.Subject,
		Date:       timecalc.DayKey(start),
		Time:       start.Format("15:04"),
		Completed:  !end.After(now),
		Attendees:  attendeeNames(event),
		Duration:   int(end.Sub(start).Minutes()),
		Notes:      buildNotes(event),
	}, nil
}

func sameSchedule(a, b model.Meeting) bool {
	return a.Title == b.Title && a.Date == b.Date && a.Time == b.Time &&
		a.Duration == b.Duration && a.Notes == b.Notes && slices.Equal(a.Attendees, b.Attendees)
}

// SyncEvents stores events as meetings, keyed by their Graph ID. Re-importing
// an unchanged event is a no-op; a changed one keeps its meeting ID, completion
// and action items. Manually created meetings are never touched.
func SyncEvents(ctx context.Context, s storage.Store, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	existing, err := storage.Records[model.Meeting](ctx, s, model.StoreMeetings)
	if err != nil {
		return result, fmt.Errorf("loading meetings: %w", err)
	}
	byExternal := make(map[string]model.Meeting, len(existing))
	for _, m := range existing {
		if m.ExternalID != "" {
			byExternal[m.ExternalID] = m
		}
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if shouldSkip(event) {
			continue
		}

		m, err := MapEventToMeeting(event, opts.Location, opts.Now)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		verb := "Imported"
		if found, ok := byExternal[event.ID]; ok {
			if sameSchedule(found, m) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
				result.Skipped++
				continue
			}
			m.ID = found.ID
			m.Completed = m.Completed || found.Completed
			m.ActionItems = found.ActionItems
			verb = "Updated"
		}

		if !opts.DryRun {
			if err := s.SaveTo(ctx, model.StoreMeetings, m.ID, m); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		byExternal[event.ID] = m

		if verb == "Updated" {
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", event.Subject, timecalc.FormatMinutes(m.Duration))
			result.Updated++
		} else {
			fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", event.Subject, timecalc.FormatMinutes(m.Duration))
			result.Imported++
		}
	}
	return result, nil
}
