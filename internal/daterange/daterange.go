// Package daterange turns export range keywords into concrete half-open
// intervals.
package daterange

import (
	"fmt"
	"slices"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// Range keywords accepted by Resolve.
const (
	Today      = "today"
	Last7Days  = "last7days"
	Last30Days = "last30days"
	All        = "all"
	Custom     = "custom"
)

// Keywords lists the accepted range keywords.
var Keywords = []string{Today, Last7Days, Last30Days, All, Custom}

// Known reports whether keyword is one of Keywords.
func Known(keyword string) bool {
	return slices.Contains(Keywords, keyword)
}

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bounds are optional custom bounds. A zero time means "not supplied".
type Bounds struct {
	Start time.Time
	End   time.Time
}

// floorYear is the fixed lower bound of the "all" range.
const floorYear = 2020

// Resolve returns the interval for keyword relative to now, read in loc.
// Unknown keywords resolve like last7days. Custom bounds are used as given; an
// inverted custom range is returned unchanged and Contains reports false for
// every instant in it.
func Resolve(keyword string, custom Bounds, now time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := timecalc.StartOfDay(now)
	tomorrow := timecalc.Midnight(now)

	switch keyword {
	case Today:
		return Range{Start: today, End: tomorrow}
	case Last30Days:
		return Range{Start: today.AddDate(0, 0, -30), End: tomorrow}
	case All:
		return Range{Start: time.Date(floorYear, 1, 1, 0, 0, 0, 0, loc), End: tomorrow}
	case Custom:
		def := Range{Start: today.AddDate(0, 0, -7), End: tomorrow}
		r := def
		if !custom.Start.IsZero() {
			r.Start = custom.Start.In(loc)
		}
		if !custom.End.IsZero() {
			r.End = custom.End.In(loc)
		}
		return r
	default:
		return Range{Start: today.AddDate(0, 0, -7), End: tomorrow}
	}
}

// ParseCustom parses YYYY-MM-DD custom bounds in loc. The end day is inclusive
// for the user, so the returned End is the midnight after it.
func ParseCustom(start, end string, loc *time.Location) (Bounds, error) {
	var b Bounds
	if start != "" {
		t, err := timecalc.ParseDay(start, loc)
		if err != nil {
			return Bounds{}, fmt.Errorf("custom range start: %w", err)
		}
		b.Start = t
	}
	if end != "" {
		t, err := timecalc.ParseDay(end, loc)
		if err != nil {
			return Bounds{}, fmt.Errorf("custom range end: %w", err)
		}
		b.End = timecalc.Midnight(t)
	}
	return b, nil
}

// Contains reports whether t lies in [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContainsDay parses a persisted day value in loc and reports whether it lies
// in the range.
func (r Range) ContainsDay(day string, loc *time.Location) (bool, error) {
	t, err := timecalc.ParseDay(day, loc)
	if err != nil {
		return false, err
	}
	return r.Contains(t), nil
}

// Days returns the number of calendar days the range touches. DST
// transitions do not change the count.
func (r Range) Days() int {
	if !r.End.After(r.Start) {
		return 0
	}
	return timecalc.DaysBetween(r.Start, r.LastDay()) + 1
}

// LastDay returns the start of the last calendar day inside the range.
func (r Range) LastDay() time.Time {
	if !r.End.After(r.Start) {
		return timecalc.StartOfDay(r.Start)
	}
	return timecalc.StartOfDay(r.End.Add(-time.Nanosecond))
}

// Label is the human description used in document headers.
func Label(keyword string, r Range) string {
	switch keyword {
	case Today:
		return "Today"
	case Last7Days:
		return "Last 7 Days"
	case Last30Days:
		return "Last 30 Days"
	case All:
		return "All Time"
	}
	return fmt.Sprintf("%s to %s", timecalc.DayKey(r.Start), timecalc.DayKey(r.LastDay()))
}
