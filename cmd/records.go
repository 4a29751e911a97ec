package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// location returns the configured timezone.
func location() (*time.Location, error) {
	loc, err := timecalc.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, userErr(err)
	}
	return loc, nil
}

// parseDayFlag validates a YYYY-MM-DD flag value. Empty means today in loc.
func parseDayFlag(name, value string, now time.Time, loc *time.Location) (string, error) {
	if value == "" {
		return timecalc.DayKey(now.In(loc)), nil
	}
	t, err := time.ParseInLocation(timecalc.DayLayout, value, loc)
	if err != nil {
		return "", userErr(fmt.Errorf("invalid --%s value %q: want YYYY-MM-DD", name, value))
	}
	return timecalc.DayKey(t), nil
}

// fixedRange validates a --range value of the commands that take no custom
// bounds.
func fixedRange(value string) (string, error) {
	if value == daterange.Custom || !daterange.Known(value) {
		return "", userErr(fmt.Errorf("invalid --range value %q: use today, last7days, last30days or all", value))
	}
	return value, nil
}

// splitList splits a comma-separated flag value and drops empty parts.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID returns the index of the id equal to, or uniquely prefixed by, prefix.
func matchID(ids []string, prefix string) (int, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return -1, errors.New("empty id")
	}
	found := -1
	for i, id := range ids {
		if id == prefix {
			return i, nil
		}
		if strings.HasPrefix(id, prefix) {
			if found >= 0 {
				return -1, fmt.Errorf("id %q is ambiguous", prefix)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("no record with id %q", prefix)
	}
	return found, nil
}

// findRecord loads a record store and returns the record matching prefix.
func findRecord[T any](ctx context.Context, storeName, prefix string, idOf func(T) string) (T, error) {
	var zero T
	recs, err := storage.Records[T](ctx, store, storeName)
	if err != nil {
		return zero, ioErr(err)
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = idOf(r)
	}
	i, err := matchID(ids, prefix)
	if err != nil {
		return zero, userErr(fmt.Errorf("%s: %w", storeName, err))
	}
	return recs[i], nil
}
