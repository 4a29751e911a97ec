package timecalc

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// DayLayout is the layout of calendar-day keys ("2026-02-27").
const DayLayout = "2006-01-02"

// zones caches loaded locations by name.
var zones sync.Map

// LoadLocation resolves an IANA timezone name. An empty name or "UTC" yields UTC,
// "Local" yields the process location. Loaded zones are cached, so repeated
// lookups of the same name return the same *time.Location.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	if loc, ok := zones.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	actual, _ := zones.LoadOrStore(name, loc)
	return actual.(*time.Location), nil
}

// ParseDay parses a persisted day value in loc. It accepts YYYY-MM-DD and RFC3339;
// RFC3339 values are converted to loc and truncated to the start of that day.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return StartOfDay(t.In(loc)), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// ParseDayTime combines a YYYY-MM-DD day and an optional HH:MM clock time in loc.
// An empty or unparsable clock yields the start of the day.
func ParseDayTime(day, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDay(day, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return d, nil
	}
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return d, nil
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// DayKey formats t as a YYYY-MM-DD key in its own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// FormatMinutes formats minutes as "1h 40m", "45m" or "0m".
func FormatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Midnight returns the start of the next day (midnight) in the same location.
func Midnight(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the number of calendar days from a to b, negative when b
// is before a. Both are read in a's location so DST shifts do not matter.
func DaysBetween(a, b time.Time) int {
	b = b.In(a.Location())
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Percent returns round(part/total*100), or 0 when total is zero.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
