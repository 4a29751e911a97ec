package journal

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// Date formats accepted by FormatDate.
const (
	DateLong     = "long"
	DateShort    = "short"
	DateISO      = "iso"
	DateRelative = "relative"
)

// DateFormats lists the accepted date formats.
var DateFormats = []string{DateLong, DateShort, DateISO, DateRelative}

// Context carries everything about an export that is not record data. It is
// serialized as is by the JSON renderer.
type Context struct {
	Now          time.Time             `json:"now"`
	Timezone     string                `json:"timezone"`
	Range        daterange.Range       `json:"range"`
	RangeKeyword string                `json:"rangeKeyword"`
	RangeLabel   string                `json:"rangeLabel"`
	DateFormat   string                `json:"dateFormat"`
	Format       string                `json:"format"`
	Template     string                `json:"template"`
	Options      model.ExportOptions   `json:"options"`
	Sections     model.IncludeSections `json:"sections"`
}

// Location resolves Timezone, falling back to UTC.
func (c Context) Location() *time.Location {
	loc, err := timecalc.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today is the start of the current day in the export location.
func (c Context) Today() time.Time {
	return timecalc.StartOfDay(c.Now.In(c.Location()))
}

// FormatDate formats t according to DateFormat.
func (c Context) FormatDate(t time.Time) string {
	return FormatDate(t, c.DateFormat, c.Now)
}

// FormatDay parses a YYYY-MM-DD value and formats it. Unparsable values are
// returned unchanged.
func (c Context) FormatDay(day string) string {
	t, err := timecalc.ParseDay(day, c.Location())
	if err != nil {
		return day
	}
	return c.FormatDate(t)
}

// FormatDate formats t as long ("Monday, January 2, 2006"), short
// ("01/02/2006"), iso ("2006-01-02") or relative to now ("3 days ago"). Unknown
// formats use long.
func FormatDate(t time.Time, format string, now time.Time) string {
	switch format {
	case DateShort:
		return t.Format("01/02/2006")
	case DateISO:
		return t.Format(timecalc.DayLayout)
	case DateRelative:
		if timecalc.SameDay(t, now.In(t.Location())) {
			return "today"
		}
		return humanize.RelTime(t, now, "ago", "from now")
	default:
		return t.Format("Monday, January 2, 2006")
	}
}
