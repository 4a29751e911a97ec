package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
)

var now = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func TestResolveKeywords(t *testing.T) {
	midnight := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		keyword   string
		wantStart time.Time
		wantDays  int
	}{
		{daterange.Today, midnight, 1},
		{daterange.Last7Days, midnight.AddDate(0, 0, -7), 8},
		{daterange.Last30Days, midnight.AddDate(0, 0, -30), 31},
		{daterange.All, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"bogus", midnight.AddDate(0, 0, -7), 8},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			r := daterange.Resolve(tt.keyword, daterange.Bounds{}, now, time.UTC)
			assert.True(t, r.Start.Equal(tt.wantStart), "start = %v", r.Start)
			assert.True(t, r.End.Equal(tomorrow), "end = %v", r.End)
			if tt.wantDays > 0 {
				assert.Equal(t, tt.wantDays, r.Days())
			}
		})
	}
}

func TestResolveStartNotAfterEnd(t *testing.T) {
	for _, kw := range daterange.Keywords {
		r := daterange.Resolve(kw, daterange.Bounds{}, now, time.UTC)
		assert.False(t, r.Start.After(r.End), "%s: start %v after end %v", kw, r.Start, r.End)
	}
}

func TestResolveCustomDefaults(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	r := daterange.Resolve(daterange.Custom, daterange.Bounds{Start: start}, now, time.UTC)
	assert.True(t, r.Start.Equal(start))
	assert.True(t, r.End.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))

	end := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	r = daterange.Resolve(daterange.Custom, daterange.Bounds{End: end}, now, time.UTC)
	assert.True(t, r.Start.Equal(time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.End.Equal(end))
}

func TestResolveUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 15:30 UTC is already the 19th in Tokyo.
	r := daterange.Resolve(daterange.Today, daterange.Bounds{}, now, tokyo)
	assert.True(t, r.Start.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, tokyo)))
}

func TestDaysAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Clocks go back on 2026-10-25, so that day is 25 hours long.
	at := time.Date(2026, 10, 25, 12, 0, 0, 0, berlin)

	today := daterange.Resolve(daterange.Today, daterange.Bounds{}, at, berlin)
	assert.Equal(t, 25*time.Hour, today.End.Sub(today.Start))
	assert.Equal(t, 1, today.Days())

	week := daterange.Resolve(daterange.Last7Days, daterange.Bounds{}, at, berlin)
	assert.Equal(t, 8, week.Days())

	// Spring forward on 2026-03-29 leaves a 23 hour day.
	spring := daterange.Resolve(daterange.Today, daterange.Bounds{}, time.Date(2026, 3, 29, 12, 0, 0, 0, berlin), berlin)
	assert.Equal(t, 1, spring.Days())
}

func TestKnown(t *testing.T) {
	for _, kw := range daterange.Keywords {
		assert.True(t, daterange.Known(kw), kw)
	}
	assert.False(t, daterange.Known("lastweek"))
	assert.False(t, daterange.Known(""))
}

func TestContainsHalfOpen(t *testing.T) {
	r := daterange.Resolve(daterange.Today, daterange.Bounds{}, now, time.UTC)
	assert.True(t, r.Contains(r.Start), "start must be included")
	assert.False(t, r.Contains(r.End), "end must be excluded")
	assert.True(t, r.Contains(r.End.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(r.Start.Add(-time.Nanosecond)))
}

func TestInvertedCustomRangeIsEmpty(t *testing.T) {
	b := daterange.Bounds{
		Start: time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	}
	r := daterange.Resolve(daterange.Custom, b, now, time.UTC)
	assert.False(t, r.Contains(time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(b.Start))
	assert.Equal(t, 0, r.Days())
}

func TestParseCustom(t *testing.T) {
	b, err := daterange.ParseCustom("2026-10-01", "2026-10-03", time.UTC)
	require.NoError(t, err)
	assert.True(t, b.Start.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.End.Equal(time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)))

	_, err = daterange.ParseCustom("nope", "", time.UTC)
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	r := daterange.Resolve(daterange.Custom, daterange.Bounds{
		Start: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
	}, now, time.UTC)
	assert.Equal(t, "2026-10-01 to 2026-10-03", daterange.Label(daterange.Custom, r))
	assert.Equal(t, "Last 7 Days", daterange.Label(daterange.Last7Days, r))
}
