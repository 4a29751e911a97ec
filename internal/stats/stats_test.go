package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/stats"
)

var now = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func day(done ...bool) model.DayChecklist {
	var d model.DayChecklist
	for _, c := range done {
		d.Items = append(d.Items, model.ChecklistItem{Completed: c})
	}
	return d
}

func TestChecklist(t *testing.T) {
	tests := []struct {
		name string
		days []model.DayChecklist
		want stats.ChecklistStats
	}{
		{"empty", nil, stats.ChecklistStats{}},
		{"empty day is not completed", []model.DayChecklist{day()},
			stats.ChecklistStats{TotalDays: 1}},
		{"mixed", []model.DayChecklist{day(true, true), day(true, false, false)},
			stats.ChecklistStats{TotalDays: 2, CompletedDays: 1, TotalItems: 5, CompletedItems: 3, AverageCompletion: 60}},
		{"rounds", []model.DayChecklist{day(true, false, false)},
			stats.ChecklistStats{TotalDays: 1, TotalItems: 3, CompletedItems: 1, AverageCompletion: 33}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.Checklist(tt.days)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.AverageCompletion, 0)
			assert.LessOrEqual(t, got.AverageCompletion, 100)
		})
	}
}

func TestChecklistInRangeFiltersByKey(t *testing.T) {
	r := daterange.Resolve(daterange.Today, daterange.Bounds{}, now, time.UTC)
	history := map[string]model.DayChecklist{
		"2026-10-18": day(true),
		"2026-10-17": day(false),
		"2026-10-19": day(false),
		"garbage":    day(false),
	}
	got := stats.ChecklistInRange(history, r, time.UTC)
	assert.Equal(t, 1, got.TotalDays)
	assert.Equal(t, 100, got.AverageCompletion)
}

func TestTodos(t *testing.T) {
	created := now.Add(-time.Hour)
	todos := []model.Todo{
		{Text: "a", Completed: true, Priority: model.PriorityHigh, Category: "work", CreatedAt: created},
		{Text: "b", Priority: model.PriorityHigh, CreatedAt: created},
		{Text: "c", Priority: model.PriorityLow, Category: "work", CreatedAt: created},
		{Text: "old", Priority: model.PriorityHigh, CreatedAt: created.AddDate(0, -2, 0)},
	}
	r := daterange.Resolve(daterange.Last7Days, daterange.Bounds{}, now, time.UTC)
	got := stats.TodosInRange(todos, r)

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 2, got.Pending)
	assert.Equal(t, 2, got.HighPriority)
	assert.Equal(t, 33, got.CompletionRate)
	assert.Equal(t, map[string]int{"work": 2, stats.Uncategorized: 1}, got.Categories)
}

func TestMeetings(t *testing.T) {
	meetings := []model.Meeting{
		{Title: "done", Date: "2026-10-18", Time: "09:00", Completed: true, Duration: 30},
		{Title: "later today", Date: "2026-10-18", Time: "16:00", Duration: 60},
		{Title: "earlier today", Date: "2026-10-18", Time: "10:00"},
		{Title: "bad date", Date: "soon"},
	}
	got := stats.Meetings(meetings, now, time.UTC)
	assert.Equal(t, stats.MeetingStats{Total: 4, Completed: 1, Upcoming: 1, TotalDuration: 90}, got)

	r := daterange.Resolve(daterange.Today, daterange.Bounds{}, now, time.UTC)
	inRange := stats.MeetingsInRange(meetings, r, now, time.UTC)
	assert.Equal(t, 3, inRange.Total)
}

func TestGenerateInsightsOrder(t *testing.T) {
	s := stats.Statistics{
		Checklist: stats.ChecklistStats{TotalItems: 10, CompletedItems: 9, AverageCompletion: 90},
		Todos:     stats.TodoStats{Total: 10, Completed: 2, Pending: 8, HighPriority: 5, CompletionRate: 20},
		Meetings:  stats.MeetingStats{TotalDuration: 600},
	}
	got := stats.GenerateInsights(s, 7)
	require.Len(t, got, 5)

	var cats []string
	for _, in := range got {
		cats = append(cats, in.Category)
	}
	assert.Equal(t, []string{"Productivity", "Tasks", "Priorities", "Meetings", "Scope"}, cats)
	assert.Equal(t, stats.Success, got[0].Type)
	assert.Equal(t, stats.Info, got[1].Type)
	assert.Equal(t, stats.Warning, got[2].Type)
	assert.Equal(t, "Weekly summary", got[4].Message)
}

func TestGenerateInsightsRangeScope(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{1, "Single day snapshot"},
		{7, "Weekly summary"},
		{31, "Extended period analysis covering 31 days"},
	}
	for _, tt := range tests {
		got := stats.GenerateInsights(stats.Statistics{}, tt.days)
		require.Len(t, got, 1)
		assert.Equal(t, tt.want, got[0].Message)
	}
	assert.Empty(t, stats.GenerateInsights(stats.Statistics{}, 8))
}

func TestGenerateInsightsLowChecklist(t *testing.T) {
	s := stats.Statistics{Checklist: stats.ChecklistStats{TotalItems: 4, CompletedItems: 1, AverageCompletion: 25}}
	got := stats.GenerateInsights(s, 3)
	require.Len(t, got, 1)
	assert.Equal(t, stats.Warning, got[0].Type)
}

func TestGenerateInsightsSkipsRatesWithoutData(t *testing.T) {
	empty := stats.GenerateInsights(stats.Statistics{}, 3)
	assert.Empty(t, empty, "rates of empty data are not judged")

	s := stats.Statistics{
		Checklist: stats.ChecklistStats{TotalItems: 2},
		Todos:     stats.TodoStats{Total: 3, Pending: 3},
	}
	got := stats.GenerateInsights(s, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "Productivity", got[0].Category)
	assert.Equal(t, "Task completion rate is 0%; 3 tasks still pending", got[1].Message)
}
