// Package stats computes the derived counts and rates of an export and the
// qualitative insights drawn from them.
package stats

import (
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// Uncategorized is the histogram bucket for todos without a category.
const Uncategorized = "uncategorized"

// ChecklistStats aggregates daily checklists.
type ChecklistStats struct {
	TotalDays         int `json:"totalDays"`
	CompletedDays     int `json:"completedDays"`
	TotalItems        int `json:"totalItems"`
	CompletedItems    int `json:"completedItems"`
	AverageCompletion int `json:"averageCompletion"`
}

// TodoStats aggregates todos.
type TodoStats struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	HighPriority   int            `json:"highPriority"`
	CompletionRate int            `json:"completionRate"`
	Categories     map[string]int `json:"categories"`
}

// MeetingStats aggregates meetings.
type MeetingStats struct {
	Total         int `json:"total"`
	Completed     int `json:"completed"`
	Upcoming      int `json:"upcoming"`
	TotalDuration int `json:"totalDuration"` // minutes
}

// Statistics is the statistics section of an export bundle.
type Statistics struct {
	Checklist ChecklistStats `json:"checklist"`
	Todos     TodoStats      `json:"todos"`
	Meetings  MeetingStats   `json:"meetings"`
}

// Checklist aggregates the given day checklists. Callers filter by range.
func Checklist(days []model.DayChecklist) ChecklistStats {
	var s ChecklistStats
	for _, d := range days {
		s.TotalDays++
		done := d.CompletedCount()
		s.TotalItems += len(d.Items)
		s.CompletedItems += done
		if len(d.Items) > 0 && done == len(d.Items) {
			s.CompletedDays++
		}
	}
	s.AverageCompletion = timecalc.Percent(s.CompletedItems, s.TotalItems)
	return s
}

// ChecklistInRange filters history by its date keys and aggregates it.
// Keys that cannot be parsed are skipped.
func ChecklistInRange(history map[string]model.DayChecklist, r daterange.Range, loc *time.Location) ChecklistStats {
	var days []model.DayChecklist
	for key, day := range history {
		if ok, err := r.ContainsDay(key, loc); err == nil && ok {
			days = append(days, day)
		}
	}
	return Checklist(days)
}

// Todos aggregates the given todos. Callers filter by createdAt.
func Todos(todos []model.Todo) TodoStats {
	s := TodoStats{Categories: map[string]int{}}
	for _, t := range todos {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
		if t.Priority == model.PriorityHigh {
			s.HighPriority++
		}
		cat := t.Category
		if cat == "" {
			cat = Uncategorized
		}
		s.Categories[cat]++
	}
	s.CompletionRate = timecalc.Percent(s.Completed, s.Total)
	return s
}

// TodosInRange filters todos by createdAt and aggregates them.
func TodosInRange(todos []model.Todo, r daterange.Range) TodoStats {
	var in []model.Todo
	for _, t := range todos {
		if r.Contains(t.CreatedAt) {
			in = append(in, t)
		}
	}
	return Todos(in)
}

// Meetings aggregates the given meetings. A meeting is upcoming when it is not
// completed and starts after now; meetings with unparsable dates never are.
func Meetings(meetings []model.Meeting, now time.Time, loc *time.Location) MeetingStats {
	var s MeetingStats
	for _, m := range meetings {
		s.Total++
		if m.Completed {
			s.Completed++
		} else if start, err := timecalc.ParseDayTime(m.Date, m.Time, loc); err == nil && start.After(now) {
			s.Upcoming++
		}
		if m.Duration > 0 {
			s.TotalDuration += m.Duration
		}
	}
	return s
}

// MeetingsInRange filters meetings by date and aggregates them.
func MeetingsInRange(meetings []model.Meeting, r daterange.Range, now time.Time, loc *time.Location) MeetingStats {
	var in []model.Meeting
	for _, m := range meetings {
		if ok, err := r.ContainsDay(m.Date, loc); err == nil && ok {
			in = append(in, m)
		}
	}
	return Meetings(in, now, loc)
}
