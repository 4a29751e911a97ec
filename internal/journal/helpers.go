package journal

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/stats"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// statsOf returns the collected statistics, or computes them from the bundle
// when the statistics section was not collected.
func statsOf(b *collect.Bundle, c Context) stats.Statistics {
	if b.Statistics != nil {
		return *b.Statistics
	}
	var s stats.Statistics
	if b.Checklist != nil {
		s.Checklist = stats.Checklist(historyDays(b.Checklist.History))
	}
	s.Todos = stats.Todos(b.Todos)
	s.Meetings = stats.Meetings(b.Meetings, c.Now, c.Location())
	return s
}

func insightsOf(b *collect.Bundle, c Context) []stats.Insight {
	return stats.GenerateInsights(statsOf(b, c), c.Range.Days())
}

// unavailable reports a failed section as a note. It returns nil when the
// section did not fail.
func unavailable(b *collect.Bundle, section, title string) Document {
	msg, ok := b.Errors[section]
	if !ok {
		return nil
	}
	return Document{NewSection(title, 2, "Data unavailable: "+msg)}
}

func historyDays(h map[string]model.DayChecklist) []model.DayChecklist {
	out := make([]model.DayChecklist, 0, len(h))
	for _, k := range sortedKeys(h) {
		out = append(out, h[k])
	}
	return out
}

func sortedKeys(h map[string]model.DayChecklist) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func milestones(b *collect.Bundle) []model.Milestone {
	if b.Roadmap == nil {
		return nil
	}
	return b.Roadmap.Milestones
}

func projectName(b *collect.Bundle) string {
	if b.Roadmap == nil || b.Roadmap.Project.Name == "" {
		return "Project"
	}
	return b.Roadmap.Project.Name
}

func countCompletedMilestones(ms []model.Milestone) int {
	n := 0
	for _, m := range ms {
		if m.Completed {
			n++
		}
	}
	return n
}

// overdue reports a pending milestone dated before today.
func overdue(m model.Milestone, c Context) bool {
	if m.Completed {
		return false
	}
	d, err := timecalc.ParseDay(m.Date, c.Location())
	return err == nil && d.Before(c.Today())
}

func upcomingMilestones(ms []model.Milestone, c Context, limit int) []model.Milestone {
	var out []model.Milestone
	for _, m := range ms {
		if m.Completed {
			continue
		}
		if d, err := timecalc.ParseDay(m.Date, c.Location()); err == nil && !d.Before(c.Today()) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return limited(out, limit)
}

func overdueMilestones(ms []model.Milestone, c Context) []model.Milestone {
	var out []model.Milestone
	for _, m := range ms {
		if overdue(m, c) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// completionTime orders completed milestones: completedAt, else the milestone date.
func completionTime(m model.Milestone, loc *time.Location) time.Time {
	if m.CompletedAt != nil {
		return *m.CompletedAt
	}
	d, _ := timecalc.ParseDay(m.Date, loc)
	return d
}

func recentlyCompletedMilestones(ms []model.Milestone, c Context, limit int) []model.Milestone {
	var out []model.Milestone
	for _, m := range ms {
		if m.Completed {
			out = append(out, m)
		}
	}
	loc := c.Location()
	sort.SliceStable(out, func(i, j int) bool {
		return completionTime(out[i], loc).After(completionTime(out[j], loc))
	})
	return limited(out, limit)
}

func todosWhere(todos []model.Todo, keep func(model.Todo) bool) []model.Todo {
	var out []model.Todo
	for _, t := range todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func isHighPending(t model.Todo) bool { return !t.Completed && t.Priority == model.PriorityHigh }
func isHighDone(t model.Todo) bool    { return t.Completed && t.Priority == model.PriorityHigh }

func recentlyCompletedTodos(todos []model.Todo, limit int) []model.Todo {
	done := todosWhere(todos, func(t model.Todo) bool { return t.Completed })
	at := func(t model.Todo) time.Time {
		if t.CompletedAt != nil {
			return *t.CompletedAt
		}
		return t.CreatedAt
	}
	sort.SliceStable(done, func(i, j int) bool { return at(done[i]).After(at(done[j])) })
	return limited(done, limit)
}

func limited[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func todoLine(t model.Todo) string {
	mark := "○"
	if t.Completed {
		mark = "✓"
	}
	line := fmt.Sprintf("%s %s", mark, t.Text)
	if t.Priority == model.PriorityHigh && !t.Completed {
		line += " [high]"
	}
	if t.Category != "" {
		line += " (" + t.Category + ")"
	}
	return line
}

func meetingLine(m model.Meeting, c Context) string {
	mark := "○"
	if m.Completed {
		mark = "✓"
	}
	when := m.Time
	if when == "" {
		when = c.FormatDay(m.Date)
	}
	line := fmt.Sprintf("%s %s %s", mark, when, m.Title)
	if m.Duration > 0 {
		line += " (" + timecalc.FormatMinutes(m.Duration) + ")"
	}
	return line
}

func milestoneLine(m model.Milestone, c Context) string {
	return fmt.Sprintf("%s (%s)", m.Title, c.FormatDay(m.Date))
}

func insightLines(ins []stats.Insight, withCategory bool) []string {
	out := make([]string, 0, len(ins))
	for _, in := range ins {
		if withCategory {
			out = append(out, fmt.Sprintf("%s %s: %s", in.Icon, in.Category, in.Message))
		} else {
			out = append(out, fmt.Sprintf("%s %s", in.Icon, in.Message))
		}
	}
	return out
}
