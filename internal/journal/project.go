package journal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// Health is the weighted project-health score.
type Health struct {
	Score      int
	MaxScore   int
	Percentage int
	Label      string
	Factors    []string
}

// Health weights.
const (
	healthMilestoneMax = 30
	healthOverdueMax   = 10
	healthTaskMax      = 25
	healthActivityMax  = 20
	healthMaxScore     = healthMilestoneMax + healthOverdueMax + healthTaskMax + healthActivityMax
	activeWindowDays   = 7
)

// ProjectHealth scores milestone completion, overdue milestones, task
// completion and how recent the export range is.
func ProjectHealth(ms []model.Milestone, todos []model.Todo, r daterange.Range, c Context) Health {
	h := Health{MaxScore: healthMaxScore}

	done, late := 0, 0
	for _, m := range ms {
		if m.Completed {
			done++
		} else if overdue(m, c) {
			late++
		}
	}
	ratio := 0.0
	if len(ms) > 0 {
		ratio = float64(done) / float64(len(ms))
	}
	switch {
	case ratio > 0.5:
		h.Score += healthMilestoneMax
	case ratio > 0.25:
		h.Score += 20
	default:
		h.Score += 10
	}
	h.Factors = append(h.Factors, fmt.Sprintf("Milestones: %d/%d completed", done, len(ms)))

	switch {
	case late == 0:
		h.Score += healthOverdueMax
	case float64(late) < 0.2*float64(len(ms)):
		h.Score += 5
	}
	h.Factors = append(h.Factors, fmt.Sprintf("Overdue milestones: %d", late))

	doneTodos := len(todosWhere(todos, func(t model.Todo) bool { return t.Completed }))
	taskRatio := 0.0
	if len(todos) > 0 {
		taskRatio = float64(doneTodos) / float64(len(todos))
	}
	switch {
	case taskRatio > 0.7:
		h.Score += healthTaskMax
	case taskRatio > 0.5:
		h.Score += 18
	case taskRatio > 0.3:
		h.Score += 12
	default:
		h.Score += 5
	}
	h.Factors = append(h.Factors, fmt.Sprintf("Tasks: %d/%d completed", doneTodos, len(todos)))

	if timecalc.DaysBetween(r.Start, c.Now) <= activeWindowDays {
		h.Score += healthActivityMax
		h.Factors = append(h.Factors, "Activity: recent")
	} else {
		h.Score += 10
		h.Factors = append(h.Factors, "Activity: historical range")
	}

	h.Percentage = int(math.Round(float64(h.Score) / float64(h.MaxScore) * 100))
	h.Percentage = min(max(h.Percentage, 0), 100)
	switch {
	case h.Percentage >= 80:
		h.Label = "Excellent"
	case h.Percentage >= 60:
		h.Label = "Good"
	case h.Percentage >= 40:
		h.Label = "Fair"
	default:
		h.Label = "Needs Attention"
	}
	return h
}

// Phases of a project timeline relative to now.
type phase int

const (
	phaseUnknown phase = iota // no end date, or it does not parse
	phaseActive
	phaseEnded
)

// timeline returns the elapsed share of the project and the days left until
// its end date. remaining is negative once the project has ended.
func timeline(p model.ProjectConfig, c Context) (percent, remaining int, ph phase) {
	loc := c.Location()
	end, err := timecalc.ParseDay(p.EndDate, loc)
	if err != nil {
		return 0, 0, phaseUnknown
	}
	// The end date is inclusive.
	if !c.Now.Before(timecalc.Midnight(end)) {
		return 100, timecalc.DaysBetween(c.Today(), end), phaseEnded
	}
	start := c.Today()
	if s, err := timecalc.ParseDay(p.StartDate, loc); err == nil {
		start = s
	}
	total := timecalc.DaysBetween(start, end)
	elapsed := max(timecalc.DaysBetween(start, c.Today()), 0)
	return min(timecalc.Percent(elapsed, total), 100), timecalc.DaysBetween(c.Today(), end), phaseActive
}

func processProject(b *collect.Bundle, c Context) Document {
	name := projectName(b)
	doc := Document{NewHeader(1, name+" Report")}
	if d := unavailable(b, model.SectionRoadmap, "Project Overview"); d != nil {
		doc = append(doc, d...)
	}

	var project model.ProjectConfig
	if b.Roadmap != nil {
		project = b.Roadmap.Project
	}
	ms := milestones(b)

	overview := []string{"**Project:** " + name}
	if project.Description != "" {
		overview = append(overview, project.Description)
	}
	if project.StartDate != "" || project.EndDate != "" {
		overview = append(overview, fmt.Sprintf("Timeline: %s to %s",
			orDash(c.FormatDay(project.StartDate)), orDash(c.FormatDay(project.EndDate))))
	}
	if pct, left, ph := timeline(project, c); ph == phaseActive {
		overview = append(overview,
			fmt.Sprintf("Timeline Progress: %d%%", pct),
			fmt.Sprintf("Days Remaining: %d", left))
	}
	doc = append(doc, NewSection("Project Overview", 2, overview...))

	doc = append(doc, projectMilestones(ms, c)...)
	doc = append(doc, projectTasks(b)...)
	doc = append(doc, projectMeetings(b, c)...)

	h := ProjectHealth(ms, b.Todos, c.Range, c)
	doc = append(doc,
		NewSection("Project Health", 2, fmt.Sprintf("**Health Score:** %d%% (%s)", h.Percentage, h.Label)),
		NewList(false, h.Factors...))
	return doc
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func projectMilestones(ms []model.Milestone, c Context) Document {
	done := countCompletedMilestones(ms)
	late := overdueMilestones(ms, c)
	doc := Document{NewSection("Milestone Status", 2,
		fmt.Sprintf("Completed: %d", done),
		fmt.Sprintf("Pending: %d", len(ms)-done),
		fmt.Sprintf("Overdue: %d", len(late)),
	)}

	titles := func(list []model.Milestone) []string {
		out := make([]string, 0, len(list))
		for _, m := range list {
			out = append(out, milestoneLine(m, c))
		}
		return out
	}
	if recent := recentlyCompletedMilestones(ms, c, focusLimit); len(recent) > 0 {
		doc = append(doc, NewSection("Recently Completed", 3), NewList(false, titles(recent)...))
	}
	if next := upcomingMilestones(ms, c, focusLimit); len(next) > 0 {
		doc = append(doc, NewSection("Upcoming", 3), NewList(false, titles(next)...))
	}
	if len(late) > 0 {
		doc = append(doc, NewSection("Overdue", 3), NewList(false, titles(late)...))
	}
	return doc
}

const taskLimit = 5

func projectTasks(b *collect.Bundle) Document {
	if d := unavailable(b, model.SectionTodos, "Project Tasks"); d != nil {
		return d
	}
	if b.Todos == nil {
		return nil
	}
	done := len(todosWhere(b.Todos, func(t model.Todo) bool { return t.Completed }))
	doc := Document{NewSection("Project Tasks", 2,
		fmt.Sprintf("Completion: %d/%d (%d%%)", done, len(b.Todos), timecalc.Percent(done, len(b.Todos))))}

	if high := limited(todosWhere(b.Todos, isHighPending), taskLimit); len(high) > 0 {
		items := make([]string, 0, len(high))
		for _, t := range high {
			items = append(items, todoLine(t))
		}
		doc = append(doc, NewSection("High Priority Pending", 3), NewList(false, items...))
	}
	if recent := recentlyCompletedTodos(b.Todos, taskLimit); len(recent) > 0 {
		items := make([]string, 0, len(recent))
		for _, t := range recent {
			items = append(items, todoLine(t))
		}
		doc = append(doc, NewSection("Recently Completed", 3), NewList(false, items...))
	}
	return doc
}

func projectMeetings(b *collect.Bundle, c Context) Document {
	if d := unavailable(b, model.SectionMeetings, "Project Meetings"); d != nil {
		return d
	}
	if b.Meetings == nil {
		return nil
	}
	if len(b.Meetings) == 0 {
		return Document{NewSection("Project Meetings", 2, "No meetings in this period")}
	}

	recent := append([]model.Meeting(nil), b.Meetings...)
	loc := c.Location()
	sort.SliceStable(recent, func(i, j int) bool {
		return meetingStart(recent[i], loc).After(meetingStart(recent[j], loc))
	})
	items := make([]string, 0, focusLimit)
	for _, m := range limited(recent, focusLimit) {
		items = append(items, fmt.Sprintf("%s: %s", c.FormatDay(m.Date), m.Title))
	}
	return Document{NewSection("Project Meetings", 2), NewList(false, items...)}
}

func meetingStart(m model.Meeting, loc *time.Location) time.Time {
	t, _ := timecalc.ParseDayTime(m.Date, m.Time, loc)
	return t
}
