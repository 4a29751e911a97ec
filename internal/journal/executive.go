package journal

import (
	"fmt"
	"math"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// Meeting-load alert bounds in hours per day, assuming a 7-day span.
const (
	meetingHoursHigh = 6.0
	meetingHoursLow  = 2.0
	meetingSpanDays  = 7
)

func processExecutive(b *collect.Bundle, c Context) Document {
	doc := Document{NewHeader(1, "Executive Summary - "+c.RangeLabel)}
	s := statsOf(b, c)
	ms := milestones(b)

	doc = append(doc,
		NewSection("Key Metrics", 2),
		NewTable([]string{"Metric", "Value"}, [][]string{
			{"Task Completion", fmt.Sprintf("%d%%", s.Todos.CompletionRate)},
			{"Checklist Completion", fmt.Sprintf("%d%%", s.Checklist.AverageCompletion)},
			{"Meeting Load", fmt.Sprintf("%d meetings (%s)", s.Meetings.Total, timecalc.FormatMinutes(s.Meetings.TotalDuration))},
			{"Milestones Achieved", fmt.Sprintf("%d/%d", countCompletedMilestones(ms), len(ms))},
		}))

	progress := []string{"**Project:** " + projectName(b)}
	if b.Roadmap != nil {
		switch _, left, ph := timeline(b.Roadmap.Project, c); ph {
		case phaseActive:
			progress = append(progress, "Status: On Track", fmt.Sprintf("Days Remaining: %d", left))
		case phaseEnded:
			progress = append(progress, "Status: Past End Date", fmt.Sprintf("Days Overdue: %d", -left))
		}
	}
	doc = append(doc, NewSection("Strategic Progress", 2, progress...))
	var wins []string
	for _, t := range limited(todosWhere(b.Todos, isHighDone), focusLimit) {
		wins = append(wins, "✓ "+t.Text)
	}
	if len(wins) > 0 {
		doc = append(doc, NewList(false, wins...))
	}

	var critical []string
	for _, m := range overdueMilestones(ms, c) {
		critical = append(critical, "⚠ Overdue milestone: "+milestoneLine(m, c))
	}
	for _, t := range limited(todosWhere(b.Todos, isHighPending), taskLimit) {
		critical = append(critical, "🔥 High priority: "+t.Text)
	}
	if len(critical) == 0 {
		doc = append(doc, NewSection("Critical Items", 2, "No critical items"))
	} else {
		doc = append(doc, NewSection("Critical Items", 2), NewList(false, critical...))
	}

	if c.Options.IncludeInsights {
		doc = append(doc, NewSection("Executive Insights", 2), NewList(false, executiveInsights(s.Todos.CompletionRate, s.Checklist.AverageCompletion, s.Meetings.TotalDuration)...))
	}
	return doc
}

// executiveInsights rates overall performance and the meeting load.
func executiveInsights(taskRate, checklistRate, meetingMinutes int) []string {
	perf := int(math.Round(float64(taskRate+checklistRate) / 2))
	var out []string
	switch {
	case perf >= 80:
		out = append(out, fmt.Sprintf("Excellent performance: %d%% average completion", perf))
	case perf >= 65:
		out = append(out, fmt.Sprintf("Good performance: %d%% average completion", perf))
	case perf >= 50:
		out = append(out, fmt.Sprintf("Moderate performance: %d%% average completion", perf))
	default:
		out = append(out, fmt.Sprintf("Performance needs attention: %d%% average completion", perf))
	}

	daily := float64(meetingMinutes) / 60 / meetingSpanDays
	switch {
	case daily > meetingHoursHigh:
		out = append(out, fmt.Sprintf("High meeting load: %.1f hours per day", daily))
	case daily < meetingHoursLow:
		out = append(out, fmt.Sprintf("Low meeting load: %.1f hours per day leaves room for focus work", daily))
	}
	return out
}
