package journal

import (
	"fmt"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

const focusLimit = 3

func processWeekly(b *collect.Bundle, c Context) Document {
	doc := Document{NewHeader(1, "Weekly Journal - "+c.RangeLabel)}
	s := statsOf(b, c)

	overview := []string{
		fmt.Sprintf("Tasks: %d/%d completed (%d%%)", s.Todos.Completed, s.Todos.Total, s.Todos.CompletionRate),
		fmt.Sprintf("Meetings: %d (%s total)", s.Meetings.Total, timecalc.FormatMinutes(s.Meetings.TotalDuration)),
		fmt.Sprintf("Checklist: %d%% average completion over %d days", s.Checklist.AverageCompletion, s.Checklist.TotalDays),
	}
	if ms := milestones(b); b.Roadmap != nil {
		overview = append(overview, fmt.Sprintf("Milestones: %d/%d completed", countCompletedMilestones(ms), len(ms)))
	}
	doc = append(doc, NewSection("Week Overview", 2, overview...))

	doc = append(doc, weeklyBreakdown(b, c)...)

	var wins []string
	for _, t := range todosWhere(b.Todos, isHighDone) {
		wins = append(wins, "✓ "+t.Text)
	}
	for _, m := range milestones(b) {
		if m.Completed {
			wins = append(wins, "🏁 "+m.Title)
		}
	}
	if len(wins) == 0 {
		doc = append(doc, NewSection("Accomplishments", 2, "No major accomplishments recorded"))
	} else {
		doc = append(doc, NewSection("Accomplishments", 2), NewList(false, wins...))
	}

	var focus []string
	for _, t := range limited(todosWhere(b.Todos, isHighPending), focusLimit) {
		focus = append(focus, "→ "+t.Text)
	}
	for _, m := range upcomingMilestones(milestones(b), c, focusLimit) {
		focus = append(focus, "📅 "+milestoneLine(m, c))
	}
	if len(focus) == 0 {
		doc = append(doc, NewSection("Next Week Focus", 2, "Nothing urgent queued"))
	} else {
		doc = append(doc, NewSection("Next Week Focus", 2), NewList(true, focus...))
	}

	if c.Options.IncludeInsights {
		if ins := insightsOf(b, c); len(ins) > 0 {
			doc = append(doc, NewSection("Weekly Insights", 2), NewList(false, insightLines(ins, true)...))
		}
	}
	return doc
}

// weeklyBreakdown lists one line per checklist day, oldest first.
func weeklyBreakdown(b *collect.Bundle, c Context) Document {
	if d := unavailable(b, model.SectionChecklist, "Daily Breakdown"); d != nil {
		return d
	}
	if b.Checklist == nil {
		return nil
	}
	if len(b.Checklist.History) == 0 {
		return Document{NewSection("Daily Breakdown", 2, "No checklist data for this period")}
	}

	loc := c.Location()
	var items []string
	for _, key := range sortedKeys(b.Checklist.History) {
		day := b.Checklist.History[key]
		done, total := day.CompletedCount(), len(day.Items)
		weekday := "Unknown"
		if t, err := timecalc.ParseDay(key, loc); err == nil {
			weekday = t.Weekday().String()
		}
		items = append(items, fmt.Sprintf("%s %s: %d/%d (%d%%)",
			weekday, key, done, total, timecalc.Percent(done, total)))
	}
	return Document{NewSection("Daily Breakdown", 2), NewList(false, items...)}
}
