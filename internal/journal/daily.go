package journal

import (
	"fmt"
	"strings"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// processDaily reports on today. Tasks and meetings are taken from the bundle
// as collected for the export range; the checklist is read for today's key
// only.
func processDaily(b *collect.Bundle, c Context) Document {
	today := c.Today()
	doc := Document{NewHeader(1, "Daily Work Journal - "+c.FormatDate(today))}

	todayChecklist, hasChecklist := model.DayChecklist{}, false
	if b.Checklist != nil {
		todayChecklist, hasChecklist = b.Checklist.History[timecalc.DayKey(today)]
	}

	if c.Options.IncludeSummary {
		doneTodos := len(todosWhere(b.Todos, func(t model.Todo) bool { return t.Completed }))
		doneMeetings := 0
		for _, m := range b.Meetings {
			if m.Completed {
				doneMeetings++
			}
		}
		doc = append(doc, NewSection("Executive Summary", 2,
			fmt.Sprintf("Tasks: %d/%d completed", doneTodos, len(b.Todos)),
			fmt.Sprintf("Meetings: %d/%d completed", doneMeetings, len(b.Meetings)),
			fmt.Sprintf("Checklist: %d%% complete",
				timecalc.Percent(todayChecklist.CompletedCount(), len(todayChecklist.Items))),
		))
	}

	doc = append(doc, dailyTasks(b, c)...)
	doc = append(doc, dailyMeetings(b, c)...)
	doc = append(doc, dailyChecklist(b, todayChecklist, hasChecklist)...)
	doc = append(doc, dailyRoadmap(b, c)...)

	if c.Options.IncludeInsights {
		if ins := insightsOf(b, c); len(ins) > 0 {
			doc = append(doc, NewSection("Insights", 2), NewList(false, insightLines(ins, false)...))
		}
	}
	return doc
}

func dailyTasks(b *collect.Bundle, c Context) Document {
	if d := unavailable(b, model.SectionTodos, "Today's Tasks"); d != nil {
		return d
	}
	if b.Todos == nil {
		return nil
	}
	if len(b.Todos) == 0 {
		return Document{NewSection("Today's Tasks", 2, "No tasks recorded")}
	}

	doc := Document{NewSection("Today's Tasks", 2)}
	done := todosWhere(b.Todos, func(t model.Todo) bool { return t.Completed })
	pending := todosWhere(b.Todos, func(t model.Todo) bool { return !t.Completed })
	for _, group := range []struct {
		title string
		todos []model.Todo
	}{{"Completed", done}, {"Pending", pending}} {
		if len(group.todos) == 0 {
			continue
		}
		items := make([]string, 0, len(group.todos))
		for _, t := range group.todos {
			line := todoLine(t)
			if c.Options.DetailedFormatting && t.DueDate != "" {
				line += " - due " + c.FormatDay(t.DueDate)
			}
			items = append(items, line)
		}
		doc = append(doc,
			NewSection(fmt.Sprintf("%s (%d)", group.title, len(group.todos)), 3),
			NewList(false, items...))
	}
	return doc
}

func dailyMeetings(b *collect.Bundle, c Context) Document {
	if d := unavailable(b, model.SectionMeetings, "Today's Meetings"); d != nil {
		return d
	}
	if b.Meetings == nil {
		return nil
	}
	if len(b.Meetings) == 0 {
		return Document{NewSection("Today's Meetings", 2, "No meetings scheduled")}
	}

	items := make([]string, 0, len(b.Meetings))
	for _, m := range b.Meetings {
		line := meetingLine(m, c)
		if c.Options.DetailedFormatting {
			if len(m.Attendees) > 0 {
				line += " with " + strings.Join(m.Attendees, ", ")
			}
			if m.Notes != "" {
				line += " - " + m.Notes
			}
			if len(m.ActionItems) > 0 {
				line += " → " + strings.Join(m.ActionItems, "; ")
			}
		}
		items = append(items, line)
	}
	return Document{NewSection("Today's Meetings", 2), NewList(false, items...)}
}

func dailyChecklist(b *collect.Bundle, today model.DayChecklist, ok bool) Document {
	if d := unavailable(b, model.SectionChecklist, "Checklist Progress"); d != nil {
		return d
	}
	if b.Checklist == nil {
		return nil
	}
	if !ok || len(today.Items) == 0 {
		return Document{NewSection("Checklist Progress", 2, "No checklist data for today")}
	}

	done := today.CompletedCount()
	items := make([]string, 0, len(today.Items))
	for _, it := range today.Items {
		mark := "[ ]"
		if it.Completed {
			mark = "[x]"
		}
		items = append(items, mark+" "+it.Text)
	}
	return Document{
		NewSection("Checklist Progress", 2,
			fmt.Sprintf("%d/%d items completed (%d%%)", done, len(today.Items), timecalc.Percent(done, len(today.Items)))),
		NewList(false, items...),
	}
}

func dailyRoadmap(b *collect.Bundle, c Context) Document {
	if d := unavailable(b, model.SectionRoadmap, "Roadmap Progress"); d != nil {
		return d
	}
	if b.Roadmap == nil {
		return nil
	}
	ms := b.Roadmap.Milestones
	content := []string{
		"**Project:** " + projectName(b),
		fmt.Sprintf("Milestones: %d/%d completed", countCompletedMilestones(ms), len(ms)),
	}
	if next := upcomingMilestones(ms, c, 1); len(next) > 0 {
		content = append(content, "Next milestone: "+milestoneLine(next[0], c))
	}
	if n := len(overdueMilestones(ms, c)); n > 0 {
		content = append(content, fmt.Sprintf("Overdue milestones: %d", n))
	}
	return Document{NewSection("Roadmap Progress", 2, content...)}
}
