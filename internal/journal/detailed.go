package journal

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/stats"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

func processDetailed(b *collect.Bundle, c Context) Document {
	doc := Document{NewHeader(1, "Detailed Work Journal - "+c.RangeLabel)}

	if c.Options.IncludeMetadata {
		doc = append(doc, NewSection("Export Metadata", 2, metadataLines(b, c)...))
	}

	doc = append(doc, processDaily(b, c).WithoutHeaders()...)
	doc = append(doc, processProject(b, c).WithoutHeaders()...)

	doc = append(doc, NewSection("Additional Analysis", 2,
		fmt.Sprintf("Total Data Points: %d", b.ItemCount())))

	if cats := categoryRows(b.Todos); len(cats) > 0 {
		doc = append(doc, NewSection("Task Categories", 3),
			NewTable([]string{"Category", "Tasks", "Share"}, cats))
	}
	if b.Checklist != nil {
		if rows := weekdayRows(b.Checklist.History, c.Location()); len(rows) > 0 {
			doc = append(doc, NewSection("Completion by Weekday", 3),
				NewTable([]string{"Weekday", "Days", "Average Completion"}, rows))
		}
	}
	return doc
}

func metadataLines(b *collect.Bundle, c Context) []string {
	sections := b.Info.IncludedSections
	if len(sections) == 0 {
		sections = c.Sections.Enabled()
	}
	out := []string{
		"Generated: " + c.FormatDate(c.Now) + " " + c.Now.In(c.Location()).Format("15:04"),
		fmt.Sprintf("Date Range: %s (%s to %s)", c.RangeLabel,
			timecalc.DayKey(c.Range.Start), timecalc.DayKey(c.Range.LastDay())),
		"Timezone: " + c.Location().String(),
		"Sections: " + orDash(strings.Join(sections, ", ")),
	}
	if c.Template != "" {
		out = append(out, "Template: "+c.Template)
	}
	if c.Format != "" {
		out = append(out, "Format: "+c.Format)
	}
	for _, name := range model.AllSections {
		if msg, ok := b.Errors[name]; ok {
			out = append(out, fmt.Sprintf("Error in %s: %s", name, msg))
		}
	}
	return out
}

// categoryRows is the todo category histogram, largest first.
func categoryRows(todos []model.Todo) [][]string {
	if len(todos) == 0 {
		return nil
	}
	hist := stats.Todos(todos).Categories
	names := make([]string, 0, len(hist))
	for n := range hist {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if hist[names[i]] != hist[names[j]] {
			return hist[names[i]] > hist[names[j]]
		}
		return names[i] < names[j]
	})
	caser := cases.Title(language.English)
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{
			caser.String(n),
			fmt.Sprint(hist[n]),
			fmt.Sprintf("%d%%", timecalc.Percent(hist[n], len(todos))),
		})
	}
	return rows
}

// weekdayRows groups checklist days by weekday and averages the per-day
// completion rate of each group, Monday first. Rates are rounded only once,
// after averaging.
func weekdayRows(history map[string]model.DayChecklist, loc *time.Location) [][]string {
	type acc struct {
		days  int
		ratio float64
	}
	groups := map[time.Weekday]*acc{}
	for key, day := range history {
		t, err := timecalc.ParseDay(key, loc)
		if err != nil {
			continue
		}
		g := groups[t.Weekday()]
		if g == nil {
			g = &acc{}
			groups[t.Weekday()] = g
		}
		g.days++
		if n := len(day.Items); n > 0 {
			g.ratio += float64(day.CompletedCount()) / float64(n)
		}
	}

	var rows [][]string
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		g, ok := groups[wd]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			wd.String(),
			fmt.Sprint(g.days),
			fmt.Sprintf("%d%%", int(math.Round(g.ratio/float64(g.days)*100))),
		})
	}
	return rows
}
