package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/journal"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress at a glance",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()
	loc, err := location()
	if err != nil {
		return err
	}
	now = now.In(loc)
	today := daterange.Resolve(daterange.Today, daterange.Bounds{}, now, loc)

	st, err := collect.CollectStatistics(ctx, store, today, now, loc)
	if err != nil {
		return ioErr(err)
	}

	fmt.Println(titleStyle.Render("Today – " + journal.FormatDate(now, journal.DateLong, now)))
	fmt.Println(row("Tasks", fmt.Sprintf("%d/%d completed (%d%%)", st.Todos.Completed, st.Todos.Total, st.Todos.CompletionRate)))
	fmt.Println(row("Meetings", fmt.Sprintf("%d total, %d upcoming (%s)",
		st.Meetings.Total, st.Meetings.Upcoming, timecalc.FormatMinutes(st.Meetings.TotalDuration))))
	fmt.Println(row("Checklist", fmt.Sprintf("%d/%d items (%d%%)",
		st.Checklist.CompletedItems, st.Checklist.TotalItems, st.Checklist.AverageCompletion)))

	future := daterange.Range{Start: today.Start, End: today.Start.AddDate(1, 0, 0)}
	roadmap, err := collect.CollectRoadmap(ctx, store, future, loc)
	if err != nil {
		return ioErr(err)
	}
	for _, m := range roadmap.Milestones {
		if m.Completed {
			continue
		}
		due, err := timecalc.ParseDay(m.Date, loc)
		if err != nil {
			continue
		}
		fmt.Println(row("Next", fmt.Sprintf("🏁 %s (%s, %s)", m.Title, m.Date, journal.FormatDate(due, journal.DateRelative, now))))
		break
	}

	history, err := export.LoadHistory(ctx, store)
	if err != nil {
		return ioErr(err)
	}
	if n := len(history); n > 0 {
		last := history[n-1]
		fmt.Println(row("Last export", fmt.Sprintf("%s (%s)", last.Filename, humanize.Time(last.Timestamp))))
	}
	return nil
}
