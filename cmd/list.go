package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

var listRange string

var listCmd = &cobra.Command{
	Use:       "list [todos|meetings|milestones]",
	Short:     "List records in a date range",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"todos", "meetings", "milestones"},
	RunE:      runList,
}

func init() {
	listCmd.Flags().StringVarP(&listRange, "range", "r", daterange.Today, "Date range: today, last7days, last30days, all")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()
	loc, err := location()
	if err != nil {
		return err
	}
	kind := ""
	if len(args) == 1 {
		if kind, err = storeFor(args[0]); err != nil {
			return err
		}
	}
	keyword, err := fixedRange(listRange)
	if err != nil {
		return err
	}
	r := daterange.Resolve(keyword, daterange.Bounds{}, now, loc)

	if kind == "" || kind == model.StoreTodos {
		todos, err := collect.CollectTodos(ctx, store, r)
		if err != nil {
			return ioErr(err)
		}
		printTodos(os.Stdout, todos)
	}
	if kind == "" || kind == model.StoreMeetings {
		meetings, err := collect.CollectMeetings(ctx, store, r, loc)
		if err != nil {
			return ioErr(err)
		}
		printMeetings(os.Stdout, meetings)
	}
	if kind == "" || kind == model.StoreMilestones {
		roadmap, err := collect.CollectRoadmap(ctx, store, r, loc)
		if err != nil {
			return ioErr(err)
		}
		printMilestones(os.Stdout, roadmap.Milestones)
	}
	return nil
}

func check(done bool) string {
	if done {
		return okStyle.Render("✓")
	}
	return "○"
}

func printTodos(w io.Writer, todos []model.Todo) {
	fmt.Fprintln(w, titleStyle.Render("Todos"))
	if len(todos) == 0 {
		fmt.Fprintln(w, "  No todos found.")
		return
	}
	for _, t := range todos {
		extra := []string{string(t.Priority)}
		if t.Category != "" {
			extra = append(extra, t.Category)
		}
		if t.DueDate != "" {
			extra = append(extra, "due "+t.DueDate)
		}
		fmt.Fprintf(w, "  %s %s  %s %s\n", check(t.Completed), dimStyle.Render(shortID(t.ID)), t.Text,
			dimStyle.Render("("+strings.Join(extra, ", ")+")"))
	}
}

func printMeetings(w io.Writer, meetings []model.Meeting) {
	fmt.Fprintln(w, titleStyle.Render("Meetings"))
	if len(meetings) == 0 {
		fmt.Fprintln(w, "  No meetings found.")
		return
	}
	for _, m := range meetings {
		when := m.Date
		if m.Time != "" {
			when += " " + m.Time
		}
		dur := ""
		if m.Duration > 0 {
			dur = " (" + timecalc.FormatMinutes(m.Duration) + ")"
		}
		fmt.Fprintf(w, "  %s %s  %s  %s%s\n", check(m.Completed), dimStyle.Render(shortID(m.ID)), when, m.Title, dur)
	}
}

func printMilestones(w io.Writer, ms []model.Milestone) {
	fmt.Fprintln(w, titleStyle.Render("Milestones"))
	if len(ms) == 0 {
		fmt.Fprintln(w, "  No milestones found.")
		return
	}
	for _, m := range ms {
		fmt.Fprintf(w, "  %s %s  %s  %s\n", check(m.Completed), dimStyle.Render(shortID(m.ID)), m.Date, m.Title)
	}
}
