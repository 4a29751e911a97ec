package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/stats"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

var (
	statsRange  string
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated statistics and insights",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsRange, "range", "r", daterange.Last7Days, "Date range: today, last7days, last30days, all")
	statsCmd.Flags().StringVar(&statsFormat, "format", "md", "Output format: md, json")
}

func runStats(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	loc, err := location()
	if err != nil {
		return err
	}
	keyword, err := fixedRange(statsRange)
	if err != nil {
		return err
	}
	r := daterange.Resolve(keyword, daterange.Bounds{}, now, loc)
	st, err := collect.CollectStatistics(cmd.Context(), store, r, now, loc)
	if err != nil {
		return ioErr(err)
	}
	insights := stats.GenerateInsights(*st, r.Days())

	switch statsFormat {
	case "json":
		data, err := json.MarshalIndent(struct {
			Range      string           `json:"range"`
			Statistics stats.Statistics `json:"statistics"`
			Insights   []stats.Insight  `json:"insights"`
		}{daterange.Label(keyword, r), *st, insights}, "", "  ")
		if err != nil {
			return ioErr(fmt.Errorf("encoding JSON: %w", err))
		}
		fmt.Println(string(data))
	case "md":
		printStats(os.Stdout, daterange.Label(keyword, r), *st, insights)
	default:
		return userErr(fmt.Errorf("unknown format %q: use md or json", statsFormat))
	}
	return nil
}

func printStats(w io.Writer, label string, st stats.Statistics, insights []stats.Insight) {
	fmt.Fprintln(w, titleStyle.Render(label))
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-20s%d/%d (%d%%)\n", "Tasks", st.Todos.Completed, st.Todos.Total, st.Todos.CompletionRate)
	fmt.Fprintf(w, "%-20s%d\n", "High priority", st.Todos.HighPriority)
	fmt.Fprintf(w, "%-20s%d (%s)\n", "Meetings", st.Meetings.Total, timecalc.FormatMinutes(st.Meetings.TotalDuration))
	fmt.Fprintf(w, "%-20s%d%% over %d days\n", "Checklist", st.Checklist.AverageCompletion, st.Checklist.TotalDays)

	if len(st.Todos.Categories) > 0 {
		fmt.Fprintln(w, "--------------------------------")
		cats := make([]string, 0, len(st.Todos.Categories))
		for c := range st.Todos.Categories {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(w, "%-20s%d\n", c, st.Todos.Categories[c])
		}
	}

	if len(insights) > 0 {
		fmt.Fprintln(w, "--------------------------------")
		for _, in := range insights {
			fmt.Fprintf(w, "%s %s: %s\n", in.Icon, in.Category, in.Message)
		}
	}
}
