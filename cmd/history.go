package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/model"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent exports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of exports to show (0 = all)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	history, err := export.LoadHistory(cmd.Context(), store)
	if err != nil {
		return ioErr(err)
	}
	printHistory(os.Stdout, history, historyLimit)
	return nil
}

func printHistory(w io.Writer, history []model.ExportHistoryRecord, limit int) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No exports yet.")
		return
	}
	recent := slices.Clone(history)
	slices.Reverse(recent)
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	for _, rec := range recent {
		fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(rec.Filename), dimStyle.Render(humanize.Time(rec.Timestamp)))
		fmt.Fprintf(w, "  %-9s %-11s %4d items  %s\n", rec.Format, rec.DateRange, rec.ItemCount, rec.SaveMethod)
	}
	if len(history) > len(recent) {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("… %d older", len(history)-len(recent))))
	}
}
