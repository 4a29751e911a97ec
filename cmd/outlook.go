package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/msgraph"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as meetings",
	Long: `Sync imports the events of your Outlook calendar as meetings. Events are
matched by their Outlook ID, so running sync again updates changed events and
never duplicates them. Cancelled, all-day, private and free events are skipped.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date, inclusive (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncWindow returns the half-open window [from, to) selected by the flags.
func syncWindow(date, fromDay, toDay string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	parse := func(flag, v string) (time.Time, error) {
		t, err := time.ParseInLocation(timecalc.DayLayout, v, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --%s value %q: want YYYY-MM-DD", flag, v)
		}
		return t, nil
	}
	now = now.In(loc)

	switch {
	case date != "":
		d, err := parse("date", date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, timecalc.Midnight(d), nil

	case fromDay != "" || toDay != "":
		if fromDay == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		from, err := parse("from", fromDay)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to := timecalc.Midnight(now)
		if toDay != "" {
			t, err := parse("to", toDay)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			to = timecalc.Midnight(t)
		}
		if !to.After(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toDay, fromDay)
		}
		return from, to, nil
	}
	return timecalc.StartOfDay(now), timecalc.Midnight(now), nil
}

func runOutlookSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = cfg.Outlook.Timezone
	}
	loc, err := timecalc.LoadLocation(timezone)
	if err != nil {
		return userErr(err)
	}
	from, to, err := syncWindow(outlookSyncDate, outlookSyncFrom, outlookSyncTo, now, loc)
	if err != nil {
		return userErr(err)
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		timecalc.DayKey(from), timecalc.DayKey(to.Add(-time.Nanosecond)), dryTag)
	fmt.Println()

	oauthCfg := msgraph.OAuth2Config(cfg.Outlook.TenantID, cfg.Outlook.ClientID)
	tokens := msgraph.DefaultTokenFile(cfg.DataDir)
	tok, err := msgraph.Authenticate(ctx, oauthCfg, tokens, os.Stdout)
	if err != nil {
		return userErr(fmt.Errorf("authentication failed: %w", err))
	}
	client := msgraph.NewClient(ctx, tok, oauthCfg, tokens)

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return ioErr(fmt.Errorf("failed to fetch calendar events: %w", err))
	}

	result, err := msgraph.SyncEvents(ctx, store, events, msgraph.SyncOptions{
		DryRun:   outlookSyncDryRun,
		Location: loc,
		Now:      now,
		Out:      os.Stdout,
	})
	if err != nil {
		return ioErr(fmt.Errorf("sync error: %w", err))
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Summary:"))
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	if result.Errors > 0 {
		return ioErr(fmt.Errorf("%d events could not be imported", result.Errors))
	}
	return nil
}
