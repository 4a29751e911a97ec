package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/config"
	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/model"
)

var (
	scheduleCron   string
	scheduleOutput string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Export on a cron schedule until interrupted",
	Long: `Schedule runs exports on the cron expression from --cron or the [schedule]
section of the config file. Every run uses the saved export settings, with the
format, template and date range of the [schedule] section taking precedence.`,
	Example: `  dwj schedule --cron "0 18 * * 1-5"
  dwj schedule --cron @daily -o ~/journals`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "Cron expression (default from config)")
	scheduleCmd.Flags().StringVarP(&scheduleOutput, "output", "o", "", "Output directory (default from config)")
}

// scheduledSettings overlays the [schedule] config section on s.
func scheduledSettings(s model.ExportSettings, sc config.ScheduleConfig) model.ExportSettings {
	if sc.Format != "" {
		s.DefaultFormat = sc.Format
	}
	if sc.Template != "" {
		s.JournalTemplate = sc.Template
	}
	if sc.DateRange != "" {
		s.DateRange = sc.DateRange
	}
	return s
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	loc, err := location()
	if err != nil {
		return err
	}
	spec := scheduleCron
	if spec == "" {
		spec = cfg.Schedule.Cron
	}

	e := export.New(store, newSaver(scheduleOutput))
	sched, err := export.NewScheduler(e, spec, loc, func(ctx context.Context) (model.ExportSettings, error) {
		s, err := loadSettings(ctx)
		return scheduledSettings(s, cfg.Schedule), err
	})
	if err != nil {
		return userErr(err)
	}

	fmt.Printf("Scheduled exports on %q (%s). Press Ctrl+C to stop.\n", spec, loc)
	sched.Run(cmd.Context())
	fmt.Println("Scheduler stopped.")
	return nil
}
