package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/config"
	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/logs"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
)

var dataDirFlag string

// Loaded by the persistent pre-run hook for every subcommand.
var (
	cfg   config.Config
	store storage.Store
)

var rootCmd = &cobra.Command{
	Use:   "dwj",
	Short: "Daily Work Journal – turn your work records into journals",
	Long: `dwj keeps todos, meetings, checklists and a project roadmap and exports
them as daily, weekly, project, executive or detailed journals in text,
Markdown, HTML, JSON or CSV. Data lives in ~/.dwj/ (or $DWJ_DATA_DIR).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { teardown() },
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		teardown()
		fmt.Fprintln(os.Stderr, errStyle.Render("Error:"), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default $DWJ_DATA_DIR or ~/.dwj)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(outlookCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	dir := dataDirFlag
	if dir == "" {
		d, err := config.DefaultDataDir()
		if err != nil {
			return ioErr(err)
		}
		dir = d
	}
	c, err := config.LoadFrom(dir)
	if err != nil {
		return userErr(err)
	}
	cfg = c

	if cfg.LogFile {
		if err := logs.Initialize(cfg.DataDir); err != nil {
			return ioErr(err)
		}
	}
	s, err := openStore(cfg)
	if err != nil {
		return ioErr(err)
	}
	store = s
	return nil
}

func teardown() {
	if store != nil {
		if err := store.Close(); err != nil {
			logs.Logger.Printf("closing store: %v", err)
		}
		store = nil
	}
	_ = logs.Close()
}

// openStore returns the backend selected in the config.
func openStore(c config.Config) (storage.Store, error) {
	if c.Backend == config.BackendSQLite {
		return storage.NewSQLStore(c.Database())
	}
	return storage.NewFileStore(c.DataDir)
}

// exitError carries the process exit code of a failed command:
// 1 for user errors, 2 for storage and I/O errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error { return &exitError{code: 1, err: err} }
func ioErr(err error) error   { return &exitError{code: 2, err: err} }

// failed maps an export error to its exit code.
func failed(err error) error {
	var ce *export.ConfigError
	if errors.As(err, &ce) || errors.Is(err, export.ErrExportInProgress) {
		return userErr(err)
	}
	return ioErr(err)
}

func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return 1
}
