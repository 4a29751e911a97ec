package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
)

var (
	projectName        string
	projectDescription string
	projectStart       string
	projectEnd         string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Show or change the project the roadmap belongs to",
	Args:  cobra.NoArgs,
	RunE:  runProjectShow,
}

var projectSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Update the project; only the given flags change",
	Example: `  dwj project set --name "Apollo" --start 2026-10-01 --end 2026-12-31`,
	Args:    cobra.NoArgs,
	RunE:    runProjectSet,
}

func init() {
	projectSetCmd.Flags().StringVar(&projectName, "name", "", "Project name")
	projectSetCmd.Flags().StringVar(&projectDescription, "description", "", "Description")
	projectSetCmd.Flags().StringVar(&projectStart, "start", "", "Start date (YYYY-MM-DD)")
	projectSetCmd.Flags().StringVar(&projectEnd, "end", "", "End date (YYYY-MM-DD)")
	projectCmd.AddCommand(projectSetCmd)
}

func runProjectShow(cmd *cobra.Command, _ []string) error {
	p, err := storage.Value(cmd.Context(), store, model.KeyProject, model.ProjectConfig{})
	if err != nil {
		return ioErr(err)
	}
	if p.Name == "" {
		fmt.Println("No project configured. Use: dwj project set --name <name>")
		return nil
	}
	fmt.Println(titleStyle.Render(p.Name))
	if p.Description != "" {
		fmt.Println(row("Description", p.Description))
	}
	if p.StartDate != "" || p.EndDate != "" {
		fmt.Println(row("Timeline", fmt.Sprintf("%s to %s", orNone(p.StartDate), orNone(p.EndDate))))
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func runProjectSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	loc, err := location()
	if err != nil {
		return err
	}
	p, err := storage.Value(ctx, store, model.KeyProject, model.ProjectConfig{})
	if err != nil {
		return ioErr(err)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = projectName
	}
	if flags.Changed("description") {
		p.Description = projectDescription
	}
	now := time.Now()
	if flags.Changed("start") {
		if p.StartDate, err = parseDayFlag("start", projectStart, now, loc); err != nil {
			return err
		}
	}
	if flags.Changed("end") {
		if p.EndDate, err = parseDayFlag("end", projectEnd, now, loc); err != nil {
			return err
		}
	}
	if p.StartDate != "" && p.EndDate != "" && p.EndDate < p.StartDate {
		return userErr(fmt.Errorf("project end %s is before start %s", p.EndDate, p.StartDate))
	}

	if err := store.Set(ctx, model.KeyProject, p); err != nil {
		return ioErr(err)
	}
	fmt.Println(okStyle.Render("✓ Project saved"))
	return nil
}
