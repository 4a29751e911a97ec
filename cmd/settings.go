package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/daily-work-journal/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved export settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the export settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings(cmd.Context())
		if err != nil {
			return ioErr(err)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return ioErr(err)
		}
		return enc.Close()
	},
}

var settingsOpts exportFlags

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the export settings without exporting",
	Example: `  dwj settings set --format html --template weekly
  dwj settings set --sections todos,meetings --detailed`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := loadSettings(ctx)
		if err != nil {
			return ioErr(err)
		}
		s, err = settingsOpts.apply(s, cmd.Flags().Changed)
		if err != nil {
			return userErr(err)
		}
		if err := store.Set(ctx, model.KeyExportSettings, s); err != nil {
			return ioErr(err)
		}
		fmt.Println(okStyle.Render("✓ Settings saved"))
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default export settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := model.DefaultExportSettings()
		if cfg.Timezone != "" {
			s.Timezone = cfg.Timezone
		}
		if err := store.Set(cmd.Context(), model.KeyExportSettings, s); err != nil {
			return ioErr(err)
		}
		fmt.Println(okStyle.Render("✓ Settings reset to defaults"))
		return nil
	},
}

func init() {
	settingsOpts.register(settingsSetCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd)
}
