// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/alvazir/jobasha-sub000/internal/config"

	"github.com/spf13/cobra"
)

// newSettingsCommand creates the `jobasha settings` command tree.
func newSettingsCommand(app *App) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the jobasha settings file",
		Long: `Manage the jobasha settings file.

Settings are stored in:
  - Linux: ~/.config/jobasha/jobasha.toml
  - macOS: ~/Library/Application Support/jobasha/jobasha.toml
  - Windows: %APPDATA%\jobasha\jobasha.toml

Command-line flags take precedence over the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, path, err := app.Settings.Load(cmd.Context(), config.LoadOptions{SettingsFilePath: settingsPath(cmd)})
			if err != nil {
				return err
			}
			data, err := config.Marshal(s)
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			source := SubtitleStyle.Render("(using defaults)")
			if _, statErr := os.Stat(path); statErr == nil {
				source = PathStyle.Render(path)
			}
			fmt.Fprintf(app.stderr, "%s: %s\n", TitleStyle.Render("Settings file"), source)
			_, err = app.stdout.Write(data)
			return err
		},
	})

	var noBackup bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SettingsPath(settingsPath(cmd))
			if err != nil {
				return err
			}
			if err := config.Save(path, config.DefaultSettings(), !noBackup); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s Settings written to %s\n", SuccessStyle.Render("✓"), PathStyle.Render(path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&noBackup, "no-backup", false, "replace an existing file without keeping a .backup copy")
	settingsCmd.AddCommand(initCmd)

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SettingsPath(settingsPath(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return settingsCmd
}
