// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// settingsFlag names the persistent flag selecting the settings file.
const settingsFlag = "settings"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jobasha",
		Short: "Merge and delevel the leveled lists of a Morrowind load order",
		Long: TitleStyle.Render("jobasha") + SubtitleStyle.Render(" - leveled list merger and deleveler") + `

jobasha reads the load order of Morrowind.ini or openmw.cfg, merges every
leveled creature and item list touched by more than one plugin, and writes
the result as a plugin to be loaded last. It can also lower the levels at
which list entries appear.

` + SubtitleStyle.Render("Examples:") + `
  jobasha                            Merge lists of the detected game
  jobasha --config ~/openmw.cfg      Use an explicit game configuration
  jobasha --delev --delev-to 5       Merge and delevel to level 5
  jobasha --compare-only             Report what a new merge would change
  jobasha settings init              Write the default settings file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, app)
		},
	}

	rootCmd.PersistentFlags().String(settingsFlag, "", "settings file (default is <user config dir>/jobasha/jobasha.toml)")
	registerOptionFlags(rootCmd.Flags())

	rootCmd.AddCommand(newSettingsCommand(app))
	rootCmd.AddCommand(newDumpCommand(app))
	rootCmd.AddCommand(newCompareCommand(app))
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFatal))
	}
}

// errorHandler prints err the fang way, followed by the catalog guidance of
// its issue. A bare ExitError only carries a status and prints nothing.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
	renderIssue(w, err)
}

// renderIssue renders the issue catalog entry linked to err, if any.
func renderIssue(w io.Writer, err error) {
	renderEntry(w, issue.IssueOf(err))
}

// renderEntry renders a catalog entry through glamour; nil prints nothing.
func renderEntry(w io.Writer, entry *issue.Issue) {
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render("dark")
	if renderErr != nil {
		fmt.Fprintln(w, WarningStyle.Render("Warning: ")+"failed to render guidance: "+renderErr.Error())
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func settingsPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString(settingsFlag)
	return path
}
