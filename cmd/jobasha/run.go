// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/internal/pipeline"

	"github.com/spf13/cobra"
)

// runMerge loads settings, runs one pipeline pass and maps its outcome to
// the exit status.
func runMerge(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	s, _, err := app.Settings.Load(ctx, config.LoadOptions{
		SettingsFilePath: settingsPath(cmd),
		Flags:            cmd.Flags(),
	})
	if err != nil {
		return err
	}

	logPath := s.LogPath()
	if s.Options.DryRun {
		logPath = ""
	}
	logger, err := logging.New(logging.Options{
		Console:  app.stderr,
		Verbose:  s.Options.Verbose,
		Color:    s.Options.Color,
		FilePath: logPath,
		Backup:   !s.Options.NoBackup,
	})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("open log file").
			WithResource(logPath).
			WithSuggestion("Choose another location with --log").
			WithSuggestion("Disable the log file with --no-log").
			Wrap(err).
			BuildError()
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+"failed to close log file: "+closeErr.Error())
		}
	}()

	out, err := pipeline.Run(ctx, s, pipeline.Deps{Logger: logger, Progress: app.progressBar(s)})
	if err != nil {
		logger.FileOnly("Run failed", "error", formatErrorForDisplay(err, true))
		return err
	}

	printSummary(app.stdout, out, logger.Path())
	if code := out.ExitCode(); !code.IsSuccess() {
		cmd.SilenceUsage = true
		return &ExitError{Code: code}
	}
	return nil
}

func printSummary(w io.Writer, out *pipeline.Outcome, logPath string) {
	st := out.Plan.Stats
	fmt.Fprintf(w, "%s %d plugins read, %d lists placed, %d deleveled, %d untouched\n",
		SuccessStyle.Render("✓"), len(out.Read.Loaded), st.Merged+st.DelevPlaced, st.Deleveled, st.Untouched)
	for _, path := range out.Written {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("output"), PathStyle.Render(path))
	}
	for _, c := range out.Comparisons {
		r := c.Result
		switch {
		case r.Unavailable != "":
			fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("compare"), r.Unavailable)
		case r.Equal():
			fmt.Fprintf(w, "  %s %s unchanged\n", SubtitleStyle.Render("compare"), PathStyle.Render(c.Output))
		default:
			fmt.Fprintf(w, "  %s %s %s\n", SubtitleStyle.Render("compare"), PathStyle.Render(c.Output), WarningStyle.Render(r.SummaryLine()))
		}
	}
	if out.Plan.Warning {
		fmt.Fprintf(w, "%s deletion threshold warnings were raised\n", WarningStyle.Render("!"))
		renderEntry(w, issue.Get(issue.ThresholdExceededId))
	}
	if logPath != "" {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("log"), PathStyle.Render(logPath))
	}
}
