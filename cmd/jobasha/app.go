// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/progress"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App reference and reach settings and output streams through it.
	App struct {
		Settings config.Provider
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Settings config.Provider
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{Settings: deps.Settings, stdout: deps.Stdout, stderr: deps.Stderr}
	if app.Settings == nil {
		app.Settings = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// progressBar returns a bar drawing on stderr, or nil when stderr is not a
// terminal or verbose output would interleave with it.
func (a *App) progressBar(s *config.Settings) *progress.Bar {
	f, ok := a.stderr.(*os.File)
	if !ok || s.Options.Verbose {
		return nil
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return nil
	}
	profile := termenv.EnvColorProfile()
	switch s.Options.Color {
	case config.ColorNever:
		profile = termenv.Ascii
	case config.ColorAlways:
		profile = termenv.ANSI256
	}
	return progress.New(f, progress.Options{
		Width:   s.Guts.ProgressWidth,
		Label:   "Reading plugins",
		Profile: profile,
	})
}
