// SPDX-License-Identifier: MPL-2.0

package loadorder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/pkg/platform"
)

type (
	// Plugin is one resolved entry of the load order.
	Plugin struct {
		Name string
		Path string
	}

	// LoadOrder is the resolved input stream.
	LoadOrder struct {
		Config    *GameConfig
		DataRoots []string
		Plugins   []Plugin
		Dropped   []Dropped
		// Missing are plugins omitted under ignore_errors.
		Missing []string
	}

	// Resolver builds a LoadOrder from settings.
	Resolver struct {
		Settings *config.Settings
		Logger   *logging.Logger
		Env      platform.Env
		Now      time.Time
	}
)

// NewResolver creates a Resolver for the running process.
func NewResolver(s *config.Settings, logger *logging.Logger) *Resolver {
	return &Resolver{Settings: s, Logger: logger, Env: platform.CurrentEnv(), Now: time.Now()}
}

// Resolve finds and parses the game configuration, filters its plugin names
// and resolves the survivors against the data directories.
func (r *Resolver) Resolve(ctx context.Context) (*LoadOrder, error) {
	o, g := &r.Settings.Options, &r.Settings.Guts

	path, err := FindGameConfig(o.Config, g.ConfigSearchPaths, r.Env)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("find game configuration").
			WithIssue(issue.GameConfigNotFoundId).
			WithSuggestion("Pass the path of Morrowind.ini or openmw.cfg with --config").
			Wrap(err).
			BuildError()
	}

	cfg, err := ParseGameConfig(path, g)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse game configuration").
			WithResource(path).
			WithIssue(issue.GameConfigParseErrorId).
			Wrap(err).
			BuildError()
	}
	r.Logger.Debug("Game configuration", "path", path, "dialect", cfg.Dialect, "plugins", len(cfg.Content))

	lo := &LoadOrder{Config: cfg, DataRoots: r.dataRoots(cfg)}

	kept, dropped := Filter(cfg.Content, r.filterRules())
	lo.Dropped = dropped
	for _, d := range dropped {
		r.Logger.Debug("Plugin filtered out", "plugin", d.Name, "reason", d.Reason)
	}

	catalog, _, scanErrs := EnumeratePlugins(ctx, lo.DataRoots, g.PluginExtensions, g.PluginExtensionsToIgnore)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve load order canceled: %w", err)
	}
	for _, scanErr := range scanErrs {
		if !o.IgnoreErrors {
			return nil, issue.NewErrorContext().
				WithOperation("read data directories").
				WithResource(path).
				WithSuggestion("Check that every data directory exists and is readable").
				WithSuggestion("Run with --ignore-errors to continue without it").
				Wrap(scanErr).
				BuildError()
		}
		r.Logger.Warn("Data directory skipped", "error", scanErr)
	}

	for _, name := range kept {
		found, ok := catalog.Lookup(name)
		if !ok {
			resolveErr := &ResolveError{Plugin: name, Config: path}
			if !o.IgnoreErrors {
				return nil, issue.NewErrorContext().
					WithOperation("resolve load order").
					WithResource(path).
					WithIssue(issue.PluginNotFoundId).
					Wrap(resolveErr).
					BuildError()
			}
			r.Logger.Warn("Plugin omitted", "error", resolveErr)
			lo.Missing = append(lo.Missing, name)
			continue
		}
		lo.Plugins = append(lo.Plugins, Plugin{Name: found.Name, Path: found.Path})
	}

	if len(lo.Plugins) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("resolve load order").
			WithResource(path).
			WithIssue(issue.EmptyLoadOrderId).
			Wrap(&EmptyLoadOrderError{Config: path, Dropped: len(dropped) + len(lo.Missing)}).
			BuildError()
	}
	return lo, nil
}

// dataRoots returns the declared roots followed by the hidden OpenMW user
// data directories and the configured extras that exist.
func (r *Resolver) dataRoots(cfg *GameConfig) []string {
	roots := append([]string(nil), cfg.DataRoots...)
	var hidden []string
	if cfg.Dialect == DialectOpenMW {
		hidden = append(hidden, platform.HiddenDataDirs(r.Env)...)
	}
	hidden = append(hidden, r.Settings.Guts.HiddenDataDirs...)
	for _, dir := range hidden {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Logger.Debug("Hidden data directory added", "dir", dir)
			roots = append(roots, dir)
		}
	}
	return roots
}

func (r *Resolver) filterRules() FilterRules {
	s := r.Settings
	rules := FilterRules{
		OutputName:        s.OutputName(r.Now),
		OutputFamily:      s.OutputFamilyPrefix(),
		Skip:              append([]string(nil), s.Options.Skip...),
		IgnoredExtensions: s.Guts.PluginExtensionsToIgnore,
		SkipLast:          s.Options.SkipLast,
	}
	if s.DelevSeparate() {
		rules.DelevName = s.DelevOutputName(r.Now)
		rules.DelevFamily = s.DelevFamilyPrefix()
	}
	if !s.Options.NoSkipDefault {
		rules.Skip = append(rules.Skip, s.Guts.SkipDefault...)
	}
	return rules
}

