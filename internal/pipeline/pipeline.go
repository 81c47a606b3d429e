// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/alvazir/jobasha-sub000/internal/aggregate"
	"github.com/alvazir/jobasha-sub000/internal/compare"
	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/emit"
	"github.com/alvazir/jobasha-sub000/internal/loadorder"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/internal/plan"
	"github.com/alvazir/jobasha-sub000/internal/progress"
	"github.com/alvazir/jobasha-sub000/internal/reader"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/platform"
	"github.com/alvazir/jobasha-sub000/pkg/types"
)

type (
	// Deps are the collaborators of Run. The zero value is usable.
	Deps struct {
		Logger *logging.Logger
		// Env overrides the platform environment used to locate the game
		// configuration.
		Env *platform.Env
		// Now dates the outputs. Zero means time.Now().
		Now time.Time
		// Rand seeds random deleveling.
		Rand *rand.Rand
		// Progress shows plugin reading. Nil disables it.
		Progress *progress.Bar
	}

	// Comparison is the comparison of one output with its peer.
	Comparison struct {
		Output string
		Peer   string
		Result *compare.Result
	}

	// Outcome summarizes a run.
	Outcome struct {
		LoadOrder   *loadorder.LoadOrder
		Read        *reader.Result
		Duplicates  []aggregate.Duplicate
		Plan        *plan.Plan
		Outputs     *emit.Result
		Written     []string
		Comparisons []Comparison
		CompareOnly bool
	}

	target struct {
		name   string
		peer   string
		output *emit.Output
	}
)

// Differences reports whether any comparison found a difference. Outputs
// without a usable peer do not count.
func (o *Outcome) Differences() bool {
	for _, c := range o.Comparisons {
		if c.Result.Unavailable == "" && !c.Result.Equal() {
			return true
		}
	}
	return false
}

// ExitCode maps the outcome to the process exit status.
func (o *Outcome) ExitCode() types.ExitCode {
	code := types.ExitSuccess
	if o.Plan != nil && o.Plan.Warning {
		code = code.Max(types.ExitWarnings)
	}
	if o.CompareOnly && o.Differences() {
		code = code.Max(types.ExitDifferences)
	}
	return code
}

// Run executes one pass with settings s.
func Run(ctx context.Context, s *config.Settings, deps Deps) (*Outcome, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := deps.Now
	if now.IsZero() {
		now = time.Now()
	}
	out := &Outcome{CompareOnly: s.Options.CompareOnly}

	resolver := loadorder.NewResolver(s, logger)
	resolver.Now = now
	if deps.Env != nil {
		resolver.Env = *deps.Env
	}
	lo, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	out.LoadOrder = lo
	logger.Info("Load order resolved", "config", lo.Config.Path, "plugins", len(lo.Plugins),
		"filtered", len(lo.Dropped), "missing", len(lo.Missing))

	rd := reader.New(s, logger)
	rd.Tick = deps.Progress.Tick()
	read, err := rd.Read(ctx, lo)
	deps.Progress.Clear()
	if err != nil {
		return nil, fmt.Errorf("read plugins: %w", err)
	}
	out.Read = read
	logger.Info("Plugins read", "plugins", len(read.Loaded), "skipped", len(read.Skipped), "records", read.Records)

	lists, err := aggregateLists(ctx, s, read, logger, out)
	if err != nil {
		return nil, err
	}

	planner := plan.New(s, logger)
	planner.Rand = deps.Rand
	p, err := planner.Plan(ctx, lists)
	if err != nil {
		return nil, err
	}
	out.Plan = p
	st := p.Stats
	logger.Info("Lists planned", "lists", st.Lists, "placed", st.Merged, "untouched", st.Untouched,
		"single", st.SingleSkipped, "deleveled", st.Deleveled, "deletions", st.DeletedEntries,
		"resolved", st.Resolved, "warnings", st.Warnings)

	res, err := emit.NewBuilder(s, logger, now).Build(p)
	if err != nil {
		return nil, err
	}
	out.Outputs = res

	writer := emit.NewWriter(s, logger)
	targets := []target{{name: s.OutputName(now), peer: s.Options.CompareWith, output: res.Merge}}
	if s.DelevSeparate() {
		targets = append(targets, target{name: s.DelevOutputName(now), peer: s.Options.CompareDelevWith, output: res.Delev})
	}

	// The previous output is compared before it is replaced.
	if !s.Options.NoCompare {
		opts := compare.Options{Common: s.Options.CompareCommon}
		for _, t := range targets {
			peer := t.peer
			if peer == "" {
				peer = writer.Path(t.name)
			}
			fresh := &esp.Plugin{}
			if t.output != nil {
				fresh = t.output.Plugin
			}
			c := Comparison{Output: t.name, Peer: peer, Result: compare.ComparePath(fresh, peer, opts)}
			out.Comparisons = append(out.Comparisons, c)
			logComparison(logger, c, s.Options.CompareOnly)
		}
	}

	if s.Options.CompareOnly {
		return out, nil
	}
	for _, t := range targets {
		if t.output == nil {
			logger.Info("No lists to place, output not written", "output", t.name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("write outputs canceled: %w", err)
		}
		path, err := writer.Write(t.output)
		if err != nil {
			return nil, err
		}
		out.Written = append(out.Written, path)
	}
	return out, nil
}

func aggregateLists(ctx context.Context, s *config.Settings, read *reader.Result, logger *logging.Logger, out *Outcome) ([]*aggregate.List, error) {
	a := aggregate.New(aggregate.OptionsFrom(s))
	for i, loaded := range read.Loaded {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregate lists canceled: %w", err)
		}
		src := &aggregate.Source{Index: i, Name: loaded.Plugin.Name, Path: loaded.Plugin.Path}
		a.AddPlugin(src, loaded.Data.Records)
	}
	out.Duplicates = a.Duplicates()
	for _, d := range out.Duplicates {
		logger.Warn("List defined more than once in one plugin, last definition used",
			"plugin", d.Plugin, "kind", d.Kind, "list", d.ID)
	}
	lists := a.Finish()
	logger.Debug("Lists aggregated", "lists", len(lists))
	return lists, nil
}

func logComparison(logger *logging.Logger, c Comparison, compareOnly bool) {
	r := c.Result
	switch {
	case r.Unavailable != "":
		logger.Info(r.Unavailable, "output", c.Output)
		return
	case r.Equal():
		logger.Info("Output unchanged", "output", c.Output, "peer", c.Peer)
		return
	}
	for _, bug := range r.Bugs {
		logger.Warn("Output consistency problem", "output", c.Output, "problem", bug)
	}
	for _, line := range r.Lines() {
		if compareOnly {
			logger.Info(line.String())
		} else {
			logger.Debug(line.String())
		}
	}
	logger.Info("Output differs", "output", c.Output, "peer", c.Peer, "changes", r.SummaryLine())
}
