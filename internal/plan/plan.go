// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/alvazir/jobasha-sub000/internal/aggregate"
	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/delev"
	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/types"

	"golang.org/x/sync/errgroup"
)

// Message severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Message classes.
const (
	// ClassResolved marks deletions ignored because they removed too much.
	ClassResolved Class = "resolved"
	// ClassAutoAllowed marks deletions over the threshold accepted because
	// the initial plugin is on the always-delete list.
	ClassAutoAllowed Class = "auto-allowed"
	// ClassThreshold marks deletions over the threshold that were applied.
	ClassThreshold Class = "threshold"
)

type (
	// Severity is the log level of a Message.
	Severity string

	// Class names the deletion policy outcome a Message reports.
	Class string

	// Message is a per-list note for the operator.
	Message struct {
		Severity Severity
		Class    Class
		Kind     esp.Kind
		List     string
		Text     string
	}

	// Placement is a list written into an output plugin.
	Placement struct {
		// Seq is the aggregator's first-sighting order.
		Seq  int
		Kind esp.Kind
		// List carries the last definition's fields with the planned entries.
		List esp.LeveledList
		// Contributors are credited as masters of the output plugin.
		Contributors []*aggregate.Source
		// Changes lists the deleveled entries, if any.
		Changes []delev.Change
		// Distinct is set when the merged list differs from the last
		// definition.
		Distinct bool
	}

	// Stats counts planner outcomes.
	Stats struct {
		Lists          int
		SingleSkipped  int
		Untouched      int
		Merged         int
		Deleveled      int
		DelevPlaced    int
		DeletedLists   int
		DeletedEntries int
		Resolved       int
		Warnings       int
	}

	// Plan is the planner's result. Placements are in first-sighting order.
	Plan struct {
		Merge    []Placement
		Delev    []Placement
		Messages []Message
		// Warning is set when any threshold warning was raised.
		Warning bool
		Stats   Stats
	}

	// Planner turns aggregated lists into a Plan.
	Planner struct {
		Settings *config.Settings
		Logger   *logging.Logger
		// Rand seeds random deleveling. Nil uses the global source.
		Rand *rand.Rand
	}

	kindPlanner struct {
		settings     *config.Settings
		kind         esp.Kind
		threshold    float64
		alwaysDelete map[string]struct{}
		delev        *delev.Transformer
	}

	outcome struct {
		merge    *Placement
		delev    *Placement
		messages []Message
		warning  bool
		skipped  bool
		distinct bool
		deleted  int
		resolved bool
	}
)

// New creates a Planner from settings.
func New(s *config.Settings, logger *logging.Logger) *Planner {
	return &Planner{Settings: s, Logger: logger}
}

// Plan decides the output of every list. Lists of each kind are planned in
// parallel; the result does not depend on scheduling.
func (p *Planner) Plan(ctx context.Context, lists []*aggregate.List) (*Plan, error) {
	outcomes := make([]outcome, len(lists))
	byKind := make(map[esp.Kind][]int)
	for i, l := range lists {
		byKind[l.Kind] = append(byKind[l.Kind], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range esp.Kinds() {
		indices := byKind[kind]
		if len(indices) == 0 {
			continue
		}
		kp := p.forKind(kind)
		g.Go(func() error {
			for _, i := range indices {
				if err := gctx.Err(); err != nil {
					return err
				}
				o, err := kp.plan(lists[i])
				if err != nil {
					return err
				}
				outcomes[i] = o
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Plan{}
	res.Stats.Lists = len(lists)
	for _, o := range outcomes {
		res.collect(o)
	}
	p.log(res)
	return res, nil
}

// forKind prepares the per-kind state. Each kind gets its own random source
// so the goroutines share nothing mutable.
func (p *Planner) forKind(kind esp.Kind) *kindPlanner {
	s := p.Settings
	kp := &kindPlanner{
		settings:     s,
		kind:         kind,
		threshold:    float64(s.Threshold(kind)),
		alwaysDelete: make(map[string]struct{}, len(s.Options.AlwaysDelete)),
	}
	for _, name := range s.Options.AlwaysDelete {
		kp.alwaysDelete[types.Fold(name)] = struct{}{}
	}
	if s.Options.Delev && !s.DelevSkipKind(kind) {
		var r *rand.Rand
		if p.Rand != nil {
			r = rand.New(rand.NewPCG(p.Rand.Uint64(), p.Rand.Uint64()))
		}
		kp.delev = delev.For(s, kind, r)
	}
	return kp
}

func (p *Plan) collect(o outcome) {
	if o.skipped {
		p.Stats.SingleSkipped++
		return
	}
	p.Messages = append(p.Messages, o.messages...)
	if o.warning {
		p.Warning = true
		p.Stats.Warnings++
	}
	if !o.distinct {
		p.Stats.Untouched++
	}
	if o.deleted > 0 {
		p.Stats.DeletedLists++
		p.Stats.DeletedEntries += o.deleted
	}
	if o.resolved {
		p.Stats.Resolved++
	}
	if o.merge != nil {
		p.Merge = append(p.Merge, *o.merge)
		p.Stats.Merged++
	}
	if o.delev != nil {
		p.Delev = append(p.Delev, *o.delev)
		p.Stats.DelevPlaced++
	}
	if (o.merge != nil && len(o.merge.Changes) > 0) || o.delev != nil {
		p.Stats.Deleveled++
	}
}

func (p *Planner) log(res *Plan) {
	if p.Logger == nil {
		return
	}
	for _, m := range res.Messages {
		if m.Severity == SeverityWarning {
			p.Logger.Warn(m.Text, "kind", m.Kind, "list", m.List)
		} else {
			p.Logger.Info(m.Text, "kind", m.Kind, "list", m.List)
		}
	}
	for _, pl := range slices.Concat(res.Merge, res.Delev) {
		for _, c := range pl.Changes {
			p.Logger.FileOnly("Deleveled", "kind", pl.Kind, "list", pl.List.ID, "entry", c.ID, "from", c.Old, "to", c.New)
		}
	}
}

func (k *kindPlanner) plan(l *aggregate.List) (outcome, error) {
	o := &k.settings.Options
	var out outcome
	if l.Count == 1 && !o.AllLists && !o.Delev {
		out.skipped = true
		return out, nil
	}

	entries := slices.Clone(l.Union)
	contributors := l.Contributors
	if len(l.Deletions) > 0 && !o.NoDelete {
		applied, deleters, err := k.deletions(l, &entries, &out)
		if err != nil {
			return out, err
		}
		if applied > 0 {
			out.deleted = applied
			contributors = withDeleters(l, deleters)
		}
	}

	aggregate.SortEntries(entries)
	out.distinct = l.Distinct() || !slices.Equal(aggregate.SortedKeys(entries), aggregate.SortedKeys(l.Last.Entries))

	var (
		delevEntries []esp.Entry
		changes      []delev.Change
	)
	if k.delev != nil {
		delevEntries, changes = k.delev.Apply(l.ID(), entries)
	}
	deleveled := delevEntries != nil
	separate := k.settings.DelevSeparate()

	if o.AllLists || out.distinct || (deleveled && !separate) {
		pl := k.placement(l, entries, contributors)
		pl.Distinct = out.distinct
		if deleveled && !separate {
			pl.List.Entries = delevEntries
			pl.Changes = changes
		}
		out.merge = pl
	}
	if deleveled && separate {
		pl := k.placement(l, delevEntries, contributors)
		pl.Changes = changes
		out.delev = pl
	}
	return out, nil
}

func (k *kindPlanner) placement(l *aggregate.List, entries []esp.Entry, contributors []*aggregate.Source) *Placement {
	rec := l.Last.Clone()
	rec.Entries = entries
	return &Placement{Seq: l.Seq, Kind: l.Kind, List: rec, Contributors: contributors}
}

// Merged reports whether the placement carries merge results rather than
// only deleveled levels.
func (p *Placement) Merged() bool {
	return p.Distinct || len(p.Changes) == 0
}

// deletions applies the threshold policy and, unless the list is
// auto-resolved, removes the deleted entries. It returns the number of
// entries removed and the plugins responsible for them.
func (k *kindPlanner) deletions(l *aggregate.List, entries *[]esp.Entry, out *outcome) (int, []*aggregate.Source, error) {
	s := k.settings
	ratio := 100 * float64(len(l.Deletions)) / float64(len(l.First))
	_, always := k.alwaysDelete[types.Fold(l.Initial.Name)]
	exceeded := s.Options.ExtendedDelete && ratio > k.threshold
	summary := fmt.Sprintf("%d of %d entries (%.0f%%) deleted by %s, threshold %.0f%%",
		len(l.Deletions), len(l.First), ratio, sourceNames(l.DeletersOf()), k.threshold)

	if exceeded && ratio >= float64(s.Guts.AutoResolveLowerLimit) && !always {
		out.resolved = true
		out.messages = append(out.messages, k.message(l, SeverityInfo, ClassResolved,
			"Deletions ignored: "+summary))
		return 0, nil, nil
	}
	if exceeded {
		switch {
		case always:
			out.messages = append(out.messages, k.message(l, SeverityInfo, ClassAutoAllowed,
				"Deletions allowed for "+l.Initial.Name+": "+summary))
		case s.Options.NoThresholdWarnings:
			out.messages = append(out.messages, k.message(l, SeverityInfo, ClassThreshold,
				"Deletions applied: "+summary))
		default:
			out.warning = true
			out.messages = append(out.messages, k.message(l, SeverityWarning, ClassThreshold,
				"Deletions over threshold applied: "+summary))
		}
	}
	return applyDeletions(l, entries)
}

func (k *kindPlanner) message(l *aggregate.List, sev Severity, class Class, text string) Message {
	return Message{Severity: sev, Class: class, Kind: k.kind, List: l.ID(), Text: text}
}

// applyDeletions swap-removes every deleted entry from entries. A key is
// never removed more often than the last definition dropped it relative to
// the first one.
func applyDeletions(l *aggregate.List, entries *[]esp.Entry) (int, []*aggregate.Source, error) {
	folded := aggregate.Fold(*entries)
	firstCount := aggregate.Multiset(l.FirstFolded)
	lastCount := aggregate.Multiset(aggregate.Fold(l.Last.Entries))
	removed := make(map[aggregate.Key]int)
	var deleters []*aggregate.Source

	for _, d := range l.Deletions {
		if removed[d.Key] >= firstCount[d.Key]-lastCount[d.Key] {
			continue
		}
		i := slices.Index(folded, d.Key)
		if i < 0 {
			return 0, nil, issue.NewErrorContext().
				WithOperation("apply deletions").
				WithResource(l.ID()).
				WithIssue(issue.ConsistencyErrorId).
				Wrap(newConsistencyError(l, d)).
				BuildError()
		}
		last := len(folded) - 1
		folded[i], (*entries)[i] = folded[last], (*entries)[last]
		folded, *entries = folded[:last], (*entries)[:last]
		removed[d.Key]++
		for _, p := range d.Plugins {
			if !slices.Contains(deleters, p) {
				deleters = append(deleters, p)
			}
		}
	}
	n := 0
	for _, c := range removed {
		n += c
	}
	return n, deleters, nil
}

// withDeleters returns the masters that either contributed entries or
// fields, or are responsible for an applied deletion, in master order.
func withDeleters(l *aggregate.List, deleters []*aggregate.Source) []*aggregate.Source {
	out := make([]*aggregate.Source, 0, len(l.Masters))
	for _, m := range l.Masters {
		if slices.Contains(l.Contributors, m) || slices.Contains(deleters, m) {
			out = append(out, m)
		}
	}
	return out
}

func sourceNames(sources []*aggregate.Source) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
