// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/types"
)

type (
	// Options are the aggregation switches.
	Options struct {
		NoDelete       bool
		ExtendedDelete bool
		// NeverDelete are case-folded plugin names whose lists never get
		// deletions inferred.
		NeverDelete map[string]struct{}
		SkipKinds   map[esp.Kind]struct{}
	}

	listKey struct {
		kind esp.Kind
		id   string
	}

	// Aggregator folds the load order into aggregated lists. It must see
	// plugins strictly in load order and is not safe for concurrent use.
	Aggregator struct {
		opts       Options
		lists      map[listKey]*List
		order      []*List
		duplicates []Duplicate
	}
)

// OptionsFrom derives aggregation options from settings.
func OptionsFrom(s *config.Settings) Options {
	o := Options{
		NoDelete:       s.Options.NoDelete,
		ExtendedDelete: s.Options.ExtendedDelete,
		NeverDelete:    make(map[string]struct{}, len(s.Options.NeverDelete)),
		SkipKinds:      make(map[esp.Kind]struct{}),
	}
	for _, name := range s.Options.NeverDelete {
		o.NeverDelete[types.Fold(name)] = struct{}{}
	}
	for _, kind := range esp.Kinds() {
		if s.SkipKind(kind) {
			o.SkipKinds[kind] = struct{}{}
		}
	}
	return o
}

// New creates an empty Aggregator.
func New(opts Options) *Aggregator {
	return &Aggregator{opts: opts, lists: make(map[listKey]*List)}
}

// AddPlugin feeds every leveled list of one plugin. When the plugin defines
// a list more than once, the last definition is used and the repeat is
// recorded as a Duplicate.
func (a *Aggregator) AddPlugin(src *Source, records []esp.Record) {
	type pending struct {
		kind esp.Kind
		list *esp.LeveledList
	}
	var (
		keys []listKey
		byID = make(map[listKey]pending)
	)
	for _, r := range records {
		kind, l, ok := esp.Leveled(r)
		if !ok {
			continue
		}
		if _, skip := a.opts.SkipKinds[kind]; skip {
			continue
		}
		k := listKey{kind: kind, id: types.Fold(l.ID)}
		if _, dup := byID[k]; dup {
			a.duplicates = append(a.duplicates, Duplicate{Plugin: src.Name, Kind: kind, ID: l.ID})
		} else {
			keys = append(keys, k)
		}
		byID[k] = pending{kind: kind, list: l}
	}
	for _, k := range keys {
		p := byID[k]
		a.add(src, k, p.kind, p.list)
	}
}

// Duplicates returns lists defined more than once within a single plugin.
func (a *Aggregator) Duplicates() []Duplicate { return a.duplicates }

// Len returns the number of distinct lists seen so far.
func (a *Aggregator) Len() int { return len(a.order) }

// Finish returns the aggregated lists in first-sighting order and resets the
// Aggregator. The caller owns the result.
func (a *Aggregator) Finish() []*List {
	out := a.order
	a.lists = make(map[listKey]*List)
	a.order = nil
	return out
}

func (a *Aggregator) add(src *Source, k listKey, kind esp.Kind, n *esp.LeveledList) {
	o, ok := a.lists[k]
	if !ok {
		a.first(src, k, kind, n)
		return
	}

	if o.Count == 1 {
		o.First = append([]esp.Entry(nil), o.Union...)
		o.FirstFolded = Fold(o.First)
		o.UnionFolded = Fold(o.Union)
	}

	newFolded := Fold(n.Entries)
	changed := o.registerFields(n)
	if o.extendUnion(n.Entries, newFolded) {
		changed = true
	}
	deleted := a.inferDeletions(o) && o.recordDeletions(src, newFolded)

	if changed {
		o.Contributors = appendSource(o.Contributors, src)
	}
	if changed || deleted {
		o.Masters = appendSource(o.Masters, src)
	}
	o.Last = n.Clone()
	o.LastPlugin = src
	o.Count++
}

func (a *Aggregator) first(src *Source, k listKey, kind esp.Kind, n *esp.LeveledList) {
	l := &List{
		Seq:             len(a.order),
		Kind:            kind,
		Key:             k.id,
		FlagsSeen:       []esp.RecordFlags{n.Flags},
		ListFlagsSeen:   []esp.ListFlags{n.ListFlags},
		ChanceNonesSeen: []uint8{n.ChanceNone},
		Union:           append([]esp.Entry(nil), n.Entries...),
		Count:           1,
		Initial:         src,
		Masters:         []*Source{src},
		Contributors:    []*Source{src},
		Last:            n.Clone(),
		LastPlugin:      src,
	}
	a.lists[k] = l
	a.order = append(a.order, l)
}

func (a *Aggregator) inferDeletions(o *List) bool {
	if a.opts.NoDelete {
		return false
	}
	if a.opts.ExtendedDelete {
		if _, never := a.opts.NeverDelete[types.Fold(o.Initial.Name)]; never {
			return false
		}
	}
	return true
}

// registerFields records new distinct flag and chance-none values.
func (o *List) registerFields(n *esp.LeveledList) bool {
	var added, dirty bool
	if o.FlagsSeen, added = appendUnique(o.FlagsSeen, n.Flags); added {
		dirty = true
	}
	if o.ListFlagsSeen, added = appendUnique(o.ListFlagsSeen, n.ListFlags); added {
		dirty = true
	}
	if o.ChanceNonesSeen, added = appendUnique(o.ChanceNonesSeen, n.ChanceNone); added {
		dirty = true
	}
	return dirty
}

// recordDeletions owes one deletion per copy for every entry of the first
// definition that the new definition dropped completely. A lower but
// non-zero count of a duplicated entry is an authoring convention (weights
// rebuilt from scratch), not a deletion.
func (o *List) recordDeletions(src *Source, newFolded []Key) bool {
	firstCount := Multiset(o.FirstFolded)
	newCount := Multiset(newFolded)
	recorded := false
	for i, low := range o.FirstFolded {
		if newCount[low] > 0 {
			continue
		}
		owed := firstCount[low]
		existing := 0
		for _, d := range o.Deletions {
			if d.Key == low {
				existing++
			}
		}
		if existing < owed {
			o.Deletions = append(o.Deletions, Deletion{Key: low, Entry: o.First[i], Plugins: []*Source{src}})
			recorded = true
			continue
		}
		for j := range o.Deletions {
			if o.Deletions[j].Key == low {
				o.Deletions[j].Plugins = appendSource(o.Deletions[j].Plugins, src)
				recorded = true
			}
		}
	}
	return recorded
}

// extendUnion appends entries whose multiplicity in the new definition
// exceeds the union's. Entries new relative to the first definition mark the
// plugin as a contributor even when another plugin already added them.
func (o *List) extendUnion(entries []esp.Entry, folded []Key) bool {
	newCount := Multiset(folded)
	unionCount := Multiset(o.UnionFolded)
	firstCount := Multiset(o.FirstFolded)
	dirty := false
	for i, low := range folded {
		if unionCount[low] < newCount[low] {
			o.Union = append(o.Union, entries[i])
			o.UnionFolded = append(o.UnionFolded, low)
			unionCount[low]++
			dirty = true
			continue
		}
		if firstCount[low] == 0 {
			dirty = true
		}
	}
	return dirty
}
