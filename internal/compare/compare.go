// SPDX-License-Identifier: MPL-2.0

package compare

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/types"

	"github.com/dustin/go-humanize"
)

// Line operations.
const (
	OpAdd    Op = '+'
	OpRemove Op = '-'
	OpChange Op = '~'
)

type (
	// Op is the kind of difference a Line reports.
	Op byte

	// Line is one reported difference.
	Line struct {
		Op   Op
		Text string
	}

	// Counts summarizes the differences of one list kind.
	Counts struct {
		Added   int
		Removed int
		Changed int
	}

	// Options tune Compare.
	Options struct {
		// Common reports only size changes of masters both plugins declare.
		Common bool
	}

	// Result is the outcome of a comparison.
	Result struct {
		Header []Line
		Lists  []Line
		// Bugs are problems of the fresh plugin itself.
		Bugs    []string
		Summary map[esp.Kind]Counts
		// Unavailable explains why no comparison took place.
		Unavailable string
	}

	listMap struct {
		byKey      map[string]*esp.LeveledList
		order      []string
		collisions int
	}
)

// String renders the line.
func (l Line) String() string { return string(l.Op) + " " + l.Text }

// Equal reports whether the comparison found no difference.
func (r *Result) Equal() bool {
	return r.Unavailable == "" && len(r.Header) == 0 && len(r.Lists) == 0
}

// Lines returns header and list differences together.
func (r *Result) Lines() []Line {
	return slices.Concat(r.Header, r.Lists)
}

// SummaryLine renders the per-kind counts as "Creature +a -r ~c, Item ...".
func (r *Result) SummaryLine() string {
	parts := make([]string, 0, len(esp.Kinds()))
	for _, kind := range esp.Kinds() {
		c := r.Summary[kind]
		parts = append(parts, fmt.Sprintf("%s +%d -%d ~%d", kind, c.Added, c.Removed, c.Changed))
	}
	return strings.Join(parts, ", ")
}

// ComparePath compares fresh with the plugin at path. A peer that is missing,
// empty or unreadable yields a Result explaining why nothing was compared.
func ComparePath(fresh *esp.Plugin, path string, opts Options) *Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Result{Unavailable: fmt.Sprintf("unable to compare: %s does not exist", path)}
	case err != nil:
		return &Result{Unavailable: fmt.Sprintf("unable to compare with %s: %v", path, err)}
	case info.Size() == 0:
		return &Result{Unavailable: fmt.Sprintf("unable to compare: %s is empty", path)}
	}
	peer, err := esp.Load(path)
	if err != nil {
		return &Result{Unavailable: fmt.Sprintf("unable to compare with %s: %v", path, err)}
	}
	return Compare(fresh, peer, opts)
}

// Compare diffs fresh against peer.
func Compare(fresh, peer *esp.Plugin, opts Options) *Result {
	res := &Result{Summary: make(map[esp.Kind]Counts)}
	if recordsEqual(fresh.Records, peer.Records) {
		return res
	}
	res.Header = compareHeaders(&peer.Header, &fresh.Header, opts)

	freshLists := partition(fresh.Records)
	peerLists := partition(peer.Records)
	for _, kind := range esp.Kinds() {
		if n := freshLists[kind].collisions; n > 0 {
			res.Bugs = append(res.Bugs, fmt.Sprintf("%d %s lists share an identifier with another list of the same plugin", n, kind))
		}
	}
	for _, kind := range esp.Kinds() {
		res.compareKind(kind, peerLists[kind], freshLists[kind])
	}
	return res
}

func recordsEqual(a, b []esp.Record) bool {
	pa := esp.Plugin{Records: a}
	pb := esp.Plugin{Records: b}
	return pa.Equal(&pb)
}

func compareHeaders(old, cur *esp.Header, opts Options) []Line {
	var lines []Line
	if old.NumObjects != cur.NumObjects {
		lines = append(lines, Line{OpChange, fmt.Sprintf("objects [%d -> %d]", old.NumObjects, cur.NumObjects)})
	}
	if !opts.Common && len(old.Masters) != len(cur.Masters) {
		lines = append(lines, Line{OpChange, fmt.Sprintf("masters [%d -> %d]", len(old.Masters), len(cur.Masters))})
	}

	oldSizes := make(map[string]uint64, len(old.Masters))
	for _, m := range old.Masters {
		oldSizes[types.Fold(m.Name)] = m.Size
	}
	curSizes := make(map[string]uint64, len(cur.Masters))
	for _, m := range cur.Masters {
		key := types.Fold(m.Name)
		curSizes[key] = m.Size
		size, ok := oldSizes[key]
		switch {
		case !ok:
			if !opts.Common {
				lines = append(lines, Line{OpAdd, fmt.Sprintf("master %q (%s)", m.Name, humanize.IBytes(m.Size))})
			}
		case size != m.Size:
			lines = append(lines, Line{OpChange, fmt.Sprintf("master %q size [%d -> %d]", m.Name, size, m.Size)})
		}
	}
	if !opts.Common {
		for _, m := range old.Masters {
			if _, ok := curSizes[types.Fold(m.Name)]; !ok {
				lines = append(lines, Line{OpRemove, fmt.Sprintf("master %q", m.Name)})
			}
		}
	}
	return lines
}

func partition(records []esp.Record) map[esp.Kind]*listMap {
	out := make(map[esp.Kind]*listMap, 2)
	for _, kind := range esp.Kinds() {
		out[kind] = &listMap{byKey: make(map[string]*esp.LeveledList)}
	}
	for _, r := range records {
		kind, l, ok := esp.Leveled(r)
		if !ok {
			continue
		}
		m := out[kind]
		key := types.Fold(l.ID)
		if _, dup := m.byKey[key]; dup {
			m.collisions++
		} else {
			m.order = append(m.order, key)
		}
		m.byKey[key] = l
	}
	return out
}

func (r *Result) compareKind(kind esp.Kind, peer, fresh *listMap) {
	counts := r.Summary[kind]
	for _, key := range fresh.order {
		cur := fresh.byKey[key]
		old, ok := peer.byKey[key]
		if !ok {
			r.Lists = append(r.Lists, Line{OpAdd, fmt.Sprintf("%s list %q", kind, cur.ID)})
			counts.Added++
			continue
		}
		r.compareList(kind, old, cur, &counts)
	}
	for _, key := range peer.order {
		if _, ok := fresh.byKey[key]; !ok {
			r.Lists = append(r.Lists, Line{OpRemove, fmt.Sprintf("%s list %q", kind, peer.byKey[key].ID)})
			counts.Removed++
		}
	}
	r.Summary[kind] = counts
}

func (r *Result) compareList(kind esp.Kind, old, cur *esp.LeveledList, counts *Counts) {
	field := func(name string, a, b uint32, format string) {
		if a != b {
			r.Lists = append(r.Lists, Line{OpChange, fmt.Sprintf("%s list %q %s ["+format+" -> "+format+"]", kind, cur.ID, name, a, b)})
			counts.Changed++
		}
	}
	field("flags", uint32(old.Flags), uint32(cur.Flags), "0x%X")
	field("list flags", uint32(old.ListFlags), uint32(cur.ListFlags), "%d")
	field("chance none", uint32(old.ChanceNone), uint32(cur.ChanceNone), "%d")

	for _, d := range diffEntries(old.Entries, cur.Entries) {
		switch d.op {
		case OpAdd:
			r.Lists = append(r.Lists, Line{OpAdd, fmt.Sprintf("%s %q [%d] in list %q", kind, d.id, d.to, cur.ID)})
			counts.Added++
		case OpRemove:
			r.Lists = append(r.Lists, Line{OpRemove, fmt.Sprintf("%s %q [%d] in list %q", kind, d.id, d.from, cur.ID)})
			counts.Removed++
		case OpChange:
			r.Lists = append(r.Lists, Line{OpChange, fmt.Sprintf("%s %q [%d -> %d] in list %q", kind, d.id, d.from, d.to, cur.ID)})
			counts.Changed++
		}
	}
}

type entryDiff struct {
	op       Op
	id       string
	from, to uint16
}

// diffEntries pairs entries by referent. Within a referent, equal levels
// pair first; the remaining levels pair in ascending order and report level
// changes; leftovers are additions or removals.
func diffEntries(old, cur []esp.Entry) []entryDiff {
	type group struct {
		id       string
		old, cur []uint16
	}
	var (
		groups = make(map[string]*group)
		order  []string
	)
	get := func(e esp.Entry) *group {
		key := types.Fold(e.ID)
		g, ok := groups[key]
		if !ok {
			g = &group{id: e.ID}
			groups[key] = g
			order = append(order, key)
		}
		return g
	}
	for _, e := range cur {
		g := get(e)
		g.cur = append(g.cur, e.Level)
	}
	for _, e := range old {
		g := get(e)
		g.old = append(g.old, e.Level)
	}

	var out []entryDiff
	for _, key := range order {
		g := groups[key]
		oldLeft, curLeft := removeCommon(g.old, g.cur)
		slices.Sort(oldLeft)
		slices.Sort(curLeft)
		n := min(len(oldLeft), len(curLeft))
		for i := range n {
			out = append(out, entryDiff{op: OpChange, id: g.id, from: oldLeft[i], to: curLeft[i]})
		}
		for _, l := range curLeft[n:] {
			out = append(out, entryDiff{op: OpAdd, id: g.id, to: l})
		}
		for _, l := range oldLeft[n:] {
			out = append(out, entryDiff{op: OpRemove, id: g.id, from: l})
		}
	}
	slices.SortStableFunc(out, func(a, b entryDiff) int {
		return cmp.Compare(opRank(a.op), opRank(b.op))
	})
	return out
}

// removeCommon drops levels present in both multisets.
func removeCommon(a, b []uint16) (restA, restB []uint16) {
	counts := make(map[uint16]int, len(b))
	for _, l := range b {
		counts[l]++
	}
	for _, l := range a {
		if counts[l] > 0 {
			counts[l]--
			continue
		}
		restA = append(restA, l)
	}
	for _, l := range b {
		if counts[l] > 0 {
			counts[l]--
			restB = append(restB, l)
		}
	}
	return restA, restB
}

func opRank(op Op) int {
	switch op {
	case OpAdd:
		return 0
	case OpRemove:
		return 1
	default:
		return 2
	}
}
