// SPDX-License-Identifier: MPL-2.0

package delev

import (
	"math/rand/v2"

	"github.com/alvazir/jobasha-sub000/internal/aggregate"
	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/pattern"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
)

type (
	// Params are the per-kind level rules.
	Params struct {
		// To is the floor entries are lowered to.
		To uint16
		// Segment is the level at which segment rules start; 0 disables them.
		Segment uint16
		// SegmentCeil is the replacement level for entries at or above Segment
		// when not progressive.
		SegmentCeil uint16
		// Ratio is the percent of a window's span kept above To.
		Ratio uint16
		// Progressive computes a ceiling per window.
		Progressive bool
		// Random picks a level between the computed one and the original.
		Random bool
	}

	// Change is one rewritten entry.
	Change struct {
		ID  string
		Old uint16
		New uint16
	}

	// Transformer applies Params to lists, honoring the skip patterns.
	Transformer struct {
		Params Params
		// SkipList and NoSkipList select lists left alone.
		SkipList   pattern.Set
		NoSkipList pattern.Set
		// SkipSubrecord and NoSkipSubrecord select entries left alone.
		SkipSubrecord   pattern.Set
		NoSkipSubrecord pattern.Set
		// Rand drives random mode. Nil uses the global source.
		Rand *rand.Rand
	}
)

// NewParams derives Params and the precomputed segment ceiling.
func NewParams(to, segment, ratio uint16, progressive, random bool) Params {
	p := Params{To: to, Segment: segment, Ratio: ratio, Progressive: progressive, Random: random}
	p.SegmentCeil = p.Ceil(segment)
	return p
}

// ParamsFor returns the effective Params of kind.
func ParamsFor(s *config.Settings, kind esp.Kind) Params {
	to, segment := s.DelevLevels(kind)
	o := &s.Options
	return NewParams(uint16(to), uint16(segment), uint16(o.DelevSegmentRatio), o.DelevSegmentProgressive, o.DelevRandom)
}

// For builds the Transformer of kind from settings.
func For(s *config.Settings, kind esp.Kind, r *rand.Rand) *Transformer {
	o := &s.Options
	return &Transformer{
		Params:          ParamsFor(s, kind),
		SkipList:        pattern.Compile(o.DelevSkipList),
		NoSkipList:      pattern.Compile(o.DelevNoSkipList),
		SkipSubrecord:   pattern.Compile(o.DelevSkipSubrecord),
		NoSkipSubrecord: pattern.Compile(o.DelevNoSkipSubrecord),
		Rand:            r,
	}
}

// Ceil returns To plus Ratio percent of the span between To and hi.
func (p Params) Ceil(hi uint16) uint16 {
	if hi <= p.To {
		return p.To
	}
	return p.To + uint16(uint32(hi-p.To)*uint32(p.Ratio)/100)
}

// Level returns the target level of an entry at level l, before random mode.
// Levels at or below To are returned unchanged.
func (p Params) Level(l uint16) uint16 {
	switch {
	case l <= p.To:
		return l
	case p.Segment == 0 || l < p.Segment:
		return p.To
	case !p.Progressive:
		return min(p.SegmentCeil, l)
	}
	// Windows are (lo, hi] so that l == Segment maps to SegmentCeil.
	w := int(p.Segment) - int(p.To)
	if w <= 0 {
		return min(p.SegmentCeil, l)
	}
	span := int(l) - int(p.Segment)
	k := (span + w - 1) / w
	hi := int(p.Segment) + k*w
	ceil := int(p.To) + (hi-int(p.To))*int(p.Ratio)/100
	return uint16(min(ceil, int(l)))
}

// Apply rewrites the entries of the list named listID. It returns nil and no
// changes when the list is skipped or nothing changed. The result is sorted
// by level and identifier.
func (t *Transformer) Apply(listID string, entries []esp.Entry) ([]esp.Entry, []Change) {
	if pattern.Skipped(t.SkipList, t.NoSkipList, listID) {
		return nil, nil
	}
	var (
		out     = make([]esp.Entry, len(entries))
		changes []Change
	)
	for i, e := range entries {
		out[i] = e
		if e.Level <= t.Params.To || pattern.Skipped(t.SkipSubrecord, t.NoSkipSubrecord, e.ID) {
			continue
		}
		level := t.Params.Level(e.Level)
		if t.Params.Random {
			level = t.between(level, e.Level)
		}
		if level == e.Level {
			continue
		}
		out[i].Level = level
		changes = append(changes, Change{ID: e.ID, Old: e.Level, New: level})
	}
	if len(changes) == 0 {
		return nil, nil
	}
	aggregate.SortEntries(out)
	return out, changes
}

// between returns a uniform level in [lo, hi].
func (t *Transformer) between(lo, hi uint16) uint16 {
	if lo >= hi {
		return lo
	}
	n := int(hi-lo) + 1
	if t.Rand != nil {
		return lo + uint16(t.Rand.IntN(n))
	}
	return lo + uint16(rand.IntN(n))
}
