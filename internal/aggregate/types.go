// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/types"
)

type (
	// Source is a plugin of the load order.
	Source struct {
		// Index is the load order position.
		Index int
		Name  string
		Path  string
	}

	// Key is the comparison form of an entry.
	Key struct {
		ID    string
		Level uint16
	}

	// Deletion is one copy of a first-definition entry that later plugins
	// removed.
	Deletion struct {
		Key     Key
		Entry   esp.Entry
		Plugins []*Source
	}

	// Duplicate reports a plugin defining the same list more than once.
	Duplicate struct {
		Plugin string
		Kind   esp.Kind
		ID     string
	}

	// List is the aggregated state of one leveled list.
	List struct {
		// Seq is the first-sighting order across both kinds.
		Seq  int
		Kind esp.Kind
		// Key is the case-folded identifier.
		Key string

		FlagsSeen       []esp.RecordFlags
		ListFlagsSeen   []esp.ListFlags
		ChanceNonesSeen []uint8

		Union       []esp.Entry
		UnionFolded []Key

		// First and FirstFolded are filled on the second sighting.
		First       []esp.Entry
		FirstFolded []Key

		Deletions []Deletion
		Count     int
		Initial   *Source

		// Masters are the plugins that changed the list, deletions included.
		Masters []*Source
		// Contributors are Masters minus the plugins whose only change was a
		// deletion.
		Contributors []*Source

		Last       esp.LeveledList
		LastPlugin *Source
	}
)

// KeyOf returns the comparison form of e.
func KeyOf(e esp.Entry) Key {
	return Key{ID: types.Fold(e.ID), Level: e.Level}
}

// Fold returns the comparison forms of entries.
func Fold(entries []esp.Entry) []Key {
	out := make([]Key, len(entries))
	for i, e := range entries {
		out[i] = KeyOf(e)
	}
	return out
}

// Multiset counts keys.
func Multiset(keys []Key) map[Key]int {
	m := make(map[Key]int, len(keys))
	for _, k := range keys {
		m[k]++
	}
	return m
}

// ID returns the identifier in the casing of the last definition.
func (l *List) ID() string { return l.Last.ID }

// Distinct reports whether more than one value was seen for the record
// flags, the list flags or chance-none.
func (l *List) Distinct() bool {
	return len(l.FlagsSeen) > 1 || len(l.ListFlagsSeen) > 1 || len(l.ChanceNonesSeen) > 1
}

// DeletersOf returns the plugins responsible for any deletion.
func (l *List) DeletersOf() []*Source {
	var out []*Source
	for _, d := range l.Deletions {
		for _, p := range d.Plugins {
			out = appendSource(out, p)
		}
	}
	return out
}

func appendSource(list []*Source, s *Source) []*Source {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

func appendUnique[T comparable](list []T, v T) ([]T, bool) {
	for _, x := range list {
		if x == v {
			return list, false
		}
	}
	return append(list, v), true
}
