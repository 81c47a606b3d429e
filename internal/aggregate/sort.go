// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alvazir/jobasha-sub000/pkg/esp"
)

// CompareKeys orders keys by level, then by identifier.
func CompareKeys(a, b Key) int {
	return cmp.Or(cmp.Compare(a.Level, b.Level), strings.Compare(a.ID, b.ID))
}

// SortEntries orders entries by ascending level, then by case-folded
// identifier. Entries equal under both keys keep their relative order.
func SortEntries(entries []esp.Entry) {
	type keyed struct {
		key   Key
		entry esp.Entry
	}
	tmp := make([]keyed, len(entries))
	for i, e := range entries {
		tmp[i] = keyed{key: KeyOf(e), entry: e}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int { return CompareKeys(a.key, b.key) })
	for i := range tmp {
		entries[i] = tmp[i].entry
	}
}

// SortedKeys returns the case-folded entries in sorted order.
func SortedKeys(entries []esp.Entry) []Key {
	keys := Fold(entries)
	slices.SortFunc(keys, CompareKeys)
	return keys
}

// IsSorted reports whether entries are in SortEntries order.
func IsSorted(entries []esp.Entry) bool {
	for i := 1; i < len(entries); i++ {
		if CompareKeys(KeyOf(entries[i-1]), KeyOf(entries[i])) > 0 {
			return false
		}
	}
	return true
}
