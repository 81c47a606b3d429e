// SPDX-License-Identifier: MPL-2.0

package types

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded comparison form of a record identifier or
// plugin name. Original casing is kept by callers for output; only the
// folded form is used for equality, ordering and lookups.
//
// ASCII input (the common case for game data) takes a strings.ToLower fast
// path. Non-ASCII input goes through a fresh cases.Fold caser because a
// Caser carries state and must not be shared between goroutines.
func Fold(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return cases.Fold().String(s)
		}
	}
	return strings.ToLower(s)
}

// FoldAll folds every element of ss into a new slice.
func FoldAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Fold(s)
	}
	return out
}
