// SPDX-License-Identifier: MPL-2.0

// Package pattern compiles the user's skip/no-skip lists into matchers.
//
// A pattern is either bare (exact match) or carries one of the markers
// "prefix:", "infix:" or "suffix:". Matching is case-insensitive.
package pattern

import (
	"slices"
	"strings"

	"github.com/alvazir/jobasha-sub000/pkg/types"
)

const (
	// MarkerPrefix selects starts-with matching.
	MarkerPrefix = "prefix:"
	// MarkerInfix selects contains matching.
	MarkerInfix = "infix:"
	// MarkerSuffix selects ends-with matching.
	MarkerSuffix = "suffix:"
)

// Set is a compiled pattern list. The zero value matches nothing.
type Set struct {
	exact  []string
	prefix []string
	infix  []string
	suffix []string
}

// Compile buckets patterns by marker. Markers are recognized
// case-insensitively; empty needles are ignored.
func Compile(patterns []string) Set {
	var s Set
	for _, raw := range patterns {
		p := types.Fold(strings.TrimSpace(raw))
		switch {
		case strings.HasPrefix(p, MarkerPrefix):
			s.prefix = appendNeedle(s.prefix, p[len(MarkerPrefix):])
		case strings.HasPrefix(p, MarkerInfix):
			s.infix = appendNeedle(s.infix, p[len(MarkerInfix):])
		case strings.HasPrefix(p, MarkerSuffix):
			s.suffix = appendNeedle(s.suffix, p[len(MarkerSuffix):])
		default:
			s.exact = appendNeedle(s.exact, p)
		}
	}
	return s
}

func appendNeedle(bucket []string, needle string) []string {
	if needle == "" || slices.Contains(bucket, needle) {
		return bucket
	}
	return append(bucket, needle)
}

// Empty reports whether the set has no needles at all.
func (s Set) Empty() bool {
	return len(s.exact) == 0 && len(s.prefix) == 0 && len(s.infix) == 0 && len(s.suffix) == 0
}

// Match reports whether id hits any needle. Buckets are tried exact,
// prefix, suffix, then infix.
func (s Set) Match(id string) bool {
	if s.Empty() {
		return false
	}
	id = types.Fold(id)
	if slices.Contains(s.exact, id) {
		return true
	}
	for _, n := range s.prefix {
		if strings.HasPrefix(id, n) {
			return true
		}
	}
	for _, n := range s.suffix {
		if strings.HasSuffix(id, n) {
			return true
		}
	}
	for _, n := range s.infix {
		if strings.Contains(id, n) {
			return true
		}
	}
	return false
}

// Skipped reports whether id matches primary and does not match exception.
func Skipped(primary, exception Set, id string) bool {
	return primary.Match(id) && !exception.Match(id)
}
