// SPDX-License-Identifier: MPL-2.0

package loadorder

import (
	"strings"

	"github.com/alvazir/jobasha-sub000/pkg/types"
)

// Reasons a plugin was left out of the load order.
const (
	DropOutputName       DropReason = "merge output"
	DropOutputFamily     DropReason = "merge output (dated)"
	DropDelevName        DropReason = "delev output"
	DropDelevFamily      DropReason = "delev output (dated)"
	DropSkipList         DropReason = "skip list"
	DropIgnoredExtension DropReason = "ignored extension"
	DropSkipLast         DropReason = "skip last"
)

type (
	// DropReason explains why a plugin was filtered out.
	DropReason string

	// Dropped is a plugin removed by Filter.
	Dropped struct {
		Name   string
		Reason DropReason
	}

	// FilterRules are the inputs of Filter.
	FilterRules struct {
		// OutputName is compared case-exactly.
		OutputName string
		// OutputFamily is a case-folded prefix.
		OutputFamily string
		// DelevName and DelevFamily apply only when non-empty.
		DelevName   string
		DelevFamily string
		// Skip are plugin names, compared case-folded.
		Skip []string
		// IgnoredExtensions are suffixes, compared case-folded.
		IgnoredExtensions []string
		// SkipLast drops this many plugins from the end of what remains.
		SkipLast int
	}
)

// Filter applies the per-plugin drop rules in order, then removes the last
// SkipLast survivors. Plugins dropped by the earlier rules do not count
// against SkipLast.
func Filter(names []string, rules FilterRules) (kept []string, dropped []Dropped) {
	skip := make(map[string]struct{}, len(rules.Skip))
	for _, s := range rules.Skip {
		skip[types.Fold(s)] = struct{}{}
	}
	ignored := types.FoldAll(rules.IgnoredExtensions)

	for _, name := range names {
		if reason, drop := rules.reason(name, skip, ignored); drop {
			dropped = append(dropped, Dropped{Name: name, Reason: reason})
			continue
		}
		kept = append(kept, name)
	}

	if n := min(rules.SkipLast, len(kept)); n > 0 {
		for _, name := range kept[len(kept)-n:] {
			dropped = append(dropped, Dropped{Name: name, Reason: DropSkipLast})
		}
		kept = kept[:len(kept)-n]
	}
	return kept, dropped
}

func (r *FilterRules) reason(name string, skip map[string]struct{}, ignored []string) (DropReason, bool) {
	folded := types.Fold(name)
	switch {
	case name == r.OutputName:
		return DropOutputName, true
	case r.OutputFamily != "" && strings.HasPrefix(folded, r.OutputFamily):
		return DropOutputFamily, true
	case r.DelevName != "" && name == r.DelevName:
		return DropDelevName, true
	case r.DelevFamily != "" && strings.HasPrefix(folded, r.DelevFamily):
		return DropDelevFamily, true
	}
	if _, ok := skip[folded]; ok {
		return DropSkipList, true
	}
	for _, ext := range ignored {
		if strings.HasSuffix(folded, ext) {
			return DropIgnoredExtension, true
		}
	}
	return "", false
}
