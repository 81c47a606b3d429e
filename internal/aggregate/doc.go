// SPDX-License-Identifier: MPL-2.0

// Package aggregate accumulates every definition of each leveled list across
// the load order. For each list it tracks the union of entries, the first
// definition, and the deletions implied by later plugins that omit entries
// of the first definition.
//
// Identifiers are kept in their original casing and compared case-folded.
// An entry's identity is the pair (folded referent, level): the same referent
// at a new level is an addition plus, possibly, a deletion.
package aggregate
