// SPDX-License-Identifier: MPL-2.0

// Package compare diffs a freshly built plugin against a peer plugin, usually
// the output of a previous run.
//
// Lines use "+" for additions, "-" for removals and "~" for changes, with old
// values on the left: ~ Creature "rat" [3 -> 5] in list "ex_rat_lev".
package compare
