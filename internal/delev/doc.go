// SPDX-License-Identifier: MPL-2.0

// Package delev lowers the minimum levels of leveled list entries.
//
// Entries at or below the floor are kept. Above it an entry drops to the
// floor, or, when segmentation is on and the entry sits at or above the
// segment start, to a ceiling derived from the segment ratio. Progressive
// segmentation splits [segment, inf) into windows of width segment-floor,
// each with its own ceiling. Random mode picks uniformly between the computed
// level and the original one.
package delev
