// SPDX-License-Identifier: MPL-2.0

// Package plan decides, for every aggregated leveled list, which entries are
// written and into which output plugin.
//
// Deletions inferred by the aggregator are checked against the per-kind
// thresholds and either applied, applied with a warning, or auto-resolved
// (ignored). The merged entries are sorted by level and identifier, compared
// with the last loaded definition, optionally deleveled, and placed into the
// merge plugin, the delev plugin, both, or neither.
package plan
