// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a merge over a synthetic load order:
//   - plugin decoding
//   - list aggregation
//   - planning with deletions and deleveling
//   - the end-to-end pipeline, including output encoding and comparison
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -bench . -cpuprofile default.pgo
package benchmark
