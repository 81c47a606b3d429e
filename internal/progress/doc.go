// SPDX-License-Identifier: MPL-2.0

// Package progress draws a single-line progress bar on a terminal while
// plugins are read. Updates may come from several goroutines; rendering is
// rate limited.
package progress
