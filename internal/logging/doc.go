// SPDX-License-Identifier: MPL-2.0

// Package logging fans jobasha messages out to the console and to the log
// file. Both sides are charmbracelet/log loggers; the file side is plain
// text with timestamps behind a buffered single-writer sink that the
// driver flushes on Close.
package logging
