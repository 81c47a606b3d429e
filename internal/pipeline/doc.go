// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs one jobasha pass: resolve the load order, read the
// plugins, aggregate and plan their leveled lists, build the output plugins,
// compare them with their previous versions and write them.
package pipeline
