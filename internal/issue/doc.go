// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Errors that match a known failure mode also point at a
// Markdown catalog entry rendered with glamour by the command layer.
package issue
