// SPDX-License-Identifier: MPL-2.0

// Package types defines small cross-cutting value types shared by the merge
// pipeline packages: process exit codes and the case-folded identifier form
// used wherever plugin names or record IDs are compared.
//
// This package is a leaf dependency: domain packages import it; it never
// imports domain packages.
package types
