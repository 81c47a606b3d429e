// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for jobasha.
//
// The root command runs the merge pipeline. Subcommands manage the settings
// file, dump the leveled lists of a plugin and compare two plugins.
package cmd
