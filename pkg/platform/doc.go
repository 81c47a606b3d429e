// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform locations of game files.
//
// It knows where OpenMW keeps its user configuration and user data on each
// operating system, including the Flatpak and Snap sandboxes on Linux.
package platform
