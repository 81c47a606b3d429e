// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, and in-memory plugin fixtures built with the esp codec.
package testutil
