// SPDX-License-Identifier: MPL-2.0

// Package reader decodes the plugins of a load order, keeping their headers
// and leveled lists, and applies the unexpected-tag skip policy.
package reader
