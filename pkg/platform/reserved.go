// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path/filepath"
	"strings"
)

// windowsReservedNames are device names Windows refuses as file names,
// whatever the extension.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether the plugin file name cannot be
// created on Windows. Only the part before the first dot matters, so
// "nul.esp" and "NUL.tar.esp" are both reserved.
func IsWindowsReservedName(name string) bool {
	base := strings.ToUpper(strings.TrimSpace(name))
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}
	return windowsReservedNames[base]
}

// IsPlainFileName reports whether name is a bare file name without any
// directory component.
func IsPlainFileName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
