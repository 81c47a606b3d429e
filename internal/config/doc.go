// SPDX-License-Identifier: MPL-2.0

// Package config handles jobasha settings using Viper with TOML as the file format.
//
// Settings are loaded from jobasha.toml in the user configuration directory
// (~/.config/jobasha on Linux, ~/Library/Application Support/jobasha on macOS,
// %APPDATA%\jobasha on Windows) or from an explicit --settings path. The file
// is decoded with go-toml, validated against an embedded CUE schema
// (settings_schema.cue) and layered under command-line flags by Viper, so the
// effective precedence is flag > settings file > built-in default.
//
// Settings are split in two sections: [options] mirrors the command-line
// surface, [guts] holds tunables rarely worth changing (game configuration
// markers, plugin extensions, header text, heuristics).
package config
