// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/pkg/platform"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BackupSuffix is appended to files replaced by a newer version.
const BackupSuffix = ".backup"

// ConfigDir returns the jobasha configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// SettingsPath returns explicit when set, otherwise the default settings
// file location.
func SettingsPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName+"."+SettingsFileExt), nil
}

// loadWithOptions layers defaults, the settings file and bound flags, then
// validates the result. The resolved settings path is returned even when
// the file does not exist.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Settings, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, "", fmt.Errorf("internal error: %w", err)
	}

	path, err := SettingsPath(opts.SettingsFilePath)
	if err != nil {
		return nil, "", err
	}

	switch {
	case fileExists(path):
		if err := loadTOMLIntoViper(v, path); err != nil {
			return nil, path, issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(path).
				WithIssue(issue.InvalidSettingsId).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Verify option names and values against 'jobasha settings show'").
				WithSuggestion("Regenerate a clean file with 'jobasha settings init'").
				Wrap(err).
				BuildError()
		}
	case opts.SettingsFilePath != "":
		return nil, path, issue.NewErrorContext().
			WithOperation("load settings").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Create it with 'jobasha settings init --settings " + path + "'").
			Wrap(fmt.Errorf("settings file not found: %w", os.ErrNotExist)).
			BuildError()
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, path, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, path, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, path, issue.NewErrorContext().
			WithOperation("validate options").
			WithIssue(issue.InvalidSettingsId).
			WithSuggestion("Fix the listed options on the command line or in " + path).
			Wrap(err).
			BuildError()
	}

	return &s, path, nil
}

// setDefaults registers every default under its "section.key" name so that
// unchanged flags and missing file entries fall back to it.
func setDefaults(v *viper.Viper) error {
	sections, err := toMap(DefaultSettings())
	if err != nil {
		return err
	}
	for section, values := range sections {
		m, ok := values.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range m {
			v.SetDefault(section+"."+key, value)
		}
	}
	return nil
}

// OptionKeys returns the [options] keys in their TOML spelling.
func OptionKeys() []string {
	sections, err := toMap(DefaultSettings())
	if err != nil {
		return nil
	}
	m, _ := sections["options"].(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// bindFlags binds each flag whose name (dashes read as underscores) is an
// option key, so a flag set on the command line overrides the file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	known := make(map[string]struct{})
	for _, k := range OptionKeys() {
		known[k] = struct{}{}
	}
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := known[key]; !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag("options."+key, f)
	})
	return bindErr
}

// loadTOMLIntoViper decodes a TOML settings file, validates it against the
// CUE schema and merges it into Viper.
func loadTOMLIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if len(data) > maxSettingsSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxSettingsSize)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			row, col := decErr.Position()
			return fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := validateAgainstSchema(raw, path); err != nil {
		return err
	}

	if err := v.MergeConfigMap(raw); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}
	return nil
}

// Marshal renders settings as TOML.
func Marshal(s *Settings) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# jobasha settings\n")
	buf.WriteString("# [options] mirrors the command line; command-line flags take precedence.\n\n")
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes settings to path, keeping the previous file as path.backup
// unless backup is false.
func Save(path string, s *Settings, backup bool) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if backup && fileExists(path) {
		if err := os.Rename(path, path+BackupSuffix); err != nil {
			return fmt.Errorf("failed to back up settings file: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func toMap(s *Settings) (map[string]any, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
