// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobasha.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	return path
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}

	path, err := SettingsPath("")
	if err != nil {
		t.Fatalf("SettingsPath() error: %v", err)
	}
	if want := filepath.Join(dir, "jobasha.toml"); path != want {
		t.Errorf("SettingsPath(\"\") = %q, want %q", path, want)
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	s, _, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultSettings()
	if s.Options.Output != want.Options.Output {
		t.Errorf("Output = %q, want %q", s.Options.Output, want.Options.Output)
	}
	if s.Options.ThresholdItems != DefaultThresholdItems || s.Options.ThresholdCreatures != DefaultThresholdCreatures {
		t.Errorf("thresholds = %d/%d, want %d/%d", s.Options.ThresholdItems, s.Options.ThresholdCreatures,
			DefaultThresholdItems, DefaultThresholdCreatures)
	}
	if !s.Options.ExtendedDelete {
		t.Error("ExtendedDelete = false, want true")
	}
	if !slices.Equal(s.Guts.PluginExtensions, want.Guts.PluginExtensions) {
		t.Errorf("PluginExtensions = %v, want %v", s.Guts.PluginExtensions, want.Guts.PluginExtensions)
	}
	if s.Guts.AutoResolveLowerLimit != 100 {
		t.Errorf("AutoResolveLowerLimit = %d, want 100", s.Guts.AutoResolveLowerLimit)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.toml")
	_, _, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: path})
	if err == nil {
		t.Fatal("Load() with a missing explicit file should fail")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false; err = %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `
[options]
output = "MyLists.esp"
delev = true
delev_to = 5
skip = ["Foo.esp", "Bar.esp"]

[guts]
date_separator = "_"
`)
	s, got, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != path {
		t.Errorf("resolved path = %q, want %q", got, path)
	}
	if s.Options.Output != "MyLists.esp" {
		t.Errorf("Output = %q, want %q", s.Options.Output, "MyLists.esp")
	}
	if !s.Options.Delev || s.Options.DelevTo != 5 {
		t.Errorf("Delev/DelevTo = %v/%d, want true/5", s.Options.Delev, s.Options.DelevTo)
	}
	if !slices.Equal(s.Options.Skip, []string{"Foo.esp", "Bar.esp"}) {
		t.Errorf("Skip = %v", s.Options.Skip)
	}
	if s.Guts.DateSeparator != "_" {
		t.Errorf("DateSeparator = %q, want %q", s.Guts.DateSeparator, "_")
	}
	// Untouched keys keep their defaults.
	if s.Options.DelevSegmentRatio != 50 {
		t.Errorf("DelevSegmentRatio = %d, want 50", s.Options.DelevSegmentRatio)
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `
[options]
output = "FromFile.esp"
threshold_items = 30
`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", DefaultOutput, "")
	flags.Int("threshold-items", DefaultThresholdItems, "")
	flags.Bool("dry-run", false, "")
	flags.String("unrelated", "", "")
	if err := flags.Parse([]string{"--output", "FromFlag.esp", "--dry-run"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	s, _, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: path, Flags: flags})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Options.Output != "FromFlag.esp" {
		t.Errorf("Output = %q, want flag value", s.Options.Output)
	}
	if s.Options.ThresholdItems != 30 {
		t.Errorf("ThresholdItems = %d, want file value 30 (flag unchanged)", s.Options.ThresholdItems)
	}
	if !s.Options.DryRun {
		t.Error("DryRun = false, want true")
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown option", "[options]\nbogus = 1\n", "bogus"},
		{"threshold out of range", "[options]\nthreshold_items = 101\n", "threshold_items"},
		{"bad color", "[options]\ncolor = \"sometimes\"\n", "color"},
		{"bad extension", "[guts]\nplugin_extensions = [\"esp\"]\n", "plugin_extensions"},
		{"invalid toml", "[options\n", "jobasha.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeSettings(t, tt.content)
			_, _, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: path})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_ValidationRunsAfterMerge(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `
[options]
delev = true
delev_to = 20
delev_segment = 10
`)
	_, _, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: path})
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("Load() error = %v, want ErrInvalidOptions", err)
	}
	if !strings.Contains(err.Error(), "delev_creatures_segment") {
		t.Errorf("error should name the segment conflict: %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestSave_RoundTripWithBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "jobasha.toml")
	s := DefaultSettings()
	s.Options.Output = "First.esp"
	if err := Save(path, s, true); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	s.Options.Output = "Second.esp"
	if err := Save(path, s, true); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	backup, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if !strings.Contains(string(backup), "First.esp") {
		t.Error("backup should hold the previous settings")
	}

	loaded, _, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: path})
	if err != nil {
		t.Fatalf("Load() of saved settings error: %v", err)
	}
	if loaded.Options.Output != "Second.esp" {
		t.Errorf("Output = %q, want %q", loaded.Options.Output, "Second.esp")
	}
	if loaded.Guts.HeaderVersion != 1.3 {
		t.Errorf("HeaderVersion = %v, want 1.3", loaded.Guts.HeaderVersion)
	}
}

func TestFormatCUEPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"#Settings", "options", "skip", "0"}, "options.skip[0]"},
		{[]string{"guts", "header_author"}, "guts.header_author"},
	}
	for _, tt := range tests {
		if got := formatCUEPath(tt.path); got != tt.want {
			t.Errorf("formatCUEPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
