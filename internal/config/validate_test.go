// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alvazir/jobasha-sub000/pkg/esp"
)

func TestDefaultSettings_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("DefaultSettings().Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr error
	}{
		{"threshold above 100", func(o *Options) { o.ThresholdCreatures = 101 }, ErrOutOfRange},
		{"negative skip_last", func(o *Options) { o.SkipLast = -1 }, ErrOutOfRange},
		{"delev_to zero", func(o *Options) { o.DelevTo = 0 }, ErrOutOfRange},
		{"ratio above 100", func(o *Options) { o.DelevSegmentRatio = 150 }, ErrOutOfRange},
		{"unknown color", func(o *Options) { o.Color = "purple" }, ErrInvalidColorMode},
		{"segment not above delev_to", func(o *Options) {
			o.Delev = true
			o.DelevTo = 10
			o.DelevSegment = 10
		}, ErrConflictingOptions},
		{"per-kind segment not above per-kind delev_to", func(o *Options) {
			o.Delev = true
			o.DelevItemsTo = 30
			o.DelevSegment = 20
		}, ErrConflictingOptions},
		{"same output names", func(o *Options) {
			o.Delev = true
			o.DelevDistinct = true
			o.DelevOutput = "mergedleveledlists.ESP"
		}, ErrConflictingOptions},
		{"compare_only with no_compare", func(o *Options) {
			o.CompareOnly = true
			o.NoCompare = true
		}, ErrConflictingOptions},
		{"compare_only with dry_run", func(o *Options) {
			o.CompareOnly = true
			o.DryRun = true
		}, ErrConflictingOptions},
		{"empty output", func(o *Options) { o.Output = " " }, ErrConflictingOptions},
		{"output with a directory", func(o *Options) { o.Output = "out/Merged.esp" }, ErrConflictingOptions},
		{"reserved output name", func(o *Options) { o.Output = "nul.esp" }, ErrConflictingOptions},
		{"reserved delev output name", func(o *Options) {
			o.Delev = true
			o.DelevDistinct = true
			o.DelevOutput = "aux.esp"
		}, ErrConflictingOptions},
		{"segment ignored without delev", func(o *Options) {
			o.DelevTo = 10
			o.DelevSegment = 5
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := DefaultSettings()
			tt.mutate(&s.Options)
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("Validate() = %v, want ErrInvalidOptions", err)
			}
			var invalid *InvalidOptionsError
			if !errors.As(err, &invalid) {
				t.Fatal("errors.As(*InvalidOptionsError) = false")
			}
			found := false
			for _, fe := range invalid.FieldErrors {
				if errors.Is(fe, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("FieldErrors = %v, want one matching %v", invalid.FieldErrors, tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.Options.ThresholdItems = -1
	s.Options.ThresholdCreatures = 200
	s.Options.Color = "x"
	var invalid *InvalidOptionsError
	if !errors.As(s.Validate(), &invalid) {
		t.Fatal("Validate() should return *InvalidOptionsError")
	}
	if len(invalid.FieldErrors) != 3 {
		t.Errorf("len(FieldErrors) = %d, want 3: %v", len(invalid.FieldErrors), invalid.FieldErrors)
	}
}

func TestDelevLevels(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.Options.DelevTo = 2
	s.Options.DelevSegment = 20
	s.Options.DelevItemsTo = 5
	s.Options.DelevCreaturesSegment = 30

	if to, seg := s.DelevLevels(esp.KindCreature); to != 2 || seg != 30 {
		t.Errorf("DelevLevels(Creature) = %d, %d, want 2, 30", to, seg)
	}
	if to, seg := s.DelevLevels(esp.KindItem); to != 5 || seg != 20 {
		t.Errorf("DelevLevels(Item) = %d, %d, want 5, 20", to, seg)
	}
	if got := s.Threshold(esp.KindCreature); got != DefaultThresholdCreatures {
		t.Errorf("Threshold(Creature) = %d, want %d", got, DefaultThresholdCreatures)
	}
	if got := s.Threshold(esp.KindItem); got != DefaultThresholdItems {
		t.Errorf("Threshold(Item) = %d, want %d", got, DefaultThresholdItems)
	}
}

func TestOutputNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s := DefaultSettings()

	if got := s.OutputName(now); got != DefaultOutput {
		t.Errorf("OutputName() = %q, want %q", got, DefaultOutput)
	}
	s.Options.DateSuffix = true
	if got, want := s.OutputName(now), "MergedLeveledLists - 2024-03-09.esp"; got != want {
		t.Errorf("OutputName() = %q, want %q", got, want)
	}
	if got, want := s.DelevOutputName(now), "DeleveledLeveledLists - 2024-03-09.esp"; got != want {
		t.Errorf("DelevOutputName() = %q, want %q", got, want)
	}
	if got, want := s.OutputFamilyPrefix(), "mergedleveledlists - "; got != want {
		t.Errorf("OutputFamilyPrefix() = %q, want %q", got, want)
	}
	if got, want := s.DelevFamilyPrefix(), "deleveledleveledlists - "; got != want {
		t.Errorf("DelevFamilyPrefix() = %q, want %q", got, want)
	}
}

func TestLogPath(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.Options.OutputDir = "out"
	if got, want := s.LogPath(), filepath.Join("out", "MergedLeveledLists.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
	s.Options.Log = "custom.log"
	if got := s.LogPath(); got != "custom.log" {
		t.Errorf("LogPath() = %q, want %q", got, "custom.log")
	}
	s.Options.NoLog = true
	if got := s.LogPath(); got != "" {
		t.Errorf("LogPath() with no_log = %q, want empty", got)
	}
}
