// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/types"
)

// DelevLevels returns the effective delev floor and segment start for kind.
// Per-kind values override the shared ones when non-zero.
func (s *Settings) DelevLevels(kind esp.Kind) (to, segment int) {
	o := &s.Options
	to, segment = o.DelevTo, o.DelevSegment
	switch kind {
	case esp.KindCreature:
		if o.DelevCreaturesTo != 0 {
			to = o.DelevCreaturesTo
		}
		if o.DelevCreaturesSegment != 0 {
			segment = o.DelevCreaturesSegment
		}
	case esp.KindItem:
		if o.DelevItemsTo != 0 {
			to = o.DelevItemsTo
		}
		if o.DelevItemsSegment != 0 {
			segment = o.DelevItemsSegment
		}
	}
	return to, segment
}

// Threshold returns the deletion warning threshold for kind.
func (s *Settings) Threshold(kind esp.Kind) int {
	if kind == esp.KindCreature {
		return s.Options.ThresholdCreatures
	}
	return s.Options.ThresholdItems
}

// SkipKind reports whether lists of kind are excluded from merging.
func (s *Settings) SkipKind(kind esp.Kind) bool {
	if kind == esp.KindCreature {
		return s.Options.SkipCreatures
	}
	return s.Options.SkipItems
}

// DelevSkipKind reports whether lists of kind are excluded from deleveling.
func (s *Settings) DelevSkipKind(kind esp.Kind) bool {
	if kind == esp.KindCreature {
		return s.Options.DelevSkipCreatures
	}
	return s.Options.DelevSkipItems
}

// DelevSeparate reports whether deleveled lists go into their own plugin.
func (s *Settings) DelevSeparate() bool {
	return s.Options.Delev && s.Options.DelevDistinct
}

// OutputName returns the merge plugin file name, date-suffixed when requested.
func (s *Settings) OutputName(now time.Time) string {
	return s.datedName(s.Options.Output, now)
}

// DelevOutputName returns the delev plugin file name, date-suffixed when requested.
func (s *Settings) DelevOutputName(now time.Time) string {
	return s.datedName(s.Options.DelevOutput, now)
}

// OutputFamilyPrefix is the case-folded prefix shared by every dated
// variant of the merge plugin name.
func (s *Settings) OutputFamilyPrefix() string {
	return familyPrefix(s.Options.Output, s.Guts.DateSeparator)
}

// DelevFamilyPrefix is OutputFamilyPrefix for the delev plugin.
func (s *Settings) DelevFamilyPrefix() string {
	return familyPrefix(s.Options.DelevOutput, s.Guts.DateSeparator)
}

// LogPath returns the log file path; empty when logging to file is off.
func (s *Settings) LogPath() string {
	if s.Options.NoLog {
		return ""
	}
	if s.Options.Log != "" {
		return s.Options.Log
	}
	stem := strings.TrimSuffix(s.Options.Output, filepath.Ext(s.Options.Output))
	return filepath.Join(s.Options.OutputDir, stem+".log")
}

func (s *Settings) datedName(name string, now time.Time) string {
	if !s.Options.DateSuffix {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return stem + s.Guts.DateSeparator + now.Format(s.Guts.DateFormat) + ext
}

func familyPrefix(name, separator string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return types.Fold(stem + separator)
}
