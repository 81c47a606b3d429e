// SPDX-License-Identifier: MPL-2.0

package config

import (
	"math"
	"strings"

	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/platform"
)

// Validate checks option ranges and combinations. It collects every problem
// into an *InvalidOptionsError rather than stopping at the first one.
func (s *Settings) Validate() error {
	var errs []error
	o := &s.Options

	if err := o.Color.Validate(); err != nil {
		errs = append(errs, err)
	}

	checkRange := func(option string, value, minV, maxV int) {
		if value < minV || value > maxV {
			errs = append(errs, &OutOfRangeError{Option: option, Value: value, Min: minV, Max: maxV})
		}
	}
	checkRange("skip_last", o.SkipLast, 0, math.MaxInt32)
	checkRange("threshold_creatures", o.ThresholdCreatures, 0, 100)
	checkRange("threshold_items", o.ThresholdItems, 0, 100)
	checkRange("delev_to", o.DelevTo, 1, math.MaxUint16)
	checkRange("delev_creatures_to", o.DelevCreaturesTo, 0, math.MaxUint16)
	checkRange("delev_items_to", o.DelevItemsTo, 0, math.MaxUint16)
	checkRange("delev_segment", o.DelevSegment, 0, math.MaxUint16)
	checkRange("delev_creatures_segment", o.DelevCreaturesSegment, 0, math.MaxUint16)
	checkRange("delev_items_segment", o.DelevItemsSegment, 0, math.MaxUint16)
	checkRange("delev_segment_ratio", o.DelevSegmentRatio, 0, 100)
	checkRange("auto_resolve_lower_limit", s.Guts.AutoResolveLowerLimit, 0, math.MaxInt32)

	if o.Delev {
		for _, kind := range esp.Kinds() {
			to, segment := s.DelevLevels(kind)
			if segment != 0 && to >= segment {
				errs = append(errs, &ConflictingOptionsError{
					Option: "delev_" + strings.ToLower(kind.String()) + "s_to",
					With:   "delev_" + strings.ToLower(kind.String()) + "s_segment",
					Reason: "the delev level must be lower than the segment level",
				})
			}
		}
	}

	if strings.TrimSpace(o.Output) == "" {
		errs = append(errs, &ConflictingOptionsError{Option: "output", With: "empty value", Reason: "an output name is required"})
	} else if err := checkOutputName("output", o.Output); err != nil {
		errs = append(errs, err)
	}
	if o.Delev && o.DelevDistinct {
		switch {
		case strings.TrimSpace(o.DelevOutput) == "":
			errs = append(errs, &ConflictingOptionsError{Option: "delev_output", With: "delev_distinct", Reason: "a delev output name is required"})
		case strings.EqualFold(o.DelevOutput, o.Output):
			errs = append(errs, &ConflictingOptionsError{Option: "delev_output", With: "output", Reason: "names must differ"})
		default:
			if err := checkOutputName("delev_output", o.DelevOutput); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if o.CompareOnly && o.NoCompare {
		errs = append(errs, &ConflictingOptionsError{Option: "compare_only", With: "no_compare", Reason: "nothing would be done"})
	}
	if o.CompareOnly && o.DryRun {
		errs = append(errs, &ConflictingOptionsError{Option: "compare_only", With: "dry_run", Reason: "compare-only never writes; drop one of them"})
	}
	if len(errs) > 0 {
		return &InvalidOptionsError{FieldErrors: errs}
	}
	return nil
}

// checkOutputName rejects plugin names that are paths or that Windows
// cannot create. Output locations are chosen with output_dir.
func checkOutputName(option, name string) error {
	switch {
	case !platform.IsPlainFileName(name):
		return &ConflictingOptionsError{Option: option, With: "a directory", Reason: "use output_dir to choose where plugins are written"}
	case platform.IsWindowsReservedName(name):
		return &ConflictingOptionsError{Option: option, With: "a reserved device name", Reason: "the file cannot be created on Windows"}
	}
	return nil
}
