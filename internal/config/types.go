// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorAuto colors output only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"
)

var (
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrOutOfRange is the sentinel error wrapped by OutOfRangeError.
	ErrOutOfRange = errors.New("value out of range")
	// ErrConflictingOptions is the sentinel error wrapped by ConflictingOptionsError.
	ErrConflictingOptions = errors.New("conflicting options")
	// ErrInvalidOptions is the sentinel error wrapped by InvalidOptionsError.
	ErrInvalidOptions = errors.New("invalid options")
)

type (
	// ColorMode selects when terminal output is colored.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	// It wraps ErrInvalidColorMode for errors.Is() compatibility.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// OutOfRangeError reports a numeric option outside its allowed range.
	OutOfRangeError struct {
		Option string
		Value  int
		Min    int
		Max    int
	}

	// ConflictingOptionsError reports a pair of options that cannot be combined.
	ConflictingOptionsError struct {
		Option string
		With   string
		Reason string
	}

	// InvalidOptionsError collects every field-level problem found in Options.
	// It wraps ErrInvalidOptions for errors.Is() compatibility.
	InvalidOptionsError struct {
		FieldErrors []error
	}

	// Settings is the complete effective configuration.
	Settings struct {
		Options Options `toml:"options" mapstructure:"options"`
		Guts    Guts    `toml:"guts" mapstructure:"guts"`
	}

	// Options mirrors the command-line surface. Field groups follow the
	// command-line help sections.
	Options struct {
		// Config is the game configuration file (Morrowind.ini or openmw.cfg).
		// Empty means search the well-known locations.
		Config string `toml:"config" mapstructure:"config"`
		// Output is the merge plugin file name.
		Output string `toml:"output" mapstructure:"output"`
		// OutputDir is the directory output plugins are written to.
		OutputDir string `toml:"output_dir" mapstructure:"output_dir"`
		// Log is the log file path. Empty derives it from the output name.
		Log string `toml:"log" mapstructure:"log"`
		// NoLog disables the log file.
		NoLog bool `toml:"no_log" mapstructure:"no_log"`
		// NoBackup disables .backup copies of replaced files.
		NoBackup bool `toml:"no_backup" mapstructure:"no_backup"`
		// DryRun skips all file writes.
		DryRun bool `toml:"dry_run" mapstructure:"dry_run"`
		// DateSuffix appends the current date to output names.
		DateSuffix bool `toml:"date_suffix" mapstructure:"date_suffix"`

		// AllLists places every list, even untouched ones.
		AllLists bool `toml:"all_lists" mapstructure:"all_lists"`
		// SkipLast drops the last N plugins of the load order.
		SkipLast int `toml:"skip_last" mapstructure:"skip_last"`
		// Skip lists plugin names to leave out of the load order.
		Skip []string `toml:"skip" mapstructure:"skip"`
		// NoSkipDefault disables the built-in plugin skip list.
		NoSkipDefault bool `toml:"no_skip_default" mapstructure:"no_skip_default"`
		// SkipUnexpectedTags skips plugins with any unknown record tag.
		SkipUnexpectedTags bool `toml:"skip_unexpected_tags" mapstructure:"skip_unexpected_tags"`
		// NoSkipUnexpectedTagsDefault disables the built-in skippable tag list.
		NoSkipUnexpectedTagsDefault bool `toml:"no_skip_unexpected_tags_default" mapstructure:"no_skip_unexpected_tags_default"`
		// SkipCreatures leaves creature lists alone.
		SkipCreatures bool `toml:"skip_creatures" mapstructure:"skip_creatures"`
		// SkipItems leaves item lists alone.
		SkipItems bool `toml:"skip_items" mapstructure:"skip_items"`
		// IgnoreErrors demotes resolution and decode errors to warnings.
		IgnoreErrors bool `toml:"ignore_errors" mapstructure:"ignore_errors"`

		// NoDelete disables deletion inference.
		NoDelete bool `toml:"no_delete" mapstructure:"no_delete"`
		// ExtendedDelete enables thresholds, auto-resolve and the always/never lists.
		ExtendedDelete bool `toml:"extended_delete" mapstructure:"extended_delete"`
		// AlwaysDelete names plugins whose lists always accept deletions.
		AlwaysDelete []string `toml:"always_delete" mapstructure:"always_delete"`
		// NeverDelete names plugins whose lists never get deletions inferred.
		NeverDelete []string `toml:"never_delete" mapstructure:"never_delete"`
		// ThresholdCreatures is the creature list deletion warning threshold (percent).
		ThresholdCreatures int `toml:"threshold_creatures" mapstructure:"threshold_creatures"`
		// ThresholdItems is the item list deletion warning threshold (percent).
		ThresholdItems int `toml:"threshold_items" mapstructure:"threshold_items"`
		// NoThresholdWarnings silences threshold warnings.
		NoThresholdWarnings bool `toml:"no_threshold_warnings" mapstructure:"no_threshold_warnings"`

		// Delev enables deleveling.
		Delev bool `toml:"delev" mapstructure:"delev"`
		// DelevTo is the level entries are lowered to.
		DelevTo int `toml:"delev_to" mapstructure:"delev_to"`
		// DelevCreaturesTo overrides DelevTo for creatures when non-zero.
		DelevCreaturesTo int `toml:"delev_creatures_to" mapstructure:"delev_creatures_to"`
		// DelevItemsTo overrides DelevTo for items when non-zero.
		DelevItemsTo int `toml:"delev_items_to" mapstructure:"delev_items_to"`
		// DelevDistinct writes deleveled lists into their own plugin.
		DelevDistinct bool `toml:"delev_distinct" mapstructure:"delev_distinct"`
		// DelevOutput is the distinct delev plugin file name.
		DelevOutput string `toml:"delev_output" mapstructure:"delev_output"`
		// DelevRandom picks a random level between the target and the original.
		DelevRandom bool `toml:"delev_random" mapstructure:"delev_random"`
		// DelevSegment is the level from which segment rules apply (0 disables).
		DelevSegment int `toml:"delev_segment" mapstructure:"delev_segment"`
		// DelevCreaturesSegment overrides DelevSegment for creatures when non-zero.
		DelevCreaturesSegment int `toml:"delev_creatures_segment" mapstructure:"delev_creatures_segment"`
		// DelevItemsSegment overrides DelevSegment for items when non-zero.
		DelevItemsSegment int `toml:"delev_items_segment" mapstructure:"delev_items_segment"`
		// DelevSegmentProgressive computes a ceiling per segment window.
		DelevSegmentProgressive bool `toml:"delev_segment_progressive" mapstructure:"delev_segment_progressive"`
		// DelevSegmentRatio is the percent of the segment width kept above DelevTo.
		DelevSegmentRatio int `toml:"delev_segment_ratio" mapstructure:"delev_segment_ratio"`
		// DelevSkipCreatures disables deleveling of creature lists.
		DelevSkipCreatures bool `toml:"delev_skip_creatures" mapstructure:"delev_skip_creatures"`
		// DelevSkipItems disables deleveling of item lists.
		DelevSkipItems bool `toml:"delev_skip_items" mapstructure:"delev_skip_items"`
		// DelevSkipList are list ID patterns left untouched by delev.
		DelevSkipList []string `toml:"delev_skip_list" mapstructure:"delev_skip_list"`
		// DelevNoSkipList are exceptions to DelevSkipList.
		DelevNoSkipList []string `toml:"delev_no_skip_list" mapstructure:"delev_no_skip_list"`
		// DelevSkipSubrecord are entry ID patterns left untouched by delev.
		DelevSkipSubrecord []string `toml:"delev_skip_subrecord" mapstructure:"delev_skip_subrecord"`
		// DelevNoSkipSubrecord are exceptions to DelevSkipSubrecord.
		DelevNoSkipSubrecord []string `toml:"delev_no_skip_subrecord" mapstructure:"delev_no_skip_subrecord"`

		// NoCompare disables comparison with the previous output.
		NoCompare bool `toml:"no_compare" mapstructure:"no_compare"`
		// CompareOnly builds outputs in memory and only compares them.
		CompareOnly bool `toml:"compare_only" mapstructure:"compare_only"`
		// CompareWith is the peer plugin for the merge output.
		CompareWith string `toml:"compare_with" mapstructure:"compare_with"`
		// CompareDelevWith is the peer plugin for the delev output.
		CompareDelevWith string `toml:"compare_delev_with" mapstructure:"compare_delev_with"`
		// CompareCommon reports only size changes of shared masters.
		CompareCommon bool `toml:"compare_common" mapstructure:"compare_common"`

		// Verbose enables debug output.
		Verbose bool `toml:"verbose" mapstructure:"verbose"`
		// Color selects when output is colored.
		Color ColorMode `toml:"color" mapstructure:"color"`
	}

	// Guts are tunables that rarely need changing.
	Guts struct {
		// GameFilePrefix is the Morrowind.ini key prefix naming plugins.
		GameFilePrefix string `toml:"game_file_prefix" mapstructure:"game_file_prefix"`
		// MorrowindDataDir is the data directory next to Morrowind.ini.
		MorrowindDataDir string `toml:"morrowind_data_dir" mapstructure:"morrowind_data_dir"`
		// OpenmwDataKey is the openmw.cfg key naming data directories.
		OpenmwDataKey string `toml:"openmw_data_key" mapstructure:"openmw_data_key"`
		// OpenmwContentKey is the openmw.cfg key naming plugins.
		OpenmwContentKey string `toml:"openmw_content_key" mapstructure:"openmw_content_key"`
		// ConfigSearchPaths are tried before the platform locations when no
		// game configuration is given.
		ConfigSearchPaths []string `toml:"config_search_paths" mapstructure:"config_search_paths"`
		// HiddenDataDirs are extra auxiliary data directories appended when present.
		HiddenDataDirs []string `toml:"hidden_data_dirs" mapstructure:"hidden_data_dirs"`
		// PluginExtensions are the file extensions treated as plugins.
		PluginExtensions []string `toml:"plugin_extensions" mapstructure:"plugin_extensions"`
		// PluginExtensionsToIgnore are extensions dropped from the load order.
		PluginExtensionsToIgnore []string `toml:"plugin_extensions_to_ignore" mapstructure:"plugin_extensions_to_ignore"`
		// SkipDefault are plugin names skipped unless --no-skip-default.
		SkipDefault []string `toml:"skip_default" mapstructure:"skip_default"`
		// UnexpectedTagsDefault are record tags whose plugins are skipped by default.
		UnexpectedTagsDefault []string `toml:"unexpected_tags_default" mapstructure:"unexpected_tags_default"`
		// AutoResolveLowerLimit is the deletion ratio (percent) at or above
		// which deletions are treated as an authoring convention.
		AutoResolveLowerLimit int `toml:"auto_resolve_lower_limit" mapstructure:"auto_resolve_lower_limit"`
		// DateSeparator joins the output stem and the date suffix.
		DateSeparator string `toml:"date_separator" mapstructure:"date_separator"`
		// DateFormat is the Go time layout of the date suffix.
		DateFormat string `toml:"date_format" mapstructure:"date_format"`
		// HeaderVersion is the output header format version.
		HeaderVersion float64 `toml:"header_version" mapstructure:"header_version"`
		// HeaderAuthor is the output header author.
		HeaderAuthor string `toml:"header_author" mapstructure:"header_author"`
		// HeaderDescriptionMerge describes a merge-only output.
		HeaderDescriptionMerge string `toml:"header_description_merge" mapstructure:"header_description_merge"`
		// HeaderDescriptionDelev describes a delev-only output.
		HeaderDescriptionDelev string `toml:"header_description_delev" mapstructure:"header_description_delev"`
		// HeaderDescriptionMergeAndDelev describes an output carrying both.
		HeaderDescriptionMergeAndDelev string `toml:"header_description_merge_and_delev" mapstructure:"header_description_merge_and_delev"`
		// ProgressWidth is the progress bar width in cells.
		ProgressWidth int `toml:"progress_width" mapstructure:"progress_width"`
	}
)

// String returns the string representation of the ColorMode.
func (c ColorMode) String() string { return string(c) }

// Validate returns an error if the ColorMode is not one of the defined modes.
func (c ColorMode) Validate() error {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return &InvalidColorModeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s = %d is out of range [%d, %d]", e.Option, e.Value, e.Min, e.Max)
}

// Unwrap returns ErrOutOfRange for errors.Is() compatibility.
func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// Error implements the error interface.
func (e *ConflictingOptionsError) Error() string {
	return fmt.Sprintf("%s cannot be combined with %s: %s", e.Option, e.With, e.Reason)
}

// Unwrap returns ErrConflictingOptions for errors.Is() compatibility.
func (e *ConflictingOptionsError) Unwrap() error { return ErrConflictingOptions }

// Error implements the error interface.
func (e *InvalidOptionsError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid options: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidOptions for errors.Is() compatibility.
func (e *InvalidOptionsError) Unwrap() error { return ErrInvalidOptions }
