// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/alvazir/jobasha-sub000/internal/config"

	"github.com/spf13/pflag"
)

// registerOptionFlags declares one flag per [options] key. Flag names are
// the keys with dashes, which is how config binds them over the settings
// file.
func registerOptionFlags(fs *pflag.FlagSet) {
	d := config.DefaultSettings().Options

	// Input and output.
	fs.StringP("config", "c", d.Config, "game configuration file, Morrowind.ini or openmw.cfg (default: search well-known locations)")
	fs.StringP("output", "o", d.Output, "merge plugin file name")
	fs.String("output-dir", d.OutputDir, "directory output plugins are written to")
	fs.StringP("log", "l", d.Log, "log file path (default: <output-dir>/<output name>.log)")
	fs.Bool("no-log", d.NoLog, "do not write a log file")
	fs.Bool("no-backup", d.NoBackup, "do not keep .backup copies of replaced files")
	fs.BoolP("dry-run", "n", d.DryRun, "do everything except writing files")
	fs.BoolP("date-suffix", "d", d.DateSuffix, "append the current date to output names")

	// Filters.
	fs.BoolP("all-lists", "a", d.AllLists, "place every list, even untouched ones")
	fs.Int("skip-last", d.SkipLast, "leave out the last N plugins of the load order")
	fs.StringSlice("skip", d.Skip, "plugin names to leave out of the load order")
	fs.Bool("no-skip-default", d.NoSkipDefault, "do not skip the built-in plugin list")
	fs.Bool("skip-unexpected-tags", d.SkipUnexpectedTags, "skip plugins containing any unknown record type")
	fs.Bool("no-skip-unexpected-tags-default", d.NoSkipUnexpectedTagsDefault, "do not skip plugins with the built-in unknown record types")
	fs.Bool("skip-creatures", d.SkipCreatures, "leave creature lists alone")
	fs.Bool("skip-items", d.SkipItems, "leave item lists alone")
	fs.Bool("ignore-errors", d.IgnoreErrors, "continue past missing or unreadable plugins")

	// Deletions.
	fs.Bool("no-delete", d.NoDelete, "never remove entries deleted by later plugins")
	fs.Bool("extended-delete", d.ExtendedDelete, "enable thresholds, auto-resolve and the always/never lists")
	fs.StringSlice("always-delete", d.AlwaysDelete, "plugins whose deletions are always applied")
	fs.StringSlice("never-delete", d.NeverDelete, "plugins whose lists never get deletions inferred")
	fs.Int("threshold-creatures", d.ThresholdCreatures, "creature list deletion warning threshold in percent")
	fs.Int("threshold-items", d.ThresholdItems, "item list deletion warning threshold in percent")
	fs.Bool("no-threshold-warnings", d.NoThresholdWarnings, "report threshold breaches as information")

	// Delev.
	fs.Bool("delev", d.Delev, "lower the levels of list entries")
	fs.Int("delev-to", d.DelevTo, "level entries are lowered to")
	fs.Int("delev-creatures-to", d.DelevCreaturesTo, "delev-to for creature lists (0: use delev-to)")
	fs.Int("delev-items-to", d.DelevItemsTo, "delev-to for item lists (0: use delev-to)")
	fs.Bool("delev-distinct", d.DelevDistinct, "write deleveled lists into their own plugin")
	fs.String("delev-output", d.DelevOutput, "distinct delev plugin file name")
	fs.Bool("delev-random", d.DelevRandom, "pick a random level between the target and the original")
	fs.Int("delev-segment", d.DelevSegment, "level from which segment rules apply (0: disabled)")
	fs.Int("delev-creatures-segment", d.DelevCreaturesSegment, "delev-segment for creature lists (0: use delev-segment)")
	fs.Int("delev-items-segment", d.DelevItemsSegment, "delev-segment for item lists (0: use delev-segment)")
	fs.Bool("delev-segment-progressive", d.DelevSegmentProgressive, "compute a ceiling per segment-wide window")
	fs.Int("delev-segment-ratio", d.DelevSegmentRatio, "percent of the segment kept above delev-to")
	fs.Bool("delev-skip-creatures", d.DelevSkipCreatures, "do not delevel creature lists")
	fs.Bool("delev-skip-items", d.DelevSkipItems, "do not delevel item lists")
	fs.StringSlice("delev-skip-list", d.DelevSkipList, "list identifier patterns left untouched by delev")
	fs.StringSlice("delev-no-skip-list", d.DelevNoSkipList, "exceptions to delev-skip-list")
	fs.StringSlice("delev-skip-subrecord", d.DelevSkipSubrecord, "entry identifier patterns left untouched by delev")
	fs.StringSlice("delev-no-skip-subrecord", d.DelevNoSkipSubrecord, "exceptions to delev-skip-subrecord")

	// Compare.
	fs.Bool("no-compare", d.NoCompare, "do not compare outputs with their previous versions")
	fs.Bool("compare-only", d.CompareOnly, "build outputs in memory and only compare them (exit 3 on difference)")
	fs.String("compare-with", d.CompareWith, "plugin to compare the merge output with")
	fs.String("compare-delev-with", d.CompareDelevWith, "plugin to compare the delev output with")
	fs.Bool("compare-common", d.CompareCommon, "report only size changes of shared masters")

	// Display.
	fs.BoolP("verbose", "v", d.Verbose, "enable debug output")
	fs.String("color", string(d.Color), "when to color output: auto, always or never")
}
