// SPDX-License-Identifier: MPL-2.0

package config

const (
	// AppName is the application name.
	AppName = "jobasha"
	// SettingsFileName is the settings file name (without extension).
	SettingsFileName = "jobasha"
	// SettingsFileExt is the settings file extension.
	SettingsFileExt = "toml"

	// DefaultOutput is the default merge plugin name.
	DefaultOutput = "MergedLeveledLists.esp"
	// DefaultDelevOutput is the default distinct delev plugin name.
	DefaultDelevOutput = "DeleveledLeveledLists.esp"
	// DefaultThresholdCreatures is the creature deletion warning threshold.
	DefaultThresholdCreatures = 67
	// DefaultThresholdItems is the item deletion warning threshold.
	DefaultThresholdItems = 49
)

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		Options: Options{
			Output:               DefaultOutput,
			OutputDir:            "",
			Skip:                 []string{},
			ExtendedDelete:       true,
			AlwaysDelete:         []string{},
			NeverDelete:          []string{},
			ThresholdCreatures:   DefaultThresholdCreatures,
			ThresholdItems:       DefaultThresholdItems,
			DelevTo:              1,
			DelevOutput:          DefaultDelevOutput,
			DelevSegmentRatio:    50,
			DelevSkipList:        []string{},
			DelevNoSkipList:      []string{},
			DelevSkipSubrecord:   []string{},
			DelevNoSkipSubrecord: []string{},
			Color:                ColorAuto,
		},
		Guts: Guts{
			GameFilePrefix:                 "GameFile",
			MorrowindDataDir:               "Data Files",
			OpenmwDataKey:                  "data",
			OpenmwContentKey:               "content",
			ConfigSearchPaths:              []string{},
			HiddenDataDirs:                 []string{},
			PluginExtensions:               []string{".esm", ".esp", ".omwaddon", ".omwgame"},
			PluginExtensionsToIgnore:       []string{".omwscripts"},
			SkipDefault:                    []string{"Merged Objects.esp", "multipatch.esp"},
			UnexpectedTagsDefault:          []string{"LUAL"},
			AutoResolveLowerLimit:          100,
			DateSeparator:                  " - ",
			DateFormat:                     "2006-01-02",
			HeaderVersion:                  1.3,
			HeaderAuthor:                   "Jobasha",
			HeaderDescriptionMerge:         "Merged leveled lists",
			HeaderDescriptionDelev:         "Deleveled leveled lists",
			HeaderDescriptionMergeAndDelev: "Merged and deleveled leveled lists",
			ProgressWidth:                  40,
		},
	}
}
