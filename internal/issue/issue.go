// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	GameConfigNotFoundId Id = iota + 1
	GameConfigParseErrorId
	PluginNotFoundId
	EmptyLoadOrderId
	PluginDecodeFailedId
	UnexpectedTagId
	InvalidSettingsId
	ThresholdExceededId
	ConsistencyErrorId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	gameConfigNotFoundIssue = &Issue{
		id: GameConfigNotFoundId,
		mdMsg: `
# Game configuration not found!

The load order is read from the game configuration file, and none was found.

## Search locations (in order):
1. The path given with --config
2. Morrowind.ini and openmw.cfg in the current directory
3. The OpenMW user configuration directory of your platform

## Things you can try:
- Point at the file explicitly:
~~~
$ jobasha --config "/path/to/openmw.cfg"
~~~
- Run jobasha from the directory that contains Morrowind.exe`,
		extLinks: []HttpLink{"https://openmw.readthedocs.io/en/latest/reference/modding/paths.html"},
	}

	gameConfigParseErrorIssue = &Issue{
		id: GameConfigParseErrorId,
		mdMsg: `
# Game configuration could not be parsed!

Both dialects are plain KEY=VALUE lines:

~~~ini
; Morrowind.ini
[Game Files]
GameFile0=Morrowind.esm
GameFile1=Tribunal.esm
~~~

~~~ini
# openmw.cfg
data="/games/Morrowind/Data Files"
content=Morrowind.esm
~~~

## Things you can try:
- Open the file in the game launcher and save it again
- Check for unbalanced quotes in data= lines`,
	}

	pluginNotFoundIssue = &Issue{
		id: PluginNotFoundId,
		mdMsg: `
# Plugin listed in the load order was not found!

A plugin named by the game configuration does not exist in any data directory.

## Things you can try:
- Remove the stale entry with the game launcher
- Check that every data= directory is still present
- Continue without it:
~~~
$ jobasha --ignore-errors
~~~`,
	}

	emptyLoadOrderIssue = &Issue{
		id: EmptyLoadOrderId,
		mdMsg: `
# The load order is empty!

No plugins remained after reading the game configuration and applying the filters.

## Things you can try:
- Check --skip, --skip-last and the default skip list
- Verify that the configuration lists plugins (GameFile or content= lines)`,
	}

	pluginDecodeFailedIssue = &Issue{
		id: PluginDecodeFailedId,
		mdMsg: `
# A plugin could not be read!

The file is truncated, corrupted or not a TES3 plugin.

## Things you can try:
- Reinstall the mod that provides it
- Skip it:
~~~
$ jobasha --skip "Broken.esp"
~~~
- Or continue without any unreadable plugin:
~~~
$ jobasha --ignore-errors
~~~`,
	}

	unexpectedTagIssue = &Issue{
		id: UnexpectedTagId,
		mdMsg: `
# A plugin contains an unknown record type!

Plugins made for other engines or newer OpenMW features may carry records the
original game does not know.

## Things you can try:
- Skip every plugin with unknown records:
~~~
$ jobasha --skip-unexpected-tags
~~~
- Add the tag to guts.unexpected_tags_default in the settings file`,
	}

	invalidSettingsIssue = &Issue{
		id: InvalidSettingsId,
		mdMsg: `
# Invalid settings!

An option on the command line or in the settings file has an invalid value, or
two options contradict each other.

## Things you can try:
- Show the effective settings:
~~~
$ jobasha settings show
~~~
- Regenerate a clean settings file:
~~~
$ jobasha settings init
~~~`,
	}

	thresholdExceededIssue = &Issue{
		id: ThresholdExceededId,
		mdMsg: `
# Many entries were deleted from a list!

A plugin removed a large share of the entries of a list defined earlier in the
load order. This is either intended, or the plugin was made for another version
of its master.

## Things you can try:
- Allow deletions by that master: --always-delete "Master.esp"
- Never infer deletions from its lists: --never-delete "Master.esp"
- Raise the threshold: --threshold-creatures 80 --threshold-items 80
- Silence the warning: --no-threshold-warnings`,
	}

	consistencyErrorIssue = &Issue{
		id: ConsistencyErrorId,
		mdMsg: `
# Internal consistency error!

A deletion target was not found in the merged list. This is a bug.

## Things you can try:
- Rerun with --verbose and keep the log file
- Report the list identifier and the plugins named in the message`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Output plugin could not be written!

The previous output, if any, is still available as a .backup file.

## Things you can try:
- Check permissions of the output directory
- Choose another directory with --output-dir`,
	}

	issues = map[Id]*Issue{
		gameConfigNotFoundIssue.Id():   gameConfigNotFoundIssue,
		gameConfigParseErrorIssue.Id(): gameConfigParseErrorIssue,
		pluginNotFoundIssue.Id():       pluginNotFoundIssue,
		emptyLoadOrderIssue.Id():       emptyLoadOrderIssue,
		pluginDecodeFailedIssue.Id():   pluginDecodeFailedIssue,
		unexpectedTagIssue.Id():        unexpectedTagIssue,
		invalidSettingsIssue.Id():      invalidSettingsIssue,
		thresholdExceededIssue.Id():    thresholdExceededIssue,
		consistencyErrorIssue.Id():     consistencyErrorIssue,
		outputWriteFailedIssue.Id():    outputWriteFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
