// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	ProjectNotFoundId Id = iota + 1
	ScanRootNotFoundId
	ReferenceNotFoundId
	ConverterNotConfiguredId
	ConverterFailedId
	SidecarMissingId
	ConfigLoadFailedId
	InvalidArgumentsId
	PermissionDeniedId
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

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# Project not found!

The project path does not exist or is not a directory.

## Things you can try:
- Pass the Unity project root, the directory that contains ` + "`Assets/`" + `:
~~~
$ scriptport --project-path ~/src/MyGame
~~~

- Use an absolute path if you are running from another directory`,
		extLinks: []HttpLink{"https://docs.unity3d.com/Manual/SpecialFolders.html"},
	}

	scanRootNotFoundIssue = &Issue{
		id: ScanRootNotFoundId,
		mdMsg: `
# No Assets directory!

The project exists, but the directory that holds the scripts was not found.
By default scriptport scans ` + "`<project>/Assets`" + `.

## Things you can try:
- Check that you passed the project root and not the Assets folder itself
- Change the scanned directory in your config file:
~~~cue
project: {
	scan_dir: "Assets"
}
~~~`,
		extLinks: []HttpLink{"https://docs.unity3d.com/Manual/SpecialFolders.html"},
	}

	referenceNotFoundIssue = &Issue{
		id: ReferenceNotFoundId,
		mdMsg: `
# Referenced assembly not found!

Every assembly passed with ` + "`--references`" + ` must exist before conversion
starts, because the converter needs the complete set to resolve types.
Nothing was converted.

## Things you can try:
- Check the path of the assembly named above
- Unity assemblies usually live below the editor installation:
~~~
Editor/Data/Managed/UnityEngine.dll
Editor/Data/Managed/UnityEditor.dll
~~~

- List references in your config file so you do not repeat them:
~~~cue
converter: {
	references: ["/path/to/UnityEngine.dll"]
}
~~~`,
	}

	converterNotConfiguredIssue = &Issue{
		id: ConverterNotConfiguredId,
		mdMsg: `
# No converter configured!

scriptport finds and classifies scripts, but the conversion itself is done
by an external converter command.

## Things you can try:
- Set the converter command in your config file:
~~~cue
converter: {
	command: "us2cs --stdio"
}
~~~

- Or set it for one run through the environment:
~~~
$ SCRIPTPORT_CONVERTER_COMMAND="us2cs --stdio" scriptport -p ~/src/MyGame
~~~

- Use ` + "`--dump`" + ` to only list the scripts per category`,
	}

	converterFailedIssue = &Issue{
		id: ConverterFailedId,
		mdMsg: `
# Some scripts were not converted!

The converter failed for at least one category, or some results could not be
written. Scripts that were converted have been written next to their sources.

## Things you can try:
- Run again with ` + "`--verbose`" + ` to see the converter's diagnostics
- Run with ` + "`--ignore-errors`" + ` to let the converter skip scripts it cannot handle
- Check that every reference assembly matches your Unity version`,
	}

	sidecarMissingIssue = &Issue{
		id: SidecarMissingId,
		mdMsg: `
# Meta file missing!

Unity keeps asset identity in a ` + "`.meta`" + ` file next to every script. The
converted script was written, but its meta file could not be carried over, so
Unity will assign it a new identity and references to it will break.

## Things you can try:
- Open the project in Unity once so it regenerates missing meta files
- Restore the meta file from version control and run again`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be read or is not valid.

## Things you can try:
- Show where the configuration is loaded from:
~~~
$ scriptport config path
~~~

- Print the effective configuration:
~~~
$ scriptport config show
~~~

- Write a fresh configuration file with defaults:
~~~
$ scriptport config init
~~~`,
	}

	invalidArgumentsIssue = &Issue{
		id: InvalidArgumentsId,
		mdMsg: `
# Invalid arguments!

The command line could not be understood.

## Usage:
~~~
$ scriptport --project-path <dir> [--references <dll>]... [--defines <symbol>]... [--dump] [--ignore-errors]
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

scriptport could not read a script or write its converted output.

## Things you can try:
- Check the permissions of the project directory
- Make sure no other program holds the files open
- Run scriptport as the user that owns the project`,
	}

	issues = map[Id]*Issue{
		projectNotFoundIssue.Id():        projectNotFoundIssue,
		scanRootNotFoundIssue.Id():       scanRootNotFoundIssue,
		referenceNotFoundIssue.Id():      referenceNotFoundIssue,
		converterNotConfiguredIssue.Id(): converterNotConfiguredIssue,
		converterFailedIssue.Id():        converterFailedIssue,
		sidecarMissingIssue.Id():         sidecarMissingIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		invalidArgumentsIssue.Id():       invalidArgumentsIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
