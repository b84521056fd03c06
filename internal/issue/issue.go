// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	PackageManagerNotFoundId
	VersionsFileMissingId
	PluginToolMissingId
	ShellNotFoundId
	StageFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // external docs that might be useful for the user
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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the boxprep configuration file.

## Configuration file locations:
- Linux: ~/.config/boxprep/config.toml
- macOS: ~/Library/Application Support/boxprep/config.toml
- Windows: %APPDATA%\boxprep\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ boxprep config init
~~~

- Check the TOML syntax
- Remove the config file to use the built-in defaults`,
	}

	packageManagerNotFoundIssue = &Issue{
		id: PackageManagerNotFoundId,
		mdMsg: `
# Package manager not found!

The system stage needs the configured package manager, but its binary is not
in PATH.

## Things you can try:
- Check the ` + "`system.manager`" + ` setting in your config:
~~~toml
[system]
manager = "apt-get"
~~~

- Make sure you are provisioning a supported base image
- Run with ` + "`--dry-run`" + ` to inspect the commands that would run`,
	}

	versionsFileMissingIssue = &Issue{
		id: VersionsFileMissingId,
		mdMsg: `
# Tool-versions file missing!

The toolchain stage must trust the tool-versions file before installing
anything, but the file does not exist.

## Things you can try:
- Create the file at the configured path (default: ~/.config/mise/config.toml)
- Point ` + "`toolchain.versions_file`" + ` at your file:
~~~toml
[toolchain]
versions_file = "/workspace/.mise.toml"
~~~`,
	}

	pluginToolMissingIssue = &Issue{
		id: PluginToolMissingId,
		mdMsg: `
# Plugin installer not available!

A plugin list was found, but the tool that installs plugins is not in PATH.
The toolchain stage normally provisions it, so this usually means an earlier
stage was skipped or failed.

## Things you can try:
- Run the full pipeline instead of a single stage:
~~~
$ boxprep up
~~~

- Check the ` + "`plugins.install_command`" + ` setting in your config
- Clear the plugin list file if you do not want plugins installed`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# No usable shell found!

The native runner could not find a shell binary in PATH.

## Things you can try:
- Install bash or a POSIX sh in the base image
- The built-in virtual runner needs no host shell; stages that support it
  will fall back automatically`,
	}

	stageFailedIssue = &Issue{
		id: StageFailedId,
		mdMsg: `
# Provisioning stage failed!

A stage's action reported a terminal failure, so the pipeline stopped. The
failed stage's cleanup still ran; stages after it did not start.

## Things you can try:
- Re-run with verbose output:
~~~
$ boxprep --verbose up
~~~

- Re-run just the failed stage:
~~~
$ boxprep stage <name>
~~~

- The environment is disposable: rebuilding from scratch is always safe`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		packageManagerNotFoundIssue.Id(): packageManagerNotFoundIssue,
		versionsFileMissingIssue.Id():    versionsFileMissingIssue,
		pluginToolMissingIssue.Id():      pluginToolMissingIssue,
		shellNotFoundIssue.Id():          shellNotFoundIssue,
		stageFailedIssue.Id():            stageFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
