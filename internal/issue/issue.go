// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ToolNotFoundId Id = iota + 1
	WrongBranchId
	BranchNotUpToDateId
	NotRepositoryRootId
	DirtyWorkingTreeId
	ConfigLoadFailedId
	InstallFailedId
	LockFileNotUpdatedId
	BuildFailedId
	PublishFailedId
	GitCommandFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	var extraMd strings.Builder
	if len(i.extLinks) > 0 {
		extraMd.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			extraMd.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(string(i.mdMsg)+extraMd.String(), stylePath)
}

// toolInstallLinks maps the tools suitepub commonly requires to their
// installation pages.
var toolInstallLinks = map[string]HttpLink{
	"git":  "https://git-scm.com/downloads",
	"node": "https://nodejs.org/en/download",
	"npm":  "https://docs.npmjs.com/downloading-and-installing-node-js-and-npm",
	"npx":  "https://docs.npmjs.com/downloading-and-installing-node-js-and-npm",
	"yarn": "https://yarnpkg.com/getting-started/install",
	"pnpm": "https://pnpm.io/installation",
}

// ToolInstallLink returns the installation page for a known tool.
func ToolInstallLink(tool string) (HttpLink, bool) {
	link, ok := toolInstallLinks[tool]
	return link, ok
}

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Required tool not found!

suitepub drives git and the package manager as external programs, and at least
one of them could not be found in your PATH.

## Things you can try:
- Install the missing tool and make sure its directory is on your PATH
- Check which binary your shell resolves:
~~~
$ command -v git node npm
~~~
- Adjust ` + "`required_tools`" + ` in suitepub.cue if your suite uses another package manager`,
		extLinks: []HttpLink{toolInstallLinks["git"], toolInstallLinks["node"]},
	}

	wrongBranchIssue = &Issue{
		id: WrongBranchId,
		mdMsg: `
# Not on the trunk branch!

Releases published under the default distribution tag must be cut from the trunk
branch.

## Things you can try:
- Switch to the trunk branch:
~~~
$ git checkout master
~~~
- Publish a pre-release from this branch under a dedicated tag:
~~~
$ suitepub -t next
~~~`,
	}

	branchNotUpToDateIssue = &Issue{
		id: BranchNotUpToDateId,
		mdMsg: `
# Trunk is not up to date!

The local trunk branch does not point at the same commit as its remote tracking
branch.

## Things you can try:
- Pull the latest changes:
~~~
$ git pull --ff-only
~~~
- Push local commits that have not been published yet`,
	}

	notRepositoryRootIssue = &Issue{
		id: NotRepositoryRootId,
		mdMsg: `
# Not at the repository root!

suitepub resolves package directories relative to the repository root and must be
started from there.

## Things you can try:
~~~
$ cd "$(git rev-parse --show-toplevel)"
~~~`,
	}

	dirtyWorkingTreeIssue = &Issue{
		id: DirtyWorkingTreeId,
		mdMsg: `
# Working tree has uncommitted changes!

The release commits only the files it bumps, so it refuses to start on a dirty
working tree.

## Things you can try:
- Review the changes:
~~~
$ git status
~~~
- Commit or stash them, then run suitepub again`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The suitepub.cue file could not be parsed or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ suitepub config show
~~~
- Check the CUE syntax with the cue command-line tool:
~~~
$ cue vet suitepub.cue
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Dependency reinstall failed!

The package manager exited with an error while re-resolving dependencies after the
version bump. The captured output is printed above.

## Things you can try:
- Re-run the install by hand inside the package directory
- Check registry connectivity and authentication
- Discard the bumped manifest with ` + "`git checkout -- .`" + ` before retrying`,
	}

	lockFileNotUpdatedIssue = &Issue{
		id: LockFileNotUpdatedId,
		mdMsg: `
# Lock file was not updated!

The dependency reinstall finished, but the lock file is unchanged. Publishing now
would ship a manifest that does not match its lock file.

## Things you can try:
- Clear the package manager cache and retry:
~~~
$ npm cache verify
~~~
- Make sure the lock file is tracked by git`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Build failed!

The build step exited with an error, so there are no artifacts to publish.

## Things you can try:
- Run the build by hand inside the package directory
- Fix the reported errors, discard the version bump and run suitepub again`,
	}

	publishFailedIssue = &Issue{
		id: PublishFailedId,
		mdMsg: `
# Publish failed!

The registry rejected the publish. Packages published earlier in this run stay
published and their bump commits stay in place.

## Things you can try:
- Check that the one-time password had not expired
- Verify you have publish rights:
~~~
$ npm whoami
~~~
- Re-run suitepub with the same version once the problem is fixed`,
	}

	gitCommandFailedIssue = &Issue{
		id: GitCommandFailedId,
		mdMsg: `
# Git command failed!

A git invocation needed by the release exited with an error.

## Things you can try:
- Run the command printed above by hand to see the full error
- Check your remote credentials with ` + "`git fetch`",
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():       toolNotFoundIssue,
		wrongBranchIssue.Id():        wrongBranchIssue,
		branchNotUpToDateIssue.Id():  branchNotUpToDateIssue,
		notRepositoryRootIssue.Id():  notRepositoryRootIssue,
		dirtyWorkingTreeIssue.Id():   dirtyWorkingTreeIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		installFailedIssue.Id():      installFailedIssue,
		lockFileNotUpdatedIssue.Id(): lockFileNotUpdatedIssue,
		buildFailedIssue.Id():        buildFailedIssue,
		publishFailedIssue.Id():      publishFailedIssue,
		gitCommandFailedIssue.Id():   gitCommandFailedIssue,
	}
)

func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
