// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	RootNotDirectoryId
	UnknownRootId
	PackageNotFoundId
	ClassNotFoundId
	InstanceNotFoundId
	ScanFailedId
	ClassMapParseErrorId
	PermissionDeniedId
)

type (
	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

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

// Render renders the Markdown message with glamour. stylePath is a glamour
// style name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be loaded.

## Things you can try:
- Check the CUE syntax of your config file
- Show where pkgloader looks for it:
~~~
$ pkgloader config path
~~~

- Write a fresh default config:
~~~
$ pkgloader config init
~~~

## Example config.cue:
~~~cue
log_level: "info"
instances: [{
	name: "default"
	roots: [{name: "vendors", path: "./vendors"}]
}]
~~~`,
	}

	rootNotDirectoryIssue = &Issue{
		id: RootNotDirectoryId,
		mdMsg: `
# Package root is not a directory!

A root was registered with a path that does not exist or is not a directory.

## Things you can try:
- Create the directory and retry
- Fix the ` + "`path`" + ` of the root in your config file
- Relative paths are resolved against the current working directory`,
	}

	unknownRootIssue = &Issue{
		id: UnknownRootId,
		mdMsg: `
# Unknown package root!

No root with that name is registered on the selected loader instance.

## Things you can try:
- List the registered roots:
~~~
$ pkgloader roots
~~~

- Pick another instance with ` + "`--instance`",
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

The root is registered, but no package directory matches the slug.

Packages live two levels below a root, as ` + "`<root>/<vendor>/<package>/`" + `, and
are addressed by the slug ` + "`vendor/package`" + `.

## Things you can try:
- List what was discovered:
~~~
$ pkgloader list
~~~

- Slugs are case sensitive`,
	}

	classNotFoundIssue = &Issue{
		id: ClassNotFoundId,
		mdMsg: `
# Symbol could not be resolved!

No registered resolver hook could map the symbol to a loadable file.

## Things you can try:
- List the mapped symbols:
~~~
$ pkgloader classes
~~~

- Add the symbol to an instance's ` + "`classes`" + ` or to a class map file
- Make sure the mapped file exists and is a regular file`,
	}

	instanceNotFoundIssue = &Issue{
		id: InstanceNotFoundId,
		mdMsg: `
# Loader instance not found!

No loader instance with that name exists.

## Things you can try:
- List the configured instances:
~~~
$ pkgloader instances
~~~

- Add the instance to the ` + "`instances`" + ` list in your config file`,
	}

	scanFailedIssue = &Issue{
		id: ScanFailedId,
		mdMsg: `
# Package discovery failed!

A registered root or one of its vendor directories could not be read. No
partial results were kept; the next query retries the scan.

## Common causes:
- The root was deleted or unmounted after it was registered
- A vendor directory is not readable by the current user

## Things you can try:
- Check that every configured root still exists
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	classMapParseErrorIssue = &Issue{
		id: ClassMapParseErrorId,
		mdMsg: `
# Failed to parse class map!

A class map file could not be parsed or did not match the schema.

## Expected format:
~~~cue
classes: {
	"Acme\\Widget": "/srv/lib/Acme/Widget.php"
}
~~~

## Things you can try:
- Check the CUE syntax
- Every value must be a non-empty path string`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to read a directory or file involved in discovery.

## Things you can try:
- Check file and directory permissions
- Run pkgloader as a user that can read every configured root`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		rootNotDirectoryIssue.Id():   rootNotDirectoryIssue,
		unknownRootIssue.Id():        unknownRootIssue,
		packageNotFoundIssue.Id():    packageNotFoundIssue,
		classNotFoundIssue.Id():      classNotFoundIssue,
		instanceNotFoundIssue.Id():   instanceNotFoundIssue,
		scanFailedIssue.Id():         scanFailedIssue,
		classMapParseErrorIssue.Id(): classMapParseErrorIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
