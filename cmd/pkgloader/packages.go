// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/pkg/loader"
	"github.com/invowk/pkgloader/pkg/types"
)

type (
	// pathDescriptor is implemented by the built-in descriptor kinds.
	pathDescriptor interface {
		Path() types.FilesystemPath
		Kind() string
	}

	packageView struct {
		Root types.RootName       `json:"root" yaml:"root" toml:"root"`
		Slug types.Slug           `json:"slug" yaml:"slug" toml:"slug"`
		Kind string               `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
		Path types.FilesystemPath `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	}

	rootPackagesView struct {
		Name     types.RootName       `json:"name" yaml:"name" toml:"name"`
		Path     types.FilesystemPath `json:"path" yaml:"path" toml:"path"`
		Packages []packageView        `json:"packages" yaml:"packages" toml:"packages"`
	}

	listView struct {
		Instance types.InstanceName `json:"instance" yaml:"instance" toml:"instance"`
		Roots    []rootPackagesView `json:"roots" yaml:"roots" toml:"roots"`
	}

	showView struct {
		Instance types.InstanceName   `json:"instance" yaml:"instance" toml:"instance"`
		Root     types.RootName       `json:"root" yaml:"root" toml:"root"`
		Slug     types.Slug           `json:"slug" yaml:"slug" toml:"slug"`
		Vendor   string               `json:"vendor" yaml:"vendor" toml:"vendor"`
		Package  string               `json:"package" yaml:"package" toml:"package"`
		Kind     string               `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
		Path     types.FilesystemPath `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	}
)

func newListCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "list [root]",
		Short: "List discovered packages",
		Long: `List the packages discovered under every registered root, or under a
single root when one is named. Discovery runs once per invocation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			l, err := s.current()
			if err != nil {
				return err
			}

			view := listView{Instance: l.Name()}
			if len(args) == 1 {
				name := types.RootName(args[0])
				bucket, err := l.Packages(name)
				if err != nil {
					return err
				}
				path, _ := l.RootPath(name)
				view.Roots = append(view.Roots, newRootPackagesView(name, path, bucket))
			} else {
				all, err := l.GetAll()
				if err != nil {
					return err
				}
				for _, root := range l.Roots() {
					view.Roots = append(view.Roots, newRootPackagesView(root.Name, root.Path, all[root.Name]))
				}
			}

			return writeOutput(cmd.OutOrStdout(), s.output, view, func(w io.Writer) error {
				renderListText(w, view)
				return nil
			})
		}),
	}
}

func newShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "show <root> <vendor/package>",
		Short: "Show one discovered package",
		Args:  cobra.ExactArgs(2),
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			l, err := s.current()
			if err != nil {
				return err
			}
			slug, err := types.ParseSlug(args[1])
			if err != nil {
				return err
			}
			root := types.RootName(args[0])
			desc, err := l.Get(root, slug)
			if err != nil {
				return err
			}

			pkg := newPackageView(root, slug, desc)
			view := showView{
				Instance: l.Name(),
				Root:     pkg.Root,
				Slug:     pkg.Slug,
				Vendor:   slug.Vendor(),
				Package:  slug.Package(),
				Kind:     pkg.Kind,
				Path:     pkg.Path,
			}
			return writeOutput(cmd.OutOrStdout(), s.output, view, func(w io.Writer) error {
				fprintf(w, "%s %s\n", TitleStyle.Render(string(view.Slug)), SubtitleStyle.Render("("+view.Kind+")"))
				fprintf(w, "  %s %s\n", KeyStyle.Render("root:"), view.Root)
				fprintf(w, "  %s %s\n", KeyStyle.Render("vendor:"), view.Vendor)
				fprintf(w, "  %s %s\n", KeyStyle.Render("package:"), view.Package)
				fprintf(w, "  %s %s\n", KeyStyle.Render("path:"), view.Path)
				fprintf(w, "  %s %s\n", KeyStyle.Render("instance:"), view.Instance)
				return nil
			})
		}),
	}
}

func newPackageView(root types.RootName, slug types.Slug, desc loader.Descriptor) packageView {
	v := packageView{Root: root, Slug: slug}
	if pd, ok := desc.(pathDescriptor); ok {
		v.Kind = pd.Kind()
		v.Path = pd.Path()
	}
	return v
}

func newRootPackagesView(name types.RootName, path types.FilesystemPath, bucket map[types.Slug]loader.Descriptor) rootPackagesView {
	v := rootPackagesView{Name: name, Path: path, Packages: []packageView{}}
	for _, slug := range slices.Sorted(maps.Keys(bucket)) {
		v.Packages = append(v.Packages, newPackageView(name, slug, bucket[slug]))
	}
	return v
}

func renderListText(w io.Writer, view listView) {
	if len(view.Roots) == 0 {
		fprintf(w, "%s\n", SubtitleStyle.Render(fmt.Sprintf("No roots registered on instance %q.", view.Instance)))
		return
	}
	for i, root := range view.Roots {
		if i > 0 {
			fprintf(w, "\n")
		}
		fprintf(w, "%s %s\n", TitleStyle.Render(string(root.Name)), SubtitleStyle.Render(string(root.Path)))
		if len(root.Packages) == 0 {
			fprintf(w, "  %s\n", SubtitleStyle.Render("(no packages)"))
			continue
		}
		for _, pkg := range root.Packages {
			fprintf(w, "  %s\n", KeyStyle.Render(string(pkg.Slug)))
		}
	}
}
