// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/pkg/types"
)

type (
	instanceView struct {
		Name     types.InstanceName `json:"name" yaml:"name" toml:"name"`
		Type     string             `json:"type" yaml:"type" toml:"type"`
		Roots    int                `json:"roots" yaml:"roots" toml:"roots"`
		Classes  int                `json:"classes" yaml:"classes" toml:"classes"`
		Selected bool               `json:"selected" yaml:"selected" toml:"selected"`
	}

	instancesView struct {
		Instances []instanceView `json:"instances" yaml:"instances" toml:"instances"`
	}
)

func newInstancesCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List forged loader instances",
		Args:  cobra.NoArgs,
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			view := instancesView{Instances: []instanceView{}}
			for _, name := range s.registry.Names() {
				l, ok := s.registry.Lookup(name)
				if !ok {
					continue
				}
				view.Instances = append(view.Instances, instanceView{
					Name:     name,
					Type:     l.TypeName(),
					Roots:    len(l.Roots()),
					Classes:  len(l.Classes()),
					Selected: name == s.instance,
				})
			}

			return writeOutput(cmd.OutOrStdout(), s.output, view, func(w io.Writer) error {
				for _, inst := range view.Instances {
					marker := " "
					if inst.Selected {
						marker = SuccessStyle.Render("*")
					}
					fprintf(w, "%s %s %s %s\n", marker, TitleStyle.Render(string(inst.Name)),
						SubtitleStyle.Render("("+inst.Type+")"),
						SubtitleStyle.Render(pluralize(inst.Roots, "root")+", "+pluralize(inst.Classes, "class")))
				}
				return nil
			})
		}),
	}
}

func pluralize(n int, noun string) string {
	suffix := "s"
	if noun == "class" {
		suffix = "es"
	}
	if n == 1 {
		suffix = ""
	}
	return strconv.Itoa(n) + " " + noun + suffix
}
