// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/pkg/loader"
	"github.com/invowk/pkgloader/pkg/types"
)

type rootsView struct {
	Instance types.InstanceName `json:"instance" yaml:"instance" toml:"instance"`
	Roots    []loader.Root      `json:"roots" yaml:"roots" toml:"roots"`
}

func newRootsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "List registered roots with their normalized paths",
		Args:  cobra.NoArgs,
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			l, err := s.current()
			if err != nil {
				return err
			}

			view := rootsView{Instance: l.Name(), Roots: l.Roots()}
			if view.Roots == nil {
				view.Roots = []loader.Root{}
			}
			return writeOutput(cmd.OutOrStdout(), s.output, view, func(w io.Writer) error {
				if len(view.Roots) == 0 {
					fprintf(w, "%s\n", SubtitleStyle.Render("No roots registered."))
					return nil
				}
				for _, root := range view.Roots {
					fprintf(w, "%s %s\n", TitleStyle.Render(string(root.Name)), root.Path)
				}
				return nil
			})
		}),
	}
}
