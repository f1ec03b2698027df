// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/pkg/classmap"
	"github.com/invowk/pkgloader/pkg/types"
)

type resolveView struct {
	Symbol types.SymbolName     `json:"symbol" yaml:"symbol" toml:"symbol"`
	Path   types.FilesystemPath `json:"path" yaml:"path" toml:"path"`
}

func newResolveCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <symbol>",
		Short: "Resolve a symbol through every instance's class map",
		Long: `Resolve a symbol through the shared resolver. Hooks are consulted in
registration order (prepended instances first) and the first instance
whose class map names the symbol and whose file loads wins.`,
		Args: cobra.ExactArgs(1),
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			symbol := types.SymbolName(args[0])
			if err := symbol.Validate(); err != nil {
				return err
			}

			path, ok := s.registry.Resolver().Resolve(symbol)
			if !ok {
				return &classmap.ClassNotFoundError{Symbol: symbol}
			}

			view := resolveView{Symbol: symbol, Path: path}
			return writeOutput(cmd.OutOrStdout(), s.output, view, func(w io.Writer) error {
				fprintf(w, "%s %s\n", KeyStyle.Render(string(view.Symbol)), view.Path)
				return nil
			})
		}),
	}
}
