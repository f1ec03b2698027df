// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/internal/config"
	"github.com/invowk/pkgloader/pkg/types"
)

type classesView struct {
	Instance types.InstanceName  `json:"instance" yaml:"instance" toml:"instance"`
	Classes  []config.ClassEntry `json:"classes" yaml:"classes" toml:"classes"`
}

func newClassesCommand(app *App, flags *rootFlagValues) *cobra.Command {
	classesCmd := &cobra.Command{
		Use:   "classes",
		Short: "Show the class map of an instance",
		Args:  cobra.NoArgs,
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			l, err := s.current()
			if err != nil {
				return err
			}
			return writeClasses(cmd.OutOrStdout(), s.output, l.Name(), l.Classes())
		}),
	}

	var save bool
	importCmd := &cobra.Command{
		Use:   "import <file.cue>",
		Short: "Merge a CUE class map into an instance",
		Long: `Merge a CUE class map file into the selected instance and print the
resulting class map. The file has the shape

  classes: [{symbol: "Acme\\Widget", path: "src/Widget.php"}]

and relative paths resolve against the file's directory. With --save the
file is appended to the instance's class_files in the config file so later
runs load it too.`,
		Args: cobra.ExactArgs(1),
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			l, err := s.current()
			if err != nil {
				return err
			}
			entries, err := config.LoadClassMapFile(app.Fs, args[0])
			if err != nil {
				return err
			}
			for _, entry := range entries {
				l.AddClass(entry.Symbol, entry.Path)
			}
			s.logger.Info("class map imported", "file", args[0], "classes", len(entries))

			if save {
				if err := saveClassFile(app, flags, s, args[0]); err != nil {
					return err
				}
			}
			return writeClasses(cmd.OutOrStdout(), s.output, l.Name(), l.Classes())
		}),
	}
	importCmd.Flags().BoolVar(&save, "save", false, "record the file in the config's class_files")

	classesCmd.AddCommand(importCmd)
	return classesCmd
}

// saveClassFile appends path to the selected instance's class_files and
// writes the config back, creating a default config first if none exists.
func saveClassFile(app *App, flags *rootFlagValues, s *session, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	cfgPath, err := app.Config.Path(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	if cfgPath == "" {
		if cfgPath, _, err = config.CreateDefaultConfig(""); err != nil {
			return err
		}
	}

	inst, ok := s.cfg.Instance(s.instance)
	if !ok {
		s.cfg.Instances = append(s.cfg.Instances, config.InstanceConfig{Name: s.instance})
		inst = &s.cfg.Instances[len(s.cfg.Instances)-1]
	}
	if !slices.Contains(inst.ClassFiles, types.FilesystemPath(abs)) {
		inst.ClassFiles = append(inst.ClassFiles, types.FilesystemPath(abs))
	}
	return config.Save(s.cfg, cfgPath)
}

func writeClasses(w io.Writer, format config.OutputFormat, instance types.InstanceName, classes map[types.SymbolName]types.FilesystemPath) error {
	view := classesView{Instance: instance, Classes: []config.ClassEntry{}}
	for _, symbol := range slices.Sorted(maps.Keys(classes)) {
		view.Classes = append(view.Classes, config.ClassEntry{Symbol: symbol, Path: classes[symbol]})
	}

	return writeOutput(w, format, view, func(w io.Writer) error {
		if len(view.Classes) == 0 {
			fprintf(w, "%s\n", SubtitleStyle.Render("No classes registered."))
			return nil
		}
		for _, entry := range view.Classes {
			fprintf(w, "%s %s\n", KeyStyle.Render(string(entry.Symbol)), SubtitleStyle.Render(string(entry.Path)))
		}
		return nil
	})
}
