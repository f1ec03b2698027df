// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/internal/config"
)

// newConfigCommand creates the `pkgloader config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pkgloader configuration",
		Long: `Manage pkgloader configuration.

Configuration is stored in:
  - Linux: ~/.config/pkgloader/config.cue
  - macOS: ~/Library/Application Support/pkgloader/config.cue
  - Windows: %APPDATA%\pkgloader\config.cue

A config.cue in the current directory is used when none exists there.
Environment variables prefixed with PKGLOADER_ override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			cfgPath, err := app.Config.Path(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), s.output, s.cfg, func(w io.Writer) error {
				renderConfigText(w, cfgPath, s.cfg)
				return nil
			})
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, err := app.Config.Path(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				renderIssue(app.stderr, app.issueStyle, err, flags.verbose)
				return err
			}
			if cfgPath == "" {
				dir, dirErr := config.ConfigDir()
				if dirErr != nil {
					return dirErr
				}
				fprintf(cmd.OutOrStdout(), "%s %s\n", dir, SubtitleStyle.Render("(no config file, using defaults)"))
				return nil
			}
			fprintf(cmd.OutOrStdout(), "%s\n", cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			if !created {
				fprintf(cmd.OutOrStdout(), "%s %s\n", WarningStyle.Render("Config file already exists:"), cfgPath)
				return nil
			}
			fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Created config file:"), cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			fprintf(cmd.OutOrStdout(), "%s", config.GenerateCUE(s.cfg))
			return nil
		}),
	})

	return cfgCmd
}

func renderConfigText(w io.Writer, cfgPath string, cfg *config.Config) {
	fprintf(w, "%s\n\n", TitleStyle.Render("Current Configuration"))
	if cfgPath != "" {
		fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), cfgPath)
	} else {
		fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fprintf(w, "\n")

	fprintf(w, "%s: %s\n", KeyStyle.Render("log_level"), SuccessStyle.Render(string(cfg.LogLevel)))
	fprintf(w, "%s: %s\n", KeyStyle.Render("watch.debounce"), SuccessStyle.Render(cfg.Watch.Debounce))
	fprintf(w, "%s: %v\n", KeyStyle.Render("watch.ignore"), cfg.Watch.Ignore)
	fprintf(w, "%s: %v\n", KeyStyle.Render("ui.verbose"), cfg.UI.Verbose)
	fprintf(w, "%s: %s\n", KeyStyle.Render("ui.output"), SuccessStyle.Render(string(cfg.UI.Output)))

	fprintf(w, "\n%s\n", TitleStyle.Render("Instances"))
	for _, inst := range cfg.Instances {
		kind := inst.Type
		if kind == "" {
			kind = "package"
		}
		fprintf(w, "  %s %s\n", KeyStyle.Render(string(inst.Name)), SubtitleStyle.Render("("+kind+")"))
		for _, root := range inst.Roots {
			path := root.Path
			if path == "" {
				path = "(same as name)"
			}
			fprintf(w, "    root %s: %s\n", root.Name, path)
		}
		for _, class := range inst.Classes {
			fprintf(w, "    class %s: %s\n", class.Symbol, class.Path)
		}
		for _, file := range inst.ClassFiles {
			fprintf(w, "    class file: %s\n", file)
		}
	}
}
