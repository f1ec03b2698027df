// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pkgloader CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// rootFlagValues holds the persistent flags shared by every subcommand.
	rootFlagValues struct {
		configPath string
		verbose    bool
		instance   string
		output     string
	}

	// runFunc is a subcommand body that runs inside an opened session.
	runFunc func(cmd *cobra.Command, s *session, args []string) error
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "pkgloader",
		Short: "Discover vendor packages and resolve class symbols",
		Long: TitleStyle.Render("pkgloader") + SubtitleStyle.Render(" - package discovery and class resolution") + `

pkgloader scans registered root directories for packages laid out as
<root>/<vendor>/<package> and resolves symbols through per-instance class
maps. Instances, roots and classes are configured in CUE.

` + SubtitleStyle.Render("Examples:") + `
  pkgloader list                  List packages under every root
  pkgloader show main acme/widget Show one package
  pkgloader resolve 'Acme\Widget' Resolve a symbol through all instances
  pkgloader watch                 Report package changes as they happen`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/pkgloader/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&flags.instance, "instance", "i", "", "loader instance to use (default is the first configured)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "output format: text, json, yaml or toml")

	rootCmd.AddCommand(
		newListCommand(app, flags),
		newShowCommand(app, flags),
		newRootsCommand(app, flags),
		newClassesCommand(app, flags),
		newResolveCommand(app, flags),
		newInstancesCommand(app, flags),
		newConfigCommand(app, flags),
		newWatchCommand(app, flags),
	)
	return rootCmd
}

// withSession opens a session for the invocation and runs fn inside it.
// Errors get their catalog entry rendered before they propagate.
func (a *App) withSession(flags *rootFlagValues, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open(cmd.Context(), flags)
		if err != nil {
			renderIssue(a.stderr, a.issueStyle, err, flags.verbose)
			return err
		}
		if err := fn(cmd, s, args); err != nil {
			renderIssue(a.stderr, a.issueStyle, err, s.verbose)
			return err
		}
		return nil
	}
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
