// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/invowk/pkgloader/internal/watch"
	"github.com/invowk/pkgloader/pkg/loader"
	"github.com/invowk/pkgloader/pkg/types"
)

// snapshot is the set of slugs per root at one point in time.
type snapshot map[types.RootName][]types.Slug

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Report packages as they appear and disappear",
		Long: `Watch every root of the selected instance and print the packages added
or removed after each burst of filesystem changes. A changed root has its
cached packages dropped, which forces a fresh scan of that root.`,
		Args: cobra.NoArgs,
		RunE: app.withSession(flags, func(cmd *cobra.Command, s *session, _ []string) error {
			l, err := s.current()
			if err != nil {
				return err
			}
			debounce, err := s.cfg.Watch.DebounceDuration()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			prev, err := takeSnapshot(l)
			if err != nil {
				return err
			}
			fprintf(out, "%s Watching %d root(s) of %q (Ctrl+C to stop)...\n",
				KeyStyle.Render("→"), len(prev), l.Name())

			roots := make([]watch.Root, 0, len(l.Roots()))
			for _, root := range l.Roots() {
				roots = append(roots, watch.Root{Name: root.Name, Path: root.Path})
			}

			w, err := watch.New(watch.Config{
				Roots:    roots,
				Ignore:   s.cfg.Watch.Ignore,
				Debounce: debounce,
				Logger:   s.logger,
				OnChange: func(_ context.Context, changed []types.RootName) error {
					next, err := rescan(l, changed)
					if err != nil {
						return err
					}
					renderSnapshotDiff(out, prev, next)
					prev = next
					return nil
				},
			})
			if err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			return w.Run(cmd.Context())
		}),
	}
}

// rescan resets the changed roots so their buckets are rebuilt from disk,
// then takes a new snapshot. A root whose directory is missing keeps its
// registration and cached packages, so it is picked up again once the
// directory returns; its error is reported and no snapshot is taken.
// Names the loader does not know are skipped.
func rescan(l *loader.Loader, changed []types.RootName) (snapshot, error) {
	var errs []error
	for _, name := range changed {
		err := l.ResetDir(name)
		if err != nil && !errors.Is(err, loader.ErrNoSuchDirectory) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return takeSnapshot(l)
}

func takeSnapshot(l *loader.Loader) (snapshot, error) {
	all, err := l.GetAll()
	if err != nil {
		return nil, err
	}
	snap := make(snapshot, len(all))
	for name, bucket := range all {
		snap[name] = slices.Sorted(maps.Keys(bucket))
	}
	return snap, nil
}

// renderSnapshotDiff prints one line per added (+) or removed (-) package.
func renderSnapshotDiff(w io.Writer, prev, next snapshot) {
	names := slices.Sorted(maps.Keys(next))
	for _, name := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := next[name]; !ok {
			names = append(names, name)
		}
	}

	for _, name := range names {
		before, after := prev[name], next[name]
		for _, slug := range after {
			if !slices.Contains(before, slug) {
				fprintf(w, "%s %s %s\n", SuccessStyle.Render("+"), TitleStyle.Render(string(name)), slug)
			}
		}
		for _, slug := range before {
			if !slices.Contains(after, slug) {
				fprintf(w, "%s %s %s\n", removedStyle.Render("-"), TitleStyle.Render(string(name)), slug)
			}
		}
	}
}
