// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"maps"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/pkg/types"
)

// newMemLoader returns a loader backed by an in-memory filesystem.
func newMemLoader(t *testing.T, opts ...Option) (*Loader, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	return New("test", append([]Option{WithFs(mem)}, opts...)...), mem
}

// mustAddDir registers a root and fails the test on error.
func mustAddDir(t *testing.T, l *Loader, name types.RootName, path string) {
	t.Helper()
	if err := l.AddDir(name, types.FilesystemPath(path)); err != nil {
		t.Fatalf("AddDir(%q, %q) error = %v", name, path, err)
	}
}

// sortedSlugs returns the keys of a bucket in sorted order.
func sortedSlugs(bucket map[types.Slug]Descriptor) []types.Slug {
	return slices.Sorted(maps.Keys(bucket))
}

// rootNames returns the registered root names in scan order.
func rootNames(l *Loader) []types.RootName {
	roots := l.Roots()
	names := make([]types.RootName, len(roots))
	for i, root := range roots {
		names[i] = root.Name
	}
	return names
}
