// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// MustWriteFile writes content to path on the OS filesystem, creating
// parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	writeFile(t, afero.NewOsFs(), path, []byte(content))
}

// MakeTree lays out a package tree below root on fsys. Entries are
// slash-separated paths relative to root: a trailing slash makes a
// directory (a vendor or package), anything else an empty file. A nil fsys
// means the OS filesystem.
//
//	testutil.MakeTree(t, mem, "/srv/main", "acme/widget/", "acme/notes.txt")
func MakeTree(t testing.TB, fsys afero.Fs, root string, entries ...string) {
	t.Helper()
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	for _, entry := range entries {
		full := filepath.Join(root, filepath.FromSlash(entry))
		if strings.HasSuffix(entry, "/") {
			mkdirAll(t, fsys, full)
			continue
		}
		writeFile(t, fsys, full, nil)
	}
}

func writeFile(t testing.TB, fsys afero.Fs, path string, data []byte) {
	t.Helper()
	mkdirAll(t, fsys, filepath.Dir(path))
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdirAll(t testing.TB, fsys afero.Fs, dir string) {
	t.Helper()
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}
