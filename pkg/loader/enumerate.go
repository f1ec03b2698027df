// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/pkg/fspath"
	"github.com/invowk/pkgloader/pkg/types"
)

// Subdir is one immediate subdirectory returned by Subdirs.
type Subdir struct {
	Name string
	Path types.FilesystemPath
}

// Subdirs lists the immediate subdirectories of dir, sorted by name.
// Self and parent entries are excluded. Symbolic links are followed; links
// to files and dangling links are skipped like any other non-directory.
// The directory handle is released on every return path.
func Subdirs(fsys afero.Fs, dir types.FilesystemPath) (_ []Subdir, err error) {
	f, err := fsys.Open(string(dir))
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(infos, func(a, b os.FileInfo) int { return strings.Compare(a.Name(), b.Name()) })

	dirs := make([]Subdir, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if name == "." || name == ".." {
			continue
		}

		entryPath := fspath.Child(dir, name)
		isDir := info.IsDir()
		if info.Mode()&fs.ModeSymlink != 0 {
			target, statErr := fsys.Stat(string(entryPath))
			if statErr != nil {
				if errors.Is(statErr, fs.ErrNotExist) {
					continue
				}
				return nil, statErr
			}
			isDir = target.IsDir()
		}
		if !isDir {
			continue
		}

		dirs = append(dirs, Subdir{Name: name, Path: entryPath})
	}

	return dirs, nil
}
