// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/internal/issue"
	"github.com/invowk/pkgloader/pkg/cueutil"
	"github.com/invowk/pkgloader/pkg/fspath"
	"github.com/invowk/pkgloader/pkg/types"
)

type classMapFile struct {
	Classes []ClassEntry `json:"classes"`
}

// LoadClassMapFile parses a standalone CUE class map file validated against
// #ClassMap. Relative class paths resolve against the file's directory.
func LoadClassMapFile(fsys afero.Fs, path string) ([]ClassEntry, error) {
	result, err := cueutil.DecodeFile[classMapFile](fsys, classMapSchema, path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load class map").
			WithResource(path).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Each entry needs a non-empty symbol and path").
			WithIssue(issue.ClassMapParseErrorId).
			Wrap(err).
			BuildError()
	}

	base := types.FilesystemPath(filepath.Dir(path))
	entries := make([]ClassEntry, len(result.Value.Classes))
	for i, entry := range result.Value.Classes {
		entry.Path = fspath.ResolveAgainst(base, entry.Path)
		entries[i] = entry
	}
	return entries, nil
}
