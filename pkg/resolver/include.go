// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/pkg/types"
)

// ErrNotLoadable is returned by FileIncluder when the registered path is not
// a regular file.
var ErrNotLoadable = errors.New("symbol source is not a regular file")

type (
	// Includer performs the actual load of a symbol's source file once a hook
	// has matched it.
	Includer interface {
		Include(symbol types.SymbolName, path types.FilesystemPath) error
	}

	// IncluderFunc adapts a plain function to the Includer interface.
	IncluderFunc func(symbol types.SymbolName, path types.FilesystemPath) error

	// FileIncluder loads a symbol by opening its source file on Fs and
	// checking that it is a regular file. A nil Fs means the OS filesystem.
	FileIncluder struct {
		Fs afero.Fs
	}
)

// Include calls f(symbol, path).
func (f IncluderFunc) Include(symbol types.SymbolName, path types.FilesystemPath) error {
	return f(symbol, path)
}

// Include opens path and verifies it is a regular file. The handle is closed
// before returning on every path.
func (fi FileIncluder) Include(symbol types.SymbolName, path types.FilesystemPath) (err error) {
	fs := fi.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	f, err := fs.Open(string(path))
	if err != nil {
		return fmt.Errorf("include %s: %w", symbol, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("include %s: close %s: %w", symbol, path, closeErr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("include %s: %w", symbol, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("include %s: %s: %w", symbol, path, ErrNotLoadable)
	}
	return nil
}
