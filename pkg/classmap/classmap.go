// SPDX-License-Identifier: MPL-2.0

// Package classmap holds the explicit symbol-to-file registry consulted by a
// loader's resolver hook. It is a plain data structure with no knowledge of
// how symbols are resolved or loaded.
package classmap

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/invowk/pkgloader/pkg/types"
)

// ErrClassNotFound is the sentinel error wrapped by ClassNotFoundError.
var ErrClassNotFound = errors.New("class not found")

type (
	// ClassMap maps fully-qualified symbol names to source file paths.
	// The zero value is not usable; create instances with New.
	ClassMap struct {
		entries map[types.SymbolName]types.FilesystemPath
	}

	// ClassNotFoundError is returned when a symbol was never registered.
	ClassNotFoundError struct {
		Symbol types.SymbolName
	}
)

// New creates an empty ClassMap.
func New() *ClassMap {
	return &ClassMap{entries: make(map[types.SymbolName]types.FilesystemPath)}
}

// Add inserts or overwrites the mapping for symbol.
func (m *ClassMap) Add(symbol types.SymbolName, path types.FilesystemPath) {
	m.entries[symbol] = path
}

// Remove deletes the mapping for symbol. Removing an unknown symbol is a no-op.
func (m *ClassMap) Remove(symbol types.SymbolName) {
	delete(m.entries, symbol)
}

// Path returns the file registered for symbol.
func (m *ClassMap) Path(symbol types.SymbolName) (types.FilesystemPath, error) {
	path, ok := m.entries[symbol]
	if !ok {
		return "", &ClassNotFoundError{Symbol: symbol}
	}
	return path, nil
}

// Lookup is the non-failing form of Path, for callers that treat a miss as
// a normal outcome (such as resolver hooks).
func (m *ClassMap) Lookup(symbol types.SymbolName) (types.FilesystemPath, bool) {
	path, ok := m.entries[symbol]
	return path, ok
}

// Len returns the number of registered symbols.
func (m *ClassMap) Len() int { return len(m.entries) }

// Symbols returns the registered symbol names in sorted order.
func (m *ClassMap) Symbols() []types.SymbolName {
	return slices.Sorted(maps.Keys(m.entries))
}

// All returns a copy of the underlying mapping.
func (m *ClassMap) All() map[types.SymbolName]types.FilesystemPath {
	return maps.Clone(m.entries)
}

// Error implements the error interface.
func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class %q is not registered", e.Symbol)
}

// Unwrap returns ErrClassNotFound for errors.Is() compatibility.
func (e *ClassNotFoundError) Unwrap() error { return ErrClassNotFound }
