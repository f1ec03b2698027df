// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a root directory, package directory or class file
	// location. Relative values are resolved by whoever consumes them.
	FilesystemPath string

	// InvalidFilesystemPathError reports a path that is blank or that
	// contains a NUL byte, which no filesystem accepts.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

func (p FilesystemPath) String() string { return string(p) }

// Validate rejects blank paths and paths containing NUL.
func (p FilesystemPath) Validate() error {
	switch {
	case strings.TrimSpace(string(p)) == "":
		return &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}
	case strings.ContainsRune(string(p), 0):
		return &InvalidFilesystemPathError{Value: p, Reason: "contains a NUL byte"}
	}
	return nil
}

func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
