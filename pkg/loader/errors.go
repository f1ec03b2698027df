// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"

	"github.com/invowk/pkgloader/pkg/types"
)

var (
	// ErrNotADirectory is the sentinel error wrapped by NotADirectoryError.
	ErrNotADirectory = errors.New("not a directory")
	// ErrNoSuchDirectory is the sentinel error wrapped by UnknownRootError.
	ErrNoSuchDirectory = errors.New("no such directory")
	// ErrNoSuchPackage is the sentinel error wrapped by PackageNotFoundError.
	ErrNoSuchPackage = errors.New("no such package")
	// ErrScanFailed is the sentinel error wrapped by ScanError.
	ErrScanFailed = errors.New("package scan failed")
	// ErrInstanceNotFound is the sentinel error wrapped by InstanceNotFoundError.
	ErrInstanceNotFound = errors.New("loader instance not found")
	// ErrUnknownKind is the sentinel error wrapped by UnknownKindError.
	ErrUnknownKind = errors.New("unknown package kind")

	errNilDescriptor = errors.New("factory returned a nil descriptor")
)

type (
	// NotADirectoryError is returned by AddDir when the path does not resolve
	// to an existing directory.
	NotADirectoryError struct {
		Name  types.RootName
		Path  types.FilesystemPath
		Cause error
	}

	// UnknownRootError is returned when a root name was never registered
	// (or has been removed).
	UnknownRootError struct {
		Name types.RootName
	}

	// PackageNotFoundError is returned by Get when no package with the slug
	// was discovered under the root.
	PackageNotFoundError struct {
		Root types.RootName
		Slug types.Slug
	}

	// ScanError is returned when discovery fails. Nothing discovered during
	// the failed call is committed to the cache.
	ScanError struct {
		Root  types.RootName
		Path  types.FilesystemPath
		Cause error
	}

	// InstanceNotFoundError is returned by Registry.Destroy for a name that
	// was never forged.
	InstanceNotFoundError struct {
		Name types.InstanceName
	}

	// UnknownKindError is returned by FactoryFor for an unrecognized kind.
	UnknownKindError struct {
		Kind string
	}
)

// Error implements the error interface.
func (e *NotADirectoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("root %q: %s is not a directory: %v", e.Name, e.Path, e.Cause)
	}
	return fmt.Sprintf("root %q: %s is not a directory", e.Name, e.Path)
}

// Unwrap returns ErrNotADirectory and the underlying cause, if any.
func (e *NotADirectoryError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNotADirectory}
	}
	return []error{ErrNotADirectory, e.Cause}
}

// Error implements the error interface.
func (e *UnknownRootError) Error() string {
	return fmt.Sprintf("no such directory: root %q is not registered", e.Name)
}

// Unwrap returns ErrNoSuchDirectory for errors.Is() compatibility.
func (e *UnknownRootError) Unwrap() error { return ErrNoSuchDirectory }

// Error implements the error interface.
func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("no such package %q in root %q", e.Slug, e.Root)
}

// Unwrap returns ErrNoSuchPackage for errors.Is() compatibility.
func (e *PackageNotFoundError) Unwrap() error { return ErrNoSuchPackage }

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan root %q at %s: %v", e.Root, e.Path, e.Cause)
}

// Unwrap returns ErrScanFailed and the underlying cause.
func (e *ScanError) Unwrap() []error { return []error{ErrScanFailed, e.Cause} }

// Error implements the error interface.
func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("loader instance %q does not exist", e.Name)
}

// Unwrap returns ErrInstanceNotFound for errors.Is() compatibility.
func (e *InstanceNotFoundError) Unwrap() error { return ErrInstanceNotFound }

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown package kind %q (valid: %s, %s, %s)", e.Kind, KindPackage, KindPlugin, KindTheme)
}

// Unwrap returns ErrUnknownKind for errors.Is() compatibility.
func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }
