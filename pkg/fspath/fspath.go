// SPDX-License-Identifier: MPL-2.0

// Package fspath holds the path arithmetic the loader applies to roots and
// package directories, expressed over types.FilesystemPath.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/pkgloader/pkg/types"
)

// Child appends a directory-listing entry name to dir.
func Child(dir types.FilesystemPath, name string) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(dir), name))
}

// PackageParts splits a package directory into its vendor (parent) and
// package (leaf) names. Trailing separators are ignored.
func PackageParts(p types.FilesystemPath) (vendor, pkg string) {
	trimmed := strings.TrimRight(string(p), string(filepath.Separator)+"/")
	dir, leaf := filepath.Split(trimmed)
	return filepath.Base(dir), leaf
}

// Absolute resolves p against the working directory and cleans it.
func Absolute(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p, err)
	}
	return types.FilesystemPath(abs), nil
}

// AsRoot returns p with every trailing separator replaced by exactly one.
// The filesystem root stays a single separator.
func AsRoot(p types.FilesystemPath) types.FilesystemPath {
	sep := string(filepath.Separator)
	return types.FilesystemPath(strings.TrimRight(string(p), sep+"/") + sep)
}

// NormalizeRoot is Absolute followed by AsRoot. It does not touch the
// filesystem.
func NormalizeRoot(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := Absolute(p)
	if err != nil {
		return "", err
	}
	return AsRoot(abs), nil
}

// ResolveAgainst returns p unchanged when it is absolute, otherwise p joined
// onto base.
func ResolveAgainst(base, p types.FilesystemPath) types.FilesystemPath {
	if filepath.IsAbs(string(p)) {
		return p
	}
	return types.FilesystemPath(filepath.Join(string(base), string(p)))
}
