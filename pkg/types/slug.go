// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// SlugSeparator joins the vendor and package segments of a Slug. It is always
// a forward slash, independent of the host path separator.
const SlugSeparator = "/"

// ErrInvalidSlug is the sentinel error wrapped by InvalidSlugError.
var ErrInvalidSlug = errors.New("invalid package slug")

type (
	// Slug identifies a discovered package within one root, in the exact form
	// "vendor/package". Segments are compared byte-for-byte; no case folding
	// or Unicode normalization is applied.
	Slug string

	// InvalidSlugError is returned when a Slug is not of the form "vendor/package".
	InvalidSlugError struct {
		Value Slug
	}
)

// NewSlug joins a vendor and package directory name into a Slug.
func NewSlug(vendor, pkg string) Slug {
	return Slug(vendor + SlugSeparator + pkg)
}

// ParseSlug validates s and returns it as a Slug.
func ParseSlug(s string) (Slug, error) {
	slug := Slug(s)
	if err := slug.Validate(); err != nil {
		return "", err
	}
	return slug, nil
}

// String returns the string representation of the Slug.
func (s Slug) String() string { return string(s) }

// Vendor returns the vendor segment, or "" if the slug is malformed.
func (s Slug) Vendor() string {
	vendor, _, ok := strings.Cut(string(s), SlugSeparator)
	if !ok {
		return ""
	}
	return vendor
}

// Package returns the package segment, or "" if the slug is malformed.
func (s Slug) Package() string {
	_, pkg, ok := strings.Cut(string(s), SlugSeparator)
	if !ok {
		return ""
	}
	return pkg
}

// Validate returns nil if the Slug has exactly two non-empty segments.
func (s Slug) Validate() error {
	vendor, pkg, ok := strings.Cut(string(s), SlugSeparator)
	if !ok || vendor == "" || pkg == "" || strings.Contains(pkg, SlugSeparator) {
		return &InvalidSlugError{Value: s}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidSlugError) Error() string {
	return fmt.Sprintf("invalid package slug %q: expected \"vendor/package\"", e.Value)
}

// Unwrap returns ErrInvalidSlug for errors.Is() compatibility.
func (e *InvalidSlugError) Unwrap() error { return ErrInvalidSlug }
