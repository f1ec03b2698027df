// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRootName is the sentinel error wrapped by InvalidRootNameError.
	ErrInvalidRootName = errors.New("invalid root name")
	// ErrInvalidInstanceName is the sentinel error wrapped by InvalidInstanceNameError.
	ErrInvalidInstanceName = errors.New("invalid instance name")
	// ErrInvalidSymbolName is the sentinel error wrapped by InvalidSymbolNameError.
	ErrInvalidSymbolName = errors.New("invalid symbol name")
)

type (
	// RootName is the caller-chosen logical name of a registered root directory.
	// A valid name must be non-empty and not whitespace-only.
	RootName string

	// InvalidRootNameError is returned when a RootName is empty or whitespace-only.
	InvalidRootNameError struct {
		Value RootName
	}

	// InstanceName identifies a named loader instance in a registry
	// (e.g., "plugins", "themes").
	InstanceName string

	// InvalidInstanceNameError is returned when an InstanceName is empty or
	// whitespace-only.
	InvalidInstanceNameError struct {
		Value InstanceName
	}

	// SymbolName is a fully-qualified symbol (class) name registered in a
	// class map, such as "Acme\\Widget\\Renderer".
	SymbolName string

	// InvalidSymbolNameError is returned when a SymbolName is empty or
	// whitespace-only.
	InvalidSymbolNameError struct {
		Value SymbolName
	}
)

// String returns the string representation of the RootName.
func (n RootName) String() string { return string(n) }

// Validate returns nil if the RootName is non-blank.
func (n RootName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return &InvalidRootNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidRootNameError) Error() string {
	return fmt.Sprintf("invalid root name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidRootName for errors.Is() compatibility.
func (e *InvalidRootNameError) Unwrap() error { return ErrInvalidRootName }

// String returns the string representation of the InstanceName.
func (n InstanceName) String() string { return string(n) }

// Validate returns nil if the InstanceName is non-blank.
func (n InstanceName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return &InvalidInstanceNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidInstanceNameError) Error() string {
	return fmt.Sprintf("invalid instance name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidInstanceName for errors.Is() compatibility.
func (e *InvalidInstanceNameError) Unwrap() error { return ErrInvalidInstanceName }

// String returns the string representation of the SymbolName.
func (s SymbolName) String() string { return string(s) }

// Validate returns nil if the SymbolName is non-blank.
func (s SymbolName) Validate() error {
	if strings.TrimSpace(string(s)) == "" {
		return &InvalidSymbolNameError{Value: s}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidSymbolNameError) Error() string {
	return fmt.Sprintf("invalid symbol name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidSymbolName for errors.Is() compatibility.
func (e *InvalidSymbolNameError) Unwrap() error { return ErrInvalidSymbolName }
