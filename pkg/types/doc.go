// SPDX-License-Identifier: MPL-2.0

// Package types defines the value types shared by the loader packages: root
// names, package slugs, symbol names, instance names and filesystem paths.
// They carry validation but no domain behavior.
//
// This package is a leaf dependency: it imports only the standard library.
package types
