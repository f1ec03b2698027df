// SPDX-License-Identifier: MPL-2.0

// Package issue turns loader and config failures into guidance a user can
// act on. ActionableError carries the failed operation and remediation
// hints; the catalog maps an Id to a Markdown page rendered with glamour.
package issue
