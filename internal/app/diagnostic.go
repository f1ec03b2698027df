// SPDX-License-Identifier: MPL-2.0

package app

const (
	// SeverityWarning indicates a recoverable bootstrap warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal bootstrap error diagnostic.
	SeverityError Severity = "error"

	CodeConfigLoadFailed = "config_load_failed"
	CodeRootNotDirectory = "root_not_directory"
	CodeRootInvalid      = "root_invalid"
	CodeClassFileInvalid = "class_file_invalid"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal problem found while applying configuration.
	// Diagnostics are returned to callers rather than logged so the CLI owns
	// the rendering policy.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "root_not_directory").
		Code     string
		Message  string
		Instance string
		// Path is the filesystem path associated with this diagnostic (optional).
		Path  string
		Cause error
	}
)
