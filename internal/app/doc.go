// SPDX-License-Identifier: MPL-2.0

// Package app turns a loaded configuration into forged loader instances.
// It sits between the CLI and the loader packages so that configuration
// problems surface as diagnostics the CLI can render, rather than aborting
// the whole run on the first bad root.
package app
