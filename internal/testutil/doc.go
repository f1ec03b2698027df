// SPDX-License-Identifier: MPL-2.0

// Package testutil builds package trees and config files for tests, failing
// the test on any filesystem error.
package testutil
