// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/pkgloader/config.cue (XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/pkgloader/config.cue on macOS, %APPDATA%\pkgloader\config.cue
// on Windows; PKGLOADER_CONFIG_DIR relocates the directory), from an explicit --config
// file, or from ./config.cue. Environment variables prefixed with PKGLOADER_ override
// scalar settings.
//
// The file declares the loader instances to forge, their package roots and class
// mappings, plus watch and output settings. It is validated against the embedded CUE
// schema (config_schema.cue); constraints CUE cannot express, such as name uniqueness,
// are checked by Config.Validate. The same schema defines #ClassMap for standalone
// class map files.
package config
