// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/invowk/pkgloader/internal/config"
)

// newLogger builds the CLI's structured logger. charmbracelet/log renders
// records for humans and doubles as the slog.Handler handed to the core
// packages.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  log.Level(level),
	})
	return slog.New(handler)
}
