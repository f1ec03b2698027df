// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/pkgloader/internal/config"
)

// writeOutput encodes v in the requested format. Text output is delegated to
// text, since each command lays out its own human-readable view. TOML needs
// a table at the top level, so every view passed here is a struct.
func writeOutput(w io.Writer, format config.OutputFormat, v any, text func(io.Writer) error) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputTOML:
		return toml.NewEncoder(w).Encode(v)
	case config.OutputText, "":
		return text(w)
	default:
		return &config.InvalidOutputFormatError{Value: format}
	}
}

// fprintf writes to w, ignoring errors the way fmt.Printf callers do.
func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
