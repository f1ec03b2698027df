// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/invowk/pkgloader/pkg/types"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
	OutputTOML OutputFormat = "toml"

	// DefaultInstanceName is the instance forged when the config names none.
	DefaultInstanceName types.InstanceName = "default"

	// DefaultDebounce is the default quiet period for watch mode.
	DefaultDebounce = 500 * time.Millisecond
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidDebounce is returned when watch.debounce is not a positive duration.
	ErrInvalidDebounce = errors.New("invalid debounce duration")
	// ErrDuplicateName is returned when a name that must be unique repeats.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// OutputFormat selects how CLI results are encoded.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// DuplicateNameError reports the second occurrence of a name within Scope.
	DuplicateNameError struct {
		Scope string
		Name  string
	}

	// InvalidConfigError aggregates every field error found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// RootEntry registers a package root on an instance.
	// An empty Path means the name doubles as the path.
	RootEntry struct {
		Name types.RootName       `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
		Path types.FilesystemPath `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty" mapstructure:"path"`
	}

	// ClassEntry maps a symbol to the file that defines it.
	ClassEntry struct {
		Symbol types.SymbolName     `json:"symbol" yaml:"symbol" toml:"symbol" mapstructure:"symbol"`
		Path   types.FilesystemPath `json:"path" yaml:"path" toml:"path" mapstructure:"path"`
	}

	// InstanceConfig describes one loader instance to forge.
	InstanceConfig struct {
		Name types.InstanceName `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
		// Type selects the descriptor factory: package, plugin or theme.
		Type        string                 `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty" mapstructure:"type"`
		PrependHook bool                   `json:"prepend_hook,omitempty" yaml:"prepend_hook,omitempty" toml:"prepend_hook,omitempty" mapstructure:"prepend_hook"`
		Roots       []RootEntry            `json:"roots,omitempty" yaml:"roots,omitempty" toml:"roots,omitempty" mapstructure:"roots"`
		Classes     []ClassEntry           `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty" mapstructure:"classes"`
		ClassFiles  []types.FilesystemPath `json:"class_files,omitempty" yaml:"class_files,omitempty" toml:"class_files,omitempty" mapstructure:"class_files"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is a Go duration string such as "500ms".
		Debounce string   `json:"debounce" yaml:"debounce" toml:"debounce" mapstructure:"debounce"`
		Ignore   []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty" mapstructure:"ignore"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		Verbose bool         `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		Output  OutputFormat `json:"output" yaml:"output" toml:"output" mapstructure:"output"`
	}

	// Config is the root configuration structure.
	Config struct {
		LogLevel  LogLevel         `json:"log_level" yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
		Instances []InstanceConfig `json:"instances" yaml:"instances" toml:"instances" mapstructure:"instances"`
		Watch     WatchConfig      `json:"watch" yaml:"watch" toml:"watch" mapstructure:"watch"`
		UI        UIConfig         `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
	}
)

// DefaultConfig returns the default configuration: a single "default"
// instance with no roots.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelInfo,
		Instances: []InstanceConfig{
			{Name: DefaultInstanceName, Type: "package"},
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce.String(),
			Ignore:   []string{"**/.git/**", "**/*.swp", "**/*~"},
		},
		UI: UIConfig{
			Output: OutputText,
		},
	}
}

func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the level is not recognized.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Slog maps the level onto slog. Unknown values map to info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (f OutputFormat) String() string { return string(f) }

// Validate returns an error if the format is not recognized.
func (f OutputFormat) Validate() error {
	switch f {
	case OutputText, OutputJSON, OutputYAML, OutputTOML:
		return nil
	default:
		return &InvalidOutputFormatError{Value: f}
	}
}

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml)", e.Value)
}

func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: duplicate name %q", e.Scope, e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the individual field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DebounceDuration parses Debounce. An empty value yields DefaultDebounce.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	if w.Debounce == "" {
		return DefaultDebounce, nil
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce %q: %w: %w", w.Debounce, ErrInvalidDebounce, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.debounce %q: %w: must be positive", w.Debounce, ErrInvalidDebounce)
	}
	return d, nil
}

// Validate checks the instance's names for emptiness and uniqueness.
func (ic InstanceConfig) Validate() []error {
	var errs []error
	if err := ic.Name.Validate(); err != nil {
		errs = append(errs, err)
	}

	scope := fmt.Sprintf("instance %q", ic.Name)

	seenRoots := make(map[types.RootName]bool, len(ic.Roots))
	for _, root := range ic.Roots {
		if err := root.Name.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", scope, err))
			continue
		}
		if seenRoots[root.Name] {
			errs = append(errs, &DuplicateNameError{Scope: scope + " roots", Name: string(root.Name)})
		}
		seenRoots[root.Name] = true
	}

	seenSymbols := make(map[types.SymbolName]bool, len(ic.Classes))
	for _, class := range ic.Classes {
		if err := class.Symbol.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", scope, err))
			continue
		}
		if err := class.Path.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s class %q: %w", scope, class.Symbol, err))
		}
		if seenSymbols[class.Symbol] {
			errs = append(errs, &DuplicateNameError{Scope: scope + " classes", Name: string(class.Symbol)})
		}
		seenSymbols[class.Symbol] = true
	}

	return errs
}

// Validate checks the whole configuration, including the uniqueness rules
// the CUE schema cannot express. All problems are reported at once.
func (c Config) Validate() error {
	var errs []error
	if c.LogLevel != "" {
		if err := c.LogLevel.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.UI.Output != "" {
		if err := c.UI.Output.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[types.InstanceName]bool, len(c.Instances))
	for _, inst := range c.Instances {
		errs = append(errs, inst.Validate()...)
		if inst.Name == "" {
			continue
		}
		if seen[inst.Name] {
			errs = append(errs, &DuplicateNameError{Scope: "instances", Name: string(inst.Name)})
		}
		seen[inst.Name] = true
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Instance returns the instance config with the given name.
func (c *Config) Instance(name types.InstanceName) (*InstanceConfig, bool) {
	for i := range c.Instances {
		if c.Instances[i].Name == name {
			return &c.Instances[i], true
		}
	}
	return nil, false
}
