// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	bootstrap "github.com/invowk/pkgloader/internal/app"
	"github.com/invowk/pkgloader/internal/config"
	"github.com/invowk/pkgloader/internal/issue"
	"github.com/invowk/pkgloader/pkg/loader"
	"github.com/invowk/pkgloader/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and opens a
	// session through it.
	App struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		Fs          afero.Fs
		stdout      io.Writer
		stderr      io.Writer
		// issueStyle is the glamour style for issue catalog entries.
		issueStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		Fs          afero.Fs
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Path(opts config.LoadOptions) (string, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []bootstrap.Diagnostic, stderr io.Writer)
	}

	// session is the per-invocation state: the effective configuration and
	// the registry bootstrapped from it.
	session struct {
		cfg      *config.Config
		registry *loader.Registry
		logger   *slog.Logger
		output   config.OutputFormat
		verbose  bool
		instance types.InstanceName
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}

	return &App{
		Config:      deps.Config,
		Diagnostics: deps.Diagnostics,
		Fs:          deps.Fs,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		issueStyle:  "dark",
	}, nil
}

// open loads configuration, builds the logger and forges every configured
// instance. Non-fatal problems are rendered as diagnostics; an explicit
// --config file that cannot be loaded aborts.
func (a *App) open(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, diags := loadConfigWithFallback(ctx, a.Config, flags.configPath)
	if flags.configPath != "" && len(diags) > 0 {
		return nil, diags[0].Cause
	}

	s := &session{
		cfg:     cfg,
		verbose: flags.verbose || cfg.UI.Verbose,
		output:  cfg.UI.Output,
	}
	if flags.output != "" {
		s.output = config.OutputFormat(flags.output)
	}
	if s.output == "" {
		s.output = config.OutputText
	}
	if err := s.output.Validate(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel.Slog()
	if s.verbose {
		level = slog.LevelDebug
	}
	s.logger = newLogger(a.stderr, level)

	s.registry = loader.NewRegistry(nil)
	result, err := bootstrap.Bootstrap(cfg, s.registry, s.logger, bootstrap.WithFs(a.Fs))
	if err != nil {
		return nil, err
	}
	diags = append(diags, result.Diagnostics...)
	a.Diagnostics.Render(ctx, diags, a.stderr)

	switch {
	case flags.instance != "":
		s.instance = types.InstanceName(flags.instance)
	case len(result.Instances) > 0:
		s.instance = result.Instances[0]
	default:
		s.instance = config.DefaultInstanceName
	}
	return s, nil
}

// current returns the loader selected with --instance (or the first
// configured one).
func (s *session) current() (*loader.Loader, error) {
	l, ok := s.registry.Lookup(s.instance)
	if !ok {
		return nil, issue.NewErrorContext().
			WithOperation("select instance").
			WithResource(string(s.instance)).
			WithSuggestion("Run 'pkgloader instances' to list the configured instances").
			WithIssue(issue.InstanceNotFoundId).
			Wrap(&loader.InstanceNotFoundError{Name: s.instance}).
			BuildError()
	}
	return l, nil
}

// loadConfigWithFallback loads configuration and falls back to defaults on
// failure, reporting the failure as a diagnostic. A failure to read an
// existing file is an error; a missing config directory only warns.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string) (*config.Config, []bootstrap.Diagnostic) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil
	}

	if configPath != "" {
		return config.DefaultConfig(), []bootstrap.Diagnostic{{
			Severity: bootstrap.SeverityError,
			Code:     bootstrap.CodeConfigLoadFailed,
			Message:  fmt.Sprintf("failed to load config from %s: %v", configPath, err),
			Path:     configPath,
			Cause:    err,
		}}
	}

	severity := bootstrap.SeverityError
	if errors.Is(err, fs.ErrNotExist) {
		severity = bootstrap.SeverityWarning
	}
	return config.DefaultConfig(), []bootstrap.Diagnostic{{
		Severity: severity,
		Code:     bootstrap.CodeConfigLoadFailed,
		Message:  fmt.Sprintf("failed to load config, using defaults: %v", err),
		Cause:    err,
	}}
}

// Render writes diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []bootstrap.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == bootstrap.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
