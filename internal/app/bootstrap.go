// SPDX-License-Identifier: MPL-2.0

package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/internal/config"
	"github.com/invowk/pkgloader/pkg/loader"
	"github.com/invowk/pkgloader/pkg/types"
)

type (
	// Result is the outcome of Bootstrap.
	Result struct {
		// Instances lists the forged instance names in configuration order.
		Instances   []types.InstanceName
		Diagnostics []Diagnostic
	}

	// Option configures Bootstrap.
	Option func(*options)

	options struct {
		fs afero.Fs
	}
)

// WithFs sets the filesystem used for roots and class-map files.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Bootstrap forges every instance in cfg on reg, then registers its roots,
// inline classes and class-map files. Roots that fail to register and
// class-map files that fail to parse become diagnostics; the remaining
// entries are still applied. An unknown instance type or an invalid
// instance name aborts with an error.
func Bootstrap(cfg *config.Config, reg *loader.Registry, logger *slog.Logger, opts ...Option) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: nil config")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	result := &Result{}
	for i := range cfg.Instances {
		ic := &cfg.Instances[i]
		l, err := forge(ic, reg, logger, o.fs)
		if err != nil {
			return nil, err
		}
		result.Instances = append(result.Instances, ic.Name)
		result.Diagnostics = append(result.Diagnostics, applyRoots(l, ic)...)
		result.Diagnostics = append(result.Diagnostics, applyClasses(l, ic, o.fs)...)

		logger.Debug("instance ready",
			"instance", ic.Name,
			"type", l.TypeName(),
			"roots", len(l.Roots()),
			"classes", len(l.Classes()))
	}
	return result, nil
}

func forge(ic *config.InstanceConfig, reg *loader.Registry, logger *slog.Logger, fsys afero.Fs) (*loader.Loader, error) {
	kind := ic.Type
	if kind == "" {
		kind = loader.KindPackage
	}
	factory, err := loader.FactoryFor(kind)
	if err != nil {
		return nil, fmt.Errorf("instance %q: %w", ic.Name, err)
	}

	l, err := reg.Forge(ic.Name, ic.PrependHook,
		loader.WithTypeName(kind),
		loader.WithFactory(factory),
		loader.WithFs(fsys),
		loader.WithLogger(logger.With("instance", string(ic.Name))),
	)
	if err != nil {
		return nil, fmt.Errorf("forge instance %q: %w", ic.Name, err)
	}
	return l, nil
}

func applyRoots(l *loader.Loader, ic *config.InstanceConfig) []Diagnostic {
	var diags []Diagnostic
	for _, root := range ic.Roots {
		err := l.AddDir(root.Name, root.Path)
		if err == nil {
			continue
		}

		path := string(root.Path)
		if path == "" {
			path = string(root.Name)
		}
		code := CodeRootInvalid
		if errors.Is(err, loader.ErrNotADirectory) {
			code = CodeRootNotDirectory
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Code:     code,
			Message:  fmt.Sprintf("root %q skipped: %v", root.Name, err),
			Instance: string(ic.Name),
			Path:     path,
			Cause:    err,
		})
	}
	return diags
}

func applyClasses(l *loader.Loader, ic *config.InstanceConfig, fsys afero.Fs) []Diagnostic {
	for _, entry := range ic.Classes {
		l.AddClass(entry.Symbol, entry.Path)
	}

	var diags []Diagnostic
	for _, file := range ic.ClassFiles {
		entries, err := config.LoadClassMapFile(fsys, string(file))
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeClassFileInvalid,
				Message:  fmt.Sprintf("class map %s skipped: %v", file, err),
				Instance: string(ic.Name),
				Path:     string(file),
				Cause:    err,
			})
			continue
		}
		for _, entry := range entries {
			l.AddClass(entry.Symbol, entry.Path)
		}
	}
	return diags
}
