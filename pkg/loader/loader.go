// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/pkg/classmap"
	"github.com/invowk/pkgloader/pkg/fspath"
	"github.com/invowk/pkgloader/pkg/resolver"
	"github.com/invowk/pkgloader/pkg/types"
)

type (
	// Loader discovers packages under its registered roots and resolves
	// symbols from its class map. Create loaders with New, or through a
	// Registry to get a named instance with an attached resolver hook.
	Loader struct {
		name     types.InstanceName
		typeName string
		factory  Factory
		fs       afero.Fs
		logger   *slog.Logger
		includer resolver.Includer

		roots     map[types.RootName]types.FilesystemPath
		rootOrder []types.RootName
		classes   *classmap.ClassMap

		// cache is nil until the first scan.
		cache map[types.RootName]map[types.Slug]Descriptor
		dirty bool
		scans int

		hookID resolver.HookID
	}

	// Option configures a Loader at construction.
	Option func(*Loader)

	// Root is a registered root directory.
	Root struct {
		Name types.RootName       `json:"name" yaml:"name" toml:"name"`
		Path types.FilesystemPath `json:"path" yaml:"path" toml:"path"`
	}
)

// WithTypeName sets the descriptive type tag (e.g., "plugin"). It does not
// influence discovery.
func WithTypeName(typeName string) Option {
	return func(l *Loader) { l.typeName = typeName }
}

// WithFactory sets the descriptor factory used for newly discovered packages.
func WithFactory(factory Factory) Option {
	return func(l *Loader) {
		if factory != nil {
			l.factory = factory
		}
	}
}

// WithFs sets the filesystem that roots are validated against and scanned on.
func WithFs(fsys afero.Fs) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithIncluder sets how the resolver hook loads a matched symbol's file.
// The default opens the file on the loader's filesystem.
func WithIncluder(includer resolver.Includer) Option {
	return func(l *Loader) { l.includer = includer }
}

// New creates a Loader with empty roots, class map and cache.
func New(name types.InstanceName, opts ...Option) *Loader {
	l := &Loader{
		name:     name,
		typeName: KindPackage,
		factory:  NewPackage,
		fs:       afero.NewOsFs(),
		logger:   slog.New(slog.DiscardHandler),
		roots:    make(map[types.RootName]types.FilesystemPath),
		classes:  classmap.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.includer == nil {
		l.includer = resolver.FileIncluder{Fs: l.fs}
	}
	return l
}

// Name returns the instance name.
func (l *Loader) Name() types.InstanceName { return l.name }

// TypeName returns the descriptive type tag.
func (l *Loader) TypeName() string { return l.typeName }

// Dirty reports whether the next read will re-scan the roots.
func (l *Loader) Dirty() bool { return l.dirty }

// Scans returns how many discovery passes have been run.
func (l *Loader) Scans() int { return l.scans }

// --- Root registry ---

// AddDir registers a root directory under name. An empty path means the
// name is also the path. The path must resolve to an existing directory; it
// is stored absolute, cleaned, and with exactly one trailing separator.
//
// AddDir always marks the cache dirty, even when name was already
// registered. Packages cached under a re-registered name are kept.
func (l *Loader) AddDir(name types.RootName, path types.FilesystemPath) error {
	if err := name.Validate(); err != nil {
		return err
	}
	if path == "" {
		path = types.FilesystemPath(name)
	}

	abs, err := fspath.Absolute(path)
	if err != nil {
		return &NotADirectoryError{Name: name, Path: path, Cause: err}
	}

	if err := l.checkDir(name, path, abs); err != nil {
		return err
	}

	if _, exists := l.roots[name]; !exists {
		l.rootOrder = append(l.rootOrder, name)
	}
	l.roots[name] = fspath.AsRoot(abs)
	l.dirty = true

	l.logger.Debug("root registered", "instance", l.name, "root", name, "path", l.roots[name])
	return nil
}

// RemoveDir unregisters a root and drops its cached packages. Removing an
// unknown name is a no-op.
func (l *Loader) RemoveDir(name types.RootName) *Loader {
	if _, exists := l.roots[name]; !exists {
		return l
	}
	delete(l.roots, name)
	delete(l.cache, name)
	l.rootOrder = slices.DeleteFunc(l.rootOrder, func(n types.RootName) bool { return n == name })
	return l
}

// ResetDir drops the cached packages of a registered root so the next read
// rebuilds them from disk, keeping the root's position in the scan order.
// The registered path must still be a directory; otherwise the
// *NotADirectoryError is returned and the root and its bucket are kept.
// Unknown names return a *UnknownRootError.
func (l *Loader) ResetDir(name types.RootName) error {
	path, ok := l.roots[name]
	if !ok {
		return &UnknownRootError{Name: name}
	}
	if err := l.checkDir(name, path, path); err != nil {
		return err
	}
	delete(l.cache, name)
	l.dirty = true

	l.logger.Debug("root reset", "instance", l.name, "root", name)
	return nil
}

// checkDir stats abs and reports a *NotADirectoryError naming the
// caller-supplied path when it is missing or not a directory.
func (l *Loader) checkDir(name types.RootName, path, abs types.FilesystemPath) error {
	info, err := l.fs.Stat(filepath.Clean(string(abs)))
	if err != nil {
		return &NotADirectoryError{Name: name, Path: path, Cause: err}
	}
	if !info.IsDir() {
		return &NotADirectoryError{Name: name, Path: path}
	}
	return nil
}

// Roots returns the registered roots in registration order.
func (l *Loader) Roots() []Root {
	roots := make([]Root, 0, len(l.rootOrder))
	for _, name := range l.rootOrder {
		roots = append(roots, Root{Name: name, Path: l.roots[name]})
	}
	return roots
}

// RootPath returns the normalized path registered under name.
func (l *Loader) RootPath(name types.RootName) (types.FilesystemPath, error) {
	path, ok := l.roots[name]
	if !ok {
		return "", &UnknownRootError{Name: name}
	}
	return path, nil
}

// --- Class registry ---

// AddClass maps symbol to the file that defines it, replacing any previous
// mapping.
func (l *Loader) AddClass(symbol types.SymbolName, path types.FilesystemPath) *Loader {
	l.classes.Add(symbol, path)
	return l
}

// RemoveClass drops the mapping for symbol. Removing an unknown symbol is
// a no-op.
func (l *Loader) RemoveClass(symbol types.SymbolName) *Loader {
	l.classes.Remove(symbol)
	return l
}

// ClassPath returns the file registered for symbol, or a
// *classmap.ClassNotFoundError.
func (l *Loader) ClassPath(symbol types.SymbolName) (types.FilesystemPath, error) {
	return l.classes.Path(symbol)
}

// Classes returns a copy of the class map.
func (l *Loader) Classes() map[types.SymbolName]types.FilesystemPath {
	return l.classes.All()
}

// Load implements resolver.Hook. Symbols missing from the class map pass to
// the next hook. A failed include is logged and also passes.
func (l *Loader) Load(symbol types.SymbolName) (types.FilesystemPath, bool) {
	path, ok := l.classes.Lookup(symbol)
	if !ok {
		return "", false
	}
	if err := l.includer.Include(symbol, path); err != nil {
		l.logger.Warn("class include failed", "instance", l.name, "symbol", symbol, "path", path, "error", err)
		return "", false
	}
	l.logger.Debug("class loaded", "instance", l.name, "symbol", symbol, "path", path)
	return path, true
}
