// SPDX-License-Identifier: MPL-2.0

// Package watch reports structural changes under package roots.
//
// Packages live two levels below a root (<root>/<vendor>/<package>), so only
// the roots and their vendor directories are watched. Events within the
// debounce window are coalesced and the callback fires once with the set of
// affected root names.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/invowk/pkgloader/pkg/types"
)

const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are always excluded regardless of user-supplied patterns.
var defaultIgnores = []string{
	"**/.git/**",
	".git",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid watch config")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")
)

type (
	// Root is a named directory to watch.
	Root struct {
		Name types.RootName
		Path types.FilesystemPath
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the package roots to watch. Each root and its direct
		// subdirectories are registered with fsnotify.
		Roots []Root

		// Ignore are doublestar glob patterns, matched against paths relative
		// to the root, that never trigger callbacks. They are merged with the
		// built-in default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to 500ms.
		Debounce time.Duration

		// OnChange receives the sorted names of the roots that changed. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []types.RootName) error

		// Logger receives diagnostics. nil discards them.
		Logger *slog.Logger
	}

	// InvalidConfigError aggregates Config validation failures.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors package roots and fires a debounced callback when a
	// vendor or package directory appears, disappears or is renamed. Run
	// must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		logger   *slog.Logger
		debounce time.Duration

		// mu guards dirs, which maps each watched directory to its root
		// and records whether it is the root itself.
		mu      sync.Mutex
		dirs    map[string]watchedDir
		started atomic.Bool
	}

	watchedDir struct {
		root   types.RootName
		base   string
		isRoot bool
	}
)

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %v", errors.Join(e.FieldErrors...))
}

func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks root names and paths and every ignore pattern.
func (c Config) Validate() error {
	var errs []error
	seen := make(map[types.RootName]bool, len(c.Roots))
	for _, root := range c.Roots {
		if err := root.Name.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := root.Path.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("root %q: %w", root.Name, err))
		}
		if seen[root.Name] {
			errs = append(errs, fmt.Errorf("root %q: listed twice", root.Name))
		}
		seen[root.Name] = true
	}
	for _, pat := range c.Ignore {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q: %w", pat, doublestar.ErrBadPattern))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// New validates cfg, creates the fsnotify watcher and registers every root
// and its existing vendor directories.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		logger:   logger,
		debounce: debounce,
		dirs:     make(map[string]watchedDir),
	}

	for _, root := range cfg.Roots {
		if err := w.addRoot(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Warn("close after init failure", "error", closeErr)
			}
			return nil, err
		}
	}

	return w, nil
}

// Watched returns the sorted list of directories currently registered.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.dirs))
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and
// propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[types.RootName]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation because it is scheduled with
	// time.AfterFunc; the ctx check is best effort. Callbacks never overlap:
	// a busy callback reschedules the timer so pending roots are not lost.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("callback still running, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("change callback failed", "roots", changed, "error", err)
			}
		}
	}

	schedule := func(roots ...types.RootName) {
		mu.Lock()
		defer mu.Unlock()
		for _, root := range roots {
			pending[root] = struct{}{}
		}
		if timer == nil {
			timer = time.AfterFunc(w.debounce, fire)
		} else {
			timer.Reset(w.debounce)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if root, relevant := w.handleEvent(evt); relevant {
				schedule(root)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			switch {
			case resourceExhausted(err):
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			case errors.Is(err, fsnotify.ErrEventOverflow):
				// Events were dropped, so any root may be stale.
				w.logger.Warn("event queue overflowed, rescanning every root")
				schedule(w.rootNames()...)
			default:
				w.logger.Warn("fsnotify error", "error", err)
			}
		}
	}
}

func (w *Watcher) rootNames() []types.RootName {
	names := make([]types.RootName, len(w.cfg.Roots))
	for i, root := range w.cfg.Roots {
		names[i] = root.Name
	}
	return names
}

// resourceExhausted reports the errors after which the OS will deliver no
// further events; the platform lists live in exhaustionErrnos.
func resourceExhausted(err error) bool {
	return slices.ContainsFunc(exhaustionErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}

// handleEvent maps evt to the root it belongs to and reports whether it can
// change discovery results. A directory created directly under a root is a
// new vendor and gets watched too.
func (w *Watcher) handleEvent(evt fsnotify.Event) (types.RootName, bool) {
	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return "", false
	}

	parent := filepath.Dir(evt.Name)
	w.mu.Lock()
	dir, ok := w.dirs[parent]
	w.mu.Unlock()
	if !ok {
		return "", false
	}

	if w.isIgnored(dir.base, evt.Name) {
		return "", false
	}

	switch {
	case evt.Has(fsnotify.Create) && dir.isRoot:
		w.maybeAddVendor(dir.root, dir.base, evt.Name)
	case evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename):
		w.forget(evt.Name)
	}

	w.logger.Debug("root changed", "root", dir.root, "path", evt.Name, "op", evt.Op.String())
	return dir.root, true
}

func (w *Watcher) addRoot(root Root) error {
	base, err := filepath.Abs(string(root.Path))
	if err != nil {
		return fmt.Errorf("watch: resolve root %q: %w", root.Name, err)
	}
	base = filepath.Clean(base)

	if err := w.fsw.Add(base); err != nil {
		return fmt.Errorf("watch: add root %q at %s: %w", root.Name, base, err)
	}
	w.mu.Lock()
	w.dirs[base] = watchedDir{root: root.Name, base: base, isRoot: true}
	w.mu.Unlock()

	entries, err := os.ReadDir(base)
	if err != nil {
		return fmt.Errorf("watch: read root %q: %w", root.Name, err)
	}
	for _, entry := range entries {
		w.maybeAddVendor(root.Name, base, filepath.Join(base, entry.Name()))
	}
	return nil
}

// maybeAddVendor registers path when it is a non-ignored directory
// (symlinks are followed).
func (w *Watcher) maybeAddVendor(root types.RootName, base, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if w.isIgnored(base, path) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch vendor directory", "root", root, "path", path, "error", err)
		return
	}
	w.mu.Lock()
	w.dirs[path] = watchedDir{root: root, base: base}
	w.mu.Unlock()
}

// forget drops a removed or renamed directory. fsnotify removes the kernel
// watch itself.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir, ok := w.dirs[path]; ok && !dir.isRoot {
		delete(w.dirs, path)
	}
}

// isIgnored matches path, relative to base, against the ignore patterns.
func (w *Watcher) isIgnored(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
