// SPDX-License-Identifier: MPL-2.0

// Package resolver models the host's dynamic symbol-resolution mechanism: an
// ordered chain of hooks that is consulted when a symbol is referenced but
// not yet available. Loader instances register one hook each.
//
// A Resolver is safe for concurrent use. Hooks are invoked without the
// resolver's lock held, so a hook may register or unregister other hooks.
package resolver

import (
	"slices"
	"sync"

	"github.com/invowk/pkgloader/pkg/types"
)

type (
	// Hook is a symbol-resolution callback. Load either makes the symbol
	// available and returns the file it was loaded from with true, or returns
	// false so the resolver tries the next hook. A hook must never fail for an
	// unknown symbol.
	Hook interface {
		Load(symbol types.SymbolName) (types.FilesystemPath, bool)
	}

	// HookFunc adapts a plain function to the Hook interface.
	HookFunc func(symbol types.SymbolName) (types.FilesystemPath, bool)

	// HookID identifies a registration so it can be removed later.
	// The zero value never identifies a registration.
	HookID uint64

	registration struct {
		id   HookID
		hook Hook
	}

	// Resolver is an ordered chain of hooks plus the set of symbols that
	// have already been made available.
	Resolver struct {
		mu     sync.Mutex
		hooks  []registration
		nextID HookID
		loaded map[types.SymbolName]types.FilesystemPath
	}
)

// Load calls f(symbol).
func (f HookFunc) Load(symbol types.SymbolName) (types.FilesystemPath, bool) {
	return f(symbol)
}

// New creates a Resolver with no hooks.
func New() *Resolver {
	return &Resolver{loaded: make(map[types.SymbolName]types.FilesystemPath)}
}

// Register adds hook to the chain and returns its registration handle.
// With prepend set the hook is consulted before every hook already
// registered, which lets it override previously resolvable symbols.
func (r *Resolver) Register(hook Hook, prepend bool) HookID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	reg := registration{id: r.nextID, hook: hook}
	if prepend {
		r.hooks = slices.Insert(r.hooks, 0, reg)
	} else {
		r.hooks = append(r.hooks, reg)
	}
	return reg.id
}

// Unregister removes the hook registered under id. It reports whether a
// registration was found.
func (r *Resolver) Unregister(id HookID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.hooks, func(reg registration) bool { return reg.id == id })
	if idx < 0 {
		return false
	}
	r.hooks = slices.Delete(r.hooks, idx, idx+1)
	return true
}

// Len returns the number of registered hooks.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// Resolve makes symbol available. A symbol that was already loaded is
// returned from memory; otherwise hooks are tried in chain order until one
// handles it. The second result is false when no hook handled the symbol.
func (r *Resolver) Resolve(symbol types.SymbolName) (types.FilesystemPath, bool) {
	r.mu.Lock()
	if path, ok := r.loaded[symbol]; ok {
		r.mu.Unlock()
		return path, true
	}
	chain := slices.Clone(r.hooks)
	r.mu.Unlock()

	for _, reg := range chain {
		path, ok := reg.hook.Load(symbol)
		if !ok {
			continue
		}
		r.mu.Lock()
		r.loaded[symbol] = path
		r.mu.Unlock()
		return path, true
	}
	return "", false
}

// Loaded reports whether symbol has been made available, and from which file.
func (r *Resolver) Loaded(symbol types.SymbolName) (types.FilesystemPath, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.loaded[symbol]
	return path, ok
}
