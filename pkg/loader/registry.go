// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"maps"
	"slices"
	"sync"

	"github.com/invowk/pkgloader/pkg/resolver"
	"github.com/invowk/pkgloader/pkg/types"
)

// Registry holds named Loader instances that share one resolver. Each
// instance's hook is registered when it is forged and removed when it is
// destroyed, so instances never see each other's class maps.
//
// A Registry is safe for concurrent use; the loaders it hands out are not.
type Registry struct {
	mu        sync.Mutex
	resolver  *resolver.Resolver
	defaults  []Option
	instances map[types.InstanceName]*Loader
}

// NewRegistry creates an empty Registry bound to res. A nil res gets a fresh
// resolver. defaults are applied to every forged loader before the options
// passed to Forge.
func NewRegistry(res *resolver.Resolver, defaults ...Option) *Registry {
	if res == nil {
		res = resolver.New()
	}
	return &Registry{
		resolver:  res,
		defaults:  defaults,
		instances: make(map[types.InstanceName]*Loader),
	}
}

// Resolver returns the resolver the registry's hooks are attached to.
func (r *Registry) Resolver() *resolver.Resolver { return r.resolver }

// Forge returns the loader registered under name, creating it on first use.
// A new loader's hook is registered with the resolver, in front of existing
// hooks when prependHook is set. For an existing name, prependHook and opts
// are ignored and no second hook is registered.
func (r *Registry) Forge(name types.InstanceName, prependHook bool, opts ...Option) (*Loader, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.instances[name]; ok {
		return l, nil
	}

	all := make([]Option, 0, len(r.defaults)+len(opts))
	all = append(all, r.defaults...)
	all = append(all, opts...)

	l := New(name, all...)
	l.hookID = r.resolver.Register(l, prependHook)
	r.instances[name] = l
	return l, nil
}

// Destroy detaches the hook of the loader registered under name and drops
// it. A later Forge with the same name creates a fresh loader.
func (r *Registry) Destroy(name types.InstanceName) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.instances[name]
	if !ok {
		return &InstanceNotFoundError{Name: name}
	}
	r.resolver.Unregister(l.hookID)
	l.hookID = 0
	delete(r.instances, name)
	return nil
}

// Lookup returns the loader registered under name without creating one.
func (r *Registry) Lookup(name types.InstanceName) (*Loader, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.instances[name]
	return l, ok
}

// Names returns the registered instance names, sorted.
func (r *Registry) Names() []types.InstanceName {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.instances))
}
