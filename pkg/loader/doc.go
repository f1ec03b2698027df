// SPDX-License-Identifier: MPL-2.0

// Package loader discovers packages laid out as root/vendor/package across
// one or more registered root directories and keeps one descriptor per
// discovered package.
//
// A Loader owns three pieces of state:
//   - roots: logical root names mapped to normalized directory paths
//   - classes: an explicit symbol-to-file map, consulted through the
//     Loader's resolver hook (see Loader.Load)
//   - the discovery cache: per root, slug ("vendor/package") to descriptor
//
// Discovery is lazy. AddDir marks the cache dirty; the next GetAll, Packages
// or Get call re-scans every root. A slug that is already cached is never
// rebuilt, so descriptors returned by consecutive calls are identical.
//
// A Loader is not safe for concurrent use. Named loaders are created and
// destroyed through a Registry, which also attaches and detaches their
// resolver hooks.
//
// File organization:
//   - loader.go: Loader type, options, root and class registries, hook
//   - discovery.go: Find and the cache accessors
//   - enumerate.go: single-level directory enumeration
//   - descriptor.go: descriptor contract and the built-in package kinds
//   - registry.go: named instance registry
//   - errors.go: sentinel and typed errors
package loader
