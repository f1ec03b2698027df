// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"maps"

	"github.com/invowk/pkgloader/pkg/types"
)

// discoveredPackage is a package directory found during a scan, before a
// descriptor exists for it.
type discoveredPackage struct {
	root types.RootName
	slug types.Slug
	path types.FilesystemPath
}

// Find scans every registered root in registration order. Immediate
// subdirectories of a root are vendors; immediate subdirectories of a vendor
// are packages, keyed by "vendor/package". A descriptor is built only for
// slugs not already cached under that root; cached descriptors are never
// replaced.
//
// Find is all-or-nothing: if any root cannot be enumerated or any descriptor
// cannot be built, it returns a *ScanError, leaves the cache untouched and
// keeps the loader dirty.
func (l *Loader) Find() error {
	l.scans++

	found, err := l.scanRoots()
	if err != nil {
		return err
	}

	staged := make(map[types.RootName]map[types.Slug]Descriptor)
	for _, pkg := range found {
		if _, cached := l.cache[pkg.root][pkg.slug]; cached {
			continue
		}

		desc, err := l.factory(pkg.path)
		if err == nil && desc == nil {
			err = errNilDescriptor
		}
		if err != nil {
			return &ScanError{
				Root:  pkg.root,
				Path:  pkg.path,
				Cause: fmt.Errorf("build descriptor for %s: %w", pkg.slug, err),
			}
		}
		desc.SetLoader(l)
		desc.SetRootName(pkg.root)

		if staged[pkg.root] == nil {
			staged[pkg.root] = make(map[types.Slug]Descriptor)
		}
		staged[pkg.root][pkg.slug] = desc
	}

	if l.cache == nil {
		l.cache = make(map[types.RootName]map[types.Slug]Descriptor, len(l.rootOrder))
	}
	for _, name := range l.rootOrder {
		if l.cache[name] == nil {
			l.cache[name] = make(map[types.Slug]Descriptor)
		}
		maps.Copy(l.cache[name], staged[name])
		if n := len(staged[name]); n > 0 {
			l.logger.Debug("packages discovered", "instance", l.name, "root", name, "new", n, "total", len(l.cache[name]))
		}
	}
	l.dirty = false

	return nil
}

// scanRoots enumerates root/vendor/package directories for every root.
func (l *Loader) scanRoots() ([]discoveredPackage, error) {
	var found []discoveredPackage

	for _, name := range l.rootOrder {
		rootPath := l.roots[name]
		l.logger.Debug("scanning root", "instance", l.name, "root", name, "path", rootPath)

		vendors, err := Subdirs(l.fs, rootPath)
		if err != nil {
			return nil, &ScanError{Root: name, Path: rootPath, Cause: err}
		}

		for _, vendor := range vendors {
			packages, err := Subdirs(l.fs, vendor.Path)
			if err != nil {
				return nil, &ScanError{Root: name, Path: vendor.Path, Cause: err}
			}
			for _, pkg := range packages {
				found = append(found, discoveredPackage{
					root: name,
					slug: types.NewSlug(vendor.Name, pkg.Name),
					path: pkg.Path,
				})
			}
		}
	}

	return found, nil
}

// refresh runs Find when the cache is dirty.
func (l *Loader) refresh() error {
	if !l.dirty {
		return nil
	}
	return l.Find()
}

// GetAll returns every discovered package, grouped by root name, scanning
// first if the cache is dirty. The returned maps are copies; the
// descriptors are the cached instances.
func (l *Loader) GetAll() (map[types.RootName]map[types.Slug]Descriptor, error) {
	if err := l.refresh(); err != nil {
		return nil, err
	}

	all := make(map[types.RootName]map[types.Slug]Descriptor, len(l.cache))
	for name, bucket := range l.cache {
		all[name] = maps.Clone(bucket)
	}
	return all, nil
}

// Packages returns the packages discovered under one root, scanning first if
// the cache is dirty. It returns a *UnknownRootError if name is not a
// registered root.
func (l *Loader) Packages(name types.RootName) (map[types.Slug]Descriptor, error) {
	if err := l.refresh(); err != nil {
		return nil, err
	}
	if _, ok := l.roots[name]; !ok {
		return nil, &UnknownRootError{Name: name}
	}

	bucket := make(map[types.Slug]Descriptor, len(l.cache[name]))
	maps.Copy(bucket, l.cache[name])
	return bucket, nil
}

// Get returns the descriptor for slug under root, scanning first if the
// cache is dirty. The descriptor's root name is re-stamped before it is
// returned.
func (l *Loader) Get(root types.RootName, slug types.Slug) (Descriptor, error) {
	if err := l.refresh(); err != nil {
		return nil, err
	}

	desc, ok := l.cache[root][slug]
	if !ok {
		return nil, &PackageNotFoundError{Root: root, Slug: slug}
	}
	desc.SetRootName(root)
	return desc, nil
}
