// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"weak"

	"github.com/invowk/pkgloader/pkg/fspath"
	"github.com/invowk/pkgloader/pkg/types"
)

const (
	// KindPackage is the generic package kind.
	KindPackage = "package"
	// KindPlugin marks packages that extend behavior.
	KindPlugin = "plugin"
	// KindTheme marks packages that provide presentation assets.
	KindTheme = "theme"
)

type (
	// Descriptor is the contract a package type must satisfy to be built by
	// discovery. The loader calls nothing on a descriptor except these two
	// setters.
	Descriptor interface {
		// SetLoader hands the descriptor a back reference to the loader that
		// discovered it. Implementations must not keep the loader alive.
		SetLoader(l *Loader)
		// SetRootName tells the descriptor which logical root it belongs to.
		SetRootName(name types.RootName)
	}

	// Factory builds a descriptor from the absolute path of a package
	// directory. Each package kind supplies its own factory.
	Factory func(path types.FilesystemPath) (Descriptor, error)

	// Package is the default descriptor: an opaque handle on a package
	// directory. It does not read anything inside the directory.
	Package struct {
		path     types.FilesystemPath
		rootName types.RootName
		loader   weak.Pointer[Loader]
	}

	// Plugin is a Package of kind "plugin".
	Plugin struct {
		Package
	}

	// Theme is a Package of kind "theme".
	Theme struct {
		Package
	}
)

// NewPackage is the default Factory.
func NewPackage(path types.FilesystemPath) (Descriptor, error) {
	return &Package{path: path}, nil
}

// NewPlugin is the Factory for KindPlugin.
func NewPlugin(path types.FilesystemPath) (Descriptor, error) {
	return &Plugin{Package: Package{path: path}}, nil
}

// NewTheme is the Factory for KindTheme.
func NewTheme(path types.FilesystemPath) (Descriptor, error) {
	return &Theme{Package: Package{path: path}}, nil
}

// FactoryFor returns the built-in factory for kind. The empty kind maps to
// KindPackage.
func FactoryFor(kind string) (Factory, error) {
	switch kind {
	case "", KindPackage:
		return NewPackage, nil
	case KindPlugin:
		return NewPlugin, nil
	case KindTheme:
		return NewTheme, nil
	default:
		return nil, &UnknownKindError{Kind: kind}
	}
}

// SetLoader implements Descriptor. Only a weak reference is kept.
func (p *Package) SetLoader(l *Loader) { p.loader = weak.Make(l) }

// SetRootName implements Descriptor.
func (p *Package) SetRootName(name types.RootName) { p.rootName = name }

// Path returns the package directory.
func (p *Package) Path() types.FilesystemPath { return p.path }

// RootName returns the logical root the package was discovered under.
func (p *Package) RootName() types.RootName { return p.rootName }

// Slug derives "vendor/package" from the last two path elements.
func (p *Package) Slug() types.Slug {
	vendor, pkg := fspath.PackageParts(p.path)
	return types.NewSlug(vendor, pkg)
}

// Loader returns the owning loader, or nil once it has been garbage
// collected or was never set.
func (p *Package) Loader() *Loader { return p.loader.Value() }

// Kind returns KindPackage.
func (p *Package) Kind() string { return KindPackage }

// Kind returns KindPlugin.
func (p *Plugin) Kind() string { return KindPlugin }

// Kind returns KindTheme.
func (t *Theme) Kind() string { return KindTheme }
