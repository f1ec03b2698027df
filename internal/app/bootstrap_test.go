// SPDX-License-Identifier: MPL-2.0

package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/internal/config"
	"github.com/invowk/pkgloader/internal/testutil"
	"github.com/invowk/pkgloader/pkg/loader"
	"github.com/invowk/pkgloader/pkg/types"
)

func TestBootstrap(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	testutil.MakeTree(t, mem, "/srv/main", "acme/widget/", "acme/gadget/")
	testutil.MakeTree(t, mem, "/srv/themes", "studio/dark/")
	testutil.MakeTree(t, mem, "/srv/lib", "Widget.php")
	if err := afero.WriteFile(mem, "/srv/maps/classes.cue",
		[]byte(`classes: [{symbol: "Acme\\Gadget", path: "lib/Gadget.php"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Instances: []config.InstanceConfig{
			{
				Name:       "core",
				Roots:      []config.RootEntry{{Name: "main", Path: "/srv/main"}},
				Classes:    []config.ClassEntry{{Symbol: `Acme\Widget`, Path: "/srv/lib/Widget.php"}},
				ClassFiles: []types.FilesystemPath{"/srv/maps/classes.cue"},
			},
			{
				Name:        "themes",
				Type:        loader.KindTheme,
				PrependHook: true,
				Roots:       []config.RootEntry{{Name: "themes", Path: "/srv/themes"}},
			},
		},
	}

	reg := loader.NewRegistry(nil)
	result, err := Bootstrap(cfg, reg, nil, WithFs(mem))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", result.Diagnostics)
	}
	if diff := cmp.Diff([]types.InstanceName{"core", "themes"}, result.Instances); diff != "" {
		t.Errorf("instances mismatch (-want +got):\n%s", diff)
	}

	core, ok := reg.Lookup("core")
	if !ok {
		t.Fatal("core instance not forged")
	}
	if core.TypeName() != loader.KindPackage {
		t.Errorf("core.TypeName() = %q, want %q", core.TypeName(), loader.KindPackage)
	}
	wantClasses := map[types.SymbolName]types.FilesystemPath{
		`Acme\Widget`: "/srv/lib/Widget.php",
		`Acme\Gadget`: types.FilesystemPath(filepath.Join("/srv/maps", "lib", "Gadget.php")),
	}
	if diff := cmp.Diff(wantClasses, core.Classes()); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}

	pkgs, err := core.Packages("main")
	if err != nil {
		t.Fatalf("Packages(main) error = %v", err)
	}
	if len(pkgs) != 2 {
		t.Errorf("Packages(main) has %d entries, want 2", len(pkgs))
	}

	themes, ok := reg.Lookup("themes")
	if !ok {
		t.Fatal("themes instance not forged")
	}
	desc, err := themes.Get("themes", types.NewSlug("studio", "dark"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	theme, ok := desc.(*loader.Theme)
	if !ok {
		t.Fatalf("descriptor = %T, want *loader.Theme", desc)
	}
	if theme.Kind() != loader.KindTheme {
		t.Errorf("descriptor kind = %q, want %q", theme.Kind(), loader.KindTheme)
	}

	// The prepended themes hook is consulted first but does not know the
	// symbol, so the core hook answers.
	path, found := reg.Resolver().Resolve(`Acme\Widget`)
	if !found || path != "/srv/lib/Widget.php" {
		t.Errorf("Resolve() = %q, %v", path, found)
	}
}

func TestBootstrapRootDiagnostics(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	testutil.MakeTree(t, mem, "/srv", "good/acme/widget/", "plain.txt")

	cfg := &config.Config{
		Instances: []config.InstanceConfig{{
			Name: "core",
			Roots: []config.RootEntry{
				{Name: "missing", Path: "/srv/missing"},
				{Name: "file", Path: "/srv/plain.txt"},
				{Name: "good", Path: "/srv/good"},
			},
		}},
	}

	reg := loader.NewRegistry(nil)
	result, err := Bootstrap(cfg, reg, nil, WithFs(mem))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if !result.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}

	type summary struct {
		Code, Path string
	}
	var got []summary
	for _, d := range result.Diagnostics {
		got = append(got, summary{Code: d.Code, Path: d.Path})
		if d.Instance != "core" {
			t.Errorf("diagnostic instance = %q, want core", d.Instance)
		}
		if !errors.Is(d.Cause, loader.ErrNotADirectory) {
			t.Errorf("diagnostic cause %v does not wrap ErrNotADirectory", d.Cause)
		}
	}
	want := []summary{
		{Code: CodeRootNotDirectory, Path: "/srv/missing"},
		{Code: CodeRootNotDirectory, Path: "/srv/plain.txt"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	core, _ := reg.Lookup("core")
	roots := core.Roots()
	if len(roots) != 1 || roots[0].Name != "good" {
		t.Errorf("Roots() = %+v, want only good", roots)
	}
}

func TestBootstrapClassFileDiagnostic(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/maps/bad.cue", []byte(`classes: [`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Instances: []config.InstanceConfig{{
			Name:       "core",
			Classes:    []config.ClassEntry{{Symbol: "A", Path: "/a.php"}},
			ClassFiles: []types.FilesystemPath{"/maps/bad.cue"},
		}},
	}

	reg := loader.NewRegistry(nil)
	result, err := Bootstrap(cfg, reg, nil, WithFs(mem))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if result.HasErrors() {
		t.Error("class file problems should only warn")
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Code != CodeClassFileInvalid {
		t.Fatalf("Diagnostics = %+v", result.Diagnostics)
	}

	core, _ := reg.Lookup("core")
	if _, err := core.ClassPath("A"); err != nil {
		t.Errorf("inline class lost after class file failure: %v", err)
	}
}

func TestBootstrapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr error
	}{
		{name: "nil config", cfg: nil},
		{
			name:    "unknown type",
			cfg:     &config.Config{Instances: []config.InstanceConfig{{Name: "x", Type: "widget"}}},
			wantErr: loader.ErrUnknownKind,
		},
		{
			name:    "blank instance name",
			cfg:     &config.Config{Instances: []config.InstanceConfig{{Name: " "}}},
			wantErr: types.ErrInvalidInstanceName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Bootstrap(tt.cfg, loader.NewRegistry(nil), nil, WithFs(afero.NewMemMapFs()))
			if err == nil {
				t.Fatal("Bootstrap() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Bootstrap() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBootstrapDefaultConfig(t *testing.T) {
	t.Parallel()

	reg := loader.NewRegistry(nil)
	result, err := Bootstrap(config.DefaultConfig(), reg, nil, WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if diff := cmp.Diff([]types.InstanceName{config.DefaultInstanceName}, reg.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %+v", result.Diagnostics)
	}
}
