// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/internal/testutil"
	"github.com/invowk/pkgloader/pkg/resolver"
	"github.com/invowk/pkgloader/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	l := New("default")
	if l.Name() != "default" {
		t.Errorf("Name() = %q, want %q", l.Name(), "default")
	}
	if l.TypeName() != KindPackage {
		t.Errorf("TypeName() = %q, want %q", l.TypeName(), KindPackage)
	}
	if l.Dirty() {
		t.Error("new loader should not be dirty")
	}
	if l.Scans() != 0 {
		t.Errorf("Scans() = %d, want 0", l.Scans())
	}
	if len(l.Roots()) != 0 {
		t.Errorf("Roots() = %v, want empty", l.Roots())
	}
}

func TestNew_NilOptionsKeepDefaults(t *testing.T) {
	t.Parallel()

	l := New("x", WithFs(nil), WithLogger(nil), WithFactory(nil), WithTypeName("plugin"))
	if l.fs == nil || l.logger == nil || l.factory == nil {
		t.Fatal("nil options must not clear defaults")
	}
	if l.TypeName() != "plugin" {
		t.Errorf("TypeName() = %q, want %q", l.TypeName(), "plugin")
	}
}

func TestAddDir_NormalizesPath(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "pkgs/")

	mustAddDir(t, l, "main", "/srv/./pkgs//")

	path, err := l.RootPath("main")
	if err != nil {
		t.Fatalf("RootPath() error = %v", err)
	}
	want := types.FilesystemPath(filepath.Join("/srv", "pkgs") + string(filepath.Separator))
	if path != want {
		t.Errorf("RootPath() = %q, want %q", path, want)
	}
	if !l.Dirty() {
		t.Error("AddDir should mark the loader dirty")
	}
}

func TestAddDir_EmptyPathUsesName(t *testing.T) {
	dir := t.TempDir()
	testutil.MakeTree(t, nil, dir, "vendors/")
	t.Chdir(dir)

	l := New("cwd")
	mustAddDir(t, l, "vendors", "")

	path, err := l.RootPath("vendors")
	if err != nil {
		t.Fatalf("RootPath() error = %v", err)
	}
	if !strings.HasSuffix(string(path), "vendors"+string(filepath.Separator)) {
		t.Errorf("RootPath() = %q, want it to end in vendors%c", path, filepath.Separator)
	}
	if !filepath.IsAbs(string(path)) {
		t.Errorf("RootPath() = %q, want an absolute path", path)
	}
}

func TestAddDir_Errors(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "file.txt", "ok/")

	tests := []struct {
		name      string
		root      types.RootName
		path      string
		wantIs    []error
		wantTyped bool
	}{
		{"missing path", "missing", "/srv/nope", []error{ErrNotADirectory, fs.ErrNotExist}, true},
		{"regular file", "file", "/srv/file.txt", []error{ErrNotADirectory}, true},
		{"invalid name", "", "/srv/ok", []error{types.ErrInvalidRootName}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := l.AddDir(tt.root, types.FilesystemPath(tt.path))
			if err == nil {
				t.Fatal("AddDir() returned nil error")
			}
			for _, target := range tt.wantIs {
				if !errors.Is(err, target) {
					t.Errorf("errors.Is(%v, %v) = false", err, target)
				}
			}
			var nd *NotADirectoryError
			if got := errors.As(err, &nd); got != tt.wantTyped {
				t.Errorf("errors.As(*NotADirectoryError) = %v, want %v", got, tt.wantTyped)
			}
		})
	}
}

func TestAddDir_FailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(t)
	if err := l.AddDir("bad", "/nowhere"); err == nil {
		t.Fatal("AddDir() returned nil error")
	}
	if l.Dirty() {
		t.Error("failed AddDir must not mark the loader dirty")
	}
	if _, err := l.RootPath("bad"); !errors.Is(err, ErrNoSuchDirectory) {
		t.Errorf("RootPath() error = %v, want ErrNoSuchDirectory", err)
	}
}

func TestAddDir_ReRegisterKeepsOrder(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "a/", "b/", "c/")

	mustAddDir(t, l, "first", "/srv/a")
	mustAddDir(t, l, "second", "/srv/b")
	mustAddDir(t, l, "first", "/srv/c")

	got := l.Roots()
	want := []Root{
		{Name: "first", Path: types.FilesystemPath("/srv/c/")},
		{Name: "second", Path: types.FilesystemPath("/srv/b/")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveDir(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "a/acme/widget/", "b/acme/gadget/")
	mustAddDir(t, l, "a", "/srv/a")
	mustAddDir(t, l, "b", "/srv/b")

	if _, err := l.GetAll(); err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if got := l.RemoveDir("a"); got != l {
		t.Error("RemoveDir() should return the receiver for chaining")
	}

	all, err := l.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if _, ok := all["a"]; ok {
		t.Error("removed root still present in GetAll()")
	}
	if _, ok := all["b"]["acme/gadget"]; !ok {
		t.Error("untouched root lost its packages")
	}
	if _, err := l.Packages("a"); !errors.Is(err, ErrNoSuchDirectory) {
		t.Errorf("Packages(removed) error = %v, want ErrNoSuchDirectory", err)
	}
	if _, err := l.Get("a", "acme/widget"); !errors.Is(err, ErrNoSuchPackage) {
		t.Errorf("Get(removed) error = %v, want ErrNoSuchPackage", err)
	}

	// Unknown names are a no-op.
	l.RemoveDir("never-added")
	if n := len(l.Roots()); n != 1 {
		t.Errorf("len(Roots()) = %d, want 1", n)
	}
}

func TestResetDir(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "a/acme/widget/", "a/acme/gadget/", "b/zeta/core/")
	mustAddDir(t, l, "a", "/srv/a")
	mustAddDir(t, l, "b", "/srv/b")
	if _, err := l.GetAll(); err != nil {
		t.Fatal(err)
	}

	if err := mem.RemoveAll("/srv/a/acme/gadget"); err != nil {
		t.Fatal(err)
	}
	if err := l.ResetDir("a"); err != nil {
		t.Fatalf("ResetDir() error = %v", err)
	}
	if !l.Dirty() {
		t.Error("ResetDir() should mark the loader dirty")
	}

	pkgs, err := l.Packages("a")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]types.Slug{"acme/widget"}, sortedSlugs(pkgs)); diff != "" {
		t.Errorf("Packages(a) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]types.RootName{"a", "b"}, rootNames(l)); diff != "" {
		t.Errorf("root order changed (-want +got):\n%s", diff)
	}
}

func TestResetDir_VanishedRootIsKept(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "a/acme/widget/", "b/zeta/core/")
	mustAddDir(t, l, "a", "/srv/a")
	mustAddDir(t, l, "b", "/srv/b")
	if _, err := l.GetAll(); err != nil {
		t.Fatal(err)
	}

	if err := mem.RemoveAll("/srv/a"); err != nil {
		t.Fatal(err)
	}
	err := l.ResetDir("a")
	if !errors.Is(err, ErrNotADirectory) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ResetDir(vanished) error = %v, want ErrNotADirectory wrapping fs.ErrNotExist", err)
	}
	if _, err := l.RootPath("a"); err != nil {
		t.Errorf("vanished root was unregistered: %v", err)
	}
	if _, err := l.Get("a", "acme/widget"); err != nil {
		t.Errorf("cached package lost after failed reset: %v", err)
	}

	testutil.MakeTree(t, mem, "/srv", "a/acme/gadget/")
	if err := l.ResetDir("a"); err != nil {
		t.Fatalf("ResetDir(reappeared) error = %v", err)
	}
	pkgs, err := l.Packages("a")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]types.Slug{"acme/gadget"}, sortedSlugs(pkgs)); diff != "" {
		t.Errorf("Packages(a) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]types.RootName{"a", "b"}, rootNames(l)); diff != "" {
		t.Errorf("root order changed (-want +got):\n%s", diff)
	}
}

func TestResetDir_Unknown(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(t)
	if err := l.ResetDir("ghost"); !errors.Is(err, ErrNoSuchDirectory) {
		t.Errorf("ResetDir(ghost) error = %v, want ErrNoSuchDirectory", err)
	}
}

func TestRemoveDir_DoesNotTriggerRescan(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/srv", "a/", "b/")
	mustAddDir(t, l, "a", "/srv/a")
	mustAddDir(t, l, "b", "/srv/b")
	if _, err := l.GetAll(); err != nil {
		t.Fatal(err)
	}

	l.RemoveDir("a")
	if l.Dirty() {
		t.Error("RemoveDir should not mark the loader dirty")
	}
	if _, err := l.GetAll(); err != nil {
		t.Fatal(err)
	}
	if l.Scans() != 1 {
		t.Errorf("Scans() = %d, want 1", l.Scans())
	}
}

func TestClasses(t *testing.T) {
	t.Parallel()

	l, _ := newMemLoader(t)
	l.AddClass("Acme\\Widget", "/lib/widget.php").AddClass("Acme\\Gadget", "/lib/gadget.php")

	path, err := l.ClassPath("Acme\\Widget")
	if err != nil {
		t.Fatalf("ClassPath() error = %v", err)
	}
	if path != "/lib/widget.php" {
		t.Errorf("ClassPath() = %q, want %q", path, "/lib/widget.php")
	}

	l.RemoveClass("Acme\\Widget")
	if _, err := l.ClassPath("Acme\\Widget"); err == nil {
		t.Error("ClassPath() after RemoveClass returned nil error")
	}

	want := map[types.SymbolName]types.FilesystemPath{"Acme\\Gadget": "/lib/gadget.php"}
	if diff := cmp.Diff(want, l.Classes()); diff != "" {
		t.Errorf("Classes() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	l, mem := newMemLoader(t)
	testutil.MakeTree(t, mem, "/lib", "widget.php", "dir.php/")
	l.AddClass("Widget", "/lib/widget.php")
	l.AddClass("Missing", "/lib/missing.php")
	l.AddClass("Dir", "/lib/dir.php")

	tests := []struct {
		symbol types.SymbolName
		want   types.FilesystemPath
		ok     bool
	}{
		{"Widget", "/lib/widget.php", true},
		{"Missing", "", false},
		{"Dir", "", false},
		{"Unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.symbol), func(t *testing.T) {
			t.Parallel()

			got, ok := l.Load(tt.symbol)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Load(%q) = (%q, %v), want (%q, %v)", tt.symbol, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLoad_IncludeFailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	boom := errors.New("boom")
	l := New("logged",
		WithFs(afero.NewMemMapFs()),
		WithLogger(logger),
		WithIncluder(resolver.IncluderFunc(func(types.SymbolName, types.FilesystemPath) error { return boom })),
	)
	l.AddClass("Widget", "/lib/widget.php")

	if _, ok := l.Load("Widget"); ok {
		t.Fatal("Load() should pass when the include fails")
	}
	if out := buf.String(); !strings.Contains(out, "class include failed") || !strings.Contains(out, "boom") {
		t.Errorf("log output = %q, want include failure with cause", out)
	}
}
