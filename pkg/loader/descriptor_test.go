// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/invowk/pkgloader/pkg/types"
)

func TestFactoryFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     string
		wantKind string
		wantErr  bool
	}{
		{"", KindPackage, false},
		{KindPackage, KindPackage, false},
		{KindPlugin, KindPlugin, false},
		{KindTheme, KindTheme, false},
		{"Plugin", "", true},
		{"widget", "", true},
	}

	type kinded interface{ Kind() string }

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			t.Parallel()

			factory, err := FactoryFor(tt.kind)
			if tt.wantErr {
				var uk *UnknownKindError
				if !errors.As(err, &uk) || !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("FactoryFor(%q) error = %v, want *UnknownKindError", tt.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FactoryFor(%q) error = %v", tt.kind, err)
			}

			desc, err := factory("/srv/acme/widget")
			if err != nil {
				t.Fatal(err)
			}
			if got := desc.(kinded).Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestPackage_Slug(t *testing.T) {
	t.Parallel()

	p, _ := NewPackage(types.FilesystemPath(filepath.Join("/srv", "vendors", "acme", "widget")))
	if got := p.(*Package).Slug(); got != "acme/widget" {
		t.Errorf("Slug() = %q, want %q", got, "acme/widget")
	}
}

func TestPackage_LoaderIsWeak(t *testing.T) {
	t.Parallel()

	desc, _ := NewTheme("/srv/acme/dark")
	theme := desc.(*Theme)
	if theme.Loader() != nil {
		t.Fatal("unstamped descriptor should have no loader")
	}

	func() {
		l := New("ephemeral")
		theme.SetLoader(l)
		if theme.Loader() != l {
			t.Fatal("Loader() should return the stamped loader")
		}
	}()

	// The descriptor must not keep its loader alive.
	for range 10 {
		runtime.GC()
		if theme.Loader() == nil {
			return
		}
	}
	t.Error("descriptor kept its loader reachable after the loader was dropped")
}
