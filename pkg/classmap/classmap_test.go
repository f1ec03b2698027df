// SPDX-License-Identifier: MPL-2.0

package classmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/pkgloader/pkg/types"
)

func TestClassMap_AddAndPath(t *testing.T) {
	t.Parallel()

	m := New()
	m.Add(`Acme\Widget`, "/srv/plugins/acme/widget/src/Widget.php")

	got, err := m.Path(`Acme\Widget`)
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if got != "/srv/plugins/acme/widget/src/Widget.php" {
		t.Errorf("Path() = %q", got)
	}
}

func TestClassMap_AddOverwrites(t *testing.T) {
	t.Parallel()

	m := New()
	m.Add("Widget", "/old.php")
	m.Add("Widget", "/new.php")

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if got, _ := m.Lookup("Widget"); got != "/new.php" {
		t.Errorf("Lookup() = %q, want /new.php", got)
	}
}

func TestClassMap_PathUnknown(t *testing.T) {
	t.Parallel()

	_, err := New().Path("Missing")
	if !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("Path() error = %v, want ErrClassNotFound", err)
	}
	var cnf *ClassNotFoundError
	if !errors.As(err, &cnf) || cnf.Symbol != "Missing" {
		t.Errorf("expected *ClassNotFoundError{Symbol: Missing}, got %#v", err)
	}
}

func TestClassMap_RemoveIsLenient(t *testing.T) {
	t.Parallel()

	m := New()
	m.Add("Widget", "/w.php")
	m.Remove("Widget")
	m.Remove("Widget")
	m.Remove("NeverAdded")

	if _, ok := m.Lookup("Widget"); ok {
		t.Error("Lookup() found a removed symbol")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestClassMap_SymbolsSorted(t *testing.T) {
	t.Parallel()

	m := New()
	m.Add("Zeta", "/z.php")
	m.Add("Alpha", "/a.php")
	m.Add("Mid", "/m.php")

	want := []types.SymbolName{"Alpha", "Mid", "Zeta"}
	if diff := cmp.Diff(want, m.Symbols()); diff != "" {
		t.Errorf("Symbols() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassMap_AllReturnsCopy(t *testing.T) {
	t.Parallel()

	m := New()
	m.Add("Widget", "/w.php")

	all := m.All()
	all["Injected"] = "/x.php"

	if _, ok := m.Lookup("Injected"); ok {
		t.Error("mutating All() result leaked into the ClassMap")
	}
}
