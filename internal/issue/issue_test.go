// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// allIds lists every catalog id; keep in sync with the const block.
var allIds = []Id{
	ConfigLoadFailedId,
	RootNotDirectoryId,
	UnknownRootId,
	PackageNotFoundId,
	ClassNotFoundId,
	InstanceNotFoundId,
	ScanFailedId,
	ClassMapParseErrorId,
	PermissionDeniedId,
}

// stubRender replaces the glamour renderer with the identity function for
// the duration of the test.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{RootNotDirectoryId, false, "not a directory"},
		{UnknownRootId, false, "Unknown package root"},
		{PackageNotFoundId, false, "Package not found"},
		{ClassNotFoundId, false, "could not be resolved"},
		{InstanceNotFoundId, false, "Loader instance not found"},
		{ScanFailedId, false, "Package discovery failed"},
		{ClassMapParseErrorId, false, "Failed to parse class map"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	values := Values()

	if len(values) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(allIds))
	}
	for i, issue := range values {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d (ordered by id)", i, issue.Id(), allIds[i])
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := &Issue{
		id:       Id(9999),
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	docs := issue.DocLinks()
	docs[0] = "modified"
	if issue.DocLinks()[0] != "https://docs.example.com" {
		t.Error("DocLinks() should return a clone")
	}

	ext := issue.ExtLinks()
	ext[0] = "modified"
	if issue.ExtLinks()[0] != "https://external.example.com" {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	for _, want := range []string{"## See also", "- <https://docs.example.com>", "- <https://external.example.com>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() output missing %q\ngot:\n%s", want, rendered)
		}
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{
		id:    Id(9998),
		mdMsg: "# Test Issue\n\nNo links here.",
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	stubRender(t)

	for _, issue := range Values() {
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
		rendered, err := issue.Render("")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}

func TestIssue_Render_Glamour(t *testing.T) {
	rendered, err := Get(PackageNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "Package not found") {
		t.Errorf("glamour output missing heading\ngot:\n%s", rendered)
	}
}
