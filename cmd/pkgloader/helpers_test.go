// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/invowk/pkgloader/internal/config"
	"github.com/invowk/pkgloader/internal/testutil"
)

type (
	// failingProvider fails every Load.
	failingProvider struct {
		err error
	}

	testCLI struct {
		app    *App
		fs     afero.Fs
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (p failingProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return nil, p.err
}

func (p failingProvider) Path(config.LoadOptions) (string, error) {
	return "", nil
}

// newTestCLI builds an App over an in-memory filesystem holding a small
// package tree at /srv/main.
func newTestCLI(t *testing.T, provider ConfigProvider) *testCLI {
	t.Helper()

	mem := afero.NewMemMapFs()
	testutil.MakeTree(t, mem, "/srv/main", "acme/widget/", "acme/gadget/", "acme/notes.txt", "zeta/core/")
	testutil.MakeTree(t, mem, "/srv/lib", "Widget.php", "Other.php")

	c := &testCLI{fs: mem, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	app, err := NewApp(Dependencies{
		Config: provider,
		Fs:     mem,
		Stdout: c.stdout,
		Stderr: c.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	app.issueStyle = "notty"
	c.app = app
	return c
}

// run executes the CLI with args on a fresh command tree.
func (c *testCLI) run(args ...string) error {
	root := NewRootCommand(c.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// testConfig returns a config with one "core" instance rooted at /srv/main.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Instances = []config.InstanceConfig{{
		Name:    "core",
		Type:    "package",
		Roots:   []config.RootEntry{{Name: "main", Path: "/srv/main"}},
		Classes: []config.ClassEntry{{Symbol: `Acme\Widget`, Path: "/srv/lib/Widget.php"}},
	}}
	return cfg
}
