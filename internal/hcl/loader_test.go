package hcl

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/exposing/internal/config"
	"github.com/specialistvlad/exposing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	root := testutil.WriteFiles(t, map[string]string{
		"a_main.hcl": `
search_paths = ["plugins", "${manifest_dir}/more"]
require      = ["exposing.print.Printer"]

source "name" {
  name = "print"
}

source "directory" {
  path      = env.PLUGIN_DIR
  recursive = true
  optional  = true
}
`,
		"nested/b_extra.hcl": `
source "file" {
  path = "libenv_vars.so"
}
`,
		"notes.txt": "ignored",
	})
	loader := NewLoader()
	loader.environ = func() []string { return []string{"PLUGIN_DIR=/opt/plugins", "1BAD=x", "=C:=weird"} }

	// --- Act ---
	m, err := loader.Load(ctx, root)

	// --- Assert ---
	require.NoError(t, err)
	want := &config.Manifest{
		SearchPaths: []string{filepath.Join(root, "plugins"), filepath.Join(root, "more")},
		Require:     []string{"exposing.print.Printer"},
		Sources: []*config.Source{
			{Kind: config.SourceName, Name: "print", Origin: filepath.Join(root, "a_main.hcl")},
			{Kind: config.SourceDirectory, Path: "/opt/plugins", Recursive: true, Optional: true, Origin: filepath.Join(root, "a_main.hcl")},
			{Kind: config.SourceFile, Path: filepath.Join(root, "nested", "libenv_vars.so"), Origin: filepath.Join(root, "nested", "b_extra.hcl")},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Load_SingleFileAndMissingPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	root := testutil.WriteFiles(t, map[string]string{
		"one.hcl": `source "name" { name = "env_vars" }`,
	})

	// --- Act ---
	m, err := NewLoader().Load(ctx, filepath.Join(root, "one.hcl"), filepath.Join(root, "missing"))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, m.Sources, 1)
	assert.Equal(t, "env_vars", m.Sources[0].Name)
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", `source "name" {`, "failed to parse HCL file"},
		{"unknown attribute", "source \"name\" {\n  name  = \"x\"\n  bogus = 1\n}", "failed to decode HCL file"},
		{"unknown variable", `source "file" { path = env.NOT_SET_ANYWHERE }`, "failed to decode HCL file"},
		{"invalid source", `source "file" {}`, "path is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.NewContext(t)
			root := testutil.WriteFiles(t, map[string]string{"m.hcl": tc.content})
			loader := NewLoader()
			loader.environ = func() []string { return nil }

			_, err := loader.Load(ctx, root)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
