package config

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		source  Source
		wantErr string
	}{
		{"file", Source{Kind: SourceFile, Path: "a.so"}, ""},
		{"directory", Source{Kind: SourceDirectory, Path: "mods", Recursive: true}, ""},
		{"name", Source{Kind: SourceName, Name: "print"}, ""},
		{"file without path", Source{Kind: SourceFile}, "path is required"},
		{"recursive file", Source{Kind: SourceFile, Path: "a.so", Recursive: true}, "directory sources only"},
		{"name without name", Source{Kind: SourceName}, "name is required"},
		{"unknown kind", Source{Kind: "socket"}, `unknown kind "socket"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src := tc.source
			src.Origin = "main.hcl"
			m := &Manifest{Sources: []*Source{&src}}

			err := m.Validate()

			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Contains(t, err.Error(), "source #1 in main.hcl")
		})
	}
}

func TestManifest_Merge(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m := &Manifest{SearchPaths: []string{"/a"}, Sources: []*Source{{Kind: SourceName, Name: "x"}}}
	other := &Manifest{SearchPaths: []string{"/b"}, Require: []string{"q.X"}, Sources: []*Source{{Kind: SourceFile, Path: "y.so"}}}

	// --- Act ---
	m.Merge(other)

	// --- Assert ---
	want := &Manifest{
		SearchPaths: []string{"/a", "/b"},
		Sources:     []*Source{{Kind: SourceName, Name: "x"}, {Kind: SourceFile, Path: "y.so"}},
		Require:     []string{"q.X"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("merged manifest mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, `name "x"`, m.Sources[0].String())
	assert.Equal(t, `file "y.so"`, m.Sources[1].String())
}

type stubLoader struct {
	manifest *Manifest
	err      error
	paths    []string
}

func (s *stubLoader) Load(_ context.Context, paths ...string) (*Manifest, error) {
	s.paths = paths
	return s.manifest, s.err
}

func TestMulti(t *testing.T) {
	t.Parallel()

	t.Run("merges in loader order", func(t *testing.T) {
		t.Parallel()
		a := &stubLoader{manifest: &Manifest{SearchPaths: []string{"/a"}}}
		b := &stubLoader{manifest: &Manifest{SearchPaths: []string{"/b"}}}

		m, err := Multi(a, b).Load(context.Background(), "x", "y")

		require.NoError(t, err)
		assert.Equal(t, []string{"/a", "/b"}, m.SearchPaths)
		assert.Equal(t, []string{"x", "y"}, b.paths)
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		b := &stubLoader{manifest: &Manifest{}}

		_, err := Multi(&stubLoader{err: boom}, b).Load(context.Background())

		require.ErrorIs(t, err, boom)
		assert.Nil(t, b.paths)
	})
}
