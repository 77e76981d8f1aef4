package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/exposing/internal/config"
	"github.com/specialistvlad/exposing/internal/ctxlog"
	"github.com/specialistvlad/exposing/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file extension of HCL manifests.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses every .hcl file under paths and merges them in lexical order.
// Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findManifests(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	manifest := &config.Manifest{}
	for _, file := range files {
		m, err := l.loadFile(parser, file)
		if err != nil {
			return nil, err
		}
		manifest.Merge(m)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "sources", len(manifest.Sources), "search_paths", len(manifest.SearchPaths))
	return manifest, nil
}

func (l *Loader) loadFile(parser *hclparse.Parser, file string) (*config.Manifest, error) {
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, err
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, l.evalContext(dir), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}
	return translate(&root, file, dir), nil
}

// evalContext exposes env.<NAME> and manifest_dir to expressions.
func (l *Loader) evalContext(dir string) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && validIdentifier(name) {
			env[name] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":          cty.ObjectVal(env),
			"manifest_dir": cty.StringVal(dir),
		},
	}
}

// validIdentifier reports whether name can be used as an attribute in a
// traversal such as env.NAME.
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func translate(root *fileRoot, file, dir string) *config.Manifest {
	m := &config.Manifest{Require: root.Require}
	for _, p := range root.SearchPaths {
		m.SearchPaths = append(m.SearchPaths, resolve(dir, p))
	}
	for _, s := range root.Sources {
		src := &config.Source{
			Kind:      config.SourceKind(s.Kind),
			Name:      s.Name,
			Recursive: s.Recursive,
			Optional:  s.Optional,
			Origin:    file,
		}
		if s.Path != "" {
			src.Path = resolve(dir, s.Path)
		}
		m.Sources = append(m.Sources, src)
	}
	return m
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// findManifests expands paths into manifest files with the given extension.
func findManifests(paths []string, ext string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == ext {
				add(path)
			}
			continue
		}
		files, err := fsutil.FindFilesByExtension(path, ext, true)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return all, nil
}
