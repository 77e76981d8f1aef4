package tomlconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/exposing/internal/config"
	"github.com/specialistvlad/exposing/internal/ctxlog"
	"github.com/specialistvlad/exposing/internal/fsutil"
)

// Extension is the file extension of TOML manifests.
const Extension = ".toml"

type fileRoot struct {
	SearchPaths []string  `toml:"search_paths"`
	Require     []string  `toml:"require"`
	Sources     []*source `toml:"source"`
}

type source struct {
	Kind      string `toml:"kind"`
	Path      string `toml:"path"`
	Name      string `toml:"name"`
	Recursive bool   `toml:"recursive"`
	Optional  bool   `toml:"optional"`
}

// Loader is the TOML implementation of config.Loader.
type Loader struct {
	getenv func(string) string
}

// NewLoader creates a new TOML manifest loader.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// Load decodes every .toml file under paths and merges them in lexical
// order. Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				files = append(files, path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extension, true)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	manifest := &config.Manifest{}
	for _, file := range files {
		m, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		manifest.Merge(m)
		logger.Debug("Loaded TOML manifest.", "file", file, "sources", len(m.Sources))
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (l *Loader) loadFile(file string) (*config.Manifest, error) {
	var root fileRoot
	md, err := toml.DecodeFile(file, &root)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML file %s: %w", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in TOML file %s: %s", file, strings.Join(keys, ", "))
	}

	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, err
	}
	expand := func(s string) string {
		return os.Expand(s, func(name string) string {
			if name == "manifest_dir" {
				return dir
			}
			return l.getenv(name)
		})
	}
	resolve := func(s string) string {
		s = expand(s)
		if s == "" || filepath.IsAbs(s) {
			return s
		}
		return filepath.Join(dir, s)
	}

	m := &config.Manifest{}
	for _, p := range root.SearchPaths {
		m.SearchPaths = append(m.SearchPaths, resolve(p))
	}
	for _, r := range root.Require {
		m.Require = append(m.Require, expand(r))
	}
	for _, s := range root.Sources {
		m.Sources = append(m.Sources, &config.Source{
			Kind:      config.SourceKind(s.Kind),
			Path:      resolve(s.Path),
			Name:      expand(s.Name),
			Recursive: s.Recursive,
			Optional:  s.Optional,
			Origin:    file,
		})
	}
	return m, nil
}
