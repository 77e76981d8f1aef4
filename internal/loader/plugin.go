package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"plugin"

	"github.com/specialistvlad/exposing/internal/ctxlog"
)

// PluginOpener opens Go plugins.
type PluginOpener struct{}

// Open loads the plugin at path. Opening the same path twice returns the
// already loaded plugin.
func (PluginOpener) Open(ctx context.Context, path string) (Library, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loader: module '%s' does not exist: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("loader: module '%s': %w", path, err)
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: '%s' is not a valid module: %w: %w", path, ErrNotFound, err)
	}
	logger.Debug("Opened plugin.", "path", path)
	return &pluginLibrary{path: path, plugin: p}, nil
}

type pluginLibrary struct {
	path   string
	plugin *plugin.Plugin
}

func (l *pluginLibrary) Lookup(symbol string) (any, error) { return l.plugin.Lookup(symbol) }

// Close is a no-op; the Go runtime cannot unload plugins.
func (l *pluginLibrary) Close() error { return nil }

func (l *pluginLibrary) Path() string { return l.path }
