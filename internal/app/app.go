package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/specialistvlad/exposing/internal/config"
	"github.com/specialistvlad/exposing/internal/ctxlog"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/loader"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	manifest   *config.Manifest
	loader     *loader.Loader
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the manifest
// and prepares a loader with the given builtin modules, or the modules
// compiled into the binary when none are given. It panics when the manifest
// cannot be loaded.
func NewApp(outW, logW io.Writer, cfg *Config, manifests config.Loader, modules ...*factory.Exports) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	manifest := &config.Manifest{}
	if len(cfg.ManifestPaths) > 0 {
		m, err := manifests.Load(ctx, cfg.ManifestPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load manifest: %w", err))
		}
		manifest = m
	}
	logger.Debug("Manifest loaded.", "sources", len(manifest.Sources), "require", len(manifest.Require))

	if len(modules) == 0 {
		modules = builtinModules
	}
	searchPaths := append(slices.Clone(manifest.SearchPaths), cfg.SearchPaths...)
	l := loader.New(
		loader.WithBuiltins(loader.NewBuiltinOpener(modules...)),
		loader.WithSearchPaths(searchPaths...),
	)
	logger.Debug("Loader configured.", "builtins", len(modules), "search_paths", searchPaths)

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		manifest: manifest,
		loader:   l,
	}
}

// Loader returns the application's component loader. This is primarily for
// testing.
func (a *App) Loader() *loader.Loader {
	return a.loader
}
