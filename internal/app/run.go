package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/exposing/internal/config"
	"github.com/specialistvlad/exposing/internal/ctxlog"
	"github.com/specialistvlad/exposing/internal/loader"
)

// Run loads the manifest sources, checks the required components and runs
// the configured actions. With a diagnostics port it keeps serving until ctx
// is done. Every module is unloaded before Run returns.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	loader.SetDefault(a.loader)
	defer func() {
		if cerr := a.loader.Close(ctx); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to unload modules: %w", cerr))
		}
	}()

	if a.config.GUIDOf != "" {
		if err := a.printGUIDOf(a.config.GUIDOf); err != nil {
			return err
		}
	}

	if err := a.loadSources(ctx); err != nil {
		return err
	}
	if err := a.checkRequired(); err != nil {
		return err
	}
	a.logger.Info("Modules loaded.", "count", len(a.loader.LibraryNames()))

	if a.config.List {
		if err := a.printModules(); err != nil {
			return err
		}
	}
	if a.config.Create != "" {
		if err := a.create(a.config.Create); err != nil {
			return err
		}
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		<-ctx.Done()
		if err := a.closeHealthCheckServer(); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// loadSources loads every manifest source in order. Optional sources that
// fail are logged and skipped.
func (a *App) loadSources(ctx context.Context) error {
	for _, src := range a.manifest.Sources {
		err := a.loadSource(ctxlog.With(ctx, "origin", src.Origin), src)
		if err == nil {
			continue
		}
		if src.Optional {
			a.logger.Warn("Skipping optional source.", "source", src.String(), "origin", src.Origin, "error", err)
			continue
		}
		return fmt.Errorf("failed to load %s from %s: %w", src, src.Origin, err)
	}
	return nil
}

func (a *App) loadSource(ctx context.Context, src *config.Source) error {
	switch src.Kind {
	case config.SourceFile:
		return a.loader.AddModule(ctx, src.Path)
	case config.SourceDirectory:
		n, err := a.loader.AddModulesInDirectory(ctx, src.Path, src.Recursive)
		if err != nil {
			return err
		}
		a.logger.Debug("Loaded directory.", "path", src.Path, "count", n)
		return nil
	case config.SourceName:
		return a.loader.AddModuleByName(ctx, src.Name)
	}
	return fmt.Errorf("unknown source kind %q", src.Kind)
}

func (a *App) checkRequired() error {
	var missing []error
	for _, name := range a.manifest.Require {
		if !a.loader.ContainsQualifiedName(name) {
			missing = append(missing, fmt.Errorf("required component '%s' is not provided by any loaded module", name))
		}
	}
	return errors.Join(missing...)
}
