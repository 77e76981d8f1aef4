package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/exposing/internal/ctxlog"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/fsutil"
	"golang.org/x/sync/errgroup"
)

// ModuleExtension is the file extension of loadable modules.
const ModuleExtension = ".so"

// AddModulesInDirectory registers every module found in dir and returns how
// many succeeded.
func (l *Loader) AddModulesInDirectory(ctx context.Context, dir string, recursive bool) (int, error) {
	factories, n, err := l.addDirectory(ctx, dir, recursive)
	releaseAll(factories)
	return n, err
}

// AddModulesWithFactoriesInDirectory is AddModulesInDirectory returning the
// registered factories keyed by library name. Files are opened concurrently
// and registered in lexical path order.
func (l *Loader) AddModulesWithFactoriesInDirectory(ctx context.Context, dir string, recursive bool) (map[string]factory.ClassFactory, error) {
	factories, _, err := l.addDirectory(ctx, dir, recursive)
	return factories, err
}

func (l *Loader) addDirectory(ctx context.Context, dir string, recursive bool) (map[string]factory.ClassFactory, int, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scanning for modules.", "path", dir, "recursive", recursive)

	paths, err := fsutil.FindFilesByExtension(dir, ModuleExtension, recursive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("loader: directory '%s': %w", dir, ErrNotFound)
		}
		return nil, 0, fmt.Errorf("loader: scanning '%s': %w", dir, err)
	}

	libs := make([]Library, len(paths))
	openErrs := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if l.openLimit > 0 {
		g.SetLimit(l.openLimit)
	}
	for i, path := range paths {
		g.Go(func() error {
			libs[i], openErrs[i] = l.Load(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	next := 0
	factories, n, err := l.addEach(ctx, paths, func(ctx context.Context, _ string) (factory.ClassFactory, error) {
		i := next
		next++
		if openErrs[i] != nil {
			return factory.ClassFactory{}, openErrs[i]
		}
		return l.register(ctx, libs[i])
	})
	logger.Info("Loaded modules from directory.", "path", dir, "count", n)
	return factories, n, err
}

// candidates lists the files AddModuleByName tries for name, in order.
func (l *Loader) candidates(name string) []string {
	var out []string
	for _, dir := range l.searchPaths {
		out = append(out,
			filepath.Join(dir, "lib"+name+ModuleExtension),
			filepath.Join(dir, name+ModuleExtension),
		)
	}
	return out
}

func (l *Loader) resolveName(ctx context.Context, name string) (Library, error) {
	logger := ctxlog.FromContext(ctx)

	if l.builtins != nil && l.builtins.Has(name) {
		logger.Debug("Resolved module to builtin.", "library", name)
		return l.builtins.Open(ctx, name)
	}
	for _, path := range l.candidates(name) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		logger.Debug("Resolved module by name.", "library", name, "path", path)
		return l.Load(ctx, path)
	}
	return nil, fmt.Errorf("loader: no module named '%s' in builtins or %d search paths: %w", name, len(l.searchPaths), ErrNotFound)
}
