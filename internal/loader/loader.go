package loader

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/ctxlog"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// module is one registry entry: an opened library whose factory has been
// resolved.
type module struct {
	name      string
	lib       Library
	factory   factory.ClassFactory
	canUnload factory.CanUnloadNowFunc
}

// Loader keeps the registered modules in registration order.
type Loader struct {
	opener      Opener
	builtins    *BuiltinOpener
	searchPaths []string
	openLimit   int

	mu      sync.RWMutex
	modules []*module
}

// Option configures a Loader.
type Option func(*Loader)

// WithOpener replaces the opener used for paths. The default opens Go
// plugins.
func WithOpener(o Opener) Option {
	return func(l *Loader) { l.opener = o }
}

// WithBuiltins makes modules compiled into the host available by name.
func WithBuiltins(b *BuiltinOpener) Option {
	return func(l *Loader) { l.builtins = b }
}

// WithSearchPaths sets the directories searched by AddModuleByName.
func WithSearchPaths(dirs ...string) Option {
	return func(l *Loader) { l.searchPaths = append(l.searchPaths, dirs...) }
}

// WithOpenLimit bounds how many files AddModulesInDirectory opens at once.
// Zero or a negative n removes the bound.
func WithOpenLimit(n int) Option {
	return func(l *Loader) { l.openLimit = n }
}

// New creates an empty loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		opener:     PluginOpener{},
		builtins:   NewBuiltinOpener(),
		openLimit:  8,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Builtins returns the opener serving modules compiled into the host.
func (l *Loader) Builtins() *BuiltinOpener { return l.builtins }

// SearchPaths returns the directories searched by name.
func (l *Loader) SearchPaths() []string { return slices.Clone(l.searchPaths) }

// Load opens the module at path without registering it.
func (l *Loader) Load(ctx context.Context, path string) (Library, error) {
	return l.opener.Open(ctx, path)
}

// register resolves lib's factory and stores it under the library name the
// module reports. A module reporting an already registered name replaces
// the old entry in place. The returned factory is a new reference.
func (l *Loader) register(ctx context.Context, lib Library) (factory.ClassFactory, error) {
	logger := ctxlog.FromContext(ctx)

	f, canUnload, err := ResolveFactory(lib)
	if err != nil {
		return factory.ClassFactory{}, err
	}
	name, err := f.LibraryName()
	if err != nil {
		f.Release()
		return factory.ClassFactory{}, fmt.Errorf("loader: reading library name of '%s': %w", lib.Path(), err)
	}

	m := &module{name: name, lib: lib, factory: f, canUnload: canUnload}

	l.mu.Lock()
	var replaced *module
	if i := l.indexLocked(name); i >= 0 {
		replaced, l.modules[i] = l.modules[i], m
	} else {
		l.modules = append(l.modules, m)
	}
	l.mu.Unlock()

	if replaced != nil {
		logger.Debug("Replaced module.", "library", name, "path", lib.Path(), "previous_path", replaced.lib.Path())
		replaced.factory.Release()
		if replaced.lib != lib && replaced.lib.Path() != lib.Path() {
			if err := replaced.lib.Close(); err != nil {
				logger.Warn("Closing replaced module failed.", "library", name, "error", err)
			}
		}
	} else {
		logger.Info("Registered module.", "library", name, "path", lib.Path())
	}
	return f.Clone(), nil
}

func (l *Loader) indexLocked(name string) int {
	return slices.IndexFunc(l.modules, func(m *module) bool { return m.name == name })
}

// AddModule loads the module at path and registers its factory.
func (l *Loader) AddModule(ctx context.Context, path string) error {
	f, err := l.AddModuleWithFactory(ctx, path)
	if err != nil {
		return err
	}
	f.Release()
	return nil
}

// AddModuleWithFactory is AddModule returning a reference to the factory.
func (l *Loader) AddModuleWithFactory(ctx context.Context, path string) (factory.ClassFactory, error) {
	lib, err := l.Load(ctx, path)
	if err != nil {
		return factory.ClassFactory{}, err
	}
	return l.register(ctx, lib)
}

// AddModules registers every path it can and returns how many succeeded.
// Failures do not stop the remaining paths; they are joined in the error.
func (l *Loader) AddModules(ctx context.Context, paths ...string) (int, error) {
	factories, n, err := l.addEach(ctx, paths, l.AddModuleWithFactory)
	releaseAll(factories)
	return n, err
}

// AddModulesWithFactories is AddModules returning the registered factories
// keyed by library name. The caller releases them.
func (l *Loader) AddModulesWithFactories(ctx context.Context, paths ...string) (map[string]factory.ClassFactory, error) {
	factories, _, err := l.addEach(ctx, paths, l.AddModuleWithFactory)
	return factories, err
}

// AddModuleByName registers the module called name. Builtin modules are
// tried first, then lib<name>.so and <name>.so in each search path.
func (l *Loader) AddModuleByName(ctx context.Context, name string) error {
	f, err := l.AddModuleByNameWithFactory(ctx, name)
	if err != nil {
		return err
	}
	f.Release()
	return nil
}

// AddModuleByNameWithFactory is AddModuleByName returning a reference to
// the factory.
func (l *Loader) AddModuleByNameWithFactory(ctx context.Context, name string) (factory.ClassFactory, error) {
	lib, err := l.resolveName(ctx, name)
	if err != nil {
		return factory.ClassFactory{}, err
	}
	return l.register(ctx, lib)
}

// AddModulesByName registers every name it can and returns how many
// succeeded.
func (l *Loader) AddModulesByName(ctx context.Context, names ...string) (int, error) {
	factories, n, err := l.addEach(ctx, names, l.AddModuleByNameWithFactory)
	releaseAll(factories)
	return n, err
}

// AddModulesByNameWithFactories is AddModulesByName returning the
// registered factories keyed by library name.
func (l *Loader) AddModulesByNameWithFactories(ctx context.Context, names ...string) (map[string]factory.ClassFactory, error) {
	factories, _, err := l.addEach(ctx, names, l.AddModuleByNameWithFactory)
	return factories, err
}

// addEach runs add for every item and counts the successes. The returned
// factories are keyed by library name; a later item reporting the same
// library supersedes an earlier one.
func (l *Loader) addEach(ctx context.Context, items []string, add func(context.Context, string) (factory.ClassFactory, error)) (map[string]factory.ClassFactory, int, error) {
	logger := ctxlog.FromContext(ctx)
	factories := make(map[string]factory.ClassFactory, len(items))
	var errs []error
	added := 0
	for _, item := range items {
		f, err := add(ctx, item)
		if err != nil {
			logger.Warn("Skipping module.", "module", item, "error", err)
			errs = append(errs, err)
			continue
		}
		name, err := f.LibraryName()
		if err != nil {
			f.Release()
			errs = append(errs, err)
			continue
		}
		if old, ok := factories[name]; ok {
			old.Release()
		}
		factories[name] = f
		added++
	}
	logger.Debug("Added modules.", "requested", len(items), "count", added)
	return factories, added, errors.Join(errs...)
}

func releaseAll(factories map[string]factory.ClassFactory) {
	for _, f := range factories {
		f.Release()
	}
}

// LookupFactory returns a new reference to the factory registered under
// library.
func (l *Loader) LookupFactory(library string) (factory.ClassFactory, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexLocked(library); i >= 0 {
		return l.modules[i].factory.Clone(), true
	}
	return factory.ClassFactory{}, false
}

// LibraryNames lists the registered libraries in registration order.
func (l *Loader) LibraryNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, len(l.modules))
	for i, m := range l.modules {
		names[i] = m.name
	}
	return names
}

// Factories returns new references to every registered factory keyed by
// library name. The caller releases them.
func (l *Loader) Factories() map[string]factory.ClassFactory {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]factory.ClassFactory, len(l.modules))
	for _, m := range l.modules {
		out[m.name] = m.factory.Clone()
	}
	return out
}

// snapshot returns new references to the factories in registration order,
// so that component constructors run without the registry lock held.
func (l *Loader) snapshot() []factory.ClassFactory {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]factory.ClassFactory, len(l.modules))
	for i, m := range l.modules {
		out[i] = m.factory.Clone()
	}
	return out
}

func release(factories []factory.ClassFactory) {
	for i := range factories {
		factories[i].Release()
	}
}

// ContainsQualifiedName reports whether any registered factory creates name.
func (l *Loader) ContainsQualifiedName(name string) bool {
	factories := l.snapshot()
	defer release(factories)
	for _, f := range factories {
		if ok, err := f.ContainsQualifiedName(name); err == nil && ok {
			return true
		}
	}
	return false
}

// ContainsInterfaceID reports whether any registered factory creates by id.
func (l *Loader) ContainsInterfaceID(id guid.GUID) bool {
	factories := l.snapshot()
	defer release(factories)
	for _, f := range factories {
		if ok, err := f.ContainsInterfaceID(id); err == nil && ok {
			return true
		}
	}
	return false
}

// CreateByName creates the component called name with the first factory
// that knows it. An unknown name yields an error matching ErrNotFound.
func (l *Loader) CreateByName(name string) (abi.Object, error) {
	return l.create(fmt.Sprintf("name '%s'", name), func(f factory.ClassFactory) (abi.Object, error) {
		return f.CreateByName(name)
	})
}

// CreateByInterfaceID creates the component whose first interface is id.
func (l *Loader) CreateByInterfaceID(id guid.GUID) (abi.Object, error) {
	return l.create("interface "+id.String(), func(f factory.ClassFactory) (abi.Object, error) {
		return f.CreateByInterfaceID(id)
	})
}

func (l *Loader) create(what string, try func(factory.ClassFactory) (abi.Object, error)) (abi.Object, error) {
	factories := l.snapshot()
	defer release(factories)
	for _, f := range factories {
		obj, err := try(f)
		if err != nil {
			return abi.Object{}, err
		}
		if !obj.IsNil() {
			return obj, nil
		}
	}
	return abi.Object{}, fmt.Errorf("loader: no component with %s: %w", what, ErrNotFound)
}

// Unload removes the library from the registry. Unless force is set, the
// module must report through DllCanUnloadNow that it holds no live objects;
// otherwise the error matches abi.ErrInvalidOperation and the module stays.
func (l *Loader) Unload(ctx context.Context, library string, force bool) error {
	logger := ctxlog.FromContext(ctx)

	l.mu.Lock()
	i := l.indexLocked(library)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("loader: library '%s' is not loaded: %w", library, ErrNotFound)
	}
	m := l.modules[i]
	if !force && !m.canUnload() {
		l.mu.Unlock()
		return abi.Errorf(abi.InvalidOperation, "library '%s' still has live objects", library)
	}
	l.modules = slices.Delete(l.modules, i, i+1)
	l.mu.Unlock()

	m.factory.Release()
	logger.Info("Unloaded module.", "library", library, "forced", force)
	return m.lib.Close()
}

// Close unloads every module regardless of live objects.
func (l *Loader) Close(ctx context.Context) error {
	var errs []error
	for _, name := range l.LibraryNames() {
		if err := l.Unload(ctx, name, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Make creates the component registered for I's identifier and queries it
// for I.
func Make[I abi.Unknown](l *Loader) (abi.Ref[I], error) {
	obj, err := l.CreateByInterfaceID(typeid.Of[I]().ID)
	if err != nil {
		return abi.Ref[I]{}, err
	}
	defer obj.Release()
	return abi.Query[I](obj.Get())
}
