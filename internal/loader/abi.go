package loader

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// FactoryMap maps library names to class factories.
type FactoryMap = param.HashMap[abi.String, factory.ClassFactory]

// ComponentLoaderABI is the boundary form of a Loader. The single-module
// Add methods report a module that cannot be found through a false out
// value rather than a failure code.
type ComponentLoaderABI interface {
	abi.Unknown
	AddModule(path abi.String, out *bool) abi.Result
	AddModuleWithFactory(path abi.String, out *factory.ClassFactory) abi.Result
	AddModules(paths param.Vector[abi.String], out *uint64) abi.Result
	AddModulesInDirectory(dir abi.String, recursive bool, out *uint64) abi.Result
	AddModulesWithFactories(paths param.Vector[abi.String], out *FactoryMap) abi.Result
	AddModulesWithFactoriesInDirectory(dir abi.String, recursive bool, out *FactoryMap) abi.Result
	AddModuleByName(name abi.String, out *bool) abi.Result
	AddModuleByNameWithFactory(name abi.String, out *factory.ClassFactory) abi.Result
	AddModulesByName(names param.Vector[abi.String], out *uint64) abi.Result
	AddModulesByNameWithFactories(names param.Vector[abi.String], out *FactoryMap) abi.Result
	LookupFactory(library abi.String, out *factory.ClassFactory) abi.Result
	LibraryNames(out *param.Vector[abi.String]) abi.Result
	Factories(out *FactoryMap) abi.Result
	ContainsQualifiedName(name abi.String, out *bool) abi.Result
	ContainsInterfaceID(id guid.GUID, out *bool) abi.Result
	CreateByName(name abi.String, out *abi.Object) abi.Result
	CreateByInterfaceID(id guid.GUID, out *abi.Object) abi.Result
}

// ComponentLoaderInfo is the identity of ComponentLoaderABI.
var ComponentLoaderInfo = typeid.RegisterInterface[ComponentLoaderABI](
	"component_loader", guid.MustParse("E510FD23-0134-45D3-8801-862E9F199536"))

var (
	defaultMu     sync.Mutex
	defaultLoader *Loader
)

// Default returns the process-wide loader, creating an empty one on first
// use.
func Default() *Loader {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLoader == nil {
		defaultLoader = New()
	}
	return defaultLoader
}

// SetDefault installs l as the process-wide loader.
func SetDefault(l *Loader) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLoader = l
}

// Shared returns a handle to the process-wide loader's boundary object.
// Modules use it to reach the host's loader.
func Shared() ComponentLoader {
	return Expose(context.Background(), Default())
}

type loaderObject struct {
	abi.Impl
	ctx    context.Context
	loader *Loader
}

// Expose wraps l in a boundary object. Operations run through the object
// log with the logger carried by ctx.
func Expose(ctx context.Context, l *Loader) ComponentLoader {
	o := &loaderObject{ctx: ctx, loader: l}
	o.InitResident(nil, abi.Entry{ID: ComponentLoaderInfo.ID, Facet: o})
	return ComponentLoader{abi.Attach[ComponentLoaderABI](o)}
}

// found converts a not-found failure into a false result.
func found(err error) (bool, error) {
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// stringList takes over v and copies its contents.
func stringList(v param.Vector[abi.String]) []string {
	defer v.Release()
	var out []string
	for s := range v.All() {
		out = append(out, s.String())
	}
	return out
}

// toFactoryMap takes over factories and copies them into a boundary map in
// lexical order of library name.
func toFactoryMap(factories map[string]factory.ClassFactory) (FactoryMap, error) {
	m := param.NewHashMap[abi.String, factory.ClassFactory]()
	defer releaseAll(factories)
	for _, name := range slices.Sorted(maps.Keys(factories)) {
		key := abi.NewString(name)
		err := m.Set(key, factories[name])
		key.Release()
		if err != nil {
			m.Release()
			return FactoryMap{}, err
		}
	}
	return m, nil
}

func (o *loaderObject) AddModule(path abi.String, out *bool) abi.Result {
	return abi.SafeCall(func() error {
		defer path.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		ok, err := found(o.loader.AddModule(o.ctx, path.String()))
		*out = ok
		return err
	})
}

func (o *loaderObject) AddModuleWithFactory(path abi.String, out *factory.ClassFactory) abi.Result {
	return abi.SafeCall(func() error {
		defer path.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		f, err := o.loader.AddModuleWithFactory(o.ctx, path.String())
		if err != nil {
			return err
		}
		*out = f
		return nil
	})
}

func (o *loaderObject) AddModules(paths param.Vector[abi.String], out *uint64) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			paths.Release()
			return err
		}
		list := stringList(paths)
		n, _ := o.loader.AddModules(o.ctx, list...)
		*out = uint64(n)
		return nil
	})
}

func (o *loaderObject) AddModulesInDirectory(dir abi.String, recursive bool, out *uint64) abi.Result {
	return abi.SafeCall(func() error {
		defer dir.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		n, err := o.loader.AddModulesInDirectory(o.ctx, dir.String(), recursive)
		if n == 0 && err != nil {
			return err
		}
		*out = uint64(n)
		return nil
	})
}

func (o *loaderObject) AddModulesWithFactories(paths param.Vector[abi.String], out *FactoryMap) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			paths.Release()
			return err
		}
		list := stringList(paths)
		factories, _ := o.loader.AddModulesWithFactories(o.ctx, list...)
		m, err := toFactoryMap(factories)
		if err != nil {
			return err
		}
		*out = m
		return nil
	})
}

func (o *loaderObject) AddModulesWithFactoriesInDirectory(dir abi.String, recursive bool, out *FactoryMap) abi.Result {
	return abi.SafeCall(func() error {
		defer dir.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		factories, err := o.loader.AddModulesWithFactoriesInDirectory(o.ctx, dir.String(), recursive)
		if len(factories) == 0 && err != nil {
			return err
		}
		m, err := toFactoryMap(factories)
		if err != nil {
			return err
		}
		*out = m
		return nil
	})
}

func (o *loaderObject) AddModuleByName(name abi.String, out *bool) abi.Result {
	return abi.SafeCall(func() error {
		defer name.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		ok, err := found(o.loader.AddModuleByName(o.ctx, name.String()))
		*out = ok
		return err
	})
}

func (o *loaderObject) AddModuleByNameWithFactory(name abi.String, out *factory.ClassFactory) abi.Result {
	return abi.SafeCall(func() error {
		defer name.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		f, err := o.loader.AddModuleByNameWithFactory(o.ctx, name.String())
		if err != nil {
			return err
		}
		*out = f
		return nil
	})
}

func (o *loaderObject) AddModulesByName(names param.Vector[abi.String], out *uint64) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			names.Release()
			return err
		}
		list := stringList(names)
		n, _ := o.loader.AddModulesByName(o.ctx, list...)
		*out = uint64(n)
		return nil
	})
}

func (o *loaderObject) AddModulesByNameWithFactories(names param.Vector[abi.String], out *FactoryMap) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			names.Release()
			return err
		}
		list := stringList(names)
		factories, _ := o.loader.AddModulesByNameWithFactories(o.ctx, list...)
		m, err := toFactoryMap(factories)
		if err != nil {
			return err
		}
		*out = m
		return nil
	})
}

func (o *loaderObject) LookupFactory(library abi.String, out *factory.ClassFactory) abi.Result {
	return abi.SafeCall(func() error {
		defer library.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		f, ok := o.loader.LookupFactory(library.String())
		if !ok {
			return abi.Errorf(abi.KeyNotFound, "library = %s", library.String())
		}
		*out = f
		return nil
	})
}

func (o *loaderObject) LibraryNames(out *param.Vector[abi.String]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		v := param.NewVector[abi.String]()
		for _, name := range o.loader.LibraryNames() {
			s := abi.NewString(name)
			err := v.PushBack(s)
			s.Release()
			if err != nil {
				v.Release()
				return err
			}
		}
		*out = v
		return nil
	})
}

func (o *loaderObject) Factories(out *FactoryMap) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		m, err := toFactoryMap(o.loader.Factories())
		if err != nil {
			return err
		}
		*out = m
		return nil
	})
}

func (o *loaderObject) ContainsQualifiedName(name abi.String, out *bool) abi.Result {
	return abi.SafeCall(func() error {
		defer name.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = o.loader.ContainsQualifiedName(name.String())
		return nil
	})
}

func (o *loaderObject) ContainsInterfaceID(id guid.GUID, out *bool) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = o.loader.ContainsInterfaceID(id)
		return nil
	})
}

func (o *loaderObject) CreateByName(name abi.String, out *abi.Object) abi.Result {
	return abi.SafeCall(func() error {
		defer name.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		obj, err := o.loader.CreateByName(name.String())
		if err != nil {
			return err
		}
		*out = obj
		return nil
	})
}

func (o *loaderObject) CreateByInterfaceID(id guid.GUID, out *abi.Object) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		obj, err := o.loader.CreateByInterfaceID(id)
		if err != nil {
			return err
		}
		*out = obj
		return nil
	})
}
