package factory

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
)

// Exports is the published component set of one library.
type Exports struct {
	library    string
	components []Component

	once   sync.Once
	byName map[string]Component
	byID   map[guid.GUID]Component
	ids    []guid.GUID
}

// Export publishes components under library. It panics when two components
// share a qualified name. When several components share a first interface,
// the first one listed is created by that interface's identifier.
func Export(library string, components ...Component) *Exports {
	seen := make(map[string]struct{}, len(components))
	for _, c := range components {
		if c.New == nil {
			panic(fmt.Sprintf("component '%s' in library '%s' has no constructor", c.Name, library))
		}
		if _, exists := seen[c.Name]; exists {
			panic(fmt.Sprintf("component with name '%s' already exported by library '%s'", c.Name, library))
		}
		seen[c.Name] = struct{}{}
	}
	return &Exports{library: library, components: components}
}

func (e *Exports) tables() {
	e.once.Do(func() {
		e.byName = make(map[string]Component, len(e.components))
		e.byID = make(map[guid.GUID]Component, len(e.components))
		for _, c := range e.components {
			e.byName[c.Name] = c
			if _, exists := e.byID[c.Interface]; !exists {
				e.byID[c.Interface] = c
				e.ids = append(e.ids, c.Interface)
			}
		}
	})
}

// Library returns the library name the module reports.
func (e *Exports) Library() string { return e.library }

// DllCreateFactory is the factory entry point.
func (e *Exports) DllCreateFactory(out *abi.Unknown) abi.Result {
	if out == nil {
		return abi.NullPointer
	}
	e.tables()
	*out = newClassFactory(e)
	return abi.Success
}

// DllCanUnloadNow is the unload entry point.
func (e *Exports) DllCanUnloadNow() bool { return abi.CanUnloadNow() }

// Symbols returns the entry points keyed by their symbol names.
func (e *Exports) Symbols() map[string]any {
	return map[string]any{
		SymbolCreateFactory: CreateFactoryFunc(e.DllCreateFactory),
		SymbolCanUnloadNow:  CanUnloadNowFunc(e.DllCanUnloadNow),
	}
}

// Factory creates a class factory without going through the entry point.
func (e *Exports) Factory() (ClassFactory, error) {
	var u abi.Unknown
	if err := abi.Check(e.DllCreateFactory(&u)); err != nil {
		return ClassFactory{}, err
	}
	return AsClassFactory(abi.Attach(u))
}

type classFactory struct {
	abi.Impl
	exports *Exports
}

func newClassFactory(e *Exports) *classFactory {
	f := &classFactory{exports: e}
	f.InitResident(nil, abi.Entry{ID: ClassFactoryInfo.ID, Facet: f})
	return f
}

func create(c Component, out *abi.Object) error {
	obj, err := c.New()
	if err != nil {
		return fmt.Errorf("creating '%s': %w", c.Name, err)
	}
	*out = abi.Attach(obj)
	return nil
}

func (f *classFactory) CreateByName(name abi.String, out *abi.Object) abi.Result {
	return abi.SafeCall(func() error {
		defer name.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		c, ok := f.exports.byName[name.String()]
		if !ok {
			return nil
		}
		return create(c, out)
	})
}

func (f *classFactory) CreateByInterfaceID(id guid.GUID, out *abi.Object) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		c, ok := f.exports.byID[id]
		if !ok {
			return nil
		}
		return create(c, out)
	})
}

func (f *classFactory) InterfaceIDs(out *param.Vector[guid.GUID]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = param.NewVector(f.exports.ids...)
		return nil
	})
}

func (f *classFactory) QualifiedNames(out *param.Vector[abi.String]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		names := param.NewVector[abi.String]()
		for _, c := range f.exports.components {
			s := abi.NewString(c.Name)
			err := names.PushBack(s)
			s.Release()
			if err != nil {
				names.Release()
				return err
			}
		}
		*out = names
		return nil
	})
}

func (f *classFactory) LibraryName(out *abi.String) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = abi.NewString(f.exports.library)
		return nil
	})
}
