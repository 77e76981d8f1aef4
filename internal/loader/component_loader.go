package loader

import (
	"fmt"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// ComponentLoader is an owning handle to a loader boundary object, as seen
// from a module.
type ComponentLoader struct {
	abi.Ref[ComponentLoaderABI]
}

// TypeInfo reports the loader identity.
func (ComponentLoader) TypeInfo() typeid.Info { return ComponentLoaderInfo }

func (c ComponentLoader) facet() (ComponentLoaderABI, error) {
	if c.IsNil() {
		return nil, fmt.Errorf("loader: %w", abi.ErrNullPointer)
	}
	return c.Get(), nil
}

// AddModule registers the module at path and reports whether it was found.
func (c ComponentLoader) AddModule(path string) (bool, error) {
	p, err := c.facet()
	if err != nil {
		return false, err
	}
	var ok bool
	err = abi.Check(p.AddModule(abi.NewString(path), &ok))
	return ok, err
}

// AddModuleByName registers the module called name and reports whether it
// was found.
func (c ComponentLoader) AddModuleByName(name string) (bool, error) {
	p, err := c.facet()
	if err != nil {
		return false, err
	}
	var ok bool
	err = abi.Check(p.AddModuleByName(abi.NewString(name), &ok))
	return ok, err
}

// AddModulesInDirectory registers every module in dir.
func (c ComponentLoader) AddModulesInDirectory(dir string, recursive bool) (uint64, error) {
	p, err := c.facet()
	if err != nil {
		return 0, err
	}
	var n uint64
	err = abi.Check(p.AddModulesInDirectory(abi.NewString(dir), recursive, &n))
	return n, err
}

// LookupFactory returns the factory of library.
func (c ComponentLoader) LookupFactory(library string) (factory.ClassFactory, error) {
	p, err := c.facet()
	if err != nil {
		return factory.ClassFactory{}, err
	}
	var f factory.ClassFactory
	if err := abi.Check(p.LookupFactory(abi.NewString(library), &f)); err != nil {
		return factory.ClassFactory{}, err
	}
	return f, nil
}

// LibraryNames lists the registered libraries in registration order.
func (c ComponentLoader) LibraryNames() ([]string, error) {
	p, err := c.facet()
	if err != nil {
		return nil, err
	}
	var v param.Vector[abi.String]
	if err := abi.Check(p.LibraryNames(&v)); err != nil {
		return nil, err
	}
	return stringList(v), nil
}

// ContainsQualifiedName reports whether any library creates name.
func (c ComponentLoader) ContainsQualifiedName(name string) (bool, error) {
	p, err := c.facet()
	if err != nil {
		return false, err
	}
	var ok bool
	err = abi.Check(p.ContainsQualifiedName(abi.NewString(name), &ok))
	return ok, err
}

// ContainsInterfaceID reports whether any library creates by id.
func (c ComponentLoader) ContainsInterfaceID(id guid.GUID) (bool, error) {
	p, err := c.facet()
	if err != nil {
		return false, err
	}
	var ok bool
	err = abi.Check(p.ContainsInterfaceID(id, &ok))
	return ok, err
}

// CreateByName creates the component called name.
func (c ComponentLoader) CreateByName(name string) (abi.Object, error) {
	p, err := c.facet()
	if err != nil {
		return abi.Object{}, err
	}
	var obj abi.Object
	if err := abi.Check(p.CreateByName(abi.NewString(name), &obj)); err != nil {
		return abi.Object{}, err
	}
	return obj, nil
}

// CreateByInterfaceID creates the component whose first interface is id.
func (c ComponentLoader) CreateByInterfaceID(id guid.GUID) (abi.Object, error) {
	p, err := c.facet()
	if err != nil {
		return abi.Object{}, err
	}
	var obj abi.Object
	if err := abi.Check(p.CreateByInterfaceID(id, &obj)); err != nil {
		return abi.Object{}, err
	}
	return obj, nil
}

// MakeExported creates the component registered for I through the loader
// object and queries it for I.
func MakeExported[I abi.Unknown](c ComponentLoader) (abi.Ref[I], error) {
	obj, err := c.CreateByInterfaceID(typeid.Of[I]().ID)
	if err != nil {
		return abi.Ref[I]{}, err
	}
	defer obj.Release()
	return abi.Query[I](obj.Get())
}
