package factory

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// ClassFactory is an owning handle to a module's class factory.
type ClassFactory struct {
	abi.Ref[ClassFactoryABI]
}

// AsClassFactory takes over obj and queries it for the factory interface.
// obj is released either way.
func AsClassFactory(obj abi.Object) (ClassFactory, error) {
	defer obj.Release()
	if obj.IsNil() {
		return ClassFactory{}, fmt.Errorf("factory: %w", abi.ErrNullPointer)
	}
	r, err := abi.Query[ClassFactoryABI](obj.Get())
	if err != nil {
		return ClassFactory{}, fmt.Errorf("factory: object is not a class factory: %w", err)
	}
	return ClassFactory{r}, nil
}

// TypeInfo reports the factory identity.
func (ClassFactory) TypeInfo() typeid.Info { return ClassFactoryInfo }

// Clone returns a second owning handle to the same factory.
func (f ClassFactory) Clone() ClassFactory { return ClassFactory{f.Ref.Clone()} }

func (f ClassFactory) facet() (ClassFactoryABI, error) {
	if f.IsNil() {
		return nil, fmt.Errorf("factory: %w", abi.ErrNullPointer)
	}
	return f.Get(), nil
}

// CreateByName creates the component registered under name. The returned
// handle is empty when the library has no such component.
func (f ClassFactory) CreateByName(name string) (abi.Object, error) {
	p, err := f.facet()
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
// The returned handle is empty when the library has no such component.
func (f ClassFactory) CreateByInterfaceID(id guid.GUID) (abi.Object, error) {
	p, err := f.facet()
	if err != nil {
		return abi.Object{}, err
	}
	var obj abi.Object
	if err := abi.Check(p.CreateByInterfaceID(id, &obj)); err != nil {
		return abi.Object{}, err
	}
	return obj, nil
}

// InterfaceIDs lists the identifiers the factory creates by.
func (f ClassFactory) InterfaceIDs() ([]guid.GUID, error) {
	p, err := f.facet()
	if err != nil {
		return nil, err
	}
	var v param.Vector[guid.GUID]
	if err := abi.Check(p.InterfaceIDs(&v)); err != nil {
		return nil, err
	}
	defer v.Release()
	return v.Slice()
}

// QualifiedNames lists the component names in declaration order.
func (f ClassFactory) QualifiedNames() ([]string, error) {
	p, err := f.facet()
	if err != nil {
		return nil, err
	}
	var v param.Vector[abi.String]
	if err := abi.Check(p.QualifiedNames(&v)); err != nil {
		return nil, err
	}
	defer v.Release()

	var names []string
	for s := range v.All() {
		names = append(names, s.String())
	}
	return names, nil
}

// LibraryName returns the name the library reports for itself.
func (f ClassFactory) LibraryName() (string, error) {
	p, err := f.facet()
	if err != nil {
		return "", err
	}
	var s abi.String
	if err := abi.Check(p.LibraryName(&s)); err != nil {
		return "", err
	}
	defer s.Release()
	return s.String(), nil
}

// ContainsQualifiedName reports whether the factory creates name.
func (f ClassFactory) ContainsQualifiedName(name string) (bool, error) {
	names, err := f.QualifiedNames()
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// ContainsInterfaceID reports whether the factory creates by id.
func (f ClassFactory) ContainsInterfaceID(id guid.GUID) (bool, error) {
	ids, err := f.InterfaceIDs()
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}
