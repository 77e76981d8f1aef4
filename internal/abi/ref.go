package abi

import (
	"fmt"
	"reflect"

	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// Ref owns at most one reference to a boundary interface. The zero value is
// an empty handle. Copying a Ref copies the pointer without adding a
// reference; use Clone for a second owner.
type Ref[I Unknown] struct {
	ptr I
}

// Object is an owning handle to the universal base interface.
type Object = Ref[Unknown]

// Attach takes over one reference the caller already owns.
func Attach[I Unknown](p I) Ref[I] {
	return Ref[I]{ptr: p}
}

// Borrow adds a reference to p and wraps it.
func Borrow[I Unknown](p I) Ref[I] {
	if !isNil(p) {
		p.AddRef()
	}
	return Ref[I]{ptr: p}
}

// Get returns the interface without transferring ownership.
func (r Ref[I]) Get() I { return r.ptr }

// IsNil reports whether the handle is empty.
func (r Ref[I]) IsNil() bool { return isNil(r.ptr) }

// Detach empties the handle and returns the reference it owned.
func (r *Ref[I]) Detach() I {
	p := r.ptr
	var zero I
	r.ptr = zero
	return p
}

// Release drops the owned reference, if any, and empties the handle.
func (r *Ref[I]) Release() {
	p := r.Detach()
	if !isNil(p) {
		p.Release()
	}
}

// Out releases the current reference and returns the slot for use as an
// out parameter.
func (r *Ref[I]) Out() *I {
	r.Release()
	return &r.ptr
}

// Clone returns a second owning handle to the same interface.
func (r Ref[I]) Clone() Ref[I] { return Borrow(r.ptr) }

// Unknown returns the handle as the base interface, without transferring
// ownership.
func (r Ref[I]) Unknown() Unknown {
	if r.IsNil() {
		return nil
	}
	return r.ptr
}

// TypeInfo reports the identity of I.
func (Ref[I]) TypeInfo() typeid.Info { return typeid.Of[I]() }

func (r Ref[I]) retain() {
	if !r.IsNil() {
		r.ptr.AddRef()
	}
}

func (r Ref[I]) drop() {
	if !r.IsNil() {
		r.ptr.Release()
	}
}

// Query asks src for the interface registered for I and returns an owning
// handle to it.
func Query[I Unknown](src Unknown) (Ref[I], error) {
	return QueryID[I](src, typeid.Of[I]().ID)
}

// QueryID asks src for the facet implementing id and returns it as I.
func QueryID[I Unknown](src Unknown, id guid.GUID) (Ref[I], error) {
	if src == nil {
		return Ref[I]{}, Errorf(NullPointer, "query for %s on a nil object", id)
	}
	var out Unknown
	if err := Check(src.QueryInterface(id, &out)); err != nil {
		return Ref[I]{}, err
	}
	facet, ok := out.(I)
	if !ok {
		out.Release()
		return Ref[I]{}, Errorf(NoInterface, "facet for %s is %T, not %s", id, out, reflect.TypeFor[I]())
	}
	return Attach(facet), nil
}

// As queries the object behind r for I. r keeps its own reference.
func As[I Unknown, J Unknown](r Ref[J]) (Ref[I], error) {
	if r.IsNil() {
		return Ref[I]{}, fmt.Errorf("abi: %w", ErrNullPointer)
	}
	return Query[I](r.ptr)
}

// Owned is implemented by handles that own a reference: Ref, String and the
// wrappers built on them. Containers use it to retain elements they store
// and release elements they drop.
type Owned interface {
	retain()
	drop()
}

// Retain adds a reference when v is an owning handle and returns v.
func Retain[T any](v T) T {
	if o, ok := any(v).(Owned); ok {
		o.retain()
	}
	return v
}

// Drop releases the reference held by v when it is an owning handle.
func Drop[T any](v T) {
	if o, ok := any(v).(Owned); ok {
		o.drop()
	}
}

func isNil[I any](p I) bool {
	v := any(p)
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
