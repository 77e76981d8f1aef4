package param

import (
	"iter"
	"slices"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// MaxVectorSize bounds Resize and Reserve; larger requests fail with
// BadAlloc instead of exhausting memory.
const MaxVectorSize = 1 << 32

// VectorABI is the method table of a boundary vector. A vector is also an
// IterableABI of its element type.
type VectorABI[T any] interface {
	IterableABI[T]
	Empty(out *bool) abi.Result
	Size(out *uint64) abi.Result
	At(index uint64, out *T) abi.Result
	SetAt(index uint64, value T) abi.Result
	PushBack(value T) abi.Result
	RemoveAt(index uint64) abi.Result
	InsertAt(index uint64, value T) abi.Result
	Contains(value T, out *bool) abi.Result
	Clear() abi.Result
	Resize(size uint64) abi.Result
	Reserve(capacity uint64) abi.Result
	CopyFrom(index uint64, values []T) abi.Result
	CopyTo(index uint64, out []T) abi.Result
}

type vectorObject[T any] struct {
	abi.Impl
	items []T
}

// newVectorObject takes ownership of items.
func newVectorObject[T any](items []T) *vectorObject[T] {
	v := &vectorObject[T]{items: items}
	v.Init(v.dropAll,
		abi.Entry{ID: VectorInfo[T]().ID, Facet: v},
		abi.Entry{ID: IterableInfo[T]().ID, Facet: v},
	)
	return v
}

func (v *vectorObject[T]) dropAll() {
	for _, item := range v.items {
		abi.Drop(item)
	}
	clear(v.items)
	v.items = v.items[:0]
}

func (v *vectorObject[T]) length() uint64 { return uint64(len(v.items)) }

func (v *vectorObject[T]) element(i uint64) (T, error) {
	if i >= v.length() {
		var zero T
		return zero, outOfBounds(i, v.length())
	}
	return abi.Retain(v.items[i]), nil
}

func (v *vectorObject[T]) Empty(out *bool) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = len(v.items) == 0
		return nil
	})
}

func (v *vectorObject[T]) Size(out *uint64) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = v.length()
		return nil
	})
}

func (v *vectorObject[T]) At(index uint64, out *T) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		item, err := v.element(index)
		if err != nil {
			return err
		}
		*out = item
		return nil
	})
}

func (v *vectorObject[T]) SetAt(index uint64, value T) abi.Result {
	return abi.SafeCall(func() error {
		if index >= v.length() {
			abi.Drop(value)
			return outOfBounds(index, v.length())
		}
		abi.Drop(v.items[index])
		v.items[index] = value
		return nil
	})
}

func (v *vectorObject[T]) PushBack(value T) abi.Result {
	return abi.SafeCall(func() error {
		v.items = append(v.items, value)
		return nil
	})
}

func (v *vectorObject[T]) RemoveAt(index uint64) abi.Result {
	return abi.SafeCall(func() error {
		if index >= v.length() {
			return outOfBounds(index, v.length())
		}
		abi.Drop(v.items[index])
		v.items = slices.Delete(v.items, int(index), int(index)+1)
		return nil
	})
}

func (v *vectorObject[T]) InsertAt(index uint64, value T) abi.Result {
	return abi.SafeCall(func() error {
		if index > v.length() {
			abi.Drop(value)
			return outOfBounds(index, v.length())
		}
		v.items = slices.Insert(v.items, int(index), value)
		return nil
	})
}

func (v *vectorObject[T]) Contains(value T, out *bool) abi.Result {
	return abi.SafeCall(func() error {
		defer abi.Drop(value)
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		want := keyOf(value)
		*out = slices.ContainsFunc(v.items, func(item T) bool { return keyOf(item) == want })
		return nil
	})
}

func (v *vectorObject[T]) Clear() abi.Result {
	return abi.SafeCall(func() error {
		v.dropAll()
		return nil
	})
}

func (v *vectorObject[T]) Resize(size uint64) abi.Result {
	return abi.SafeCall(func() error {
		if size > MaxVectorSize {
			return abi.Errorf(abi.BadAlloc, "cannot resize to %d elements", size)
		}
		n := int(size)
		if n < len(v.items) {
			for _, item := range v.items[n:] {
				abi.Drop(item)
			}
			clear(v.items[n:])
			v.items = v.items[:n]
			return nil
		}
		v.items = slices.Grow(v.items, n-len(v.items))
		v.items = v.items[:n]
		return nil
	})
}

func (v *vectorObject[T]) Reserve(capacity uint64) abi.Result {
	return abi.SafeCall(func() error {
		if capacity > MaxVectorSize {
			return abi.Errorf(abi.BadAlloc, "cannot reserve %d elements", capacity)
		}
		if n := int(capacity); n > cap(v.items) {
			v.items = slices.Grow(v.items, n-len(v.items))
		}
		return nil
	})
}

// spanFits reports whether n elements starting at index lie within size.
func spanFits(index uint64, n int, size uint64) bool {
	return uint64(n) <= size && index <= size-uint64(n)
}

func (v *vectorObject[T]) CopyFrom(index uint64, values []T) abi.Result {
	return abi.SafeCall(func() error {
		if !spanFits(index, len(values), v.length()) {
			return abi.Errorf(abi.OutOfBounds, "span of %d at %d exceeds size %d", len(values), index, v.length())
		}
		for i, value := range values {
			slot := &v.items[index+uint64(i)]
			abi.Drop(*slot)
			*slot = abi.Retain(value)
		}
		return nil
	})
}

func (v *vectorObject[T]) CopyTo(index uint64, out []T) abi.Result {
	return abi.SafeCall(func() error {
		if !spanFits(index, len(out), v.length()) {
			return abi.Errorf(abi.OutOfBounds, "span of %d at %d exceeds size %d", len(out), index, v.length())
		}
		for i := range out {
			out[i] = abi.Retain(v.items[index+uint64(i)])
		}
		return nil
	})
}

func (v *vectorObject[T]) GetIterator(out *Iterator[T]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = Iterator[T]{abi.Attach[IteratorABI[T]](newIterator[T](v))}
		return nil
	})
}

// Vector is an owning handle to a boundary vector of T.
type Vector[T any] struct {
	abi.Ref[VectorABI[T]]
}

// NewVector creates a vector holding items. The caller keeps its own
// references to the items.
func NewVector[T any](items ...T) Vector[T] {
	owned := make([]T, len(items))
	for i, item := range items {
		owned[i] = abi.Retain(item)
	}
	return Vector[T]{abi.Attach[VectorABI[T]](newVectorObject(owned))}
}

// AsVector queries u for the vector interface over T.
func AsVector[T any](u abi.Unknown) (Vector[T], error) {
	r, err := abi.QueryID[VectorABI[T]](u, VectorInfo[T]().ID)
	return Vector[T]{r}, err
}

// TypeInfo reports the vector identity.
func (Vector[T]) TypeInfo() typeid.Info { return VectorInfo[T]() }

// Clone returns a second owning handle to the same vector.
func (v Vector[T]) Clone() Vector[T] { return Vector[T]{v.Ref.Clone()} }

func (v Vector[T]) Empty() (bool, error) {
	p, err := facet(v.Ref)
	if err != nil {
		return false, err
	}
	return get(p.Empty)
}

func (v Vector[T]) Size() (uint64, error) {
	p, err := facet(v.Ref)
	if err != nil {
		return 0, err
	}
	return get(p.Size)
}

// At returns a new reference to the element at index.
func (v Vector[T]) At(index uint64) (T, error) {
	p, err := facet(v.Ref)
	if err != nil {
		var zero T
		return zero, err
	}
	return get(func(out *T) abi.Result { return p.At(index, out) })
}

func (v Vector[T]) SetAt(index uint64, value T) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.SetAt(index, abi.Retain(value)))
}

func (v Vector[T]) PushBack(value T) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.PushBack(abi.Retain(value)))
}

func (v Vector[T]) RemoveAt(index uint64) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.RemoveAt(index))
}

func (v Vector[T]) InsertAt(index uint64, value T) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.InsertAt(index, abi.Retain(value)))
}

func (v Vector[T]) Contains(value T) (bool, error) {
	p, err := facet(v.Ref)
	if err != nil {
		return false, err
	}
	return get(func(out *bool) abi.Result { return p.Contains(abi.Retain(value), out) })
}

func (v Vector[T]) Clear() error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.Clear())
}

func (v Vector[T]) Resize(size uint64) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.Resize(size))
}

func (v Vector[T]) Reserve(capacity uint64) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.Reserve(capacity))
}

// CopyFrom overwrites len(values) elements starting at index.
func (v Vector[T]) CopyFrom(values []T, index uint64) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.CopyFrom(index, values))
}

// CopyTo fills out with new references to the elements starting at index.
func (v Vector[T]) CopyTo(index uint64, out []T) error {
	p, err := facet(v.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.CopyTo(index, out))
}

// Iterator acquires a fresh iterator over the vector.
func (v Vector[T]) Iterator() (Iterator[T], error) {
	p, err := facet(v.Ref)
	if err != nil {
		return Iterator[T]{}, err
	}
	return get(p.GetIterator)
}

// All yields every element; see Iterable.All.
func (v Vector[T]) All() iter.Seq[T] { return all(v.Iterator) }

// Slice returns new references to every element.
func (v Vector[T]) Slice() ([]T, error) {
	n, err := v.Size()
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	if err := v.CopyTo(0, out); err != nil {
		return nil, err
	}
	return out, nil
}
