package param

import (
	"iter"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// IteratorABI is the pull iteration protocol.
type IteratorABI[T any] interface {
	abi.Unknown
	Current(out *T) abi.Result
	Valid(out *bool) abi.Result
	MoveToNext(out *bool) abi.Result
}

// IterableABI is implemented by every collection that can be iterated.
type IterableABI[T any] interface {
	abi.Unknown
	GetIterator(out *Iterator[T]) abi.Result
}

// cursor is the live view an iterator reads through.
type cursor[T any] interface {
	abi.Unknown
	length() uint64
	element(i uint64) (T, error)
}

type iteratorObject[T any] struct {
	abi.Impl
	source cursor[T]
	index  uint64
}

// newIterator returns an iterator positioned on the first element of src.
// The iterator holds a reference to src until it is destroyed.
func newIterator[T any](src cursor[T]) *iteratorObject[T] {
	src.AddRef()
	it := &iteratorObject[T]{source: src}
	it.Init(func() { src.Release() }, abi.Entry{ID: IteratorInfo[T]().ID, Facet: it})
	return it
}

func (it *iteratorObject[T]) Current(out *T) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		if n := it.source.length(); it.index >= n {
			return outOfBounds(it.index, n)
		}
		v, err := it.source.element(it.index)
		if err != nil {
			return err
		}
		*out = v
		return nil
	})
}

func (it *iteratorObject[T]) Valid(out *bool) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = it.index < it.source.length()
		return nil
	})
}

func (it *iteratorObject[T]) MoveToNext(out *bool) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		n := it.source.length()
		if it.index < n {
			it.index++
		}
		*out = it.index < n
		return nil
	})
}

// Iterator is an owning handle to an iterator over T.
type Iterator[T any] struct {
	abi.Ref[IteratorABI[T]]
}

// TypeInfo reports the iterator identity.
func (Iterator[T]) TypeInfo() typeid.Info { return IteratorInfo[T]() }

// Current returns a new reference to the element under the iterator.
func (it Iterator[T]) Current() (T, error) {
	p, err := facet(it.Ref)
	if err != nil {
		var zero T
		return zero, err
	}
	return get(p.Current)
}

// Valid reports whether the iterator is positioned on an element.
func (it Iterator[T]) Valid() (bool, error) {
	p, err := facet(it.Ref)
	if err != nil {
		return false, err
	}
	return get(p.Valid)
}

// MoveToNext advances and reports whether an element is available.
func (it Iterator[T]) MoveToNext() (bool, error) {
	p, err := facet(it.Ref)
	if err != nil {
		return false, err
	}
	return get(p.MoveToNext)
}

// Iterable is an owning handle to any iterable collection of T.
type Iterable[T any] struct {
	abi.Ref[IterableABI[T]]
}

// TypeInfo reports the iterable identity.
func (Iterable[T]) TypeInfo() typeid.Info { return IterableInfo[T]() }

// AsIterable queries u for the iterable interface over T.
func AsIterable[T any](u abi.Unknown) (Iterable[T], error) {
	r, err := abi.QueryID[IterableABI[T]](u, IterableInfo[T]().ID)
	return Iterable[T]{r}, err
}

// Iterator acquires a fresh iterator.
func (c Iterable[T]) Iterator() (Iterator[T], error) {
	p, err := facet(c.Ref)
	if err != nil {
		return Iterator[T]{}, err
	}
	return get(p.GetIterator)
}

// All yields every element. Each value is released after the yield
// returns; Retain it to keep it longer.
func (c Iterable[T]) All() iter.Seq[T] { return all(c.Iterator) }

func all[T any](acquire func() (Iterator[T], error)) iter.Seq[T] {
	return func(yield func(T) bool) {
		it, err := acquire()
		if err != nil {
			return
		}
		defer it.Release()

		for ok, err := it.Valid(); err == nil && ok; ok, err = it.MoveToNext() {
			v, err := it.Current()
			if err != nil {
				return
			}
			more := yield(v)
			abi.Drop(v)
			if !more {
				return
			}
		}
	}
}
