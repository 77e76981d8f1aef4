package param

import (
	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// BoxABI is the method table of an optional value.
type BoxABI[T any] interface {
	abi.Unknown
	HasValue(out *bool) abi.Result
	Get(out *T) abi.Result
	Set(value T) abi.Result
	Reset() abi.Result
}

type boxObject[T any] struct {
	abi.Impl
	value T
	has   bool
}

func (b *boxObject[T]) HasValue(out *bool) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = b.has
		return nil
	})
}

func (b *boxObject[T]) Get(out *T) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		if !b.has {
			return abi.Errorf(abi.NotInitialized, "box holds no value")
		}
		*out = abi.Retain(b.value)
		return nil
	})
}

func (b *boxObject[T]) Set(value T) abi.Result {
	return abi.SafeCall(func() error {
		b.reset()
		b.value, b.has = value, true
		return nil
	})
}

func (b *boxObject[T]) Reset() abi.Result {
	return abi.SafeCall(func() error {
		b.reset()
		return nil
	})
}

func (b *boxObject[T]) reset() {
	if b.has {
		abi.Drop(b.value)
	}
	var zero T
	b.value, b.has = zero, false
}

// Box is an owning handle to an optional value of T.
type Box[T any] struct {
	abi.Ref[BoxABI[T]]
}

// NewBox creates an empty box.
func NewBox[T any]() Box[T] {
	b := &boxObject[T]{}
	b.Init(b.reset, abi.Entry{ID: BoxInfo[T]().ID, Facet: b})
	return Box[T]{abi.Attach[BoxABI[T]](b)}
}

// BoxOf creates a box holding value. The caller keeps its own reference.
func BoxOf[T any](value T) Box[T] {
	b := NewBox[T]()
	obj := b.Get().(*boxObject[T])
	obj.value, obj.has = abi.Retain(value), true
	return b
}

// AsBox queries u for the box interface over T.
func AsBox[T any](u abi.Unknown) (Box[T], error) {
	r, err := abi.QueryID[BoxABI[T]](u, BoxInfo[T]().ID)
	return Box[T]{r}, err
}

// TypeInfo reports the box identity.
func (Box[T]) TypeInfo() typeid.Info { return BoxInfo[T]() }

// HasValue reports whether the box is filled. An empty handle has no value.
func (b Box[T]) HasValue() bool {
	p, err := facet(b.Ref)
	if err != nil {
		return false
	}
	has, err := get(p.HasValue)
	return err == nil && has
}

// Value returns a new reference to the boxed value, or an error matching
// abi.ErrNotInitialized when the box is empty.
func (b Box[T]) Value() (T, error) {
	p, err := facet(b.Ref)
	if err != nil {
		var zero T
		return zero, err
	}
	return get(p.Get)
}

// Set replaces the boxed value.
func (b Box[T]) Set(value T) error {
	p, err := facet(b.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.Set(abi.Retain(value)))
}

// Reset empties the box.
func (b Box[T]) Reset() error {
	p, err := facet(b.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.Reset())
}
