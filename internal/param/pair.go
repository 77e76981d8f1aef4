package param

import (
	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// PairABI is the method table of an immutable key/value pair.
type PairABI[K, V any] interface {
	abi.Unknown
	Key(out *K) abi.Result
	Value(out *V) abi.Result
}

type pairObject[K, V any] struct {
	abi.Impl
	key   K
	value V
}

func (p *pairObject[K, V]) Key(out *K) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = abi.Retain(p.key)
		return nil
	})
}

func (p *pairObject[K, V]) Value(out *V) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = abi.Retain(p.value)
		return nil
	})
}

// Pair is an owning handle to a key/value pair.
type Pair[K, V any] struct {
	abi.Ref[PairABI[K, V]]
}

// NewPair creates a pair. The caller keeps its own references to key and
// value.
func NewPair[K, V any](key K, value V) Pair[K, V] {
	p := &pairObject[K, V]{key: abi.Retain(key), value: abi.Retain(value)}
	p.Init(func() {
		abi.Drop(p.key)
		abi.Drop(p.value)
	}, abi.Entry{ID: PairInfo[K, V]().ID, Facet: p})
	return Pair[K, V]{abi.Attach[PairABI[K, V]](p)}
}

// TypeInfo reports the pair identity.
func (Pair[K, V]) TypeInfo() typeid.Info { return PairInfo[K, V]() }

// Key returns a new reference to the key.
func (p Pair[K, V]) Key() (K, error) {
	f, err := facet(p.Ref)
	if err != nil {
		var zero K
		return zero, err
	}
	return get(f.Key)
}

// Value returns a new reference to the value.
func (p Pair[K, V]) Value() (V, error) {
	f, err := facet(p.Ref)
	if err != nil {
		var zero V
		return zero, err
	}
	return get(f.Value)
}
