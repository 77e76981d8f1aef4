package param

import (
	"fmt"
	"iter"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// HashMapABI is the method table of a boundary hash map. Iterating it
// yields pairs in insertion order.
type HashMapABI[K, V any] interface {
	IterableABI[Pair[K, V]]
	Empty(out *bool) abi.Result
	Size(out *uint64) abi.Result
	GetValue(key K, out *V) abi.Result
	TryGetValue(key K, out *V) abi.Result
	AddOrUpdate(key K, value V) abi.Result
	Contains(key K, out *bool) abi.Result
	Remove(key K) abi.Result
	Clear() abi.Result
}

type mapEntry[K, V any] struct {
	key   K
	value V
}

type hashMapObject[K, V any] struct {
	abi.Impl
	index   map[any]int
	entries []mapEntry[K, V]
}

func newHashMapObject[K, V any]() *hashMapObject[K, V] {
	m := &hashMapObject[K, V]{index: make(map[any]int)}
	m.Init(m.dropAll,
		abi.Entry{ID: HashMapInfo[K, V]().ID, Facet: m},
		abi.Entry{ID: IterableInfo[Pair[K, V]]().ID, Facet: m},
	)
	return m
}

func (m *hashMapObject[K, V]) dropAll() {
	for _, e := range m.entries {
		abi.Drop(e.key)
		abi.Drop(e.value)
	}
	clear(m.entries)
	m.entries = m.entries[:0]
	clear(m.index)
}

func (m *hashMapObject[K, V]) find(key K) (int, bool) {
	i, ok := m.index[keyOf(key)]
	return i, ok
}

func (m *hashMapObject[K, V]) length() uint64 { return uint64(len(m.entries)) }

func (m *hashMapObject[K, V]) element(i uint64) (Pair[K, V], error) {
	if i >= m.length() {
		return Pair[K, V]{}, outOfBounds(i, m.length())
	}
	e := m.entries[i]
	return NewPair(e.key, e.value), nil
}

func (m *hashMapObject[K, V]) Empty(out *bool) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = len(m.entries) == 0
		return nil
	})
}

func (m *hashMapObject[K, V]) Size(out *uint64) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = m.length()
		return nil
	})
}

func (m *hashMapObject[K, V]) GetValue(key K, out *V) abi.Result {
	return abi.SafeCall(func() error {
		defer abi.Drop(key)
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		i, ok := m.find(key)
		if !ok {
			return abi.Errorf(abi.KeyNotFound, "key = %s", fmt.Sprint(key))
		}
		*out = abi.Retain(m.entries[i].value)
		return nil
	})
}

// TryGetValue reports SuccessFalse instead of KeyNotFound for a missing key.
func (m *hashMapObject[K, V]) TryGetValue(key K, out *V) abi.Result {
	return abi.SafeResult(func() (abi.Result, error) {
		defer abi.Drop(key)
		if err := abi.CheckOut(out); err != nil {
			return abi.Failure, err
		}
		i, ok := m.find(key)
		if !ok {
			return abi.SuccessFalse, nil
		}
		*out = abi.Retain(m.entries[i].value)
		return abi.Success, nil
	})
}

func (m *hashMapObject[K, V]) AddOrUpdate(key K, value V) abi.Result {
	return abi.SafeCall(func() error {
		if i, ok := m.find(key); ok {
			abi.Drop(key)
			abi.Drop(m.entries[i].value)
			m.entries[i].value = value
			return nil
		}
		m.index[keyOf(key)] = len(m.entries)
		m.entries = append(m.entries, mapEntry[K, V]{key: key, value: value})
		return nil
	})
}

func (m *hashMapObject[K, V]) Contains(key K, out *bool) abi.Result {
	return abi.SafeCall(func() error {
		defer abi.Drop(key)
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		_, *out = m.find(key)
		return nil
	})
}

// Remove deletes key if present and reports SuccessFalse otherwise.
func (m *hashMapObject[K, V]) Remove(key K) abi.Result {
	return abi.SafeResult(func() (abi.Result, error) {
		defer abi.Drop(key)
		i, ok := m.find(key)
		if !ok {
			return abi.SuccessFalse, nil
		}
		e := m.entries[i]
		delete(m.index, keyOf(e.key))
		abi.Drop(e.key)
		abi.Drop(e.value)

		copy(m.entries[i:], m.entries[i+1:])
		m.entries[len(m.entries)-1] = mapEntry[K, V]{}
		m.entries = m.entries[:len(m.entries)-1]
		for j := i; j < len(m.entries); j++ {
			m.index[keyOf(m.entries[j].key)] = j
		}
		return abi.Success, nil
	})
}

func (m *hashMapObject[K, V]) Clear() abi.Result {
	return abi.SafeCall(func() error {
		m.dropAll()
		return nil
	})
}

func (m *hashMapObject[K, V]) GetIterator(out *Iterator[Pair[K, V]]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = Iterator[Pair[K, V]]{abi.Attach[IteratorABI[Pair[K, V]]](newIterator[Pair[K, V]](m))}
		return nil
	})
}

// HashMap is an owning handle to a boundary hash map. Keys are compared by
// value; string keys by content and object keys by identity.
type HashMap[K, V any] struct {
	abi.Ref[HashMapABI[K, V]]
}

// NewHashMap creates an empty map.
func NewHashMap[K, V any]() HashMap[K, V] {
	return HashMap[K, V]{abi.Attach[HashMapABI[K, V]](newHashMapObject[K, V]())}
}

// AsHashMap queries u for the hash map interface over K and V.
func AsHashMap[K, V any](u abi.Unknown) (HashMap[K, V], error) {
	r, err := abi.QueryID[HashMapABI[K, V]](u, HashMapInfo[K, V]().ID)
	return HashMap[K, V]{r}, err
}

// TypeInfo reports the hash map identity.
func (HashMap[K, V]) TypeInfo() typeid.Info { return HashMapInfo[K, V]() }

// Clone returns a second owning handle to the same map.
func (m HashMap[K, V]) Clone() HashMap[K, V] { return HashMap[K, V]{m.Ref.Clone()} }

func (m HashMap[K, V]) Empty() (bool, error) {
	p, err := facet(m.Ref)
	if err != nil {
		return false, err
	}
	return get(p.Empty)
}

func (m HashMap[K, V]) Size() (uint64, error) {
	p, err := facet(m.Ref)
	if err != nil {
		return 0, err
	}
	return get(p.Size)
}

// GetValue returns a new reference to the value stored under key, or an error
// matching abi.ErrKeyNotFound.
func (m HashMap[K, V]) GetValue(key K) (V, error) {
	p, err := facet(m.Ref)
	if err != nil {
		var zero V
		return zero, err
	}
	return get(func(out *V) abi.Result { return p.GetValue(abi.Retain(key), out) })
}

// TryGet is GetValue without the not-found error.
func (m HashMap[K, V]) TryGet(key K) (V, bool, error) {
	var value V
	p, err := facet(m.Ref)
	if err != nil {
		return value, false, err
	}
	res := p.TryGetValue(abi.Retain(key), &value)
	if err := abi.Check(res); err != nil {
		return value, false, err
	}
	return value, res == abi.Success, nil
}

// Set adds key or replaces its value.
func (m HashMap[K, V]) Set(key K, value V) error {
	p, err := facet(m.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.AddOrUpdate(abi.Retain(key), abi.Retain(value)))
}

func (m HashMap[K, V]) Contains(key K) (bool, error) {
	p, err := facet(m.Ref)
	if err != nil {
		return false, err
	}
	return get(func(out *bool) abi.Result { return p.Contains(abi.Retain(key), out) })
}

// Remove deletes key and reports whether it was present.
func (m HashMap[K, V]) Remove(key K) (bool, error) {
	p, err := facet(m.Ref)
	if err != nil {
		return false, err
	}
	res := p.Remove(abi.Retain(key))
	if err := abi.Check(res); err != nil {
		return false, err
	}
	return res == abi.Success, nil
}

func (m HashMap[K, V]) Clear() error {
	p, err := facet(m.Ref)
	if err != nil {
		return err
	}
	return abi.Check(p.Clear())
}

// Iterator acquires a fresh iterator over the map's pairs.
func (m HashMap[K, V]) Iterator() (Iterator[Pair[K, V]], error) {
	p, err := facet(m.Ref)
	if err != nil {
		return Iterator[Pair[K, V]]{}, err
	}
	return get(p.GetIterator)
}

// All yields every key and value in insertion order. Both are released
// after the yield returns.
func (m HashMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for pair := range all(m.Iterator) {
			k, err := pair.Key()
			if err != nil {
				return
			}
			v, err := pair.Value()
			if err != nil {
				abi.Drop(k)
				return
			}
			more := yield(k, v)
			abi.Drop(k)
			abi.Drop(v)
			if !more {
				return
			}
		}
	}
}
