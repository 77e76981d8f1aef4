package param

import (
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// Generic bases of the boundary collections.
var (
	VectorBase   = typeid.NewGenericBase("vector", guid.MustParse("DCB2A5A5-1D17-4E0A-83C2-640912AECD25"))
	IteratorBase = typeid.NewGenericBase("iterator", guid.MustParse("0EEE0761-A2EA-4422-9777-C639BDEEE431"))
	IterableBase = typeid.NewGenericBase("iterable", guid.MustParse("939BA2A7-C897-4F14-B0BE-5DF0F21889A0"))
	PairBase     = typeid.NewGenericBase("pair", guid.MustParse("77FBFA1B-0E03-4D44-BC66-268C676DDC23"))
	HashMapBase  = typeid.NewGenericBase("hash_map", guid.MustParse("5218106E-2AC9-438F-81CF-A1ED421878F6"))
	BoxBase      = typeid.NewGenericBase("box", guid.MustParse("CEAEA735-BA42-4B48-96B3-C2F9BAA4F5E2"))
)

func init() {
	typeid.RegisterName(VectorBase, 1)
	typeid.RegisterName(IteratorBase, 1)
	typeid.RegisterName(IterableBase, 1)
	typeid.RegisterName(PairBase, 2)
	typeid.RegisterName(HashMapBase, 2)
	typeid.RegisterName(BoxBase, 1)
}

// VectorInfo is the identity of a vector of T.
func VectorInfo[T any]() typeid.Info { return typeid.Generic(VectorBase, typeid.Of[T]()) }

// IteratorInfo is the identity of an iterator over T.
func IteratorInfo[T any]() typeid.Info { return typeid.Generic(IteratorBase, typeid.Of[T]()) }

// IterableInfo is the identity of an iterable of T.
func IterableInfo[T any]() typeid.Info { return typeid.Generic(IterableBase, typeid.Of[T]()) }

// PairInfo is the identity of a pair of K and V.
func PairInfo[K, V any]() typeid.Info {
	return typeid.Generic(PairBase, typeid.Of[K](), typeid.Of[V]())
}

// HashMapInfo is the identity of a hash map from K to V.
func HashMapInfo[K, V any]() typeid.Info {
	return typeid.Generic(HashMapBase, typeid.Of[K](), typeid.Of[V]())
}

// BoxInfo is the identity of a box holding T.
func BoxInfo[T any]() typeid.Info { return typeid.Generic(BoxBase, typeid.Of[T]()) }
