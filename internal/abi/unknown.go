package abi

import (
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// Unknown is the contract every boundary interface starts with.
type Unknown interface {
	// QueryInterface stores a new reference to the facet implementing id in
	// out, or returns NoInterface and leaves out untouched.
	QueryInterface(id guid.GUID, out *Unknown) Result
	// AddRef increments the reference count and returns the new value.
	AddRef() uint32
	// Release decrements the reference count and returns the new value,
	// destroying the object when it reaches zero.
	Release() uint32
}

// UnknownID identifies the universal base interface.
var UnknownID = guid.MustParse("00000000-0000-0000-C000-000000000046")

// UnknownInfo is the identity of Unknown.
var UnknownInfo = typeid.RegisterInterface[Unknown]("unknown", UnknownID)

// Identity returns the facet an object hands out for UnknownID, without
// keeping a reference to it. Two handles refer to the same object exactly
// when their identities are equal. Facets must therefore be comparable.
func Identity(u Unknown) Unknown {
	if u == nil {
		return nil
	}
	var base Unknown
	if !u.QueryInterface(UnknownID, &base).OK() || base == nil {
		return nil
	}
	base.Release()
	return base
}

// SameObject reports whether a and b are facets of one object.
func SameObject(a, b Unknown) bool {
	ia := Identity(a)
	return ia != nil && ia == Identity(b)
}
