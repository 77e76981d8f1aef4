// Package abi is the object model shared by every module that takes part in
// component exchange.
//
// # Objects
//
// A boundary object implements Unknown: QueryInterface, AddRef and Release.
// Objects embed Impl, which owns the atomic reference count and an explicit,
// ordered table of (identifier, facet) entries built at construction time.
// A facet is the value handed out for one interface; every facet of an
// object resolves back to the same Impl. Querying for UnknownID always
// returns the facet of the first entry.
//
// The count starts at 1, a successful query adds one, and the Release that
// brings it to zero runs the object's finalizer exactly once. Releasing an
// object whose count is already zero is memory corruption and terminates the
// process.
//
// # Ownership
//
// An "in" interface parameter hands one reference to the callee. An "out"
// parameter must be zero on entry; the callee stores an owned reference in
// it or leaves it zero. Ref and String are the owning handles application
// code works with.
//
// # Results
//
// Every boundary method returns a Result. SafeCall converts Go errors and
// panics raised inside a method into a Result, parking the message in a
// per-goroutine side channel; Check turns a failed Result back into an
// *Error carrying that message.
//
// Strings, vectors and maps are not synchronized. Independent references may
// be owned and released from any goroutine, but concurrent mutation of one
// instance is the caller's responsibility.
package abi
