// Package param provides the boundary collections: vectors, hash maps,
// pairs, boxed values and the pull iteration protocol they share.
//
// Each collection has two layers. The ABI layer (VectorABI, HashMapABI, ...)
// is the method table another module calls: every method returns an
// abi.Result and writes results through zeroed out parameters. The wrapper
// layer (Vector, HashMap, ...) is an owning handle with ordinary Go methods
// returning errors.
//
// Ownership follows the abi package rules. An element passed to an ABI
// method belongs to the callee; wrapper methods retain their arguments first,
// so callers keep their own references. Elements read back (At, Current,
// GetValue) are new references the caller must release. Spans handed to
// CopyFrom and CopyTo stay owned by the caller.
//
// Iterators are finite and cannot be restarted; acquire a new one to start
// over. They read the collection live, without a snapshot, and they keep the
// collection alive. None of the collections are safe for concurrent
// mutation.
package param
