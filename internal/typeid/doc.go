// Package typeid assigns an identity to every type that may cross a module
// boundary.
//
// Each identity has a Kind and a 128-bit identifier:
//
//   - Primitives (bool, fixed-width integers, floats, guid.GUID and the
//     boundary string) carry fixed identifiers.
//   - Enums are defined integer types. They are identified by their
//     underlying integer type.
//   - Interfaces declare their identifier next to their method set.
//   - Generic interfaces are derived: the identifier is the hash of the base
//     identifier followed by the signature of every type argument, so two
//     modules compiled apart agree on "vector of string" without sharing any
//     state.
//   - Tables are plain structs registered with an identifier.
//
// A Signature is the 32-byte encoding "category identifier, own identifier"
// and is the only input to generic derivation besides the base identifier.
package typeid
