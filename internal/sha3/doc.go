// Package sha3 implements the SHA3 family of digests (FIPS 202) on top of a
// Keccak-f[1600] sponge.
//
// The package exists to derive stable identifiers; it is not tuned for bulk
// hashing. A Sponge is strict about its lifecycle: once Finalize has been
// called it refuses further input until Reset. Digest wraps a Sponge in the
// hash.Hash contract for callers that want to stream into an io.Writer.
package sha3
