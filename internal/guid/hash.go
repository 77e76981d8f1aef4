package guid

import "github.com/specialistvlad/exposing/internal/sha3"

// root is prepended to every hashed identifier so derived identifiers live
// in their own namespace.
var root = MustParse("2A4F92A8-051D-48DE-8833-7837A9D30699")

// FromHash derives an identifier from the SHA3-512 digest of root followed
// by every part in order. The first 16 digest bytes are read in wire order.
func FromHash(parts ...[]byte) GUID {
	d := sha3.NewDigest512()
	rootBytes := root.Bytes()
	_, _ = d.Write(rootBytes[:])
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	var b [Size]byte
	copy(b[:], d.Sum(nil))
	return FromBytes(b)
}
