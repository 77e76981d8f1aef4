package sha3

import "hash"

// Digest sizes in bytes.
const (
	Size224 = 28
	Size256 = 32
	Size384 = 48
	Size512 = 64
)

// New224 returns a sponge producing SHA3-224 digests.
func New224() *Sponge { return newSponge(Size224) }

// New256 returns a sponge producing SHA3-256 digests.
func New256() *Sponge { return newSponge(Size256) }

// New384 returns a sponge producing SHA3-384 digests.
func New384() *Sponge { return newSponge(Size384) }

// New512 returns a sponge producing SHA3-512 digests.
func New512() *Sponge { return newSponge(Size512) }

// Sum224 returns the SHA3-224 digest of data.
func Sum224(data []byte) (d [Size224]byte) {
	copy(d[:], sum(New224(), data))
	return d
}

// Sum256 returns the SHA3-256 digest of data.
func Sum256(data []byte) (d [Size256]byte) {
	copy(d[:], sum(New256(), data))
	return d
}

// Sum384 returns the SHA3-384 digest of data.
func Sum384(data []byte) (d [Size384]byte) {
	copy(d[:], sum(New384(), data))
	return d
}

// Sum512 returns the SHA3-512 digest of data.
func Sum512(data []byte) (d [Size512]byte) {
	copy(d[:], sum(New512(), data))
	return d
}

func sum(s *Sponge, data []byte) []byte {
	// A fresh sponge cannot be finalized, so Absorb cannot fail here.
	_ = s.Absorb(data)
	return s.Finalize()
}

// Digest adapts a Sponge to hash.Hash. Sum finalizes a copy of the state,
// so writes may continue after it.
type Digest struct {
	sponge Sponge
}

var _ hash.Hash = (*Digest)(nil)

// NewDigest512 returns a streaming SHA3-512 hash.
func NewDigest512() *Digest { return &Digest{sponge: *New512()} }

// NewDigest256 returns a streaming SHA3-256 hash.
func NewDigest256() *Digest { return &Digest{sponge: *New256()} }

func (d *Digest) Write(p []byte) (int, error) {
	if err := d.sponge.Absorb(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *Digest) Sum(b []byte) []byte {
	dup := d.sponge
	return append(b, dup.Finalize()...)
}

func (d *Digest) Reset()         { d.sponge.Reset() }
func (d *Digest) Size() int      { return d.sponge.size }
func (d *Digest) BlockSize() int { return d.sponge.rate }
