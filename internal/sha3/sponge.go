package sha3

import (
	"encoding/binary"
	"errors"
)

const (
	// stateBytes is the width of the Keccak-f[1600] state.
	stateBytes = 200
	// maxRate is the largest rate of any SHA3 variant (SHA3-224).
	maxRate = 144

	// domainSuffix is the SHA3 domain separation bits "01" followed by the
	// first bit of pad10*1, packed LSB first.
	domainSuffix byte = 0x06
	// padEnd is the final bit of pad10*1.
	padEnd byte = 0x80
)

// ErrFinalized is returned when input is absorbed after the digest has been
// produced. Call Reset to reuse the sponge.
var ErrFinalized = errors.New("sha3: sponge already finalized")

// Sponge is a Keccak sponge configured for one SHA3 variant.
// The zero value is not usable; construct it with New224, New256, New384 or
// New512.
type Sponge struct {
	state  [25]uint64
	block  [maxRate]byte
	filled int

	rate int
	size int

	digest []byte
}

func newSponge(size int) *Sponge {
	return &Sponge{rate: stateBytes - 2*size, size: size}
}

// Size returns the digest length in bytes.
func (s *Sponge) Size() int { return s.size }

// Rate returns the block size in bytes.
func (s *Sponge) Rate() int { return s.rate }

// Finalized reports whether Finalize has been called since the last Reset.
func (s *Sponge) Finalized() bool { return s.digest != nil }

// Absorb feeds p into the sponge, permuting the state every time a full
// block has been collected.
func (s *Sponge) Absorb(p []byte) error {
	if s.digest != nil {
		return ErrFinalized
	}
	for len(p) > 0 {
		n := copy(s.block[s.filled:s.rate], p)
		s.filled += n
		p = p[n:]
		if s.filled == s.rate {
			s.permuteBlock()
		}
	}
	return nil
}

// Finalize pads the pending block, performs the last permutation and returns
// the digest. Subsequent calls return the same digest until Reset.
func (s *Sponge) Finalize() []byte {
	if s.digest != nil {
		return append([]byte(nil), s.digest...)
	}

	clear(s.block[s.filled:s.rate])
	s.block[s.filled] ^= domainSuffix
	s.block[s.rate-1] ^= padEnd
	s.filled = s.rate
	s.permuteBlock()

	// Every SHA3 digest is shorter than its rate, so one squeeze suffices.
	var out [stateBytes]byte
	for i := range s.state {
		binary.LittleEndian.PutUint64(out[i*8:], s.state[i])
	}
	s.digest = append([]byte(nil), out[:s.size]...)
	return append([]byte(nil), s.digest...)
}

// Reset returns the sponge to its initial, empty state.
func (s *Sponge) Reset() {
	s.state = [25]uint64{}
	s.block = [maxRate]byte{}
	s.filled = 0
	s.digest = nil
}

func (s *Sponge) permuteBlock() {
	for i := 0; i < s.rate/8; i++ {
		s.state[i] ^= binary.LittleEndian.Uint64(s.block[i*8:])
	}
	keccakF1600(&s.state)
	s.filled = 0
}
