package sha3

import "math/bits"

// rounds is the number of Keccak-f[1600] rounds.
const rounds = 24

// roundConstants are the iota step constants, one per round.
var roundConstants = [rounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808A, 0x8000000080008000,
	0x000000000000808B, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008A, 0x0000000000000088, 0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800A, 0x800000008000000A,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rotations holds the rho step offsets indexed by x + 5*y.
var rotations = [25]int{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

// piTarget maps lane x + 5*y to its position after the pi step, y + 5*((2x+3y) mod 5).
var piTarget = func() (t [25]int) {
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			t[x+5*y] = y + 5*((2*x+3*y)%5)
		}
	}
	return t
}()

// keccakF1600 applies the full permutation to the state in place.
func keccakF1600(a *[25]uint64) {
	var c, d [5]uint64
	var b [25]uint64

	for round := 0; round < rounds; round++ {
		// theta
		for x := 0; x < 5; x++ {
			c[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ bits.RotateLeft64(c[(x+1)%5], 1)
		}
		for i := 0; i < 25; i++ {
			a[i] ^= d[i%5]
		}

		// rho and pi
		for i := 0; i < 25; i++ {
			b[piTarget[i]] = bits.RotateLeft64(a[i], rotations[i])
		}

		// chi
		for y := 0; y < 25; y += 5 {
			for x := 0; x < 5; x++ {
				a[y+x] = b[y+x] ^ (^b[y+(x+1)%5] & b[y+(x+2)%5])
			}
		}

		// iota
		a[0] ^= roundConstants[round]
	}
}
