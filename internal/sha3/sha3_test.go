package sha3

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xsha3 "golang.org/x/crypto/sha3"
)

func TestSum_PublishedVectors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		sum   func([]byte) []byte
		want  string
	}{
		{"sha3-224 empty", "", func(b []byte) []byte { d := Sum224(b); return d[:] }, "6b4e03423667dbb73b6e15454f0eb1abd4597f9a1b078e3f5b5a6bc7"},
		{"sha3-224 abc", "abc", func(b []byte) []byte { d := Sum224(b); return d[:] }, "e642824c3f8cf24ad09234ee7d3c766fc9a3a5168d0c94ad73b46fdf"},
		{"sha3-256 empty", "", func(b []byte) []byte { d := Sum256(b); return d[:] }, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{"sha3-256 abc", "abc", func(b []byte) []byte { d := Sum256(b); return d[:] }, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{"sha3-384 empty", "", func(b []byte) []byte { d := Sum384(b); return d[:] }, "0c63a75b845e4f7d01107d852e4c2485c51a50aaaa94fc61995e71bbee983a2ac3713831264adb47fb6bd1e058d5f004"},
		{"sha3-384 abc", "abc", func(b []byte) []byte { d := Sum384(b); return d[:] }, "ec01498288516fc926459f58e2c6ad8df9b473cb0fc08c2596da7cf0e49be4b298d88cea927ac7f539f1edf228376d25"},
		{"sha3-512 empty", "", func(b []byte) []byte { d := Sum512(b); return d[:] }, "a69f73cca23a9ac5c8b567dc185a756e97c982164fe25859e0d1dcc1475c80a615b2123af1f5f94c11e3e9402c3ac558f500199d95b6d3e301758586281dcd26"},
		{"sha3-512 abc", "abc", func(b []byte) []byte { d := Sum512(b); return d[:] }, "b751850b1a57168a5693cd924b6b096e08f621827444f70d884f5d0240d2712e10e116e9192af3c91a7ec57647e3934057340b4cf408d5a56592f8274eec53f0"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, hex.EncodeToString(tc.sum([]byte(tc.input))))
		})
	}
}

// TestSponge_BlockBoundaries compares the sponge against an independent
// implementation at the lengths where padding behaves differently.
func TestSponge_BlockBoundaries(t *testing.T) {
	t.Parallel()

	variants := []struct {
		name    string
		sponge  func() *Sponge
		oracle  func([]byte) []byte
		rateLen int
	}{
		{"224", New224, func(b []byte) []byte { d := xsha3.Sum224(b); return d[:] }, 144},
		{"256", New256, func(b []byte) []byte { d := xsha3.Sum256(b); return d[:] }, 136},
		{"384", New384, func(b []byte) []byte { d := xsha3.Sum384(b); return d[:] }, 104},
		{"512", New512, func(b []byte) []byte { d := xsha3.Sum512(b); return d[:] }, 72},
	}

	for _, v := range variants {
		require.Equal(t, v.rateLen, v.sponge().Rate(), "rate of sha3-%s", v.name)

		for _, n := range []int{0, 1, v.rateLen - 1, v.rateLen, v.rateLen + 1, 3*v.rateLen + 7} {
			input := bytes.Repeat([]byte{0xA3}, n)

			s := v.sponge()
			require.NoError(t, s.Absorb(input))
			assert.Equal(t, v.oracle(input), s.Finalize(), "sha3-%s with %d bytes", v.name, n)
		}
	}
}

func TestSponge_ChunkedAbsorbMatchesOneShot(t *testing.T) {
	t.Parallel()

	input := make([]byte, 1000)
	for i := range input {
		input[i] = byte(i * 7)
	}

	s := New256()
	for off := 0; off < len(input); off += 13 {
		end := min(off+13, len(input))
		require.NoError(t, s.Absorb(input[off:end]))
	}

	want := Sum256(input)
	assert.Equal(t, want[:], s.Finalize())
}

func TestSponge_FinalizeIsTerminalUntilReset(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s := New256()
	require.NoError(t, s.Absorb([]byte("abc")))
	first := s.Finalize()

	// --- Act & Assert ---
	assert.True(t, s.Finalized())
	assert.ErrorIs(t, s.Absorb([]byte("more")), ErrFinalized)
	assert.Equal(t, first, s.Finalize(), "a second Finalize must return the same digest")

	s.Reset()
	assert.False(t, s.Finalized())
	require.NoError(t, s.Absorb([]byte("abc")))
	assert.Equal(t, first, s.Finalize(), "a reset sponge must reproduce the digest")
}

func TestDigest_SumDoesNotConsumeState(t *testing.T) {
	t.Parallel()

	d := NewDigest512()
	_, err := d.Write([]byte("ab"))
	require.NoError(t, err)
	partial := d.Sum(nil)

	_, err = d.Write([]byte("c"))
	require.NoError(t, err)

	abc := Sum512([]byte("abc"))
	ab := Sum512([]byte("ab"))
	assert.Equal(t, ab[:], partial)
	assert.Equal(t, abc[:], d.Sum(nil))
	assert.Equal(t, Size512, d.Size())
	assert.Equal(t, 72, d.BlockSize())
}
