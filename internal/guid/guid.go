package guid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Size is the length of the wire form in bytes.
const Size = 16

// GUID is a 128-bit identifier laid out as a 32-bit, two 16-bit and an
// 8-byte field.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Nil is the all-zero identifier.
var Nil GUID

// Parse reads a GUID from its canonical text form. Braced and urn:uuid
// forms are accepted as well.
func Parse(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("guid: invalid identifier %q: %w", s, err)
	}
	return FromBytes(u), nil
}

// MustParse is like Parse but panics on malformed input. It is meant for
// package-level identifier declarations.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// FromBytes decodes the 16-byte wire form.
func FromBytes(b [Size]byte) GUID {
	g := GUID{
		Data1: binary.BigEndian.Uint32(b[0:4]),
		Data2: binary.BigEndian.Uint16(b[4:6]),
		Data3: binary.BigEndian.Uint16(b[6:8]),
	}
	copy(g.Data4[:], b[8:])
	return g
}

// Bytes encodes g into its 16-byte wire form.
func (g GUID) Bytes() [Size]byte {
	var b [Size]byte
	binary.BigEndian.PutUint32(b[0:4], g.Data1)
	binary.BigEndian.PutUint16(b[4:6], g.Data2)
	binary.BigEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:], g.Data4[:])
	return b
}

// AppendBytes appends the wire form of g to dst.
func (g GUID) AppendBytes(dst []byte) []byte {
	b := g.Bytes()
	return append(dst, b[:]...)
}

// String renders g in upper-case canonical form.
func (g GUID) String() string {
	return strings.ToUpper(uuid.UUID(g.Bytes()).String())
}

// IsZero reports whether g is the all-zero identifier.
func (g GUID) IsZero() bool { return g == Nil }

// Compare orders identifiers by their wire bytes.
func (g GUID) Compare(other GUID) int {
	a, b := g.Bytes(), other.Bytes()
	return bytes.Compare(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
