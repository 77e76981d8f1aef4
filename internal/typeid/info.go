package typeid

import (
	"github.com/specialistvlad/exposing/internal/guid"
)

// SignatureSize is the length of an encoded signature.
const SignatureSize = 2 * guid.Size

// Info is the identity of one marshalable type.
type Info struct {
	Kind Kind
	ID   guid.GUID
	Name string
}

// Typed is implemented by types that carry their own identity, such as
// boundary interfaces and their wrappers. TypeInfo must not depend on the
// receiver's state; it is called on zero values.
type Typed interface {
	TypeInfo() Info
}

// Signature encodes the category of i followed by its identifier.
func (i Info) Signature() []byte {
	sig := make([]byte, 0, SignatureSize)
	sig = i.Kind.Category().AppendBytes(sig)
	return i.ID.AppendBytes(sig)
}

// IsZero reports whether i is the zero Info.
func (i Info) IsZero() bool { return i == Info{} }

func (i Info) String() string {
	return i.Name + " {" + i.ID.String() + "}"
}

// NewInterface declares a non-generic boundary interface.
func NewInterface(name string, id guid.GUID) Info {
	return Info{Kind: Interface, ID: id, Name: name}
}

// NewGenericBase declares the base of a generic boundary interface. The
// result is not itself an instantiable identity; pass it to Generic.
func NewGenericBase(name string, id guid.GUID) Info {
	return Info{Kind: GenericInterface, ID: id, Name: name}
}

// Fixed identities of the primitive types.
var (
	GUID    = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-000047554944"), "guid"}
	Bool    = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-0000424F4F4C"), "b1"}
	Int8    = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-0000494E5438"), "i1"}
	Int16   = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-00494E543136"), "i2"}
	Int32   = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-00494E543332"), "i4"}
	Int64   = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-00494E543634"), "i8"}
	Uint8   = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-0055494E5438"), "u1"}
	Uint16  = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-55494E543136"), "u2"}
	Uint32  = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-55494E543332"), "u4"}
	Uint64  = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-55494E543634"), "u8"}
	Float32 = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-00464C4F4154"), "f4"}
	Float64 = Info{Primitive, guid.MustParse("47534958-0000-0000-0000-444F55424C45"), "f8"}

	// String is the boundary string. It is marshaled as an object but
	// identified as a primitive.
	String = Info{Primitive, guid.MustParse("47534958-7061-7261-0605-737472696E67"), "string"}
)
