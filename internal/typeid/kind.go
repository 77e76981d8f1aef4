package typeid

import (
	"fmt"

	"github.com/specialistvlad/exposing/internal/guid"
)

// Kind classifies a type for marshaling and signature purposes.
type Kind uint8

const (
	Invalid Kind = iota
	Primitive
	Enum
	Interface
	GenericInterface
	Table
)

var kindNames = map[Kind]string{
	Invalid:          "invalid",
	Primitive:        "primitive",
	Enum:             "enum",
	Interface:        "interface",
	GenericInterface: "generic interface",
	Table:            "table",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// categories prefix every signature.
var categories = map[Kind]guid.GUID{
	Primitive:        guid.MustParse("47534958-0000-0050-5249-4D4954495645"),
	Enum:             guid.MustParse("47534958-0000-0000-0000-0000454E554D"),
	Interface:        guid.MustParse("47534958-0000-0049-4E54-455246414345"),
	GenericInterface: guid.MustParse("47534958-0000-4749-4E54-455246414345"),
	Table:            guid.MustParse("47534958-0000-0000-0000-007461626C65"),
}

// Category returns the identifier that opens the signature of every type of
// this kind.
func (k Kind) Category() guid.GUID {
	return categories[k]
}
