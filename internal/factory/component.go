package factory

import (
	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// Component describes one creatable implementation.
type Component struct {
	// Name is the qualified name the component is created by.
	Name string
	// Interface identifies the component's first declared interface.
	Interface guid.GUID
	// New returns a fresh object holding one reference.
	New func() (abi.Unknown, error)
}

// Define declares a component whose first interface is I.
func Define[I abi.Unknown](name string, newFn func() (I, error)) Component {
	return Component{
		Name:      name,
		Interface: typeid.Of[I]().ID,
		New: func() (abi.Unknown, error) {
			obj, err := newFn()
			if err != nil {
				return nil, err
			}
			return obj, nil
		},
	}
}
