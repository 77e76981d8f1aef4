package testutil

import (
	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// IEcho is a minimal interface for exercising the loader.
type IEcho interface {
	abi.Unknown
	Echo(in abi.String, out *abi.String) abi.Result
}

// IEchoInfo is the identity of IEcho.
var IEchoInfo = typeid.RegisterInterface[IEcho]("testutil.echo", guid.MustParse("5E1F0C2B-7A3D-4E9F-8B6C-1D2E3F4A5B6C"))

type echo struct {
	abi.Impl
	prefix string
}

// NewEcho creates an echo object that prepends prefix to its input.
func NewEcho(prefix string) (IEcho, error) {
	e := &echo{prefix: prefix}
	e.Init(nil, abi.Entry{ID: IEchoInfo.ID, Facet: e})
	return e, nil
}

func (e *echo) Echo(in abi.String, out *abi.String) abi.Result {
	return abi.SafeCall(func() error {
		defer in.Release()
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		*out = abi.NewString(e.prefix + in.String())
		return nil
	})
}

// EchoModule exports one echo component per qualified name. Each component
// echoes with its own name followed by ": " as the prefix.
func EchoModule(library string, names ...string) *factory.Exports {
	components := make([]factory.Component, len(names))
	for i, name := range names {
		components[i] = factory.Define(name, func() (IEcho, error) { return NewEcho(name + ": ") })
	}
	return factory.Export(library, components...)
}

// CallEcho queries obj for IEcho and echoes in.
func CallEcho(obj abi.Unknown, in string) (string, error) {
	e, err := abi.Query[IEcho](obj)
	if err != nil {
		return "", err
	}
	defer e.Release()

	var out abi.String
	if err := abi.Check(e.Get().Echo(abi.NewString(in), &out)); err != nil {
		return "", err
	}
	defer out.Release()
	return out.String(), nil
}
