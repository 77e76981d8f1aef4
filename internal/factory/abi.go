package factory

import (
	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/specialistvlad/exposing/internal/typeid"
)

// ClassFactoryABI is the method table a module's factory object exposes.
// Both Create methods succeed with an empty out when nothing matches.
type ClassFactoryABI interface {
	abi.Unknown
	CreateByName(name abi.String, out *abi.Object) abi.Result
	CreateByInterfaceID(id guid.GUID, out *abi.Object) abi.Result
	InterfaceIDs(out *param.Vector[guid.GUID]) abi.Result
	QualifiedNames(out *param.Vector[abi.String]) abi.Result
	LibraryName(out *abi.String) abi.Result
}

// ClassFactoryInfo is the identity of ClassFactoryABI.
var ClassFactoryInfo = typeid.RegisterInterface[ClassFactoryABI](
	"class_factory", guid.MustParse("DCE95478-E317-43C2-B5E2-42DB0ECD4BD5"))

// Entry point symbol names and signatures shared by every module.
const (
	SymbolCreateFactory = "DllCreateFactory"
	SymbolCanUnloadNow  = "DllCanUnloadNow"
)

type (
	// CreateFactoryFunc stores a new class factory reference in out.
	CreateFactoryFunc = func(out *abi.Unknown) abi.Result
	// CanUnloadNowFunc reports whether the module holds no live objects.
	CanUnloadNowFunc = func() bool
)
