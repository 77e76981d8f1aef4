package typeid

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/specialistvlad/exposing/internal/guid"
)

var primitives = map[reflect.Type]Info{
	reflect.TypeFor[guid.GUID](): GUID,
	reflect.TypeFor[bool]():      Bool,
	reflect.TypeFor[int8]():      Int8,
	reflect.TypeFor[int16]():     Int16,
	reflect.TypeFor[int32]():     Int32,
	reflect.TypeFor[int64]():     Int64,
	reflect.TypeFor[uint8]():     Uint8,
	reflect.TypeFor[uint16]():    Uint16,
	reflect.TypeFor[uint32]():    Uint32,
	reflect.TypeFor[uint64]():    Uint64,
	reflect.TypeFor[float32]():   Float32,
	reflect.TypeFor[float64]():   Float64,
}

// enumUnderlying maps the reflect kinds allowed under an enum to their
// primitive identity.
var enumUnderlying = map[reflect.Kind]Info{
	reflect.Int8:   Int8,
	reflect.Int16:  Int16,
	reflect.Int32:  Int32,
	reflect.Int64:  Int64,
	reflect.Uint8:  Uint8,
	reflect.Uint16: Uint16,
	reflect.Uint32: Uint32,
	reflect.Uint64: Uint64,
}

var typedType = reflect.TypeFor[Typed]()

var registry = struct {
	mu    sync.RWMutex
	types map[reflect.Type]Info
	names map[string]named
}{
	types: make(map[reflect.Type]Info),
	names: make(map[string]named),
}

// named is an entry resolvable by Lookup. Arity is zero for complete types.
type named struct {
	info  Info
	arity int
}

func init() {
	for _, info := range []Info{GUID, Bool, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64, String} {
		registry.names[info.Name] = named{info: info}
	}
}

// Of returns the identity of T. It panics if T cannot cross a boundary;
// that is a programming error, detected the first time the type is used.
func Of[T any]() Info {
	info, err := TypeOf(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return info
}

// TypeOf returns the identity of t.
func TypeOf(t reflect.Type) (Info, error) {
	if t == nil {
		return Info{}, fmt.Errorf("typeid: nil type")
	}
	registry.mu.RLock()
	info, ok := registry.types[t]
	registry.mu.RUnlock()
	if ok {
		return info, nil
	}

	if t.Implements(typedType) && t.Kind() != reflect.Interface {
		return reflect.Zero(t).Interface().(Typed).TypeInfo(), nil
	}
	if info, ok := primitives[t]; ok {
		return info, nil
	}

	if t.PkgPath() != "" {
		if under, ok := enumUnderlying[t.Kind()]; ok {
			return Info{Kind: Enum, ID: under.ID, Name: t.String()}, nil
		}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return Info{}, fmt.Errorf("typeid: %s has a platform-dependent size; use a fixed-width integer", t)
	}
	return Info{}, fmt.Errorf("typeid: %s has no boundary identity", t)
}

// RegisterTable gives the struct type T a table identity and returns it.
// Registering the same type twice with a different identifier panics.
func RegisterTable[T any](name string, id guid.GUID) Info {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("typeid: table %s must be a struct, got %s", name, t.Kind()))
	}
	return register(t, Info{Kind: Table, ID: id, Name: name})
}

// RegisterInterface declares the identifier of the boundary interface type
// I so that Of[I] resolves it. It is typically assigned to a package-level
// variable next to the interface declaration.
func RegisterInterface[I any](name string, id guid.GUID) Info {
	t := reflect.TypeFor[I]()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("typeid: %s must be an interface type, got %s", name, t.Kind()))
	}
	return register(t, NewInterface(name, id))
}

func register(t reflect.Type, info Info) Info {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if prev, ok := registry.types[t]; ok && prev != info {
		panic(fmt.Sprintf("typeid: %s already registered as %s", t, prev))
	}
	registry.types[t] = info
	registry.names[info.Name] = named{info: info}
	return info
}

// RegisterName makes info resolvable by Lookup and ParseExpr. Arity is the
// number of type arguments a generic base expects, or zero for a complete
// type.
func RegisterName(info Info, arity int) {
	if info.Name == "" {
		panic("typeid: cannot register an unnamed identity")
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.names[info.Name] = named{info: info, arity: arity}
}

// Lookup resolves a registered name. The arity is non-zero for generic
// bases.
func Lookup(name string) (Info, int, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	n, ok := registry.names[name]
	return n.info, n.arity, ok
}
