package loader

import (
	"context"
	"fmt"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
)

// ErrNotFound is matched by every "nothing found" failure of the loader:
// missing files, modules without entry points and unknown components.
var ErrNotFound = abi.ErrKeyNotFound

// Library is an opened module.
type Library interface {
	// Lookup returns the exported symbol with the given name.
	Lookup(symbol string) (any, error)
	// Close releases the module. Backends that cannot unload code treat it
	// as a no-op.
	Close() error
	// Path is the location the module was opened from.
	Path() string
}

// Opener opens modules by path.
type Opener interface {
	Open(ctx context.Context, path string) (Library, error)
}

// lookupFunc resolves an entry point exported either as a function or as a
// variable holding one.
func lookupFunc[F any](lib Library, symbol string) (F, error) {
	var zero F
	sym, err := lib.Lookup(symbol)
	if err != nil {
		return zero, fmt.Errorf("loader: module '%s' has no %s entry point: %w: %w", lib.Path(), symbol, ErrNotFound, err)
	}
	switch fn := sym.(type) {
	case F:
		return fn, nil
	case *F:
		if fn != nil {
			return *fn, nil
		}
	}
	return zero, fmt.Errorf("loader: module '%s' exports %s with unexpected type %T: %w", lib.Path(), symbol, sym, ErrNotFound)
}

// ResolveFactory calls the module's factory entry point and returns the
// class factory together with the module's unload check.
func ResolveFactory(lib Library) (factory.ClassFactory, factory.CanUnloadNowFunc, error) {
	create, err := lookupFunc[factory.CreateFactoryFunc](lib, factory.SymbolCreateFactory)
	if err != nil {
		return factory.ClassFactory{}, nil, err
	}
	canUnload, err := lookupFunc[factory.CanUnloadNowFunc](lib, factory.SymbolCanUnloadNow)
	if err != nil {
		return factory.ClassFactory{}, nil, err
	}

	var u abi.Unknown
	if err := abi.Check(create(&u)); err != nil {
		return factory.ClassFactory{}, nil, fmt.Errorf("loader: creating factory of '%s': %w", lib.Path(), err)
	}
	f, err := factory.AsClassFactory(abi.Attach(u))
	if err != nil {
		return factory.ClassFactory{}, nil, fmt.Errorf("loader: module '%s': %w", lib.Path(), err)
	}
	return f, canUnload, nil
}
