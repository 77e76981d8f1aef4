package loader

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/exposing/internal/factory"
)

// BuiltinScheme prefixes the path of a builtin module.
const BuiltinScheme = "builtin:"

// BuiltinOpener serves modules compiled into the host binary.
type BuiltinOpener struct {
	mu      sync.RWMutex
	modules map[string]*factory.Exports
}

// NewBuiltinOpener registers the given modules by library name.
func NewBuiltinOpener(modules ...*factory.Exports) *BuiltinOpener {
	b := &BuiltinOpener{modules: make(map[string]*factory.Exports)}
	for _, m := range modules {
		b.Register(m)
	}
	return b
}

// Register adds a module. Registering two modules with the same library
// name panics.
func (b *BuiltinOpener) Register(m *factory.Exports) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.modules[m.Library()]; exists {
		panic(fmt.Sprintf("builtin module with name '%s' already registered", m.Library()))
	}
	slog.Debug("Registering builtin module.", "library", m.Library())
	b.modules[m.Library()] = m
}

// Has reports whether a builtin module is registered under name.
func (b *BuiltinOpener) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.modules[strings.TrimPrefix(name, BuiltinScheme)]
	return ok
}

// Names lists the registered library names in lexical order.
func (b *BuiltinOpener) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.modules))
	for name := range b.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open accepts either a bare library name or one prefixed with BuiltinScheme.
func (b *BuiltinOpener) Open(_ context.Context, path string) (Library, error) {
	name := strings.TrimPrefix(path, BuiltinScheme)
	b.mu.RLock()
	m, ok := b.modules[name]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("loader: no builtin module '%s': %w", name, ErrNotFound)
	}
	return &builtinLibrary{exports: m}, nil
}

type builtinLibrary struct {
	exports *factory.Exports
}

func (l *builtinLibrary) Lookup(symbol string) (any, error) {
	if sym, ok := l.exports.Symbols()[symbol]; ok {
		return sym, nil
	}
	return nil, fmt.Errorf("symbol %s not found in builtin module '%s'", symbol, l.exports.Library())
}

func (l *builtinLibrary) Close() error { return nil }

func (l *builtinLibrary) Path() string { return BuiltinScheme + l.exports.Library() }
