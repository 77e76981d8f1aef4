package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLibrary struct {
	path    string
	symbols map[string]any
	closed  atomic.Bool
}

func (l *fakeLibrary) Lookup(symbol string) (any, error) {
	if sym, ok := l.symbols[symbol]; ok {
		return sym, nil
	}
	return nil, fmt.Errorf("symbol %s not found", symbol)
}

func (l *fakeLibrary) Close() error {
	l.closed.Store(true)
	return nil
}

func (l *fakeLibrary) Path() string { return l.path }

// fakeOpener serves in-memory libraries by path.
type fakeOpener map[string]*fakeLibrary

func (o fakeOpener) Open(_ context.Context, path string) (Library, error) {
	lib, ok := o[path]
	if !ok {
		return nil, fmt.Errorf("'%s' is not a valid module: %w", path, ErrNotFound)
	}
	return lib, nil
}

func libraryOf(path string, exports *factory.Exports) *fakeLibrary {
	return &fakeLibrary{path: path, symbols: exports.Symbols()}
}

func TestLoader_AddModuleIsIdempotent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	opener := fakeOpener{"/mods/echo.so": libraryOf("/mods/echo.so", testutil.EchoModule("echo", "test.Echo"))}
	l := New(WithOpener(opener))
	t.Cleanup(func() { _ = l.Close(ctx) })

	// --- Act ---
	require.NoError(t, l.AddModule(ctx, "/mods/echo.so"))
	require.NoError(t, l.AddModule(ctx, "/mods/echo.so"))

	// --- Assert ---
	assert.Equal(t, []string{"echo"}, l.LibraryNames())
	assert.True(t, l.ContainsQualifiedName("test.Echo"))
	assert.True(t, l.ContainsInterfaceID(testutil.IEchoInfo.ID))
}

func TestLoader_DuplicateLibraryReplacesInPlace(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, logs := testutil.NewContext(t)
	opener := fakeOpener{
		"/a/first.so":  libraryOf("/a/first.so", testutil.EchoModule("first", "test.First")),
		"/a/second.so": libraryOf("/a/second.so", testutil.EchoModule("second", "test.Second")),
		"/b/first.so":  libraryOf("/b/first.so", testutil.EchoModule("first", "test.FirstV2")),
	}
	l := New(WithOpener(opener))
	t.Cleanup(func() { _ = l.Close(ctx) })

	// --- Act ---
	n, err := l.AddModules(ctx, "/a/first.so", "/a/second.so", "/b/first.so")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"first", "second"}, l.LibraryNames())
	assert.False(t, l.ContainsQualifiedName("test.First"))
	assert.True(t, l.ContainsQualifiedName("test.FirstV2"))
	assert.True(t, opener["/a/first.so"].closed.Load(), "the replaced module is closed")
	testutil.AssertLogged(t, logs, "Replaced module.", "library=first")
}

func TestLoader_AddModulesKeepsGoing(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	opener := fakeOpener{"/ok.so": libraryOf("/ok.so", testutil.EchoModule("ok", "test.Ok"))}
	l := New(WithOpener(opener))
	t.Cleanup(func() { _ = l.Close(ctx) })

	n, err := l.AddModules(ctx, "/missing.so", "/ok.so")
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"ok"}, l.LibraryNames())
}

func TestLoader_CreateFirstFactoryWins(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	opener := fakeOpener{
		"/one.so": libraryOf("/one.so", testutil.EchoModule("one", "test.Shared", "test.One")),
		"/two.so": libraryOf("/two.so", testutil.EchoModule("two", "test.Shared", "test.Two")),
	}
	l := New(WithOpener(opener))
	t.Cleanup(func() { _ = l.Close(ctx) })
	_, err := l.AddModules(ctx, "/one.so", "/two.so")
	require.NoError(t, err)

	// --- Act ---
	byName, err := l.CreateByName("test.Two")
	require.NoError(t, err)
	defer byName.Release()
	byID, err := l.CreateByInterfaceID(testutil.IEchoInfo.ID)
	require.NoError(t, err)
	defer byID.Release()

	// --- Assert ---
	got, err := testutil.CallEcho(byName.Get(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "test.Two: hi", got)

	got, err = testutil.CallEcho(byID.Get(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "test.Shared: hi", got)

	_, err = l.CreateByName("test.Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_MissingEntryPoint(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	exports := testutil.EchoModule("half", "test.Half")
	lib := &fakeLibrary{path: "/half.so", symbols: map[string]any{
		factory.SymbolCreateFactory: exports.Symbols()[factory.SymbolCreateFactory],
	}}
	l := New(WithOpener(fakeOpener{"/half.so": lib}))

	err := l.AddModule(ctx, "/half.so")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), factory.SymbolCanUnloadNow)
	assert.Empty(t, l.LibraryNames())
}

func TestLoader_EntryPointAsVariable(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	exports := testutil.EchoModule("vars", "test.Vars")
	create := factory.CreateFactoryFunc(exports.DllCreateFactory)
	canUnload := factory.CanUnloadNowFunc(exports.DllCanUnloadNow)
	lib := &fakeLibrary{path: "/vars.so", symbols: map[string]any{
		factory.SymbolCreateFactory: &create,
		factory.SymbolCanUnloadNow:  &canUnload,
	}}
	l := New(WithOpener(fakeOpener{"/vars.so": lib}))
	t.Cleanup(func() { _ = l.Close(ctx) })

	require.NoError(t, l.AddModule(ctx, "/vars.so"))
	assert.Equal(t, []string{"vars"}, l.LibraryNames())
}

func TestLoader_AddModuleByName(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	dir := testutil.WriteFiles(t, map[string]string{"libdisk.so": "", "plain.so": ""})
	opener := fakeOpener{
		filepath.Join(dir, "libdisk.so"): libraryOf("disk", testutil.EchoModule("disk", "test.Disk")),
		filepath.Join(dir, "plain.so"):   libraryOf("plain", testutil.EchoModule("plain", "test.Plain")),
	}
	l := New(
		WithOpener(opener),
		WithSearchPaths(dir),
		WithBuiltins(NewBuiltinOpener(testutil.EchoModule("disk", "test.BuiltinDisk"))),
	)
	t.Cleanup(func() { _ = l.Close(ctx) })

	// --- Act ---
	n, err := l.AddModulesByName(ctx, "disk", "plain")
	require.NoError(t, err)
	missingErr := l.AddModuleByName(ctx, "absent")

	// --- Assert ---
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"disk", "plain"}, l.LibraryNames())
	assert.True(t, l.ContainsQualifiedName("test.BuiltinDisk"), "builtins are preferred over search paths")
	assert.True(t, l.ContainsQualifiedName("test.Plain"))
	assert.ErrorIs(t, missingErr, ErrNotFound)
}

func TestLoader_AddModulesInDirectory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"b.so":        "",
		"a.so":        "",
		"broken.so":   "",
		"readme.txt":  "",
		"nested/c.so": "",
	})
	opener := fakeOpener{
		filepath.Join(dir, "a.so"):        libraryOf("a", testutil.EchoModule("a", "test.A")),
		filepath.Join(dir, "b.so"):        libraryOf("b", testutil.EchoModule("b", "test.B")),
		filepath.Join(dir, "nested/c.so"): libraryOf("c", testutil.EchoModule("c", "test.C")),
	}

	testCases := []struct {
		name       string
		recursive  bool
		openLimit  int
		want       []string
	}{
		{"flat", false, 2, []string{"a", "b"}},
		{"recursive", true, 2, []string{"a", "b", "c"}},
		{"unbounded opening", true, 0, []string{"a", "b", "c"}},
		{"negative limit is unbounded", false, -1, []string{"a", "b"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l := New(WithOpener(opener), WithOpenLimit(tc.openLimit))
			t.Cleanup(func() { _ = l.Close(ctx) })

			// --- Act ---
			n, err := l.AddModulesInDirectory(ctx, dir, tc.recursive)

			// --- Assert ---
			assert.ErrorIs(t, err, ErrNotFound, "broken.so is reported")
			assert.Equal(t, len(tc.want), n)
			assert.Equal(t, tc.want, l.LibraryNames(), "registration follows path order")
		})
	}
}

func TestLoader_AddModulesInMissingDirectory(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	l := New()

	_, err := l.AddModulesInDirectory(ctx, filepath.Join(t.TempDir(), "absent"), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_Unload(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	exports := testutil.EchoModule("busy", "test.Busy")
	var idle atomic.Bool
	lib := &fakeLibrary{path: "/busy.so", symbols: map[string]any{
		factory.SymbolCreateFactory: exports.Symbols()[factory.SymbolCreateFactory],
		factory.SymbolCanUnloadNow:  factory.CanUnloadNowFunc(idle.Load),
	}}
	l := New(WithOpener(fakeOpener{"/busy.so": lib}))
	require.NoError(t, l.AddModule(ctx, "/busy.so"))

	// --- Act / Assert ---
	err := l.Unload(ctx, "busy", false)
	require.ErrorIs(t, err, abi.ErrInvalidOperation)
	assert.Equal(t, []string{"busy"}, l.LibraryNames())

	idle.Store(true)
	require.NoError(t, l.Unload(ctx, "busy", false))
	assert.Empty(t, l.LibraryNames())
	assert.True(t, lib.closed.Load())

	assert.ErrorIs(t, l.Unload(ctx, "busy", true), ErrNotFound)
}

func TestLoader_UnloadForced(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	exports := testutil.EchoModule("stuck", "test.Stuck")
	lib := &fakeLibrary{path: "/stuck.so", symbols: map[string]any{
		factory.SymbolCreateFactory: exports.Symbols()[factory.SymbolCreateFactory],
		factory.SymbolCanUnloadNow:  factory.CanUnloadNowFunc(func() bool { return false }),
	}}
	l := New(WithOpener(fakeOpener{"/stuck.so": lib}))
	require.NoError(t, l.AddModule(ctx, "/stuck.so"))

	require.NoError(t, l.Unload(ctx, "stuck", true))
	assert.Empty(t, l.LibraryNames())
}

func TestLoader_FactoriesAndLookup(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	l := New(WithBuiltins(NewBuiltinOpener(
		testutil.EchoModule("x", "test.X"),
		testutil.EchoModule("y", "test.Y"),
	)))
	t.Cleanup(func() { _ = l.Close(ctx) })
	_, err := l.AddModulesByName(ctx, "y", "x")
	require.NoError(t, err)

	factories := l.Factories()
	defer releaseAll(factories)
	require.Len(t, factories, 2)
	names, err := factories["x"].QualifiedNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"test.X"}, names)

	f, ok := l.LookupFactory("y")
	require.True(t, ok)
	defer f.Release()
	lib, err := f.LibraryName()
	require.NoError(t, err)
	assert.Equal(t, "y", lib)

	_, ok = l.LookupFactory("z")
	assert.False(t, ok)
}

func TestLoader_EndToEndIdentity(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := testutil.NewContext(t)
	l := New(WithBuiltins(NewBuiltinOpener(testutil.EchoModule("module_a", "test.A"))))
	t.Cleanup(func() { _ = l.Close(ctx) })
	require.NoError(t, l.AddModuleByName(ctx, "module_a"))

	// --- Act ---
	obj, err := l.CreateByInterfaceID(testutil.IEchoInfo.ID)
	require.NoError(t, err)
	defer obj.Release()

	base, err := abi.QueryID[abi.Unknown](obj.Get(), abi.UnknownID)
	require.NoError(t, err)
	defer base.Release()
	back, err := abi.Query[testutil.IEcho](base.Get())
	require.NoError(t, err)
	defer back.Release()
	again, err := abi.QueryID[abi.Unknown](back.Get(), abi.UnknownID)
	require.NoError(t, err)
	defer again.Release()

	// --- Assert ---
	assert.Same(t, base.Get(), again.Get(), "round-tripping through the base interface recovers the same identity")
	assert.True(t, abi.SameObject(obj.Get(), back.Get()))
}

func TestMake(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	l := New(WithBuiltins(NewBuiltinOpener(testutil.EchoModule("made", "test.Made"))))
	t.Cleanup(func() { _ = l.Close(ctx) })

	_, err := Make[testutil.IEcho](l)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, l.AddModuleByName(ctx, "made"))
	e, err := Make[testutil.IEcho](l)
	require.NoError(t, err)
	defer e.Release()

	var out abi.String
	require.NoError(t, abi.Check(e.Get().Echo(abi.NewString("x"), &out)))
	defer out.Release()
	assert.Equal(t, "test.Made: x", out.String())
}

func TestPluginOpener_Errors(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)
	dir := t.TempDir()

	_, err := PluginOpener{}.Open(ctx, filepath.Join(dir, "absent.so"))
	assert.ErrorIs(t, err, ErrNotFound)

	bogus := filepath.Join(dir, "bogus.so")
	require.NoError(t, os.WriteFile(bogus, []byte("not a plugin"), 0o644))
	_, err = PluginOpener{}.Open(ctx, bogus)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuiltinOpener_DuplicatePanics(t *testing.T) {
	t.Parallel()
	b := NewBuiltinOpener(testutil.EchoModule("dup", "test.Dup"))
	assert.Panics(t, func() { b.Register(testutil.EchoModule("dup", "test.Dup2")) })
	assert.Equal(t, []string{"dup"}, b.Names())
	assert.True(t, b.Has(BuiltinScheme+"dup"))
}

func TestLoader_BareContextFallsBackToDefaultLogger(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx := context.Background()
	l := New()

	// --- Act ---
	addErr := l.AddModule(ctx, filepath.Join(t.TempDir(), "absent.so"))
	_, dirErr := l.AddModulesInDirectory(ctx, t.TempDir(), true)
	unloadErr := l.Unload(ctx, "absent", false)

	// --- Assert ---
	assert.ErrorIs(t, addErr, ErrNotFound)
	assert.NoError(t, dirErr)
	assert.ErrorIs(t, unloadErr, ErrNotFound)
	assert.NoError(t, l.Close(ctx))
}
