package factory

import (
	"errors"
	"testing"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/typeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iGreeter interface {
	abi.Unknown
	Greet(out *abi.String) abi.Result
}

type iCounter interface {
	abi.Unknown
	Count(out *int32) abi.Result
}

var (
	greeterInfo = typeid.RegisterInterface[iGreeter]("test.greeter", guid.MustParse("A1B2C3D4-E5F6-4A7B-8C9D-0E1F2A3B4C5D"))
	counterInfo = typeid.RegisterInterface[iCounter]("test.counter", guid.MustParse("0F1E2D3C-4B5A-4697-8877-665544332211"))
)

type greeter struct {
	abi.Impl
	text string
}

func newGreeter(text string) func() (iGreeter, error) {
	return func() (iGreeter, error) {
		g := &greeter{text: text}
		g.Init(nil, abi.Entry{ID: greeterInfo.ID, Facet: g})
		return g, nil
	}
}

func (g *greeter) Greet(out *abi.String) abi.Result {
	return abi.SafeCall(func() error {
		*out = abi.NewString(g.text)
		return nil
	})
}

func greeting(t *testing.T, obj abi.Object) string {
	t.Helper()
	g, err := abi.Query[iGreeter](obj.Get())
	require.NoError(t, err)
	defer g.Release()

	var s abi.String
	require.NoError(t, abi.Check(g.Get().Greet(&s)))
	defer s.Release()
	return s.String()
}

func testExports() *Exports {
	return Export("greetings",
		Define("test.Hello", newGreeter("hello")),
		Define("test.Hi", newGreeter("hi")),
		Define("test.Broken", func() (iCounter, error) { return nil, errors.New("no counter today") }),
	)
}

func TestExport_DuplicateNamePanics(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t,
		"component with name 'test.Hello' already exported by library 'dup'",
		func() {
			Export("dup", Define("test.Hello", newGreeter("a")), Define("test.Hello", newGreeter("b")))
		})
}

func TestClassFactory_Create(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f, err := testExports().Factory()
	require.NoError(t, err)
	defer f.Release()

	// --- Act ---
	byName, err := f.CreateByName("test.Hi")
	require.NoError(t, err)
	defer byName.Release()
	byID, err := f.CreateByInterfaceID(greeterInfo.ID)
	require.NoError(t, err)
	defer byID.Release()

	// --- Assert ---
	assert.Equal(t, "hi", greeting(t, byName))
	assert.Equal(t, "hello", greeting(t, byID), "first declared component wins the interface")
}

func TestClassFactory_Missing(t *testing.T) {
	t.Parallel()
	f, err := testExports().Factory()
	require.NoError(t, err)
	defer f.Release()

	obj, err := f.CreateByName("test.Nope")
	require.NoError(t, err)
	assert.True(t, obj.IsNil())

	obj, err = f.CreateByInterfaceID(guid.MustParse("FFFFFFFF-0000-4000-8000-000000000000"))
	require.NoError(t, err)
	assert.True(t, obj.IsNil())
}

func TestClassFactory_ConstructorError(t *testing.T) {
	t.Parallel()
	f, err := testExports().Factory()
	require.NoError(t, err)
	defer f.Release()

	_, err = f.CreateByName("test.Broken")
	require.ErrorIs(t, err, abi.ErrFailure)
	assert.Contains(t, err.Error(), "no counter today")
}

func TestClassFactory_Listing(t *testing.T) {
	t.Parallel()
	f, err := testExports().Factory()
	require.NoError(t, err)
	defer f.Release()

	names, err := f.QualifiedNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"test.Hello", "test.Hi", "test.Broken"}, names)

	ids, err := f.InterfaceIDs()
	require.NoError(t, err)
	assert.Equal(t, []guid.GUID{greeterInfo.ID, counterInfo.ID}, ids)

	lib, err := f.LibraryName()
	require.NoError(t, err)
	assert.Equal(t, "greetings", lib)

	ok, err := f.ContainsQualifiedName("test.Hi")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.ContainsInterfaceID(abi.UnknownID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntryPoints(t *testing.T) {
	t.Parallel()
	e := testExports()
	syms := e.Symbols()

	create, ok := syms[SymbolCreateFactory].(CreateFactoryFunc)
	require.True(t, ok)
	_, ok = syms[SymbolCanUnloadNow].(CanUnloadNowFunc)
	require.True(t, ok)

	assert.Equal(t, abi.NullPointer, create(nil))

	var u abi.Unknown
	require.Equal(t, abi.Success, create(&u))
	f, err := AsClassFactory(abi.Attach(u))
	require.NoError(t, err)
	f.Release()
}

func TestAsClassFactory_RejectsOtherObjects(t *testing.T) {
	t.Parallel()
	g, err := newGreeter("x")()
	require.NoError(t, err)

	_, err = AsClassFactory(abi.Attach[abi.Unknown](g))
	assert.ErrorIs(t, err, abi.ErrNoInterface)

	_, err = AsClassFactory(abi.Object{})
	assert.ErrorIs(t, err, abi.ErrNullPointer)
}
