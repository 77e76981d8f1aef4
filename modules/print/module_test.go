package print

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_PrintAndLines(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var out bytes.Buffer
	p, err := NewPrinter(&out)
	require.NoError(t, err)
	printer := Printer{abi.Attach(p)}
	defer printer.Release()

	// --- Act ---
	require.NoError(t, printer.Print("hello"))
	require.NoError(t, printer.Print("world"))
	lines, err := printer.Lines()

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, lines)
	assert.Equal(t, "hello\nworld\n", out.String())
}

func TestPrinter_ABIContract(t *testing.T) {
	t.Parallel()

	p, err := NewPrinter(&bytes.Buffer{})
	require.NoError(t, err)
	defer p.Release()

	t.Run("null line", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, abi.NullPointer, p.Print(abi.String{}))
	})
	t.Run("nil out", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, abi.NullPointer, p.Lines(nil))
	})
	t.Run("non-empty out", func(t *testing.T) {
		t.Parallel()
		v := param.NewVector[abi.String]()
		defer v.Release()
		held := v
		assert.Equal(t, abi.InvalidArgument, p.Lines(&held))
	})
}

func TestNewPrinter_NilWriter(t *testing.T) {
	t.Parallel()

	_, err := NewPrinter(nil)

	require.ErrorIs(t, err, abi.ErrInvalidArgument)
}

func TestExports(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f, err := Exports.Factory()
	require.NoError(t, err)
	defer f.Release()

	// --- Act ---
	obj, err := f.CreateByInterfaceID(IPrinterInfo.ID)
	require.NoError(t, err)
	defer obj.Release()
	printer, err := AsPrinter(obj.Get())

	// --- Assert ---
	require.NoError(t, err)
	defer printer.Release()
	name, err := f.LibraryName()
	require.NoError(t, err)
	assert.Equal(t, Library, name)
	names, err := f.QualifiedNames()
	require.NoError(t, err)
	assert.Equal(t, []string{QualifiedName}, names)
}
