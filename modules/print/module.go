package print

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/specialistvlad/exposing/internal/abi"
	"github.com/specialistvlad/exposing/internal/factory"
	"github.com/specialistvlad/exposing/internal/guid"
	"github.com/specialistvlad/exposing/internal/param"
	"github.com/specialistvlad/exposing/internal/typeid"
)

const (
	// Library is the library name of this module.
	Library = "print"
	// QualifiedName names the printer component.
	QualifiedName = "exposing.print.Printer"
)

// IPrinter writes lines of text.
type IPrinter interface {
	abi.Unknown
	Print(line abi.String) abi.Result
	Lines(out *param.Vector[abi.String]) abi.Result
}

// IPrinterInfo is the identity of IPrinter.
var IPrinterInfo = typeid.RegisterInterface[IPrinter]("exposing.print.printer", guid.MustParse("0C8E2D57-93A1-4F6B-A2D4-5B7E9C1F3A60"))

// Exports holds the entry points of the library.
var Exports = factory.Export(Library,
	factory.Define(QualifiedName, func() (IPrinter, error) { return NewPrinter(os.Stdout) }),
)

type printer struct {
	abi.Impl
	mu    sync.Mutex
	w     io.Writer
	lines []string
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) (IPrinter, error) {
	if w == nil {
		return nil, abi.Errorf(abi.InvalidArgument, "printer needs a writer")
	}
	p := &printer{w: w}
	p.Init(nil, abi.Entry{ID: IPrinterInfo.ID, Facet: p})
	return p, nil
}

func (p *printer) Print(line abi.String) abi.Result {
	return abi.SafeCall(func() error {
		defer line.Release()
		if line.IsNull() {
			return abi.Errorf(abi.NullPointer, "line is null")
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, err := fmt.Fprintln(p.w, line.String()); err != nil {
			return err
		}
		p.lines = append(p.lines, line.String())
		return nil
	})
}

func (p *printer) Lines(out *param.Vector[abi.String]) abi.Result {
	return abi.SafeCall(func() error {
		if err := abi.CheckOut(out); err != nil {
			return err
		}
		p.mu.Lock()
		items := make([]abi.String, len(p.lines))
		for i, l := range p.lines {
			items[i] = abi.NewString(l)
		}
		p.mu.Unlock()

		*out = param.NewVector(items...)
		for i := range items {
			items[i].Release()
		}
		return nil
	})
}

// Printer is an owning handle to an IPrinter.
type Printer struct {
	abi.Ref[IPrinter]
}

// AsPrinter queries obj for IPrinter.
func AsPrinter(obj abi.Unknown) (Printer, error) {
	r, err := abi.Query[IPrinter](obj)
	return Printer{r}, err
}

// Print writes line.
func (p Printer) Print(line string) error {
	if p.IsNil() {
		return abi.ErrNullPointer
	}
	return abi.Check(p.Get().Print(abi.NewString(line)))
}

// Lines returns every line printed so far.
func (p Printer) Lines() ([]string, error) {
	if p.IsNil() {
		return nil, abi.ErrNullPointer
	}
	var v param.Vector[abi.String]
	if err := abi.Check(p.Get().Lines(&v)); err != nil {
		return nil, err
	}
	defer v.Release()

	var lines []string
	for s := range v.All() {
		lines = append(lines, s.String())
	}
	return lines, nil
}
