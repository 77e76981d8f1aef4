package abi

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// exit terminates the process after an invariant violation. Tests replace
// it to observe the violation.
var exit = func(code int) { os.Exit(code) }

// Fatal reports a broken object-model invariant and terminates the process.
// Such violations mean memory is no longer trustworthy, so they are never
// returned as errors.
func Fatal(msg string, args ...any) {
	slog.Default().Error("abi: fatal invariant violation: "+msg, args...)
	exit(70)
}

// RefCount is an atomic reference counter that treats underflow as fatal.
// The zero value holds a count of zero; call Init before handing out the
// first reference.
type RefCount struct {
	n atomic.Uint32
}

// Init sets the count to one.
func (c *RefCount) Init() { c.n.Store(1) }

// Load returns the current count.
func (c *RefCount) Load() uint32 { return c.n.Load() }

// Inc increments the count and returns the new value.
func (c *RefCount) Inc() uint32 { return c.n.Add(1) }

// Dec decrements the count and returns the new value. It never wraps: a
// decrement of zero calls Fatal and returns zero.
//
// Go's atomics are sequentially consistent, so the goroutine that observes
// zero sees every write made while the other references were alive.
func (c *RefCount) Dec() uint32 {
	for {
		old := c.n.Load()
		if old == 0 {
			Fatal("reference count underflow")
			return 0
		}
		if c.n.CompareAndSwap(old, old-1) {
			return old - 1
		}
	}
}
