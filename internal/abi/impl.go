package abi

import (
	"sync/atomic"

	"github.com/specialistvlad/exposing/internal/guid"
)

// live counts every boundary object and string buffer not yet destroyed,
// across all modules in the process.
var live atomic.Int64

// LiveObjects returns the number of boundary objects alive in the process.
func LiveObjects() int64 { return live.Load() }

// CanUnloadNow reports whether no boundary object is alive.
func CanUnloadNow() bool { return live.Load() == 0 }

// Entry binds one interface identifier to the facet that implements it.
type Entry struct {
	ID    guid.GUID
	Facet Unknown
}

// Impl is embedded by every boundary object. The embedding type calls Init
// once with its interface table; the first entry is the object's primary
// interface and the answer to UnknownID queries.
type Impl struct {
	refs     RefCount
	entries  []Entry
	finalize func()
	resident bool
	done     atomic.Bool
}

// Init sets the count to one, records the interface table and registers the
// object with the live counter. finalize may be nil.
func (o *Impl) Init(finalize func(), entries ...Entry) {
	if len(entries) == 0 {
		Fatal("object declares no interfaces")
		return
	}
	o.entries = entries
	o.finalize = finalize
	o.refs.Init()
	live.Add(1)
}

// InitResident is Init for infrastructure objects such as class factories
// and the component loader. They are not counted as live, so holding one
// does not keep a module from unloading.
func (o *Impl) InitResident(finalize func(), entries ...Entry) {
	o.Init(finalize, entries...)
	o.resident = true
	live.Add(-1)
}

// QueryInterface scans the interface table in declaration order.
func (o *Impl) QueryInterface(id guid.GUID, out *Unknown) Result {
	if o == nil {
		Fatal("QueryInterface on nil object")
		return NullPointer
	}
	if out == nil {
		return NullPointer
	}
	if id == UnknownID {
		o.refs.Inc()
		*out = o.entries[0].Facet
		return Success
	}
	for _, e := range o.entries {
		if e.ID == id {
			o.refs.Inc()
			*out = e.Facet
			return Success
		}
	}
	ClearMessage()
	return NoInterface
}

// AddRef increments the count.
func (o *Impl) AddRef() uint32 {
	if o == nil {
		Fatal("AddRef on nil object")
		return 0
	}
	return o.refs.Inc()
}

// Release decrements the count and destroys the object on zero.
func (o *Impl) Release() uint32 {
	if o == nil {
		Fatal("Release on nil object")
		return 0
	}
	n := o.refs.Dec()
	if n == 0 && o.done.CompareAndSwap(false, true) {
		if o.finalize != nil {
			o.finalize()
		}
		o.entries = nil
		if !o.resident {
			live.Add(-1)
		}
	}
	return n
}

// RefCount returns the current count. It is meant for diagnostics and
// tests; the value may change as soon as it is read.
func (o *Impl) RefCount() uint32 { return o.refs.Load() }

// Interfaces lists the identifiers in the table in declaration order.
func (o *Impl) Interfaces() []guid.GUID {
	ids := make([]guid.GUID, len(o.entries))
	for i, e := range o.entries {
		ids[i] = e.ID
	}
	return ids
}

func (o *Impl) object() *Impl { return o }

// RefCountOf returns the count of an object built on Impl. It reports false
// for foreign implementations of Unknown.
func RefCountOf(u Unknown) (uint32, bool) {
	o, ok := u.(interface{ object() *Impl })
	if !ok {
		return 0, false
	}
	return o.object().RefCount(), true
}
