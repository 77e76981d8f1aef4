package abi

import (
	"bytes"
	"sync/atomic"

	"github.com/specialistvlad/exposing/internal/typeid"
)

// StringABI is the method table of a boundary string buffer. The bytes are
// immutable for the lifetime of the buffer; Data returns a view that the
// caller must not modify.
// Concat and Compare borrow other; a nil other reads as empty.
type StringABI interface {
	AddRef() uint32
	Release() uint32
	Data() []byte
	Size() uint64
	Concat(other StringABI, out *StringABI) Result
	Compare(other StringABI, out *int32) Result
}

type stringBuffer struct {
	refs     RefCount
	done     atomic.Bool
	resident bool
	data     []byte
}

func newStringBuffer(data []byte) *stringBuffer {
	b := &stringBuffer{data: data}
	b.refs.Init()
	live.Add(1)
	return b
}

// newResidentStringBuffer is newStringBuffer without the live count.
func newResidentStringBuffer(data []byte) *stringBuffer {
	b := &stringBuffer{data: data, resident: true}
	b.refs.Init()
	return b
}

func (b *stringBuffer) AddRef() uint32 { return b.refs.Inc() }

func (b *stringBuffer) Release() uint32 {
	n := b.refs.Dec()
	if n == 0 && b.done.CompareAndSwap(false, true) {
		b.data = nil
		if !b.resident {
			live.Add(-1)
		}
	}
	return n
}

func (b *stringBuffer) Data() []byte { return b.data }
func (b *stringBuffer) Size() uint64 { return uint64(len(b.data)) }

func (b *stringBuffer) Concat(other StringABI, out *StringABI) Result {
	return SafeCall(func() error {
		if err := CheckOut(out); err != nil {
			return err
		}
		tail := dataOf(other)
		joined := make([]byte, 0, len(b.data)+len(tail))
		joined = append(joined, b.data...)
		joined = append(joined, tail...)
		*out = newStringBuffer(joined)
		return nil
	})
}

func (b *stringBuffer) Compare(other StringABI, out *int32) Result {
	return SafeCall(func() error {
		if out == nil {
			return Errorf(NullPointer, "out parameter is nil")
		}
		*out = int32(bytes.Compare(b.data, dataOf(other)))
		return nil
	})
}

func dataOf(buf StringABI) []byte {
	if buf == nil {
		return nil
	}
	return buf.Data()
}

// String is an owning handle to a boundary string. The zero value is the
// null string, which reads as empty. Like Ref, copying the handle does not
// add a reference.
type String struct {
	buf StringABI
}

// NewString copies s into a new boundary string.
func NewString(s string) String {
	return String{buf: newStringBuffer([]byte(s))}
}

// NewStringBytes copies b into a new boundary string.
func NewStringBytes(b []byte) String {
	return String{buf: newStringBuffer(bytes.Clone(b))}
}

// AttachString takes over one reference to a buffer the caller owns.
func AttachString(buf StringABI) String { return String{buf: buf} }

// ABI returns the buffer without transferring ownership.
func (s String) ABI() StringABI { return s.buf }

// IsNull reports whether the handle is empty.
func (s String) IsNull() bool { return s.buf == nil }

// Len returns the size in bytes.
func (s String) Len() int {
	if s.buf == nil {
		return 0
	}
	return int(s.buf.Size())
}

// Bytes returns a copy of the content.
func (s String) Bytes() []byte {
	if s.buf == nil {
		return nil
	}
	return bytes.Clone(s.buf.Data())
}

func (s String) String() string {
	if s.buf == nil {
		return ""
	}
	return string(s.buf.Data())
}

func (s String) view() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf.Data()
}

// Concat returns a new string holding s followed by other. Neither operand
// changes.
func (s String) Concat(other String) String {
	if s.buf == nil {
		return String{buf: newStringBuffer(bytes.Clone(other.view()))}
	}
	var out StringABI
	if res := s.buf.Concat(other.buf, &out); !res.OK() {
		Fatal("string concat failed", "error", Check(res))
	}
	return String{buf: out}
}

// Equal compares content byte by byte. The null string equals the empty
// string.
func (s String) Equal(other String) bool {
	return bytes.Equal(s.view(), other.view())
}

// Compare orders strings by content.
func (s String) Compare(other String) int {
	if s.buf == nil {
		return bytes.Compare(nil, other.view())
	}
	var n int32
	if res := s.buf.Compare(other.buf, &n); !res.OK() {
		Fatal("string compare failed", "error", Check(res))
	}
	return int(n)
}

// Clone returns a second owning handle to the same buffer.
func (s String) Clone() String {
	if s.buf != nil {
		s.buf.AddRef()
	}
	return s
}

// Release drops the owned reference and empties the handle.
func (s *String) Release() {
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
}

// TypeInfo reports the boundary string identity.
func (String) TypeInfo() typeid.Info { return typeid.String }

func (s String) retain() {
	if s.buf != nil {
		s.buf.AddRef()
	}
}

func (s String) drop() {
	if s.buf != nil {
		s.buf.Release()
	}
}
