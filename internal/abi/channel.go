package abi

import (
	"sync"

	"github.com/petermattis/goid"
)

// parked is a failure message waiting for the caller's Check, tagged with
// the code it explains.
type parked struct {
	code Result
	msg  String
}

// messages holds at most one parked message per goroutine, keyed by
// goroutine id. The strings are resident and never count as live objects,
// so a message abandoned by an exiting goroutine cannot block unloading.
var messages sync.Map

// SetMessage parks msg as the explanation of the failure code about to be
// returned by the current goroutine, replacing any pending message. An empty
// msg clears the slot.
func SetMessage(code Result, msg string) {
	if msg == "" {
		ClearMessage()
		return
	}
	s := String{buf: newResidentStringBuffer([]byte(msg))}
	if prev, loaded := messages.Swap(goid.Get(), parked{code: code, msg: s}); loaded {
		p := prev.(parked)
		p.msg.Release()
	}
}

// TakeMessage clears the current goroutine's slot and returns the message
// if it was parked for code.
func TakeMessage(code Result) string {
	v, ok := messages.LoadAndDelete(goid.Get())
	if !ok {
		return ""
	}
	p := v.(parked)
	defer p.msg.Release()
	if p.code != code {
		return ""
	}
	return p.msg.String()
}

// ClearMessage drops the current goroutine's pending message, if any.
func ClearMessage() {
	if v, ok := messages.LoadAndDelete(goid.Get()); ok {
		p := v.(parked)
		p.msg.Release()
	}
}
