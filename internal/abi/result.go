package abi

import "fmt"

// Result is the status every boundary method returns. Zero and positive
// values are success; negative values name a failure.
type Result int32

const (
	Success          Result = 0
	SuccessFalse     Result = 1
	Failure          Result = -1
	NotImplemented   Result = -2
	NullPointer      Result = -3
	InvalidArgument  Result = -4
	OutOfBounds      Result = -5
	NoInterface      Result = -6
	InvalidOperation Result = -7
	KeyNotFound      Result = -8
	BadAlloc         Result = -9
	NotInitialized   Result = -10
)

var resultNames = map[Result]string{
	Success:          "success",
	SuccessFalse:     "success (false)",
	Failure:          "failure",
	NotImplemented:   "not implemented",
	NullPointer:      "null pointer",
	InvalidArgument:  "invalid argument",
	OutOfBounds:      "out of bounds",
	NoInterface:      "no such interface",
	InvalidOperation: "invalid operation",
	KeyNotFound:      "key not found",
	BadAlloc:         "allocation failure",
	NotInitialized:   "not initialized",
}

// OK reports whether r is a success code.
func (r Result) OK() bool { return r >= 0 }

// Known reports whether r belongs to the closed code taxonomy.
func (r Result) Known() bool {
	_, ok := resultNames[r]
	return ok
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", int32(r))
}
