package abi

import (
	"fmt"
	"reflect"
)

// SafeCall runs the body of a boundary method. A returned error or a panic
// is converted to a Result and its message parked for the caller; nothing
// unwinds past the method.
func SafeCall(fn func() error) Result {
	return SafeResult(func() (Result, error) {
		return Success, fn()
	})
}

// SafeResult is SafeCall for bodies that choose their own success code,
// such as SuccessFalse.
func SafeResult(fn func() (Result, error)) (res Result) {
	ClearMessage()
	defer func() {
		if r := recover(); r != nil {
			res = fail(panicError(r))
		}
	}()

	res, err := fn()
	if err != nil {
		return fail(err)
	}
	if !res.OK() {
		return fail(&Error{Code: res})
	}
	return res
}

func fail(err error) Result {
	code, msg := Translate(err)
	SetMessage(code, msg)
	return code
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

// Check converts a Result returned across the boundary into an error,
// reattaching the pending message when it was parked for res. Codes outside
// the taxonomy become Failure.
func Check(res Result) error {
	if res.OK() {
		return nil
	}
	msg := TakeMessage(res)
	if !res.Known() {
		return &Error{Code: Failure, Message: fmt.Sprintf("unrecognized result %d: %s", int32(res), msg)}
	}
	return &Error{Code: res, Message: msg}
}

// CheckOut enforces the out parameter precondition: non-nil and zeroed.
func CheckOut[T any](out *T) error {
	if out == nil {
		return Errorf(NullPointer, "out parameter is nil")
	}
	if !reflect.ValueOf(out).Elem().IsZero() {
		return Errorf(InvalidArgument, "out parameter must be zero on entry")
	}
	return nil
}
