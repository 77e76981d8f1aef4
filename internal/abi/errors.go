package abi

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strconv"
	"strings"
)

// Error is a failed Result together with the message the failing side
// attached, if any.
type Error struct {
	Code    Result
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Message
}

// Is matches another *Error with the same code. A target carrying a message
// must match it too, so the sentinels below match any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is.
var (
	ErrFailure          = &Error{Code: Failure}
	ErrNotImplemented   = &Error{Code: NotImplemented}
	ErrNullPointer      = &Error{Code: NullPointer}
	ErrInvalidArgument  = &Error{Code: InvalidArgument}
	ErrOutOfBounds      = &Error{Code: OutOfBounds}
	ErrNoInterface      = &Error{Code: NoInterface}
	ErrInvalidOperation = &Error{Code: InvalidOperation}
	ErrKeyNotFound      = &Error{Code: KeyNotFound}
	ErrBadAlloc         = &Error{Code: BadAlloc}
	ErrNotInitialized   = &Error{Code: NotInitialized}
)

// Errorf builds an *Error with a formatted message. A success code is
// recorded as Failure.
func Errorf(code Result, format string, args ...any) error {
	if code.OK() {
		code = Failure
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Translate maps err to the closest result code and the message to carry
// with it. Errors with no better match become Failure.
func Translate(err error) (Result, string) {
	var abiErr *Error
	if errors.As(err, &abiErr) {
		code := abiErr.Code
		if !code.Known() || code.OK() {
			code = Failure
		}
		if abiErr.Message == "" && err != error(abiErr) {
			return code, err.Error()
		}
		return code, abiErr.Message
	}

	msg := err.Error()
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		return NotImplemented, msg
	case errors.Is(err, fs.ErrNotExist):
		return KeyNotFound, msg
	case errors.Is(err, fs.ErrInvalid), errors.Is(err, strconv.ErrSyntax), errors.Is(err, strconv.ErrRange):
		return InvalidArgument, msg
	}

	var rtErr runtime.Error
	if errors.As(err, &rtErr) {
		switch {
		case strings.Contains(msg, "out of range"):
			return OutOfBounds, msg
		case strings.Contains(msg, "nil pointer"), strings.Contains(msg, "nil map"):
			return NullPointer, msg
		}
	}
	return Failure, msg
}
