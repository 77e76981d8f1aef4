package param

import (
	"fmt"

	"github.com/specialistvlad/exposing/internal/abi"
)

// keyOf normalizes a value for equality: strings compare by content and
// object handles by identity. Other values compare with ==.
func keyOf[T any](v T) any {
	switch x := any(v).(type) {
	case abi.String:
		return x.String()
	case interface{ Unknown() abi.Unknown }:
		if u := x.Unknown(); u != nil {
			return abi.Identity(u)
		}
		return nil
	}
	return any(v)
}

// facet returns the method table behind an owning handle.
func facet[I abi.Unknown](r abi.Ref[I]) (I, error) {
	if r.IsNil() {
		var zero I
		return zero, fmt.Errorf("param: %w", abi.ErrNullPointer)
	}
	return r.Get(), nil
}

// get runs an ABI call that produces one out value.
func get[T any](fn func(out *T) abi.Result) (T, error) {
	var out T
	if err := abi.Check(fn(&out)); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func outOfBounds(index, size uint64) error {
	return abi.Errorf(abi.OutOfBounds, "index %d, size %d", index, size)
}
