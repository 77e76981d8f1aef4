package typeid

import (
	"strings"
	"sync"

	"github.com/specialistvlad/exposing/internal/guid"
)

// derived caches generic identifiers keyed by their hash input. Names are
// not cached: distinct arguments may share a signature.
var derived sync.Map

// Generic derives the identity of base instantiated with args. The result
// depends only on the base identifier and the argument signatures, never on
// names.
func Generic(base Info, args ...Info) Info {
	key := make([]byte, 0, guid.Size+len(args)*SignatureSize)
	key = base.ID.AppendBytes(key)
	for _, a := range args {
		key = append(key, a.Signature()...)
	}

	var id guid.GUID
	if cached, ok := derived.Load(string(key)); ok {
		id = cached.(guid.GUID)
	} else {
		id = guid.FromHash(key)
		derived.Store(string(key), id)
	}

	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return Info{
		Kind: GenericInterface,
		ID:   id,
		Name: base.Name + "<" + strings.Join(names, ", ") + ">",
	}
}
