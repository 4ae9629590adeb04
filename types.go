package hive

import "github.com/sevanger/hive/internal/arch"

// Entity is an opaque handle identifying one entity within one Registry.
// The zero value is the reserved null handle. A handle is only valid
// inside the registry that created it.
type Entity = arch.Entity

// Signature is the process stable identifier of a registered component
// type. Obtain one via SignatureOf.
type Signature = *arch.ComponentType

// Row indexes an entity inside an archetype. Rows are unstable across
// mutations, the registry repairs its own bookkeeping after every swap.
type Row = arch.Row

// SignatureOf returns the signature of component type T, registering the
// type on first use. Two calls with the same T always return the same
// signature.
func SignatureOf[T any]() Signature {
	return arch.TypeOf[T]()
}
