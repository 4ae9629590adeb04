package arch

import "strconv"

// Entity is an opaque handle identifying one entity inside one registry.
// The zero value is the reserved null handle. Handles compare by value,
// both fields participate in equality and map hashing.
type Entity struct {
	Id         uint64
	RegistryId uint64
}

// IsNil reports whether e is the reserved null handle.
func (e Entity) IsNil() bool {
	return e.Id == 0
}

func (e Entity) String() string {
	return "entity " + strconv.FormatUint(e.Id, 10) + "/" + strconv.FormatUint(e.RegistryId, 10)
}
