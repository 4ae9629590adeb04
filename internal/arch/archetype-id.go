package arch

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"slices"
	"strings"

	"github.com/sevanger/hive/internal/set"
)

var seed = maphash.MakeSeed()

// ArchetypeKey is the hash of an ArchetypeId, used as map key.
type ArchetypeKey uint64

// ArchetypeId identifies an archetype by the ordered set of component
// types it stores. The types are kept sorted by their registration id to
// canonicalise identity: two ids built from the same types in any order
// compare equal.
//
// ArchetypeId values are immutable, Insert and Remove return derived ids.
type ArchetypeId struct {
	types []*ComponentType
	key   ArchetypeKey
}

// MakeArchetypeId builds the canonical id for the given component types.
// Duplicate types are a programmer error.
func MakeArchetypeId(types []*ComponentType) ArchetypeId {
	sorted := slices.Clone(types)
	slices.SortFunc(sorted, compareComponentTypes)

	var seen set.Set[*ComponentType]
	for _, ty := range sorted {
		if !seen.Insert(ty) {
			panic(fmt.Sprintf("archetype id contains duplicate type: %s", ty))
		}
	}

	return ArchetypeId{types: sorted, key: hashTypes(sorted)}
}

// Insert returns the id with ty added. No-op if ty is already present.
func (id ArchetypeId) Insert(ty *ComponentType) ArchetypeId {
	idx, exists := slices.BinarySearchFunc(id.types, ty, compareComponentTypes)
	if exists {
		return id
	}

	types := slices.Insert(slices.Clone(id.types), idx, ty)
	return ArchetypeId{types: types, key: hashTypes(types)}
}

// Remove returns the id with ty removed. No-op if ty is absent.
func (id ArchetypeId) Remove(ty *ComponentType) ArchetypeId {
	idx, exists := slices.BinarySearchFunc(id.types, ty, compareComponentTypes)
	if !exists {
		return id
	}

	types := slices.Delete(slices.Clone(id.types), idx, idx+1)
	return ArchetypeId{types: types, key: hashTypes(types)}
}

// Contains reports whether ty is part of the id.
func (id ArchetypeId) Contains(ty *ComponentType) bool {
	_, exists := slices.BinarySearchFunc(id.types, ty, compareComponentTypes)
	return exists
}

// HasAll reports whether every given type is part of the id.
func (id ArchetypeId) HasAll(types ...*ComponentType) bool {
	for _, ty := range types {
		if !id.Contains(ty) {
			return false
		}
	}

	return true
}

// HasAny reports whether at least one of the given types is part of the id.
func (id ArchetypeId) HasAny(types ...*ComponentType) bool {
	for _, ty := range types {
		if id.Contains(ty) {
			return true
		}
	}

	return false
}

// Equal reports element wise equality of the two ids.
func (id ArchetypeId) Equal(other ArchetypeId) bool {
	return slices.Equal(id.types, other.types)
}

// Types returns the sorted component types of the id. The returned slice
// must not be modified.
func (id ArchetypeId) Types() []*ComponentType {
	return id.types
}

func (id ArchetypeId) Len() int {
	return len(id.types)
}

// Key returns the hash of the id.
func (id ArchetypeId) Key() ArchetypeKey {
	return id.key
}

func (id ArchetypeId) String() string {
	var value strings.Builder

	value.WriteString("Archetype(")
	for idx, ty := range id.types {
		if idx > 0 {
			value.WriteString(", ")
		}

		value.WriteString(ty.String())
	}

	value.WriteString(")")

	return value.String()
}

func hashTypes(types []*ComponentType) ArchetypeKey {
	var hash maphash.Hash

	hash.SetSeed(seed)

	for _, ty := range types {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(ty.Id))
		_, _ = hash.Write(buf[:])
	}

	return ArchetypeKey(hash.Sum64())
}
