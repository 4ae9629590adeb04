package hive

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/sevanger/hive/internal/arch"
)

// NamePrefix is the prefix used for auto generated entity names.
// Mutations are not synchronized, change it at startup only.
var NamePrefix = "entity_"

var registryIdSeq atomic.Uint64

// record is the per entity state of the registry: a debug name, the
// archetype currently storing the entity (nil while it has no
// components) and its row inside that archetype.
type record struct {
	name string
	arch *arch.Archetype
	row  arch.Row
}

// Registry is an in-memory database associating entities with typed
// component values, grouped into archetypes by the exact set of component
// types each entity carries.
//
// A Registry is a single threaded data structure. Mutating operations
// require exclusive access and invalidate every pointer previously
// obtained from Attach, Find, Get or the View functions. Read operations
// may share access with each other but not with mutators.
type Registry struct {
	id          uint64
	entityIdSeq uint64

	records    map[Entity]*record
	archetypes *arch.Map
}

// NewRegistry creates an empty registry with a fresh, process monotonic
// registry id.
func NewRegistry() *Registry {
	return &Registry{
		id:         registryIdSeq.Add(1),
		records:    map[Entity]*record{},
		archetypes: arch.NewMap(),
	}
}

// Id returns the process wide id of this registry. Entities carry the id
// of their owning registry, operations on foreign handles fail.
func (r *Registry) Id() uint64 {
	return r.id
}

// MakeEntity creates a new entity, optionally with the given component
// types attached, default constructed. An empty name is replaced by
// NamePrefix plus the entity id.
func (r *Registry) MakeEntity(name string, sigs ...Signature) Entity {
	r.entityIdSeq += 1
	id := r.entityIdSeq

	if name == "" {
		name = NamePrefix + strconv.FormatUint(id, 10)
	}

	e := Entity{Id: id, RegistryId: r.id}
	rec := &record{name: name}
	r.records[e] = rec

	if len(sigs) > 0 {
		archetype := r.archetypes.GetOrMake(arch.MakeArchetypeId(sigs))

		row := arch.Row(archetype.Len())
		archetype.PushEntity(e)
		for _, sig := range sigs {
			archetype.EmplaceDefault(sig)
		}

		rec.arch = archetype
		rec.row = row
	}

	return e
}

// Contains reports whether e is owned by this registry.
func (r *Registry) Contains(e Entity) bool {
	_, exists := r.records[e]
	return exists
}

// Name returns the name associated with e, or the empty string for an
// unknown entity.
func (r *Registry) Name(e Entity) string {
	if rec, exists := r.records[e]; exists {
		return rec.name
	}

	return ""
}

// Rename changes the name of e. Returns false for an unknown entity.
func (r *Registry) Rename(e Entity, name string) bool {
	rec, exists := r.records[e]
	if !exists {
		return false
	}

	rec.name = name
	return true
}

// Len returns the total entity count.
func (r *Registry) Len() int {
	return len(r.records)
}

// Empty reports whether the registry holds no entities. The registry may
// still own archetypes while empty.
func (r *Registry) Empty() bool {
	return len(r.records) == 0
}

// Clear destroys all entities and archetypes. The registry id and the
// entity id counter are unchanged, handles stay unique across Clear.
func (r *Registry) Clear() {
	r.records = map[Entity]*record{}
	r.archetypes = arch.NewMap()
}

// Destroy drops all components attached to e and removes its record.
// Returns whether the entity was owned by this registry.
func (r *Registry) Destroy(e Entity) bool {
	rec, exists := r.records[e]
	if !exists {
		return false
	}

	if rec.arch != nil {
		r.migrate(rec, nil)
	}

	delete(r.records, e)
	return true
}

// AttachTypes attaches each given component type to e in sequence,
// default constructed. A type that is already attached is reset to its
// zero value in place.
func (r *Registry) AttachTypes(e Entity, sigs ...Signature) {
	for _, sig := range sigs {
		column, row, fresh := r.ensureComponent(e, sig)
		if !fresh {
			column.SetZero(row)
		}
	}
}

// DetachTypes detaches the given component types from e in order. The
// result is the conjunction of the per type results, evaluated with
// short-circuiting: once a type turns out not to be attached, the
// remaining types are not detached.
func (r *Registry) DetachTypes(e Entity, sigs ...Signature) bool {
	for _, sig := range sigs {
		if !r.detach(e, sig) {
			return false
		}
	}

	return true
}

// AllAttached reports whether every given component type is attached to e.
func (r *Registry) AllAttached(e Entity, sigs ...Signature) bool {
	rec, exists := r.records[e]
	return exists && rec.arch != nil && rec.arch.HasAll(sigs...)
}

// AnyAttached reports whether at least one of the given component types
// is attached to e.
func (r *Registry) AnyAttached(e Entity, sigs ...Signature) bool {
	rec, exists := r.records[e]
	return exists && rec.arch != nil && rec.arch.HasAny(sigs...)
}

// Attach attaches value to e, replacing a previously attached value of
// type T in place (archetype and row unchanged). The returned pointer is
// valid until the next mutation of the registry.
func Attach[T any](r *Registry, e Entity, value T) *T {
	column, row, _ := r.ensureComponent(e, arch.TypeOf[T]())

	ptr := (*T)(column.Ptr(row))
	*ptr = value
	return ptr
}

// Detach removes component type T from e. Returns whether T was attached.
func Detach[T any](r *Registry, e Entity) bool {
	return r.detach(e, arch.TypeOf[T]())
}

// Attached reports whether e has component type T attached.
func Attached[T any](r *Registry, e Entity) bool {
	rec, exists := r.records[e]
	return exists && rec.arch != nil && rec.arch.Contains(arch.TypeOf[T]())
}

// Find returns a pointer to e's component of type T, or false when the
// entity is unknown or T is not attached. The pointer is valid until the
// next mutation of the registry.
func Find[T any](r *Registry, e Entity) (*T, bool) {
	rec, exists := r.records[e]
	if !exists || rec.arch == nil {
		return nil, false
	}

	column := rec.arch.FindColumn(arch.TypeOf[T]())
	if column == nil {
		return nil, false
	}

	return (*T)(column.Ptr(rec.row)), true
}

// Get returns a pointer to e's component of type T. The component must be
// attached.
func Get[T any](r *Registry, e Entity) *T {
	r.mustOwn(e)

	value, ok := Find[T](r, e)
	if !ok {
		panic(fmt.Sprintf("%s has no component %s", e, arch.TypeOf[T]()))
	}

	return value
}

// ensureComponent makes sure e has a component slot of type sig,
// performing the archetype surgery this takes, and returns the column and
// row of the slot. The returned flag reports whether the slot is freshly
// appended (and thus zero valued); otherwise it holds the previously
// attached value, which the caller overwrites or resets.
func (r *Registry) ensureComponent(e Entity, sig Signature) (*arch.ErasedColumn, arch.Row, bool) {
	r.mustOwn(e)

	rec, exists := r.records[e]
	if !exists {
		rec = &record{}
		r.records[e] = rec
	}

	if rec.arch == nil {
		// no components yet, the entity starts out in the single type
		// archetype of sig
		archetype := r.archetypes.GetOrMake(arch.MakeArchetypeId([]Signature{sig}))
		archetype.PushEntity(e)
		column, row := archetype.EmplaceDefault(sig)

		rec.arch = archetype
		rec.row = row
		return column, row, true
	}

	if column := rec.arch.FindColumn(sig); column != nil {
		// the type is already attached, the value is replaced in place
		return column, rec.row, false
	}

	// the component set grows, migrate into the archetype holding the
	// current types plus sig, then append the new slot
	target := r.archetypes.CopyAppend(rec.arch, sig)
	r.migrate(rec, target)

	column, row := target.EmplaceDefault(sig)
	rec.row = arch.Row(target.Len() - 1)
	return column, row, true
}

func (r *Registry) detach(e Entity, sig Signature) bool {
	if e.RegistryId != r.id {
		return false
	}

	rec, exists := r.records[e]
	if !exists || rec.arch == nil {
		return false
	}

	if rec.arch.FindColumn(sig) == nil {
		return false
	}

	if rec.arch.Id.Len() == 1 {
		// sig is the only attached type, the entity leaves archetype
		// storage entirely
		r.migrate(rec, nil)
		rec.row = 0
		return true
	}

	target := r.archetypes.CopyRemove(rec.arch, sig)
	r.migrate(rec, target)
	rec.row = arch.Row(target.Len() - 1)
	return true
}

// migrate moves the entity of rec from its current archetype into target
// (nil drops all component values). rec.row is left for the caller to
// update, also when target is nil.
func (r *Registry) migrate(rec *record, target *arch.Archetype) {
	r.sendToBack(rec)
	rec.arch.MigrateBackRowTo(target)
	rec.arch = target
}

// sendToBack rotates rec's row to the back of its archetype so that the
// following migration reduces to a pop from the back. The displaced
// entity's record is repaired.
func (r *Registry) sendToBack(rec *record) {
	if rec.arch.IsLastRow(rec.row) {
		return
	}

	row := rec.row
	displaced := rec.arch.SwapBack(row)

	displacedRec, exists := r.records[displaced]
	if !exists {
		panic(fmt.Sprintf("no record for displaced %s", displaced))
	}

	rec.row = arch.Row(rec.arch.Len() - 1)
	displacedRec.row = row
}

func (r *Registry) mustOwn(e Entity) {
	if e.IsNil() || e.RegistryId != r.id {
		panic(fmt.Sprintf("%s does not belong to registry %d", e, r.id))
	}
}
