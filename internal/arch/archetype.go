package arch

import (
	"fmt"
)

// Archetype is a row major table storing every entity that carries
// exactly the component types of its id: one entity handle per row, one
// column per type, all columns the same length.
//
// Rows are unstable, removal swaps the last row into the vacated slot.
// The owning registry keeps the current row of each entity in its record
// table and repairs it after every swap.
type Archetype struct {
	Id ArchetypeId

	entities []Entity

	// columns is parallel to Id.Types()
	columns       []*ErasedColumn
	columnsByType map[*ComponentType]*ErasedColumn
}

func makeArchetype(id ArchetypeId) *Archetype {
	columnsByType := map[*ComponentType]*ErasedColumn{}

	var columns []*ErasedColumn
	for _, ty := range id.Types() {
		column := ty.makeColumn()
		columns = append(columns, column)
		columnsByType[ty] = column
	}

	return &Archetype{
		Id:            id,
		columns:       columns,
		columnsByType: columnsByType,
	}
}

func (a *Archetype) String() string {
	return a.Id.String()
}

func (a *Archetype) Len() int {
	return len(a.entities)
}

func (a *Archetype) IsEmpty() bool {
	return len(a.entities) == 0
}

// IsLastRow reports whether row is the last row of the archetype.
func (a *Archetype) IsLastRow(row Row) bool {
	return int(row) == len(a.entities)-1
}

// EntityAt returns the entity stored at row.
func (a *Archetype) EntityAt(row Row) Entity {
	return a.entities[row]
}

// Contains reports whether the archetype stores a column for ty.
func (a *Archetype) Contains(ty *ComponentType) bool {
	_, exists := a.columnsByType[ty]
	return exists
}

// HasAll reports whether every given type has a column here.
func (a *Archetype) HasAll(types ...*ComponentType) bool {
	for _, ty := range types {
		if !a.Contains(ty) {
			return false
		}
	}

	return true
}

// HasAny reports whether at least one of the given types has a column here.
func (a *Archetype) HasAny(types ...*ComponentType) bool {
	for _, ty := range types {
		if a.Contains(ty) {
			return true
		}
	}

	return false
}

// FindColumn returns the column for ty, or nil when ty is not part of
// this archetype.
func (a *Archetype) FindColumn(ty *ComponentType) *ErasedColumn {
	return a.columnsByType[ty]
}

// Column returns the column for ty. The type must be part of this
// archetype.
func (a *Archetype) Column(ty *ComponentType) *ErasedColumn {
	column, exists := a.columnsByType[ty]
	if !exists {
		panic(fmt.Sprintf("%s: no column for type %s", a, ty))
	}

	return column
}

// PushEntity appends e to the entity slice only, columns are unchanged.
// Used while constructing a row before its columns are filled.
func (a *Archetype) PushEntity(e Entity) {
	a.entities = append(a.entities, e)
}

// EmplaceDefault appends a zero valued element to the column of ty and
// returns the column together with the new row.
func (a *Archetype) EmplaceDefault(ty *ComponentType) (*ErasedColumn, Row) {
	column := a.Column(ty)
	return column, column.AppendDefault()
}

// SwapBack exchanges row with the last row in the entity slice and every
// column, then returns the entity now occupying row. The caller must
// reindex that entity's record.
func (a *Archetype) SwapBack(row Row) Entity {
	defer a.assertInvariants()

	last := Row(len(a.entities) - 1)
	if row != last {
		a.entities[row], a.entities[last] = a.entities[last], a.entities[row]

		for _, column := range a.columns {
			column.Swap(row, last)
		}
	}

	return a.entities[row]
}

// SwapRemoveRow removes row. If row is not the last row, the last row is
// moved into its place and the displaced entity is returned, the caller
// must reindex its record.
func (a *Archetype) SwapRemoveRow(row Row) (Entity, bool) {
	defer a.assertInvariants()

	last := Row(len(a.entities) - 1)
	if row == last {
		for _, column := range a.columns {
			column.PopBack()
		}

		a.entities = a.entities[:last]
		return Entity{}, false
	}

	a.entities[row] = a.entities[last]
	for _, column := range a.columns {
		column.SwapRemove(row)
	}

	a.entities = a.entities[:last]
	return a.entities[row], true
}

// MigrateBackRowTo moves the last row of this archetype into target.
// Column values whose type also exists in target are moved over, the
// remaining values are dropped. Passing a nil target drops every value.
// Returns the migrated entity.
//
// Callers that migrate an inner row must rotate it to the back first via
// SwapBack. When target gains a column this archetype does not have (the
// attach path), the caller is responsible for appending that value right
// after, target is inconsistent until then.
func (a *Archetype) MigrateBackRowTo(target *Archetype) Entity {
	defer a.assertInvariants()

	if len(a.entities) == 0 {
		panic(fmt.Sprintf("%s: migrate from empty archetype", a))
	}

	last := len(a.entities) - 1
	migrated := a.entities[last]

	for idx, column := range a.columns {
		if target != nil {
			if targetColumn := target.FindColumn(a.Id.Types()[idx]); targetColumn != nil {
				column.MoveBackTo(targetColumn)
				continue
			}
		}

		// type is not part of the target, the value is dropped
		column.PopBack()
	}

	if target != nil {
		target.PushEntity(migrated)
	}

	a.entities = a.entities[:last]
	return migrated
}

func (a *Archetype) assertInvariants() {
	entityCount := len(a.entities)

	for idx, column := range a.columns {
		if column.Len() != entityCount {
			panic(fmt.Sprintf(
				"%s: expected %d values in column %s, got %d",
				a, entityCount, a.Id.Types()[idx], column.Len(),
			))
		}
	}
}
