package arch

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"
)

// Row indexes one entity and its component values inside an archetype.
type Row int

// ErasedColumn is a homogeneous vector of component values of one type,
// erased behind the operators recorded on its ComponentType. The backing
// memory is owned by a reflect slice value so it stays visible to the
// garbage collector, element access goes through unsafe pointers.
//
// Slots at or past the current length are always zero valued. Removal
// operations re-zero vacated slots to uphold this and to drop references
// held by pointer carrying component types.
type ErasedColumn struct {
	ComponentType *ComponentType

	itemSize uintptr

	// slice of values, keeps the backing array alive
	slice reflect.Value

	// capacity and length of the slice
	len, cap int

	// memory points to the data of the backing array
	memory unsafe.Pointer

	// single spare element used by Swap, allocated lazily
	scratch     unsafe.Pointer
	scratchKeep reflect.Value
}

func makeErasedColumn(ty *ComponentType) func() *ErasedColumn {
	return func() *ErasedColumn {
		slice := reflect.New(reflect.SliceOf(ty.Type)).Elem()

		return &ErasedColumn{
			ComponentType: ty,
			itemSize:      ty.itemSize,
			slice:         slice,
			len:           slice.Len(),
			cap:           slice.Cap(),
			memory:        slice.UnsafePointer(),
		}
	}
}

type buf *[math.MaxInt32]byte

func (e *ErasedColumn) Len() int {
	return e.len
}

func (e *ErasedColumn) IsEmpty() bool {
	return e.len == 0
}

// Ptr returns the address of the value at row. The pointer is valid until
// the next mutation of this column.
func (e *ErasedColumn) Ptr(row Row) unsafe.Pointer {
	if row < 0 || int(row) >= e.len {
		panic(fmt.Sprintf("column %s: row %d out of bounds (len %d)", e.ComponentType, row, e.len))
	}

	return e.ptrAt(row)
}

func (e *ErasedColumn) ptrAt(row Row) unsafe.Pointer {
	return unsafe.Add(e.memory, uintptr(row)*e.itemSize)
}

// AppendDefault appends a zero valued element and returns its row.
func (e *ErasedColumn) AppendDefault() Row {
	e.ensureSpace()

	row := Row(e.len)
	e.len += 1

	// slots past the previous length are kept zeroed, the new element
	// needs no initialization
	return row
}

// SetZero resets the value at row to the zero value of the component type.
func (e *ErasedColumn) SetZero(row Row) {
	e.ComponentType.zeroValue(e.Ptr(row))
}

// Swap exchanges the values at rows a and b.
func (e *ErasedColumn) Swap(a, b Row) {
	if a == b {
		return
	}

	ptrA := e.Ptr(a)
	ptrB := e.Ptr(b)

	if e.scratch == nil {
		e.scratchKeep = reflect.New(e.ComponentType.Type)
		e.scratch = e.scratchKeep.UnsafePointer()
	}

	e.copyElem(e.scratch, ptrA)
	e.copyElem(ptrA, ptrB)
	e.copyElem(ptrB, e.scratch)

	// do not keep references alive through the scratch slot
	e.ComponentType.zeroValue(e.scratch)
}

// SwapRemove removes the value at row by moving the last value into its
// place, then shrinks the column by one. O(1), row order is not preserved.
func (e *ErasedColumn) SwapRemove(row Row) {
	target := e.Ptr(row)

	last := Row(e.len - 1)
	if row != last {
		e.copyElem(target, e.ptrAt(last))
	}

	e.ComponentType.zeroValue(e.ptrAt(last))
	e.len -= 1
}

// PopBack drops the last value, running it out of the column.
func (e *ErasedColumn) PopBack() {
	if e.len == 0 {
		panic(fmt.Sprintf("column %s: pop from empty column", e.ComponentType))
	}

	last := Row(e.len - 1)
	e.ComponentType.zeroValue(e.ptrAt(last))
	e.len -= 1
}

// MoveBackTo moves the last value of this column into a newly appended
// slot of other and shrinks this column by one. Both columns must hold the
// same component type.
func (e *ErasedColumn) MoveBackTo(other *ErasedColumn) {
	if e.ComponentType != other.ComponentType {
		panic(fmt.Sprintf("column type mismatch: %s vs %s", e.ComponentType, other.ComponentType))
	}

	if e.len == 0 {
		panic(fmt.Sprintf("column %s: move from empty column", e.ComponentType))
	}

	last := Row(e.len - 1)
	source := e.ptrAt(last)

	row := other.AppendDefault()
	other.copyElem(other.ptrAt(row), source)

	e.ComponentType.zeroValue(source)
	e.len -= 1
}

func (e *ErasedColumn) copyElem(dst, src unsafe.Pointer) {
	if e.ComponentType.trivialCopy {
		target := buf(dst)
		source := buf(src)
		copy((*target)[:e.itemSize], (*source)[:e.itemSize])
	} else {
		e.ComponentType.copyValue(dst, src)
	}
}

func (e *ErasedColumn) ensureSpace() {
	if e.cap == e.len {
		// need to allocate memory
		e.slice.SetLen(e.len)
		e.slice.Grow(max(16, e.len/2))
		e.memory = e.slice.UnsafePointer()
		e.cap = e.slice.Cap()
	}
}
