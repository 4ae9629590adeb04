package arch

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
	"unsafe"
)

type ComponentTypeId uint32

// ComponentType is the process stable signature of a component type.
// Instances are registered on first use and compared by pointer identity:
// two values of the same Go type always yield the same *ComponentType.
//
// The type carries the erased operators a column needs to manage storage
// without knowing the component type statically.
type ComponentType struct {
	Name string
	Type reflect.Type

	// Id is assigned from a monotonic counter at registration.
	Id ComponentTypeId

	itemSize uintptr

	// trivialCopy indicates that values contain no pointers and can be
	// moved with a plain byte copy.
	trivialCopy bool

	makeColumn func() *ErasedColumn
	copyValue  func(dst, src unsafe.Pointer)
	zeroValue  func(dst unsafe.Pointer)
}

func (c *ComponentType) String() string {
	return c.Name
}

var componentTypes atomic.Pointer[map[unsafe.Pointer]*ComponentType]

func init() {
	// initialize the lookup table
	componentTypes.Store(&map[unsafe.Pointer]*ComponentType{})
}

// abiTypePointerTo returns the abi type pointer backing a reflect.Type.
// A reflect.Type is backed by an *rType whose first value is an abi.Type,
// which makes the data pointer of the interface a stable identity for the
// Go type itself.
func abiTypePointerTo(t reflect.Type) unsafe.Pointer {
	type eface struct {
		typ, val unsafe.Pointer
	}

	return (*eface)(unsafe.Pointer(&t)).val
}

// TypeOf returns the signature of component type C, registering it on
// first use.
func TypeOf[C any]() *ComponentType {
	ptrToType := abiTypePointerTo(reflect.TypeFor[C]())

	if cached, ok := (*componentTypes.Load())[ptrToType]; ok {
		return cached
	}

	return registerComponentType[C](ptrToType)
}

func registerComponentType[C any](ptrToType unsafe.Pointer) *ComponentType {
	for {
		previousTypes := componentTypes.Load()
		if cached, ok := (*previousTypes)[ptrToType]; ok {
			return cached
		}

		newType := makeComponentType[C](ComponentTypeId(len(*previousTypes) + 1))

		newTypes := maps.Clone(*previousTypes)
		newTypes[ptrToType] = newType

		if componentTypes.CompareAndSwap(previousTypes, &newTypes) {
			slog.Debug(
				"New component type registered",
				slog.String("name", newType.Name),
				slog.Int("id", int(newType.Id)),
			)

			return newType
		}
	}
}

func makeComponentType[C any](id ComponentTypeId) *ComponentType {
	reflectType := reflect.TypeFor[C]()

	ty := &ComponentType{
		Id:          id,
		Type:        reflectType,
		Name:        reflectType.String(),
		itemSize:    reflectType.Size(),
		trivialCopy: !typeHasPointers(reflectType),
	}

	ty.makeColumn = makeErasedColumn(ty)

	ty.copyValue = func(dst, src unsafe.Pointer) {
		*(*C)(dst) = *(*C)(src)
	}

	ty.zeroValue = func(dst unsafe.Pointer) {
		var zero C
		*(*C)(dst) = zero
	}

	return ty
}

// typeHasPointers reports whether values of t contain pointers the
// garbage collector needs to see.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true

	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())

	case reflect.Struct:
		for idx := range t.NumField() {
			if typeHasPointers(t.Field(idx).Type) {
				return true
			}
		}

		return false

	default:
		return false
	}
}

func compareComponentTypes(lhs, rhs *ComponentType) int {
	return int(lhs.Id) - int(rhs.Id)
}
