package hive

import (
	"cmp"
	"reflect"
	"slices"
)

// System is a unit of behaviour dispatched by a Group. Data is a user
// supplied per tick value handed through unchanged. Systems must treat
// the registry as read only and go through views for traversal.
type System[Data any] interface {
	Update(r *Registry, data Data)
}

type groupEntry[Data any] struct {
	system System[Data]
	order  int64
}

// Group holds systems keyed by their concrete type, each with an ordering
// value. The zero value is an empty group ready for use.
//
// A Group is itself a System and can be attached to another group.
type Group[Data any] struct {
	entries map[reflect.Type]*groupEntry[Data]
}

// Attach registers system under its concrete type, replacing a previously
// attached system of the same type.
func (g *Group[Data]) Attach(system System[Data], order int64) {
	if g.entries == nil {
		g.entries = map[reflect.Type]*groupEntry[Data]{}
	}

	g.entries[reflect.TypeOf(system)] = &groupEntry[Data]{system: system, order: order}
}

// Update invokes every attached system, ordered by ascending order value.
// Ties resolve in unspecified order.
func (g *Group[Data]) Update(r *Registry, data Data) {
	if len(g.entries) < 2 {
		for _, entry := range g.entries {
			entry.system.Update(r, data)
		}

		return
	}

	sorted := make([]*groupEntry[Data], 0, len(g.entries))
	for _, entry := range g.entries {
		sorted = append(sorted, entry)
	}

	slices.SortFunc(sorted, func(lhs, rhs *groupEntry[Data]) int {
		return cmp.Compare(lhs.order, rhs.order)
	})

	for _, entry := range sorted {
		entry.system.Update(r, data)
	}
}

func (g *Group[Data]) Clear() {
	clear(g.entries)
}

func (g *Group[Data]) Len() int {
	return len(g.entries)
}

func (g *Group[Data]) Empty() bool {
	return len(g.entries) == 0
}

// FindSystem returns the attached system of concrete type S.
func FindSystem[S any, Data any](g *Group[Data]) (S, bool) {
	entry, exists := g.entries[reflect.TypeFor[S]()]
	if !exists {
		var zero S
		return zero, false
	}

	return entry.system.(S), true
}

// AttachedSystem reports whether a system of concrete type S is attached.
func AttachedSystem[S any, Data any](g *Group[Data]) bool {
	_, exists := g.entries[reflect.TypeFor[S]()]
	return exists
}

// DetachSystem removes the system of concrete type S, if attached.
func DetachSystem[S any, Data any](g *Group[Data]) {
	delete(g.entries, reflect.TypeFor[S]())
}

// ReorderSystem changes the ordering value of the attached system of
// concrete type S. Returns false if no such system is attached.
func ReorderSystem[S any, Data any](g *Group[Data], order int64) bool {
	entry, exists := g.entries[reflect.TypeFor[S]()]
	if !exists {
		return false
	}

	entry.order = order
	return true
}
