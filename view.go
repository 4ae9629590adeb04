package hive

import (
	"github.com/sevanger/hive/internal/arch"
)

// EntityView bundles an entity and a pointer to its component of type A.
type EntityView[A any] struct {
	Entity Entity
	A      *A
}

// EntityView2 bundles an entity and pointers to its components of types
// A and B.
type EntityView2[A, B any] struct {
	Entity Entity
	A      *A
	B      *B
}

type EntityView3[A, B, C any] struct {
	Entity Entity
	A      *A
	B      *B
	C      *C
}

type EntityView4[A, B, C, D any] struct {
	Entity Entity
	A      *A
	B      *B
	C      *C
	D      *D
}

// View returns a view of every entity with A attached and none of the
// excluded types attached, each exactly once.
//
// The result is a snapshot: its pointers are invalidated by any
// subsequent mutation of the registry. Traversal order across archetypes
// is unspecified, within an archetype it is row ascending.
func View[A any](r *Registry, exclude ...Signature) []EntityView[A] {
	sigA := arch.TypeOf[A]()

	var views []EntityView[A]
	for _, archetype := range r.archetypes.All() {
		if !archetype.HasAll(sigA) || archetype.HasAny(exclude...) {
			continue
		}

		columnA := archetype.Column(sigA)

		for row := range arch.Row(archetype.Len()) {
			views = append(views, EntityView[A]{
				Entity: archetype.EntityAt(row),
				A:      (*A)(columnA.Ptr(row)),
			})
		}
	}

	return views
}

// View2 is View for entities carrying both A and B.
func View2[A, B any](r *Registry, exclude ...Signature) []EntityView2[A, B] {
	sigA := arch.TypeOf[A]()
	sigB := arch.TypeOf[B]()

	var views []EntityView2[A, B]
	for _, archetype := range r.archetypes.All() {
		if !archetype.HasAll(sigA, sigB) || archetype.HasAny(exclude...) {
			continue
		}

		columnA := archetype.Column(sigA)
		columnB := archetype.Column(sigB)

		for row := range arch.Row(archetype.Len()) {
			views = append(views, EntityView2[A, B]{
				Entity: archetype.EntityAt(row),
				A:      (*A)(columnA.Ptr(row)),
				B:      (*B)(columnB.Ptr(row)),
			})
		}
	}

	return views
}

// View3 is View for entities carrying A, B and C.
func View3[A, B, C any](r *Registry, exclude ...Signature) []EntityView3[A, B, C] {
	sigA := arch.TypeOf[A]()
	sigB := arch.TypeOf[B]()
	sigC := arch.TypeOf[C]()

	var views []EntityView3[A, B, C]
	for _, archetype := range r.archetypes.All() {
		if !archetype.HasAll(sigA, sigB, sigC) || archetype.HasAny(exclude...) {
			continue
		}

		columnA := archetype.Column(sigA)
		columnB := archetype.Column(sigB)
		columnC := archetype.Column(sigC)

		for row := range arch.Row(archetype.Len()) {
			views = append(views, EntityView3[A, B, C]{
				Entity: archetype.EntityAt(row),
				A:      (*A)(columnA.Ptr(row)),
				B:      (*B)(columnB.Ptr(row)),
				C:      (*C)(columnC.Ptr(row)),
			})
		}
	}

	return views
}

// View4 is View for entities carrying A, B, C and D.
func View4[A, B, C, D any](r *Registry, exclude ...Signature) []EntityView4[A, B, C, D] {
	sigA := arch.TypeOf[A]()
	sigB := arch.TypeOf[B]()
	sigC := arch.TypeOf[C]()
	sigD := arch.TypeOf[D]()

	var views []EntityView4[A, B, C, D]
	for _, archetype := range r.archetypes.All() {
		if !archetype.HasAll(sigA, sigB, sigC, sigD) || archetype.HasAny(exclude...) {
			continue
		}

		columnA := archetype.Column(sigA)
		columnB := archetype.Column(sigB)
		columnC := archetype.Column(sigC)
		columnD := archetype.Column(sigD)

		for row := range arch.Row(archetype.Len()) {
			views = append(views, EntityView4[A, B, C, D]{
				Entity: archetype.EntityAt(row),
				A:      (*A)(columnA.Ptr(row)),
				B:      (*B)(columnB.Ptr(row)),
				C:      (*C)(columnC.Ptr(row)),
				D:      (*D)(columnD.Ptr(row)),
			})
		}
	}

	return views
}
