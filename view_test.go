package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildViewFixture creates archetypes {Position}, {Position, Velocity}
// and {Velocity} with 2, 3 and 4 entities respectively.
func buildViewFixture(t *testing.T) (*Registry, map[Entity]struct{}) {
	t.Helper()

	r := NewRegistry()
	withPosition := map[Entity]struct{}{}

	for range 2 {
		e := r.MakeEntity("", SignatureOf[Position]())
		withPosition[e] = struct{}{}
	}

	for range 3 {
		e := r.MakeEntity("", SignatureOf[Position](), SignatureOf[Velocity]())
		withPosition[e] = struct{}{}
	}

	for range 4 {
		r.MakeEntity("", SignatureOf[Velocity]())
	}

	return r, withPosition
}

func TestView(t *testing.T) {
	r, withPosition := buildViewFixture(t)

	views := View[Position](r)
	require.Len(t, views, 5)

	seen := map[Entity]struct{}{}
	for _, view := range views {
		require.NotNil(t, view.A)
		_, duplicate := seen[view.Entity]
		require.False(t, duplicate, "%s yielded twice", view.Entity)
		seen[view.Entity] = struct{}{}
	}

	require.Equal(t, withPosition, seen)
}

func TestView_Exclude(t *testing.T) {
	r, _ := buildViewFixture(t)

	views := View[Position](r, SignatureOf[Velocity]())
	require.Len(t, views, 2)

	for _, view := range views {
		require.False(t, Attached[Velocity](r, view.Entity))
	}
}

func TestView_Empty(t *testing.T) {
	r := NewRegistry()
	require.Empty(t, View[Position](r))

	r.MakeEntity("", SignatureOf[Velocity]())
	require.Empty(t, View[Position](r))
}

func TestView_PointersAreLive(t *testing.T) {
	r := NewRegistry()
	e := r.MakeEntity("", SignatureOf[Position]())

	for _, view := range View[Position](r) {
		view.A.X = 17
	}

	require.Equal(t, float64(17), Get[Position](r, e).X)
}

func TestView2(t *testing.T) {
	r, _ := buildViewFixture(t)

	views := View2[Position, Velocity](r)
	require.Len(t, views, 3)

	for _, view := range views {
		require.Same(t, Get[Position](r, view.Entity), view.A)
		require.Same(t, Get[Velocity](r, view.Entity), view.B)
	}
}

func TestView3View4(t *testing.T) {
	r := NewRegistry()

	full := r.MakeEntity("",
		SignatureOf[Position](), SignatureOf[Velocity](),
		SignatureOf[Health](), SignatureOf[Nickname]())
	r.MakeEntity("", SignatureOf[Position](), SignatureOf[Velocity]())

	threes := View3[Position, Velocity, Health](r)
	require.Len(t, threes, 1)
	require.Equal(t, full, threes[0].Entity)

	fours := View4[Position, Velocity, Health, Nickname](r)
	require.Len(t, fours, 1)
	require.Equal(t, full, fours[0].Entity)
	require.NotNil(t, fours[0].D)

	require.Empty(t, View3[Position, Velocity, Frozen](r))
}

func TestView_TagComponent(t *testing.T) {
	r := NewRegistry()

	frozen := r.MakeEntity("", SignatureOf[Position](), SignatureOf[Frozen]())
	r.MakeEntity("", SignatureOf[Position]())

	views := View[Frozen](r)
	require.Len(t, views, 1)
	require.Equal(t, frozen, views[0].Entity)

	require.Len(t, View[Position](r, SignatureOf[Frozen]()), 1)
}
