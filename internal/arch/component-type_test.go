package arch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type typeA struct{ X int }

type typeB struct{ X int }

func TestTypeOf_StableTokens(t *testing.T) {
	first := TypeOf[typeA]()
	second := TypeOf[typeA]()

	require.Same(t, first, second)
	require.Equal(t, first.Id, second.Id)
}

func TestTypeOf_DistinctTypes(t *testing.T) {
	a := TypeOf[typeA]()
	b := TypeOf[typeB]()

	require.NotSame(t, a, b)
	require.NotEqual(t, a.Id, b.Id)
}

func TestTypeHasPointers(t *testing.T) {
	require.False(t, typeHasPointers(TypeOf[typeA]().Type))
	require.False(t, typeHasPointers(TypeOf[Health]().Type))
	require.False(t, typeHasPointers(TypeOf[Marker]().Type))
	require.True(t, typeHasPointers(TypeOf[Label]().Type))
	require.True(t, typeHasPointers(TypeOf[[]int]().Type))
	require.True(t, typeHasPointers(TypeOf[[2]string]().Type))
	require.False(t, typeHasPointers(TypeOf[[4]int64]().Type))
}
