package hive

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireInvariants checks the registry wide consistency rules: every
// column is as long as its archetype's entity slice, records and rows
// agree with archetype contents, archetype ids are unique, and stored
// entities belong to this registry.
func requireInvariants(t *testing.T, r *Registry) {
	t.Helper()

	stored := map[Entity]int{}

	archetypes := r.archetypes.All()
	for _, archetype := range archetypes {
		require.GreaterOrEqual(t, archetype.Id.Len(), 1)

		for _, ty := range archetype.Id.Types() {
			require.Equal(t, archetype.Len(), archetype.Column(ty).Len(),
				"column %s of %s out of sync", ty, archetype)
		}

		for row := range archetype.Len() {
			e := archetype.EntityAt(Row(row))
			stored[e] += 1
			require.Equal(t, r.Id(), e.RegistryId)
		}
	}

	for i := range archetypes {
		for j := i + 1; j < len(archetypes); j++ {
			require.False(t, archetypes[i].Id.Equal(archetypes[j].Id),
				"duplicate archetype %s", archetypes[i])
		}
	}

	for e, count := range stored {
		require.Equal(t, 1, count, "%s stored %d times", e, count)

		rec, exists := r.records[e]
		require.True(t, exists, "%s stored but has no record", e)
		require.NotNil(t, rec.arch)
		require.Equal(t, e, rec.arch.EntityAt(rec.row))
	}

	for e, rec := range r.records {
		if rec.arch == nil {
			require.NotContains(t, stored, e)
			continue
		}

		require.Contains(t, stored, e)
	}
}

// TestRandomizedOperations drives the registry with a deterministic
// random sequence of make/attach/detach/destroy/clear calls, checking
// the invariants and a shadow model after every step.
func TestRandomizedOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(0xbeef, 0xcafe))

	r := NewRegistry()

	sigs := []Signature{
		SignatureOf[Position](),
		SignatureOf[Velocity](),
		SignatureOf[Health](),
		SignatureOf[Nickname](),
		SignatureOf[Frozen](),
	}

	var entities []Entity
	model := map[Entity]map[Signature]int{}

	randomEntity := func() Entity {
		return entities[rng.IntN(len(entities))]
	}

	attachValue := func(e Entity, sig Signature, value int) {
		switch sig {
		case SignatureOf[Position]():
			Attach(r, e, Position{X: float64(value)})
		case SignatureOf[Velocity]():
			Attach(r, e, Velocity{X: float64(value)})
		case SignatureOf[Health]():
			Attach(r, e, Health{Current: value})
		case SignatureOf[Nickname]():
			Attach(r, e, Nickname{Value: string(rune('a' + value))})
		default:
			Attach(r, e, Frozen{})
		}
	}

	readValue := func(e Entity, sig Signature) (int, bool) {
		switch sig {
		case SignatureOf[Position]():
			value, ok := Find[Position](r, e)
			if !ok {
				return 0, false
			}
			return int(value.X), true
		case SignatureOf[Velocity]():
			value, ok := Find[Velocity](r, e)
			if !ok {
				return 0, false
			}
			return int(value.X), true
		case SignatureOf[Health]():
			value, ok := Find[Health](r, e)
			if !ok {
				return 0, false
			}
			return value.Current, true
		case SignatureOf[Nickname]():
			value, ok := Find[Nickname](r, e)
			if !ok {
				return 0, false
			}
			return int(value.Value[0] - 'a'), true
		default:
			_, ok := Find[Frozen](r, e)
			return 0, ok
		}
	}

	for step := range 2000 {
		switch op := rng.IntN(100); {
		case op < 25 || len(entities) == 0:
			e := r.MakeEntity("")
			entities = append(entities, e)
			model[e] = map[Signature]int{}

		case op < 60:
			e := randomEntity()
			if !r.Contains(e) {
				continue
			}

			sig := sigs[rng.IntN(len(sigs))]
			value := rng.IntN(26)
			attachValue(e, sig, value)
			model[e][sig] = value

		case op < 85:
			e := randomEntity()
			sig := sigs[rng.IntN(len(sigs))]

			_, wasAttached := model[e][sig]
			require.Equal(t, wasAttached && r.Contains(e), r.DetachTypes(e, sig), "step %d", step)
			delete(model[e], sig)

		case op < 97:
			e := randomEntity()
			require.Equal(t, r.Contains(e), r.Destroy(e))
			delete(model, e)

		default:
			r.Clear()
			entities = entities[:0]
			model = map[Entity]map[Signature]int{}
		}

		requireInvariants(t, r)
	}

	// final sweep: the live registry state matches the shadow model
	require.Equal(t, len(model), r.Len())
	for e, attached := range model {
		for _, sig := range sigs {
			want, wantAttached := attached[sig]
			got, gotAttached := readValue(e, sig)
			require.Equal(t, wantAttached, gotAttached, "%s %s", e, sig)

			if wantAttached && sig != SignatureOf[Frozen]() {
				require.Equal(t, want, got, "%s %s", e, sig)
			}
		}
	}
}
