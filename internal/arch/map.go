package arch

// Map owns every archetype of one registry, keyed by the hash of the
// archetype id. Archetypes are created lazily and only dropped when the
// whole map is discarded; an empty archetype keeps its column schema for
// reuse.
//
// The map also caches single type transitions (archetype plus or minus
// one component type) so that the common attach/detach hops do not
// rebuild archetype ids.
type Map struct {
	archetypes  []*Archetype
	lookup      map[ArchetypeKey]*Archetype
	transitions map[transition]*Archetype
}

type transition struct {
	archetype *Archetype
	component *ComponentType
	insert    bool
}

func NewMap() *Map {
	return &Map{
		lookup:      map[ArchetypeKey]*Archetype{},
		transitions: map[transition]*Archetype{},
	}
}

// GetOrMake returns the archetype for id, creating an empty one with the
// appropriate columns if it does not exist yet.
func (m *Map) GetOrMake(id ArchetypeId) *Archetype {
	archetype, exists := m.lookup[id.Key()]
	if !exists {
		archetype = makeArchetype(id)
		m.lookup[id.Key()] = archetype
		m.archetypes = append(m.archetypes, archetype)
	}

	return archetype
}

// CopyAppend returns the archetype whose id is source's id with ty added,
// creating it if missing.
func (m *Map) CopyAppend(source *Archetype, ty *ComponentType) *Archetype {
	tr := transition{archetype: source, component: ty, insert: true}
	if next, exists := m.transitions[tr]; exists {
		return next
	}

	next := m.GetOrMake(source.Id.Insert(ty))
	m.transitions[tr] = next
	return next
}

// CopyRemove returns the archetype whose id is source's id with ty
// removed, creating it if missing.
func (m *Map) CopyRemove(source *Archetype, ty *ComponentType) *Archetype {
	tr := transition{archetype: source, component: ty, insert: false}
	if next, exists := m.transitions[tr]; exists {
		return next
	}

	next := m.GetOrMake(source.Id.Remove(ty))
	m.transitions[tr] = next
	return next
}

// All returns every archetype in creation order. The returned slice must
// not be modified.
func (m *Map) All() []*Archetype {
	return m.archetypes
}

func (m *Map) Len() int {
	return len(m.archetypes)
}
