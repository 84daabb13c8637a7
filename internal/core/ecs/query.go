package ecs

// Query filters live entities by required and excluded component names and
// tags. Filters apply in the order required components → required tags →
// excluded components → excluded tags → active-only. Results are ordered by id
// and are never cached; re-run the query every frame.
type Query struct {
	m                 *Manager
	withComponents    []string
	withTags          []string
	withoutComponents []string
	withoutTags       []string
	includeInactive   bool
}

func (q *Query) WithComponents(names ...string) *Query {
	q.withComponents = append(q.withComponents, names...)
	return q
}

func (q *Query) WithTags(tags ...string) *Query {
	q.withTags = append(q.withTags, tags...)
	return q
}

func (q *Query) WithoutComponents(names ...string) *Query {
	q.withoutComponents = append(q.withoutComponents, names...)
	return q
}

func (q *Query) WithoutTags(tags ...string) *Query {
	q.withoutTags = append(q.withoutTags, tags...)
	return q
}

// IncludeInactive keeps disabled entities in the result.
func (q *Query) IncludeInactive() *Query {
	q.includeInactive = true
	return q
}

// Execute materializes the matching entities.
func (q *Query) Execute() []*Entity {
	candidates := sortedEntities(q.seed())

	candidates = keep(candidates, func(e *Entity) bool {
		for _, n := range q.withComponents {
			if !e.components.Has(n) {
				return false
			}
		}
		return true
	})
	candidates = keep(candidates, func(e *Entity) bool { return e.tags.HasAll(q.withTags...) })
	candidates = keep(candidates, func(e *Entity) bool {
		for _, n := range q.withoutComponents {
			if e.components.Has(n) {
				return false
			}
		}
		return true
	})
	candidates = keep(candidates, func(e *Entity) bool { return !e.tags.HasAny(q.withoutTags...) })
	if !q.includeInactive {
		candidates = keep(candidates, func(e *Entity) bool { return e.active })
	}
	return candidates
}

// seed starts from the smallest required index set, or from every entity when
// nothing is required.
func (q *Query) seed() map[ID]*Entity {
	comps, hasComps := q.m.byComponent.smallest(q.withComponents)
	tags, hasTags := q.m.byTag.smallest(q.withTags)
	switch {
	case hasComps && hasTags:
		if len(tags) < len(comps) {
			return tags
		}
		return comps
	case hasComps:
		return comps
	case hasTags:
		return tags
	default:
		return q.m.entities
	}
}

// First returns the lowest-id match, or nil.
func (q *Query) First() *Entity {
	res := q.Execute()
	if len(res) == 0 {
		return nil
	}
	return res[0]
}

func (q *Query) Count() int {
	return len(q.Execute())
}

// ForEach calls fn for every match. The result set is fixed before the first
// call, so fn may destroy entities; matches destroyed by an earlier call are
// skipped.
func (q *Query) ForEach(fn func(*Entity)) {
	for _, e := range q.Execute() {
		if !q.m.owns(e) {
			continue
		}
		fn(e)
	}
}

func keep(in []*Entity, pred func(*Entity) bool) []*Entity {
	if len(in) == 0 {
		return in
	}
	out := in[:0]
	for _, e := range in {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Each visits active entities holding an A. Entities destroyed, or stripped
// of A, by an earlier callback are skipped.
func Each[A any, PA ComponentPtr[A]](m *Manager, fn func(*Entity, PA)) {
	m.Query().WithComponents(NameOf[A, PA]()).ForEach(func(e *Entity) {
		a, ok := Get[A, PA](e)
		if !ok {
			return
		}
		fn(e, a)
	})
}

// Each2 visits active entities holding both an A and a B.
func Each2[A, B any, PA ComponentPtr[A], PB ComponentPtr[B]](m *Manager, fn func(*Entity, PA, PB)) {
	m.Query().WithComponents(NameOf[A, PA](), NameOf[B, PB]()).ForEach(func(e *Entity) {
		a, okA := Get[A, PA](e)
		b, okB := Get[B, PB](e)
		if !okA || !okB {
			return
		}
		fn(e, a, b)
	})
}

// Each3 visits active entities holding an A, a B and a C.
func Each3[A, B, C any, PA ComponentPtr[A], PB ComponentPtr[B], PC ComponentPtr[C]](m *Manager, fn func(*Entity, PA, PB, PC)) {
	m.Query().WithComponents(NameOf[A, PA](), NameOf[B, PB](), NameOf[C, PC]()).ForEach(func(e *Entity) {
		a, okA := Get[A, PA](e)
		b, okB := Get[B, PB](e)
		c, okC := Get[C, PC](e)
		if !okA || !okB || !okC {
			return
		}
		fn(e, a, b, c)
	})
}
