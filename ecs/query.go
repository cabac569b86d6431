package ecs

import "iter"

// Query selects the live entities whose mask contains every required kind and
// none of the excluded ones. Results are cached per frame by Execute.
type Query struct {
	world   *World
	include Mask
	exclude Mask

	cachedEntities []EntityId
	cacheValid     bool
}

// NewQuery creates a query for entities holding all of kinds.
func NewQuery(world *World, kinds ...ComponentKind) *Query {
	return &Query{
		world:   world,
		include: MaskOf(kinds...),
	}
}

// Without excludes entities holding any of kinds.
func (q *Query) Without(kinds ...ComponentKind) *Query {
	q.exclude |= MaskOf(kinds...)
	q.cacheValid = false
	return q
}

// Matches reports whether an entity with mask satisfies the query.
func (q *Query) Matches(mask Mask) bool {
	return mask.Contains(q.include) && !mask.Intersects(q.exclude)
}

// Execute rebuilds the cached entity list. The Scheduler calls it for every
// *Query field of a system before that system runs.
func (q *Query) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	for id, mask := range q.world.entities.All() {
		if q.Matches(mask) {
			q.cachedEntities = append(q.cachedEntities, id)
		}
	}
	q.cacheValid = true
}

// Iter yields the entities cached by the last Execute.
// Panics if Execute() has not been called.
func (q *Query) Iter() iter.Seq[EntityId] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId) bool) {
		for _, id := range q.cachedEntities {
			if !yield(id) {
				return
			}
		}
	}
}

// Len returns the number of entities cached by the last Execute.
func (q *Query) Len() int {
	return len(q.cachedEntities)
}
