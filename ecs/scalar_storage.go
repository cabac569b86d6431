package ecs

import "iter"

// ScalarStorage stores one value per entity, packed contiguously.
//
// Like every structure in this package it assumes a single writer. Values
// returns the live buffer, not a copy.
type ScalarStorage[T Number] struct {
	store *packedStore[T]
}

// NewScalarStorage creates an empty store bounded by cfg.
func NewScalarStorage[T Number](cfg StoreConfig) (*ScalarStorage[T], error) {
	store, err := newPackedStore[T](cfg, 1)
	if err != nil {
		return nil, err
	}
	return &ScalarStorage[T]{store: store}, nil
}

// Add registers id with value v.
func (s *ScalarStorage[T]) Add(id EntityId, v T) error {
	return s.store.add(id, v)
}

// Remove drops id, moving the last entry into its slot.
func (s *ScalarStorage[T]) Remove(id EntityId) error {
	return s.store.remove(id)
}

// Get returns the value held for id.
func (s *ScalarStorage[T]) Get(id EntityId) (T, error) {
	return s.store.get(id, 0)
}

// Set overwrites the value held for id.
func (s *ScalarStorage[T]) Set(id EntityId, v T) error {
	return s.store.set1(id, 0, v)
}

// Contains reports whether id has a value. It never fails.
func (s *ScalarStorage[T]) Contains(id EntityId) bool {
	return s.store.contains(id)
}

// Len returns the number of stored entities.
func (s *ScalarStorage[T]) Len() int {
	return s.store.set.Len()
}

// MaxCapacity returns the configured entity limit.
func (s *ScalarStorage[T]) MaxCapacity() int {
	return s.store.maxCapacity
}

// EntityIds returns a snapshot of the stored handles, index-parallel to Values.
func (s *ScalarStorage[T]) EntityIds() []EntityId {
	return s.store.entityIds()
}

// Values returns the packed values. The slice aliases the store's buffer and
// must not be modified or retained across Add and Remove calls.
func (s *ScalarStorage[T]) Values() []T {
	return s.store.values.View()
}

// All iterates handles and values in packed order.
func (s *ScalarStorage[T]) All() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		keys := s.store.set.keysView()
		values := s.store.values.View()
		for i, k := range keys {
			if !yield(EntityId(k), values[i]) {
				return
			}
		}
	}
}

// ValuesOf implements ComponentStore.
func (s *ScalarStorage[T]) ValuesOf(id EntityId) ([]float64, bool) {
	return s.store.valuesOf(id)
}

// SetValuesOf implements ComponentStore.
func (s *ScalarStorage[T]) SetValuesOf(id EntityId, vals []float64) error {
	return s.store.setValuesOf(id, vals)
}

// Stats implements ComponentStore.
func (s *ScalarStorage[T]) Stats() StoreStats {
	return s.store.stats()
}

// Clear removes every entry.
func (s *ScalarStorage[T]) Clear() {
	s.store.clear()
}
