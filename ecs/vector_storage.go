package ecs

import "iter"

// VectorStorage stores an (x, y) pair per entity, interleaved in one packed
// buffer: entity at dense index i owns slots 2i and 2i+1.
type VectorStorage[T Number] struct {
	store *packedStore[T]
}

// NewVectorStorage creates an empty store bounded by cfg.
func NewVectorStorage[T Number](cfg StoreConfig) (*VectorStorage[T], error) {
	store, err := newPackedStore[T](cfg, 2)
	if err != nil {
		return nil, err
	}
	return &VectorStorage[T]{store: store}, nil
}

func (s *VectorStorage[T]) Add(id EntityId, x, y T) error {
	return s.store.add(id, x, y)
}

func (s *VectorStorage[T]) Remove(id EntityId) error {
	return s.store.remove(id)
}

// Get returns both components held for id.
func (s *VectorStorage[T]) Get(id EntityId) (x, y T, err error) {
	base, err := s.store.slot(id)
	if err != nil {
		return x, y, err
	}
	data := s.store.values.data
	return data[base], data[base+1], nil
}

// Set overwrites both components held for id.
func (s *VectorStorage[T]) Set(id EntityId, x, y T) error {
	base, err := s.store.slot(id)
	if err != nil {
		return err
	}
	data := s.store.values.data
	data[base] = x
	data[base+1] = y
	return nil
}

func (s *VectorStorage[T]) GetX(id EntityId) (T, error) {
	return s.store.get(id, 0)
}

func (s *VectorStorage[T]) GetY(id EntityId) (T, error) {
	return s.store.get(id, 1)
}

func (s *VectorStorage[T]) SetX(id EntityId, x T) error {
	return s.store.set1(id, 0, x)
}

func (s *VectorStorage[T]) SetY(id EntityId, y T) error {
	return s.store.set1(id, 1, y)
}

func (s *VectorStorage[T]) Contains(id EntityId) bool {
	return s.store.contains(id)
}

func (s *VectorStorage[T]) Len() int {
	return s.store.set.Len()
}

func (s *VectorStorage[T]) MaxCapacity() int {
	return s.store.maxCapacity
}

// EntityIds returns a snapshot of the stored handles in packed order.
func (s *VectorStorage[T]) EntityIds() []EntityId {
	return s.store.entityIds()
}

// Values returns the interleaved buffer (x0, y0, x1, y1, ...). It aliases the
// store and must be treated as read-only.
func (s *VectorStorage[T]) Values() []T {
	return s.store.values.View()
}

// All iterates handles and their (x, y) pairs in packed order.
func (s *VectorStorage[T]) All() iter.Seq2[EntityId, [2]T] {
	return func(yield func(EntityId, [2]T) bool) {
		keys := s.store.set.keysView()
		values := s.store.values.View()
		for i, k := range keys {
			if !yield(EntityId(k), [2]T{values[2*i], values[2*i+1]}) {
				return
			}
		}
	}
}

func (s *VectorStorage[T]) ValuesOf(id EntityId) ([]float64, bool) {
	return s.store.valuesOf(id)
}

func (s *VectorStorage[T]) SetValuesOf(id EntityId, vals []float64) error {
	return s.store.setValuesOf(id, vals)
}

func (s *VectorStorage[T]) Stats() StoreStats {
	return s.store.stats()
}

func (s *VectorStorage[T]) Clear() {
	s.store.clear()
}
