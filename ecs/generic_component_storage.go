package ecs

import (
	"github.com/rotisserie/eris"
)

// StoreConfig bounds a component store. InitialCapacity sizes the packed value
// buffer; MaxCapacity is both the handle universe and the most entries the
// store will ever hold.
type StoreConfig struct {
	InitialCapacity int
	MaxCapacity     int
}

// Validate checks 0 < InitialCapacity <= MaxCapacity <= MaxEntities.
func (c StoreConfig) Validate() error {
	if c.InitialCapacity <= 0 {
		return eris.Wrapf(ErrInvalidArgument, "initial capacity %d must be positive", c.InitialCapacity)
	}
	if c.InitialCapacity > c.MaxCapacity {
		return eris.Wrapf(ErrInvalidArgument, "initial capacity %d exceeds max capacity %d",
			c.InitialCapacity, c.MaxCapacity)
	}
	if c.MaxCapacity > MaxEntities {
		return eris.Wrapf(ErrInvalidArgument, "max capacity %d exceeds %d", c.MaxCapacity, MaxEntities)
	}
	return nil
}

// packedStore keeps width values per entity in one array, index-parallel to
// the dense list of a sparse set over entity handles. Scalar and vector stores
// are thin typed fronts over it.
type packedStore[T Number] struct {
	set         *SparseSet
	values      *Array[T]
	width       int
	maxCapacity int
}

func newPackedStore[T Number](cfg StoreConfig, width int) (*packedStore[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	set, err := newSparseSet(cfg.MaxCapacity, cfg.InitialCapacity)
	if err != nil {
		return nil, err
	}
	values, err := NewArray[T](cfg.InitialCapacity * width)
	if err != nil {
		return nil, err
	}
	return &packedStore[T]{
		set:         set,
		values:      values,
		width:       width,
		maxCapacity: cfg.MaxCapacity,
	}, nil
}

// add checks every precondition before touching either structure.
func (s *packedStore[T]) add(id EntityId, vals ...T) error {
	if s.set.Len() >= s.maxCapacity {
		return eris.Wrapf(ErrCapacityExceeded, "store holds its maximum of %d entities", s.maxCapacity)
	}
	if id < 0 || int(id) >= s.maxCapacity {
		return eris.Wrapf(ErrInvalidArgument, "entity %d outside [0, %d)", id, s.maxCapacity)
	}
	if s.set.Contains(int(id)) {
		return eris.Wrapf(ErrDuplicateHandle, "entity %d already in store", id)
	}

	for _, v := range vals {
		s.values.Add(v)
	}
	if _, err := s.set.Add(int(id)); err != nil {
		_ = s.values.Truncate(s.values.Len() - len(vals))
		return err
	}
	return nil
}

// remove mirrors the sparse set's swap-with-last on the value slots: the last
// entity's values move into the vacated slots before the tail is cut.
func (s *packedStore[T]) remove(id EntityId) error {
	idx, err := s.set.IndexOf(int(id))
	if err != nil {
		return eris.Wrapf(ErrUnknownHandle, "entity %d not in store", id)
	}

	last := s.set.Len() - 1
	if idx != last {
		dst := idx * s.width
		src := last * s.width
		copy(s.values.data[dst:dst+s.width], s.values.data[src:src+s.width])
	}
	s.set.Remove(int(id))
	return s.values.Truncate(last * s.width)
}

func (s *packedStore[T]) slot(id EntityId) (int, error) {
	idx, err := s.set.IndexOf(int(id))
	if err != nil {
		return -1, eris.Wrapf(ErrUnknownHandle, "entity %d not in store", id)
	}
	return idx * s.width, nil
}

func (s *packedStore[T]) get(id EntityId, offset int) (T, error) {
	base, err := s.slot(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.values.data[base+offset], nil
}

func (s *packedStore[T]) set1(id EntityId, offset int, v T) error {
	base, err := s.slot(id)
	if err != nil {
		return err
	}
	s.values.data[base+offset] = v
	return nil
}

func (s *packedStore[T]) contains(id EntityId) bool {
	return s.set.Contains(int(id))
}

func (s *packedStore[T]) entityIds() []EntityId {
	keys := s.set.keysView()
	ids := make([]EntityId, len(keys))
	for i, k := range keys {
		ids[i] = EntityId(k)
	}
	return ids
}

func (s *packedStore[T]) valuesOf(id EntityId) ([]float64, bool) {
	base, err := s.slot(id)
	if err != nil {
		return nil, false
	}
	out := make([]float64, s.width)
	for i := range out {
		out[i] = float64(s.values.data[base+i])
	}
	return out, true
}

func (s *packedStore[T]) setValuesOf(id EntityId, vals []float64) error {
	if len(vals) != s.width {
		return eris.Wrapf(ErrInvalidArgument, "%d values for a store of width %d", len(vals), s.width)
	}
	base, err := s.slot(id)
	if err != nil {
		return err
	}
	for i, v := range vals {
		s.values.data[base+i] = T(v)
	}
	return nil
}

func (s *packedStore[T]) stats() StoreStats {
	return StoreStats{
		Len:           s.set.Len(),
		MaxCapacity:   s.maxCapacity,
		Width:         s.width,
		ValueCapacity: s.values.Cap(),
	}
}

func (s *packedStore[T]) clear() {
	s.set.Clear()
	s.values.Clear()
}
