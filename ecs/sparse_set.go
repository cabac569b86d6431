package ecs

import "github.com/rotisserie/eris"

// MaxEntities is the hard ceiling on the key universe of every structure.
const MaxEntities = 1 << 20

const absent int32 = -1

// SparseSet maps keys from a bounded universe [0, Cap()) to packed dense
// positions.
//
// For every present key k, dense[sparse[k]] == k. Removal swaps the last dense
// entry into the vacated position, so dense order is not insertion order once
// anything has been removed.
type SparseSet struct {
	sparse []int32
	dense  *IntArray
}

// NewSparseSet creates an empty set over keys [0, capacity).
func NewSparseSet(capacity int) (*SparseSet, error) {
	return newSparseSet(capacity, 0)
}

func newSparseSet(capacity, denseCapacity int) (*SparseSet, error) {
	if capacity <= 0 || capacity > MaxEntities {
		return nil, eris.Wrapf(ErrInvalidArgument, "sparse set capacity %d outside (0, %d]", capacity, MaxEntities)
	}
	dense, err := NewArray[int32](min(denseCapacity, capacity))
	if err != nil {
		return nil, err
	}
	sparse := make([]int32, capacity)
	for i := range sparse {
		sparse[i] = absent
	}
	return &SparseSet{sparse: sparse, dense: dense}, nil
}

// Add inserts key. It returns false without error if key is already present.
func (s *SparseSet) Add(key int) (bool, error) {
	if key < 0 || key >= len(s.sparse) {
		return false, eris.Wrapf(ErrInvalidArgument, "key %d outside [0, %d)", key, len(s.sparse))
	}
	if s.sparse[key] != absent {
		return false, nil
	}
	s.sparse[key] = int32(s.dense.Len())
	s.dense.Add(int32(key))
	return true, nil
}

// Remove deletes key using swap-with-last. It returns false if key is absent.
func (s *SparseSet) Remove(key int) bool {
	if !s.Contains(key) {
		return false
	}

	idx := s.sparse[key]
	last := s.dense.Len() - 1
	lastKey := s.dense.data[last]

	s.dense.data[idx] = lastKey
	s.sparse[lastKey] = idx
	_ = s.dense.Truncate(last)
	s.sparse[key] = absent
	return true
}

// Contains reports whether key is present. Out of range keys are simply absent.
func (s *SparseSet) Contains(key int) bool {
	if key < 0 || key >= len(s.sparse) {
		return false
	}
	return s.sparse[key] != absent
}

// IndexOf returns the dense position of key.
func (s *SparseSet) IndexOf(key int) (int, error) {
	if !s.Contains(key) {
		return -1, eris.Wrapf(ErrUnknownHandle, "key %d", key)
	}
	return int(s.sparse[key]), nil
}

// KeyAt returns the key stored at dense position i.
func (s *SparseSet) KeyAt(i int) (int, error) {
	v, err := s.dense.Get(i)
	if err != nil {
		return -1, err
	}
	return int(v), nil
}

// Len returns the number of present keys.
func (s *SparseSet) Len() int {
	return s.dense.Len()
}

// Cap returns the size of the key universe.
func (s *SparseSet) Cap() int {
	return len(s.sparse)
}

// Keys returns a copy of the dense key list.
func (s *SparseSet) Keys() []int32 {
	return s.dense.ToArray()
}

// Clear removes every key.
func (s *SparseSet) Clear() {
	for _, k := range s.dense.View() {
		s.sparse[k] = absent
	}
	s.dense.Clear()
}

func (s *SparseSet) keysView() []int32 {
	return s.dense.View()
}
