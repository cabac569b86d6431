package ecs

import (
	"iter"
	"math/bits"

	"github.com/rotisserie/eris"
)

// EntityId is a recyclable handle in [0, capacity). It carries no data; it is a
// key into the EntityManager and into every component store.
type EntityId int32

// ComponentKind is a bit position in a Mask.
type ComponentKind uint8

// MaxComponentKinds is the width of a Mask.
const MaxComponentKinds = 64

// Mask is the set of component kinds an entity holds.
type Mask uint64

// MaskOf builds a mask from kinds. Kinds outside the mask width are ignored.
func MaskOf(kinds ...ComponentKind) Mask {
	var m Mask
	for _, k := range kinds {
		m = m.With(k)
	}
	return m
}

// Has reports whether kind is in the mask.
func (m Mask) Has(kind ComponentKind) bool {
	return kind < MaxComponentKinds && m&(1<<kind) != 0
}

// With returns the mask with kind added.
func (m Mask) With(kind ComponentKind) Mask {
	if kind >= MaxComponentKinds {
		return m
	}
	return m | 1<<kind
}

// Without returns the mask with kind removed.
func (m Mask) Without(kind ComponentKind) Mask {
	if kind >= MaxComponentKinds {
		return m
	}
	return m &^ (1 << kind)
}

// Contains reports whether every kind in other is also in m.
func (m Mask) Contains(other Mask) bool {
	return m&other == other
}

// Intersects reports whether m and other share any kind.
func (m Mask) Intersects(other Mask) bool {
	return m&other != 0
}

// Count returns the number of kinds in the mask.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// Kinds returns the kinds in the mask in ascending order.
func (m Mask) Kinds() []ComponentKind {
	kinds := make([]ComponentKind, 0, m.Count())
	for rest := uint64(m); rest != 0; rest &= rest - 1 {
		kinds = append(kinds, ComponentKind(bits.TrailingZeros64(rest)))
	}
	return kinds
}

type entityRecord struct {
	id   EntityId
	mask Mask
}

// EntityManager owns entity identity and each live entity's component mask.
//
// Handles are allocated sequentially until the free stack holds a destroyed
// one, which is always reused first (last destroyed, first reused). Destroy
// does not touch component stores: keeping stores in step with the mask is the
// caller's job (see World.Destroy).
//
// EntityManager is not safe for concurrent use.
type EntityManager struct {
	records []entityRecord
	sparse  []int32
	free    []EntityId
	next    int
}

// NewEntityManager creates a manager whose handles are drawn from [0, capacity).
func NewEntityManager(capacity int) (*EntityManager, error) {
	if capacity <= 0 || capacity > MaxEntities {
		return nil, eris.Wrapf(ErrInvalidArgument, "entity capacity %d outside (0, %d]", capacity, MaxEntities)
	}
	sparse := make([]int32, capacity)
	for i := range sparse {
		sparse[i] = absent
	}
	return &EntityManager{
		records: make([]entityRecord, 0, min(capacity, 256)),
		sparse:  sparse,
	}, nil
}

// Create returns a fresh handle with an empty mask.
func (m *EntityManager) Create() (EntityId, error) {
	var id EntityId
	if n := len(m.free); n > 0 {
		id = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		if m.next >= len(m.sparse) {
			return -1, eris.Wrapf(ErrCapacityExceeded, "all %d entity handles are live", len(m.sparse))
		}
		id = EntityId(m.next)
		m.next++
	}

	m.sparse[id] = int32(len(m.records))
	m.records = append(m.records, entityRecord{id: id})
	return id, nil
}

// Destroy invalidates id and recycles it. It returns false if id is not live.
func (m *EntityManager) Destroy(id EntityId) bool {
	if !m.HasEntity(id) {
		return false
	}

	idx := m.sparse[id]
	last := len(m.records) - 1
	moved := m.records[last]

	m.records[idx] = moved
	m.sparse[moved.id] = idx
	m.records = m.records[:last]
	m.sparse[id] = absent

	m.free = append(m.free, id)
	return true
}

// HasEntity reports whether id is live. It never fails.
func (m *EntityManager) HasEntity(id EntityId) bool {
	if id < 0 || int(id) >= len(m.sparse) {
		return false
	}
	return m.sparse[id] != absent
}

// ComponentMask returns the mask of a live entity.
func (m *EntityManager) ComponentMask(id EntityId) (Mask, error) {
	rec, err := m.record(id)
	if err != nil {
		return 0, err
	}
	return rec.mask, nil
}

// AddComponentBit sets kind in the mask of a live entity.
func (m *EntityManager) AddComponentBit(id EntityId, kind ComponentKind) error {
	rec, err := m.record(id)
	if err != nil {
		return err
	}
	if kind >= MaxComponentKinds {
		return eris.Wrapf(ErrInvalidArgument, "component kind %d outside [0, %d)", kind, MaxComponentKinds)
	}
	rec.mask = rec.mask.With(kind)
	return nil
}

// RemoveComponentBit clears kind in the mask of a live entity.
func (m *EntityManager) RemoveComponentBit(id EntityId, kind ComponentKind) error {
	rec, err := m.record(id)
	if err != nil {
		return err
	}
	if kind >= MaxComponentKinds {
		return eris.Wrapf(ErrInvalidArgument, "component kind %d outside [0, %d)", kind, MaxComponentKinds)
	}
	rec.mask = rec.mask.Without(kind)
	return nil
}

// HasComponentBit reports whether id is live and holds kind.
func (m *EntityManager) HasComponentBit(id EntityId, kind ComponentKind) bool {
	if !m.HasEntity(id) {
		return false
	}
	return m.records[m.sparse[id]].mask.Has(kind)
}

func (m *EntityManager) record(id EntityId) (*entityRecord, error) {
	if !m.HasEntity(id) {
		return nil, eris.Wrapf(ErrUnknownHandle, "entity %d is not live", id)
	}
	return &m.records[m.sparse[id]], nil
}

// Len returns the number of live entities.
func (m *EntityManager) Len() int {
	return len(m.records)
}

// Cap returns the size of the handle universe.
func (m *EntityManager) Cap() int {
	return len(m.sparse)
}

// FreeCount returns how many destroyed handles are waiting to be reused.
func (m *EntityManager) FreeCount() int {
	return len(m.free)
}

// Entities returns a copy of the live handles in dense order.
func (m *EntityManager) Entities() []EntityId {
	ids := make([]EntityId, len(m.records))
	for i, rec := range m.records {
		ids[i] = rec.id
	}
	return ids
}

// All iterates live entities and their masks in dense order. The manager must
// not be mutated during iteration.
func (m *EntityManager) All() iter.Seq2[EntityId, Mask] {
	return func(yield func(EntityId, Mask) bool) {
		for _, rec := range m.records {
			if !yield(rec.id, rec.mask) {
				return
			}
		}
	}
}

// Clear destroys every entity and resets handle allocation.
func (m *EntityManager) Clear() {
	for _, rec := range m.records {
		m.sparse[rec.id] = absent
	}
	m.records = m.records[:0]
	m.free = m.free[:0]
	m.next = 0
}
