package ecs

// ComponentStore is the kind-agnostic view of a scalar or vector store. The
// World uses it to cascade removals and the debug UI uses it for inspection.
type ComponentStore interface {
	Remove(id EntityId) error
	Contains(id EntityId) bool
	Len() int
	MaxCapacity() int
	EntityIds() []EntityId
	// ValuesOf returns the entity's values widened to float64.
	ValuesOf(id EntityId) ([]float64, bool)
	// SetValuesOf narrows vals to the element type and overwrites the
	// entity's values. len(vals) must equal the store width.
	SetValuesOf(id EntityId, vals []float64) error
	Stats() StoreStats
	Clear()
}

// StoreStats describes the occupancy of a component store.
type StoreStats struct {
	Len           int
	MaxCapacity   int
	Width         int
	ValueCapacity int
}

var (
	_ ComponentStore = (*ScalarStorage[float64])(nil)
	_ ComponentStore = (*VectorStorage[float64])(nil)
)
