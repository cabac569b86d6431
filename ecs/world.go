package ecs

import (
	"errors"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// DestroyHook observes an entity being destroyed through World.Destroy, after
// its components were removed and before its handle is recycled.
type DestroyHook func(id EntityId, mask Mask)

type kindEntry struct {
	name   string
	store  ComponentStore
	attach func(id EntityId) error
}

// World wires an EntityManager to the component stores registered for each
// kind and keeps entity masks in step with store membership for every change
// made through it. Stores can still be used directly; whoever does so owns
// that consistency.
//
// A World is not safe for concurrent use. Guard the whole World with one lock
// if several goroutines need it.
type World struct {
	entities   *EntityManager
	kinds      []*kindEntry
	archetypes *ArchetypeTable
	hooks      []DestroyHook
	logger     zerolog.Logger
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithLogger sets the logger used for registration and consistency warnings.
// The default discards everything.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// WithDestroyHook registers a hook run by every World.Destroy.
func WithDestroyHook(hook DestroyHook) WorldOption {
	return func(w *World) {
		w.hooks = append(w.hooks, hook)
	}
}

// NewWorld creates a world whose entity handles are drawn from [0, capacity).
func NewWorld(capacity int, opts ...WorldOption) (*World, error) {
	entities, err := NewEntityManager(capacity)
	if err != nil {
		return nil, err
	}
	w := &World{
		entities:   entities,
		archetypes: NewArchetypeTable(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// OnDestroy adds a destroy hook after construction.
func (w *World) OnDestroy(hook DestroyHook) {
	w.hooks = append(w.hooks, hook)
}

// Entities returns the underlying entity manager.
func (w *World) Entities() *EntityManager {
	return w.entities
}

// Archetypes returns the archetype table.
func (w *World) Archetypes() *ArchetypeTable {
	return w.archetypes
}

func (w *World) registerKind(name string, store ComponentStore, attach func(EntityId) error) (ComponentKind, error) {
	if name == "" {
		return 0, eris.Wrap(ErrInvalidArgument, "component kind needs a name")
	}
	if len(w.kinds) >= MaxComponentKinds {
		return 0, eris.Wrapf(ErrCapacityExceeded, "at most %d component kinds", MaxComponentKinds)
	}
	for _, k := range w.kinds {
		if k.name == name {
			return 0, eris.Wrapf(ErrDuplicateHandle, "component kind %q already registered", name)
		}
	}

	kind := ComponentKind(len(w.kinds))
	w.kinds = append(w.kinds, &kindEntry{name: name, store: store, attach: attach})
	w.logger.Debug().
		Int("component_id", int(kind)).
		Str("component_name", name).
		Int("max_capacity", store.MaxCapacity()).
		Msg("registered component kind")
	return kind, nil
}

// RegisterScalar creates a scalar store for a new component kind. def is the
// value an archetype spawn gives new entities.
func RegisterScalar[T Number](w *World, name string, cfg StoreConfig, def T) (ComponentKind, *ScalarStorage[T], error) {
	store, err := NewScalarStorage[T](cfg)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "component kind %q", name)
	}
	kind, err := w.registerKind(name, store, func(id EntityId) error {
		return store.Add(id, def)
	})
	if err != nil {
		return 0, nil, err
	}
	return kind, store, nil
}

// RegisterVector creates a vector store for a new component kind. (defX, defY)
// is the value an archetype spawn gives new entities.
func RegisterVector[T Number](w *World, name string, cfg StoreConfig, defX, defY T) (ComponentKind, *VectorStorage[T], error) {
	store, err := NewVectorStorage[T](cfg)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "component kind %q", name)
	}
	kind, err := w.registerKind(name, store, func(id EntityId) error {
		return store.Add(id, defX, defY)
	})
	if err != nil {
		return 0, nil, err
	}
	return kind, store, nil
}

func (w *World) entry(kind ComponentKind) (*kindEntry, error) {
	if int(kind) >= len(w.kinds) {
		return nil, eris.Wrapf(ErrInvalidArgument, "component kind %d is not registered", kind)
	}
	return w.kinds[kind], nil
}

// Store returns the store registered for kind.
func (w *World) Store(kind ComponentKind) (ComponentStore, bool) {
	e, err := w.entry(kind)
	if err != nil {
		return nil, false
	}
	return e.store, true
}

// KindName returns the registered name of kind, or "" if unknown.
func (w *World) KindName(kind ComponentKind) string {
	e, err := w.entry(kind)
	if err != nil {
		return ""
	}
	return e.name
}

// Kinds returns every registered kind in registration order.
func (w *World) Kinds() []ComponentKind {
	kinds := make([]ComponentKind, len(w.kinds))
	for i := range w.kinds {
		kinds[i] = ComponentKind(i)
	}
	return kinds
}

// RegisterArchetype defines and registers an archetype over registered kinds.
func (w *World) RegisterArchetype(name string, kinds ...ComponentKind) (*Archetype, error) {
	for _, k := range kinds {
		if _, err := w.entry(k); err != nil {
			return nil, eris.Wrapf(err, "archetype %q", name)
		}
	}
	a := NewArchetype(name, kinds...)
	if err := w.archetypes.Register(a); err != nil {
		return nil, err
	}
	w.logger.Debug().Str("archetype", name).Uint64("mask", uint64(a.Mask())).Msg("registered archetype")
	return a, nil
}

// Create makes an entity with no components.
func (w *World) Create() (EntityId, error) {
	return w.entities.Create()
}

// Spawn creates an entity holding the default value of every kind in a.
// Either every component is attached or the world is left as it was.
func (w *World) Spawn(a *Archetype) (EntityId, error) {
	if a == nil {
		return -1, eris.Wrap(ErrInvalidArgument, "nil archetype")
	}
	entries := make([]*kindEntry, 0, len(a.kinds))
	for _, k := range a.kinds {
		e, err := w.entry(k)
		if err != nil {
			return -1, eris.Wrapf(err, "archetype %q", a.name)
		}
		if e.store.Len() >= e.store.MaxCapacity() {
			return -1, eris.Wrapf(ErrCapacityExceeded, "archetype %q: store %q is full", a.name, e.name)
		}
		entries = append(entries, e)
	}

	id, err := w.entities.Create()
	if err != nil {
		return -1, err
	}
	for _, e := range entries {
		if int(id) >= e.store.MaxCapacity() {
			w.entities.Destroy(id)
			return -1, eris.Wrapf(ErrInvalidArgument, "archetype %q: entity %d outside store %q", a.name, id, e.name)
		}
		if e.store.Contains(id) {
			w.entities.Destroy(id)
			return -1, eris.Wrapf(ErrDuplicateHandle, "archetype %q: store %q still holds entity %d", a.name, e.name, id)
		}
	}

	for i, e := range entries {
		if err := e.attach(id); err != nil {
			w.logger.Error().Err(err).Int32("entity_id", int32(id)).Str("component_name", e.name).Msg("spawn attach failed")
			for _, done := range entries[:i] {
				_ = done.store.Remove(id)
			}
			w.entities.Destroy(id)
			return -1, err
		}
		_ = w.entities.AddComponentBit(id, a.kinds[i])
	}
	return id, nil
}

// Destroy removes id from every store its mask names, runs destroy hooks and
// recycles the handle.
func (w *World) Destroy(id EntityId) error {
	mask, err := w.entities.ComponentMask(id)
	if err != nil {
		return err
	}

	for _, kind := range mask.Kinds() {
		e, err := w.entry(kind)
		if err != nil {
			continue
		}
		if err := e.store.Remove(id); err != nil {
			if !errors.Is(err, ErrUnknownHandle) {
				return err
			}
			w.logger.Warn().
				Int32("entity_id", int32(id)).
				Str("component_name", e.name).
				Msg("mask names a component the store does not hold")
		}
	}

	for _, hook := range w.hooks {
		hook(id, mask)
	}
	w.entities.Destroy(id)
	return nil
}

// Detach removes kind from id, in the store and in the mask.
func (w *World) Detach(id EntityId, kind ComponentKind) error {
	e, err := w.entry(kind)
	if err != nil {
		return err
	}
	if !w.entities.HasEntity(id) {
		return eris.Wrapf(ErrUnknownHandle, "entity %d is not live", id)
	}
	if err := e.store.Remove(id); err != nil {
		return err
	}
	return w.entities.RemoveComponentBit(id, kind)
}

// Has reports whether id is live and holds kind.
func (w *World) Has(id EntityId, kind ComponentKind) bool {
	return w.entities.HasComponentBit(id, kind)
}

// ScalarStore returns the scalar store registered for kind.
func ScalarStore[T Number](w *World, kind ComponentKind) (*ScalarStorage[T], error) {
	e, err := w.entry(kind)
	if err != nil {
		return nil, err
	}
	store, ok := e.store.(*ScalarStorage[T])
	if !ok {
		return nil, eris.Wrapf(ErrInvalidArgument, "component kind %q is not a scalar store of that type", e.name)
	}
	return store, nil
}

// VectorStore returns the vector store registered for kind.
func VectorStore[T Number](w *World, kind ComponentKind) (*VectorStorage[T], error) {
	e, err := w.entry(kind)
	if err != nil {
		return nil, err
	}
	store, ok := e.store.(*VectorStorage[T])
	if !ok {
		return nil, eris.Wrapf(ErrInvalidArgument, "component kind %q is not a vector store of that type", e.name)
	}
	return store, nil
}

// SetScalar attaches or overwrites the scalar component kind on id.
func SetScalar[T Number](w *World, kind ComponentKind, id EntityId, v T) error {
	store, err := ScalarStore[T](w, kind)
	if err != nil {
		return err
	}
	if !w.entities.HasEntity(id) {
		return eris.Wrapf(ErrUnknownHandle, "entity %d is not live", id)
	}
	if store.Contains(id) {
		return store.Set(id, v)
	}
	if err := store.Add(id, v); err != nil {
		return err
	}
	return w.entities.AddComponentBit(id, kind)
}

// SetVector attaches or overwrites the vector component kind on id.
func SetVector[T Number](w *World, kind ComponentKind, id EntityId, x, y T) error {
	store, err := VectorStore[T](w, kind)
	if err != nil {
		return err
	}
	if !w.entities.HasEntity(id) {
		return eris.Wrapf(ErrUnknownHandle, "entity %d is not live", id)
	}
	if store.Contains(id) {
		return store.Set(id, x, y)
	}
	if err := store.Add(id, x, y); err != nil {
		return err
	}
	return w.entities.AddComponentBit(id, kind)
}

// KindStats describes one registered kind.
type KindStats struct {
	Kind ComponentKind
	Name string
	StoreStats
}

// WorldStats is a point-in-time summary of a World.
type WorldStats struct {
	LiveEntities   int
	EntityCapacity int
	FreeHandles    int
	ArchetypeCount int
	Kinds          []KindStats
}

// CollectStats summarizes entity and store occupancy.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		LiveEntities:   w.entities.Len(),
		EntityCapacity: w.entities.Cap(),
		FreeHandles:    w.entities.FreeCount(),
		ArchetypeCount: w.archetypes.Len(),
		Kinds:          make([]KindStats, len(w.kinds)),
	}
	for i, e := range w.kinds {
		stats.Kinds[i] = KindStats{
			Kind:       ComponentKind(i),
			Name:       e.name,
			StoreStats: e.store.Stats(),
		}
	}
	return stats
}
