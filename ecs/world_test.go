package ecs_test

import (
	"bytes"
	"testing"

	"github.com/plus3/packstore/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldSpawnArchetype(t *testing.T) {
	w := newTestWorld(t, 16)

	id, err := w.Spawn(w.Mover)
	require.NoError(t, err)

	mask, err := w.Entities().ComponentMask(id)
	require.NoError(t, err)
	assert.Equal(t, w.Mover.Mask(), mask)

	assert.True(t, w.Positions.Contains(id))
	assert.True(t, w.Velocities.Contains(id))
	assert.False(t, w.Healths.Contains(id))

	m, err := w.Masses.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m, "default value")

	unit, err := w.Spawn(w.Unit)
	require.NoError(t, err)
	hp, err := w.Healths.Get(unit)
	require.NoError(t, err)
	assert.Equal(t, int32(100), hp)
}

func TestWorldDestroyCascades(t *testing.T) {
	w := newTestWorld(t, 16)

	a, _ := w.Spawn(w.Mover)
	b, _ := w.Spawn(w.Body)
	require.NoError(t, ecs.SetVector(w.World, w.Position, b, 3.0, 4.0))

	require.NoError(t, w.Destroy(a))
	assert.False(t, w.Entities().HasEntity(a))
	assert.False(t, w.Positions.Contains(a))
	assert.False(t, w.Velocities.Contains(a))
	assert.False(t, w.Masses.Contains(a))

	x, y, err := w.Positions.Get(b)
	require.NoError(t, err)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)

	assert.ErrorIs(t, w.Destroy(a), ecs.ErrUnknownHandle)
}

func TestEntityManagerDestroyDoesNotCascade(t *testing.T) {
	w := newTestWorld(t, 16)
	id, err := w.Spawn(w.Body)
	require.NoError(t, err)

	// Destroying through the bare manager leaves store data behind.
	require.True(t, w.Entities().Destroy(id))
	assert.True(t, w.Positions.Contains(id))
	assert.True(t, w.Masses.Contains(id))

	// The recycled handle comes back with an empty mask while the stores
	// still report the stale entries.
	again, err := w.Create()
	require.NoError(t, err)
	require.Equal(t, id, again)
	mask, err := w.Entities().ComponentMask(again)
	require.NoError(t, err)
	assert.Equal(t, ecs.Mask(0), mask)
	assert.True(t, w.Positions.Contains(again))

	require.NoError(t, w.Destroy(again))
	_, err = w.Spawn(w.Body)
	assert.ErrorIs(t, err, ecs.ErrDuplicateHandle)
	assert.Equal(t, 0, w.Entities().Len())
}

func TestWorldSpawnIsAtomic(t *testing.T) {
	w, err := ecs.NewWorld(8)
	require.NoError(t, err)

	big, _, err := ecs.RegisterScalar[int32](w, "big", storeConfig(1, 8), 0)
	require.NoError(t, err)
	small, smallStore, err := ecs.RegisterScalar[int32](w, "small", storeConfig(1, 1), 0)
	require.NoError(t, err)
	arch, err := w.RegisterArchetype("both", big, small)
	require.NoError(t, err)

	_, err = w.Spawn(arch)
	require.NoError(t, err)
	assert.Equal(t, 1, smallStore.Len())

	_, err = w.Spawn(arch)
	assert.ErrorIs(t, err, ecs.ErrCapacityExceeded)
	assert.Equal(t, 1, w.Entities().Len(), "no entity is left behind")

	bigStore, err := ecs.ScalarStore[int32](w, big)
	require.NoError(t, err)
	assert.Equal(t, 1, bigStore.Len())
}

func TestWorldSpawnHandleOutsideStore(t *testing.T) {
	w, err := ecs.NewWorld(4)
	require.NoError(t, err)

	narrow, _, err := ecs.RegisterScalar[int32](w, "narrow", storeConfig(1, 2), 0)
	require.NoError(t, err)
	arch, err := w.RegisterArchetype("narrow", narrow)
	require.NoError(t, err)

	_, _ = w.Create()
	_, _ = w.Create()
	_, err = w.Spawn(arch)
	assert.ErrorIs(t, err, ecs.ErrInvalidArgument)
	assert.Equal(t, 2, w.Entities().Len())
}

func TestWorldSetAndDetach(t *testing.T) {
	w := newTestWorld(t, 16)
	id, err := w.Create()
	require.NoError(t, err)

	require.NoError(t, ecs.SetScalar(w.World, w.Health, id, int32(5)))
	assert.True(t, w.Has(id, w.Health))
	require.NoError(t, ecs.SetScalar(w.World, w.Health, id, int32(6)))
	hp, _ := w.Healths.Get(id)
	assert.Equal(t, int32(6), hp)

	require.NoError(t, w.Detach(id, w.Health))
	assert.False(t, w.Has(id, w.Health))
	assert.False(t, w.Healths.Contains(id))
	assert.ErrorIs(t, w.Detach(id, w.Health), ecs.ErrUnknownHandle)

	assert.ErrorIs(t, ecs.SetScalar(w.World, w.Health, id, 1.5), ecs.ErrInvalidArgument, "wrong value type")
	assert.ErrorIs(t, ecs.SetVector(w.World, w.Health, id, int32(1), int32(1)), ecs.ErrInvalidArgument, "wrong store shape")
	assert.ErrorIs(t, ecs.SetScalar(w.World, w.Health, 15, int32(1)), ecs.ErrUnknownHandle)
	assert.ErrorIs(t, w.Detach(id, 42), ecs.ErrInvalidArgument)
}

func TestWorldRegistrationErrors(t *testing.T) {
	w := newTestWorld(t, 8)

	_, _, err := ecs.RegisterScalar[int32](w.World, "health", storeConfig(1, 8), 0)
	assert.ErrorIs(t, err, ecs.ErrDuplicateHandle)

	_, _, err = ecs.RegisterScalar[int32](w.World, "", storeConfig(1, 8), 0)
	assert.ErrorIs(t, err, ecs.ErrInvalidArgument)

	_, _, err = ecs.RegisterVector[int32](w.World, "bad", storeConfig(0, 8), 0, 0)
	assert.ErrorIs(t, err, ecs.ErrInvalidArgument)

	_, err = w.RegisterArchetype("ghost", 40)
	assert.ErrorIs(t, err, ecs.ErrInvalidArgument)

	_, err = w.RegisterArchetype("body-again", w.Mass, w.Position)
	assert.ErrorIs(t, err, ecs.ErrDuplicateHandle)

	assert.Equal(t, "velocity", w.KindName(w.Velocity))
	assert.Equal(t, "", w.KindName(50))
	assert.Len(t, w.Kinds(), 4)
}

func TestWorldKindLimit(t *testing.T) {
	w, err := ecs.NewWorld(4)
	require.NoError(t, err)

	for i := 0; i < ecs.MaxComponentKinds; i++ {
		_, _, err := ecs.RegisterScalar[uint8](w, string(rune('A'+i)), storeConfig(1, 4), 0)
		require.NoError(t, err)
	}
	_, _, err = ecs.RegisterScalar[uint8](w, "overflow", storeConfig(1, 4), 0)
	assert.ErrorIs(t, err, ecs.ErrCapacityExceeded)
}

func TestWorldDestroyHooks(t *testing.T) {
	var seen []ecs.EntityId
	w, err := ecs.NewWorld(4, ecs.WithDestroyHook(func(id ecs.EntityId, mask ecs.Mask) {
		seen = append(seen, id)
	}))
	require.NoError(t, err)

	var masks []ecs.Mask
	w.OnDestroy(func(id ecs.EntityId, mask ecs.Mask) {
		masks = append(masks, mask)
	})

	kind, _, err := ecs.RegisterScalar[int32](w, "tag", storeConfig(1, 4), 0)
	require.NoError(t, err)
	id, _ := w.Create()
	require.NoError(t, ecs.SetScalar(w, kind, id, int32(1)))
	require.NoError(t, w.Destroy(id))

	assert.Equal(t, []ecs.EntityId{id}, seen)
	assert.Equal(t, []ecs.Mask{ecs.MaskOf(kind)}, masks)
}

func TestWorldWarnsOnStaleMask(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	w, err := ecs.NewWorld(4, ecs.WithLogger(logger))
	require.NoError(t, err)
	kind, store, err := ecs.RegisterScalar[int32](w, "tag", storeConfig(1, 4), 0)
	require.NoError(t, err)

	id, _ := w.Create()
	require.NoError(t, ecs.SetScalar(w, kind, id, int32(1)))
	require.NoError(t, store.Remove(id))

	require.NoError(t, w.Destroy(id))
	assert.Contains(t, buf.String(), "mask names a component the store does not hold")
	assert.Contains(t, buf.String(), `"component_name":"tag"`)
}

func TestWorldCollectStats(t *testing.T) {
	w := newTestWorld(t, 32)
	for i := 0; i < 5; i++ {
		_, err := w.Spawn(w.Mover)
		require.NoError(t, err)
	}
	id, _ := w.Spawn(w.Unit)
	require.NoError(t, w.Destroy(id))

	stats := w.CollectStats()
	assert.Equal(t, 5, stats.LiveEntities)
	assert.Equal(t, 32, stats.EntityCapacity)
	assert.Equal(t, 1, stats.FreeHandles)
	assert.Equal(t, 3, stats.ArchetypeCount)
	require.Len(t, stats.Kinds, 4)
	assert.Equal(t, "position", stats.Kinds[0].Name)
	assert.Equal(t, 5, stats.Kinds[0].Len)
	assert.Equal(t, 2, stats.Kinds[0].Width)
	assert.Equal(t, 0, stats.Kinds[3].Len)
}
