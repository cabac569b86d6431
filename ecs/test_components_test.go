package ecs_test

import (
	"testing"

	"github.com/plus3/packstore/ecs"
	"github.com/stretchr/testify/require"
)

// Common test component kinds
type testWorld struct {
	*ecs.World

	Position ecs.ComponentKind
	Velocity ecs.ComponentKind
	Mass     ecs.ComponentKind
	Health   ecs.ComponentKind

	Positions  *ecs.VectorStorage[float64]
	Velocities *ecs.VectorStorage[float64]
	Masses     *ecs.ScalarStorage[float64]
	Healths    *ecs.ScalarStorage[int32]

	Body  *ecs.Archetype
	Mover *ecs.Archetype
	Unit  *ecs.Archetype
}

func newTestWorld(t testing.TB, capacity int) *testWorld {
	w, err := ecs.NewWorld(capacity)
	require.NoError(t, err)

	cfg := ecs.StoreConfig{InitialCapacity: min(capacity, 16), MaxCapacity: capacity}
	tw := &testWorld{World: w}

	tw.Position, tw.Positions, err = ecs.RegisterVector[float64](w, "position", cfg, 0, 0)
	require.NoError(t, err)
	tw.Velocity, tw.Velocities, err = ecs.RegisterVector[float64](w, "velocity", cfg, 0, 0)
	require.NoError(t, err)
	tw.Mass, tw.Masses, err = ecs.RegisterScalar[float64](w, "mass", cfg, 1)
	require.NoError(t, err)
	tw.Health, tw.Healths, err = ecs.RegisterScalar[int32](w, "health", cfg, 100)
	require.NoError(t, err)

	tw.Body, err = w.RegisterArchetype("body", tw.Position, tw.Mass)
	require.NoError(t, err)
	tw.Mover, err = w.RegisterArchetype("mover", tw.Position, tw.Velocity, tw.Mass)
	require.NoError(t, err)
	tw.Unit, err = w.RegisterArchetype("unit", tw.Position, tw.Health)
	require.NoError(t, err)

	return tw
}

func storeConfig(initial, maxCap int) ecs.StoreConfig {
	return ecs.StoreConfig{InitialCapacity: initial, MaxCapacity: maxCap}
}
