package debugui

import (
	"testing"

	"github.com/plus3/packstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInspectedWorld(t *testing.T) (*ecs.World, ecs.ComponentKind, ecs.ComponentKind) {
	t.Helper()

	world, err := ecs.NewWorld(16)
	require.NoError(t, err)
	cfg := ecs.StoreConfig{InitialCapacity: 4, MaxCapacity: 16}

	pos, _, err := ecs.RegisterVector[float32](world, "position", cfg, 0, 0)
	require.NoError(t, err)
	hp, _, err := ecs.RegisterScalar[int32](world, "health", cfg, 10)
	require.NoError(t, err)

	unit, err := world.RegisterArchetype("unit", pos, hp)
	require.NoError(t, err)
	marker, err := world.RegisterArchetype("marker", pos)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := world.Spawn(unit)
		require.NoError(t, err)
	}
	_, err = world.Spawn(marker)
	require.NoError(t, err)

	return world, pos, hp
}

func TestEntityRows(t *testing.T) {
	world, _, hp := newInspectedWorld(t)

	rows := collectEntityInfos(world)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"position", "health"}, rows[0].ComponentNames)
	assert.Equal(t, 1, rows[3].ComponentCount)

	assert.Len(t, filterEntities(rows, "", &hp), 3)
	assert.Len(t, filterEntities(rows, "HEALTH", nil), 3)
	assert.Len(t, filterEntities(rows, "0x1", nil), 1)
	assert.Len(t, filterEntities(rows, "", nil), 4)

	sortEntities(rows, 3, true)
	assert.Equal(t, ecs.EntityId(3), rows[0].ID)

	sortEntities(rows, 0, false)
	assert.Equal(t, []ecs.EntityId{3, 2, 1, 0}, []ecs.EntityId{rows[0].ID, rows[1].ID, rows[2].ID, rows[3].ID})
}

func TestStoreRows(t *testing.T) {
	world, pos, _ := newInspectedWorld(t)

	rows := collectStoreInfos(world)
	require.Len(t, rows, 2)

	sortStores(rows, 3, false)
	assert.Equal(t, pos, rows[0].Kind)
	assert.Equal(t, 4, rows[0].Len)
	assert.Equal(t, 2, rows[0].Width)
	assert.Equal(t, 16, rows[0].MaxCapacity)

	sortStores(rows, 1, true)
	assert.Equal(t, "health", rows[0].Name)
}

func TestQueryDebuggerMatching(t *testing.T) {
	world, pos, hp := newInspectedWorld(t)

	qd := NewQueryDebuggerPanel()
	qd.rebuildCacheIfNeeded(world)
	assert.Equal(t, []string{"position", "health"}, qd.cache.names)

	qd.included[pos] = true
	q := qd.buildQuery(world)
	q.Execute()
	assert.Equal(t, 4, q.Len())
	assert.Len(t, matchingArchetypes(world, q), 2)

	qd.excluded[hp] = true
	q = qd.buildQuery(world)
	q.Execute()
	assert.Equal(t, 1, q.Len())
	assert.Len(t, matchingArchetypes(world, q), 1)
}

func TestPerformanceHistory(t *testing.T) {
	ps := NewPerformanceStatsPanel(4)
	for i := 0; i < 6; i++ {
		ps.record(0.010)
	}
	assert.InDelta(t, 10.0, ps.averageFrameTime(), 0.001)
	assert.Equal(t, 2, ps.frameIndex)
}
