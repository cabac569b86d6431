package ecs_test

import (
	"testing"

	"github.com/plus3/packstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntArray(t *testing.T, initial int, opts ...ecs.ArrayOption) *ecs.IntArray {
	a, err := ecs.NewArray[int32](initial, opts...)
	require.NoError(t, err)
	return a
}

func TestArrayMinimumCapacity(t *testing.T) {
	ints := newIntArray(t, 0)
	assert.Equal(t, 16, ints.MinCapacity())
	assert.Equal(t, 16, ints.Cap())

	floats, err := ecs.NewArray[float64](3)
	require.NoError(t, err)
	assert.Equal(t, 8, floats.MinCapacity())
	assert.Equal(t, 8, floats.Cap())

	bytes, err := ecs.NewArray[uint8](100)
	require.NoError(t, err)
	assert.Equal(t, 64, bytes.MinCapacity())
	assert.Equal(t, 100, bytes.Cap())
}

func TestArrayInvalidConstruction(t *testing.T) {
	_, err := ecs.NewArray[int32](-1)
	assert.ErrorIs(t, err, ecs.ErrInvalidArgument)

	for _, percent := range []int{0, 9, 91, 100} {
		_, err := ecs.NewArray[int32](0, ecs.WithShrinkPercent(percent))
		assert.ErrorIs(t, err, ecs.ErrInvalidArgument, "percent %d", percent)
	}

	for _, percent := range []int{10, 50, 90} {
		_, err := ecs.NewArray[int32](0, ecs.WithShrinkPercent(percent))
		assert.NoError(t, err, "percent %d", percent)
	}
}

func TestArrayGetSetBounds(t *testing.T) {
	a := newIntArray(t, 0)
	a.Add(7)

	v, err := a.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	_, err = a.Get(1)
	assert.ErrorIs(t, err, ecs.ErrOutOfRange)
	_, err = a.Get(-1)
	assert.ErrorIs(t, err, ecs.ErrOutOfRange)

	require.NoError(t, a.Set(0, 9))
	v, _ = a.Get(0)
	assert.Equal(t, int32(9), v)

	assert.ErrorIs(t, a.Set(1, 1), ecs.ErrOutOfRange)
	assert.ErrorIs(t, a.Set(-1, 1), ecs.ErrOutOfRange)
}

func TestArrayGrowthPreservesContents(t *testing.T) {
	a := newIntArray(t, 0)
	startCap := a.Cap()

	for i := 0; i < 1000; i++ {
		a.Add(int32(i))
	}

	assert.Equal(t, 1000, a.Len())
	assert.GreaterOrEqual(t, a.Cap(), a.Len())
	assert.Greater(t, a.Cap(), startCap)
	for i := 0; i < 1000; i++ {
		v, err := a.Get(i)
		require.NoError(t, err)
		require.Equal(t, int32(i), v)
	}
}

func TestArrayGrowthFactor(t *testing.T) {
	a := newIntArray(t, 0)
	for i := 0; i < 16; i++ {
		a.Add(int32(i))
	}
	assert.Equal(t, 16, a.Cap())

	a.Add(16)
	assert.Equal(t, 24, a.Cap())
}

func TestArrayShrinkOnUnderuse(t *testing.T) {
	a := newIntArray(t, 0)
	for i := 0; i < 256; i++ {
		a.Add(int32(i))
	}
	grown := a.Cap()

	for a.Len() > 10 {
		_, err := a.Pop()
		require.NoError(t, err)
	}
	assert.Less(t, a.Cap(), grown)
	assert.GreaterOrEqual(t, a.Cap(), a.Len())

	for i := 0; i < a.Len(); i++ {
		v, err := a.Get(i)
		require.NoError(t, err)
		assert.Equal(t, int32(i), v)
	}
}

func TestArrayShrinkLowerBound(t *testing.T) {
	a := newIntArray(t, 0, ecs.WithShrinkPercent(90))
	for i := 0; i < 500; i++ {
		a.Add(int32(i))
	}
	for a.Len() > 0 {
		_, err := a.Remove(0)
		require.NoError(t, err)
		require.GreaterOrEqual(t, a.Cap(), a.MinCapacity())
		require.GreaterOrEqual(t, a.Cap(), a.Len())
	}
	assert.Equal(t, a.MinCapacity(), a.Cap())
}

func TestArrayInsert(t *testing.T) {
	a := newIntArray(t, 0)
	a.Add(1)
	a.Add(3)

	require.NoError(t, a.Insert(1, 2))
	require.NoError(t, a.Insert(0, 0))
	require.NoError(t, a.Insert(a.Len(), 4))
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, a.ToArray())

	assert.ErrorIs(t, a.Insert(6, 9), ecs.ErrOutOfRange)
	assert.ErrorIs(t, a.Insert(-1, 9), ecs.ErrOutOfRange)
}

func TestArrayRemove(t *testing.T) {
	a := newIntArray(t, 0)
	for _, v := range []int32{10, 20, 30, 40} {
		a.Add(v)
	}

	v, err := a.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, int32(20), v)
	assert.Equal(t, []int32{10, 30, 40}, a.ToArray())

	_, err = a.Remove(3)
	assert.ErrorIs(t, err, ecs.ErrOutOfRange)
}

func TestArrayPop(t *testing.T) {
	a := newIntArray(t, 0)
	_, err := a.Pop()
	assert.ErrorIs(t, err, ecs.ErrEmpty)

	a.Add(5)
	a.Add(6)
	v, err := a.Pop()
	require.NoError(t, err)
	assert.Equal(t, int32(6), v)
	assert.Equal(t, 1, a.Len())
}

func TestArrayRemoveElement(t *testing.T) {
	a := newIntArray(t, 0)
	for _, v := range []int32{1, 2, 3, 2} {
		a.Add(v)
	}

	assert.True(t, a.RemoveElement(2))
	assert.Equal(t, []int32{1, 3, 2}, a.ToArray())
	assert.False(t, a.RemoveElement(9))
}

func TestArrayRemoveAll(t *testing.T) {
	a := newIntArray(t, 0)
	for _, v := range []int32{1, 2, 3, 2, 4, 1} {
		a.Add(v)
	}

	removed := a.RemoveAll(1, 2)
	assert.Equal(t, 4, removed)
	assert.Equal(t, []int32{3, 4}, a.ToArray())
	assert.Equal(t, 0, a.RemoveAll())
	assert.Equal(t, 0, a.RemoveAll(42))
}

func TestArraySearchAndFill(t *testing.T) {
	a := newIntArray(t, 0)
	for _, v := range []int32{5, 6, 7} {
		a.Add(v)
	}

	assert.True(t, a.Contains(6))
	assert.False(t, a.Contains(8))
	assert.Equal(t, 2, a.IndexOf(7))
	assert.Equal(t, -1, a.IndexOf(8))

	a.Fill(1)
	assert.Equal(t, []int32{1, 1, 1}, a.ToArray())

	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, a.MinCapacity(), a.Cap())
}

func TestArrayToArrayIsACopy(t *testing.T) {
	a := newIntArray(t, 0)
	a.Add(1)

	out := a.ToArray()
	out[0] = 99

	v, _ := a.Get(0)
	assert.Equal(t, int32(1), v)
}

func TestArraySwapAndTruncate(t *testing.T) {
	a := newIntArray(t, 0)
	for _, v := range []int32{1, 2, 3} {
		a.Add(v)
	}

	require.NoError(t, a.Swap(0, 2))
	assert.Equal(t, []int32{3, 2, 1}, a.ToArray())
	assert.ErrorIs(t, a.Swap(0, 3), ecs.ErrOutOfRange)

	require.NoError(t, a.Truncate(1))
	assert.Equal(t, []int32{3}, a.ToArray())
	assert.ErrorIs(t, a.Truncate(2), ecs.ErrOutOfRange)
}

func TestFloatArray(t *testing.T) {
	a, err := ecs.NewArray[float64](0)
	require.NoError(t, err)

	a.Add(1.5)
	a.Add(-2.25)
	assert.Equal(t, 1, a.IndexOf(-2.25))
	assert.Equal(t, []float64{1.5, -2.25}, a.View())
}
