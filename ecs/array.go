package ecs

import (
	"unsafe"

	"github.com/rotisserie/eris"
)

// Number is the element constraint for primitive arrays.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

const (
	cacheLineBytes       = 64
	defaultShrinkPercent = 25
	minShrinkPercent     = 10
	maxShrinkPercent     = 90
)

// IntArray backs sparse set dense lists and integer components.
type IntArray = Array[int32]

// FloatArray backs floating point components.
type FloatArray = Array[float64]

// Array is a growable, index-addressed buffer of primitive values.
//
// The backing slice length is the capacity; only the first Len() slots are
// live. Capacity never drops below MinCapacity(), which is one cache line
// worth of elements. Appends grow the buffer by half again; removals shrink it
// by half once the live count drops under the shrink percentage of capacity.
type Array[T Number] struct {
	data          []T
	size          int
	minCap        int
	shrinkPercent int
}

// ArrayOption configures an Array at construction time.
type ArrayOption func(*arrayOptions)

type arrayOptions struct {
	shrinkPercent int
}

// WithShrinkPercent overrides the live/capacity ratio (in percent) under which
// the array halves its capacity. Valid values are 10 to 90.
func WithShrinkPercent(percent int) ArrayOption {
	return func(o *arrayOptions) {
		o.shrinkPercent = percent
	}
}

// NewArray creates an array with room for at least initialCapacity elements.
func NewArray[T Number](initialCapacity int, opts ...ArrayOption) (*Array[T], error) {
	if initialCapacity < 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "negative initial capacity %d", initialCapacity)
	}

	o := arrayOptions{shrinkPercent: defaultShrinkPercent}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shrinkPercent < minShrinkPercent || o.shrinkPercent > maxShrinkPercent {
		return nil, eris.Wrapf(ErrInvalidArgument, "shrink percent %d outside [%d, %d]",
			o.shrinkPercent, minShrinkPercent, maxShrinkPercent)
	}

	minCap := minCapacityFor[T]()
	return &Array[T]{
		data:          make([]T, max(initialCapacity, minCap)),
		minCap:        minCap,
		shrinkPercent: o.shrinkPercent,
	}, nil
}

func minCapacityFor[T Number]() int {
	var zero T
	return max(cacheLineBytes/int(unsafe.Sizeof(zero)), 1)
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int {
	return a.size
}

// Cap returns the current backing capacity.
func (a *Array[T]) Cap() int {
	return len(a.data)
}

// MinCapacity returns the floor the capacity never shrinks below.
func (a *Array[T]) MinCapacity() int {
	return a.minCap
}

// Get returns the element at index i.
func (a *Array[T]) Get(i int) (T, error) {
	if i < 0 || i >= a.size {
		var zero T
		return zero, eris.Wrapf(ErrOutOfRange, "get index %d of %d", i, a.size)
	}
	return a.data[i], nil
}

// Set overwrites the element at index i.
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= a.size {
		return eris.Wrapf(ErrOutOfRange, "set index %d of %d", i, a.size)
	}
	a.data[i] = v
	return nil
}

// Add appends v.
func (a *Array[T]) Add(v T) {
	a.ensureCapacity(a.size + 1)
	a.data[a.size] = v
	a.size++
}

// Insert places v at index i, shifting the tail right. i may equal Len().
func (a *Array[T]) Insert(i int, v T) error {
	if i < 0 || i > a.size {
		return eris.Wrapf(ErrOutOfRange, "insert index %d of %d", i, a.size)
	}
	a.ensureCapacity(a.size + 1)
	copy(a.data[i+1:a.size+1], a.data[i:a.size])
	a.data[i] = v
	a.size++
	return nil
}

// Remove deletes the element at index i, shifting the tail left, and returns it.
func (a *Array[T]) Remove(i int) (T, error) {
	if i < 0 || i >= a.size {
		var zero T
		return zero, eris.Wrapf(ErrOutOfRange, "remove index %d of %d", i, a.size)
	}
	v := a.data[i]
	copy(a.data[i:a.size-1], a.data[i+1:a.size])
	a.size--
	a.data[a.size] = 0
	a.maybeShrink()
	return v, nil
}

// Pop removes and returns the last element.
func (a *Array[T]) Pop() (T, error) {
	if a.size == 0 {
		var zero T
		return zero, eris.Wrap(ErrEmpty, "pop")
	}
	return a.Remove(a.size - 1)
}

// RemoveElement removes the first occurrence of v. It reports whether one was found.
func (a *Array[T]) RemoveElement(v T) bool {
	i := a.IndexOf(v)
	if i < 0 {
		return false
	}
	_, _ = a.Remove(i)
	return true
}

// RemoveAll removes every occurrence of each of values and returns how many
// elements were removed.
func (a *Array[T]) RemoveAll(values ...T) int {
	if len(values) == 0 || a.size == 0 {
		return 0
	}

	write := 0
	for read := 0; read < a.size; read++ {
		v := a.data[read]
		if containsValue(values, v) {
			continue
		}
		a.data[write] = v
		write++
	}

	removed := a.size - write
	clear(a.data[write:a.size])
	a.size = write
	if removed > 0 {
		a.maybeShrink()
	}
	return removed
}

func containsValue[T Number](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Truncate drops every element at index n and beyond.
func (a *Array[T]) Truncate(n int) error {
	if n < 0 || n > a.size {
		return eris.Wrapf(ErrOutOfRange, "truncate to %d of %d", n, a.size)
	}
	if n == a.size {
		return nil
	}
	clear(a.data[n:a.size])
	a.size = n
	a.maybeShrink()
	return nil
}

// Swap exchanges the elements at i and j.
func (a *Array[T]) Swap(i, j int) error {
	if i < 0 || i >= a.size || j < 0 || j >= a.size {
		return eris.Wrapf(ErrOutOfRange, "swap %d and %d of %d", i, j, a.size)
	}
	a.data[i], a.data[j] = a.data[j], a.data[i]
	return nil
}

// Fill sets every live element to v.
func (a *Array[T]) Fill(v T) {
	for i := 0; i < a.size; i++ {
		a.data[i] = v
	}
}

// Clear removes all elements and releases the buffer back to the minimum capacity.
func (a *Array[T]) Clear() {
	a.data = make([]T, a.minCap)
	a.size = 0
}

// Contains reports whether v is present.
func (a *Array[T]) Contains(v T) bool {
	return a.IndexOf(v) >= 0
}

// IndexOf returns the index of the first occurrence of v, or -1.
func (a *Array[T]) IndexOf(v T) int {
	for i := 0; i < a.size; i++ {
		if a.data[i] == v {
			return i
		}
	}
	return -1
}

// ToArray returns a copy of the live elements.
func (a *Array[T]) ToArray() []T {
	out := make([]T, a.size)
	copy(out, a.data[:a.size])
	return out
}

// View returns the live elements without copying. The slice aliases the
// backing buffer: it must be treated as read-only and is invalidated by the
// next structural change.
func (a *Array[T]) View() []T {
	return a.data[:a.size:a.size]
}

func (a *Array[T]) ensureCapacity(required int) {
	if required <= len(a.data) {
		return
	}
	newCap := max(len(a.data)+len(a.data)/2, required, a.minCap)
	a.resize(newCap)
}

func (a *Array[T]) maybeShrink() {
	capacity := len(a.data)
	if capacity <= a.minCap {
		return
	}
	if a.size*100 >= capacity*a.shrinkPercent {
		return
	}
	newCap := max(capacity/2, a.minCap, a.size)
	if newCap < capacity {
		a.resize(newCap)
	}
}

func (a *Array[T]) resize(newCap int) {
	data := make([]T, newCap)
	copy(data, a.data[:a.size])
	a.data = data
}
