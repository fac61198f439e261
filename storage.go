package fleks

import "github.com/bits-and-blooms/bitset"

// storage is the per-type backend a Holder delegates to. Slots are indexed
// by entity ID and nil means absent. get and set assume the caller resized
// first; getOrNil is the bounds-safe variant.
type storage[T any] interface {
	get(i int) *T
	getOrNil(i int) *T
	set(i int, v *T)
	resize(n int)
	size() int
}

// denseStorage keeps one slot per entity ID. Slot i is non-nil exactly when
// entity i has the component.
type denseStorage[T any] struct {
	slots []*T
}

func newDenseStorage[T any](capacity int) *denseStorage[T] {
	return &denseStorage[T]{slots: make([]*T, capacity)}
}

func (s *denseStorage[T]) get(i int) *T {
	return s.slots[i]
}

func (s *denseStorage[T]) getOrNil(i int) *T {
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i]
}

func (s *denseStorage[T]) set(i int, v *T) {
	s.slots[i] = v
}

func (s *denseStorage[T]) resize(n int) {
	if n <= len(s.slots) {
		return
	}
	s.slots = extendSlice(s.slots, n-len(s.slots))
}

func (s *denseStorage[T]) size() int {
	return len(s.slots)
}

// tagStorage keeps one shared value and a presence bit per entity ID. The
// value is captured by the first non-nil set and never replaced.
type tagStorage[T any] struct {
	value    *T
	presence *bitset.BitSet
	capacity int
}

func newTagStorage[T any](capacity int) *tagStorage[T] {
	return &tagStorage[T]{
		presence: bitset.New(uint(capacity)),
		capacity: capacity,
	}
}

func (s *tagStorage[T]) get(i int) *T {
	if !s.presence.Test(uint(i)) {
		return nil
	}
	return s.value
}

func (s *tagStorage[T]) getOrNil(i int) *T {
	if i < 0 || i >= s.capacity {
		return nil
	}
	return s.get(i)
}

func (s *tagStorage[T]) set(i int, v *T) {
	if v == nil {
		s.presence.Clear(uint(i))
		return
	}
	if s.value == nil {
		s.value = v
	}
	s.presence.Set(uint(i))
}

// resize touches the last bit of the new range so the bitset reallocates
// once, then clears it again so no presence leaks in.
func (s *tagStorage[T]) resize(n int) {
	if n <= s.capacity {
		return
	}
	last := uint(n - 1)
	s.presence.Set(last)
	s.presence.Clear(last)
	s.capacity = n
}

func (s *tagStorage[T]) size() int {
	return s.capacity
}
