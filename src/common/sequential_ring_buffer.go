package common

import "strconv"

// SequentialRingBuffer stores items keyed by a contiguous range of int64
// indexes in a fixed-size circular array. Items can only be appended at the
// next index, and are removed from the oldest end. When the buffer is full, an
// append overwrites the oldest item.
type SequentialRingBuffer[T any] struct {
	name     string
	items    []T
	minIndex int64
	count    int
}

// NewSequentialRingBuffer creates an empty buffer whose first item must be
// added at initialIndex.
func NewSequentialRingBuffer[T any](name string, initialIndex int64, capacity int) *SequentialRingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &SequentialRingBuffer[T]{
		name:     name,
		items:    make([]T, capacity),
		minIndex: initialIndex,
	}
}

// Reset empties the buffer. The next item must be added at initialIndex.
func (r *SequentialRingBuffer[T]) Reset(initialIndex int64) {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.minIndex = initialIndex
	r.count = 0
}

// Add appends an item at index, which must be NextIndex().
func (r *SequentialRingBuffer[T]) Add(index int64, item T) error {
	next := r.NextIndex()
	if index > next {
		return NewStoreErr(r.name, SkippedIndex, strconv.FormatInt(index, 10))
	}
	if index < next {
		if index >= r.minIndex {
			return NewStoreErr(r.name, KeyAlreadyExists, strconv.FormatInt(index, 10))
		}
		return NewStoreErr(r.name, TooLate, strconv.FormatInt(index, 10))
	}

	if r.count == len(r.items) {
		r.removeOldest()
	}

	r.items[r.slot(index)] = item
	r.count++
	return nil
}

// Get returns the item stored at index, if any.
func (r *SequentialRingBuffer[T]) Get(index int64) (T, bool) {
	var zero T
	if !r.Contains(index) {
		return zero, false
	}
	return r.items[r.slot(index)], true
}

// Contains returns true if an item is stored at index.
func (r *SequentialRingBuffer[T]) Contains(index int64) bool {
	return r.count > 0 && index >= r.minIndex && index < r.NextIndex()
}

// Latest returns the item with the highest index.
func (r *SequentialRingBuffer[T]) Latest() (T, bool) {
	return r.Get(r.NextIndex() - 1)
}

// Oldest returns the item with the lowest index.
func (r *SequentialRingBuffer[T]) Oldest() (T, bool) {
	return r.Get(r.minIndex)
}

// RemoveOlderThan drops every item whose index is strictly lower than index.
func (r *SequentialRingBuffer[T]) RemoveOlderThan(index int64) {
	for r.count > 0 && r.minIndex < index {
		r.removeOldest()
	}
}

// Items returns the stored items in ascending index order.
func (r *SequentialRingBuffer[T]) Items() []T {
	res := make([]T, 0, r.count)
	for i := r.minIndex; i < r.NextIndex(); i++ {
		res = append(res, r.items[r.slot(i)])
	}
	return res
}

// MinIndex is the index of the oldest item, or the index of the next item when
// the buffer is empty.
func (r *SequentialRingBuffer[T]) MinIndex() int64 {
	return r.minIndex
}

// NextIndex is the only index accepted by Add.
func (r *SequentialRingBuffer[T]) NextIndex() int64 {
	return r.minIndex + int64(r.count)
}

// Len ...
func (r *SequentialRingBuffer[T]) Len() int {
	return r.count
}

// Capacity ...
func (r *SequentialRingBuffer[T]) Capacity() int {
	return len(r.items)
}

func (r *SequentialRingBuffer[T]) removeOldest() {
	var zero T
	r.items[r.slot(r.minIndex)] = zero
	r.minIndex++
	r.count--
}

func (r *SequentialRingBuffer[T]) slot(index int64) int {
	c := int64(len(r.items))
	return int(((index % c) + c) % c)
}
