package queue

// Buffer is an unordered bag of items drained in bulk. Swap hands the
// current contents to the caller and starts a fresh bag backed by the
// storage returned on the previous swap, so a drain can append new items
// without them being visited in the same pass.
type Buffer[T any] struct {
	live  []T
	spare []T
}

// Push appends v to the live bag.
func (b *Buffer[T]) Push(v T) {
	b.live = append(b.live, v)
}

// Swap returns the live contents in insertion order and resets the live bag
// to empty. The returned slice is only valid until the next call to Swap.
func (b *Buffer[T]) Swap() []T {
	out := b.live

	var zero T
	for i := range b.spare {
		b.spare[i] = zero
	}
	b.live = b.spare[:0]
	b.spare = out
	return out
}

// Len returns the number of items in the live bag.
func (b *Buffer[T]) Len() int {
	return len(b.live)
}
