package queue

const minCapacity = 16

// FIFO is a growable circular buffer. The zero value is an empty queue
// ready to use. It is not safe for concurrent use.
type FIFO[T any] struct {
	items []T
	head  int
	count int
}

// NewFIFO creates a queue with room for capacity items before growing.
func NewFIFO[T any](capacity int) *FIFO[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &FIFO[T]{items: make([]T, capacity)}
}

// Push appends v to the back of the queue.
func (q *FIFO[T]) Push(v T) {
	if q.count == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.count)%len(q.items)] = v
	q.count++
}

// Pop removes and returns the front item. ok is false when the queue is empty.
func (q *FIFO[T]) Pop() (v T, ok bool) {
	if q.count == 0 {
		return v, false
	}

	var zero T
	v = q.items[q.head]
	// release the reference so popped closures can be collected
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--
	return v, true
}

// Peek returns the front item without removing it.
func (q *FIFO[T]) Peek() (v T, ok bool) {
	if q.count == 0 {
		return v, false
	}
	return q.items[q.head], true
}

// Len returns the number of queued items.
func (q *FIFO[T]) Len() int {
	return q.count
}

func (q *FIFO[T]) grow() {
	size := len(q.items) * 2
	if size < minCapacity {
		size = minCapacity
	}

	items := make([]T, size)
	for i := 0; i < q.count; i++ {
		items[i] = q.items[(q.head+i)%len(q.items)]
	}
	q.items = items
	q.head = 0
}
