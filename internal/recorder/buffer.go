package recorder

import "sync"

// Buffer is a FIFO ring buffer that doubles its capacity at 70% fill, up
// to a hard limit. Send never blocks: once the limit is reached new items
// are dropped and counted.
type Buffer[T any] struct {
	mu       sync.Mutex
	buf      []T
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	limit    int
	closed   bool

	// ready holds a token while items are waiting.
	ready chan struct{}

	// Stats
	totalReceived int64
	totalSent     int64
	dropped       int64
	resizeCount   int
}

// NewBuffer creates a buffer with the given initial capacity that grows up
// to limit items. A limit below the initial capacity is raised to it.
func NewBuffer[T any](initialCapacity, limit int) *Buffer[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	if limit < initialCapacity {
		limit = initialCapacity
	}
	return &Buffer[T]{
		buf:      make([]T, initialCapacity),
		capacity: initialCapacity,
		limit:    limit,
		ready:    make(chan struct{}, 1),
	}
}

// Send adds an item. It returns false if the buffer is closed or full.
func (b *Buffer[T]) Send(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	threshold := max((b.capacity*70)/100, 1)
	if b.count+1 >= threshold && b.capacity < b.limit {
		b.grow()
	}
	if b.count == b.capacity {
		b.dropped++
		return false
	}

	b.buf[b.tail] = item
	b.tail = (b.tail + 1) % b.capacity
	b.count++
	b.totalReceived++

	select {
	case b.ready <- struct{}{}:
	default:
	}
	return true
}

// Ready returns a channel that receives a token after Send. A token does
// not guarantee items are left; drain with DrainTo.
func (b *Buffer[T]) Ready() <-chan struct{} {
	return b.ready
}

// DrainTo removes up to n items in FIFO order. n <= 0 drains everything.
func (b *Buffer[T]) DrainTo(n int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	if n <= 0 || n > b.count {
		n = b.count
	}

	out := make([]T, n)
	var zero T
	for i := range out {
		out[i] = b.buf[b.head]
		b.buf[b.head] = zero
		b.head = (b.head + 1) % b.capacity
	}
	b.count -= n
	b.totalSent += int64(n)
	return out
}

// Close rejects further Sends. Items already buffered can still be drained.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Len returns the number of buffered items.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Stats returns buffer statistics.
func (b *Buffer[T]) Stats() BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BufferStats{
		Count:         b.count,
		Capacity:      b.capacity,
		TotalReceived: b.totalReceived,
		TotalSent:     b.totalSent,
		Dropped:       b.dropped,
		ResizeCount:   b.resizeCount,
	}
}

// BufferStats contains buffer statistics.
type BufferStats struct {
	Count         int
	Capacity      int
	TotalReceived int64
	TotalSent     int64
	Dropped       int64
	ResizeCount   int
}

// grow doubles the capacity, capped at the limit. Must be called with lock held.
func (b *Buffer[T]) grow() {
	newCapacity := min(b.capacity*2, b.limit)
	newBuf := make([]T, newCapacity)

	if b.count > 0 {
		if b.head < b.tail {
			copy(newBuf, b.buf[b.head:b.tail])
		} else {
			// Wrapped: [head...end) + [0...tail)
			n := copy(newBuf, b.buf[b.head:])
			copy(newBuf[n:], b.buf[:b.tail])
		}
	}

	b.buf = newBuf
	b.head = 0
	b.tail = b.count
	b.capacity = newCapacity
	b.resizeCount++
}
