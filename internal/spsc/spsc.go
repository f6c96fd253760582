// Package spsc provides a bounded lock-free single-producer single-consumer
// queue.
//
// Push must only be called from one goroutine at a time and Pop must only
// be called from one goroutine at a time. Neither blocks nor allocates.
package spsc

import "sync/atomic"

// slot holds a value and the sequence number that tells which side owns it.
type slot[T any] struct {
	seq atomic.Uint64
	val T
}

// Queue is a bounded ring of values. Zero value is not usable, use New.
type Queue[T any] struct {
	_    [64]byte
	head atomic.Uint64 // consumer cursor
	_    [56]byte
	tail uint64 // producer cursor
	_    [56]byte

	limit uint64
	mask  uint64
	size  uint64
	buf   []slot[T]
}

// New returns a queue that holds exactly capacity values. It panics if
// capacity is not positive.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("spsc: capacity must be positive")
	}
	// ring of one slot can't tell a full slot from a free one.
	size := uint64(2)
	for size < uint64(capacity) {
		size <<= 1
	}
	q := &Queue[T]{
		limit: uint64(capacity),
		mask:  size - 1,
		size:  size,
		buf:   make([]slot[T], size),
	}
	for i := range q.buf {
		q.buf[i].seq.Store(uint64(i))
	}
	return q
}

// Cap returns the number of values queue can hold.
func (q *Queue[T]) Cap() int {
	return int(q.limit)
}

// Push enqueues the value. False is returned if queue is full.
func (q *Queue[T]) Push(v T) bool {
	t := q.tail
	if t-q.head.Load() >= q.limit {
		return false
	}
	s := &q.buf[t&q.mask]
	if s.seq.Load() != t {
		return false
	}
	s.val = v
	s.seq.Store(t + 1)
	q.tail = t + 1
	return true
}

// Pop dequeues the oldest value. False is returned if queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	h := q.head.Load()
	s := &q.buf[h&q.mask]
	if s.seq.Load() != h+1 {
		return zero, false
	}
	v := s.val
	// release the reference so popped payloads can be collected.
	s.val = zero
	s.seq.Store(h + q.size)
	q.head.Store(h + 1)
	return v, true
}
