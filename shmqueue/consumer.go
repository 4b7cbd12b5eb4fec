package shmqueue

import "sync/atomic"

// Consumer reads from a Queue independently of every other consumer
// attached to it — each keeps its own read cursor, entirely in its own
// process memory, so one slow reader never blocks another.
type Consumer[T any] struct {
	q       *Queue
	decode  func([]byte) T
	readSeq uint64
}

// NewConsumer attaches a Consumer to q starting at the oldest slot the
// producer still has available, using decode to reconstruct a value from a
// slot's payload bytes.
func NewConsumer[T any](q *Queue, decode func([]byte) T) *Consumer[T] {
	c := &Consumer[T]{q: q, decode: decode}
	c.RecoverAfterError()
	return c
}

// TryConsume attempts to read the next unread element.
//
//   - ErrEmpty: the producer hasn't published anything past this consumer's
//     cursor yet. Not an error condition, just "nothing to do right now".
//   - ErrSpedPast: the producer has overwritten one or more slots this
//     consumer hadn't read, because it fell behind by more than a full
//     ring. The value is not returned; callers should call
//     RecoverAfterError and continue.
func (c *Consumer[T]) TryConsume() (T, error) {
	var zero T

	producerSeq := atomic.LoadUint64(&c.q.headerPtr().WriteSeq)
	if c.readSeq >= producerSeq {
		return zero, ErrEmpty
	}
	if producerSeq-c.readSeq > c.q.capacity {
		return zero, ErrSpedPast
	}

	seq := c.readSeq
	slotSeqPtr := c.q.slotSeqPtr(seq)

	before := atomic.LoadUint64(slotSeqPtr)
	if before != seq+1 {
		// The producer hasn't finished publishing this slot, or has already
		// wrapped past it again since we read producerSeq above.
		return zero, ErrSpedPast
	}
	payload := make([]byte, c.q.elementSize)
	copy(payload, c.q.slotPayload(seq))
	after := atomic.LoadUint64(slotSeqPtr)
	if after != before {
		// The producer overwrote this slot mid-read; what we copied may be
		// a torn mix of the old and new payload.
		return zero, ErrSpedPast
	}

	c.readSeq = seq + 1
	return c.decode(payload), nil
}

// RecoverAfterError repositions the read cursor to the oldest slot the
// producer still guarantees is intact: its current write sequence minus one
// full ring. Call this after TryConsume returns ErrSpedPast.
func (c *Consumer[T]) RecoverAfterError() {
	producerSeq := atomic.LoadUint64(&c.q.headerPtr().WriteSeq)
	if producerSeq < c.q.capacity {
		c.readSeq = 0
		return
	}
	c.readSeq = producerSeq - c.q.capacity
}

// Lag reports how many unread elements the producer is currently ahead of
// this consumer, for monitoring/debugging.
func (c *Consumer[T]) Lag() uint64 {
	producerSeq := atomic.LoadUint64(&c.q.headerPtr().WriteSeq)
	if producerSeq <= c.readSeq {
		return 0
	}
	return producerSeq - c.readSeq
}
