package shmqueue

import "sync/atomic"

// Producer is the single writer attached to a Queue. A Queue must have at
// most one Producer alive at a time; nothing here enforces that across
// processes, the same way nothing enforces it for the original system this
// protocol is modeled on — callers own that invariant.
type Producer[T any] struct {
	q      *Queue
	encode func(T, []byte)
	seq    uint64
}

// NewProducer attaches a Producer to q, using encode to serialize each
// published value into a slot. encode must write exactly q's element size
// bytes into dst.
func NewProducer[T any](q *Queue, encode func(T, []byte)) *Producer[T] {
	return &Producer[T]{q: q, encode: encode, seq: q.Count()}
}

// Produce writes v into the next slot and publishes it. Producing never
// blocks: once the ring is full, the oldest unread slot is silently
// overwritten, and a consumer that was still reading it detects the
// collision itself (see Consumer.TryConsume) rather than the producer
// waiting on a slow reader.
//
// The payload is written in full before the slot's sequence number is
// published with a release store, and the queue's global write sequence is
// published the same way immediately after. A consumer that observes the
// new write sequence is guaranteed to observe the fully-written payload.
func (p *Producer[T]) Produce(v T) {
	seq := p.seq
	p.encode(v, p.q.slotPayload(seq))
	atomic.StoreUint64(p.q.slotSeqPtr(seq), seq+1)
	atomic.StoreUint64(&p.q.headerPtr().WriteSeq, seq+1)
	p.seq = seq + 1
}
