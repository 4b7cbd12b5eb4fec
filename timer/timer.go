// Package timer instruments a region of code with two shared-memory rings:
// a business-span ring recording (start_t, stop_t) pairs for the region
// itself, and a latency ring recording how long an externally-ingested item
// took to reach this point. A Timer is single-producer by construction —
// exactly one goroutine may call Start/Stop/Latency on a given Timer at a
// time, matching the contract of the shmqueue.Producer it wraps.
package timer

import (
	"fmt"

	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/messages"
	"github.com/louisponet/ma-timing/shmqueue"
)

// RingCapacity is the slot count of the two rings a Timer opens. Large
// enough that a TimeKeeper polling every few milliseconds won't get sped
// past under ordinary load, small enough to keep the mapped file small.
const RingCapacity = 4096

// Timer instruments one named region of code.
type Timer struct {
	name string

	curStart clock.Instant

	businessQueue *shmqueue.Queue
	latencyQueue  *shmqueue.Queue

	business *shmqueue.Producer[messages.BusinessRecord]
	latency  *shmqueue.Producer[messages.LatencyRecord]
}

// New opens (creating if necessary) the two rings for name under dir, and
// returns a Timer producing onto them. dir is typically shmqueue.DefaultDir;
// callers that want an isolated ring pair for testing can pass any writable
// directory.
func New(dir, name string) (*Timer, error) {
	bq, err := shmqueue.Shared(shmqueue.TimingPath(dir, name), messages.BusinessSize, RingCapacity)
	if err != nil {
		return nil, fmt.Errorf("timer %q: opening business ring: %w", name, err)
	}
	lq, err := shmqueue.Shared(shmqueue.LatencyPath(dir, name), messages.LatencySize, RingCapacity)
	if err != nil {
		bq.Close()
		return nil, fmt.Errorf("timer %q: opening latency ring: %w", name, err)
	}

	return &Timer{
		name:          name,
		businessQueue: bq,
		latencyQueue:  lq,
		business:      shmqueue.NewProducer[messages.BusinessRecord](bq, messages.EncodeBusiness),
		latency:       shmqueue.NewProducer[messages.LatencyRecord](lq, messages.EncodeLatency),
	}, nil
}

// Name returns the name this Timer was constructed with.
func (t *Timer) Name() string { return t.name }

// Close releases the two mapped rings. The backing files are left in place
// so a TimeKeeper already attached to them keeps working; a new consumer
// attaching afterwards will simply see no further publications.
func (t *Timer) Close() error {
	err1 := t.businessQueue.Close()
	err2 := t.latencyQueue.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Start marks the beginning of a business span.
func (t *Timer) Start() {
	t.curStart = clock.Now()
}

// StartT returns the Instant recorded by the most recent Start call.
func (t *Timer) StartT() clock.Instant {
	return t.curStart
}

// Stop marks the end of a business span begun by Start, and publishes the
// (start_t, stop_t) pair onto the business ring.
func (t *Timer) Stop() {
	stop := clock.Now()
	t.business.Produce(messages.NewBusinessRecord(t.curStart, stop))
}

// Latency publishes a latency measurement from ingestionT (an Instant taken
// at some external origin, e.g. when a message was received off the wire)
// to now.
func (t *Timer) Latency(ingestionT clock.Instant) {
	t.latency.Produce(messages.NewLatencyTwoStamps(ingestionT, clock.Now()))
}

// LatencyStart is Latency plus Start: it publishes a latency measurement
// from ingestionT to now, and also begins a business span at the same
// instant, for call sites that want both a latency figure from an external
// origin and a business span measured locally from the same point.
func (t *Timer) LatencyStart(ingestionT clock.Instant) {
	now := clock.Now()
	t.curStart = now
	t.latency.Produce(messages.NewLatencyTwoStamps(ingestionT, now))
}

// StopAndLatency stops the current business span and, in the same call,
// publishes a latency measurement from ingestionT to the stop instant. This
// is a convenience for call sites that would otherwise call Stop followed
// immediately by Latency with a duplicate clock.Now() read.
func (t *Timer) StopAndLatency(ingestionT clock.Instant) {
	stop := clock.Now()
	t.business.Produce(messages.NewBusinessRecord(t.curStart, stop))
	t.latency.Produce(messages.NewLatencyTwoStamps(ingestionT, stop))
}

// LatencyNanos publishes a pre-reduced latency delta directly, for callers
// that already computed an elapsed duration by some other means (e.g. a
// cross-process clock correction) and just need it recorded.
func (t *Timer) LatencyNanos(delta clock.Duration) {
	t.latency.Produce(messages.NewLatencyInterval(delta))
}
