// Package throughput periodically samples a ring's publication count and
// logs the msg/ms rate derived from the delta, independent of whatever is
// consuming the ring's contents.
package throughput

import (
	"log/slog"
	"time"

	"github.com/louisponet/ma-timing/shmqueue"
)

// Sampler runs a background loop sampling a Queue's Count() once per
// ReportInterval and logging the derived throughput. Its lifecycle follows
// the same stop-channel-plus-done-channel shape used elsewhere in this
// codebase for a goroutine that needs a clean, synchronous shutdown.
type Sampler struct {
	name     string
	queue    *shmqueue.Queue
	interval time.Duration
	log      *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// NewSampler constructs a Sampler over q, reporting once per interval under
// the given name (used only to label log lines when multiple samplers run
// concurrently).
func NewSampler(name string, q *shmqueue.Queue, interval time.Duration, log *slog.Logger) *Sampler {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Sampler{
		name:     name,
		queue:    q,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run starts the sampling loop in its own goroutine and returns
// immediately.
func (s *Sampler) Run() {
	go s.loop()
}

func (s *Sampler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := s.queue.Count()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cur := s.queue.Count()
			delta := cur - last
			s.log.Debug("ring throughput", "name", s.name, "msg_per_ms", rate(delta, s.interval))
			last = cur
		}
	}
}

func rate(delta uint64, interval time.Duration) float64 {
	ms := interval.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return float64(delta) / float64(ms)
}

// Stop signals the sampling loop to exit and blocks until it has.
func (s *Sampler) Stop() {
	close(s.stop)
	<-s.done
}
