// Package cabi exposes a minimal C ABI over the timer package, for
// embedding this system's instrumentation into a process written in a
// language other than Go. It is meant to be built with
// `go build -buildmode=c-shared` (or c-archive) from cmd/cabi, which
// re-exports these functions from a package main.
//
// Go values can't be handed to C as raw pointers the way a Rust #[no_mangle]
// extern "C" fn can hand out a pointer into its own heap — the Go runtime's
// garbage collector would have no idea the C side was still holding a
// reference. Instead, every Timer created through this ABI is kept alive in
// a handle table and identified to the C side by an opaque integer handle.
package cabi

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/shmqueue"
	"github.com/louisponet/ma-timing/timer"
)

var (
	mu     sync.Mutex
	timers = map[int64]*timer.Timer{}
	nextID atomic.Int64
)

// CreateTimer opens a Timer named name under the default ring directory and
// returns a handle identifying it, or 0 on failure.
func CreateTimer(name string) int64 {
	t, err := timer.New(shmqueue.DefaultDir, name)
	if err != nil {
		return 0
	}
	id := nextID.Inc()
	mu.Lock()
	timers[id] = t
	mu.Unlock()
	return id
}

// DestroyTimer closes and releases the Timer identified by handle.
func DestroyTimer(handle int64) {
	mu.Lock()
	t, ok := timers[handle]
	delete(timers, handle)
	mu.Unlock()
	if ok {
		t.Close()
	}
}

func lookup(handle int64) *timer.Timer {
	mu.Lock()
	defer mu.Unlock()
	return timers[handle]
}

// Start marks the beginning of a business span on the given Timer.
func Start(handle int64) {
	if t := lookup(handle); t != nil {
		t.Start()
	}
}

// Stop marks the end of a business span and publishes it.
func Stop(handle int64) {
	if t := lookup(handle); t != nil {
		t.Stop()
	}
}

// Latency publishes a latency measurement from ingestionCycles (a raw cycle
// counter reading taken by the caller) to now.
func Latency(handle int64, ingestionCycles uint64) {
	if t := lookup(handle); t != nil {
		t.Latency(clock.InstantFromCycles(ingestionCycles))
	}
}

// NowCycles returns a fresh cycle-counter reading, for a caller that wants
// to capture an ingestion timestamp to later pass back into Latency.
func NowCycles() uint64 {
	return clock.Now().Cycles()
}
