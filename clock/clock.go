// Package clock provides the cycle-counter time abstraction the rest of the
// system is built on: Instant (a raw counter reading), Duration (an elapsed
// span expressed in the same cycles), and Nanos (the same span converted to
// nanoseconds through a once-sampled, process-wide calibration constant).
//
// Design Notes:
//   - Instant wraps a single uint64 cycle-counter reading. It is read with a
//     serializing instruction (RDTSCP on amd64 cgo builds) so the timed
//     region can't be reordered across the read.
//   - The conversion between cycles and nanoseconds goes through a constant
//     sampled once, on first use, and never refreshed. This keeps
//     Duration<->Nanos conversions stable for the lifetime of the process at
//     the cost of not tracking frequency scaling.
//   - On other builds, Instant falls back to the system clock
//     (time.Now().UnixNano(), a wall-clock reading that is not monotonic);
//     precision degrades but the interface is unchanged.
//
// Trade-offs:
//   - A single global Calibration keeps the hot path to one syscall-free
//     memory load. A per-call calibration lookup would be safer against
//     frequency scaling but defeats the low-overhead goal of the hot path.
package clock

import (
	"sync"
	"time"
)

// Instant is a single reading of the CPU cycle counter (or, on builds
// without one, the system clock in nanoseconds). Instants are only meaningfully
// ordered when taken on the same CPU.
type Instant struct {
	cycles uint64
}

// Duration is an elapsed span expressed in cycles — the native unit the
// clock produces. Use Calibration.ToNanos to convert to wall time.
type Duration struct {
	cycles uint64
}

// Nanos is an elapsed span expressed in nanoseconds.
type Nanos struct {
	ns uint64
}

// MaxNanos is the largest representable Nanos value.
var MaxNanos = Nanos{ns: ^uint64(0)}

// ZeroNanos is the zero duration.
var ZeroNanos = Nanos{}

// NanosFromUint64 constructs a Nanos directly from a nanosecond count.
// Used by callers that already have a raw delta to hand.
func NanosFromUint64(ns uint64) Nanos { return Nanos{ns: ns} }

// Uint64 returns the raw nanosecond count.
func (n Nanos) Uint64() uint64 { return n.ns }

// Add returns n+m, saturating is not needed since both operands are
// non-negative by construction.
func (n Nanos) Add(m Nanos) Nanos { return Nanos{ns: n.ns + m.ns} }

// SaturatingSub returns max(n-m, 0). This is the "corrected" operation used
// throughout TimingData: every reported statistic goes through it so a
// clock_overhead larger than the raw sample never wraps around to a huge
// value.
func (n Nanos) SaturatingSub(m Nanos) Nanos {
	if n.ns <= m.ns {
		return Nanos{}
	}
	return Nanos{ns: n.ns - m.ns}
}

// Less reports whether n < m.
func (n Nanos) Less(m Nanos) bool { return n.ns < m.ns }

// Greater reports whether n > m.
func (n Nanos) Greater(m Nanos) bool { return n.ns > m.ns }

// DivInt divides n by a positive integer count, as used when averaging a
// block of samples into a datapoint.
func (n Nanos) DivInt(count int) Nanos {
	if count <= 0 {
		return Nanos{}
	}
	return Nanos{ns: n.ns / uint64(count)}
}

// SumNanos adds up a slice of Nanos values, the Go equivalent of the
// original's std::iter::Sum<Nanos> impl.
func SumNanos(vs []Nanos) Nanos {
	var total uint64
	for _, v := range vs {
		total += v.ns
	}
	return Nanos{ns: total}
}

// AsDuration converts to the stdlib time.Duration, for interop with timers,
// tickers and test assertions.
func (n Nanos) AsDuration() time.Duration { return time.Duration(n.ns) }

// String renders a human-scaled duration, e.g. "1.23ms", matching the
// original's Display impl for ma_time::Nanos.
func (n Nanos) String() string {
	switch v := n.ns; {
	case v < 1_000:
		return formatUnit(float64(v), 0, "ns")
	case v < 1_000_000:
		return formatUnit(float64(v)/1_000, 2, "us")
	case v < 1_000_000_000:
		return formatUnit(float64(v)/1_000_000, 2, "ms")
	default:
		return formatUnit(float64(v)/1_000_000_000, 2, "s")
	}
}

func formatUnit(v float64, prec int, unit string) string {
	return trimZeros(v, prec) + unit
}

// DurationFromCycles constructs a Duration directly from a raw cycle delta,
// e.g. stop_t.Cycles() - start_t.Cycles() computed by a caller that already
// has both Instants.
func DurationFromCycles(cycles uint64) Duration { return Duration{cycles: cycles} }

// Cycles returns the raw cycle count.
func (d Duration) Cycles() uint64 { return d.cycles }

// SaturatingSub returns max(d-e, 0) in cycles.
func (d Duration) SaturatingSub(e Duration) Duration {
	if d.cycles <= e.cycles {
		return Duration{}
	}
	return Duration{cycles: d.cycles - e.cycles}
}

// Less orders two Durations by raw cycle count.
func (d Duration) Less(e Duration) bool { return d.cycles < e.cycles }

// Calibration is the process-wide cycles<->nanoseconds conversion constant,
// sampled once and never refreshed. Rather than a package singleton, it's a
// handle that gets constructed once (via NewCalibration or the Global
// accessor) and threaded into Timer/TimingData, avoiding module-level
// mutable state.
type Calibration struct {
	// nanosPer100Cycles is "ns produced by 100 cycles on this CPU",
	// sampled once at first use. The factor of 100 limits rounding loss
	// on low-frequency cores.
	nanosPer100Cycles uint64
}

// NewCalibration samples the reference clock once to learn the
// cycles<->nanoseconds ratio for this CPU. It never resamples.
func NewCalibration() *Calibration {
	return &Calibration{nanosPer100Cycles: sampleNanosPer100Cycles()}
}

// ToNanos converts a cycle Duration to Nanos: ns = cycles * K / 100.
func (c *Calibration) ToNanos(d Duration) Nanos {
	return Nanos{ns: d.cycles * c.nanosPer100Cycles / 100}
}

// ToDuration converts Nanos back to cycles: cycles = ns * 100 / K.
func (c *Calibration) ToDuration(n Nanos) Duration {
	if c.nanosPer100Cycles == 0 {
		return Duration{}
	}
	return Duration{cycles: n.ns * 100 / c.nanosPer100Cycles}
}

// Sub subtracts two Instants, producing the elapsed Nanos between them. The
// caller is responsible for temporal ordering; out-of-order readings
// wrap rather than panic.
func (c *Calibration) Sub(later, earlier Instant) Nanos {
	return c.ToNanos(Duration{cycles: later.cycles - earlier.cycles})
}

// Elapsed returns the Nanos elapsed between start and a fresh reading.
func (c *Calibration) Elapsed(start Instant) Nanos {
	return c.Sub(Now(), start)
}

// Before returns start shifted backwards by n, converted back to cycles.
func (c *Calibration) Before(start Instant, n Nanos) Instant {
	return Instant{cycles: start.cycles - c.ToDuration(n).cycles}
}

var (
	globalOnce sync.Once
	global     *Calibration
)

// Global returns the process-wide Calibration, constructing it on first
// call. A second call is a no-op read of the already-initialized value —
// "first writer wins". Kept as a thin
// convenience accessor for call sites (cmd/timekeeper's CLI entrypoint, ad
// hoc tests) that don't want to thread a *Calibration through; library code
// (Timer, TimingData) takes one explicitly.
func Global() *Calibration {
	globalOnce.Do(func() {
		global = NewCalibration()
	})
	return global
}
