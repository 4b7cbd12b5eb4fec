package clock

import "time"

// BusyWait runs fn and then spins until at least d has elapsed since fn was
// entered, never sleeping, returning fn's result. Useful for benchmark
// harnesses that want to pace iterations without incurring a scheduler
// wakeup's jitter.
func BusyWait[R any](d Nanos, fn func() R) R {
	if d == ZeroNanos {
		return fn()
	}
	start := Now()
	r := fn()
	for Global().Elapsed(start).Less(d) {
	}
	return r
}

// Vsync runs fn and then sleeps out the remainder of d via time.Sleep,
// trading precision for not burning a core, returning fn's result.
func Vsync[R any](d Nanos, fn func() R) R {
	if d == ZeroNanos {
		return fn()
	}
	start := Now()
	r := fn()
	elapsed := Global().Elapsed(start)
	if elapsed.Less(d) {
		time.Sleep(d.SaturatingSub(elapsed).AsDuration())
	}
	return r
}

// BusySleep spins until d has elapsed, doing nothing.
func BusySleep(d Nanos) {
	if d == ZeroNanos {
		return
	}
	start := Now()
	for Global().Elapsed(start).Less(d) {
	}
}

// Repeater gates a callback to run at most once per interval of elapsed wall
// time. It's built directly on Instant.
type Repeater struct {
	interval Nanos
	calib    *Calibration
	last     Instant
	started  bool
}

// Every constructs a Repeater gated on the given interval, using the global
// Calibration.
func Every(interval Nanos) *Repeater {
	return &Repeater{interval: interval, calib: Global()}
}

// Maybe invokes g if at least interval has elapsed since the last
// invocation (or if this is the first call), and reports whether it ran.
func (r *Repeater) Maybe(g func()) bool {
	now := Now()
	if r.started && r.calib.Sub(now, r.last).Less(r.interval) {
		return false
	}
	r.started = true
	r.last = now
	g()
	return true
}
