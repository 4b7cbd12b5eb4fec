//go:build !(cgo && amd64)

package clock

import "time"

// readCounter falls back to the system clock's nanosecond reading on targets
// without a usable cycle counter. Precision degrades to whatever the OS
// scheduler grants time.Now(), but the Instant/Nanos interface above is
// unchanged. UnixNano is the wall clock, not a monotonic reading: a step of
// the system clock shows up as a jump in the counter.
func readCounter() uint64 {
	return uint64(time.Now().UnixNano())
}
