package clock

// Now reads a fresh Instant from the platform's cycle counter (or the
// software fallback on targets without one). Expected to be inlined at every
// call site by the compiler in the hot path.
func Now() Instant {
	return Instant{cycles: readCounter()}
}

// Cycles exposes the raw counter reading, mainly for tests and the wire
// encoding in the messages package.
func (i Instant) Cycles() uint64 { return i.cycles }

// InstantFromCycles reconstructs an Instant from a raw reading, e.g. after
// decoding a record off a ring buffer.
func InstantFromCycles(c uint64) Instant { return Instant{cycles: c} }

// Less orders two Instants by raw counter value. Only meaningful for
// Instants sampled on the same CPU.
func (i Instant) Less(j Instant) bool { return i.cycles < j.cycles }

// Equal reports whether two Instants carry the same raw reading.
func (i Instant) Equal(j Instant) bool { return i.cycles == j.cycles }

// IsZero reports whether this is the zero-value Instant (never sampled).
func (i Instant) IsZero() bool { return i.cycles == 0 }
