package shmqueue

import "path/filepath"

// DefaultDir is where rings live when a caller doesn't specify a directory
// explicitly: a dedicated subdirectory of /dev/shm, the tmpfs-backed shared
// memory mount present on Linux. Timer and TimeKeeper both default to this
// so that, given no configuration, a Timer in one process and a TimeKeeper
// in another agree on where to find each other.
const DefaultDir = "/dev/shm/ma-timing"

// TimingPath returns the conventional path for a timer's business-span
// ring: <dir>/timing-<name>.
func TimingPath(dir, name string) string {
	return filepath.Join(dir, "timing-"+name)
}

// LatencyPath returns the conventional path for a timer's latency ring:
// <dir>/latency-<name>. TimeKeeper's discovery loop looks for rings
// matching this pattern to learn which timers exist.
func LatencyPath(dir, name string) string {
	return filepath.Join(dir, "latency-"+name)
}
