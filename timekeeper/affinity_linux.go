//go:build linux

package timekeeper

import "golang.org/x/sys/unix"

// pinToCore restricts the calling goroutine's OS thread to a single CPU
// core, so the polling loop's cache lines stay resident between passes
// instead of migrating. Requires the caller to have already called
// runtime.LockOSThread.
func pinToCore(core int) error {
	if core < 0 {
		return nil
	}
	var set unix.CPUSet
	set.Set(core)
	return unix.SchedSetaffinity(0, &set)
}
