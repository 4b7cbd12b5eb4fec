//go:build !linux && !darwin

package shmqueue

import "os"

// mapFile has no implementation on platforms outside linux/darwin: the
// protocol depends on a page genuinely shared between independent
// processes, which this package only knows how to get via mmap(2).
func mapFile(f *os.File, size int) ([]byte, error) {
	return nil, ErrUnsupportedPlatform
}

func unmapFile(data []byte) {}
