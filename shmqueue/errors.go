package shmqueue

import "errors"

// ErrQueueOpenFailed is returned by Shared when a ring file can't be
// created/attached, or when an existing ring's layout (element size or
// capacity) doesn't match what the caller asked for. Fatal at Timer.New and
// at consumer attach time.
var ErrQueueOpenFailed = errors.New("shmqueue: queue open failed")

// ErrEmpty is returned by TryConsume when there is nothing new to read.
var ErrEmpty = errors.New("shmqueue: empty")

// ErrSpedPast is returned by TryConsume when the producer has overwritten
// slots the consumer hadn't read yet. Callers are expected to recover
// locally via Consumer.RecoverAfterError rather than treat this as fatal.
var ErrSpedPast = errors.New("shmqueue: consumer sped past")

// ErrUnsupportedPlatform is returned by Shared on targets without a shared
// memory mapping implementation (see mmap_fallback.go).
var ErrUnsupportedPlatform = errors.New("shmqueue: shared memory rings are not supported on this platform")
