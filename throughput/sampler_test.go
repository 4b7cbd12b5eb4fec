package throughput

import (
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisponet/ma-timing/shmqueue"
)

func TestSamplerStopIsSynchronous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring")
	q, err := shmqueue.Shared(path, 8, 4)
	if err != nil {
		t.Fatalf("Shared: %v", err)
	}
	defer q.Close()

	s := NewSampler("test", q, 5*time.Millisecond, nil)
	s.Run()

	prod := shmqueue.NewProducer[uint64](q, func(v uint64, dst []byte) {
		binary.LittleEndian.PutUint64(dst, v)
	})
	prod.Produce(1)

	time.Sleep(20 * time.Millisecond)
	s.Stop()
	// Stop() blocking until the loop goroutine has actually exited is the
	// behaviour under test; reaching this line at all is the assertion.
}

func TestRateComputesMsgPerMs(t *testing.T) {
	if got := rate(100, time.Second); got != 0.1 {
		t.Fatalf("rate(100, 1s) = %v, want 0.1", got)
	}
	if got := rate(0, time.Second); got != 0 {
		t.Fatalf("rate(0, 1s) = %v, want 0", got)
	}
}
