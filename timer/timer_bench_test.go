package timer

import "testing"

// BenchmarkStartStop measures the cost of a single instrumented region:
// two cycle-counter reads plus one publish onto the business ring.
func BenchmarkStartStop(b *testing.B) {
	tm, err := New(b.TempDir(), "bench")
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer tm.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tm.Start()
		tm.Stop()
	}
}
