package timingdata

import (
	"testing"

	"github.com/louisponet/ma-timing/clock"
)

func nanos(v uint64) clock.Nanos { return clock.NanosFromUint64(v) }

func TestTrackBatchesIntoDatapoints(t *testing.T) {
	d := New("Latency", 4, 8, clock.ZeroNanos, clock.ZeroNanos)

	completed := false
	for _, v := range []uint64{10, 20, 30, 40} {
		completed = d.Track(nanos(v))
	}
	if !completed {
		t.Fatal("Track() on the 4th of 4 samples-per-datapoint should report a completed batch")
	}

	s := d.Report()
	if s.Median.Uint64() != 30 {
		t.Fatalf("Median = %d, want 30", s.Median.Uint64())
	}
	if s.Min.Uint64() != 10 {
		t.Fatalf("Min = %d, want 10", s.Min.Uint64())
	}
	if s.Max.Uint64() != 40 {
		t.Fatalf("Max = %d, want 40", s.Max.Uint64())
	}
}

func TestTrackFiltersBelowMinimumDuration(t *testing.T) {
	d := New("Latency", 2, 8, clock.ZeroNanos, nanos(50))

	if d.Track(nanos(10)) {
		t.Fatal("a sample below minimum duration should never complete a batch")
	}
	d.Track(nanos(100))
	if d.Track(nanos(200)) {
		// the second sample above minimum completes the batch of two
	}
	s := d.Report()
	if s.NMessages != 2 {
		t.Fatalf("NMessages = %d, want 2 (only samples above the minimum count)", s.NMessages)
	}
}

func TestCorrectedSubtractsClockOverhead(t *testing.T) {
	d := New("Latency", 1, 8, nanos(100), clock.ZeroNanos)
	d.Track(nanos(150))
	s := d.Report()
	if s.Max.Uint64() != 50 {
		t.Fatalf("Max = %d, want 50 (150 - 100 overhead)", s.Max.Uint64())
	}
}

func TestCorrectedSaturatesAtZero(t *testing.T) {
	d := New("Latency", 1, 8, nanos(1000), clock.ZeroNanos)
	d.Track(nanos(10))
	s := d.Report()
	if s.Max.Uint64() != 0 {
		t.Fatalf("Max = %d, want 0 (overhead larger than sample saturates)", s.Max.Uint64())
	}
}

func TestReportOnEmptyBatchIsANoop(t *testing.T) {
	d := New("Latency", 4, 8, clock.ZeroNanos, clock.ZeroNanos)
	d.Track(nanos(10))
	d.Track(nanos(20))
	s := d.Report()
	if len(s.Averages) != 1 {
		t.Fatalf("Report() should flush a partial batch into one datapoint, got %v", s.Averages)
	}
	// the flush emptied the batch, so an immediate second Report has nothing
	// to push
	if again := d.Report(); len(again.Averages) != 1 {
		t.Fatalf("Report() on an empty batch should not push a datapoint, got %v", again.Averages)
	}
	d.Track(nanos(30))
	d.Track(nanos(40))
	s2 := d.Report()
	if len(s2.Averages) != 2 {
		t.Fatalf("Report() after a second partial batch should have pushed a second datapoint, got %d", len(s2.Averages))
	}
}

func TestLastAnomalousFlagsOutlierDatapoint(t *testing.T) {
	d := New("Latency", 1, 32, clock.ZeroNanos, clock.ZeroNanos)

	steady := []uint64{98, 102, 100, 99, 101, 97, 103, 100, 99, 101, 98, 102, 100, 99, 101}
	for _, v := range steady {
		d.Track(nanos(v))
		if anomalous, _ := d.LastAnomalous(); anomalous {
			t.Fatalf("steady sample %d should not be flagged against its own baseline", v)
		}
	}

	d.Track(nanos(100_000))
	anomalous, zscore := d.LastAnomalous()
	if !anomalous {
		t.Fatalf("a datapoint 1000x the baseline should be flagged, zscore=%v", zscore)
	}
}

func TestAveragesWindowRolls(t *testing.T) {
	d := New("Latency", 1, 2, clock.ZeroNanos, clock.ZeroNanos)
	for _, v := range []uint64{10, 20, 30} {
		d.Track(nanos(v))
		d.registerDatapoint()
	}
	s := d.Report()
	if len(s.Averages) != 2 {
		t.Fatalf("len(Averages) = %d, want 2 (window capacity)", len(s.Averages))
	}
	if s.Averages[0].Uint64() != 20 || s.Averages[1].Uint64() != 30 {
		t.Fatalf("Averages = %v, want [20 30]", s.Averages)
	}
}
