package timingdata

import (
	"math"

	"github.com/louisponet/ma-timing/clock"
)

// anomalyZScoreThreshold is how many standard deviations a fresh datapoint
// must sit from the rolling baseline before it's flagged. 3 sigma covers
// 99.7% of a normal distribution, so flags above it are rare under steady
// load.
const anomalyZScoreThreshold = 3.0

// runningStats tracks a mean and variance over a bounded trailing window
// using Welford's online algorithm, so neither updating nor querying it
// needs to rescan the window. zScore reports 0 until at least 10 values of
// history have accumulated for the estimate to be meaningful.
type runningStats struct {
	values []clock.Nanos
	count  int
	index  int
	mean   float64
	m2     float64
}

func newRunningStats(capacity int) *runningStats {
	return &runningStats{values: make([]clock.Nanos, capacity)}
}

func (s *runningStats) add(v clock.Nanos) {
	n := float64(v.Uint64())
	if s.count < len(s.values) {
		s.count++
	} else if s.count == 1 {
		// Removing the only value leaves an empty window.
		s.mean, s.m2 = 0, 0
	} else {
		old := float64(s.values[s.index].Uint64())
		oldMean := s.mean
		s.mean -= (old - s.mean) / float64(s.count-1)
		s.m2 -= (old - oldMean) * (old - s.mean)
	}

	s.values[s.index] = v
	oldMean := s.mean
	s.mean += (n - s.mean) / float64(s.count)
	s.m2 += (n - oldMean) * (n - s.mean)
	s.index = (s.index + 1) % len(s.values)
}

func (s *runningStats) meanStdDev() (float64, float64) {
	if s.count < 2 {
		return s.mean, 0
	}
	variance := s.m2 / float64(s.count-1)
	return s.mean, math.Sqrt(variance)
}

// zScore reports how many standard deviations v sits from the current
// baseline. A zero stddev (not enough variety in the history yet) reports a
// zero score rather than dividing by zero.
func (s *runningStats) zScore(v clock.Nanos) float64 {
	if s.count < 10 {
		return 0
	}
	mean, stddev := s.meanStdDev()
	if stddev == 0 {
		return 0
	}
	return (float64(v.Uint64()) - mean) / stddev
}
