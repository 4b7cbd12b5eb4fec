// Package timingdata turns a stream of per-event durations into a rolling
// statistical picture: a batch of samples is collected until it reaches a
// configured size, then reduced to one datapoint (min/max/median/average)
// pushed onto a fixed-size rolling window of datapoints. This is the
// exact two-level reduction a live dashboard needs — per-event numbers are
// too noisy and too numerous to render directly, so they're folded into
// datapoints at a rate the terminal can actually redraw at.
package timingdata

import (
	"math"
	"sort"

	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/ringbuf"
)

// TimingData tracks one stream of durations (e.g. the latency stream or the
// business-span stream for a single instrumented site).
type TimingData struct {
	title string

	measurements []clock.Nanos
	averages     *ringbuf.Buffer[clock.Nanos]
	baseline     *runningStats

	min    clock.Nanos
	max    clock.Nanos
	median clock.Nanos

	clockOverhead clock.Nanos
	minimumDur    clock.Nanos

	samplesPerDatapoint int
	nMessages           int
	lastReport          clock.Instant
	lastZScore          float64
}

// New constructs a TimingData. clockOverhead is subtracted (via
// SaturatingSub) from every reduced statistic so the fixed cost of reading
// the clock itself doesn't show up as signal. minimumDuration discards any
// individual sample below it before it's even counted — useful for
// filtering out-of-band zero-length spans; passing clock.ZeroNanos tracks
// everything.
func New(title string, samplesPerDatapoint, nDatapoints int, clockOverhead, minimumDuration clock.Nanos) *TimingData {
	return &TimingData{
		title:               title,
		measurements:        make([]clock.Nanos, 0, samplesPerDatapoint),
		averages:            ringbuf.New[clock.Nanos](nDatapoints),
		baseline:            newRunningStats(nDatapoints),
		clockOverhead:       clockOverhead,
		minimumDur:          minimumDuration,
		samplesPerDatapoint: samplesPerDatapoint,
		lastReport:          clock.Now(),
	}
}

func (d *TimingData) corrected(n clock.Nanos) clock.Nanos {
	return n.SaturatingSub(d.clockOverhead)
}

func (d *TimingData) curAvg() clock.Nanos {
	n := len(d.measurements)
	if n == 0 {
		return clock.ZeroNanos
	}
	return d.corrected(clock.SumNanos(d.measurements).DivInt(n))
}

// avg returns the average of the datapoint window itself (as opposed to
// curAvg, the average of the in-progress batch of raw samples).
func (d *TimingData) avg() clock.Nanos {
	vs := d.averages.Values()
	if len(vs) == 0 {
		return clock.ZeroNanos
	}
	return clock.SumNanos(vs).DivInt(len(vs))
}

// registerDatapoint reduces the current batch of raw samples to one
// datapoint and pushes it onto the rolling window. A no-op on an empty
// batch, so calling Report mid-batch doesn't distort the window with a
// zero-sample datapoint.
func (d *TimingData) registerDatapoint() {
	n := len(d.measurements)
	if n == 0 {
		return
	}
	sort.Slice(d.measurements, func(i, j int) bool { return d.measurements[i].Less(d.measurements[j]) })

	d.max = d.corrected(d.measurements[n-1])
	d.min = d.corrected(d.measurements[0])
	d.median = d.corrected(d.measurements[n/2])

	avg := d.curAvg()
	d.lastZScore = d.baseline.zScore(avg)
	d.baseline.add(avg)
	d.averages.Push(avg)
	d.measurements = d.measurements[:0]
}

// Track records one raw sample. It reports whether this sample completed a
// batch and triggered a new datapoint — callers that are draining a queue
// in a bounded loop use this to know when they can stop pulling more
// messages for this stream on this pass.
func (d *TimingData) Track(el clock.Nanos) bool {
	if el.Less(d.minimumDur) {
		return false
	}
	d.nMessages++
	d.measurements = append(d.measurements, el)
	if len(d.measurements) == d.samplesPerDatapoint {
		d.registerDatapoint()
		return true
	}
	return false
}

// LastAnomalous reports whether the most recently completed datapoint
// deviated from the rolling baseline by more than anomalyZScoreThreshold
// standard deviations, without flushing an in-progress batch the way
// Report does.
func (d *TimingData) LastAnomalous() (anomalous bool, zscore float64) {
	return math.Abs(d.lastZScore) > anomalyZScoreThreshold, d.lastZScore
}

// Title returns the stream's label ("Latency" or "Business").
func (d *TimingData) Title() string { return d.title }

// Summary is a point-in-time snapshot of a TimingData, suitable for
// rendering without holding a reference into the live structure.
type Summary struct {
	Title     string
	NMessages int
	MsgPerMs  float64
	Avg       clock.Nanos
	Median    clock.Nanos
	Min       clock.Nanos
	Max       clock.Nanos
	Averages  []clock.Nanos
	// Anomalous is set when the latest datapoint's average deviated more
	// than anomalyZScoreThreshold standard deviations from the rolling
	// baseline built from prior datapoints.
	Anomalous bool
	ZScore    float64
}

// Report flushes any partially-filled batch into the rolling window, builds
// a Summary of current state, and resets the message counter and report
// clock for the next interval.
func (d *TimingData) Report() Summary {
	d.registerDatapoint()

	elapsed := clock.Global().Elapsed(d.lastReport)
	msgPerMs := 0.0
	if ms := elapsed.AsDuration().Milliseconds(); ms > 0 {
		msgPerMs = float64(d.nMessages) / float64(ms)
	}

	s := Summary{
		Title:     d.title,
		NMessages: d.nMessages,
		MsgPerMs:  msgPerMs,
		Avg:       d.avg(),
		Median:    d.median,
		Min:       d.min,
		Max:       d.max,
		Averages:  d.averages.Values(),
		Anomalous: math.Abs(d.lastZScore) > anomalyZScoreThreshold,
		ZScore:    d.lastZScore,
	}

	d.nMessages = 0
	d.lastReport = clock.Now()
	return s
}
