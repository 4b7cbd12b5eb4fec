package timingdata

import (
	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/messages"
)

// TimerData pairs the latency stream and the business-span stream for a
// single instrumented site under one name, plus the toggle a TUI uses to
// lay the two side by side or stacked.
type TimerData struct {
	Name string

	Latency  *TimingData
	Business *TimingData

	// Stacked selects a vertical layout over the default horizontal one;
	// toggled from the TUI's 's' key.
	Stacked bool

	calib *clock.Calibration
}

// NewTimerData constructs the latency/business pair for name, sharing one
// Calibration to convert the cycle Durations carried on the wire into the
// Nanos that TimingData tracks.
func NewTimerData(name string, samplesPerDatapoint, nDatapoints int, clockOverhead, minimumDuration clock.Nanos, calib *clock.Calibration) *TimerData {
	return &TimerData{
		Name:     name,
		Latency:  New("Latency", samplesPerDatapoint, nDatapoints, clockOverhead, minimumDuration),
		Business: New("Business", samplesPerDatapoint, nDatapoints, clockOverhead, minimumDuration),
		calib:    calib,
	}
}

// TrackLatency converts msg's Duration to Nanos and records it. It reports
// whether this sample completed a batch.
func (t *TimerData) TrackLatency(msg messages.LatencyRecord) bool {
	return t.Latency.Track(t.calib.ToNanos(msg.Duration()))
}

// TrackBusiness converts msg's elapsed span to Nanos and records it. It
// reports whether this sample completed a batch.
func (t *TimerData) TrackBusiness(msg messages.BusinessRecord) bool {
	return t.Business.Track(t.calib.ToNanos(msg.Elapsed()))
}
