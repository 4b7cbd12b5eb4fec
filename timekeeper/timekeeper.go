// Package timekeeper implements the out-of-process consumer side of the
// profiler: it discovers timing rings that instrumented processes have
// created, drains them on a bounded schedule, and reduces what it reads
// into the rolling statistics rendered by the TUI in this package.
package timekeeper

import (
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/messages"
	"github.com/louisponet/ma-timing/shmqueue"
	"github.com/louisponet/ma-timing/timer"
	"github.com/louisponet/ma-timing/timingdata"
)

// clockOverheadSamples is how many back-to-back clock reads are taken to
// estimate the fixed cost of Instant.Now() itself, so that cost can be
// subtracted out of every reported statistic.
const clockOverheadSamples = 1_000_000

// Config parameterizes a TimeKeeper's consumption and reporting behaviour.
type Config struct {
	Dir                 string
	ReportInterval      time.Duration
	SamplesPerDatapoint int
	NDatapoints         int
	MinimumDuration     clock.Nanos
	// Core pins the TimeKeeper's polling loop to a CPU core when >= 0;
	// negative leaves scheduling to the OS.
	Core int
	// NameFilter restricts Discover to timer names matching this pattern
	// (see matchName for syntax: an exact name, "*" for everything, or a
	// "prefix-*" wildcard). Empty and "*" both match everything.
	NameFilter string
}

// DefaultConfig returns the configuration a bare `timekeeper` invocation
// uses absent any flags.
func DefaultConfig() Config {
	return Config{
		Dir:                 shmqueue.DefaultDir,
		ReportInterval:      500 * time.Millisecond,
		SamplesPerDatapoint: 10_000,
		NDatapoints:         256,
		MinimumDuration:     clock.NanosFromUint64(50),
		Core:                -1,
		NameFilter:          "*",
	}
}

type trackedTimer struct {
	data      *timingdata.TimerData
	latencyQ  *shmqueue.Queue
	businessQ *shmqueue.Queue
	latency   *shmqueue.Consumer[messages.LatencyRecord]
	business  *shmqueue.Consumer[messages.BusinessRecord]
}

// TimeKeeper owns the set of timers currently being consumed and the
// statistics reduced from them.
type TimeKeeper struct {
	cfg           Config
	log           *slog.Logger
	calib         *clock.Calibration
	clockOverhead clock.Nanos

	timers []*trackedTimer
}

// New constructs a TimeKeeper. Discovery and draining don't start until
// Discover/DrainOnce are called.
func New(cfg Config, log *slog.Logger) *TimeKeeper {
	if log == nil {
		log = slog.Default()
	}
	calib := clock.Global()
	return &TimeKeeper{
		cfg:           cfg,
		log:           log,
		calib:         calib,
		clockOverhead: measureClockOverhead(calib),
	}
}

// PinToConfiguredCore locks the calling goroutine to its current OS thread
// and restricts that thread to Config.Core, when set. Call it from the
// goroutine that will run the polling loop, before the first Discover.
func (k *TimeKeeper) PinToConfiguredCore() {
	if k.cfg.Core < 0 {
		return
	}
	runtime.LockOSThread()
	if err := pinToCore(k.cfg.Core); err != nil {
		k.log.Warn("failed to pin to core", "core", k.cfg.Core, "err", err)
	}
}

func measureClockOverhead(calib *clock.Calibration) clock.Nanos {
	start := clock.Now()
	for i := 0; i < clockOverheadSamples; i++ {
		_ = clock.Now()
	}
	total := calib.Elapsed(start)
	return total.DivInt(clockOverheadSamples)
}

// Names returns the names of every timer currently tracked, in discovery
// order — the order the left-hand list is rendered in.
func (k *TimeKeeper) Names() []string {
	names := make([]string, len(k.timers))
	for i, t := range k.timers {
		names[i] = t.data.Name
	}
	return names
}

// TimerData returns the tracked TimerData at index i, or nil if out of
// range.
func (k *TimeKeeper) TimerData(i int) *timingdata.TimerData {
	if i < 0 || i >= len(k.timers) {
		return nil
	}
	return k.timers[i].data
}

// Discover scans the configured directory for latency rings and attaches
// to any that aren't already tracked. It's safe to call repeatedly; a name
// already tracked is skipped.
func (k *TimeKeeper) Discover() {
	entries, err := os.ReadDir(k.cfg.Dir)
	if err != nil {
		k.log.Warn("discovery scan failed", "dir", k.cfg.Dir, "err", err)
		return
	}

	known := make(map[string]bool, len(k.timers))
	for _, t := range k.timers {
		known[t.data.Name] = true
	}

	pattern := k.cfg.NameFilter
	if pattern == "" {
		pattern = "*"
	}

	const prefix = "latency-"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutPrefix(e.Name(), prefix)
		if !ok || known[name] {
			continue
		}
		if !matchName(pattern, name) {
			continue
		}
		if err := k.attach(name); err != nil {
			k.log.Warn("failed to attach timer", "name", name, "err", err)
			continue
		}
		known[name] = true
	}
}

func (k *TimeKeeper) attach(name string) error {
	latencyQ, err := shmqueue.Shared(shmqueue.LatencyPath(k.cfg.Dir, name), messages.LatencySize, timer.RingCapacity)
	if err != nil {
		return err
	}
	businessQ, err := shmqueue.Shared(shmqueue.TimingPath(k.cfg.Dir, name), messages.BusinessSize, timer.RingCapacity)
	if err != nil {
		latencyQ.Close()
		return err
	}

	k.timers = append(k.timers, &trackedTimer{
		data:      timingdata.NewTimerData(name, k.cfg.SamplesPerDatapoint, k.cfg.NDatapoints, k.clockOverhead, k.cfg.MinimumDuration, k.calib),
		latencyQ:  latencyQ,
		businessQ: businessQ,
		latency:   shmqueue.NewConsumer[messages.LatencyRecord](latencyQ, messages.DecodeLatency),
		business:  shmqueue.NewConsumer[messages.BusinessRecord](businessQ, messages.DecodeBusiness),
	})
	k.log.Info("attached timer", "name", name)
	return nil
}

// DrainOnce pulls every currently-available message off every tracked
// ring, for both the latency and business stream of each timer. Each
// stream is drained until either it reports ErrEmpty (caught up) or a full
// datapoint batch completes (handing control back so one very hot timer
// can't starve the others in a single call). Timers are drained
// concurrently via errgroup, since each one's two streams are independent.
func (k *TimeKeeper) DrainOnce() {
	var g errgroup.Group
	for _, t := range k.timers {
		t := t
		g.Go(func() error {
			drainLatency(t, k.log)
			drainBusiness(t, k.log)
			return nil
		})
	}
	g.Wait()
}

func drainLatency(t *trackedTimer, log *slog.Logger) {
	for {
		msg, err := t.latency.TryConsume()
		switch err {
		case nil:
			if t.data.TrackLatency(msg) {
				logAnomaly(log, t.data.Name, t.data.Latency)
				return
			}
		case shmqueue.ErrEmpty:
			return
		case shmqueue.ErrSpedPast:
			t.latency.RecoverAfterError()
		default:
			return
		}
	}
}

func drainBusiness(t *trackedTimer, log *slog.Logger) {
	for {
		msg, err := t.business.TryConsume()
		switch err {
		case nil:
			if t.data.TrackBusiness(msg) {
				logAnomaly(log, t.data.Name, t.data.Business)
				return
			}
		case shmqueue.ErrEmpty:
			return
		case shmqueue.ErrSpedPast:
			t.business.RecoverAfterError()
		default:
			return
		}
	}
}

func logAnomaly(log *slog.Logger, name string, d *timingdata.TimingData) {
	if anomalous, zscore := d.LastAnomalous(); anomalous {
		log.Warn("datapoint deviates from rolling baseline", "timer", name, "stream", d.Title(), "zscore", zscore)
	}
}

// Close detaches every tracked ring.
func (k *TimeKeeper) Close() {
	for _, t := range k.timers {
		t.latencyQ.Close()
		t.businessQ.Close()
	}
}
