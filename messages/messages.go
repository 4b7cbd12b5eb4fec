// Package messages defines the fixed-layout records Timer publishes onto the
// two SPMC rings per instrumented site, plus a tagged union for the two
// shapes a latency measurement can take.
//
// Every record here has a fixed on-wire size regardless of which logical
// variant populated it — shmqueue's rings are arrays of fixed-size byte
// slots, so the discriminant lives inline rather than changing the slot's
// footprint.
package messages

import (
	"encoding/binary"

	"github.com/louisponet/ma-timing/clock"
)

// BusinessSize is the wire size, in bytes, of a BusinessRecord.
const BusinessSize = 16

// BusinessRecord is a business-logic span: two cycle-counter stamps taken on
// the same side (start and stop of the same instrumented region).
type BusinessRecord struct {
	StartT clock.Instant
	StopT  clock.Instant
}

// NewBusinessRecord builds a record from a start/stop pair.
func NewBusinessRecord(start, stop clock.Instant) BusinessRecord {
	return BusinessRecord{StartT: start, StopT: stop}
}

// Elapsed reduces the record to a single cycle Duration: stop_t - start_t.
// Invariant: producers only publish records with StopT >= StartT; a caller
// that decodes a record off the ring can rely on this.
func (r BusinessRecord) Elapsed() clock.Duration {
	return clock.DurationFromCycles(r.StopT.Cycles() - r.StartT.Cycles())
}

// EncodeBusiness writes r into dst, which must be at least BusinessSize
// bytes.
func EncodeBusiness(r BusinessRecord, dst []byte) {
	binary.LittleEndian.PutUint64(dst[0:8], r.StartT.Cycles())
	binary.LittleEndian.PutUint64(dst[8:16], r.StopT.Cycles())
}

// DecodeBusiness reads a BusinessRecord from src, which must be at least
// BusinessSize bytes.
func DecodeBusiness(src []byte) BusinessRecord {
	return BusinessRecord{
		StartT: clock.InstantFromCycles(binary.LittleEndian.Uint64(src[0:8])),
		StopT:  clock.InstantFromCycles(binary.LittleEndian.Uint64(src[8:16])),
	}
}

// LatencyTag discriminates the two shapes a LatencyRecord can carry.
type LatencyTag uint32

const (
	// LatencyTwoStamps carries the full (ingestion_t, arrival_t) pair.
	LatencyTwoStamps LatencyTag = 0
	// LatencyInterval carries an already-reduced cycle delta.
	LatencyInterval LatencyTag = 1
)

// LatencySize is the wire size, in bytes, of a LatencyRecord — tag plus the
// wider of the two payload shapes, padded to a stable slot size.
const LatencySize = 32

// LatencyRecord is a tagged union of the two shapes a latency measurement
// can take: a TwoStamps pair (ingestion_t from an external origin, arrival_t
// from local receipt) or a pre-reduced Interval delta.
type LatencyRecord struct {
	Tag LatencyTag

	// Valid when Tag == LatencyTwoStamps.
	IngestionT clock.Instant
	ArrivalT   clock.Instant

	// Valid when Tag == LatencyInterval.
	DeltaCycles uint64
}

// NewLatencyTwoStamps builds a TwoStamps latency record.
func NewLatencyTwoStamps(ingestion, arrival clock.Instant) LatencyRecord {
	return LatencyRecord{Tag: LatencyTwoStamps, IngestionT: ingestion, ArrivalT: arrival}
}

// NewLatencyInterval builds an Interval latency record from a pre-reduced
// cycle delta.
func NewLatencyInterval(delta clock.Duration) LatencyRecord {
	return LatencyRecord{Tag: LatencyInterval, DeltaCycles: delta.Cycles()}
}

// Duration reduces the record to a single cycle Duration regardless of
// which variant it carries, so callers never need to branch on Tag.
// Invariant: the result is non-negative for a correctly-produced record.
func (r LatencyRecord) Duration() clock.Duration {
	if r.Tag == LatencyInterval {
		return clock.DurationFromCycles(r.DeltaCycles)
	}
	return clock.DurationFromCycles(r.ArrivalT.Cycles() - r.IngestionT.Cycles())
}

// EncodeLatency writes r into dst, which must be at least LatencySize
// bytes.
func EncodeLatency(r LatencyRecord, dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(r.Tag))
	switch r.Tag {
	case LatencyInterval:
		binary.LittleEndian.PutUint64(dst[8:16], r.DeltaCycles)
	default:
		binary.LittleEndian.PutUint64(dst[8:16], r.IngestionT.Cycles())
		binary.LittleEndian.PutUint64(dst[16:24], r.ArrivalT.Cycles())
	}
}

// DecodeLatency reads a LatencyRecord from src, which must be at least
// LatencySize bytes.
func DecodeLatency(src []byte) LatencyRecord {
	tag := LatencyTag(binary.LittleEndian.Uint32(src[0:4]))
	if tag == LatencyInterval {
		return LatencyRecord{
			Tag:         tag,
			DeltaCycles: binary.LittleEndian.Uint64(src[8:16]),
		}
	}
	return LatencyRecord{
		Tag:        tag,
		IngestionT: clock.InstantFromCycles(binary.LittleEndian.Uint64(src[8:16])),
		ArrivalT:   clock.InstantFromCycles(binary.LittleEndian.Uint64(src[16:24])),
	}
}
