package metrics

import (
	"sync/atomic"

	"github.com/amoshochman/constant-time-csv-reader/internal/metrics"
)

var hasDelegate atomic.Bool

// InstallDelegate registers del as the receiver for every metric emitted by
// the library and starts the dispatch loop. Only the first call has any
// effect; subsequent calls are no-ops.
func InstallDelegate(del *Delegates) {
	if hasDelegate.Swap(true) {
		return
	}
	go metrics.Dispatch(del)
}

// Delegates groups the per-component instrumentation delegates. All fields
// must be set before the value is passed to InstallDelegate.
type Delegates struct {
	Main   MainInstrumentationDelegate
	Lookup LookupInstrumentationDelegate
	Cursor CursorInstrumentationDelegate
	Parser ParserInstrumentationDelegate
}

func (d *Delegates) Dispatch(kind metrics.MetricKind, value float64) {
	switch kind {
	case metrics.CommonIndexBuildTiming:
		d.Main.IndexBuildTiming(value)
	case metrics.CommonIndexBuildFailures:
		d.Main.IndexBuildFailures(value)
	case metrics.CommonRecordsIndexed:
		d.Main.RecordsIndexed(value)
	case metrics.CommonBytesIndexed:
		d.Main.BytesIndexed(value)
	case metrics.CommonChunksIndexed:
		d.Main.ChunksIndexed(value)
	case metrics.CommonReadRecordCalls:
		d.Main.ReadRecordCalls(value)
	case metrics.CommonReadRecordLatency:
		d.Main.ReadRecordLatency(value)
	case metrics.CommonReadRecordFailures:
		d.Main.ReadRecordFailures(value)
	case metrics.CommonCloneCalls:
		d.Main.CloneCalls(value)
	case metrics.CommonCloseTiming:
		d.Main.CloseTiming(value)
	case metrics.LookupSeekCalls:
		d.Lookup.SeekCalls(value)
	case metrics.LookupLinesScanned:
		d.Lookup.LinesScanned(value)
	case metrics.LookupLatency:
		d.Lookup.Latency(value)
	case metrics.LookupFailures:
		d.Lookup.Failures(value)
	case metrics.CursorOpenCalls:
		d.Cursor.OpenCalls(value)
	case metrics.CursorAdvanceCalls:
		d.Cursor.AdvanceCalls(value)
	case metrics.CursorAdvanceLatency:
		d.Cursor.AdvanceLatency(value)
	case metrics.CursorExhausted:
		d.Cursor.Exhausted(value)
	case metrics.ParserParseCalls:
		d.Parser.ParseCalls(value)
	case metrics.ParserParseFailures:
		d.Parser.ParseFailures(value)
	}
}

type MainInstrumentationDelegate interface {
	IndexBuildTiming(float64)
	IndexBuildFailures(float64)
	RecordsIndexed(float64)
	BytesIndexed(float64)
	ChunksIndexed(float64)

	ReadRecordCalls(float64)
	ReadRecordLatency(float64)
	ReadRecordFailures(float64)

	CloneCalls(float64)
	CloseTiming(float64)
}

type LookupInstrumentationDelegate interface {
	SeekCalls(float64)
	LinesScanned(float64)
	Latency(float64)
	Failures(float64)
}

type CursorInstrumentationDelegate interface {
	OpenCalls(float64)
	AdvanceCalls(float64)
	AdvanceLatency(float64)
	Exhausted(float64)
}

type ParserInstrumentationDelegate interface {
	ParseCalls(float64)
	ParseFailures(float64)
}
