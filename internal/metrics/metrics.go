package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Readings are dropped on the floor until a delegate installs itself through
// Dispatch; the pool plus the buffered channel keeps emission allocation-free
// on the hot lookup path.
var readingsCh = make(chan *reading, 1024)
var readingsPool = sync.Pool{
	New: func() interface{} {
		return &reading{}
	},
}
var dispatching atomic.Bool

type reading struct {
	Kind  MetricKind
	Value float64
}

// Simple emits a raw value for kind.
func Simple(kind MetricKind, value float64) {
	if !dispatching.Load() {
		return
	}
	r := readingsPool.Get().(*reading)
	r.Kind = kind
	r.Value = value
	readingsCh <- r
}

// Count emits a single unit for kind.
func Count(kind MetricKind) { Simple(kind, 1) }

// Measure returns a function that, once called, emits the time elapsed since
// the call to Measure, in microseconds.
func Measure(kind MetricKind) func() {
	start := time.Now()
	return func() {
		Simple(kind, float64(time.Since(start).Microseconds()))
	}
}

type delegate interface {
	Dispatch(kind MetricKind, value float64)
}

// Dispatch drains readings into del. It blocks, and is expected to run on its
// own goroutine for the lifetime of the process.
func Dispatch(del delegate) {
	dispatching.Store(true)
	for msg := range readingsCh {
		del.Dispatch(msg.Kind, msg.Value)
		readingsPool.Put(msg)
	}
}
