package internal

import "github.com/amoshochman/constant-time-csv-reader/internal/metrics"

// IndexCursor walks raw records in ascending record order. Every advance
// delegates to the same seek-and-scan lookup a direct read uses, so a cursor
// holds no stream state of its own and any number of cursors can interleave
// over one Index.
type IndexCursor interface {
	Next() bool
	Line() string
	Position() int64
	Err() error
}

type indexCursor struct {
	index *Index
	wants int64
	line  string
	done  bool
	err   error
}

func (i *indexCursor) Next() bool {
	if i.done || i.err != nil {
		return false
	}
	defer metrics.Measure(metrics.CursorAdvanceLatency)()
	metrics.Count(metrics.CursorAdvanceCalls)

	// One past the last record is the clean exhaustion point; every other
	// out-of-range position surfaces through the lookup below.
	if i.wants == i.index.RecordCount()+1 {
		metrics.Count(metrics.CursorExhausted)
		i.done = true
		return false
	}

	line, err := i.index.ReadRaw(i.wants)
	if err != nil {
		i.err = err
		return false
	}
	i.line = line
	i.wants++
	return true
}

func (i *indexCursor) Line() string { return i.line }

func (i *indexCursor) Position() int64 {
	// Assumes Next() has been called (as it should)
	return i.wants - 1
}

func (i *indexCursor) Err() error { return i.err }
