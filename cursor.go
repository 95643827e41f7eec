package csvreader

import (
	"github.com/amoshochman/constant-time-csv-reader/internal"
	"github.com/amoshochman/constant-time-csv-reader/internal/metrics"
)

// Cursor walks records in ascending record order. Next advances the cursor
// and reports whether a record became available through Record; once it
// returns false, Err distinguishes clean exhaustion (nil) from a failed
// advance. A cursor holds only its own position, so any number of them can
// iterate one Reader independently. It is not safe for use from multiple
// goroutines, as advancing repositions the shared stream; concurrent
// iteration calls for cloned readers instead.
type Cursor interface {
	Next() bool
	Record() Record
	Position() int64
	Err() error
}

type recordCursor struct {
	inner  internal.IndexCursor
	parser Parser
	header string
	rec    Record
	err    error
}

func (c *recordCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.inner.Next() {
		c.err = c.inner.Err()
		return false
	}
	metrics.Count(metrics.ParserParseCalls)
	rec, err := c.parser.Parse(c.header, c.inner.Line())
	if err != nil {
		metrics.Count(metrics.ParserParseFailures)
		c.err = err
		return false
	}
	c.rec = rec
	return true
}

func (c *recordCursor) Record() Record { return c.rec }

func (c *recordCursor) Position() int64 { return c.inner.Position() }

func (c *recordCursor) Err() error { return c.err }
