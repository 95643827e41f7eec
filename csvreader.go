package csvreader

import (
	"fmt"
	"io"
	"time"

	"github.com/go-stdlog/stdlog"
	"github.com/google/uuid"

	"github.com/amoshochman/constant-time-csv-reader/errors"
	"github.com/amoshochman/constant-time-csv-reader/internal"
	"github.com/amoshochman/constant-time-csv-reader/internal/metrics"
	"github.com/amoshochman/constant-time-csv-reader/source"
)

type Reader interface {
	// RecordCount returns the number of data records in the stream. The
	// header line is not a record.
	RecordCount() int64

	// Header returns the parsed field names from the stream's first line, or
	// nil for a stream with no bytes at all.
	Header() []string

	// HeaderLine returns the raw header line, terminator stripped.
	HeaderLine() string

	// ReadRecord returns record n parsed against the header. Record numbers
	// start at 1; the first line of the stream is the header, not record 1.
	// Returns an errors.OutOfRange when n falls outside [1, RecordCount], or
	// an errors.MalformedStream when the stream no longer matches the index
	// built during construction.
	ReadRecord(n int64) (Record, error)

	// ReadRawRecord returns the raw line of record n, terminator stripped,
	// under the same range rules as ReadRecord.
	ReadRawRecord(n int64) (string, error)

	// ReadRecords returns a Cursor yielding records from n through the last
	// record. Requesting RecordCount()+1 yields an empty iteration; any other
	// out-of-range start surfaces OutOfRange on the first advance.
	ReadRecords(n int64) Cursor

	// Clone returns an independent Reader over the same stream, sharing the
	// offset index built during construction. The underlying stream must
	// implement source.Source; otherwise an errors.NotCloneable is returned.
	Clone() (Reader, error)

	// IsEmpty returns whether the stream holds no data records.
	IsEmpty() bool

	// ChunkSize returns the offset sampling stride the index was built with.
	ChunkSize() int64

	// ID returns the identity of this reader instance. Clones receive their
	// own.
	ID() uuid.UUID

	// Close closes the underlying stream when it is an io.Closer and
	// invalidates the reader. Cloned readers hold their own handles and stay
	// usable.
	Close() error
}

// New reads src once from the beginning, building the sparse offset index
// every later operation resolves record numbers through, and returns the
// Reader over it. src must remain readable and unchanged for the lifetime of
// the returned Reader; nothing of it is buffered beyond the index.
func New(src io.ReadSeeker, config Config) (Reader, error) {
	if src == nil {
		return nil, fmt.Errorf("cannot initialize reader without a stream")
	}
	if config.ChunkSize < 0 {
		return nil, fmt.Errorf("invalid ChunkSize %d", config.ChunkSize)
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.Parser == nil {
		config.Parser = SeparatorParser{}
	}

	log := config.GetLogger()
	id := uuid.Must(uuid.NewV7())
	log.Info("Reader is initializing",
		"id", id,
		"ChunkSize", config.ChunkSize,
	)

	buildStart := time.Now()
	idx, err := internal.LoadIndex(src, config)
	if err != nil {
		log.Error(err, "Reader startup failed", "id", id)
		return nil, err
	}
	log.Debug("Index initialization completed", "id", id, "elapsed", time.Since(buildStart).String())

	return &reader{
		config: &config,
		log:    log,
		id:     id,
		src:    src,
		index:  idx,
		header: headerFields(config.Parser, idx),
	}, nil
}

// headerFields parses the header line unless the stream carried no bytes at
// all, in which case there is no header to speak of.
func headerFields(p Parser, idx *internal.Index) []string {
	if idx.Size() == 0 {
		return nil
	}
	return p.Fields(idx.HeaderLine())
}

type reader struct {
	config *Config
	log    stdlog.Logger
	id     uuid.UUID
	src    io.ReadSeeker
	index  *internal.Index
	header []string
	closed bool
}

func (r *reader) RecordCount() int64 { return r.index.RecordCount() }

func (r *reader) Header() []string { return r.header }

func (r *reader) HeaderLine() string { return r.index.HeaderLine() }

func (r *reader) ReadRecord(n int64) (Record, error) {
	metrics.Count(metrics.CommonReadRecordCalls)
	defer metrics.Measure(metrics.CommonReadRecordLatency)()

	line, err := r.readRaw(n)
	if err != nil {
		metrics.Count(metrics.CommonReadRecordFailures)
		return nil, err
	}
	metrics.Count(metrics.ParserParseCalls)
	rec, err := r.config.Parser.Parse(r.index.HeaderLine(), line)
	if err != nil {
		metrics.Count(metrics.ParserParseFailures)
		metrics.Count(metrics.CommonReadRecordFailures)
		return nil, err
	}
	return rec, nil
}

func (r *reader) ReadRawRecord(n int64) (string, error) {
	metrics.Count(metrics.CommonReadRecordCalls)
	defer metrics.Measure(metrics.CommonReadRecordLatency)()

	line, err := r.readRaw(n)
	if err != nil {
		metrics.Count(metrics.CommonReadRecordFailures)
		return "", err
	}
	return line, nil
}

func (r *reader) readRaw(n int64) (string, error) {
	if r.closed {
		return "", errors.Closed{}
	}
	return r.index.ReadRaw(n)
}

func (r *reader) ReadRecords(n int64) Cursor {
	c := &recordCursor{
		inner:  r.index.ReadRecords(n),
		parser: r.config.Parser,
		header: r.index.HeaderLine(),
	}
	if r.closed {
		c.err = errors.Closed{}
	}
	return c
}

func (r *reader) Clone() (Reader, error) {
	if r.closed {
		return nil, errors.Closed{}
	}
	metrics.Count(metrics.CommonCloneCalls)
	cloneable, ok := r.src.(source.Source)
	if !ok {
		return nil, errors.NotCloneable{}
	}
	src, err := cloneable.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed cloning stream: %w", err)
	}

	id := uuid.Must(uuid.NewV7())
	r.log.Debug("Cloned reader", "id", r.id, "clone_id", id)
	return &reader{
		config: r.config,
		log:    r.log,
		id:     id,
		src:    src,
		index:  r.index.WithSource(src),
		header: r.header,
	}, nil
}

func (r *reader) IsEmpty() bool { return r.index.IsEmpty() }

func (r *reader) ChunkSize() int64 { return r.index.ChunkSize }

func (r *reader) ID() uuid.UUID { return r.id }

func (r *reader) Close() error {
	if r.closed {
		return errors.Closed{}
	}
	defer metrics.Measure(metrics.CommonCloseTiming)()
	r.closed = true
	if closer, ok := r.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
