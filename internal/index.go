package internal

import (
	"fmt"
	"io"
	"slices"

	"github.com/go-stdlog/stdlog"

	"github.com/amoshochman/constant-time-csv-reader/errors"
	"github.com/amoshochman/constant-time-csv-reader/internal/metrics"
)

// Index is the sparse offset index over a delimited text stream. A single
// construction scan samples the byte offset at which every chunkSize-th
// record begins; a lookup then seeks to the sampled offset at or before the
// requested record and scans forward at most chunkSize-1 lines. Offsets,
// count, and header never change after LoadIndex returns; the only mutable
// state is the read position of src, which every lookup repositions before
// reading.
type Index struct {
	Config    Config
	ChunkSize int64

	src        io.ReadSeeker
	scan       *LineScanner
	offsets    map[int64]int64
	count      int64
	headerLine string
	size       int64

	log stdlog.Logger
}

// LoadIndex scans src from the beginning and builds the offset index for it.
// src is left at an unspecified position; every subsequent read repositions
// it first.
func LoadIndex(src io.ReadSeeker, config Config) (*Index, error) {
	log := config.GetLogger().Named("index")
	chunkSize := config.GetChunkSize()

	done := metrics.Measure(metrics.CommonIndexBuildTiming)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		metrics.Count(metrics.CommonIndexBuildFailures)
		return nil, fmt.Errorf("failed seeking stream to start: %w", err)
	}

	scan := NewLineScanner(src)
	offsets := map[int64]int64{}

	headerLine, err := scan.ReadLine()
	if err != nil && err != io.EOF {
		metrics.Count(metrics.CommonIndexBuildFailures)
		return nil, fmt.Errorf("failed reading header line: %w", err)
	}

	// The first data record starts right after the header. For a stream with
	// no bytes at all this still anchors key 1, at offset zero.
	offsets[1] = scan.Offset()

	var count int64
	for {
		err = scan.DiscardLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.Count(metrics.CommonIndexBuildFailures)
			return nil, fmt.Errorf("failed scanning record %d: %w", count+1, err)
		}
		count++
		if count%chunkSize == 0 {
			offsets[count+1] = scan.Offset()
		}
	}

	// When the count lands exactly on a chunk boundary, the loop above has
	// sampled an offset for a record that does not exist. Key 1 stays
	// regardless.
	if count > 0 && count%chunkSize == 0 {
		delete(offsets, count+1)
	}

	done()
	metrics.Simple(metrics.CommonRecordsIndexed, float64(count))
	metrics.Simple(metrics.CommonBytesIndexed, float64(scan.Offset()))
	metrics.Simple(metrics.CommonChunksIndexed, float64(len(offsets)))

	log.Info("Offset index built",
		"records", count,
		"chunks", len(offsets),
		"bytes", scan.Offset(),
	)

	return &Index{
		Config:     config,
		ChunkSize:  chunkSize,
		src:        src,
		scan:       scan,
		offsets:    offsets,
		count:      count,
		headerLine: headerLine,
		size:       scan.Offset(),
		log:        log,
	}, nil
}

// WithSource returns an Index sharing the immutable offset table, count, and
// header with i, reading through src instead. Used when cloning a reader
// onto an independent handle over the same bytes.
func (i *Index) WithSource(src io.ReadSeeker) *Index {
	return &Index{
		Config:     i.Config,
		ChunkSize:  i.ChunkSize,
		src:        src,
		scan:       NewLineScanner(src),
		offsets:    i.offsets,
		count:      i.count,
		headerLine: i.headerLine,
		size:       i.size,
		log:        i.log,
	}
}

func (i *Index) RecordCount() int64 { return i.count }

func (i *Index) HeaderLine() string { return i.headerLine }

// Size returns the total amount of bytes the construction scan consumed.
func (i *Index) Size() int64 { return i.size }

func (i *Index) IsEmpty() bool { return i.count == 0 }

// Keys returns the sampled record numbers in ascending order.
func (i *Index) Keys() []int64 {
	keys := make([]int64, 0, len(i.offsets))
	for k := range i.offsets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// OffsetForRecord returns the sampled byte offset of the chunk containing
// record n.
func (i *Index) OffsetForRecord(n int64) (int64, bool) {
	off, ok := i.offsets[ChunkBase(n, i.ChunkSize)]
	return off, ok
}

// ReadRaw returns the raw line of record n, terminator stripped. n must be
// within [1, RecordCount]; outside it the call fails with OutOfRange. A
// stream that can no longer satisfy an offset recorded by the construction
// scan fails with MalformedStream.
func (i *Index) ReadRaw(n int64) (string, error) {
	defer metrics.Measure(metrics.LookupLatency)()

	if n < 1 || n > i.count {
		metrics.Count(metrics.LookupFailures)
		return "", errors.OutOfRange{Record: n, Count: i.count}
	}

	base := ChunkBase(n, i.ChunkSize)
	offset, ok := i.offsets[base]
	if !ok {
		metrics.Count(metrics.LookupFailures)
		return "", errors.MalformedStream{
			Record: n,
			Reason: fmt.Sprintf("index has no offset for chunk starting at record %d", base),
		}
	}

	metrics.Count(metrics.LookupSeekCalls)
	if _, err := i.src.Seek(offset, io.SeekStart); err != nil {
		metrics.Count(metrics.LookupFailures)
		return "", fmt.Errorf("failed seeking to offset %d for record %d: %w", offset, n, err)
	}
	i.scan.Reset(i.src, offset)

	for rec := base; rec < n; rec++ {
		if err := i.scan.DiscardLine(); err != nil {
			metrics.Count(metrics.LookupFailures)
			if err == io.EOF {
				return "", errors.MalformedStream{
					Record: n,
					Offset: i.scan.Offset(),
					Reason: fmt.Sprintf("stream ended at record %d", rec),
				}
			}
			return "", fmt.Errorf("failed skipping record %d: %w", rec, err)
		}
	}
	metrics.Simple(metrics.LookupLinesScanned, float64(n-base))

	line, err := i.scan.ReadLine()
	if err == io.EOF {
		metrics.Count(metrics.LookupFailures)
		return "", errors.MalformedStream{
			Record: n,
			Offset: i.scan.Offset(),
			Reason: "stream ended before the requested record",
		}
	}
	if err != nil {
		metrics.Count(metrics.LookupFailures)
		return "", fmt.Errorf("failed reading record %d: %w", n, err)
	}
	return line, nil
}

// ReadRecords returns a cursor yielding raw records starting at from.
func (i *Index) ReadRecords(from int64) IndexCursor {
	metrics.Count(metrics.CursorOpenCalls)
	return &indexCursor{index: i, wants: from}
}
