package internal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/go-stdlog/stdlog"
	"github.com/stretchr/testify/require"
)

type DummyConfig struct {
	ChunkSize int64
	Logger    stdlog.Logger
}

func (d DummyConfig) GetChunkSize() int64 {
	return d.ChunkSize
}

func (d DummyConfig) GetLogger() stdlog.Logger {
	return d.Logger
}

func WithLogger() DummyOpt {
	return func(d *DummyConfig) { d.Logger = stdlog.NewStd(os.Stdout) }
}

func WithChunkSize(size int64) DummyOpt {
	return func(d *DummyConfig) { d.ChunkSize = size }
}

type DummyOpt func(*DummyConfig)

func NewDummyConfig(t *testing.T, dummyOpts ...DummyOpt) *DummyConfig {
	t.Helper()
	d := &DummyConfig{
		ChunkSize: 4,
		Logger:    stdlog.Discard,
	}

	for _, opt := range dummyOpts {
		opt(d)
	}

	return d
}

// csvFixture builds a CSV stream of n records over cols columns. Values are
// deterministic and unique per cell, and line lengths vary with the record
// number so offset bookkeeping gets exercised beyond fixed-width layouts.
func csvFixture(cols int, n int64) string {
	var sb strings.Builder
	for c := range cols {
		if c > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "col%d", c)
	}
	sb.WriteByte('\n')
	for r := int64(1); r <= n; r++ {
		for c := range cols {
			if c > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "v%d_%d", r, c)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// linearLine reads record n of src the slow way, scanning from the top past
// the header. It is the oracle sparse lookups are checked against.
func linearLine(t *testing.T, src io.ReadSeeker, n int64) string {
	t.Helper()
	_, err := src.Seek(0, io.SeekStart)
	require.NoError(t, err)
	scan := NewLineScanner(src)
	_, err = scan.ReadLine() // header
	require.NoError(t, err)
	for range n - 1 {
		require.NoError(t, scan.DiscardLine())
	}
	line, err := scan.ReadLine()
	require.NoError(t, err)
	return line
}
