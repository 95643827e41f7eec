package source

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	seekable "github.com/SaveTheRbtz/zstd-seekable-format-go/pkg"
	"github.com/klauspost/compress/zstd"
)

// seekableFrameSize is the uncompressed frame size CompressZstd emits. Each
// frame is independently compressed, so a lookup only decompresses the frames
// covering the byte range it touches.
const seekableFrameSize = 256 << 10 // 256 KB

// zstdDec is a package-level decoder, concurrent-safe, always available for
// reads.
var zstdDec *zstd.Decoder

func init() {
	var err error
	zstdDec, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		panic("zstd: init decoder: " + err.Error())
	}
}

// SeekableZstd is a Source over a file written in the seekable zstd framing
// (see CompressZstd). Seeks address the uncompressed byte space, so a reader
// indexes the compressed file exactly as it would the plain one. Clones share
// the seekable reader and carry their own position.
type SeekableZstd struct {
	section *io.SectionReader
	shared  *zstdShared
}

type zstdShared struct {
	f    *os.File
	sr   seekable.Reader
	size int64
	refs atomic.Int32
}

// OpenSeekableZstd opens the compressed file at path.
func OpenSeekableZstd(path string) (*SeekableZstd, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	sr, err := seekable.NewReader(io.NewSectionReader(f, 0, info.Size()), zstdDec)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed opening seekable zstd stream: %w", err)
	}
	size, err := sr.Seek(0, io.SeekEnd)
	if err != nil {
		_ = sr.Close()
		_ = f.Close()
		return nil, fmt.Errorf("failed measuring uncompressed size: %w", err)
	}

	shared := &zstdShared{f: f, sr: sr, size: size}
	shared.refs.Store(1)
	return &SeekableZstd{section: io.NewSectionReader(sr, 0, size), shared: shared}, nil
}

func (s *SeekableZstd) Read(p []byte) (int, error) { return s.section.Read(p) }

func (s *SeekableZstd) Seek(offset int64, whence int) (int64, error) {
	return s.section.Seek(offset, whence)
}

func (s *SeekableZstd) Clone() (Source, error) {
	s.shared.refs.Add(1)
	return &SeekableZstd{
		section: io.NewSectionReader(s.shared.sr, 0, s.shared.size),
		shared:  s.shared,
	}, nil
}

func (s *SeekableZstd) Close() error {
	if s.shared.refs.Add(-1) == 0 {
		if err := s.shared.sr.Close(); err != nil {
			_ = s.shared.f.Close()
			return err
		}
		return s.shared.f.Close()
	}
	return nil
}

// CompressZstd copies src into w using the seekable zstd framing
// OpenSeekableZstd reads. Frames hold up to seekableFrameSize uncompressed
// bytes each.
func CompressZstd(w io.Writer, src io.Reader) error {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return fmt.Errorf("failed creating zstd encoder: %w", err)
	}
	defer func() { _ = enc.Close() }()

	sw, err := seekable.NewWriter(w, enc)
	if err != nil {
		return err
	}
	buf := make([]byte, seekableFrameSize)
	for {
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			if _, werr := sw.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return sw.Close()
}
