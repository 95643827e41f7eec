package internal

import (
	"bufio"
	"io"
	"strings"
)

// LineScanner reads newline-terminated lines from a stream while accounting
// for the byte offset at which each line ends. The offset index stores those
// offsets, so the scanner counts terminator bytes even though the lines it
// returns have them stripped.
type LineScanner struct {
	br     *bufio.Reader
	offset int64
}

func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{br: bufio.NewReader(r)}
}

// Reset discards buffered data and continues reading from r, treating offset
// as the position r currently sits at. Must be called after the underlying
// stream is repositioned through Seek, as the buffer would otherwise serve
// bytes from the previous position.
func (l *LineScanner) Reset(r io.Reader, offset int64) {
	l.br.Reset(r)
	l.offset = offset
}

// Offset returns the byte offset immediately after the last line consumed.
func (l *LineScanner) Offset() int64 { return l.offset }

// ReadLine returns the next line with its terminator stripped. A final line
// without a trailing newline still counts as a line. Returns io.EOF once the
// stream is exhausted.
func (l *LineScanner) ReadLine() (string, error) {
	raw, err := l.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if len(raw) == 0 {
		return "", io.EOF
	}
	l.offset += int64(len(raw))
	return trimLineEnding(raw), nil
}

// DiscardLine consumes the next line without retaining it. Returns io.EOF
// once the stream is exhausted.
func (l *LineScanner) DiscardLine() error {
	read := false
	for {
		frag, err := l.br.ReadSlice('\n')
		if len(frag) > 0 {
			read = true
			l.offset += int64(len(frag))
		}
		switch err {
		case nil:
			return nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if read {
				return nil
			}
			return io.EOF
		default:
			return err
		}
	}
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
