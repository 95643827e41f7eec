package source

import "bytes"

// Memory is a Source over an in-memory byte slice. Clones share the backing
// slice and only carry their own read position. Close is a no-op.
type Memory struct {
	r    *bytes.Reader
	data []byte
}

// NewMemory returns a Source reading from data. The slice is not copied;
// callers must not mutate it while any handle is live.
func NewMemory(data []byte) *Memory {
	return &Memory{r: bytes.NewReader(data), data: data}
}

// NewMemoryString returns a Source reading from s.
func NewMemoryString(s string) *Memory {
	return NewMemory([]byte(s))
}

func (m *Memory) Read(p []byte) (int, error) { return m.r.Read(p) }

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	return m.r.Seek(offset, whence)
}

func (m *Memory) Clone() (Source, error) {
	return NewMemory(m.data), nil
}

func (m *Memory) Close() error { return nil }
