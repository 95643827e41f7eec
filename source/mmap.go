package source

import (
	"bytes"
	"os"
	"sync/atomic"

	"github.com/heyvito/gommap"
)

// Mmap is a Source over a memory-mapped file. The mapping is established once
// and shared by every clone; each handle only carries its own read position,
// so clones are cheap and reads never touch the descriptor after Open.
type Mmap struct {
	r      *bytes.Reader
	shared *mmapShared
}

type mmapShared struct {
	f    *os.File
	data gommap.MMap
	refs atomic.Int32
}

// OpenMmap maps the file at path read-only. An empty file is served without a
// mapping, as mapping zero bytes is not supported.
func OpenMmap(path string) (*Mmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	var data gommap.MMap
	if stat.Size() > 0 {
		data, err = gommap.Map(f.Fd(), gommap.PROT_READ, gommap.MAP_SHARED)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	shared := &mmapShared{f: f, data: data}
	shared.refs.Store(1)
	return &Mmap{r: bytes.NewReader(data), shared: shared}, nil
}

func (m *Mmap) Read(p []byte) (int, error) { return m.r.Read(p) }

func (m *Mmap) Seek(offset int64, whence int) (int64, error) {
	return m.r.Seek(offset, whence)
}

func (m *Mmap) Clone() (Source, error) {
	m.shared.refs.Add(1)
	return &Mmap{r: bytes.NewReader(m.shared.data), shared: m.shared}, nil
}

// Close releases this handle. The descriptor is closed once the last handle
// over the mapping is gone; the mapping itself stays valid until the process
// exits, so reads through other handles are never invalidated.
func (m *Mmap) Close() error {
	if m.shared.refs.Add(-1) == 0 {
		return m.shared.f.Close()
	}
	return nil
}
