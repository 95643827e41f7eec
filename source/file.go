package source

import (
	"fmt"
	"os"

	"github.com/amoshochman/constant-time-csv-reader/internal/flock"
)

// File is a Source over a file on disk. Clones reopen the same path, so every
// handle carries its own descriptor and read position.
type File struct {
	f      *os.File
	path   string
	lock   flock.Flock
	shared bool
}

// OpenFile opens the file at path for reading.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f, path: path}, nil
}

// OpenLockedFile opens the file at path for reading and takes a shared
// advisory lock on it, held until Close. Cooperating writers acquiring an
// exclusive lock are kept out while any handle is live; clones take their own
// shared lock.
func OpenLockedFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	lk := flock.ForFile(f)
	if err := lk.LockShared(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed locking %s: %w", path, err)
	}
	return &File{f: f, path: path, lock: lk, shared: true}, nil
}

func (f *File) Read(p []byte) (int, error) { return f.f.Read(p) }

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.f.Seek(offset, whence)
}

func (f *File) Clone() (Source, error) {
	if f.shared {
		return OpenLockedFile(f.path)
	}
	return OpenFile(f.path)
}

func (f *File) Close() error {
	if f.lock != nil {
		if err := f.lock.Close(); err != nil && err != flock.ClosedErr {
			return err
		}
	}
	return f.f.Close()
}
