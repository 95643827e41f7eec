// Package flock implements a small wrapper around the flock(2) Kernel API in
// order to provide advisory locks through the filesystem. It may be important
// to notice that flock is an advisory lock, meaning processes are free to
// ignore the lock altogether. Readers take shared locks on the stream they
// index, so any number of them can coexist while a cooperating writer holding
// an exclusive lock is kept out, and the other way around.
package flock

// A word about conventions: Flock exposes the public interface intended for
// user usage. Methods implemented by the interface must be safe and rely on
// the internal mutex before any operation takes place. Unexported methods
// implemented by the flock struct are intended for internal usage and must
// not use the internal mutex in order to allow reentrancy. Unexported methods
// must be used with care, and the lock is expected to be held before those
// are called (which should happen in every "entry" methods, exposed to the
// user).

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
)

var (
	AlreadyLockedErr = fmt.Errorf("flock is already locked")
	NotLockedErr     = fmt.Errorf("flock is not locked")
	ClosedErr        = fmt.Errorf("underlying file descriptor has already been closed")
	CannotLockErr    = fmt.Errorf("could not obtain lock")
)

type Flock interface {
	// Lock attempts to acquire an exclusive lock on the file managed by this
	// instance. Returns AlreadyLockedErr if this instance already holds a
	// lock, ClosedErr in case Close has already been called, or CannotLockErr
	// in case the lock cannot be acquired.
	Lock() error

	// LockShared attempts to acquire a shared lock on the file managed by
	// this instance. Any number of shared holders may coexist; acquisition
	// fails with CannotLockErr while another process holds an exclusive lock.
	// Returns AlreadyLockedErr if this instance already holds a lock, or
	// ClosedErr in case Close has already been called.
	LockShared() error

	// Unlock releases the lock acquired by calling Lock or LockShared.
	// Returns NotLockedErr in case no lock is currently held, or ClosedErr in
	// case Close has already been called on this instance.
	Unlock() error

	// Close automatically releases the lock (in case it is currently being
	// held by this instance), and closes the underlying file descriptor when
	// this instance owns it. Descriptors borrowed through ForFile are left
	// open for their owner to close. After calling this method, no further
	// operations can be done against the instance; to reacquire the lock,
	// create a new Flock instance.
	Close() error
}

// New returns a new Flock instance for a file at a given path, creating it if
// needed. The instance owns the resulting descriptor. This method will not
// lock the file until Lock or LockShared is called.
// Returns an error in case the file cannot be open or created.
func New(path string) (Flock, error) {
	oldMask := syscall.Umask(0)
	defer syscall.Umask(oldMask)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return nil, err
	}
	return &flock{file: f, fd: f.Fd(), name: path, owned: true}, nil
}

// ForFile returns a new Flock instance operating on an already-open file. The
// caller keeps ownership of f; Close releases the lock without closing it.
func ForFile(f *os.File) Flock {
	return &flock{file: f, fd: f.Fd(), name: f.Name()}
}

type flock struct {
	mu     sync.Mutex
	file   *os.File
	fd     uintptr
	owned  bool
	locked bool
	closed bool
	name   string
}

func (f *flock) Lock() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lock(syscall.LOCK_EX)
}

func (f *flock) LockShared() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lock(syscall.LOCK_SH)
}

func (f *flock) lock(how int) error {
	switch {
	case f.closed:
		return ClosedErr
	case f.locked:
		return AlreadyLockedErr
	}

	err := syscall.Flock(int(f.fd), how|syscall.LOCK_NB)
	if err == nil {
		f.locked = true
	} else {
		err = errors.Join(CannotLockErr, err)
	}
	return err
}

func (f *flock) Unlock() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return ClosedErr
	case !f.locked:
		return NotLockedErr
	}

	return f.unlock()
}

func (f *flock) unlock() error {
	switch {
	case f.closed, !f.locked:
		return nil
	}

	err := syscall.Flock(int(f.fd), syscall.LOCK_UN)
	if err == nil {
		f.locked = false
	}
	return err
}

func (f *flock) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close()
}

func (f *flock) close() error {
	if f.closed {
		return ClosedErr
	}

	if err := f.unlock(); err != nil {
		return err
	}
	if f.owned {
		if err := f.file.Close(); err != nil {
			return err
		}
	}
	f.closed = true
	return nil
}
