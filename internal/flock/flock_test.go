package flock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func makePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "lock")
}

func makeLock(t *testing.T) Flock {
	path := makePath(t)
	return makeLockAt(t, path)
}

func makeLockAt(t *testing.T, path string) Flock {
	f, err := New(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	return f
}

func TestFlock(t *testing.T) {
	t.Run("Open, Lock, Unlock, Close", func(t *testing.T) {
		path := makePath(t)
		f, err := New(path)
		require.NoError(t, err)
		require.NotNil(t, f)

		err = f.Lock()
		require.NoError(t, err)

		err = f.Unlock()
		require.NoError(t, err)

		err = f.Close()
		require.NoError(t, err)
	})

	t.Run("Concurrent lock", func(t *testing.T) {
		path := makePath(t)
		f := makeLockAt(t, path)
		f2 := makeLockAt(t, path)

		err := f.Lock()
		require.NoError(t, err)

		err = f2.Lock()
		require.ErrorIs(t, err, CannotLockErr)

		err = f.Close()
		require.NoError(t, err)

		err = f2.Close()
		require.NoError(t, err)
	})

	t.Run("Shared locks coexist", func(t *testing.T) {
		path := makePath(t)
		f := makeLockAt(t, path)
		f2 := makeLockAt(t, path)
		f3 := makeLockAt(t, path)

		require.NoError(t, f.LockShared())
		require.NoError(t, f2.LockShared())
		require.NoError(t, f3.LockShared())

		require.NoError(t, f.Close())
		require.NoError(t, f2.Close())
		require.NoError(t, f3.Close())
	})

	t.Run("Exclusive lock excluded while shared is held", func(t *testing.T) {
		path := makePath(t)
		f := makeLockAt(t, path)
		f2 := makeLockAt(t, path)

		require.NoError(t, f.LockShared())

		err := f2.Lock()
		require.ErrorIs(t, err, CannotLockErr)

		require.NoError(t, f.Unlock())
		require.NoError(t, f2.Lock())

		require.NoError(t, f.Close())
		require.NoError(t, f2.Close())
	})

	t.Run("Shared lock excluded while exclusive is held", func(t *testing.T) {
		path := makePath(t)
		f := makeLockAt(t, path)
		f2 := makeLockAt(t, path)

		require.NoError(t, f.Lock())

		err := f2.LockShared()
		require.ErrorIs(t, err, CannotLockErr)

		require.NoError(t, f.Close())
		require.NoError(t, f2.Close())
	})

	t.Run("Unlock when not locked", func(t *testing.T) {
		f := makeLock(t)
		err := f.Unlock()
		require.ErrorIs(t, err, NotLockedErr)
	})

	t.Run("Double lock", func(t *testing.T) {
		f := makeLock(t)
		err := f.Lock()
		require.NoError(t, err)
		err = f.Lock()
		require.ErrorIs(t, err, AlreadyLockedErr)

		err = f.Close()
		require.NoError(t, err)
	})

	t.Run("Double lock mixing modes", func(t *testing.T) {
		f := makeLock(t)
		err := f.LockShared()
		require.NoError(t, err)
		err = f.Lock()
		require.ErrorIs(t, err, AlreadyLockedErr)

		err = f.Close()
		require.NoError(t, err)
	})

	t.Run("Double unlock", func(t *testing.T) {
		f := makeLock(t)
		err := f.Lock()
		require.NoError(t, err)

		err = f.Unlock()
		require.NoError(t, err)

		err = f.Unlock()
		require.ErrorIs(t, err, NotLockedErr)

		err = f.Close()
		require.NoError(t, err)
	})

	t.Run("Lock after close", func(t *testing.T) {
		f := makeLock(t)
		err := f.Close()
		require.NoError(t, err)

		err = f.Lock()
		require.ErrorIs(t, err, ClosedErr)
	})

	t.Run("Unlock after close", func(t *testing.T) {
		f := makeLock(t)
		err := f.Lock()
		require.NoError(t, err)

		err = f.Close()
		require.NoError(t, err)

		err = f.Unlock()
		require.ErrorIs(t, err, ClosedErr)
	})

	t.Run("Recreate after close", func(t *testing.T) {
		p := makePath(t)
		f := makeLockAt(t, p)
		err := f.Lock()
		require.NoError(t, err)
		err = f.Close()
		require.NoError(t, err)

		f = makeLockAt(t, p)
		err = f.Lock()
		require.NoError(t, err)
		err = f.Close()
		require.NoError(t, err)
	})
}

// TestForFile exercises locks borrowing a descriptor owned by the caller.
func TestForFile(t *testing.T) {
	t.Run("Lock and unlock", func(t *testing.T) {
		path := makePath(t)
		osFile, err := os.Create(path)
		require.NoError(t, err)
		defer func() { _ = osFile.Close() }()

		f := ForFile(osFile)
		require.NoError(t, f.LockShared())

		f2 := makeLockAt(t, path)
		err = f2.Lock()
		require.ErrorIs(t, err, CannotLockErr)
		require.NoError(t, f2.Close())

		require.NoError(t, f.Close())
	})

	t.Run("Close leaves the descriptor open", func(t *testing.T) {
		path := makePath(t)
		osFile, err := os.Create(path)
		require.NoError(t, err)

		f := ForFile(osFile)
		require.NoError(t, f.Lock())
		require.NoError(t, f.Close())

		_, err = osFile.WriteString("still writable")
		require.NoError(t, err)
		require.NoError(t, osFile.Close())
	})
}
