package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"breakstretch/internal/services"
)

// LockFileName is created inside the output root while a run holds it.
const LockFileName = ".breakstretch.lock"

// OutputLock is an exclusive claim on an output root.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// lockAttempts bounds retries when a finishing run unlinks the lock file
// between our open and our lock.
const lockAttempts = 3

// LockOutput creates root if needed and takes a non-blocking exclusive lock
// on it. A second run against the same root fails immediately.
func LockOutput(root string) (*OutputLock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "",
			fmt.Sprintf("create output directory %s", root), err)
	}
	lockPath := filepath.Join(root, LockFileName)
	for range lockAttempts {
		fl := flock.New(lockPath)
		ok, err := fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire output lock: %w", err)
		}
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "", "",
				fmt.Sprintf("output directory %s is in use by another breakstretch run", root), nil)
		}
		if lockedCurrentFile(fl, lockPath) {
			return &OutputLock{path: lockPath, lock: fl}, nil
		}
		// The previous holder removed the file we locked; lock the new one.
		_ = fl.Unlock()
	}
	return nil, fmt.Errorf("acquire output lock: %s keeps changing", lockPath)
}

func lockedCurrentFile(fl *flock.Flock, path string) bool {
	held, err := fl.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, onDisk)
}

// Path returns the lock file location.
func (l *OutputLock) Path() string {
	return l.path
}

// Release removes the lock file and drops the lock. It is safe to call more
// than once.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil || !l.lock.Locked() {
		return nil
	}
	// Unlinked while still held so a waiting run never locks a stale inode.
	// Removal is best effort; platforms that refuse to unlink an open file
	// leave it behind.
	_ = os.Remove(l.path)
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release output lock: %w", err)
	}
	return nil
}
