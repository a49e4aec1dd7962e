// internal/importer/lock.go
package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the target root while a plan executes.
const LockFileName = ".mediar.lock"

// Lock is an advisory lock on a target tree.
type Lock struct {
	flock *flock.Flock
}

// AcquireLock takes the tree lock for root without blocking.
// It returns ErrLocked when another process holds it.
func AcquireLock(root string) (*Lock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create target root: %w", err)
	}
	fl := flock.New(filepath.Join(root, LockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, root)
	}
	return &Lock{flock: fl}, nil
}

// Release drops the lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
