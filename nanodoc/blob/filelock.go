package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// Lock timing for a single blob write.
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// FileLock is an exclusive cross-process lock guarding one blob file.
type FileLock interface {
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)
	Unlock() error
}

// FileLockFactory creates the lock for a blob's lock path.
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockFactory creates locks backed by github.com/gofrs/flock.
type FlockFactory struct{}

// New implements FileLockFactory.New
func (FlockFactory) New(path string) FileLock {
	return flock.New(path)
}

// lockPath is the sidecar file locked while a blob is rewritten.
func lockPath(path string) string {
	return path + ".lock"
}

// withLock runs fn while holding lock, retrying acquisition a few times
// before giving up.
func withLock(lock FileLock, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := acquire(ctx, lock); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

func acquire(ctx context.Context, lock FileLock) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}
