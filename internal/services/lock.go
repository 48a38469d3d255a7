package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// RunLock keeps two processes from sorting the same folder at once. The lock
// file lives outside the folder so a declined or empty run leaves it untouched.
type RunLock struct {
	lock *flock.Flock
}

func LockPath(dir, folder string) string {
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+folder)).String()
	return filepath.Join(dir, name+".lock")
}

func AcquireRunLock(dir, folder string) (*RunLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	lock := flock.New(LockPath(dir, folder))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, folder)
	}
	return &RunLock{lock: lock}, nil
}

func (runLock *RunLock) Release() error {
	if runLock == nil || runLock.lock == nil {
		return nil
	}
	return runLock.lock.Unlock()
}
