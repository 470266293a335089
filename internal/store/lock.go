package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/arduino/go-paths-helper"
	"github.com/gofrs/flock"
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

var ErrLocked = errors.New("document is locked by another operation")

type lockFunc func(context.Context, time.Duration) (bool, error)

type unlockFunc func() error

func emptyUnlockFunc() error {
	return nil
}

func getLock(fl *flock.Flock, lockFn lockFunc, kind string) (unlockFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lockFn(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return emptyUnlockFunc, fmt.Errorf("%w: cannot acquire %s for %s", ErrLocked, kind, fl.Path())
		}
		return emptyUnlockFunc, fmt.Errorf("failed trying to acquire %s for %s: %w", kind, fl.Path(), err)
	}
	if !locked {
		return emptyUnlockFunc, fmt.Errorf("%w: cannot acquire %s for %s", ErrLocked, kind, fl.Path())
	}

	return func() error {
		if err := fl.Unlock(); err != nil {
			return fmt.Errorf("failed to unlock file lock for %s: %w", fl.Path(), err)
		}
		return nil
	}, nil
}

func getWriteLock(file *paths.Path) (unlockFunc, error) {
	fl := flock.New(lockFilePath(file))
	return getLock(fl, fl.TryLockContext, "write lock")
}

func getReadLock(file *paths.Path) (unlockFunc, error) {
	fl := flock.New(lockFilePath(file))
	return getLock(fl, fl.TryRLockContext, "read lock")
}

func releaseLock(file *paths.Path, unlock unlockFunc) {
	if err := unlock(); err != nil {
		slog.Error("failed to release lock", slog.String("file", file.String()), slog.String("error", err.Error()))
	}
}

func removeLockFile(file *paths.Path) error {
	if err := os.Remove(lockFilePath(file)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func lockFilePath(file *paths.Path) string {
	return file.String() + ".lock"
}
