package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrSourceBusy is returned when another process holds the lock for a source.
var ErrSourceBusy = errors.New("source is already being processed")

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it into place, so readers never observe a partial
// file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// SourceLock is an exclusive, cross-process lock on one source document.
type SourceLock struct {
	lock *flock.Flock
}

// LockSource takes the lock file <dir>/<digest>.lock without blocking.
// ErrSourceBusy means another encode of the same content is in flight.
func LockSource(dir, digest string) (*SourceLock, error) {
	if digest == "" {
		return nil, errors.New("lock source: empty digest")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, digest+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire source lock: %w", err)
	}
	if !ok {
		return nil, ErrSourceBusy
	}
	return &SourceLock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *SourceLock) Path() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release unlocks and removes the lock file.
func (l *SourceLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	path := l.lock.Path()
	err := l.lock.Unlock()
	l.lock = nil
	if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
		err = removeErr
	}
	return err
}
