package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// MakeTempDir creates parent if it does not exist, then creates and
// returns a fresh uniquely named directory under it. An empty parent
// falls back to the system temp dir.
func MakeTempDir(parent string) (string, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fmt.Errorf("creating %s: %w", parent, err)
	}
	dir := filepath.Join(parent, "tmp-"+uuid.New().String())
	if err := os.Mkdir(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dir, nil
}

// RemoveTempDir deletes dir and everything under it.
func RemoveTempDir(dir string) error {
	return os.RemoveAll(dir)
}

// WithTempDir runs fn with a fresh temporary directory under parent.
// The directory is removed only when fn returns nil; a failing fn
// leaves it in place for inspection.
func WithTempDir(parent string, fn func(dir string) error) error {
	dir, err := MakeTempDir(parent)
	if err != nil {
		return err
	}
	if err := fn(dir); err != nil {
		return err
	}
	return RemoveTempDir(dir)
}

// RemakeDir deletes dir if present and recreates it empty.
func RemakeDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o750)
}

// TempDir returns a fresh directory removed automatically when the
// test finishes.
func TempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
