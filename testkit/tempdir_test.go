package testkit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTempDirCreatesParent(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "deep", "parent")

	dir, err := MakeTempDir(parent)
	require.NoError(t, err)
	require.DirExists(t, dir)
	assert.Equal(t, parent, filepath.Dir(dir))

	second, err := MakeTempDir(parent)
	require.NoError(t, err)
	assert.NotEqual(t, dir, second, "temp dirs must be unique")

	require.NoError(t, RemoveTempDir(dir))
	assert.NoDirExists(t, dir)
}

func TestWithTempDirRemovesOnSuccess(t *testing.T) {
	var seen string
	err := WithTempDir(t.TempDir(), func(dir string) error {
		seen = dir
		return os.WriteFile(filepath.Join(dir, "scratch"), []byte("x"), 0o600)
	})
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	assert.NoDirExists(t, seen, "dir must be removed after a clean run")
}

func TestWithTempDirKeepsOnError(t *testing.T) {
	fail := errors.New("body failed")
	var seen string
	err := WithTempDir(t.TempDir(), func(dir string) error {
		seen = dir
		return fail
	})
	require.ErrorIs(t, err, fail)
	assert.DirExists(t, seen, "dir must survive a failing run for inspection")
}

func TestRemakeDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old"), []byte("x"), 0o600))

	require.NoError(t, RemakeDir(dir))

	require.DirExists(t, dir)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemakeDirFresh(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-existed")
	require.NoError(t, RemakeDir(dir))
	assert.DirExists(t, dir)
}

func TestTempDir(t *testing.T) {
	dir := TempDir(t)
	require.DirExists(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch"), []byte("x"), 0o600))
}
