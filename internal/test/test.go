// Package test holds shared helpers for golden-file tests.
package test

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files with the observed output")

// FixtureDir returns the repository's testdata directory.
func FixtureDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata")
}

// ReadGolden returns the contents of the named golden file. With
// -update it first rewrites the file with got.
func ReadGolden(t *testing.T, name string, got string) string {
	t.Helper()
	path := filepath.Join(FixtureDir(t), name)
	if *update {
		if err := os.WriteFile(path, []byte(got), 0o600); err != nil {
			t.Fatalf("failed to update golden file %s: %v", path, err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}
	return string(b)
}
