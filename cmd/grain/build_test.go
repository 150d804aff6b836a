package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grainx/grain"
)

func TestBuildCommand(t *testing.T) {
	dataDir := t.TempDir()

	out, err := execute(t, "build", "color_words", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	for _, want := range []string{
		"prepared color_words 1.0.0",
		"test: 4 examples in 1 shards",
		"train: 8 examples in 2 shards",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	dir := filepath.Join(dataDir, "color_words", "1.0.0")
	for _, name := range []string{
		"dataset_info.json",
		"color_words-train.grainrec-00000-of-00002",
		"color_words-train.grainrec-00001-of-00002",
		"color_words-test.grainrec-00000-of-00001",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestBuildUnknownDataset(t *testing.T) {
	_, err := execute(t, "build", "no_such_dataset", "--data-dir", t.TempDir())
	if !errors.Is(err, grain.ErrNotRegistered) {
		t.Fatalf("error = %v, want ErrNotRegistered", err)
	}
}

func TestBuildOverwrite(t *testing.T) {
	t.Cleanup(func() {
		if err := buildCmd.Flags().Set("overwrite", "false"); err != nil {
			t.Fatal(err)
		}
	})

	dataDir := t.TempDir()
	if _, err := execute(t, "build", "color_words", "--data-dir", dataDir); err != nil {
		t.Fatalf("first build failed: %v", err)
	}

	marker := filepath.Join(dataDir, "color_words", "1.0.0", "stale.txt")
	if err := os.WriteFile(marker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "build", "color_words", "--data-dir", dataDir, "--overwrite"); err != nil {
		t.Fatalf("overwrite build failed: %v", err)
	}

	if _, err := os.Stat(marker); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale file survived overwrite: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "color_words", "1.0.0", "dataset_info.json")); err != nil {
		t.Fatalf("dataset not rebuilt: %v", err)
	}
}
