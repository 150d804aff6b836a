package main

import (
	"strings"
	"testing"
)

func TestListCommand(t *testing.T) {
	dataDir := t.TempDir()

	out, err := execute(t, "list", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(out, "color_words\n") {
		t.Fatalf("unprepared dataset missing from listing:\n%s", out)
	}

	if _, err := execute(t, "build", "color_words", "--data-dir", dataDir); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out, err = execute(t, "list", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(out, "color_words (prepared)") {
		t.Fatalf("prepared dataset not marked:\n%s", out)
	}
}
