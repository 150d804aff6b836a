package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/grainx/grain/internal/test"
)

// resetNewFlags restores the new command's flag values, which persist
// on the shared command between executions.
func resetNewFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		v, ok := newCmd.Flags().Lookup("feature").Value.(pflag.SliceValue)
		if !ok {
			t.Fatal("feature flag is not a slice value")
		}
		if err := v.Replace([]string{"x:int64"}); err != nil {
			t.Fatal(err)
		}
		for flag, def := range map[string]string{
			"dir":        ".",
			"package":    "datasets",
			"supervised": "",
		} {
			if err := newCmd.Flags().Set(flag, def); err != nil {
				t.Fatal(err)
			}
		}
	})
}

func TestNewCommandDefault(t *testing.T) {
	resetNewFlags(t)
	dir := t.TempDir()

	out, err := execute(t, "new", "my_corpus", "--dir", dir)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	path := filepath.Join(dir, "my_corpus.go")
	if !strings.Contains(out, path) {
		t.Errorf("output does not name the written file: %s", out)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := test.ReadGolden(t, "scaffold_default.golden", string(got))
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("generated file mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCommandFeatures(t *testing.T) {
	resetNewFlags(t)
	dir := t.TempDir()

	_, err := execute(t, "new", "reviews", "--dir", dir, "--package", "corpora",
		"--feature", "body:text",
		"--feature", "stars:class(one,two,three)",
		"--supervised", "body,stars")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "reviews.go"))
	if err != nil {
		t.Fatal(err)
	}
	src := string(got)
	for _, want := range []string{
		"package corpora",
		`grain.Register("reviews"`,
		"features.Text{}",
		`features.NewClassLabel("one", "two", "three")`,
		`SupervisedKeys: [2]string{"body", "stars"},`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated file missing %q", want)
		}
	}
}

func TestNewCommandBadSupervised(t *testing.T) {
	resetNewFlags(t)

	_, err := execute(t, "new", "bad", "--dir", t.TempDir(), "--supervised", "onlyinput")
	if err == nil || !strings.Contains(err.Error(), "--supervised") {
		t.Fatalf("error = %v, want supervised usage error", err)
	}
}
