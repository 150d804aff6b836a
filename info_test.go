package grain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/google/go-cmp/cmp"

	"github.com/grainx/grain/features"
)

func testInfo(t *testing.T) *DatasetInfo {
	t.Helper()

	dict := features.NewDict(map[string]features.Feature{
		"x":     features.Scalar(dtypes.Int64),
		"label": features.NewClassLabel("cat", "dog"),
	})
	return &DatasetInfo{
		Name:           "pets",
		Version:        Version{1, 0, 0},
		Description:    "a tiny fixture",
		Features:       dict,
		SupervisedKeys: [2]string{"x", "label"},
		Splits: map[Split]SplitInfo{
			TrainSplit: {NumShards: 2, NumExamples: 20},
			TestSplit:  {NumShards: 1, NumExamples: 10},
		},
	}
}

func TestDatasetInfoRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	info := testInfo(t)
	if err := info.WriteFile(dir); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadDatasetInfo(dir)
	if err != nil {
		t.Fatalf("ReadDatasetInfo() error = %v", err)
	}
	if diff := cmp.Diff(info, got, cmp.Comparer(func(a, b *features.Dict) bool {
		aj, err := a.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		bj, err := b.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		return string(aj) == string(bj)
	})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDatasetInfoMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadDatasetInfo(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("ReadDatasetInfo(missing) error = %v, want ErrNotPrepared", err)
	}
}

func TestReadDatasetInfoCorrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, infoFileName), []byte("{garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDatasetInfo(dir); err == nil {
		t.Fatal("ReadDatasetInfo(corrupt) succeeded, want error")
	}
}

func TestDatasetInfoValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*DatasetInfo)
	}{
		{"EmptyName", func(i *DatasetInfo) { i.Name = "" }},
		{"NilFeatures", func(i *DatasetInfo) { i.Features = nil }},
		{"UnknownSupervisedInput", func(i *DatasetInfo) { i.SupervisedKeys[0] = "missing" }},
		{"UnknownSupervisedTarget", func(i *DatasetInfo) { i.SupervisedKeys[1] = "missing" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := testInfo(t)
			tt.mutate(info)
			if err := info.validate(); err == nil {
				t.Error("validate() succeeded, want error")
			}
		})
	}

	if err := testInfo(t).validate(); err != nil {
		t.Errorf("validate() on good info error = %v", err)
	}
}

func TestShardPrefix(t *testing.T) {
	t.Parallel()

	info := testInfo(t)
	if got, want := info.shardPrefix(TrainSplit), "pets-train.grainrec"; got != want {
		t.Errorf("shardPrefix(train) = %q, want %q", got, want)
	}
}
