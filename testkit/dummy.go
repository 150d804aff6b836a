package testkit

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"

	"github.com/grainx/grain"
	"github.com/grainx/grain/features"
)

func init() {
	grain.Register("dummy_dataset", func() grain.Generator { return DummyDataset{} })
}

// DummyDataset is the fixture dataset the library's own tests build:
// 30 sequential integers under a single "x" feature, dealt round-robin
// over two train shards and one test shard, so train holds 20 examples
// and test the remaining 10.
type DummyDataset struct{}

func (DummyDataset) Info() *grain.DatasetInfo {
	return &grain.DatasetInfo{
		Name:        "dummy_dataset",
		Version:     grain.MustVersion("1.0.0"),
		Description: "static integers for tests",
		Features: features.NewDict(map[string]features.Feature{
			"x": features.Scalar(dtypes.Int64),
		}),
		SupervisedKeys: [2]string{"x", "x"},
	}
}

func (DummyDataset) SplitGenerators() []grain.SplitGenerator {
	return []grain.SplitGenerator{{
		Splits: []grain.SplitShards{
			{Split: grain.TrainSplit, NumShards: 2},
			{Split: grain.TestSplit, NumShards: 1},
		},
		Generate: func(yield func(map[string]any) error) error {
			for i := 0; i < 30; i++ {
				if err := yield(map[string]any{"x": int64(i)}); err != nil {
					return err
				}
			}
			return nil
		},
	}}
}

// NewDummyBuilder returns a ready-to-prepare builder for DummyDataset
// writing under dataDir.
func NewDummyBuilder(dataDir string, opts ...grain.Option) *grain.Builder {
	opts = append([]grain.Option{grain.WithDataDir(dataDir)}, opts...)
	return grain.NewBuilder(DummyDataset{}, opts...)
}
