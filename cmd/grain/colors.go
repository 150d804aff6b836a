package main

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"

	"github.com/grainx/grain"
	"github.com/grainx/grain/features"
)

// colorWords is the sample dataset compiled into the stock binary so
// the commands have something to operate on out of the box.
type colorWords struct{}

func init() {
	grain.Register("color_words", func() grain.Generator { return colorWords{} })
}

var colorWordRows = []struct {
	word       string
	hue        string
	brightness float32
}{
	{"crimson", "red", 0.62},
	{"scarlet", "red", 0.70},
	{"ruby", "red", 0.55},
	{"brick", "red", 0.44},
	{"emerald", "green", 0.58},
	{"jade", "green", 0.52},
	{"olive", "green", 0.38},
	{"mint", "green", 0.83},
	{"azure", "blue", 0.75},
	{"navy", "blue", 0.27},
	{"cobalt", "blue", 0.49},
	{"teal", "blue", 0.48},
}

func (colorWords) Info() *grain.DatasetInfo {
	return &grain.DatasetInfo{
		Name:        "color_words",
		Version:     grain.MustVersion("1.0.0"),
		Description: "color names labeled with their hue",
		Features: features.NewDict(map[string]features.Feature{
			"word":       features.Text{},
			"hue":        features.NewClassLabel("red", "green", "blue"),
			"brightness": features.Scalar(dtypes.Float32),
		}),
		SupervisedKeys: [2]string{"word", "hue"},
	}
}

func (colorWords) SplitGenerators() []grain.SplitGenerator {
	return []grain.SplitGenerator{{
		Splits: []grain.SplitShards{
			{Split: grain.TrainSplit, NumShards: 2},
			{Split: grain.TestSplit, NumShards: 1},
		},
		Generate: func(yield func(example map[string]any) error) error {
			for _, row := range colorWordRows {
				err := yield(map[string]any{
					"word":       row.word,
					"hue":        row.hue,
					"brightness": row.brightness,
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}}
}
