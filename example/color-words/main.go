package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/rs/zerolog"

	"github.com/grainx/grain"
	"github.com/grainx/grain/features"
)

// ColorWords is a small supervised dataset mapping color names to
// their hue.
type ColorWords struct{}

var rows = []struct {
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

func (ColorWords) Info() *grain.DatasetInfo {
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

func (ColorWords) SplitGenerators() []grain.SplitGenerator {
	return []grain.SplitGenerator{{
		Splits: []grain.SplitShards{
			{Split: grain.TrainSplit, NumShards: 2},
			{Split: grain.TestSplit, NumShards: 1},
		},
		Generate: func(yield func(example map[string]any) error) error {
			for _, row := range rows {
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

func main() {
	dir, err := os.MkdirTemp("", "color-words")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	builder := grain.NewBuilder(ColorWords{},
		grain.WithDataDir(dir),
		grain.WithLogger(log),
	)
	if err := builder.Prepare(context.Background()); err != nil {
		panic(err)
	}

	hue, _ := builder.Info().Features.Entry("hue")
	labels := hue.(*features.ClassLabel)

	ds, err := builder.Dataset(grain.TestSplit)
	if err != nil {
		panic(err)
	}
	for {
		example, err := ds.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			panic(err)
		}
		label := example["hue"].(*tensors.Tensor).Value().(int64)
		name, err := labels.Name(label)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-8s %s\n", example["word"].(string), name)
	}
}
