package grain

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/grainx/grain/recordio"
)

// Dataset streams the decoded examples of one prepared split, shard by
// shard. It satisfies the train-loop dataset contract of the tensor
// framework through Name, Yield and Reset.
type Dataset struct {
	info    *DatasetInfo
	split   Split
	paths   []string
	adapter *recordio.ExampleAdapter

	shard  int
	reader *recordio.ExampleReader
}

func newDataset(info *DatasetInfo, split Split, paths []string) *Dataset {
	return &Dataset{
		info:    info,
		split:   split,
		paths:   paths,
		adapter: recordio.NewExampleAdapter(info.Features.SerializedInfo()),
	}
}

// Name identifies the dataset and split, "dummy_dataset:train".
func (d *Dataset) Name() string {
	return fmt.Sprintf("%s:%s", d.info.Name, d.split)
}

// Info returns the built dataset's info.
func (d *Dataset) Info() *DatasetInfo {
	return d.info
}

// NumExamples returns the number of examples in this split.
func (d *Dataset) NumExamples() int {
	return d.info.Splits[d.split].NumExamples
}

// Next returns the next decoded example, and io.EOF after the last
// one. Feature values are decoded to tensors, strings or byte slices
// according to the schema.
func (d *Dataset) Next() (map[string]any, error) {
	for {
		if d.reader == nil {
			if d.shard >= len(d.paths) {
				return nil, io.EOF
			}
			r, err := d.adapter.OpenShard(d.paths[d.shard])
			if err != nil {
				return nil, err
			}
			d.reader = r
		}

		enc, err := d.reader.Next()
		if err == io.EOF {
			if cerr := d.reader.Close(); cerr != nil {
				return nil, cerr
			}
			d.reader = nil
			d.shard++
			continue
		}
		if err != nil {
			return nil, err
		}
		return d.info.Features.DecodeExample(enc)
	}
}

// Reset rewinds the dataset to its first example.
func (d *Dataset) Reset() {
	if d.reader != nil {
		d.reader.Close()
		d.reader = nil
	}
	d.shard = 0
}

// Yield returns the supervised (inputs, labels) view of the next
// example using the dataset's supervised keys, and io.EOF when the
// split is exhausted. The returned spec is the Dataset itself.
func (d *Dataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	example, err := d.Next()
	if err != nil {
		return nil, nil, nil, err
	}

	keys := d.info.SupervisedKeys
	if keys[0] == "" && keys[1] == "" {
		return nil, nil, nil, fmt.Errorf("dataset %s declares no supervised keys", d.info.Name)
	}
	input, err := exampleTensor(example, keys[0])
	if err != nil {
		return nil, nil, nil, err
	}
	label, err := exampleTensor(example, keys[1])
	if err != nil {
		return nil, nil, nil, err
	}
	return d, []*tensors.Tensor{input}, []*tensors.Tensor{label}, nil
}

func exampleTensor(example map[string]any, key string) (*tensors.Tensor, error) {
	v, ok := example[key]
	if !ok {
		return nil, fmt.Errorf("supervised key %q missing from example", key)
	}
	t, ok := v.(*tensors.Tensor)
	if !ok {
		return nil, fmt.Errorf("supervised key %q decodes to %T, not a tensor", key, v)
	}
	return t, nil
}
