package features

import (
	"fmt"
	"slices"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ClassLabel is an integer label drawn from a fixed, ordered set of
// class names. Values are accepted as an index or as one of the names,
// and decode to a rank-0 int64 tensor.
type ClassLabel struct {
	names []string
	index map[string]int64
}

// NewClassLabel builds a ClassLabel over the given names, in order.
func NewClassLabel(names ...string) *ClassLabel {
	c := &ClassLabel{
		names: slices.Clone(names),
		index: make(map[string]int64, len(names)),
	}
	for i, n := range names {
		c.index[n] = int64(i)
	}
	return c
}

// NumClasses returns the number of class names.
func (c *ClassLabel) NumClasses() int {
	return len(c.names)
}

// Names returns the class names in label order.
func (c *ClassLabel) Names() []string {
	return slices.Clone(c.names)
}

// Index resolves a class name to its label.
func (c *ClassLabel) Index(name string) (int64, error) {
	i, ok := c.index[name]
	if !ok {
		return 0, fmt.Errorf("class name %q: %w", name, ErrUnknownLabel)
	}
	return i, nil
}

// Name resolves a label to its class name.
func (c *ClassLabel) Name(label int64) (string, error) {
	if label < 0 || label >= int64(len(c.names)) {
		return "", fmt.Errorf("label %d outside [0, %d): %w", label, len(c.names), ErrUnknownLabel)
	}
	return c.names[label], nil
}

func (c *ClassLabel) Shape() shapes.Shape {
	return shapes.Make(dtypes.Int64)
}

func (c *ClassLabel) SerializedInfo() map[string]Spec {
	return map[string]Spec{"": {Kind: KindInts, DType: dtypes.Int64}}
}

func (c *ClassLabel) Encode(value any) (Encoded, error) {
	var label int64
	switch v := value.(type) {
	case string:
		l, err := c.Index(v)
		if err != nil {
			return nil, err
		}
		label = l
	case int:
		label = int64(v)
	case int32:
		label = int64(v)
	case int64:
		label = v
	default:
		return nil, fmt.Errorf("cannot encode %T as class label: %w", value, ErrDType)
	}
	if label < 0 || label >= int64(len(c.names)) {
		return nil, fmt.Errorf("label %d outside [0, %d): %w", label, len(c.names), ErrUnknownLabel)
	}
	return Encoded{"": IntColumn(label)}, nil
}

func (c *ClassLabel) Decode(enc Encoded) (any, error) {
	col, ok := enc[""]
	if !ok {
		return nil, fmt.Errorf("missing label column: %w", ErrValue)
	}
	if col.Kind != KindInts || len(col.Ints) != 1 {
		return nil, fmt.Errorf("label column must hold one integer: %w", ErrValue)
	}
	label := col.Ints[0]
	if label < 0 || label >= int64(len(c.names)) {
		return nil, fmt.Errorf("label %d outside [0, %d): %w", label, len(c.names), ErrUnknownLabel)
	}
	return tensors.FromAnyValue(label), nil
}
