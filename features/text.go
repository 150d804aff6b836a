package features

import (
	"fmt"
	"slices"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
)

// Text is a variable-length UTF-8 string feature stored as a single
// bytes column. It decodes to a Go string. At the schema level byte
// strings are variable-length uint8 vectors, since the tensor
// framework has no string dtype.
type Text struct{}

func (Text) Shape() shapes.Shape {
	return shapes.MakeDynamic(dtypes.Uint8, shapes.DynamicDim)
}

func (Text) SerializedInfo() map[string]Spec {
	return map[string]Spec{"": {Kind: KindBytes, DType: dtypes.Uint8, Dims: []int{shapes.DynamicDim}}}
}

func (Text) Encode(value any) (Encoded, error) {
	switch v := value.(type) {
	case string:
		return Encoded{"": BytesColumn([]byte(v))}, nil
	case []byte:
		return Encoded{"": BytesColumn(slices.Clone(v))}, nil
	}
	return nil, fmt.Errorf("cannot encode %T as text: %w", value, ErrDType)
}

func (Text) Decode(enc Encoded) (any, error) {
	b, err := singleBytes(enc)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Bytes is a raw byte-string feature. It decodes to []byte.
type Bytes struct{}

func (Bytes) Shape() shapes.Shape {
	return shapes.MakeDynamic(dtypes.Uint8, shapes.DynamicDim)
}

func (Bytes) SerializedInfo() map[string]Spec {
	return map[string]Spec{"": {Kind: KindBytes, DType: dtypes.Uint8, Dims: []int{shapes.DynamicDim}}}
}

func (Bytes) Encode(value any) (Encoded, error) {
	switch v := value.(type) {
	case []byte:
		return Encoded{"": BytesColumn(slices.Clone(v))}, nil
	case string:
		return Encoded{"": BytesColumn([]byte(v))}, nil
	}
	return nil, fmt.Errorf("cannot encode %T as bytes: %w", value, ErrDType)
}

func (Bytes) Decode(enc Encoded) (any, error) {
	b, err := singleBytes(enc)
	if err != nil {
		return nil, err
	}
	return slices.Clone(b), nil
}

func singleBytes(enc Encoded) ([]byte, error) {
	col, ok := enc[""]
	if !ok {
		return nil, fmt.Errorf("missing bytes column: %w", ErrValue)
	}
	if col.Kind != KindBytes || len(col.Bytes) != 1 {
		return nil, fmt.Errorf("bytes column must hold one element: %w", ErrValue)
	}
	return col.Bytes[0], nil
}
