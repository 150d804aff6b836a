package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
)

var (
	// ErrDType reports a value whose element type does not match the
	// feature's declared dtype.
	ErrDType = errors.New("dtype mismatch")
	// ErrShape reports a value whose dimensions are incompatible with
	// the feature's declared shape.
	ErrShape = errors.New("shape mismatch")
	// ErrValue reports a value that cannot be encoded or decoded for
	// reasons other than dtype or shape, e.g. ragged nesting or a
	// missing dictionary entry.
	ErrValue = errors.New("invalid value")
	// ErrUnknownLabel reports a class name or index outside a
	// ClassLabel's declared set.
	ErrUnknownLabel = errors.New("unknown label")
)

// Kind is the wire column class a feature serializes into. Every
// column in a record file holds exactly one of the three list kinds.
type Kind int

const (
	KindInts Kind = iota
	KindFloats
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindInts:
		return "ints"
	case KindFloats:
		return "floats"
	case KindBytes:
		return "bytes"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Column is one flattened wire field of an encoded example. Exactly
// one of the three lists is populated, selected by Kind.
type Column struct {
	Kind   Kind      `msgpack:"k"`
	Ints   []int64   `msgpack:"i,omitempty"`
	Floats []float64 `msgpack:"f,omitempty"`
	Bytes  [][]byte  `msgpack:"b,omitempty"`
}

// IntColumn builds a KindInts column.
func IntColumn(vals ...int64) Column {
	return Column{Kind: KindInts, Ints: vals}
}

// FloatColumn builds a KindFloats column.
func FloatColumn(vals ...float64) Column {
	return Column{Kind: KindFloats, Floats: vals}
}

// BytesColumn builds a KindBytes column.
func BytesColumn(vals ...[]byte) Column {
	return Column{Kind: KindBytes, Bytes: vals}
}

// Len returns the number of elements in the populated list.
func (c Column) Len() int {
	switch c.Kind {
	case KindInts:
		return len(c.Ints)
	case KindFloats:
		return len(c.Floats)
	case KindBytes:
		return len(c.Bytes)
	}
	return 0
}

// Encoded is a flattened encoded example: wire column name to column.
// Nested feature names are joined with "/". The empty name addresses
// the single column of a non-nested feature.
type Encoded map[string]Column

// JoinKey joins a column-name prefix with a relative column name.
// The empty relative name means "the feature's own single column",
// so JoinKey("img", "") is "img" and JoinKey("img", "h") is "img/h".
func JoinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "/" + key
}

// Spec describes the low-level storage of one wire column: its column
// class, element dtype and dimensions. Dims entries equal to
// shapes.DynamicDim stand for axes whose size is only known per
// example.
type Spec struct {
	Kind  Kind
	DType dtypes.DType
	Dims  []int
}

// Feature is one encodable field of an example. Encode flattens a
// user-facing value into wire columns keyed by relative column name,
// Decode rebuilds the value, and SerializedInfo describes the columns
// without encoding anything.
type Feature interface {
	SerializedInfo() map[string]Spec
	Encode(value any) (Encoded, error)
	Decode(enc Encoded) (any, error)
}

// Shaped is implemented by features whose decoded value is a single
// tensor with a declared shape. Dict is a Feature but not Shaped.
type Shaped interface {
	Feature
	Shape() shapes.Shape
}

// CompatibleDims reports whether got satisfies declared. Declared axes
// equal to shapes.DynamicDim match any size; all other axes must match
// exactly, as must the rank.
func CompatibleDims(declared, got []int) bool {
	if len(declared) != len(got) {
		return false
	}
	for i, d := range declared {
		if d == shapes.DynamicDim {
			continue
		}
		if d != got[i] {
			return false
		}
	}
	return true
}

// KindFor returns the wire column class that stores elements of dtype.
func KindFor(dt dtypes.DType) (Kind, error) {
	switch dt {
	case dtypes.Bool,
		dtypes.Int8, dtypes.Int16, dtypes.Int32, dtypes.Int64,
		dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64:
		return KindInts, nil
	case dtypes.Float16, dtypes.Float32, dtypes.Float64:
		return KindFloats, nil
	}
	return 0, fmt.Errorf("no column class for dtype %s: %w", dt, ErrDType)
}

func dtypeName(dt dtypes.DType) string {
	switch dt {
	case dtypes.Bool:
		return "bool"
	case dtypes.Int8:
		return "int8"
	case dtypes.Int16:
		return "int16"
	case dtypes.Int32:
		return "int32"
	case dtypes.Int64:
		return "int64"
	case dtypes.Uint8:
		return "uint8"
	case dtypes.Uint16:
		return "uint16"
	case dtypes.Uint32:
		return "uint32"
	case dtypes.Uint64:
		return "uint64"
	case dtypes.Float16:
		return "float16"
	case dtypes.Float32:
		return "float32"
	case dtypes.Float64:
		return "float64"
	}
	return strings.ToLower(dt.String())
}

func dtypeFromName(name string) (dtypes.DType, error) {
	for _, dt := range []dtypes.DType{
		dtypes.Bool,
		dtypes.Int8, dtypes.Int16, dtypes.Int32, dtypes.Int64,
		dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64,
		dtypes.Float16, dtypes.Float32, dtypes.Float64,
	} {
		if dtypeName(dt) == name {
			return dt, nil
		}
	}
	return dtypes.InvalidDType, fmt.Errorf("unknown dtype %q: %w", name, ErrValue)
}

func makeShape(dt dtypes.DType, dims []int) shapes.Shape {
	for _, d := range dims {
		if d == shapes.DynamicDim {
			return shapes.MakeDynamic(dt, dims...)
		}
	}
	return shapes.Make(dt, dims...)
}
