package features

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/x448/float16"
)

// Tensor is a fixed-dtype numeric or boolean feature. Dims may contain
// shapes.DynamicDim for axes whose size varies per example; at most one
// axis may be dynamic. Values are accepted as Go scalars, nested Go
// slices or *tensors.Tensor, and always decode to *tensors.Tensor.
type Tensor struct {
	DType dtypes.DType
	Dims  []int
}

// Scalar returns a rank-0 Tensor feature of the given dtype.
func Scalar(dt dtypes.DType) *Tensor {
	return &Tensor{DType: dt}
}

func (t *Tensor) Shape() shapes.Shape {
	return makeShape(t.DType, t.Dims)
}

func (t *Tensor) SerializedInfo() map[string]Spec {
	kind, _ := KindFor(t.DType)
	return map[string]Spec{"": {Kind: kind, DType: t.DType, Dims: slices.Clone(t.Dims)}}
}

func (t *Tensor) validate() error {
	if _, err := KindFor(t.DType); err != nil {
		return err
	}
	dynamic := 0
	for _, d := range t.Dims {
		switch {
		case d == shapes.DynamicDim:
			dynamic++
		case d < 0:
			return fmt.Errorf("invalid dimension %d: %w", d, ErrShape)
		}
	}
	if dynamic > 1 {
		return fmt.Errorf("at most one dynamic axis is supported, got %d: %w", dynamic, ErrShape)
	}
	return nil
}

func (t *Tensor) Encode(value any) (Encoded, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var (
		col  Column
		dims []int
		err  error
	)
	if tv, ok := value.(*tensors.Tensor); ok {
		col, dims, err = fromTensorValue(t.DType, tv)
	} else {
		col, dims, err = fromGoValue(t.DType, value)
	}
	if err != nil {
		return nil, err
	}

	if !CompatibleDims(t.Dims, dims) {
		return nil, fmt.Errorf("value dims %v incompatible with declared %v: %w", dims, t.Dims, ErrShape)
	}
	return Encoded{"": col}, nil
}

func (t *Tensor) Decode(enc Encoded) (any, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	col, ok := enc[""]
	if !ok {
		return nil, fmt.Errorf("missing tensor column: %w", ErrValue)
	}
	kind, _ := KindFor(t.DType)
	if col.Kind != kind {
		return nil, fmt.Errorf("column kind %s, want %s: %w", col.Kind, kind, ErrValue)
	}
	dims, err := resolveDims(t.Dims, col.Len())
	if err != nil {
		return nil, err
	}
	return columnTensor(t.DType, col, dims)
}

// resolveDims turns the declared dims into concrete ones for a column
// of n elements, inferring the size of a dynamic axis when present.
func resolveDims(declared []int, n int) ([]int, error) {
	dims := slices.Clone(declared)
	product := 1
	dynamic := -1
	for i, d := range dims {
		if d == shapes.DynamicDim {
			dynamic = i
			continue
		}
		product *= d
	}
	if dynamic < 0 {
		if product != n {
			return nil, fmt.Errorf("%d elements do not fit dims %v: %w", n, declared, ErrShape)
		}
		return dims, nil
	}
	if product == 0 {
		if n != 0 {
			return nil, fmt.Errorf("%d elements do not fit dims %v: %w", n, declared, ErrShape)
		}
		dims[dynamic] = 0
		return dims, nil
	}
	if n%product != 0 {
		return nil, fmt.Errorf("%d elements do not fit dims %v: %w", n, declared, ErrShape)
	}
	dims[dynamic] = n / product
	return dims, nil
}

var float16Type = reflect.TypeOf(float16.Float16(0))

func fromGoValue(dt dtypes.DType, value any) (Column, []int, error) {
	kind, err := KindFor(dt)
	if err != nil {
		return Column{}, nil, err
	}
	col := Column{Kind: kind}
	var dims []int
	if err := flattenValue(dt, reflect.ValueOf(value), 0, &dims, &col); err != nil {
		return Column{}, nil, err
	}

	product := 1
	for _, d := range dims {
		product *= d
	}
	if col.Len() != product {
		return Column{}, nil, fmt.Errorf("ragged or mixed nesting: %w", ErrValue)
	}
	return col, dims, nil
}

func flattenValue(dt dtypes.DType, v reflect.Value, depth int, dims *[]int, col *Column) error {
	if !v.IsValid() {
		return fmt.Errorf("nil value: %w", ErrValue)
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return fmt.Errorf("nil element: %w", ErrValue)
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		n := v.Len()
		if len(*dims) == depth {
			*dims = append(*dims, n)
		} else if len(*dims) < depth || (*dims)[depth] != n {
			return fmt.Errorf("ragged nesting at depth %d: %w", depth, ErrValue)
		}
		for i := 0; i < n; i++ {
			if err := flattenValue(dt, v.Index(i), depth+1, dims, col); err != nil {
				return err
			}
		}
		return nil
	}

	if len(*dims) != depth {
		return fmt.Errorf("mixed nesting depth: %w", ErrValue)
	}
	if v.Type() == float16Type {
		h := v.Interface().(float16.Float16)
		return appendFloat(col, dt, float64(h.Float32()))
	}
	switch v.Kind() {
	case reflect.Bool:
		return appendBool(col, dt, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return appendInt(col, dt, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return appendUint(col, dt, v.Uint())
	case reflect.Float32, reflect.Float64:
		return appendFloat(col, dt, v.Float())
	}
	return fmt.Errorf("cannot encode %s as %s: %w", v.Type(), dtypeName(dt), ErrDType)
}

func appendBool(col *Column, dt dtypes.DType, b bool) error {
	if dt != dtypes.Bool {
		return fmt.Errorf("bool element for %s feature: %w", dtypeName(dt), ErrDType)
	}
	var x int64
	if b {
		x = 1
	}
	col.Ints = append(col.Ints, x)
	return nil
}

func appendInt(col *Column, dt dtypes.DType, x int64) error {
	if dt == dtypes.Bool {
		return fmt.Errorf("integer element for bool feature: %w", ErrDType)
	}
	switch col.Kind {
	case KindInts:
		if !intFits(dt, x) {
			return fmt.Errorf("%d out of range for %s: %w", x, dtypeName(dt), ErrValue)
		}
		col.Ints = append(col.Ints, x)
	case KindFloats:
		col.Floats = append(col.Floats, quantizeFloat(dt, float64(x)))
	}
	return nil
}

func appendUint(col *Column, dt dtypes.DType, u uint64) error {
	// Uint64 columns reinterpret the bit pattern so the full range
	// survives the signed wire list.
	if dt == dtypes.Uint64 {
		col.Ints = append(col.Ints, int64(u))
		return nil
	}
	if u > math.MaxInt64 {
		return fmt.Errorf("%d out of range for %s: %w", u, dtypeName(dt), ErrValue)
	}
	return appendInt(col, dt, int64(u))
}

func appendFloat(col *Column, dt dtypes.DType, f float64) error {
	if col.Kind != KindFloats {
		return fmt.Errorf("float element for %s feature: %w", dtypeName(dt), ErrDType)
	}
	col.Floats = append(col.Floats, quantizeFloat(dt, f))
	return nil
}

func intFits(dt dtypes.DType, x int64) bool {
	switch dt {
	case dtypes.Int8:
		return x >= math.MinInt8 && x <= math.MaxInt8
	case dtypes.Int16:
		return x >= math.MinInt16 && x <= math.MaxInt16
	case dtypes.Int32:
		return x >= math.MinInt32 && x <= math.MaxInt32
	case dtypes.Int64:
		return true
	case dtypes.Uint8:
		return x >= 0 && x <= math.MaxUint8
	case dtypes.Uint16:
		return x >= 0 && x <= math.MaxUint16
	case dtypes.Uint32:
		return x >= 0 && x <= math.MaxUint32
	case dtypes.Uint64:
		return x >= 0
	}
	return false
}

// quantizeFloat stores floats at the precision of the declared dtype so
// encoded columns round-trip bit-exactly through the target format.
func quantizeFloat(dt dtypes.DType, f float64) float64 {
	switch dt {
	case dtypes.Float16:
		return float64(float16.Fromfloat32(float32(f)).Float32())
	case dtypes.Float32:
		return float64(float32(f))
	}
	return f
}

func fromTensorValue(dt dtypes.DType, v *tensors.Tensor) (Column, []int, error) {
	got := v.Shape().DType
	if got != dt {
		return Column{}, nil, fmt.Errorf("tensor dtype %s, want %s: %w", dtypeName(got), dtypeName(dt), ErrDType)
	}
	kind, err := KindFor(dt)
	if err != nil {
		return Column{}, nil, err
	}

	col := Column{Kind: kind}
	switch dt {
	case dtypes.Bool:
		for _, b := range tensors.MustCopyFlatData[bool](v) {
			var x int64
			if b {
				x = 1
			}
			col.Ints = append(col.Ints, x)
		}
	case dtypes.Int8:
		col.Ints = intsFrom(tensors.MustCopyFlatData[int8](v))
	case dtypes.Int16:
		col.Ints = intsFrom(tensors.MustCopyFlatData[int16](v))
	case dtypes.Int32:
		col.Ints = intsFrom(tensors.MustCopyFlatData[int32](v))
	case dtypes.Int64:
		col.Ints = slices.Clone(tensors.MustCopyFlatData[int64](v))
	case dtypes.Uint8:
		col.Ints = intsFrom(tensors.MustCopyFlatData[uint8](v))
	case dtypes.Uint16:
		col.Ints = intsFrom(tensors.MustCopyFlatData[uint16](v))
	case dtypes.Uint32:
		col.Ints = intsFrom(tensors.MustCopyFlatData[uint32](v))
	case dtypes.Uint64:
		for _, u := range tensors.MustCopyFlatData[uint64](v) {
			col.Ints = append(col.Ints, int64(u))
		}
	case dtypes.Float16:
		for _, h := range tensors.MustCopyFlatData[float16.Float16](v) {
			col.Floats = append(col.Floats, float64(h.Float32()))
		}
	case dtypes.Float32:
		col.Floats = floatsFrom(tensors.MustCopyFlatData[float32](v))
	case dtypes.Float64:
		col.Floats = slices.Clone(tensors.MustCopyFlatData[float64](v))
	}

	return col, slices.Clone(v.Shape().Dimensions), nil
}

func columnTensor(dt dtypes.DType, col Column, dims []int) (*tensors.Tensor, error) {
	scalar := len(dims) == 0
	switch dt {
	case dtypes.Bool:
		data := make([]bool, len(col.Ints))
		for i, x := range col.Ints {
			data[i] = x != 0
		}
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Int8:
		data := convertInts[int8](col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Int16:
		data := convertInts[int16](col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Int32:
		data := convertInts[int32](col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Int64:
		data := slices.Clone(col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Uint8:
		data := convertInts[uint8](col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Uint16:
		data := convertInts[uint16](col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Uint32:
		data := convertInts[uint32](col.Ints)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Uint64:
		data := make([]uint64, len(col.Ints))
		for i, x := range col.Ints {
			data[i] = uint64(x)
		}
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Float16:
		data := make([]float16.Float16, len(col.Floats))
		for i, f := range col.Floats {
			data[i] = float16.Fromfloat32(float32(f))
		}
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Float32:
		data := convertFloats[float32](col.Floats)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case dtypes.Float64:
		data := slices.Clone(col.Floats)
		if scalar {
			return tensors.FromAnyValue(data[0]), nil
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	}
	return nil, fmt.Errorf("no column class for dtype %s: %w", dtypeName(dt), ErrDType)
}

type intElem interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

func intsFrom[T intElem](xs []T) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}

func convertInts[T intElem](xs []int64) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = T(x)
	}
	return out
}

func floatsFrom[T ~float32 | ~float64](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func convertFloats[T ~float32 | ~float64](xs []float64) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = T(x)
	}
	return out
}
