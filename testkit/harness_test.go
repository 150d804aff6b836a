package testkit

import (
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/x448/float16"

	"github.com/grainx/grain/features"
)

func TestAssertFeatureScalarInt(t *testing.T) {
	AssertFeature(t, FeatureExpectation{
		Name:    "length",
		Feature: features.Scalar(dtypes.Int64),
		DType:   dtypes.Int64,
		Items: []ExpectationItem{
			{
				Value:              int64(42),
				Expected:           int64(42),
				ExpectedSerialized: features.Encoded{"length": features.IntColumn(42)},
			},
			{Value: int32(-3), Expected: int64(-3)},
			{Value: 7, Expected: int64(7)},
			{
				Value:      "not a number",
				WantErr:    features.ErrDType,
				WantErrMsg: "cannot encode string",
			},
		},
		SerializedInfo: map[string]features.Spec{
			"": {Kind: features.KindInts, DType: dtypes.Int64},
		},
	})
}

func TestAssertFeatureFloat16(t *testing.T) {
	AssertFeature(t, FeatureExpectation{
		Name:    "temperature",
		Feature: features.Scalar(dtypes.Float16),
		DType:   dtypes.Float16,
		Items: []ExpectationItem{
			{Value: float32(1.5), Expected: float16.Fromfloat32(1.5)},
			// 0.1 is not representable in half precision; the encoder
			// quantizes it on the way in.
			{Value: float32(0.1), Expected: float16.Fromfloat32(0.1)},
			{
				Value:      true,
				WantErr:    features.ErrDType,
				WantErrMsg: "bool element",
			},
		},
	})
}

func TestAssertFeatureDynamicMatrix(t *testing.T) {
	AssertFeature(t, FeatureExpectation{
		Name:    "pairs",
		Feature: &features.Tensor{DType: dtypes.Int32, Dims: []int{shapes.DynamicDim, 2}},
		Dims:    []int{shapes.DynamicDim, 2},
		DType:   dtypes.Int32,
		Items: []ExpectationItem{
			{
				Value:    [][]int32{{1, 2}, {3, 4}, {5, 6}},
				Expected: [][]int32{{1, 2}, {3, 4}, {5, 6}},
			},
			{
				Value:    [][]int32{{9, 8}},
				Expected: [][]int32{{9, 8}},
			},
			{
				Value:      [][]int32{{1}, {2}},
				WantErr:    features.ErrShape,
				WantErrMsg: "incompatible",
			},
			{
				Value:      []any{[]int32{1, 2}, int32(3)},
				WantErr:    features.ErrValue,
				WantErrMsg: "nesting",
			},
		},
	})
}

func TestAssertFeatureClassLabel(t *testing.T) {
	AssertFeature(t, FeatureExpectation{
		Name:    "species",
		Feature: features.NewClassLabel("cat", "dog", "fish"),
		DType:   dtypes.Int64,
		Items: []ExpectationItem{
			{
				Value:              "dog",
				Expected:           int64(1),
				ExpectedSerialized: features.Encoded{"species": features.IntColumn(1)},
			},
			{Value: int64(2), Expected: int64(2)},
			{
				Value:      "wolf",
				WantErr:    features.ErrUnknownLabel,
				WantErrMsg: `class name "wolf"`,
			},
			{
				Value:      int64(3),
				WantErr:    features.ErrUnknownLabel,
				WantErrMsg: "outside",
			},
		},
		SerializedInfo: map[string]features.Spec{
			"": {Kind: features.KindInts, DType: dtypes.Int64},
		},
	})
}

func TestAssertFeatureText(t *testing.T) {
	AssertFeature(t, FeatureExpectation{
		Name:    "title",
		Feature: features.Text{},
		Dims:    []int{shapes.DynamicDim},
		DType:   dtypes.Uint8,
		Items: []ExpectationItem{
			{
				Value:              "hello",
				Expected:           "hello",
				ExpectedSerialized: features.Encoded{"title": features.BytesColumn([]byte("hello"))},
			},
			{Value: []byte("raw"), Expected: "raw"},
			{Value: "", Expected: ""},
			{
				Value:      int64(5),
				WantErr:    features.ErrDType,
				WantErrMsg: "cannot encode",
			},
		},
	})
}

func TestAssertFeatureDefaultName(t *testing.T) {
	AssertFeature(t, FeatureExpectation{
		Feature: features.Scalar(dtypes.Bool),
		DType:   dtypes.Bool,
		Items: []ExpectationItem{
			{Value: true, Expected: true},
			{Value: false, Expected: false},
		},
	})
}
