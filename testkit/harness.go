package testkit

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/grainx/grain/features"
)

// AssertFeature runs every expectation item under both execution
// modes. It is the entry point feature tests normally use.
//
// Example:
//
//	testkit.AssertFeature(t, testkit.FeatureExpectation{
//	    Name:    "length",
//	    Feature: features.Scalar(dtypes.Int64),
//	    DType:   dtypes.Int64,
//	    Items: []testkit.ExpectationItem{
//	        {Value: int64(42), Expected: int64(42)},
//	    },
//	})
func AssertFeature(t *testing.T, exp FeatureExpectation) {
	RunGraphAndEager(t, func(t *testing.T, ex Exec) {
		CheckFeature(t, ex, exp)
	})
}

// CheckFeature runs every expectation item under one execution mode,
// each item as its own subtest.
func CheckFeature(t *testing.T, ex Exec, exp FeatureExpectation) {
	t.Helper()

	name := exp.Name
	if name == "" {
		name = "feature"
	}

	if shaped, ok := exp.Feature.(features.Shaped); ok {
		shape := shaped.Shape()
		if !cmp.Equal(exp.Dims, shape.Dimensions, cmpopts.EquateEmpty()) {
			t.Errorf("feature declares dims %v, expectation wants %v", shape.Dimensions, exp.Dims)
		}
		if shape.DType != exp.DType {
			t.Errorf("feature declares dtype %s, expectation wants %s", shape.DType, exp.DType)
		}
	}

	if exp.SerializedInfo != nil {
		if diff := cmp.Diff(exp.SerializedInfo, exp.Feature.SerializedInfo(), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("serialized info mismatch (-want +got):\n%s", diff)
		}
	}

	dict := features.NewDict(map[string]features.Feature{name: exp.Feature})
	for i, item := range exp.Items {
		t.Run(fmt.Sprintf("item_%02d", i), func(t *testing.T) {
			checkItem(t, ex, dict, name, exp, item)
		})
	}
}

func checkItem(t *testing.T, ex Exec, dict *features.Dict, name string, exp FeatureExpectation, item ExpectationItem) {
	t.Helper()

	example := map[string]any{name: item.Value}

	if item.WantErr != nil {
		if item.WantErrMsg == "" {
			t.Fatal("expectation declares a failure without a message substring")
		}
		_, err := RoundTrip(ex, dict, example)
		if err == nil {
			t.Fatalf("round trip succeeded, want error %v", item.WantErr)
		}
		if !errors.Is(err, item.WantErr) {
			t.Fatalf("round trip error = %v, want %v", err, item.WantErr)
		}
		if !strings.Contains(err.Error(), item.WantErrMsg) {
			t.Errorf("round trip error %q does not contain %q", err, item.WantErrMsg)
		}
		return
	}

	if item.ExpectedSerialized != nil {
		enc, err := dict.EncodeExample(example)
		if err != nil {
			t.Fatalf("encode error = %v", err)
		}
		if diff := cmp.Diff(item.ExpectedSerialized, enc, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("serialized form mismatch (-want +got):\n%s", diff)
		}
	}

	decoded, err := RoundTripTensors(ex, dict, example)
	if err != nil {
		t.Fatalf("round trip error = %v", err)
	}
	if tensor, ok := decoded[name]; ok {
		if shaped, isShaped := exp.Feature.(features.Shaped); isShaped {
			declared := shaped.Shape()
			got := tensor.Shape()
			if got.DType != declared.DType {
				t.Errorf("decoded dtype = %s, want %s", got.DType, declared.DType)
			}
			if !features.CompatibleDims(declared.Dimensions, got.Dimensions) {
				t.Errorf("decoded dims %v incompatible with declared %v", got.Dimensions, declared.Dimensions)
			}
		}
	}

	got, err := RoundTrip(ex, dict, example)
	if err != nil {
		t.Fatalf("round trip error = %v", err)
	}
	want := map[string]any{name: item.Expected}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded value mismatch (-want +got):\n%s", diff)
	}
}
