package testkit

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"

	"github.com/grainx/grain/features"
)

// ExpectationItem is one round-trip case for a feature under test: the
// value handed to the encoder and what must come back, or the failure
// the encoder must report instead.
type ExpectationItem struct {
	// Value is the raw input handed to the encoder.
	Value any

	// Expected is what the round trip must decode back to, with
	// tensors realized to plain Go values. Ignored when WantErr is
	// set.
	Expected any

	// ExpectedSerialized, when non-nil, is compared against the wire
	// columns the encoder produces.
	ExpectedSerialized features.Encoded

	// WantErr declares the round trip must fail with an error matching
	// it. WantErrMsg must then hold a substring of the failure
	// message; leaving it empty fails the harness itself.
	WantErr    error
	WantErrMsg string
}

// FeatureExpectation groups every round-trip case for one feature
// encoder, together with the shape and dtype it must declare.
type FeatureExpectation struct {
	// Name is the key the feature is mounted under while testing.
	// Empty defaults to "feature".
	Name string

	// Feature is the encoder under test.
	Feature features.Feature

	// Dims and DType are checked against the feature's declared shape
	// when it has one.
	Dims  []int
	DType dtypes.DType

	// Items are run in order, each as its own subtest.
	Items []ExpectationItem

	// SerializedInfo, when non-nil, is compared against the feature's
	// serialized schema.
	SerializedInfo map[string]features.Spec
}
