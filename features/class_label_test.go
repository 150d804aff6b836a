package features

import (
	"errors"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/google/go-cmp/cmp"
)

func TestClassLabelEncode(t *testing.T) {
	labels := NewClassLabel("cat", "dog", "bird")

	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{"ByIndex", 1, 1},
		{"ByInt64", int64(2), 2},
		{"ByName", "dog", 1},
		{"FirstName", "cat", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := labels.Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if diff := cmp.Diff(IntColumn(tt.want), enc[""]); diff != "" {
				t.Fatalf("encoded column mismatch (-want +got):\n%s", diff)
			}

			decoded, err := labels.Decode(enc)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			tensor := decoded.(*tensors.Tensor)
			if got := tensor.Value(); got != tt.want {
				t.Errorf("decoded label = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestClassLabelEncodeErrors(t *testing.T) {
	labels := NewClassLabel("cat", "dog", "bird")

	tests := []struct {
		name    string
		value   any
		wantErr error
	}{
		{"UnknownName", "fish", ErrUnknownLabel},
		{"NegativeIndex", -1, ErrUnknownLabel},
		{"IndexTooLarge", 3, ErrUnknownLabel},
		{"FloatValue", 1.0, ErrDType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := labels.Encode(tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Encode(%v) error = %v, want %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestClassLabelLookup(t *testing.T) {
	labels := NewClassLabel("cat", "dog")

	if got := labels.NumClasses(); got != 2 {
		t.Fatalf("NumClasses() = %d, want 2", got)
	}

	i, err := labels.Index("dog")
	if err != nil || i != 1 {
		t.Errorf("Index(dog) = %d, %v, want 1, nil", i, err)
	}
	if _, err := labels.Index("fish"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Index(fish) error = %v, want %v", err, ErrUnknownLabel)
	}

	name, err := labels.Name(0)
	if err != nil || name != "cat" {
		t.Errorf("Name(0) = %q, %v, want cat, nil", name, err)
	}
	if _, err := labels.Name(5); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Name(5) error = %v, want %v", err, ErrUnknownLabel)
	}
}

func TestClassLabelDecodeErrors(t *testing.T) {
	labels := NewClassLabel("cat", "dog")

	tests := []struct {
		name    string
		enc     Encoded
		wantErr error
	}{
		{"MissingColumn", Encoded{}, ErrValue},
		{"WrongKind", Encoded{"": FloatColumn(1)}, ErrValue},
		{"TooManyValues", Encoded{"": IntColumn(0, 1)}, ErrValue},
		{"OutOfRange", Encoded{"": IntColumn(9)}, ErrUnknownLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := labels.Decode(tt.enc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
