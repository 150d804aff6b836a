package features

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"Plain", "hello", "hello"},
		{"Empty", "", ""},
		{"Unicode", "héllo wörld é", "héllo wörld é"},
		{"FromBytes", []byte("raw"), "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Text{}.Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			decoded, err := Text{}.Decode(enc)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := decoded.(string); got != tt.want {
				t.Errorf("round trip = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBytesRoundTrip(t *testing.T) {
	value := []byte{0x00, 0xff, 0x10}

	enc, err := Bytes{}.Encode(value)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Bytes{}.Decode(enc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(value, decoded.([]byte)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTextErrors(t *testing.T) {
	if _, err := (Text{}).Encode(42); !errors.Is(err, ErrDType) {
		t.Errorf("Encode(42) error = %v, want %v", err, ErrDType)
	}
	if _, err := (Text{}).Decode(Encoded{}); !errors.Is(err, ErrValue) {
		t.Errorf("Decode(empty) error = %v, want %v", err, ErrValue)
	}
	if _, err := (Text{}).Decode(Encoded{"": IntColumn(1)}); !errors.Is(err, ErrValue) {
		t.Errorf("Decode(ints) error = %v, want %v", err, ErrValue)
	}
	if _, err := (Bytes{}).Decode(Encoded{"": BytesColumn([]byte("a"), []byte("b"))}); !errors.Is(err, ErrValue) {
		t.Errorf("Decode(two elements) error = %v, want %v", err, ErrValue)
	}
}
