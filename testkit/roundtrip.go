package testkit

import (
	"fmt"
	"path/filepath"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/grainx/grain/features"
	"github.com/grainx/grain/recordio"
)

// RoundTrip encodes example through dict, writes the encoded form to a
// record file in a fresh temporary directory, reads it back, decodes
// it and realizes every tensor under the Exec's mode. The returned map
// mirrors the decoded example with tensors replaced by their Go
// values.
//
// Errors from encode, write, read or decode propagate unchanged. The
// temporary directory is removed when the round trip succeeds and left
// in place for inspection when it fails.
//
// Example:
//
//	got, err := testkit.RoundTrip(ex, dict, map[string]any{"x": int64(3)})
func RoundTrip(ex Exec, dict *features.Dict, example map[string]any) (map[string]any, error) {
	decoded, err := roundTripExample(dict, example)
	if err != nil {
		return nil, err
	}
	realized, err := realizeValue(ex, decoded)
	if err != nil {
		return nil, err
	}
	return realized.(map[string]any), nil
}

// RoundTripTensors is RoundTrip keeping the decoded tensor handles
// instead of realizing them, keyed by their "/"-joined paths. Entries
// that do not decode to tensors, such as text, are dropped.
func RoundTripTensors(ex Exec, dict *features.Dict, example map[string]any) (map[string]*tensors.Tensor, error) {
	decoded, err := roundTripExample(dict, example)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*tensors.Tensor)
	if err := collectTensors(ex, "", decoded, out); err != nil {
		return nil, err
	}
	return out, nil
}

func roundTripExample(dict *features.Dict, example map[string]any) (map[string]any, error) {
	enc, err := dict.EncodeExample(example)
	if err != nil {
		return nil, err
	}
	adapter := recordio.NewExampleAdapter(dict.SerializedInfo())
	payload, err := adapter.Marshal(enc)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	err = WithTempDir("", func(dir string) error {
		path := filepath.Join(dir, "example.grainrec")
		fw, err := recordio.Create(path)
		if err != nil {
			return err
		}
		if err := fw.Write(payload); err != nil {
			fw.Close()
			return err
		}
		if err := fw.Close(); err != nil {
			return err
		}

		read, err := adapter.ReadAll(path)
		if err != nil {
			return err
		}
		if len(read) != 1 {
			return fmt.Errorf("read %d records back, want 1", len(read))
		}
		decoded, err = dict.DecodeExample(read[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func realizeValue(ex Exec, v any) (any, error) {
	switch val := v.(type) {
	case *tensors.Tensor:
		mat, err := ex.Materialize(val)
		if err != nil {
			return nil, err
		}
		return mat.Value(), nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			rv, err := realizeValue(ex, sub)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

func collectTensors(ex Exec, prefix string, v any, out map[string]*tensors.Tensor) error {
	switch val := v.(type) {
	case *tensors.Tensor:
		mat, err := ex.Materialize(val)
		if err != nil {
			return err
		}
		out[prefix] = mat
	case map[string]any:
		for k, sub := range val {
			if err := collectTensors(ex, features.JoinKey(prefix, k), sub, out); err != nil {
				return err
			}
		}
	}
	return nil
}
