package recordio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/grainx/grain/features"
)

// ErrSpecMismatch reports a record whose columns do not match the
// dataset's serialized feature specs.
var ErrSpecMismatch = errors.New("record does not match feature specs")

// ExampleAdapter converts flattened encoded examples to record
// payloads and back. Columns are validated against the serialized
// specs in both directions, so a shard can never hold an example its
// info file does not describe.
type ExampleAdapter struct {
	specs map[string]features.Spec
}

func NewExampleAdapter(specs map[string]features.Spec) *ExampleAdapter {
	return &ExampleAdapter{specs: specs}
}

// Marshal serializes one encoded example into a record payload.
func (a *ExampleAdapter) Marshal(enc features.Encoded) ([]byte, error) {
	if err := a.check(enc); err != nil {
		return nil, err
	}
	payload, err := msgpack.Marshal(enc)
	if err != nil {
		return nil, fmt.Errorf("encoding example payload: %w", err)
	}
	return payload, nil
}

// Unmarshal deserializes a record payload into an encoded example.
func (a *ExampleAdapter) Unmarshal(payload []byte) (features.Encoded, error) {
	var enc features.Encoded
	if err := msgpack.Unmarshal(payload, &enc); err != nil {
		return nil, fmt.Errorf("decoding example payload: %w", err)
	}
	if err := a.check(enc); err != nil {
		return nil, err
	}
	return enc, nil
}

func (a *ExampleAdapter) check(enc features.Encoded) error {
	for name := range enc {
		if _, ok := a.specs[name]; !ok {
			return fmt.Errorf("unknown column %q: %w", name, ErrSpecMismatch)
		}
	}
	for name, spec := range a.specs {
		col, ok := enc[name]
		if !ok {
			return fmt.Errorf("missing column %q: %w", name, ErrSpecMismatch)
		}
		if col.Kind != spec.Kind {
			return fmt.Errorf("column %q kind %s, want %s: %w", name, col.Kind, spec.Kind, ErrSpecMismatch)
		}
	}
	return nil
}

// ExampleReader streams decoded examples from one shard file.
type ExampleReader struct {
	f *os.File
	r *Reader
	a *ExampleAdapter
}

// OpenShard opens the shard file at path for reading.
func (a *ExampleAdapter) OpenShard(path string) (*ExampleReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shard: %w", err)
	}
	return &ExampleReader{f: f, r: NewReader(f), a: a}, nil
}

// Next returns the next example, or io.EOF at the end of the shard.
func (er *ExampleReader) Next() (features.Encoded, error) {
	payload, err := er.r.Next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	return er.a.Unmarshal(payload)
}

func (er *ExampleReader) Close() error {
	return er.f.Close()
}

// ReadAll decodes every example in the shard file at path, in order.
func (a *ExampleAdapter) ReadAll(path string) ([]features.Encoded, error) {
	er, err := a.OpenShard(path)
	if err != nil {
		return nil, err
	}
	defer er.Close()

	var out []features.Encoded
	for {
		enc, err := er.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
}
