package features

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/gomlx/gomlx/pkg/core/shapes"
)

type featureJSON struct {
	Type    string                 `json:"type"`
	DType   string                 `json:"dtype,omitempty"`
	Dims    []int                  `json:"dims,omitempty"`
	Names   []string               `json:"names,omitempty"`
	Entries map[string]featureJSON `json:"entries,omitempty"`
}

func marshalFeature(f Feature) (featureJSON, error) {
	switch ft := f.(type) {
	case *Tensor:
		return featureJSON{Type: "tensor", DType: dtypeName(ft.DType), Dims: dimsToJSON(ft.Dims)}, nil
	case *ClassLabel:
		return featureJSON{Type: "class_label", Names: ft.Names()}, nil
	case Text:
		return featureJSON{Type: "text"}, nil
	case Bytes:
		return featureJSON{Type: "bytes"}, nil
	case *Dict:
		entries := make(map[string]featureJSON, ft.Len())
		for _, name := range ft.Keys() {
			sub, _ := ft.Entry(name)
			j, err := marshalFeature(sub)
			if err != nil {
				return featureJSON{}, fmt.Errorf("entry %q: %w", name, err)
			}
			entries[name] = j
		}
		return featureJSON{Type: "dict", Entries: entries}, nil
	}
	return featureJSON{}, fmt.Errorf("cannot serialize feature type %T: %w", f, ErrValue)
}

func unmarshalFeature(j featureJSON) (Feature, error) {
	switch j.Type {
	case "tensor":
		dt, err := dtypeFromName(j.DType)
		if err != nil {
			return nil, err
		}
		return &Tensor{DType: dt, Dims: dimsFromJSON(j.Dims)}, nil
	case "class_label":
		return NewClassLabel(j.Names...), nil
	case "text":
		return Text{}, nil
	case "bytes":
		return Bytes{}, nil
	case "dict":
		entries := make(map[string]Feature, len(j.Entries))
		for name, sub := range j.Entries {
			f, err := unmarshalFeature(sub)
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", name, err)
			}
			entries[name] = f
		}
		return NewDict(entries), nil
	}
	return nil, fmt.Errorf("unknown feature type %q: %w", j.Type, ErrValue)
}

// MarshalJSON serializes the dictionary schema, dtype names and class
// names included, so a dataset's features can be rebuilt from its info
// file alone.
func (d *Dict) MarshalJSON() ([]byte, error) {
	j, err := marshalFeature(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func (d *Dict) UnmarshalJSON(data []byte) error {
	var j featureJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	f, err := unmarshalFeature(j)
	if err != nil {
		return err
	}
	dict, ok := f.(*Dict)
	if !ok {
		return fmt.Errorf("top-level feature must be a dict, got %q: %w", j.Type, ErrValue)
	}
	*d = *dict
	return nil
}

// Dynamic axes persist as -1 regardless of the framework's internal
// sentinel value.

func dimsToJSON(dims []int) []int {
	out := slices.Clone(dims)
	for i, d := range out {
		if d == shapes.DynamicDim {
			out[i] = -1
		}
	}
	return out
}

func dimsFromJSON(dims []int) []int {
	out := slices.Clone(dims)
	for i, d := range out {
		if d < 0 {
			out[i] = shapes.DynamicDim
		}
	}
	return out
}
