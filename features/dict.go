package features

import (
	"fmt"
	"sort"
	"strings"
)

// Dict is a named collection of sub-features that is itself a Feature,
// so dictionaries nest arbitrarily. Encode takes a map[string]any with
// exactly the declared entries; nested column names are joined with
// "/". Iteration order is always sorted by entry name.
type Dict struct {
	entries map[string]Feature
}

// NewDict builds a Dict over the given entries. Entry names must not
// contain '/', which separates nesting levels in column names; a name
// that does panics.
func NewDict(entries map[string]Feature) *Dict {
	m := make(map[string]Feature, len(entries))
	for name, f := range entries {
		if strings.Contains(name, "/") {
			panic(fmt.Sprintf("features: entry name %q contains '/'", name))
		}
		m[name] = f
	}
	return &Dict{entries: m}
}

// Keys returns the entry names in sorted order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for name := range d.entries {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// Entry returns the sub-feature stored under name.
func (d *Dict) Entry(name string) (Feature, bool) {
	f, ok := d.entries[name]
	return f, ok
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.entries)
}

func (d *Dict) SerializedInfo() map[string]Spec {
	info := make(map[string]Spec)
	for _, name := range d.Keys() {
		for sub, spec := range d.entries[name].SerializedInfo() {
			info[JoinKey(name, sub)] = spec
		}
	}
	return info
}

func (d *Dict) Encode(value any) (Encoded, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as dict, want map[string]any: %w", value, ErrDType)
	}
	return d.EncodeExample(m)
}

// EncodeExample encodes one example map into its flattened wire
// columns. Every declared entry must be present and no extra entries
// are allowed.
func (d *Dict) EncodeExample(example map[string]any) (Encoded, error) {
	for name := range example {
		if _, ok := d.entries[name]; !ok {
			return nil, fmt.Errorf("unexpected entry %q: %w", name, ErrValue)
		}
	}

	enc := make(Encoded)
	for _, name := range d.Keys() {
		v, ok := example[name]
		if !ok {
			return nil, fmt.Errorf("missing entry %q: %w", name, ErrValue)
		}
		sub, err := d.entries[name].Encode(v)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		for key, col := range sub {
			enc[JoinKey(name, key)] = col
		}
	}
	return enc, nil
}

func (d *Dict) Decode(enc Encoded) (any, error) {
	return d.DecodeExample(enc)
}

// DecodeExample rebuilds the example map from flattened wire columns.
func (d *Dict) DecodeExample(enc Encoded) (map[string]any, error) {
	out := make(map[string]any, len(d.entries))
	for _, name := range d.Keys() {
		sub := make(Encoded)
		prefix := name + "/"
		for key, col := range enc {
			switch {
			case key == name:
				sub[""] = col
			case strings.HasPrefix(key, prefix):
				sub[strings.TrimPrefix(key, prefix)] = col
			}
		}
		if len(sub) == 0 {
			return nil, fmt.Errorf("no columns for entry %q: %w", name, ErrValue)
		}
		v, err := d.entries[name].Decode(sub)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
