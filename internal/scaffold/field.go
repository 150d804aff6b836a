package scaffold

import (
	"fmt"
	"strings"
)

// FieldSpec describes one feature of a scaffolded dataset.
type FieldSpec struct {
	Name    string
	Type    string
	Classes []string
}

// scalarTypes maps flag type names to dtypes constructor identifiers.
var scalarTypes = map[string]string{
	"bool":    "Bool",
	"int8":    "Int8",
	"int16":   "Int16",
	"int32":   "Int32",
	"int64":   "Int64",
	"uint8":   "Uint8",
	"uint16":  "Uint16",
	"uint32":  "Uint32",
	"uint64":  "Uint64",
	"float16": "Float16",
	"float32": "Float32",
	"float64": "Float64",
}

// ParseField parses a "name:type" flag value. Accepted types are the
// scalar dtype names, "text", "bytes", and "class(a,b,...)".
func ParseField(s string) (FieldSpec, error) {
	name, typ, ok := strings.Cut(s, ":")
	if !ok || name == "" || typ == "" {
		return FieldSpec{}, fmt.Errorf("feature %q is not name:type", s)
	}
	if strings.Contains(name, "/") {
		return FieldSpec{}, fmt.Errorf("feature name %q may not contain /", name)
	}

	if rest, found := strings.CutPrefix(typ, "class("); found {
		args, closed := strings.CutSuffix(rest, ")")
		if !closed || args == "" {
			return FieldSpec{}, fmt.Errorf("feature %q: class needs names, e.g. class(cat,dog)", s)
		}
		classes := strings.Split(args, ",")
		for i, c := range classes {
			classes[i] = strings.TrimSpace(c)
			if classes[i] == "" {
				return FieldSpec{}, fmt.Errorf("feature %q has an empty class name", s)
			}
		}
		return FieldSpec{Name: name, Type: "class", Classes: classes}, nil
	}

	switch typ {
	case "text", "bytes":
		return FieldSpec{Name: name, Type: typ}, nil
	}
	if _, ok := scalarTypes[typ]; ok {
		return FieldSpec{Name: name, Type: typ}, nil
	}
	return FieldSpec{}, fmt.Errorf("feature %q has unknown type %q", s, typ)
}

// literal renders the features constructor expression for the field.
func (f FieldSpec) literal() string {
	switch f.Type {
	case "text":
		return "features.Text{}"
	case "bytes":
		return "features.Bytes{}"
	case "class":
		quoted := make([]string, len(f.Classes))
		for i, c := range f.Classes {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		return fmt.Sprintf("features.NewClassLabel(%s)", strings.Join(quoted, ", "))
	}
	return fmt.Sprintf("features.Scalar(dtypes.%s)", scalarTypes[f.Type])
}

// placeholder renders an example value expression for the generated
// Generate loop, in terms of its loop variable i.
func (f FieldSpec) placeholder() string {
	switch f.Type {
	case "bool":
		return "i%2 == 0"
	case "float16", "float32", "float64":
		return "float64(i)"
	case "text":
		return `fmt.Sprintf("example %d", i)`
	case "bytes":
		return "[]byte{byte(i)}"
	case "class":
		return fmt.Sprintf("i %% %d", len(f.Classes))
	}
	return "i"
}

// usesDTypes reports whether the field's constructor mentions the
// dtypes package.
func (f FieldSpec) usesDTypes() bool {
	_, ok := scalarTypes[f.Type]
	return ok
}

// usesFmt reports whether the field's placeholder needs package fmt.
func (f FieldSpec) usesFmt() bool {
	return f.Type == "text"
}
