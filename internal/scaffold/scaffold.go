// Package scaffold generates registration-ready dataset generator
// source files for the grain new command.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/grainx/grain/internal/strcase"
)

// ErrExists is returned by WriteFile when the target file is already
// present. Scaffolding never overwrites user code.
var ErrExists = errors.New("scaffold: file exists")

// Options control the generated dataset source.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Name is the dataset's snake_case on-disk name.
	Name string
	// TypeName is the generator's Go type name, derived from Name
	// when empty.
	TypeName string
	// Fields lists the dataset's features. At least one is required.
	Fields []FieldSpec
	// Supervised optionally names the (input, target) fields. Both
	// empty omits SupervisedKeys from the generated info.
	Supervised [2]string
}

func (o *Options) defaults() {
	if o.Package == "" {
		o.Package = "datasets"
	}
	if o.Name == "" && o.TypeName != "" {
		o.Name = strcase.ToSnakeCase(o.TypeName)
	}
	if o.TypeName == "" {
		o.TypeName = strcase.ToPascalCase(o.Name)
	}
}

func (o *Options) validate() error {
	if o.Name == "" {
		return errors.New("scaffold: dataset name is required")
	}
	if len(o.Fields) == 0 {
		return errors.New("scaffold: at least one feature is required")
	}
	seen := make(map[string]bool, len(o.Fields))
	for _, f := range o.Fields {
		if seen[f.Name] {
			return fmt.Errorf("scaffold: duplicate feature %q", f.Name)
		}
		seen[f.Name] = true
	}
	for _, key := range o.Supervised {
		if key != "" && !seen[key] {
			return fmt.Errorf("scaffold: supervised key %q is not a feature", key)
		}
	}
	if (o.Supervised[0] == "") != (o.Supervised[1] == "") {
		return errors.New("scaffold: supervised keys must name both input and target")
	}
	return nil
}

// Generate renders the dataset source for opts and formats it with
// goimports so the emitted file is ready to build.
func Generate(opts Options) ([]byte, error) {
	opts.defaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)
	writeImports(&b, opts.Fields)
	fmt.Fprintf(&b, "func init() {\n\tgrain.Register(%q, func() grain.Generator { return &%s{} })\n}\n\n", opts.Name, opts.TypeName)
	fmt.Fprintf(&b, "// %s generates the %s dataset.\ntype %s struct{}\n\n", opts.TypeName, opts.Name, opts.TypeName)
	writeInfo(&b, opts)
	writeSplitGenerators(&b, opts)

	src, err := imports.Process(opts.Name+".go", []byte(b.String()), nil)
	if err != nil {
		return nil, fmt.Errorf("scaffold: format: %w", err)
	}
	return src, nil
}

// WriteFile generates the source and writes it to dir/<name>.go,
// creating dir as needed. Returns the written path.
func WriteFile(dir string, opts Options) (string, error) {
	src, err := Generate(opts)
	if err != nil {
		return "", err
	}
	opts.defaults()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("scaffold: %w", err)
	}
	path := filepath.Join(dir, opts.Name+".go")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("scaffold: %w", err)
	}
	if err := os.WriteFile(path, src, 0o600); err != nil {
		return "", fmt.Errorf("scaffold: %w", err)
	}
	return path, nil
}

func writeImports(b *strings.Builder, fields []FieldSpec) {
	needFmt, needDTypes := false, false
	for _, f := range fields {
		needFmt = needFmt || f.usesFmt()
		needDTypes = needDTypes || f.usesDTypes()
	}
	b.WriteString("import (\n")
	if needFmt {
		b.WriteString("\t\"fmt\"\n\n")
	}
	if needDTypes {
		b.WriteString("\t\"github.com/gomlx/gomlx/pkg/core/dtypes\"\n\n")
	}
	b.WriteString("\t\"github.com/grainx/grain\"\n")
	b.WriteString("\t\"github.com/grainx/grain/features\"\n")
	b.WriteString(")\n\n")
}

func writeInfo(b *strings.Builder, opts Options) {
	fmt.Fprintf(b, "func (g *%s) Info() *grain.DatasetInfo {\n", opts.TypeName)
	b.WriteString("\treturn &grain.DatasetInfo{\n")
	writeAligned(b, "\t\t", [][2]string{
		{"Name:", fmt.Sprintf("%q,", opts.Name)},
		{"Version:", `grain.MustVersion("1.0.0"),`},
		{"Description:", fmt.Sprintf("%q,", "TODO: describe "+opts.Name+".")},
	})
	b.WriteString("\t\tFeatures: features.NewDict(map[string]features.Feature{\n")
	entries := make([][2]string, len(opts.Fields))
	for i, f := range opts.Fields {
		entries[i] = [2]string{fmt.Sprintf("%q:", f.Name), f.literal() + ","}
	}
	writeAligned(b, "\t\t\t", entries)
	b.WriteString("\t\t}),\n")
	if opts.Supervised[0] != "" {
		fmt.Fprintf(b, "\t\tSupervisedKeys: [2]string{%q, %q},\n", opts.Supervised[0], opts.Supervised[1])
	}
	b.WriteString("\t}\n}\n\n")
}

func writeSplitGenerators(b *strings.Builder, opts Options) {
	fmt.Fprintf(b, "func (g *%s) SplitGenerators() []grain.SplitGenerator {\n", opts.TypeName)
	b.WriteString("\treturn []grain.SplitGenerator{{\n")
	b.WriteString("\t\tSplits: []grain.SplitShards{\n")
	b.WriteString("\t\t\t{Split: grain.TrainSplit, NumShards: 1},\n")
	b.WriteString("\t\t\t{Split: grain.TestSplit, NumShards: 1},\n")
	b.WriteString("\t\t},\n")
	b.WriteString("\t\tGenerate: func(yield func(example map[string]any) error) error {\n")
	b.WriteString("\t\t\t// TODO: replace the placeholder examples with real data.\n")
	b.WriteString("\t\t\tfor i := 0; i < 10; i++ {\n")
	b.WriteString("\t\t\t\texample := map[string]any{\n")
	entries := make([][2]string, len(opts.Fields))
	for i, f := range opts.Fields {
		entries[i] = [2]string{fmt.Sprintf("%q:", f.Name), f.placeholder() + ","}
	}
	writeAligned(b, "\t\t\t\t\t", entries)
	b.WriteString("\t\t\t\t}\n")
	b.WriteString("\t\t\t\tif err := yield(example); err != nil {\n")
	b.WriteString("\t\t\t\t\treturn err\n")
	b.WriteString("\t\t\t\t}\n")
	b.WriteString("\t\t\t}\n")
	b.WriteString("\t\t\treturn nil\n")
	b.WriteString("\t\t},\n")
	b.WriteString("\t}}\n}\n")
}

// writeAligned emits key/value literal entries padded the way gofmt
// aligns a run of single-line composite literal fields.
func writeAligned(b *strings.Builder, indent string, entries [][2]string) {
	width := 0
	for _, e := range entries {
		width = max(width, len(e[0]))
	}
	for _, e := range entries {
		fmt.Fprintf(b, "%s%-*s %s\n", indent, width, e[0], e[1])
	}
}
