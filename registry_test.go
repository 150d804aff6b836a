package grain

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// The registry is process-global, so every test registers under a
// name no other test uses.

func TestRegistryNewAndPrepare(t *testing.T) {
	Register("registry_counting", func() Generator { return &countingCorpus{n: 30} })

	b, err := New("registry_counting", WithDataDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := b.Name(); got != "registry_counting" {
		t.Fatalf("Name() = %q, want the registered name", got)
	}

	if err := b.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	ds, err := b.Dataset(TestSplit)
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}
	if got := ds.NumExamples(); got != 10 {
		t.Errorf("NumExamples() = %d, want 10", got)
	}
}

func TestRegistryUnknown(t *testing.T) {
	t.Parallel()

	if _, err := New("registry_never_registered"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("New(unknown) error = %v, want ErrNotRegistered", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("registry_dup", func() Generator { return &countingCorpus{n: 1} })

	defer func() {
		if recover() == nil {
			t.Fatal("duplicate Register() did not panic")
		}
	}()
	Register("registry_dup", func() Generator { return &countingCorpus{n: 1} })
}

func TestRegisterRejectsBadArgs(t *testing.T) {
	for _, tt := range []struct {
		name    string
		regName string
		factory Factory
	}{
		{"EmptyName", "", func() Generator { return &countingCorpus{} }},
		{"NilFactory", "registry_nil_factory", nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("Register() did not panic")
				}
			}()
			Register(tt.regName, tt.factory)
		})
	}
}

func TestListSorted(t *testing.T) {
	Register("registry_zz", func() Generator { return &countingCorpus{n: 1} })
	Register("registry_aa", func() Generator { return &countingCorpus{n: 1} })

	names := List()
	if !sort.StringsAreSorted(names) {
		t.Errorf("List() = %v, want sorted", names)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	if !seen["registry_aa"] || !seen["registry_zz"] {
		t.Errorf("List() = %v, missing registered names", names)
	}
}
