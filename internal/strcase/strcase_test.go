package strcase

import "testing"

func TestToSnakeCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Simple", "CamelCase", "camel_case"},
		{"SingleWord", "Camel", "camel"},
		{"BuilderTypeName", "DummyDataset", "dummy_dataset"},
		{"AcronymPrefix", "MNISTCorpus", "mnist_corpus"},
		{"TrailingUpper", "UserID", "user_id"},
		{"AcronymOnly", "URL", "url"},
		{"AlreadySnake", "dummy_dataset", "dummy_dataset"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ToSnakeCase(tt.input); got != tt.want {
				t.Fatalf("ToSnakeCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToPascalCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Snake", "my_corpus", "MyCorpus"},
		{"Hyphen", "my-corpus", "MyCorpus"},
		{"SingleWord", "corpus", "Corpus"},
		{"AlreadyPascal", "MyCorpus", "MyCorpus"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ToPascalCase(tt.input); got != tt.want {
				t.Fatalf("ToPascalCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
