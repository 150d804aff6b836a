package strcase

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a Go-style CamelCase identifier to snake_case.
// Acronym runs stay together, so "MNISTCorpus" becomes "mnist_corpus".
// Dataset directories on disk always use the snake_case form of the
// builder type name.
func ToSnakeCase(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	var result []rune

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := false
				if i < len(runes)-1 {
					nextLower = unicode.IsLower(runes[i+1])
				}

				if unicode.IsLower(prev) || nextLower {
					result = append(result, '_')
				}
			}
			r = unicode.ToLower(r)
		}

		result = append(result, r)
	}

	return string(result)
}

// ToPascalCase converts a snake_case dataset name to a PascalCase Go
// identifier, e.g. "my_corpus" to "MyCorpus". Separators are '_', '-'
// and spaces.
func ToPascalCase(s string) string {
	if s == "" {
		return s
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var b strings.Builder
	for _, p := range parts {
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	return b.String()
}
