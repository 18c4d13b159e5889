package triptych

import (
	"slices"
	"testing"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float32
		want     []string
	}{
		{"fits", "short line", 140, []string{"short line"}},
		{"wraps at words", "the quick brown fox", 70, []string{"the quick", "brown fox"}},
		{"collapses space", "  one \n two\t", 140, []string{"one two"}},
		{"splits long words", "abcdefghijklmnop", 35, []string{"abcde", "fghij", "klmno", "p"}},
		{"long word mid line", "ab abcdefgh c", 35, []string{"ab", "abcde", "fgh c"}},
		{"blank", " \n ", 70, nil},
		{"narrower than a glyph", "ab", 3, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxWidth, 7)
			if !slices.Equal(got, tt.want) {
				t.Errorf("WrapText(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"  a \n\t b  ":     "a b",
		"one":              "one",
		"\u00a0x\u2009y\n": "x y",
	}
	for in, want := range tests {
		if got := NormalizeSpace(in); got != want {
			t.Errorf("NormalizeSpace(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		text     string
		maxWidth float32
		want     string
	}{
		{"hello", 49, "hello"},
		{"hello world", 49, "hello.."},
		{"hello", 14, ".."},
		{"hello", 7, "."},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateText(tt.text, tt.maxWidth, 7); got != tt.want {
			t.Errorf("TruncateText(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
		}
	}
}
