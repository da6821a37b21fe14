package utils

import (
	"strings"
	"testing"
)

func TestMinifyHTML(t *testing.T) {
	in := `<div class="search-result" id="summary-0">
  <h4><a href="/install/">Install Guide</a></h4>
  <p>lorem   ipsum <mark>install</mark> steps</p>
</div>
`
	out, err := MinifyHTML(in)
	if err != nil {
		t.Fatalf("MinifyHTML: %v", err)
	}
	if strings.Contains(out, "  ") || len(out) >= len(in) {
		t.Errorf("whitespace not collapsed: %q", out)
	}
	for _, want := range []string{"summary-0", "/install/", "<mark>install</mark>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNormalizeCacheKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`public\index.json`, "public/index.json"},
		{"public/index.json", "public/index.json"},
		{`a\b\c`, "a/b/c"},
	}
	for _, tt := range tests {
		if got := NormalizeCacheKey(tt.in); got != tt.want {
			t.Errorf("NormalizeCacheKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
