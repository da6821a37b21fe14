package utils

import (
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Global Minifier Instance
var (
	Minifier     *minify.M
	minifierOnce sync.Once
)

func InitMinifier() {
	minifierOnce.Do(func() {
		Minifier = minify.New()
		Minifier.AddFunc("text/html", html.Minify)
	})
}

// MinifyHTML collapses whitespace and drops optional markup in rendered
// result blocks.
func MinifyHTML(s string) (string, error) {
	InitMinifier()
	return Minifier.String("text/html", s)
}

// NormalizeCacheKey converts a file path to a normalized key
// Uses forward slashes for cross-platform compatibility
func NormalizeCacheKey(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
