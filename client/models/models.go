// defines the data structures shared by the theme, toc and search packages
package models

// Theme is the presentation mode applied to the document root.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts only the two known modes.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return "", false
}

// ThemeFor maps a prefers-color-scheme: dark match to a theme.
func ThemeFor(prefersDark bool) Theme {
	if prefersDark {
		return ThemeDark
	}
	return ThemeLight
}

// --- Search Index ---

// Entry is one page record of the generated index.json.
type Entry struct {
	Title     string   `json:"title" msgpack:"title"`
	Contents  string   `json:"contents" msgpack:"contents"`
	Tags      []string `json:"tags" msgpack:"tags"`
	Permalink string   `json:"permalink" msgpack:"permalink"`
}

// Field names used as fuzzy search keys and match keys.
const (
	FieldTitle    = "title"
	FieldContents = "contents"
	FieldTags     = "tags"
)
