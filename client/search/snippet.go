package search

import (
	"strconv"

	"github.com/Kush-Singh-26/kosh-client/client/models"
)

// SummaryInclude is how many runes of context surround a contents match.
const SummaryInclude = 160

// Summary is what a result block shows: the excerpt and the substrings to
// highlight inside it.
type Summary struct {
	Snippet    string
	Highlights []string
}

// Summarize builds the excerpt for r. Every contents match contributes a
// window around its first range; windows are joined without a separator.
// Without a contents match the excerpt is the head of the contents.
func Summarize(r Result, include int) Summary {
	contents := []rune(r.Item.Contents)
	var (
		snippet    []rune
		highlights []string
	)

	for _, m := range r.Matches {
		switch m.Key {
		case models.FieldTags:
			highlights = append(highlights, m.Value)
		case models.FieldContents:
			if len(m.Indices) == 0 {
				continue
			}
			first := m.Indices[0]
			start := max(first[0]-include, 0)
			end := min(first[1]+include, len(contents))
			if start < end {
				snippet = append(snippet, contents[start:end]...)
			}

			value := []rune(m.Value)
			if first[0] >= 0 && first[1] < len(value) && first[0] <= first[1] {
				highlights = append(highlights, string(value[first[0]:first[1]+1]))
			}
		}
	}

	if len(snippet) == 0 {
		snippet = contents[:min(include*2, len(contents))]
	}

	return Summary{
		Snippet:    string(snippet),
		Highlights: highlights,
	}
}

// SummaryID is the DOM id of the snippet element for the result at position
// key.
func SummaryID(key int) string {
	return "summary-" + strconv.Itoa(key)
}
