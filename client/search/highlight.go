package search

import (
	"bytes"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
	xsearch "golang.org/x/text/search"
)

// Highlighter wraps occurrences of terms in <mark> elements. Matching ignores
// case and diacritics, and multi-word terms are marked word by word.
type Highlighter struct {
	mu      sync.Mutex
	matcher *xsearch.Matcher
}

func NewHighlighter() *Highlighter {
	return &Highlighter{
		matcher: xsearch.New(language.Und, xsearch.IgnoreCase, xsearch.IgnoreDiacritics),
	}
}

// Mark highlights terms inside the element with the given id in fragment.
// The fragment is returned unchanged when the element is missing.
func (h *Highlighter) Mark(fragment, id string, terms []string) (string, error) {
	words := splitWords(terms)
	if len(words) == 0 {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var target *html.Node
	for _, n := range nodes {
		if target = findByID(n, id); target != nil {
			break
		}
	}
	if target == nil {
		return fragment, nil
	}

	h.mu.Lock()
	for _, w := range words {
		h.markWord(target, h.matcher.CompileString(w))
	}
	h.mu.Unlock()

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return entityForms.Replace(buf.String()), nil
}

// entityForms restores the quote entities the result template emits, which
// html.Render writes in numeric form.
var entityForms = strings.NewReplacer("&#34;", "&quot;", "&#39;", "&#039;")

func (h *Highlighter) markWord(root *html.Node, p *xsearch.Pattern) {
	var texts []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Mark, atom.Script, atom.Style:
				return
			}
		}
		if n.Type == html.TextNode {
			texts = append(texts, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, t := range texts {
		splitText(t, p)
	}
}

// splitText replaces text node t with alternating text and <mark> nodes.
func splitText(t *html.Node, p *xsearch.Pattern) {
	rest := t.Data
	parent := t.Parent
	var replaced bool

	for rest != "" {
		start, end := p.IndexString(rest)
		if start < 0 || end <= start {
			break
		}
		replaced = true
		if start > 0 {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: rest[:start]}, t)
		}
		mark := &html.Node{Type: html.ElementNode, DataAtom: atom.Mark, Data: "mark"}
		mark.AppendChild(&html.Node{Type: html.TextNode, Data: rest[start:end]})
		parent.InsertBefore(mark, t)
		rest = rest[end:]
	}

	if !replaced {
		return
	}
	if rest != "" {
		t.Data = rest
		return
	}
	parent.RemoveChild(t)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func splitWords(terms []string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, term := range terms {
		for _, w := range strings.Fields(term) {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
	}
	return words
}
