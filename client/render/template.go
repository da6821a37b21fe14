// Package render turns search results into HTML using the page's inline
// result template.
//
// Template syntax:
//
//	${key}                    replaced by the escaped value of key
//	${isset key}...${end}     body kept when key is set, dropped otherwise
//
// Conditionals are resolved before placeholders. Unknown placeholders and
// unterminated conditionals are left in the output verbatim.
package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder names a Data field can be addressed by.
const (
	FieldKey     = "key"
	FieldTitle   = "title"
	FieldLink    = "link"
	FieldTags    = "tags"
	FieldSnippet = "snippet"
)

// Fields lists every placeholder Data supports.
var Fields = []string{FieldKey, FieldTitle, FieldLink, FieldTags, FieldSnippet}

// Data is the record a result block is rendered from. Values are raw; the
// template escapes them.
type Data struct {
	Key     int
	Title   string
	Link    string
	Tags    []string
	Snippet string
}

// lookup returns the escaped value of name and whether it is set. ok is false
// for names Data does not know.
func (d Data) lookup(name string) (value string, set bool, ok bool) {
	switch name {
	case FieldKey:
		return strconv.Itoa(d.Key), true, true
	case FieldTitle:
		return EscapeHTML(d.Title), d.Title != "", true
	case FieldLink:
		return EscapeHTML(d.Link), d.Link != "", true
	case FieldTags:
		return EscapeHTML(strings.Join(d.Tags, ",")), len(d.Tags) > 0, true
	case FieldSnippet:
		return EscapeHTML(d.Snippet), d.Snippet != "", true
	}
	return "", false, false
}

type nodeKind int

const (
	textNode nodeKind = iota
	fieldNode
	condNode
)

type node struct {
	kind nodeKind
	text string // literal text, or the raw token for field/cond nodes
	name string
	body []node
}

// Template is a compiled result template.
type Template struct {
	nodes []node
	names []string
}

var tokenRe = regexp.MustCompile(`\$\{\s*(?:isset\s+([A-Za-z]*)|([A-Za-z_][A-Za-z0-9_]*))\s*\}`)

// Compile parses src. It never fails: syntax it cannot pair is kept as text.
func Compile(src string) *Template {
	type frame struct {
		open  string
		name  string
		nodes []node
	}
	stack := []frame{{}}
	top := func() *frame { return &stack[len(stack)-1] }
	seen := make(map[string]bool)
	t := &Template{}

	addText := func(s string) {
		if s == "" {
			return
		}
		f := top()
		if n := len(f.nodes); n > 0 && f.nodes[n-1].kind == textNode {
			f.nodes[n-1].text += s
			return
		}
		f.nodes = append(f.nodes, node{kind: textNode, text: s})
	}

	pos := 0
	for _, loc := range tokenRe.FindAllStringSubmatchIndex(src, -1) {
		addText(src[pos:loc[0]])
		pos = loc[1]
		raw := src[loc[0]:loc[1]]

		switch {
		case loc[2] >= 0:
			stack = append(stack, frame{open: raw, name: src[loc[2]:loc[3]]})
		case src[loc[4]:loc[5]] == "end":
			if len(stack) == 1 {
				addText(raw)
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top().nodes = append(top().nodes, node{kind: condNode, text: f.open, name: f.name, body: f.nodes})
		default:
			name := src[loc[4]:loc[5]]
			if !seen[name] {
				seen[name] = true
				t.names = append(t.names, name)
			}
			top().nodes = append(top().nodes, node{kind: fieldNode, text: raw, name: name})
		}
	}
	addText(src[pos:])

	// Unterminated conditionals fall back to literal text around their body.
	for len(stack) > 1 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		addText(f.open)
		for _, n := range f.nodes {
			if n.kind == textNode {
				addText(n.text)
				continue
			}
			top().nodes = append(top().nodes, n)
		}
	}

	t.nodes = stack[0].nodes
	return t
}

// Placeholders returns the distinct placeholder names in source order.
func (t *Template) Placeholders() []string {
	return append([]string(nil), t.names...)
}

// Unknown returns placeholders Data cannot fill.
func (t *Template) Unknown() []string {
	var out []string
	for _, name := range t.names {
		if _, _, ok := (Data{}).lookup(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

// Execute renders d.
func (t *Template) Execute(d Data) string {
	var b strings.Builder
	execute(&b, t.nodes, d)
	return b.String()
}

func execute(b *strings.Builder, nodes []node, d Data) {
	for _, n := range nodes {
		switch n.kind {
		case textNode:
			b.WriteString(n.text)
		case fieldNode:
			if v, _, ok := d.lookup(n.name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(n.text)
			}
		case condNode:
			if _, set, _ := d.lookup(n.name); set {
				execute(b, n.body, d)
			}
		}
	}
}
