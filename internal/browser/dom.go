//go:build js && wasm

package browser

import (
	"syscall/js"
)

// Element ids the search page is built from.
const (
	QueryInputID     = "search-query"
	ResultsID        = "search-results"
	ResultTemplateID = "search-result-template"
)

// CacheVersionAttr carries the expected search index stamp on <html>.
const CacheVersionAttr = "data-search-cache-version"

func document() js.Value { return js.Global().Get("document") }

func byID(id string) js.Value {
	return document().Call("getElementById", id)
}

func present(v js.Value) bool { return !v.IsNull() && !v.IsUndefined() }

// Root is document.documentElement.
type Root struct{}

func (Root) SetRootClass(class string) {
	document().Get("documentElement").Set("className", class)
}

// CacheVersion returns the stamp on <html>, or "" when the page has none.
func (Root) CacheVersion() string {
	v := document().Get("documentElement").Call("getAttribute", CacheVersionAttr)
	if !present(v) {
		return ""
	}
	return v.String()
}

// DarkScheme is the (prefers-color-scheme: dark) media query.
type DarkScheme struct {
	mql js.Value
}

// NewDarkScheme returns nil when matchMedia is not supported.
func NewDarkScheme() *DarkScheme {
	mm := js.Global().Get("matchMedia")
	if mm.Type() != js.TypeFunction {
		return nil
	}
	return &DarkScheme{mql: js.Global().Call("matchMedia", "(prefers-color-scheme: dark)")}
}

func (d *DarkScheme) Matches() bool { return d.mql.Get("matches").Bool() }

func (d *DarkScheme) OnChange(fn func(matches bool)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn(args[0].Get("matches").Bool())
		return nil
	})
	if d.mql.Get("addEventListener").Type() == js.TypeFunction {
		d.mql.Call("addEventListener", "change", cb)
		return
	}
	// Safari < 14
	d.mql.Call("addListener", cb)
}

// SearchPage binds the widget to the search page's elements. Missing
// elements make the corresponding calls no-ops.
type SearchPage struct{}

func (SearchPage) SetQuery(q string) {
	if el := byID(QueryInputID); present(el) {
		el.Set("value", q)
	}
}

func (SearchPage) ResultTemplate() string {
	el := byID(ResultTemplateID)
	if !present(el) {
		return ""
	}
	return el.Get("innerHTML").String()
}

func (SearchPage) SetResults(html string) {
	if el := byID(ResultsID); present(el) {
		el.Set("innerHTML", html)
	}
}

func (SearchPage) AppendResult(html string) {
	if el := byID(ResultsID); present(el) {
		el.Call("insertAdjacentHTML", "beforeend", html)
	}
}

// Details is a <details> element.
type Details struct {
	el js.Value
}

// FindAccordion returns the page's accordion, or nil.
func FindAccordion(selector string) *Details {
	el := document().Call("querySelector", selector)
	if !present(el) {
		return nil
	}
	return &Details{el: el}
}

func (d *Details) Open() bool        { return d.el.Get("open").Bool() }
func (d *Details) SetOpen(open bool) { d.el.Set("open", open) }

// OnToggle calls fn after every open/close.
func (d *Details) OnToggle(fn func()) {
	d.el.Call("addEventListener", "toggle", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}))
}

// OnLinkClick calls fn for each in-accordion link click; fn reports whether
// the default navigation must be prevented.
func (d *Details) OnLinkClick(fn func(href string) bool) {
	links := d.el.Call("querySelectorAll", "a")
	for i := 0; i < links.Length(); i++ {
		link := links.Index(i)
		link.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			href := link.Call("getAttribute", "href")
			if !present(href) {
				return nil
			}
			if fn(href.String()) {
				args[0].Call("preventDefault")
			}
			return nil
		}))
	}
}

// Window scrolls and updates history.
type Window struct{}

func (Window) ScrollTo(id string) bool {
	el := byID(id)
	if !present(el) {
		return false
	}
	opts := js.Global().Get("Object").New()
	opts.Set("behavior", "smooth")
	el.Call("scrollIntoView", opts)
	return true
}

func (Window) PushState(href string) {
	js.Global().Get("history").Call("pushState", js.Null(), "", href)
}

// OnReady runs fn once the DOM is parsed.
func OnReady(fn func()) {
	if document().Get("readyState").String() != "loading" {
		fn()
		return
	}
	document().Call("addEventListener", "DOMContentLoaded", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}))
}

// LocationSearch is window.location.search.
func LocationSearch() string {
	return js.Global().Get("location").Get("search").String()
}
