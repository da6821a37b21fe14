// Package toc enhances the table-of-contents accordion: in-page anchor links
// scroll smoothly and the open/closed state survives page loads.
package toc

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/Kush-Singh-26/kosh-client/client/storage"
)

// StorageKey holds "true" or "false".
const StorageKey = "tocOpen"

// Selector locates the accordion element on the page.
const Selector = ".toc-accordion"

// Element is the accordion (<details>) element.
type Element interface {
	Open() bool
	SetOpen(open bool)
}

// Navigator performs the in-page scroll and history update.
type Navigator interface {
	// ScrollTo smoothly scrolls the element with id into view and reports
	// whether it exists.
	ScrollTo(id string) bool
	PushState(href string)
}

type Accordion struct {
	el     Element
	nav    Navigator
	store  storage.Store
	logger *slog.Logger
}

func NewAccordion(el Element, nav Navigator, store storage.Store, logger *slog.Logger) *Accordion {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accordion{el: el, nav: nav, store: store, logger: logger}
}

// HandleLinkClick reports whether the default navigation must be prevented.
// Every in-page href is intercepted, even when its target is missing.
func (a *Accordion) HandleLinkClick(href string) bool {
	if !strings.HasPrefix(href, "#") {
		return false
	}
	if a.nav.ScrollTo(strings.TrimPrefix(href, "#")) {
		a.nav.PushState(href)
	}
	return true
}

// HandleToggle persists the current open state.
func (a *Accordion) HandleToggle() {
	if err := a.store.Set(StorageKey, strconv.FormatBool(a.el.Open())); err != nil {
		a.logger.Debug("toc state not persisted", "error", err)
	}
}

// Restore applies the stored open state, if any.
func (a *Accordion) Restore() {
	v, ok, err := a.store.Get(StorageKey)
	if err != nil {
		a.logger.Debug("toc state unreadable", "error", err)
		return
	}
	if ok {
		a.el.SetOpen(v == "true")
	}
}
