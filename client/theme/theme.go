// Package theme keeps the document's light/dark class in sync with the stored
// preference and the system color scheme.
package theme

import (
	"log/slog"

	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/storage"
)

// StorageKey is the durable storage key holding the explicit preference.
const StorageKey = "theme"

// Document is the part of the page the controller mutates.
type Document interface {
	SetRootClass(class string)
}

// MediaQuery is a prefers-color-scheme: dark query. A nil MediaQuery means the
// environment has no media query support.
type MediaQuery interface {
	Matches() bool
	OnChange(fn func(matches bool))
}

type Controller struct {
	store  storage.Store
	doc    Document
	media  MediaQuery
	logger *slog.Logger
}

func NewController(store storage.Store, doc Document, media MediaQuery, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  store,
		doc:    doc,
		media:  media,
		logger: logger,
	}
}

// Stored returns the persisted preference. Storage failures and unknown
// values read as absent.
func (c *Controller) Stored() (models.Theme, bool) {
	v, ok, err := c.store.Get(StorageKey)
	if err != nil {
		c.logger.Debug("theme preference unreadable", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return models.ParseTheme(v)
}

// System resolves the current system color scheme.
func (c *Controller) System() models.Theme {
	if c.media == nil {
		return models.ThemeLight
	}
	return models.ThemeFor(c.media.Matches())
}

// Current is the theme a fresh page load would show.
func (c *Controller) Current() models.Theme {
	if t, ok := c.Stored(); ok {
		return t
	}
	return c.System()
}

func (c *Controller) apply(t models.Theme) {
	c.doc.SetRootClass(string(t))
}

// Set applies t and persists it. Persistence failures are swallowed: the
// theme is applied either way.
func (c *Controller) Set(t models.Theme) {
	c.apply(t)
	if err := c.store.Set(StorageKey, string(t)); err != nil {
		c.logger.Debug("theme preference not persisted", "theme", t, "error", err)
	}
}

// Toggle switches to the opposite of the current theme and persists it.
func (c *Controller) Toggle() models.Theme {
	next := models.ThemeDark
	if c.Current() == models.ThemeDark {
		next = models.ThemeLight
	}
	c.Set(next)
	return next
}

// Watch subscribes to system color scheme changes. It is a no-op without
// media query support.
func (c *Controller) Watch() {
	if c.media == nil {
		return
	}
	c.media.OnChange(c.HandleSystemChange)
}

// HandleSystemChange reapplies the system theme unless an explicit preference
// is stored. An explicit choice always wins.
func (c *Controller) HandleSystemChange(prefersDark bool) {
	if _, ok := c.Stored(); ok {
		return
	}
	c.apply(models.ThemeFor(prefersDark))
}
