package theme

import (
	"testing"

	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/storage"
)

type fakeDocument struct {
	class string
	sets  int
}

func (d *fakeDocument) SetRootClass(class string) {
	d.class = class
	d.sets++
}

type fakeMedia struct {
	matches   bool
	listeners []func(bool)
}

func (m *fakeMedia) Matches() bool { return m.matches }

func (m *fakeMedia) OnChange(fn func(bool)) {
	m.listeners = append(m.listeners, fn)
}

func (m *fakeMedia) flip(matches bool) {
	m.matches = matches
	for _, fn := range m.listeners {
		fn(matches)
	}
}

func TestStoredPreferenceWinsOverSystemChanges(t *testing.T) {
	for _, pref := range []models.Theme{models.ThemeLight, models.ThemeDark} {
		t.Run(string(pref), func(t *testing.T) {
			store := storage.NewMemory()
			doc := &fakeDocument{}
			media := &fakeMedia{}

			NewController(store, doc, media, nil).Set(pref)

			// Simulate a reload: fresh controller on the same storage.
			c := NewController(store, doc, media, nil)
			c.Watch()
			media.flip(true)
			media.flip(false)
			media.flip(pref == models.ThemeLight)

			if doc.class != string(pref) {
				t.Errorf("class = %q, want %q", doc.class, pref)
			}
			if got := c.Current(); got != pref {
				t.Errorf("Current() = %q, want %q", got, pref)
			}
		})
	}
}

func TestSystemChangeAppliesWhenUnset(t *testing.T) {
	doc := &fakeDocument{}
	media := &fakeMedia{}
	c := NewController(storage.NewMemory(), doc, media, nil)
	c.Watch()

	media.flip(true)
	if doc.class != "dark" {
		t.Errorf("after dark system change class = %q, want dark", doc.class)
	}
	media.flip(false)
	if doc.class != "light" {
		t.Errorf("after light system change class = %q, want light", doc.class)
	}
}

func TestStorageFailuresAreSilent(t *testing.T) {
	store := storage.NewMemory()
	store.Fail = true
	doc := &fakeDocument{}
	media := &fakeMedia{}
	c := NewController(store, doc, media, nil)
	c.Watch()

	c.Set(models.ThemeDark)
	if doc.class != "dark" {
		t.Errorf("Set must apply even when storage fails, class = %q", doc.class)
	}
	if _, ok := c.Stored(); ok {
		t.Error("Stored() should report absent when storage fails")
	}

	// With no readable preference the system scheme takes over.
	media.flip(false)
	if doc.class != "light" {
		t.Errorf("class = %q, want light", doc.class)
	}
}

func TestUnknownStoredValueReadsAsAbsent(t *testing.T) {
	store := storage.NewMemory()
	_ = store.Set(StorageKey, "sepia")
	c := NewController(store, &fakeDocument{}, &fakeMedia{matches: true}, nil)

	if _, ok := c.Stored(); ok {
		t.Error("unknown value should read as absent")
	}
	if got := c.Current(); got != models.ThemeDark {
		t.Errorf("Current() = %q, want dark from system", got)
	}
}

func TestSystemWithoutMediaSupport(t *testing.T) {
	doc := &fakeDocument{}
	c := NewController(storage.NewMemory(), doc, nil, nil)
	c.Watch()

	if got := c.System(); got != models.ThemeLight {
		t.Errorf("System() = %q, want light", got)
	}
}

func TestToggle(t *testing.T) {
	store := storage.NewMemory()
	doc := &fakeDocument{}
	c := NewController(store, doc, &fakeMedia{}, nil)

	if got := c.Toggle(); got != models.ThemeDark {
		t.Errorf("first Toggle = %q, want dark", got)
	}
	if got := c.Toggle(); got != models.ThemeLight {
		t.Errorf("second Toggle = %q, want light", got)
	}
	if v, _, _ := store.Get(StorageKey); v != "light" {
		t.Errorf("stored = %q, want light", v)
	}
}
