package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/kosh-client/client/index"
	"github.com/Kush-Singh-26/kosh-client/client/render"
	"github.com/Kush-Singh-26/kosh-client/client/testutil"
)

// newSite lays out a built site and a config whose state lives in the
// temp dir. It returns the site dir and the config path.
func newSite(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	site := filepath.Join(root, "public")
	if err := os.MkdirAll(site, 0755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteIndexFile(t, site, testutil.SampleEntries())

	cfgPath := filepath.Join(root, "kosh-client.yaml")
	cfg := "statePath: " + filepath.ToSlash(filepath.Join(root, "state.db")) + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return site, cfgPath
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func runSearch(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Search(context.Background(), args, &out, quietLogger())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	site, cfg := newSite(t)

	out, err := runSearch(t, "-config", cfg, "-dir", site, "install")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, want := range []string{`href="/install/"`, "<mark>install</mark>", "Tags: setup"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchCommandUsesSessionCopy(t *testing.T) {
	site, cfg := newSite(t)

	out, err := runSearch(t, "-config", cfg, "-dir", site, "-stats", "install")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(out, "1 fetched") {
		t.Errorf("first run should fetch:\n%s", out)
	}

	// The index file is gone; only the session copy can serve the query.
	if err := os.Remove(filepath.Join(site, "index.json")); err != nil {
		t.Fatal(err)
	}
	out, err = runSearch(t, "-config", cfg, "-dir", site, "-stats", "install")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(out, "1 session") || !strings.Contains(out, "0 fetched") {
		t.Errorf("second run should hit the session tier:\n%s", out)
	}

	var cleaned bytes.Buffer
	if err := Clean([]string{"-config", cfg}, &cleaned); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	out, err = runSearch(t, "-config", cfg, "-dir", site, "install")
	if !errors.Is(err, index.ErrFetch) {
		t.Fatalf("after clean err = %v, want ErrFetch", err)
	}
	if !strings.Contains(out, render.UnavailableHTML) {
		t.Errorf("output = %q, want the unavailable message", out)
	}
}

func TestSearchCommandNoMatches(t *testing.T) {
	site, cfg := newSite(t)

	out, err := runSearch(t, "-config", cfg, "-dir", site, "zzzzzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if strings.TrimSpace(out) != render.NoMatchesHTML {
		t.Errorf("output = %q, want %q", out, render.NoMatchesHTML)
	}
}

func TestSearchCommandTemplateAndMinify(t *testing.T) {
	site, cfg := newSite(t)
	tmpl := filepath.Join(t.TempDir(), "result.html")
	if err := os.WriteFile(tmpl, []byte("<li>\n  ${title}\n</li>"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runSearch(t, "-config", cfg, "-dir", site, "-template", tmpl, "-minify", "install")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(out, "<li>Install Guide") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	_, cfg := newSite(t)
	if _, err := runSearch(t, "-config", cfg); err == nil {
		t.Error("expected a usage error")
	}
}

func TestStampCommand(t *testing.T) {
	site, _ := newSite(t)
	page := filepath.Join(site, "search", "index.html")
	if err := os.MkdirAll(filepath.Dir(page), 0755); err != nil {
		t.Fatal(err)
	}
	html := `<!DOCTYPE html><html lang="en" data-search-cache-version="old"><head></head><body></body></html>`
	if err := os.WriteFile(page, []byte(html), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := Stamp([]string{"-dir", site}, &out); err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	stamp := strings.TrimSpace(out.String())
	if len(stamp) != 12 {
		t.Fatalf("stamp = %q", stamp)
	}

	out.Reset()
	if err := Stamp([]string{"-dir", site, "-write"}, &out); err != nil {
		t.Fatalf("Stamp -write: %v", err)
	}
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	want := `<html lang="en" data-search-cache-version="` + stamp + `">`
	if !strings.Contains(string(data), want) {
		t.Errorf("page = %s, want %s", data, want)
	}
	if strings.Count(string(data), "data-search-cache-version") != 1 {
		t.Errorf("stale attribute kept: %s", data)
	}

	out.Reset()
	if err := Stamp([]string{"-dir", site, "-write"}, &out); err != nil {
		t.Fatalf("Stamp -write: %v", err)
	}
	if !strings.Contains(out.String(), "0 page(s)") {
		t.Errorf("rewrite was not idempotent: %s", out.String())
	}
}

func TestThemeCommand(t *testing.T) {
	_, cfg := newSite(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{}, "light (system)"},
		{[]string{"-system-dark"}, "dark (system)"},
		{[]string{"dark"}, "dark (stored)"},
		{[]string{"toggle"}, "light (stored)"},
		{[]string{"-system-dark"}, "light (stored)"},
		{[]string{"reset"}, "light (system)"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if err := Theme(append([]string{"-config", cfg}, tt.args...), &out, quietLogger()); err != nil {
			t.Fatalf("Theme(%v): %v", tt.args, err)
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("Theme(%v) = %q, want %q", tt.args, out.String(), tt.want)
		}
	}

	if err := Theme([]string{"-config", cfg, "sepia"}, &bytes.Buffer{}, quietLogger()); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestBootstrapCommand(t *testing.T) {
	var out bytes.Buffer
	if err := Bootstrap(&out); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "<script>") || !strings.Contains(s, "localStorage") {
		t.Errorf("unexpected tag: %s", s)
	}
}

func TestCleanAll(t *testing.T) {
	site, cfg := newSite(t)
	if _, err := runSearch(t, "-config", cfg, "-dir", site, "install"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	state := filepath.Join(filepath.Dir(cfg), "state.db")
	testutil.AssertFileExists(t, afero.NewOsFs(), state)

	if err := Clean([]string{"-config", cfg, "-all"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(state); !os.IsNotExist(err) {
		t.Errorf("state file still present: %v", err)
	}
}

func TestSearchCommandColor(t *testing.T) {
	site, cfg := newSite(t)

	out, err := runSearch(t, "-config", cfg, "-dir", site, "-color", "install")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(out, "\x1b[") || !strings.Contains(out, "Install Guide") {
		t.Errorf("expected ANSI-highlighted markup, got %q", out)
	}
}
