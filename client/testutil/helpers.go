package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/storage"
)

// SampleEntries returns a small index shared by package tests.
func SampleEntries() []models.Entry {
	return []models.Entry{
		{Title: "Install Guide", Contents: "lorem ipsum install steps", Tags: []string{"setup"}, Permalink: "/install/"},
		{Title: "Configuration", Contents: "set the theme and the search index location", Tags: []string{"setup", "config"}, Permalink: "/config/"},
		{Title: "FAQ", Contents: "frequently asked questions", Permalink: "/faq/"},
	}
}

// CreateTestBolt opens a temporary bolt store for testing
// Returns the store and a cleanup function
func CreateTestBolt(t *testing.T) (*storage.Bolt, func()) {
	t.Helper()
	b, err := storage.OpenBolt(filepath.Join(t.TempDir(), "state.db"), time.Second)
	if err != nil {
		t.Fatalf("Failed to open bolt store: %v", err)
	}
	return b, func() {
		_ = b.Close()
	}
}

// CreateIndexFilesystem creates a filesystem holding entries as a JSON
// index at path.
func CreateIndexFilesystem(t *testing.T, path string, entries []models.Entry) afero.Fs {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("Failed to encode index: %v", err)
	}
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return fs
}

// AssertFileExists checks if a file exists in the filesystem
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if !exists {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// WriteIndexFile writes entries as dir/index.json on disk and returns the
// file path.
func WriteIndexFile(t *testing.T, dir string, entries []models.Entry) string {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("Failed to encode index: %v", err)
	}
	path := filepath.Join(dir, "index.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
