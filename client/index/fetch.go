package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"

	"github.com/Kush-Singh-26/kosh-client/client/models"
)

// DefaultPath is where the site generator writes the index.
const DefaultPath = "/index.json"

// ErrFetch wraps every failure to retrieve or parse the index.
var ErrFetch = errors.New("failed to load search index")

// Fetcher retrieves the full index from its origin.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Entry, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]models.Entry, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]models.Entry, error) { return f(ctx) }

// HTTPFetcher GETs the index document.
type HTTPFetcher struct {
	Client *http.Client
	URL    string
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]models.Entry, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: bad status: %s", ErrFetch, resp.Status)
	}
	return Parse(resp.Body)
}

// FileFetcher reads the index from a filesystem, typically a built public/
// directory.
type FileFetcher struct {
	Fs   afero.Fs
	Path string
}

func (f *FileFetcher) Fetch(ctx context.Context) ([]models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := f.Fs.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = file.Close() }()
	return Parse(file)
}

// Parse decodes an index document.
func Parse(r io.Reader) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return entries, nil
}

// Stamp derives a version stamp from index bytes: the first 12 hex digits of
// their BLAKE3 digest.
func Stamp(data []byte) string {
	sum := blake3.Sum256(data)
	return fmt.Sprintf("%x", sum[:6])
}
