// Package index acquires the search index through a memory tier, a
// session-scoped storage tier and finally the network.
package index

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Kush-Singh-26/kosh-client/client/metrics"
	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/storage"
)

// Session storage keys.
const (
	KeyIndex   = "searchIndex"
	KeyVersion = "searchIndexVersion"
)

// DefaultVersion is the stamp assumed when the page does not carry one.
const DefaultVersion = "1.0"

// Cache owns the process-wide copy of the index. The memory tier lives as
// long as the Cache; the session copy is trusted only while its stamp equals
// the Cache's version.
type Cache struct {
	mu     sync.RWMutex
	mem    []models.Entry
	loaded bool

	session storage.Store
	fetcher Fetcher
	codec   Codec
	version string
	logger  *slog.Logger
	metrics *metrics.SearchMetrics
	group   singleflight.Group
}

type Option func(*Cache)

// WithVersion sets the expected version stamp. Empty means DefaultVersion.
func WithVersion(v string) Option {
	return func(c *Cache) {
		if v != "" {
			c.version = v
		}
	}
}

func WithCodec(codec Codec) Option {
	return func(c *Cache) { c.codec = codec }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithMetrics(m *metrics.SearchMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func NewCache(session storage.Store, fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		session: session,
		fetcher: fetcher,
		codec:   JSONCodec{},
		version: DefaultVersion,
		logger:  slog.Default(),
		metrics: metrics.NewSearchMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the expected version stamp.
func (c *Cache) Version() string { return c.version }

// Acquire returns the index from the fastest tier that has a valid copy,
// fetching it when neither does. Concurrent callers share one fetch; a
// caller whose ctx ends stops waiting, but the fetch still completes and
// fills both tiers.
func (c *Cache) Acquire(ctx context.Context) ([]models.Entry, error) {
	if entries, ok := c.Lookup(); ok {
		return entries, nil
	}

	ch := c.group.DoChan(KeyIndex, func() (interface{}, error) {
		if entries, ok := c.Lookup(); ok {
			return entries, nil
		}
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Entry), nil
	}
}

func (c *Cache) fetch(ctx context.Context) ([]models.Entry, error) {
	start := time.Now()
	entries, err := c.fetcher.Fetch(ctx)
	c.metrics.RecordFetch(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search index fetched", "entries", len(entries), "duration", time.Since(start))
	c.Store(entries)
	return entries, nil
}

// Lookup checks the memory tier, then the session tier, without fetching.
func (c *Cache) Lookup() ([]models.Entry, bool) {
	c.mu.RLock()
	if c.loaded {
		entries := c.mem
		c.mu.RUnlock()
		c.metrics.IncrementMemoryHit()
		return entries, true
	}
	c.mu.RUnlock()

	entries, ok := c.loadSession()
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	c.mem = entries
	c.loaded = true
	c.mu.Unlock()

	c.metrics.IncrementSessionHit()
	return entries, true
}

// loadSession treats every storage or decode failure as a miss. A stamp that
// does not match evicts the stored copy.
func (c *Cache) loadSession() ([]models.Entry, bool) {
	stamp, ok, err := c.session.Get(KeyVersion)
	if err != nil {
		c.logger.Debug("session index unreadable", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if stamp != c.version {
		c.logger.Debug("session index stale", "stored", stamp, "expected", c.version)
		c.evict()
		return nil, false
	}

	raw, ok, err := c.session.Get(KeyIndex)
	if err != nil || !ok || raw == "" {
		return nil, false
	}

	entries, err := c.codec.Decode(raw)
	if err != nil {
		c.logger.Debug("session index undecodable", "error", err)
		return nil, false
	}
	return entries, true
}

func (c *Cache) evict() {
	c.metrics.IncrementStaleEviction()
	if err := c.session.Remove(KeyIndex); err != nil {
		c.logger.Debug("session index not removed", "error", err)
	}
	if err := c.session.Remove(KeyVersion); err != nil {
		c.logger.Debug("session index version not removed", "error", err)
	}
}

// Store fills both tiers. Session write failures are swallowed.
func (c *Cache) Store(entries []models.Entry) {
	c.mu.Lock()
	c.mem = entries
	c.loaded = true
	c.mu.Unlock()

	raw, err := c.codec.Encode(entries)
	if err != nil {
		c.logger.Debug("session index not encoded", "error", err)
		return
	}
	if err := c.session.Set(KeyIndex, raw); err != nil {
		c.logger.Debug("session index not stored", "error", err)
		return
	}
	if err := c.session.Set(KeyVersion, c.version); err != nil {
		c.logger.Debug("session index version not stored", "error", err)
	}
}

// Reset drops the memory tier, as a page unload would.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.mem = nil
	c.loaded = false
	c.mu.Unlock()
}

// Metrics returns the counters this cache records into.
func (c *Cache) Metrics() *metrics.SearchMetrics { return c.metrics }
