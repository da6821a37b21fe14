// Package metrics tracks index acquisition and query counters.
package metrics

import (
	"fmt"
	"sync"
	"time"
)

// SearchMetrics counts where the index came from and how queries went.
type SearchMetrics struct {
	mu sync.Mutex

	StartTime time.Time

	// Index acquisition
	MemoryHits     int
	SessionHits    int
	Fetches        int
	FetchFailures  int
	StaleEvictions int
	LastFetchTime  time.Duration

	// Queries
	Searches    int
	ZeroResults int
	Superseded  int
}

// NewSearchMetrics creates a new metrics instance.
func NewSearchMetrics() *SearchMetrics {
	return &SearchMetrics{StartTime: time.Now()}
}

func (m *SearchMetrics) IncrementMemoryHit() {
	m.mu.Lock()
	m.MemoryHits++
	m.mu.Unlock()
}

func (m *SearchMetrics) IncrementSessionHit() {
	m.mu.Lock()
	m.SessionHits++
	m.mu.Unlock()
}

func (m *SearchMetrics) IncrementStaleEviction() {
	m.mu.Lock()
	m.StaleEvictions++
	m.mu.Unlock()
}

// RecordFetch records one network/file retrieval of the index.
func (m *SearchMetrics) RecordFetch(d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
	m.LastFetchTime = d
	if err != nil {
		m.FetchFailures++
	}
}

// RecordSearch records one executed query and its result count.
func (m *SearchMetrics) RecordSearch(results int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches++
	if results == 0 {
		m.ZeroResults++
	}
}

func (m *SearchMetrics) IncrementSuperseded() {
	m.mu.Lock()
	m.Superseded++
	m.mu.Unlock()
}

// CacheHitRate returns the share of acquisitions served without a fetch, in
// percent.
func (m *SearchMetrics) CacheHitRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	hits := m.MemoryHits + m.SessionHits
	total := hits + m.Fetches
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// String returns a single-line summary.
func (m *SearchMetrics) String() string {
	rate := m.CacheHitRate()

	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("📊 %d searches (%d empty) | index: %d memory, %d session, %d fetched (%d failed, last %v) | %.0f%% cached",
		m.Searches,
		m.ZeroResults,
		m.MemoryHits,
		m.SessionHits,
		m.Fetches,
		m.FetchFailures,
		m.LastFetchTime.Round(time.Millisecond),
		rate,
	)
}

// Print outputs the metrics to stdout.
func (m *SearchMetrics) Print() {
	fmt.Println(m.String())
}
