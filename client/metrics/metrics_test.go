package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewSearchMetrics(t *testing.T) {
	m := NewSearchMetrics()

	if m.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
	if m.Searches != 0 || m.Fetches != 0 {
		t.Errorf("counters should start at 0, got searches=%d fetches=%d", m.Searches, m.Fetches)
	}
}

func TestCacheHitRate(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*SearchMetrics)
		expected float64
	}{
		{
			name:     "no acquisitions",
			setup:    func(m *SearchMetrics) {},
			expected: 0,
		},
		{
			name: "all fetched",
			setup: func(m *SearchMetrics) {
				m.RecordFetch(time.Millisecond, nil)
			},
			expected: 0,
		},
		{
			name: "mixed tiers",
			setup: func(m *SearchMetrics) {
				m.RecordFetch(time.Millisecond, nil)
				m.IncrementSessionHit()
				m.IncrementMemoryHit()
				m.IncrementMemoryHit()
			},
			expected: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSearchMetrics()
			tt.setup(m)
			if got := m.CacheHitRate(); got != tt.expected {
				t.Errorf("CacheHitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRecordFetchAndSearch(t *testing.T) {
	m := NewSearchMetrics()
	m.RecordFetch(20*time.Millisecond, errors.New("boom"))
	m.RecordSearch(0)
	m.RecordSearch(3)

	if m.FetchFailures != 1 || m.LastFetchTime != 20*time.Millisecond {
		t.Errorf("fetch counters = %d failures, last %v", m.FetchFailures, m.LastFetchTime)
	}
	if m.Searches != 2 || m.ZeroResults != 1 {
		t.Errorf("search counters = %d searches, %d empty", m.Searches, m.ZeroResults)
	}

	s := m.String()
	if !strings.Contains(s, "2 searches (1 empty)") {
		t.Errorf("String() = %q", s)
	}
}
