package search

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Kush-Singh-26/kosh-client/client/models"
)

// Key is a searchable entry field and its relative weight.
type Key struct {
	Name   string
	Weight float64
}

// Options mirrors the knobs the site's search page is configured with.
type Options struct {
	Keys               []Key
	Threshold          float64
	Location           int
	Distance           int
	MinMatchCharLength int
	IncludeMatches     bool
	ShouldSort         bool
	FindAllMatches     bool
	IgnoreLocation     bool
	IgnoreFieldNorm    bool
}

// DefaultOptions are the weights and limits the search page ships with.
func DefaultOptions() Options {
	return Options{
		Keys: []Key{
			{Name: models.FieldTitle, Weight: 0.8},
			{Name: models.FieldContents, Weight: 0.5},
			{Name: models.FieldTags, Weight: 0.3},
		},
		Threshold:          0.3,
		Location:           0,
		Distance:           100,
		MinMatchCharLength: 3,
		IncludeMatches:     true,
		ShouldSort:         true,
	}
}

// ErrInvalidKey is returned for unknown fields or non-positive weights.
var ErrInvalidKey = errors.New("invalid search key")

// Match locates the query inside one field value. RefIndex is the position
// within an array field, -1 for scalar fields.
type Match struct {
	Key      string
	Value    string
	RefIndex int
	Indices  [][2]int
}

// Result is one matching entry. Lower scores are better.
type Result struct {
	Item     models.Entry
	RefIndex int
	Score    float64
	Matches  []Match
}

// Searcher runs weighted fuzzy queries over a fixed set of entries.
type Searcher struct {
	entries []models.Entry
	opts    Options
	keys    []Key // weights normalized to sum to 1
	norms   *lru.Cache[int, float64]
}

func NewSearcher(entries []models.Entry, opts Options) (*Searcher, error) {
	var total float64
	for _, k := range opts.Keys {
		if !knownField(k.Name) {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidKey, k.Name)
		}
		if k.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight of %q must be positive", ErrInvalidKey, k.Name)
		}
		total += k.Weight
	}

	keys := make([]Key, len(opts.Keys))
	for i, k := range opts.Keys {
		keys[i] = Key{Name: k.Name, Weight: k.Weight / total}
	}

	norms, err := lru.New[int, float64](256)
	if err != nil {
		return nil, err
	}

	return &Searcher{
		entries: entries,
		opts:    opts,
		keys:    keys,
		norms:   norms,
	}, nil
}

func knownField(name string) bool {
	switch name {
	case models.FieldTitle, models.FieldContents, models.FieldTags:
		return true
	}
	return false
}

type scoredMatch struct {
	Match
	score  float64
	weight float64
	norm   float64
}

// Search returns every entry with at least one matching field, best first
// when ShouldSort is set. Equal scores keep index order.
func (s *Searcher) Search(query string) []Result {
	bitap := NewBitap(query, BitapOptions{
		Location:           s.opts.Location,
		Distance:           s.opts.Distance,
		Threshold:          s.opts.Threshold,
		MinMatchCharLength: s.opts.MinMatchCharLength,
		IncludeMatches:     s.opts.IncludeMatches,
		FindAllMatches:     s.opts.FindAllMatches,
		IgnoreLocation:     s.opts.IgnoreLocation,
	})

	var results []Result
	for idx, entry := range s.entries {
		var matches []scoredMatch
		for _, key := range s.keys {
			matches = append(matches, s.findMatches(bitap, key, entry)...)
		}
		if len(matches) == 0 {
			continue
		}

		results = append(results, Result{
			Item:     entry,
			RefIndex: idx,
			Score:    s.combine(matches),
			Matches:  s.format(matches),
		})
	}

	if s.opts.ShouldSort {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score < results[j].Score
		})
	}
	return results
}

func (s *Searcher) findMatches(bitap *Bitap, key Key, entry models.Entry) []scoredMatch {
	var out []scoredMatch

	try := func(value string, refIndex int) {
		if strings.TrimSpace(value) == "" {
			return
		}
		r := bitap.SearchIn(value)
		if !r.IsMatch {
			return
		}
		out = append(out, scoredMatch{
			Match: Match{
				Key:      key.Name,
				Value:    value,
				RefIndex: refIndex,
				Indices:  r.Indices,
			},
			score:  r.Score,
			weight: key.Weight,
			norm:   s.fieldNorm(value),
		})
	}

	switch key.Name {
	case models.FieldTitle:
		try(entry.Title, -1)
	case models.FieldContents:
		try(entry.Contents, -1)
	case models.FieldTags:
		for i, tag := range entry.Tags {
			try(tag, i)
		}
	}
	return out
}

// combine multiplies per-field scores raised to weight*norm, so strong hits
// on heavy, short fields dominate.
func (s *Searcher) combine(matches []scoredMatch) float64 {
	total := 1.0
	for _, m := range matches {
		score := m.score
		if score == 0 && m.weight > 0 {
			score = epsilon
		}
		exp := m.weight
		if !s.opts.IgnoreFieldNorm {
			exp *= m.norm
		}
		total *= math.Pow(score, exp)
	}
	return total
}

func (s *Searcher) format(matches []scoredMatch) []Match {
	if !s.opts.IncludeMatches {
		return nil
	}
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if len(m.Indices) == 0 {
			continue
		}
		out = append(out, m.Match)
	}
	return out
}

// fieldNorm is 1/sqrt(token count) rounded to three decimals, so a hit in a
// short field weighs more than the same hit in a long one.
func (s *Searcher) fieldNorm(value string) float64 {
	tokens := len(strings.FieldsFunc(value, func(r rune) bool { return r == ' ' }))
	if tokens == 0 {
		return 1
	}
	if n, ok := s.norms.Get(tokens); ok {
		return n
	}
	n := math.Round(1/math.Sqrt(float64(tokens))*1000) / 1000
	s.norms.Add(tokens, n)
	return n
}

const epsilon = 2.220446049250313e-16
