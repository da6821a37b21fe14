package search

import (
	"reflect"
	"strings"
	"testing"
)

func defaultBitapOptions() BitapOptions {
	return BitapOptions{
		Threshold:          0.3,
		Distance:           100,
		MinMatchCharLength: 3,
		IncludeMatches:     true,
	}
}

func TestBitapExactPrefix(t *testing.T) {
	r := NewBitap("install", defaultBitapOptions()).SearchIn("Install Guide")

	if !r.IsMatch {
		t.Fatal("expected a match")
	}
	if r.Score != 0.001 {
		t.Errorf("Score = %v, want 0.001", r.Score)
	}
	if want := [][2]int{{0, 6}}; !reflect.DeepEqual(r.Indices, want) {
		t.Errorf("Indices = %v, want %v", r.Indices, want)
	}
}

func TestBitapWholeTextEquality(t *testing.T) {
	r := NewBitap("SETUP", defaultBitapOptions()).SearchIn("setup")

	if !r.IsMatch || r.Score != 0 {
		t.Fatalf("got (%v, %v), want perfect match", r.IsMatch, r.Score)
	}
	if want := [][2]int{{0, 4}}; !reflect.DeepEqual(r.Indices, want) {
		t.Errorf("Indices = %v, want %v", r.Indices, want)
	}
}

func TestBitapLocationPenalty(t *testing.T) {
	opts := defaultBitapOptions()

	near := NewBitap("install", opts).SearchIn("lorem ipsum install steps")
	if !near.IsMatch {
		t.Fatal("match at offset 12 should be within threshold")
	}
	if want := [][2]int{{12, 18}}; !reflect.DeepEqual(near.Indices, want) {
		t.Errorf("Indices = %v, want %v", near.Indices, want)
	}
	if near.Score < 0.11 || near.Score > 0.13 {
		t.Errorf("Score = %v, want about 0.12", near.Score)
	}

	far := NewBitap("install", opts).SearchIn(strings.Repeat("x", 60) + " install")
	if far.IsMatch {
		t.Error("match at offset 61 should exceed the threshold")
	}

	opts.IgnoreLocation = true
	anywhere := NewBitap("install", opts).SearchIn(strings.Repeat("x", 60) + " install")
	if !anywhere.IsMatch {
		t.Error("IgnoreLocation should accept a distant exact match")
	}
}

func TestBitapTypo(t *testing.T) {
	r := NewBitap("instalk", defaultBitapOptions()).SearchIn("install guide")

	if !r.IsMatch {
		t.Fatal("one substitution should match")
	}
	if r.Score < 0.1 || r.Score > 0.2 {
		t.Errorf("Score = %v, want about 1/7", r.Score)
	}
	if want := [][2]int{{0, 6}}; !reflect.DeepEqual(r.Indices, want) {
		t.Errorf("Indices = %v, want %v", r.Indices, want)
	}
}

func TestBitapNoMatch(t *testing.T) {
	tests := []struct {
		pattern, text string
	}{
		{"zzzzqqq", "install guide"},
		{"install", "setup"},
		{"", "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.text, func(t *testing.T) {
			if r := NewBitap(tt.pattern, defaultBitapOptions()).SearchIn(tt.text); r.IsMatch {
				t.Errorf("unexpected match %+v", r)
			}
		})
	}
}

func TestBitapLongPatternChunks(t *testing.T) {
	pattern := "the quick brown fox jumps over the lazy dog"
	b := NewBitap(pattern, defaultBitapOptions())
	if len(b.chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(b.chunks))
	}
	if b.chunks[1].start != len([]rune(pattern))-MaxBits {
		t.Errorf("second chunk starts at %d", b.chunks[1].start)
	}

	r := b.SearchIn(pattern + " again and again")
	if !r.IsMatch {
		t.Fatal("expected chunked pattern to match")
	}
	if r.Score != 0.001 {
		t.Errorf("Score = %v, want 0.001", r.Score)
	}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name                                string
		patternLen, errs, current, expected int
		distance                            int
		ignoreLocation                      bool
		want                                float64
	}{
		{"perfect", 4, 0, 0, 0, 100, false, 0},
		{"errors only", 4, 1, 0, 0, 100, false, 0.25},
		{"proximity", 4, 0, 10, 0, 100, false, 0.1},
		{"zero distance off location", 4, 0, 1, 0, 0, false, 1},
		{"zero distance on location", 4, 2, 0, 0, 0, false, 0.5},
		{"ignore location", 4, 2, 50, 0, 100, true, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeScore(tt.patternLen, tt.errs, tt.current, tt.expected, tt.distance, tt.ignoreLocation)
			if got != tt.want {
				t.Errorf("computeScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaskToIndices(t *testing.T) {
	mask := []bool{true, false, true, true, true, false, true, true}

	if got, want := maskToIndices(mask, 1), [][2]int{{0, 0}, {2, 4}, {6, 7}}; !reflect.DeepEqual(got, want) {
		t.Errorf("minLen 1: got %v, want %v", got, want)
	}
	if got, want := maskToIndices(mask, 3), [][2]int{{2, 4}}; !reflect.DeepEqual(got, want) {
		t.Errorf("minLen 3: got %v, want %v", got, want)
	}
	if got := maskToIndices(nil, 1); got != nil {
		t.Errorf("empty mask: got %v", got)
	}
}
