package search

import (
	"math"
	"unicode"
)

// MaxBits is the widest pattern a single Bitap pass can track. Longer
// patterns are split into MaxBits-sized chunks.
const MaxBits = 32

// BitapOptions configures approximate matching of one pattern.
type BitapOptions struct {
	// Location is where in the text the pattern is expected to be found.
	Location int
	// Distance is how far from Location a match may be before it scores as a
	// complete mismatch. Zero requires an exact location.
	Distance int
	// Threshold is the worst acceptable score: 0 is a perfect match, 1
	// matches anything.
	Threshold          float64
	MinMatchCharLength int
	IncludeMatches     bool
	FindAllMatches     bool
	IgnoreLocation     bool
}

// MatchResult is the outcome of matching a pattern against one text. Indices
// are inclusive rune offsets.
type MatchResult struct {
	IsMatch bool
	Score   float64
	Indices [][2]int
}

type chunk struct {
	pattern  []rune
	alphabet map[rune]uint32
	start    int
}

// Bitap is a compiled, case-insensitive approximate matcher.
type Bitap struct {
	pattern []rune
	chunks  []chunk
	opts    BitapOptions
}

func NewBitap(pattern string, opts BitapOptions) *Bitap {
	b := &Bitap{
		pattern: lowerRunes(pattern),
		opts:    opts,
	}

	n := len(b.pattern)
	if n == 0 {
		return b
	}

	if n <= MaxBits {
		b.addChunk(b.pattern, 0)
		return b
	}

	remainder := n % MaxBits
	end := n - remainder
	for i := 0; i < end; i += MaxBits {
		b.addChunk(b.pattern[i:i+MaxBits], i)
	}
	if remainder > 0 {
		start := n - MaxBits
		b.addChunk(b.pattern[start:], start)
	}
	return b
}

func (b *Bitap) addChunk(p []rune, start int) {
	b.chunks = append(b.chunks, chunk{
		pattern:  p,
		alphabet: patternAlphabet(p),
		start:    start,
	})
}

// SearchIn matches the compiled pattern against text.
func (b *Bitap) SearchIn(text string) MatchResult {
	t := lowerRunes(text)

	if len(b.pattern) > 0 && runesEqual(b.pattern, t) {
		res := MatchResult{IsMatch: true, Score: 0}
		if b.opts.IncludeMatches {
			res.Indices = [][2]int{{0, len(t) - 1}}
		}
		return res
	}

	var (
		all        [][2]int
		total      float64
		hasMatches bool
	)
	for _, c := range b.chunks {
		r := bitapSearch(t, c.pattern, c.alphabet, b.opts.Location+c.start, b.opts)
		if r.IsMatch {
			hasMatches = true
			all = append(all, r.Indices...)
		}
		total += r.Score
	}

	res := MatchResult{IsMatch: hasMatches, Score: 1}
	if hasMatches {
		res.Score = total / float64(len(b.chunks))
		if b.opts.IncludeMatches {
			res.Indices = all
		}
	}
	return res
}

// bitapSearch runs the shift-and algorithm with up to len(pattern)-1 errors,
// narrowing the scanned window as better matches lower the threshold.
func bitapSearch(text, pattern []rune, alphabet map[rune]uint32, location int, o BitapOptions) MatchResult {
	patternLen := len(pattern)
	textLen := len(text)
	expected := max(0, min(location, textLen))
	threshold := o.Threshold
	best := expected

	score := func(errors, current int) float64 {
		return computeScore(patternLen, errors, current, expected, o.Distance, o.IgnoreLocation)
	}

	computeMatches := o.MinMatchCharLength > 1 || o.IncludeMatches
	var matchMask []bool
	if computeMatches {
		matchMask = make([]bool, textLen)
	}

	// Exact occurrences tighten the threshold before the fuzzy pass.
	for {
		idx := indexRunes(text, pattern, best)
		if idx < 0 {
			break
		}
		threshold = math.Min(score(0, idx), threshold)
		best = idx + patternLen
		if computeMatches {
			for i := 0; i < patternLen; i++ {
				matchMask[idx+i] = true
			}
		}
	}

	best = -1
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint32(1) << (patternLen - 1)
	var lastBitArr []uint32

	for i := 0; i < patternLen; i++ {
		// Binary search for how far from the expected location this error
		// level can still stay under the threshold.
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if score(i, expected+binMid) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expected-binMid+1)
		finish := min(expected+binMid, textLen) + patternLen
		if o.FindAllMatches {
			finish = textLen
		}

		bitArr := make([]uint32, finish+2)
		bitArr[finish+1] = (uint32(1) << i) - 1

		for j := finish; j >= start; j-- {
			current := j - 1
			var charMatch uint32
			if current < textLen {
				charMatch = alphabet[text[current]]
				if computeMatches {
					matchMask[current] = charMatch != 0
				}
			}

			bitArr[j] = ((bitArr[j+1] << 1) | 1) & charMatch
			if i > 0 {
				bitArr[j] |= ((at(lastBitArr, j+1) | at(lastBitArr, j)) << 1) | 1 | at(lastBitArr, j+1)
			}

			if bitArr[j]&mask != 0 {
				finalScore = score(i, current)
				if finalScore <= threshold {
					threshold = finalScore
					best = current
					if best <= expected {
						break
					}
					start = max(1, 2*expected-best)
				}
			}
		}

		if score(i+1, expected) > threshold {
			break
		}
		lastBitArr = bitArr
	}

	res := MatchResult{
		IsMatch: best >= 0,
		Score:   math.Max(0.001, finalScore),
	}

	if computeMatches {
		indices := maskToIndices(matchMask, o.MinMatchCharLength)
		if len(indices) == 0 {
			res.IsMatch = false
		} else if o.IncludeMatches {
			res.Indices = indices
		}
	}
	return res
}

func computeScore(patternLen, errors, current, expected, distance int, ignoreLocation bool) float64 {
	accuracy := float64(errors) / float64(patternLen)
	if ignoreLocation {
		return accuracy
	}

	proximity := expected - current
	if proximity < 0 {
		proximity = -proximity
	}

	if distance == 0 {
		if proximity != 0 {
			return 1.0
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(distance)
}

// maskToIndices turns runs of matched characters into inclusive ranges at
// least minLen long.
func maskToIndices(mask []bool, minLen int) [][2]int {
	var indices [][2]int
	start := -1
	i := 0
	for ; i < len(mask); i++ {
		if mask[i] && start == -1 {
			start = i
		} else if !mask[i] && start != -1 {
			end := i - 1
			if end-start+1 >= minLen {
				indices = append(indices, [2]int{start, end})
			}
			start = -1
		}
	}
	if i > 0 && mask[i-1] && i-start >= minLen {
		indices = append(indices, [2]int{start, i - 1})
	}
	return indices
}

func patternAlphabet(p []rune) map[rune]uint32 {
	m := make(map[rune]uint32, len(p))
	n := len(p)
	for i, r := range p {
		m[r] |= 1 << (n - i - 1)
	}
	return m
}

func lowerRunes(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexRunes(text, pattern []rune, from int) int {
	n := len(pattern)
	for i := max(from, 0); i+n <= len(text); i++ {
		if runesEqual(text[i:i+n], pattern) {
			return i
		}
	}
	return -1
}

func at(arr []uint32, i int) uint32 {
	if i < 0 || i >= len(arr) {
		return 0
	}
	return arr[i]
}
