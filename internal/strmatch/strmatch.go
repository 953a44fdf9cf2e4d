// Package strmatch provides fuzzy string similarity primitives used to pick
// among candidate track matches. All functions are pure and safe for
// concurrent use.
package strmatch

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Default thresholds for the boolean matching helpers.
const (
	DefaultFuzzyThreshold = 0.8
	DefaultBestThreshold  = 0.6
)

// levenshtein is the shared metric. Unit costs, case-insensitive, so the
// ratio is 1 - editDistance/maxLen. The metric carries no state between
// calls, so sharing one instance is safe.
var levenshtein = newLevenshtein()

func newLevenshtein() *metrics.Levenshtein {
	m := metrics.NewLevenshtein()
	m.CaseSensitive = false
	return m
}

// Normalize lowercases, trims, and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SimilarityRatio returns a similarity score in [0,1] between two strings.
// Case-insensitive and trim-insensitive: equal strings score 1.0, and an
// empty string on either side scores 0.
func SimilarityRatio(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1.0
	}
	return strutil.Similarity(a, b, levenshtein)
}

// FuzzyMatch reports whether two strings are similar at or above threshold.
// A non-positive threshold falls back to DefaultFuzzyThreshold.
func FuzzyMatch(a, b string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return SimilarityRatio(a, b) >= threshold
}

// BestMatch is the winning candidate from FindBestMatch.
type BestMatch struct {
	Match string
	Score float64
	Index int
}

// FindBestMatch scans candidates linearly and returns the one most similar
// to query, or nil when candidates is empty or the best score falls below
// threshold. Comparison is strict, so the first of equally scored candidates
// wins. Empty candidates are skipped but keep their index numbering.
func FindBestMatch(query string, candidates []string, threshold float64) *BestMatch {
	if threshold <= 0 {
		threshold = DefaultBestThreshold
	}
	if len(candidates) == 0 {
		return nil
	}

	best := BestMatch{Index: -1}
	for i, cand := range candidates {
		if strings.TrimSpace(cand) == "" {
			continue
		}
		score := SimilarityRatio(query, cand)
		if score > best.Score {
			best = BestMatch{Match: cand, Score: score, Index: i}
		}
	}

	if best.Index < 0 || best.Score < threshold {
		return nil
	}
	return &best
}

// Identity is an artist/song pair compared by CombinedScore. Empty fields
// mean the value is unknown.
type Identity struct {
	Artist string
	Song   string
}

// CombinedScore averages the field similarities of two identities. A field
// is excluded from the average only when it is absent on both sides; a field
// present on one side but missing on the other contributes a zero ratio.
// Two fully empty identities score 0.
func CombinedScore(query, candidate Identity) float64 {
	var sum float64
	var fields int

	if query.Artist != "" || candidate.Artist != "" {
		sum += SimilarityRatio(query.Artist, candidate.Artist)
		fields++
	}
	if query.Song != "" || candidate.Song != "" {
		sum += SimilarityRatio(query.Song, candidate.Song)
		fields++
	}

	if fields == 0 {
		return 0
	}
	return sum / float64(fields)
}
