package strmatch

import (
	"math"
	"testing"
)

func TestSimilarityRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "identical strings",
			a:    "never gonna give you up",
			b:    "never gonna give you up",
			want: 1.0,
		},
		{
			name: "case insensitive equality",
			a:    "Rick Astley",
			b:    "rick astley",
			want: 1.0,
		},
		{
			name: "trimmed equality",
			a:    "  daft punk  ",
			b:    "daft punk",
			want: 1.0,
		},
		{
			name: "kitten sitting is three edits over seven",
			a:    "kitten",
			b:    "sitting",
			want: 1.0 - 3.0/7.0,
		},
		{
			name: "empty left side",
			a:    "",
			b:    "something",
			want: 0,
		},
		{
			name: "empty right side",
			a:    "something",
			b:    "",
			want: 0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 0,
		},
		{
			name: "whitespace only is empty",
			a:    "   ",
			b:    "something",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimilarityRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SimilarityRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityRatioSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"metallica", "megadeth"},
		{"a", "abcdef"},
		{"daft punk", "daft punx"},
	}
	for _, p := range pairs {
		ab := SimilarityRatio(p[0], p[1])
		ba := SimilarityRatio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("SimilarityRatio not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name      string
		a         string
		b         string
		threshold float64
		want      bool
	}{
		{name: "equal above default", a: "hello", b: "hello", threshold: 0, want: true},
		{name: "close above custom threshold", a: "kitten", b: "sitting", threshold: 0.5, want: true},
		{name: "close below default threshold", a: "kitten", b: "sitting", threshold: 0, want: false},
		{name: "empty never matches", a: "", b: "", threshold: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FuzzyMatch(tt.a, tt.b, tt.threshold); got != tt.want {
				t.Errorf("FuzzyMatch(%q, %q, %v) = %v, want %v", tt.a, tt.b, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestFindBestMatch(t *testing.T) {
	t.Run("empty candidates returns nil", func(t *testing.T) {
		if got := FindBestMatch("query", []string{}, 0); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("nil candidates returns nil", func(t *testing.T) {
		if got := FindBestMatch("query", nil, 0); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("below threshold returns nil", func(t *testing.T) {
		got := FindBestMatch("aaaa", []string{"zzzz", "yyyy"}, 0.9)
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("picks best and preserves index", func(t *testing.T) {
		got := FindBestMatch("daft punk", []string{"pink floyd", "daft punx", "queen"}, 0.6)
		if got == nil {
			t.Fatal("expected a match")
		}
		if got.Index != 1 || got.Match != "daft punx" {
			t.Errorf("got index %d match %q, want 1 %q", got.Index, got.Match, "daft punx")
		}
	})

	t.Run("skipped empties keep index numbering", func(t *testing.T) {
		got := FindBestMatch("queen", []string{"", "  ", "queen"}, 0.6)
		if got == nil {
			t.Fatal("expected a match")
		}
		if got.Index != 2 {
			t.Errorf("got index %d, want 2", got.Index)
		}
	})

	t.Run("first seen wins ties", func(t *testing.T) {
		got := FindBestMatch("abba", []string{"abba", "abba"}, 0.6)
		if got == nil {
			t.Fatal("expected a match")
		}
		if got.Index != 0 {
			t.Errorf("got index %d, want 0", got.Index)
		}
	})
}

func TestCombinedScore(t *testing.T) {
	tests := []struct {
		name      string
		query     Identity
		candidate Identity
		want      float64
	}{
		{
			name:      "both fields equal",
			query:     Identity{Artist: "rick astley", Song: "never gonna give you up"},
			candidate: Identity{Artist: "Rick Astley", Song: "Never Gonna Give You Up"},
			want:      1.0,
		},
		{
			name:      "artist absent on both sides is excluded",
			query:     Identity{Song: "yesterday"},
			candidate: Identity{Song: "yesterday"},
			want:      1.0,
		},
		{
			name:      "field present on one side contributes zero",
			query:     Identity{Artist: "the beatles", Song: "yesterday"},
			candidate: Identity{Song: "yesterday"},
			want:      0.5,
		},
		{
			name:      "all fields absent",
			query:     Identity{},
			candidate: Identity{},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombinedScore(tt.query, tt.candidate)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CombinedScore(%+v, %+v) = %v, want %v", tt.query, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Rick  Astley ", "rick astley"},
		{"DAFT PUNK", "daft punk"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
