package metadata

import (
	"testing"

	"github.com/ct1212/youtube-feels-meter/internal/strmatch"
)

func TestPickCandidate(t *testing.T) {
	want := strmatch.Identity{Artist: "rick astley", Song: "never gonna give you up"}

	tests := []struct {
		name       string
		candidates []strmatch.Identity
		wantIndex  int
	}{
		{
			name:       "no candidates",
			candidates: nil,
			wantIndex:  -1,
		},
		{
			name: "exact match wins",
			candidates: []strmatch.Identity{
				{Artist: "Rick Ross", Song: "Hustlin'"},
				{Artist: "Rick Astley", Song: "Never Gonna Give You Up"},
				{Artist: "Rick Astley", Song: "Together Forever"},
			},
			wantIndex: 1,
		},
		{
			name: "all below threshold",
			candidates: []strmatch.Identity{
				{Artist: "Slipknot", Song: "Duality"},
				{Artist: "Aphex Twin", Song: "Windowlicker"},
			},
			wantIndex: -1,
		},
		{
			name: "close variant still matches",
			candidates: []strmatch.Identity{
				{Artist: "Rick Astley", Song: "Never Gonna Give You Up - Remastered"},
			},
			wantIndex: 0,
		},
		{
			name: "first of tied candidates",
			candidates: []strmatch.Identity{
				{Artist: "Rick Astley", Song: "Never Gonna Give You Up"},
				{Artist: "Rick Astley", Song: "Never Gonna Give You Up"},
			},
			wantIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, score := pickCandidate(want, tt.candidates, defaultMatchThreshold)
			if index != tt.wantIndex {
				t.Errorf("pickCandidate() index = %d (score %v), want %d", index, score, tt.wantIndex)
			}
			if index >= 0 && score < defaultMatchThreshold {
				t.Errorf("accepted score %v below threshold %v", score, defaultMatchThreshold)
			}
		})
	}
}

func TestPickCandidateThresholdOverride(t *testing.T) {
	want := strmatch.Identity{Artist: "daft punk", Song: "one more time"}
	candidates := []strmatch.Identity{
		{Artist: "Daft Punk", Song: "One More Time (Live)"},
	}

	if index, _ := pickCandidate(want, candidates, 0.99); index != -1 {
		t.Errorf("index = %d with strict threshold, want -1", index)
	}
	if index, _ := pickCandidate(want, candidates, 0.5); index != 0 {
		t.Errorf("index = %d with lenient threshold, want 0", index)
	}
}
