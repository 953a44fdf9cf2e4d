// Package feels infers audio feature vectors from genre metadata and reduces
// them to a single 0-100 intensity score. No audio signal is analyzed; genre
// is used as a cheap proxy for energy, tempo, and mood.
package feels

import "math"

// Feature bounds. Vectors are always fully populated within these ranges.
const (
	TempoMin    = 60.0
	TempoMax    = 200.0
	LoudnessMin = -30.0
	LoudnessMax = -5.0
)

// FeatureVector is a six-dimensional proxy for audio character.
// Energy, Danceability, Valence, and Acousticness are in [0,1]; Tempo is in
// BPM within [60,200]; Loudness is in dB within [-30,-5].
type FeatureVector struct {
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Danceability float64 `json:"danceability"`
	Loudness     float64 `json:"loudness"`
	Valence      float64 `json:"valence"`
	Acousticness float64 `json:"acousticness"`
}

// Clamped returns a copy of the vector with every dimension forced into its
// valid range.
func (v FeatureVector) Clamped() FeatureVector {
	return FeatureVector{
		Energy:       clamp01(v.Energy),
		Tempo:        clamp(v.Tempo, TempoMin, TempoMax),
		Danceability: clamp01(v.Danceability),
		Loudness:     clamp(v.Loudness, LoudnessMin, LoudnessMax),
		Valence:      clamp01(v.Valence),
		Acousticness: clamp01(v.Acousticness),
	}
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

// averageVectors returns the component-wise arithmetic mean. Empty input
// yields the zero vector.
func averageVectors(vectors []FeatureVector) FeatureVector {
	if len(vectors) == 0 {
		return FeatureVector{}
	}
	var sum FeatureVector
	for _, v := range vectors {
		sum.Energy += v.Energy
		sum.Tempo += v.Tempo
		sum.Danceability += v.Danceability
		sum.Loudness += v.Loudness
		sum.Valence += v.Valence
		sum.Acousticness += v.Acousticness
	}
	n := float64(len(vectors))
	return FeatureVector{
		Energy:       sum.Energy / n,
		Tempo:        sum.Tempo / n,
		Danceability: sum.Danceability / n,
		Loudness:     sum.Loudness / n,
		Valence:      sum.Valence / n,
		Acousticness: sum.Acousticness / n,
	}
}
