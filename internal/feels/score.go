package feels

import "math"

// NeutralScore is the score assigned when no feature vector is available.
const NeutralScore = 50

// Scoring weights. Perceived intensity is dominated by energy and tempo.
const (
	weightEnergy       = 0.40
	weightTempo        = 0.25
	weightDanceability = 0.15
	weightLoudness     = 0.10
	weightValence      = 0.05
	weightAcousticness = 0.05
)

// Score reduces a feature vector to a single integer in [0,100]. A nil
// vector maps to NeutralScore. Acousticness is inverted so electronic
// character scores higher.
func Score(v *FeatureVector) int {
	if v == nil {
		return NeutralScore
	}

	c := v.Clamped()
	weighted := c.Energy*weightEnergy +
		(c.Tempo/TempoMax)*weightTempo +
		c.Danceability*weightDanceability +
		((c.Loudness-LoudnessMin)/(LoudnessMax-LoudnessMin))*weightLoudness +
		c.Valence*weightValence +
		(1-c.Acousticness)*weightAcousticness

	score := int(math.Round(weighted * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Mood is one of five ordinal intensity bands.
type Mood int

const (
	MoodVeryChill Mood = iota
	MoodRelaxed
	MoodModerate
	MoodEnergetic
	MoodIntense
)

// moodCount is the number of bands; bands are half-open and cover [0,100]
// with no gaps.
const moodCount = 5

func (m Mood) String() string {
	switch m {
	case MoodVeryChill:
		return "very-chill"
	case MoodRelaxed:
		return "relaxed"
	case MoodModerate:
		return "moderate"
	case MoodEnergetic:
		return "energetic"
	default:
		return "intense"
	}
}

// Color returns the fixed display color token for the band.
func (m Mood) Color() string {
	switch m {
	case MoodVeryChill:
		return "teal"
	case MoodRelaxed:
		return "green"
	case MoodModerate:
		return "yellow"
	case MoodEnergetic:
		return "orange"
	default:
		return "red"
	}
}

// MoodFor maps a score to its band: [0,20) very-chill, [20,40) relaxed,
// [40,60) moderate, [60,80) energetic, [80,100] intense.
func MoodFor(score int) Mood {
	switch {
	case score < 20:
		return MoodVeryChill
	case score < 40:
		return MoodRelaxed
	case score < 60:
		return MoodModerate
	case score < 80:
		return MoodEnergetic
	default:
		return MoodIntense
	}
}
