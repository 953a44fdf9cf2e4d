package feels

import (
	"regexp"
	"strings"
)

// TrackInfo is the metadata available for feature inference.
type TrackInfo struct {
	Artist    string
	Song      string
	GenreTags []string
}

// Inference is an inferred feature vector with a self-reported confidence.
// Confidence reflects how many distinct genre profiles corroborated the
// result, not a probability.
type Inference struct {
	Vector          FeatureVector
	Confidence      float64
	MatchedProfiles int
}

// Adjustments holds the additive nudges applied when title keywords fire.
// The deltas are empirical tuning values, kept configurable rather than
// baked into the inference logic.
type Adjustments struct {
	IntenseEnergy   float64
	IntenseLoudness float64
	ChillEnergy     float64
	ChillTempo      float64
	HappyValence    float64
	SadValence      float64
	SadEnergy       float64
	AcousticBoost   float64
}

// DefaultAdjustments returns the tuned default deltas.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		IntenseEnergy:   0.15,
		IntenseLoudness: 3,
		ChillEnergy:     -0.20,
		ChillTempo:      -20,
		HappyValence:    0.15,
		SadValence:      -0.20,
		SadEnergy:       -0.10,
		AcousticBoost:   0.25,
	}
}

// Confidence tiers keyed by the number of distinct matched genre profiles.
const (
	confNoProfiles    = 0.3
	confOneProfile    = 0.6
	confTwoProfiles   = 0.7
	confThreeProfiles = 0.8
)

// Title keyword classes. Independent and non-exclusive: several classes may
// fire on the same title and their nudges compose.
var (
	intenseWords  = regexp.MustCompile(`\b(hard|heavy|intense|power|rage|fury|brutal|aggressive|extreme|hardcore|scream)\b`)
	chillWords    = regexp.MustCompile(`\b(chill|relax|relaxed|relaxing|calm|sleep|slow|soft|mellow|lullaby|lofi|lo-fi|ambient)\b`)
	happyWords    = regexp.MustCompile(`\b(happy|joy|party|dance|dancing|sunshine|summer|celebrate|celebration|fun|smile)\b`)
	sadWords      = regexp.MustCompile(`\b(sad|cry|crying|tear|tears|lonely|alone|goodbye|heartbreak|sorrow|grief)\b`)
	acousticWords = regexp.MustCompile(`\b(acoustic|unplugged|stripped|piano|guitar|orchestral|instrumental)\b`)

	classicalMarkers  = regexp.MustCompile(`\b(mozart|beethoven|bach|chopin|vivaldi|tchaikovsky|brahms|debussy|symphony|concerto|sonata|orchestra|philharmonic)\b`)
	electronicMarkers = regexp.MustCompile(`\b(dj|remix|edm|electro|electronic|club mix|bootleg|mashup)\b`)
)

// InferFeatures infers a feature vector for a track using the default
// adjustment deltas.
func InferFeatures(info TrackInfo) Inference {
	return InferFeaturesWith(info, DefaultAdjustments())
}

// InferFeaturesWith infers a feature vector for a track. With genre tags the
// base vector is the component-wise mean of every profile whose key appears
// in the joined tag string; without tags a cheap text scan of artist and song
// picks a canned vector. Title keywords then nudge the base vector within
// its valid bounds.
func InferFeaturesWith(info TrackInfo, adjust Adjustments) Inference {
	base, matched := baseVector(info)

	title := strings.ToLower(info.Song)
	adjusted := applyKeywordAdjustments(base, title, adjust)

	return Inference{
		Vector:          adjusted.Clamped(),
		Confidence:      profileConfidence(matched),
		MatchedProfiles: matched,
	}
}

// baseVector picks the starting vector and reports how many distinct genre
// profiles contributed.
func baseVector(info TrackInfo) (FeatureVector, int) {
	if len(info.GenreTags) == 0 {
		return untaggedVector(info), 0
	}

	joined := strings.ToLower(strings.Join(info.GenreTags, " "))

	// Iterate sorted keys so the averaged result is bit-for-bit stable
	// across calls.
	var matched []FeatureVector
	count := 0
	for _, key := range profileKeys() {
		if strings.Contains(joined, key) {
			matched = append(matched, genreProfiles[key])
			count++
		}
	}

	if count == 0 {
		return genreProfiles[defaultProfileKey], 0
	}
	return averageVectors(matched), count
}

// untaggedVector scans artist and song text for hard-coded signal words and
// returns one of three canned vectors.
func untaggedVector(info TrackInfo) FeatureVector {
	text := strings.ToLower(info.Artist + " " + info.Song)
	switch {
	case classicalMarkers.MatchString(text):
		return classicalLikeVector
	case electronicMarkers.MatchString(text):
		return electronicLikeVector
	default:
		return neutralVector
	}
}

// applyKeywordAdjustments nudges the vector for each keyword class that
// fires on the title. Clamping happens once at the end of inference.
func applyKeywordAdjustments(v FeatureVector, title string, adjust Adjustments) FeatureVector {
	if title == "" {
		return v
	}
	if intenseWords.MatchString(title) {
		v.Energy += adjust.IntenseEnergy
		v.Loudness += adjust.IntenseLoudness
	}
	if chillWords.MatchString(title) {
		v.Energy += adjust.ChillEnergy
		v.Tempo += adjust.ChillTempo
	}
	if happyWords.MatchString(title) {
		v.Valence += adjust.HappyValence
	}
	if sadWords.MatchString(title) {
		v.Valence += adjust.SadValence
		v.Energy += adjust.SadEnergy
	}
	if acousticWords.MatchString(title) {
		v.Acousticness += adjust.AcousticBoost
	}
	return v
}

// profileConfidence is a monotonic step function of the number of distinct
// matched genre profiles.
func profileConfidence(matched int) float64 {
	switch {
	case matched >= 3:
		return confThreeProfiles
	case matched == 2:
		return confTwoProfiles
	case matched == 1:
		return confOneProfile
	default:
		return confNoProfiles
	}
}
