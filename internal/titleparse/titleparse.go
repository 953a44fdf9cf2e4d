// Package titleparse extracts artist and song names from free-text video
// titles. Parsing never fails: malformed input degrades to low-confidence or
// empty results.
package titleparse

import (
	"regexp"
	"strings"

	"github.com/ct1212/youtube-feels-meter/internal/strmatch"
)

// Identity is the parsed artist/song pair. Empty fields signal low
// information content, not an error.
type Identity struct {
	Artist     string  `json:"artist,omitempty"`
	Song       string  `json:"song,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Pattern identifies which structural rule produced an Identity. Patterns
// are tried in declaration order; the first match wins.
type Pattern int

const (
	PatternDash Pattern = iota
	PatternBy
	PatternColon
	PatternPipe
	PatternChannelFallback
	PatternLastResort
)

func (p Pattern) String() string {
	switch p {
	case PatternDash:
		return "dash"
	case PatternBy:
		return "by"
	case PatternColon:
		return "colon"
	case PatternPipe:
		return "pipe"
	case PatternChannelFallback:
		return "channel-fallback"
	default:
		return "last-resort"
	}
}

// Confidence constants for the non-structural fallback tiers and the
// additive scheme applied to structural matches.
const (
	confBase            = 0.5
	confChannelFallback = 0.4
	confLastResort      = 0.2

	boostDistinctFields = 0.2
	boostChannelOverlap = 0.2
	boostFieldLength    = 0.1

	minFieldLen = 3
)

var (
	// decorationRegex matches a single trailing decoration such as
	// "(Official Video)" or "[Lyrics]". Applied once per parse, so stacked
	// decorations keep their inner layers.
	decorationRegex = regexp.MustCompile(`(?i)\s*[(\[](official\s+music\s+video|official\s+video|official\s+audio|lyric\s+video|music\s+video|audio|video|lyrics|remix|remaster(ed)?|visuali[sz]er|live|cover|hd|hq|4k)[)\]]\s*$`)

	dashRegex  = regexp.MustCompile(`\s+[-–—]\s+`)
	byRegex    = regexp.MustCompile(`(?i)\s+by\s+`)
	colonRegex = regexp.MustCompile(`\s*:\s+`)
	pipeRegex  = regexp.MustCompile(`\s*\|\s*`)

	// Trailing tokens commonly appended to uploader channel names.
	channelSuffixes = []string{"vevo", "official", "music"}
)

// Parse extracts an Identity from a raw title and an optional channel hint.
// Output fields are lowercased and trimmed. An empty title yields the zero
// Identity.
func Parse(title, channelHint string) Identity {
	cleaned := stripDecoration(title)
	if cleaned == "" {
		return Identity{}
	}

	for _, kind := range []Pattern{PatternDash, PatternBy, PatternColon, PatternPipe} {
		artist, song, ok := splitStructural(cleaned, kind)
		if !ok {
			continue
		}
		return Identity{
			Artist:     strmatch.Normalize(artist),
			Song:       strmatch.Normalize(song),
			Confidence: structuralConfidence(artist, song, channelHint),
		}
	}

	if artist := cleanChannelName(channelHint); artist != "" {
		return Identity{
			Artist:     artist,
			Song:       strmatch.Normalize(cleaned),
			Confidence: confChannelFallback,
		}
	}

	return Identity{
		Song:       strmatch.Normalize(cleaned),
		Confidence: confLastResort,
	}
}

// stripDecoration removes at most one trailing decoration and trims the
// result.
func stripDecoration(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return ""
	}
	return strings.TrimSpace(decorationRegex.ReplaceAllString(t, ""))
}

// splitStructural applies one structural pattern to a cleaned title.
func splitStructural(title string, kind Pattern) (artist, song string, ok bool) {
	var re *regexp.Regexp
	swapped := false

	switch kind {
	case PatternDash:
		re = dashRegex
	case PatternBy:
		re = byRegex
		swapped = true // "<song> by <artist>"
	case PatternColon:
		re = colonRegex
	case PatternPipe:
		re = pipeRegex
	default:
		return "", "", false
	}

	parts := re.Split(title, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return "", "", false
	}
	if swapped {
		return right, left, true
	}
	return left, right, true
}

// structuralConfidence starts at a base value and adds independent boosts
// for corroborating signals, capped at 1.0.
func structuralConfidence(artist, song, channelHint string) float64 {
	conf := confBase

	a := strmatch.Normalize(artist)
	s := strmatch.Normalize(song)

	if a != "" && a != s {
		conf += boostDistinctFields
	}
	if hint := strmatch.Normalize(channelHint); hint != "" && a != "" {
		if strings.Contains(hint, a) || strings.Contains(a, hint) {
			conf += boostChannelOverlap
		}
	}
	if len(a) >= minFieldLen && len(s) >= minFieldLen {
		conf += boostFieldLength
	}

	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// cleanChannelName normalizes an uploader name for use as an artist,
// dropping trailing decoration tokens like "VEVO" or "Official".
func cleanChannelName(channel string) string {
	name := strmatch.Normalize(channel)
	if name == "" {
		return ""
	}

	words := strings.Fields(name)
	for len(words) > 1 {
		last := words[len(words)-1]
		trimmed := false
		for _, suffix := range channelSuffixes {
			if last == suffix {
				words = words[:len(words)-1]
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}

	// A bare "DuaLipaVEVO" style name keeps only the glued suffix case.
	joined := strings.Join(words, " ")
	for _, suffix := range channelSuffixes {
		if len(joined) > len(suffix) && strings.HasSuffix(joined, suffix) {
			joined = strings.TrimSpace(strings.TrimSuffix(joined, suffix))
		}
	}
	return joined
}
