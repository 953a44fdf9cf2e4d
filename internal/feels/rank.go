package feels

import "slices"

// Scored is implemented by anything carrying an intensity score. The second
// return value reports whether a score is present; absent scores compare as
// NeutralScore in the ranking helpers.
type Scored interface {
	FeelsScore() (int, bool)
}

// Closest returns the item whose score is nearest to target, first-seen
// winning ties. The second return value is false for empty input.
func Closest[T Scored](items []T, target int) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}

	bestDiff := -1
	for _, item := range items {
		diff := absInt(scoreOrNeutral(item) - target)
		if bestDiff < 0 || diff < bestDiff {
			best = item
			bestDiff = diff
		}
	}
	return best, true
}

// SortByScore returns a new slice sorted by score, ascending by default or
// descending when desc is set. The sort is stable and the input is never
// mutated; items without a score compare as NeutralScore but are returned
// unchanged.
func SortByScore[T Scored](items []T, desc bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		sa, sb := scoreOrNeutral(a), scoreOrNeutral(b)
		if desc {
			return sb - sa
		}
		return sa - sb
	})
	return out
}

// Stats summarizes the score distribution of a collection.
type Stats struct {
	Count   int            `json:"count"`
	Average float64        `json:"average"`
	Min     int            `json:"min"`
	Max     int            `json:"max"`
	ByMood  map[string]int `json:"byMood"`
}

// Distribution computes count, average, min, max, and per-band counts.
// Empty input returns an all-zero structure with every band present.
func Distribution[T Scored](items []T) Stats {
	stats := Stats{ByMood: make(map[string]int, moodCount)}
	for m := MoodVeryChill; m <= MoodIntense; m++ {
		stats.ByMood[m.String()] = 0
	}
	if len(items) == 0 {
		return stats
	}

	sum := 0
	stats.Min = 100
	for _, item := range items {
		score := scoreOrNeutral(item)
		sum += score
		if score < stats.Min {
			stats.Min = score
		}
		if score > stats.Max {
			stats.Max = score
		}
		stats.ByMood[MoodFor(score).String()]++
	}

	stats.Count = len(items)
	stats.Average = float64(sum) / float64(len(items))
	return stats
}

func scoreOrNeutral(item Scored) int {
	if score, ok := item.FeelsScore(); ok {
		return score
	}
	return NeutralScore
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
