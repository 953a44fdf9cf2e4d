package feels

import (
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Vectored is implemented by items carrying an inferred feature vector.
// Items without a vector are treated as outliers when grouping.
type Vectored interface {
	FeelsVector() (FeatureVector, bool)
}

// GroupConfig holds mood grouping parameters.
type GroupConfig struct {
	NumGroups    int // number of clusters to create (default: 3)
	MinGroupSize int // smaller clusters fold into the outlier bucket
}

// DefaultGroupConfig returns the recommended default configuration.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{
		NumGroups:    3,
		MinGroupSize: 2,
	}
}

// MoodGroup is a cluster of items with similar inferred feature vectors.
type MoodGroup[T Vectored] struct {
	Name     string             `json:"name"`
	Items    []T                `json:"items"`
	Centroid map[string]float64 `json:"centroid"`
}

// groupFeatureNames defines the dimensions used for grouping.
var groupFeatureNames = []string{"energy", "valence", "danceability", "acousticness"}

// itemObservation wraps an item to implement clusters.Observation.
type itemObservation[T Vectored] struct {
	item   T
	coords clusters.Coordinates
}

func (o itemObservation[T]) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o itemObservation[T]) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// GroupByMood clusters items by feature similarity using k-means and names
// each group from its centroid. Items without vectors, clusters smaller than
// MinGroupSize, and everything when there are fewer valid items than
// clusters end up in the outlier slice. Clustering failure degrades to all
// items as outliers, never an error.
func GroupByMood[T Vectored](items []T, cfg GroupConfig) ([]MoodGroup[T], []T) {
	if len(items) == 0 {
		return nil, nil
	}

	if cfg.NumGroups <= 0 {
		cfg.NumGroups = DefaultGroupConfig().NumGroups
	}
	if cfg.MinGroupSize <= 0 {
		cfg.MinGroupSize = DefaultGroupConfig().MinGroupSize
	}

	var valid []T
	var outliers []T
	for _, item := range items {
		if _, ok := item.FeelsVector(); ok {
			valid = append(valid, item)
		} else {
			outliers = append(outliers, item)
		}
	}

	if len(valid) < cfg.NumGroups {
		return nil, append(valid, outliers...)
	}

	var obs clusters.Observations
	for _, item := range valid {
		v, _ := item.FeelsVector()
		obs = append(obs, itemObservation[T]{
			item: item,
			coords: clusters.Coordinates{
				v.Energy,
				v.Valence,
				v.Danceability,
				v.Acousticness,
			},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumGroups)
	if err != nil {
		return nil, append(valid, outliers...)
	}

	var groups []MoodGroup[T]
	for _, cluster := range result {
		var members []T
		for _, o := range cluster.Observations {
			if io, ok := o.(itemObservation[T]); ok {
				members = append(members, io.item)
			}
		}

		if len(members) < cfg.MinGroupSize {
			outliers = append(outliers, members...)
			continue
		}

		centroid := make(map[string]float64, len(groupFeatureNames))
		for i, name := range groupFeatureNames {
			if i < len(cluster.Center) {
				centroid[name] = cluster.Center[i]
			}
		}

		groups = append(groups, MoodGroup[T]{
			Name:     groupName(centroid),
			Items:    members,
			Centroid: centroid,
		})
	}

	return groups, outliers
}

// groupName names a cluster from its centroid using an energy/valence
// quadrant scheme with an acoustic modifier.
//
// Quadrants:
//   - high energy + high valence = "Upbeat Party"
//   - high energy + low valence  = "Intense & Dark"
//   - low energy  + high valence = "Chill & Happy"
//   - low energy  + low valence  = "Reflective & Melancholy"
func groupName(centroid map[string]float64) string {
	energy := centroid["energy"]
	valence := centroid["valence"]
	acousticness := centroid["acousticness"]

	var base string
	highEnergy := energy > 0.6
	highValence := valence > 0.5

	switch {
	case highEnergy && highValence:
		base = "Upbeat Party"
	case highEnergy && !highValence:
		base = "Intense & Dark"
	case !highEnergy && highValence:
		base = "Chill & Happy"
	default:
		base = "Reflective & Melancholy"
	}

	if acousticness > 0.6 {
		return base + " (Acoustic)"
	}
	return base
}
