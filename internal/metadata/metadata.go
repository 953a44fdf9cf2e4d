// Package metadata resolves a parsed artist/song identity against external
// catalog services. The rest of the pipeline consumes only the Record fields
// returned here; no wire-format details leak past this package.
package metadata

import "context"

// Record is a resolved catalog entry for a track.
type Record struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	GenreTags []string `json:"genreTags,omitempty"`
}

// Resolver finds the best catalog match for an artist/song pair. A nil
// Record with a nil error means no confident match was found; callers fall
// back to cheaper heuristics.
type Resolver interface {
	Resolve(ctx context.Context, artist, song string) (*Record, error)
}

// TagFetcher supplies genre tags for a track when the resolver's own
// metadata carries none.
type TagFetcher interface {
	GetTags(ctx context.Context, artist, track string) ([]string, error)
}
