package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ct1212/youtube-feels-meter/internal/strmatch"
)

const (
	// maxCandidates bounds how many search results are scored per lookup.
	maxCandidates = 10

	// defaultMatchThreshold is the minimum combined artist/song similarity
	// for a candidate to count as a match.
	defaultMatchThreshold = 0.6

	// spotifyRequestsPerSecond keeps the client well under the API's
	// documented rate limits.
	spotifyRequestsPerSecond = 5
)

// SpotifyResolver resolves identities through the Spotify search API and
// uses the primary artist's genres as the track's genre tags.
type SpotifyResolver struct {
	api       *spotify.Client
	limiter   *rate.Limiter
	threshold float64
	log       *zap.Logger
}

// SpotifyOption configures a SpotifyResolver.
type SpotifyOption func(*SpotifyResolver)

// WithMatchThreshold overrides the minimum candidate similarity.
func WithMatchThreshold(threshold float64) SpotifyOption {
	return func(r *SpotifyResolver) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// WithSpotifyLogger sets the resolver's logger.
func WithSpotifyLogger(log *zap.Logger) SpotifyOption {
	return func(r *SpotifyResolver) {
		r.log = log
	}
}

// NewSpotifyAPI builds an app-authorized Spotify client using the
// client-credentials flow. No user session is involved.
func NewSpotifyAPI(ctx context.Context, clientID, clientSecret string) (*spotify.Client, error) {
	creds := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return spotify.New(httpClient), nil
}

// NewSpotifyResolver wraps an authenticated Spotify client. Lookups are rate
// limited so batch fan-out cannot exceed the upstream quota.
func NewSpotifyResolver(api *spotify.Client, opts ...SpotifyOption) *SpotifyResolver {
	r := &SpotifyResolver{
		api:       api,
		limiter:   rate.NewLimiter(rate.Limit(spotifyRequestsPerSecond), 1),
		threshold: defaultMatchThreshold,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve searches Spotify for the identity and returns the best-matching
// track, or nil when nothing scores above the threshold. Genre tags come
// from the matched track's primary artist and may be empty.
func (r *SpotifyResolver) Resolve(ctx context.Context, artist, song string) (*Record, error) {
	query := strings.TrimSpace(strings.TrimSpace(artist) + " " + strings.TrimSpace(song))
	if query == "" {
		return nil, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := r.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(maxCandidates))
	if err != nil {
		return nil, fmt.Errorf("searching spotify: %w", err)
	}
	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil, nil
	}

	want := strmatch.Identity{Artist: artist, Song: song}
	candidates := make([]strmatch.Identity, len(result.Tracks.Tracks))
	for i, track := range result.Tracks.Tracks {
		candidates[i] = strmatch.Identity{
			Artist: joinArtistNames(track),
			Song:   track.Name,
		}
	}

	index, score := pickCandidate(want, candidates, r.threshold)
	if index < 0 {
		r.log.Debug("spotify: no candidate above threshold",
			zap.String("query", query), zap.Float64("best", score))
		return nil, nil
	}

	track := result.Tracks.Tracks[index]
	record := &Record{
		ID:     string(track.ID),
		Title:  track.Name,
		Artist: joinArtistNames(track),
	}

	if len(track.Artists) > 0 {
		tags, err := r.artistGenres(ctx, track.Artists[0].ID)
		if err != nil {
			// Genre enrichment is best-effort; the match still stands.
			r.log.Debug("spotify: artist genre lookup failed",
				zap.String("artist", track.Artists[0].Name), zap.Error(err))
		}
		record.GenreTags = tags
	}

	return record, nil
}

// pickCandidate scores candidates against the wanted identity and returns
// the index of the best one at or above threshold, or -1. Strict comparison
// keeps the first of equally scored candidates.
func pickCandidate(want strmatch.Identity, candidates []strmatch.Identity, threshold float64) (int, float64) {
	best := -1
	bestScore := 0.0
	for i, cand := range candidates {
		score := strmatch.CombinedScore(want, cand)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 || bestScore < threshold {
		return -1, bestScore
	}
	return best, bestScore
}

// artistGenres fetches the lowercased genre list for an artist.
func (r *SpotifyResolver) artistGenres(ctx context.Context, id spotify.ID) ([]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	artist, err := r.api.GetArtist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting artist: %w", err)
	}

	tags := make([]string, 0, len(artist.Genres))
	for _, genre := range artist.Genres {
		tags = append(tags, strings.ToLower(genre))
	}
	return tags, nil
}

func joinArtistNames(track spotify.FullTrack) string {
	if len(track.Artists) == 0 {
		return ""
	}
	names := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
