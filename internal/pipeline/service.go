// Package pipeline composes title parsing, metadata resolution, feature
// inference, and scoring into cached end-to-end match results. The pipeline
// is total: every input yields a result, with unresolved lookups degrading
// to heuristic defaults rather than errors.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ct1212/youtube-feels-meter/internal/cache"
	"github.com/ct1212/youtube-feels-meter/internal/feels"
	"github.com/ct1212/youtube-feels-meter/internal/metadata"
	"github.com/ct1212/youtube-feels-meter/internal/strmatch"
	"github.com/ct1212/youtube-feels-meter/internal/titleparse"
)

// Cache key namespaces. Composed here, opaque to the cache.
const (
	matchKeyPrefix = "match:"
	tagsKeyPrefix  = "tags:"
)

// Default TTLs. Successful matches are stable and cached long; failures are
// retried sooner because they are the outcomes most likely to change.
const (
	DefaultHitTTL  = 24 * time.Hour
	DefaultMissTTL = 10 * time.Minute
)

// DefaultWorkers bounds batch fan-out concurrency.
const DefaultWorkers = 4

// Item identifies a piece of music by its loosely formatted title and an
// optional uploader/channel name.
type Item struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Channel string `json:"channel,omitempty"`
}

// MatchResult is the terminal output for one item: resolved identity,
// inferred features, and the reduced score. It is the only pipeline value
// that gets persisted.
type MatchResult struct {
	ItemID     string               `json:"itemId"`
	Title      string               `json:"title"`
	Artist     string               `json:"artist,omitempty"`
	Song       string               `json:"song,omitempty"`
	Matched    bool                 `json:"matched"`
	TrackID    string               `json:"trackId,omitempty"`
	GenreTags  []string             `json:"genreTags,omitempty"`
	Features   *feels.FeatureVector `json:"features,omitempty"`
	Score      int                  `json:"score"`
	Mood       string               `json:"mood"`
	Color      string               `json:"color"`
	Confidence float64              `json:"confidence"`
}

// FeelsScore implements feels.Scored.
func (r *MatchResult) FeelsScore() (int, bool) {
	if r == nil {
		return 0, false
	}
	return r.Score, true
}

// FeelsVector implements feels.Vectored.
func (r *MatchResult) FeelsVector() (feels.FeatureVector, bool) {
	if r == nil || r.Features == nil {
		return feels.FeatureVector{}, false
	}
	return *r.Features, true
}

// Service is the match orchestrator.
type Service struct {
	cache    *cache.Cache
	resolver metadata.Resolver
	tags     metadata.TagFetcher
	adjust   feels.Adjustments
	hitTTL   time.Duration
	missTTL  time.Duration
	workers  int
	log      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithResolver sets the metadata resolution collaborator.
func WithResolver(r metadata.Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithTagFetcher sets the fallback genre tag source.
func WithTagFetcher(t metadata.TagFetcher) Option {
	return func(s *Service) {
		s.tags = t
	}
}

// WithTTLs overrides the asymmetric result TTLs.
func WithTTLs(hit, miss time.Duration) Option {
	return func(s *Service) {
		if hit > 0 {
			s.hitTTL = hit
		}
		if miss > 0 {
			s.missTTL = miss
		}
	}
}

// WithWorkers bounds batch concurrency.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithAdjustments overrides the keyword adjustment deltas.
func WithAdjustments(a feels.Adjustments) Option {
	return func(s *Service) {
		s.adjust = a
	}
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a match orchestrator. The cache is required; resolver and tag
// fetcher are optional collaborators, and without them results come purely
// from title heuristics.
func New(c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		cache:   c,
		adjust:  feels.DefaultAdjustments(),
		hitTTL:  DefaultHitTTL,
		missTTL: DefaultMissTTL,
		workers: DefaultWorkers,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Match runs the full pipeline for one item. A cache hit short-circuits
// everything downstream. Match never fails: resolver errors degrade to an
// unresolved, heuristically scored result.
func (s *Service) Match(ctx context.Context, item Item) *MatchResult {
	itemID := item.ID
	if itemID == "" {
		itemID = uuid.NewString()
	}

	key := matchKeyPrefix + itemID
	var cached MatchResult
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached
	}

	parsed := titleparse.Parse(item.Title, item.Channel)
	record := s.resolve(ctx, parsed)

	artist, song := parsed.Artist, parsed.Song
	var tags []string
	var trackID string
	matched := record != nil

	if matched {
		trackID = record.ID
		tags = record.GenreTags
		if record.Artist != "" {
			artist = strmatch.Normalize(record.Artist)
		}
		if record.Title != "" {
			song = strmatch.Normalize(record.Title)
		}
		if len(tags) == 0 {
			tags = s.fetchTags(ctx, artist, song)
		}
	}

	inference := feels.InferFeaturesWith(feels.TrackInfo{
		Artist:    artist,
		Song:      song,
		GenreTags: tags,
	}, s.adjust)

	vector := inference.Vector
	score := feels.Score(&vector)
	mood := feels.MoodFor(score)

	result := &MatchResult{
		ItemID:     itemID,
		Title:      item.Title,
		Artist:     artist,
		Song:       song,
		Matched:    matched,
		TrackID:    trackID,
		GenreTags:  tags,
		Features:   &vector,
		Score:      score,
		Mood:       mood.String(),
		Color:      mood.Color(),
		Confidence: overallConfidence(parsed.Confidence, inference.Confidence),
	}

	ttl := s.missTTL
	if matched {
		ttl = s.hitTTL
	}
	if err := s.cache.SetJSON(ctx, key, result, ttl); err != nil {
		s.log.Warn("pipeline: caching result failed", zap.String("key", key), zap.Error(err))
	}

	return result
}

// MatchAll fans a batch out over a bounded worker pool and returns results
// in input order.
func (s *Service) MatchAll(ctx context.Context, items []Item) []*MatchResult {
	results := make([]*MatchResult, len(items))
	if len(items) == 0 {
		return results
	}

	workers := s.workers
	if workers > len(items) {
		workers = len(items)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = s.Match(ctx, items[i])
			}
		}()
	}

	for i := range items {
		select {
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			// Fill whatever the cancellation cut off with neutral results.
			for j := range results {
				if results[j] == nil {
					results[j] = neutralResult(items[j])
				}
			}
			return results
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return results
}

// Rank returns the batch sorted by score, most intense first.
func Rank(results []*MatchResult) []*MatchResult {
	return feels.SortByScore(results, true)
}

// Summarize computes the score distribution of a batch.
func Summarize(results []*MatchResult) feels.Stats {
	return feels.Distribution(results)
}

// Groups clusters a batch into named mood groups.
func Groups(results []*MatchResult, cfg feels.GroupConfig) ([]feels.MoodGroup[*MatchResult], []*MatchResult) {
	return feels.GroupByMood(results, cfg)
}

// resolve looks the parsed identity up through the metadata collaborator.
// Failure and no-match both yield nil.
func (s *Service) resolve(ctx context.Context, parsed titleparse.Identity) *metadata.Record {
	if s.resolver == nil {
		return nil
	}
	if parsed.Artist == "" && parsed.Song == "" {
		return nil
	}

	record, err := s.resolver.Resolve(ctx, parsed.Artist, parsed.Song)
	if err != nil {
		s.log.Warn("pipeline: metadata resolution failed",
			zap.String("artist", parsed.Artist),
			zap.String("song", parsed.Song),
			zap.Error(err))
		return nil
	}
	return record
}

// fetchTags backfills genre tags through the tag fetcher, memoized in the
// cache under the tags namespace.
func (s *Service) fetchTags(ctx context.Context, artist, song string) []string {
	if s.tags == nil || artist == "" {
		return nil
	}

	key := fmt.Sprintf("%s%s:%s", tagsKeyPrefix, artist, song)
	var tags []string
	if s.cache.GetJSON(ctx, key, &tags) {
		return tags
	}

	tags, err := s.tags.GetTags(ctx, artist, song)
	if err != nil {
		s.log.Warn("pipeline: tag lookup failed",
			zap.String("artist", artist), zap.Error(err))
		return nil
	}

	if err := s.cache.SetJSON(ctx, key, tags, s.hitTTL); err != nil {
		s.log.Warn("pipeline: caching tags failed", zap.String("key", key), zap.Error(err))
	}
	return tags
}

// neutralResult is used when cancellation preempts a batch member.
func neutralResult(item Item) *MatchResult {
	mood := feels.MoodFor(feels.NeutralScore)
	return &MatchResult{
		ItemID: item.ID,
		Title:  item.Title,
		Score:  feels.NeutralScore,
		Mood:   mood.String(),
		Color:  mood.Color(),
	}
}

// overallConfidence blends parse and inference confidence. Inference weighs
// heavier because genre evidence matters more than title structure.
func overallConfidence(parse, infer float64) float64 {
	conf := 0.4*parse + 0.6*infer
	if conf > 1 {
		return 1
	}
	return conf
}
