package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	lastfmBaseURL   = "http://ws.audioscrobbler.com/2.0/"
	lastfmUserAgent = "youtube-feels-meter/1.0"
)

// Last.fm API error codes.
const (
	errCodeInvalidAPIKey = 10
	errCodeRateLimited   = 29
)

// Sentinel errors.
var (
	// ErrRateLimited is returned when the API rate limit is exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the API key is invalid.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// lastfmTag is a tag entry in a getTopTags response.
type lastfmTag struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

type lastfmTagsResponse struct {
	TopTags struct {
		Tag []lastfmTag `json:"tag"`
	} `json:"toptags"`
}

type lastfmAPIError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// LastfmClient fetches genre tags from the Last.fm API. It implements
// TagFetcher; memoization happens upstream in the result cache, so the
// client itself is stateless.
type LastfmClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewLastfmClient creates a Last.fm API client.
func NewLastfmClient(apiKey string) *LastfmClient {
	return &LastfmClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: lastfmBaseURL,
	}
}

// GetTags fetches lowercased tag names for a track, falling back to the
// artist's tags when the track has none. Returns an empty slice, not nil,
// when nothing is tagged.
func (c *LastfmClient) GetTags(ctx context.Context, artist, track string) ([]string, error) {
	tags, err := c.getTopTags(ctx, url.Values{
		"method":      {"track.getTopTags"},
		"artist":      {artist},
		"track":       {track},
		"autocorrect": {"1"},
		"format":      {"json"},
		"api_key":     {c.apiKey},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching track tags: %w", err)
	}
	if len(tags) > 0 {
		return tags, nil
	}

	tags, err = c.getTopTags(ctx, url.Values{
		"method":      {"artist.getTopTags"},
		"artist":      {artist},
		"autocorrect": {"1"},
		"format":      {"json"},
		"api_key":     {c.apiKey},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching artist tags: %w", err)
	}
	return tags, nil
}

func (c *LastfmClient) getTopTags(ctx context.Context, params url.Values) ([]string, error) {
	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp lastfmTagsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing tags response: %w", err)
	}

	tags := make([]string, 0, len(resp.TopTags.Tag))
	for _, tag := range resp.TopTags.Tag {
		if name := strings.ToLower(strings.TrimSpace(tag.Name)); name != "" {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// doRequest performs an HTTP GET request with retry on rate limit.
// Retries up to 3 times with exponential backoff (1s, 2s, 4s).
func (c *LastfmClient) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	delays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	var lastErr error

	for attempt := 0; attempt <= len(delays); attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}

		if errors.Is(err, ErrRateLimited) {
			lastErr = err
			continue
		}

		return nil, err
	}

	return nil, lastErr
}

// doSingleRequest performs a single HTTP request.
func (c *LastfmClient) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", lastfmUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// Check for API error in response
	var apiErr lastfmAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case errCodeRateLimited:
			return nil, ErrRateLimited
		case errCodeInvalidAPIKey:
			return nil, ErrInvalidAPIKey
		default:
			return nil, fmt.Errorf("API error %d: %s", apiErr.Error, apiErr.Message)
		}
	}

	return body, nil
}
