// Package iolastfm implements the primary enrichment tier (artist-level
// tags and artist origin) against a Last.fm-compatible scrobbler API.
// The client owns its rate limiter, sized to the source's published
// ceiling of 1 request per second; callers see plain blocking calls.
package iolastfm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albummap/amdb/pkg/source"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// Client talks to the scrobbler API. Create it with New; the zero value
// is not usable.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
}

var _ source.TagSource = (*Client)(nil)

// New creates a rate-limited client. rps is the request-per-second
// ceiling; burst is fixed at 1 because the source counts individual
// requests, not windows.
func New(apiKey string, rps float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey string, rps float64, baseURL string) *Client {
	c := New(apiKey, rps)
	c.baseURL = baseURL
	return c
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// ArtistTags returns the artist's top tags ordered by weight, or
// source.ErrNotFound when the artist is unknown to the source.
func (c *Client) ArtistTags(
	ctx context.Context,
	artist string,
) ([]string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var payload topTagsResponse
	err := c.getJSON(ctx, map[string]string{
		"method": "artist.gettoptags",
		"artist": artist,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Error == errCodeNotFound || len(payload.TopTags.Tags) == 0 {
		return nil, source.ErrNotFound
	}

	tags := make([]string, 0, len(payload.TopTags.Tags))
	for _, t := range payload.TopTags.Tags {
		// Tags with weight 0 are user noise the source itself hides in
		// its UI; skip them.
		if t.Count == 0 {
			continue
		}
		tags = append(tags, t.Name)
	}
	if len(tags) == 0 {
		return nil, source.ErrNotFound
	}
	slog.Debug("Fetched artist tags", "artist", artist, "tags", len(tags))
	return tags, nil
}

// ArtistOrigin returns the artist's place of origin, or
// source.ErrNotFound when the source has no geography for the artist.
func (c *Client) ArtistOrigin(
	ctx context.Context,
	artist string,
) (*source.Origin, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var payload artistInfoResponse
	err := c.getJSON(ctx, map[string]string{
		"method": "artist.getinfo",
		"artist": artist,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Error == errCodeNotFound || payload.Artist.Country == "" {
		return nil, source.ErrNotFound
	}

	slog.Debug("Fetched artist origin",
		"artist", artist, "country", payload.Artist.Country)
	return &source.Origin{
		Country:    payload.Artist.Country,
		RegionHint: payload.Artist.Region,
	}, nil
}
