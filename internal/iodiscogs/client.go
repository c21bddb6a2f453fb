// Package iodiscogs implements the secondary enrichment tier (release-
// level genre/style fields and release country) against a Discogs-style
// release database. The source requires a personal token; without one
// the enrichers never construct this client. Rate limiting follows the
// source's published ceiling of roughly 0.9 requests per second for
// token-authenticated clients.
package iodiscogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/albummap/amdb/pkg/source"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.discogs.com"

// Client talks to the release database. Create it with New.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
}

var _ source.ReleaseSource = (*Client)(nil)

// New creates a rate-limited client with the given personal token.
func New(token string, rps float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:    DefaultBaseURL,
		token:      token,
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(token string, rps float64, baseURL string) *Client {
	c := New(token, rps)
	c.baseURL = baseURL
	return c
}

// ReleaseGenres returns genre and style fields for the best search match
// of artist+title, genres first, or source.ErrNotFound.
func (c *Client) ReleaseGenres(
	ctx context.Context,
	artist, title string,
) ([]string, error) {
	hit, err := c.search(ctx, artist, title)
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(hit.Genres)+len(hit.Styles))
	fields = append(fields, hit.Genres...)
	fields = append(fields, hit.Styles...)
	if len(fields) == 0 {
		return nil, source.ErrNotFound
	}
	return fields, nil
}

// ReleaseCountry returns the country of issue for the best search match
// of artist+title, or source.ErrNotFound.
func (c *Client) ReleaseCountry(
	ctx context.Context,
	artist, title string,
) (string, error) {
	hit, err := c.search(ctx, artist, title)
	if err != nil {
		return "", err
	}
	if hit.Country == "" {
		return "", source.ErrNotFound
	}
	return hit.Country, nil
}

type searchHit struct {
	Title   string   `json:"title"`
	Country string   `json:"country"`
	Genres  []string `json:"genre"`
	Styles  []string `json:"style"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
}

// search performs one release search and returns the first hit. The
// source orders results by its own relevance score; the first hit is
// what its website shows first.
func (c *Client) search(
	ctx context.Context,
	artist, title string,
) (*searchHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("artist", artist)
	q.Set("release_title", title)
	q.Set("type", "release")
	q.Set("token", c.token)
	q.Set("per_page", "1")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		c.baseURL+"/database/search?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, source.ErrNotFound
	case http.StatusTooManyRequests:
		return nil, &source.ThrottledError{
			RetryAfter: retryAfter(resp, 10*time.Second),
		}
	default:
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, source.ErrNotFound
	}

	slog.Debug("Release search hit",
		"artist", artist, "title", title,
		"country", payload.Results[0].Country)
	return &payload.Results[0], nil
}

func retryAfter(resp *http.Response, def time.Duration) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return def
	}
	if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
