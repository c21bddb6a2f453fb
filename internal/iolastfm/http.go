package iolastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/albummap/amdb/pkg/source"
)

// errCodeNotFound is the source's application-level "no such artist"
// code, delivered with HTTP 200.
const errCodeNotFound = 6

// getJSON performs one GET with the standard query parameters and
// decodes the JSON body into out. HTTP 429 becomes a ThrottledError
// carrying the advertised Retry-After; 404 becomes ErrNotFound; other
// non-200 statuses are plain errors the caller treats as transient.
func (c *Client) getJSON(
	ctx context.Context,
	params map[string]string,
	out any,
) error {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil,
	)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return source.ErrNotFound
	case http.StatusTooManyRequests:
		return &source.ThrottledError{
			RetryAfter: retryAfter(resp, 5*time.Second),
		}
	default:
		return fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// retryAfter parses the Retry-After header, falling back to def when the
// header is absent or unparseable.
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

type topTagsResponse struct {
	TopTags struct {
		Tags []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"tag"`
	} `json:"toptags"`
	Error int `json:"error,omitempty"`
}

type artistInfoResponse struct {
	Artist struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		Region  string `json:"region"`
	} `json:"artist"`
	Error int `json:"error,omitempty"`
}
