// Package unsplash provides a client for the Unsplash photo search API.
package unsplash

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.unsplash.com"

// Photo is one search result.
type Photo struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	AltDescription string    `json:"alt_description"`
	Likes          int       `json:"likes"`
	URLs           PhotoURLs `json:"urls"`
	Links          Links     `json:"links"`
	User           User      `json:"user"`
}

// PhotoURLs holds the size variants.
type PhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
}

// Links holds the photo page URL.
type Links struct {
	HTML string `json:"html"`
}

// User is the photographer attribution.
type User struct {
	Name  string `json:"name"`
	Links Links  `json:"links"`
}

// SearchResponse is the parsed search envelope.
type SearchResponse struct {
	Total   int     `json:"total"`
	Results []Photo `json:"results"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "unsplash: http " + strconv.Itoa(e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// Client searches Unsplash photos.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Photo, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	accessKey string
	baseURL   string
	http      *http.Client
}

// NewClient creates an Unsplash client authenticated with an access key.
func NewClient(accessKey string, opts ...Option) Client {
	c := &httpClient{
		accessKey: accessKey,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries /search/photos ordered by relevance.
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]Photo, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "unsplash: create request")
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "unsplash: search")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "unsplash: read body")
	}

	var sr SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "unsplash: decode response")
	}
	return sr.Results, nil
}
