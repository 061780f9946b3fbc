// Package overpass provides a client for the OpenStreetMap Overpass API,
// used as the community-tier POI source.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://overpass-api.de/api"

// Element is one OSM node with tourism tags.
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// response is the Overpass JSON envelope.
type response struct {
	Elements []Element `json:"elements"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass: http %d", e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// Client queries tourism nodes inside a named area.
type Client interface {
	Search(ctx context.Context, area string, limit int) ([]Element, error)
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
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates an Overpass client. Overpass is a shared public
// instance; the interpreter itself enforces fair-use quotas.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search resolves the named area server-side and returns tourism nodes
// inside it. Area names with quotes are rejected rather than escaped; they
// never correspond to real OSM area names.
func (c *httpClient) Search(ctx context.Context, area string, limit int) ([]Element, error) {
	if strings.ContainsAny(area, `"\`) {
		return nil, eris.Errorf("overpass: invalid area name %q", area)
	}

	ql := fmt.Sprintf(`[out:json][timeout:10];
area["name"="%s"]->.searchArea;
(node["tourism"~"attraction|museum|viewpoint|gallery"](area.searchArea););
out %d;`, area, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/interpreter",
		strings.NewReader(url.Values{"data": {ql}}.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "overpass: create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: query")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, eris.Wrap(err, "overpass: read body")
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, eris.Wrap(err, "overpass: decode response")
	}

	elements := r.Elements
	if limit > 0 && len(elements) > limit {
		elements = elements[:limit]
	}
	return elements, nil
}

// NodeURL returns the public OSM page for a node.
func NodeURL(id int64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/node/%d", id)
}
