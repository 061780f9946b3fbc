// Package pinterest provides a client for Pinterest's public pin search
// endpoint, the same resource the site's own search page calls. No API key
// is required.
package pinterest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.pinterest.com"

// Pin is one search result.
type Pin struct {
	Title      string           `json:"title"`
	GridTitle  string           `json:"grid_title"`
	Images     map[string]Image `json:"images"`
	Pinner     Pinner           `json:"pinner"`
	Aggregated AggregatedData   `json:"aggregated_pin_data"`
}

// Image is one rendition of a pin's photo, keyed by size name ("orig",
// "736x", "564x").
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Pinner identifies the account that saved the pin.
type Pinner struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	ProfileURL string `json:"profile_url"`
}

// AggregatedData carries the engagement stats Pinterest rolls up per pin.
type AggregatedData struct {
	Stats AggregatedStats `json:"aggregated_stats"`
}

// AggregatedStats holds the save count used as a popularity signal.
type AggregatedStats struct {
	Saves int `json:"saves"`
}

// searchResponse mirrors the relevant slice of the resource envelope.
type searchResponse struct {
	ResourceResponse struct {
		Data struct {
			Results []Pin `json:"results"`
		} `json:"data"`
	} `json:"resource_response"`
}

// StatusError reports a non-2xx response from the search resource.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pinterest: http %d", e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// Client searches public pins.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Pin, error)
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

// NewClient creates a Pinterest pin search client.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
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

// Search queries the BaseSearchResource for pins matching the query. The
// resource takes its options as a JSON blob in the data parameter.
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]Pin, error) {
	options, err := json.Marshal(map[string]any{
		"options": map[string]any{
			"query": query,
			"scope": "pins",
		},
		"context": map[string]any{},
	})
	if err != nil {
		return nil, eris.Wrap(err, "pinterest: encode options")
	}

	q := url.Values{}
	q.Set("source_url", "/search/pins/?q="+url.QueryEscape(query))
	q.Set("data", string(options))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/resource/BaseSearchResource/get/?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "pinterest: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "pinterest: search pins")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "pinterest: read body")
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "pinterest: decode response")
	}

	pins := sr.ResourceResponse.Data.Results
	if limit > 0 && len(pins) > limit {
		pins = pins[:limit]
	}
	return pins, nil
}

// BestImageURL picks the highest-quality rendition a pin carries, preferring
// the original upload over the 736px and 564px grid sizes.
func BestImageURL(p Pin) string {
	for _, size := range []string{"orig", "736x", "564x"} {
		if img, ok := p.Images[size]; ok && img.URL != "" {
			return img.URL
		}
	}
	return ""
}

// DisplayTitle returns the pin's title, falling back to the grid caption.
func DisplayTitle(p Pin) string {
	if p.Title != "" {
		return p.Title
	}
	return p.GridTitle
}
