// Package flickr provides a client for the Flickr public photo feed. The
// feed requires no API key, which is why the original scrapers leaned on it.
package flickr

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

const defaultBaseURL = "https://www.flickr.com/services/feeds"

// Photo is one item from the public feed.
type Photo struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Media     Media  `json:"media"`
	DateTaken string `json:"date_taken"`
	Published string `json:"published"`
	Author    string `json:"author"`
	AuthorID  string `json:"author_id"`
	Tags      string `json:"tags"`
}

// Media holds the medium-size image URL ("m").
type Media struct {
	M string `json:"m"`
}

// Feed is the parsed public feed response.
type Feed struct {
	Title string  `json:"title"`
	Items []Photo `json:"items"`
}

// StatusError reports a non-2xx response from the feed.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("flickr: http %d", e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// Client fetches public photos by tag.
type Client interface {
	Search(ctx context.Context, tags string, limit int) ([]Photo, error)
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

// NewClient creates a Flickr public feed client.
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

// Search fetches the public feed for the given tags. Flickr caps the feed at
// 20 items; limit trims below that.
func (c *httpClient) Search(ctx context.Context, tags string, limit int) ([]Photo, error) {
	q := url.Values{}
	q.Set("tags", tags)
	q.Set("format", "json")
	q.Set("nojsoncallback", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/photos_public.gne?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "flickr: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "flickr: fetch feed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "flickr: read body")
	}

	var feed Feed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, eris.Wrap(err, "flickr: decode feed")
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// LargeURL upgrades a medium feed URL to the large size variant.
func LargeURL(mediumURL string) string {
	return strings.Replace(mediumURL, "_m.jpg", "_b.jpg", 1)
}

// AuthorName extracts the display name from the feed's author field, which
// arrives as `nobody@flickr.com ("username")`.
func AuthorName(author string) string {
	open := strings.Index(author, "(")
	close_ := strings.LastIndex(author, ")")
	if open == -1 || close_ == -1 || close_ <= open {
		return author
	}
	return strings.Trim(author[open+1:close_], `"`)
}
