// Package reddit provides a client for Reddit's public JSON search API,
// scoped to the photography subreddits the original scrapers used. No API
// key is required.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.reddit.com"

// DefaultSubreddits are the photography communities searched in order.
var DefaultSubreddits = []string{
	"itookapicture",
	"travelphotography",
	"earthporn",
	"cityporn",
	"villageporn",
	"architectureporn",
}

// Post is a search hit that points at a direct image URL.
type Post struct {
	Title      string
	URL        string
	Author     string
	Score      int
	Permalink  string
	CreatedUTC float64
	Subreddit  string
}

// listing mirrors the relevant slice of Reddit's t3 listing envelope.
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				URL        string  `json:"url"`
				Author     string  `json:"author"`
				Score      int     `json:"score"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
				Subreddit  string  `json:"subreddit"`
				Over18     bool    `json:"over_18"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// StatusError reports a non-2xx response from a subreddit search.
type StatusError struct {
	Code      int
	Subreddit string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit: r/%s http %d", e.Subreddit, e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// Client searches the photography subreddits.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Post, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithSubreddits overrides the subreddit list.
func WithSubreddits(subs []string) Option {
	return func(c *httpClient) { c.subreddits = subs }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL    string
	userAgent  string
	subreddits []string
	limiter    *rate.Limiter
	http       *http.Client
}

// NewClient creates a Reddit search client. Requests are paced at one per
// second; Reddit throttles unauthenticated clients aggressively.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		subreddits: DefaultSubreddits,
		limiter:    rate.NewLimiter(1, 2),
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

// Search walks the subreddit list until limit direct-image posts are
// collected. Per-subreddit failures are logged and skipped; the search only
// fails when every subreddit fails.
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	var posts []Post
	var lastErr error

	for _, sub := range c.subreddits {
		if len(posts) >= limit {
			break
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return posts, eris.Wrap(err, "reddit: limiter wait")
		}

		found, err := c.searchSubreddit(ctx, sub, query, limit-len(posts))
		if err != nil {
			zap.L().Debug("reddit: subreddit search failed",
				zap.String("subreddit", sub),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		posts = append(posts, found...)
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

func (c *httpClient) searchSubreddit(ctx context.Context, sub, query string, limit int) ([]Post, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", "top")
	q.Set("limit", strconv.Itoa(25))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/r/"+sub+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "reddit: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "reddit: search r/%s", sub)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Subreddit: sub}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "reddit: read body")
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, eris.Wrapf(err, "reddit: decode r/%s", sub)
	}

	var posts []Post
	for _, child := range l.Data.Children {
		d := child.Data
		if d.Over18 || !IsImageURL(d.URL) {
			continue
		}
		posts = append(posts, Post{
			Title:      d.Title,
			URL:        d.URL,
			Author:     d.Author,
			Score:      d.Score,
			Permalink:  d.Permalink,
			CreatedUTC: d.CreatedUTC,
			Subreddit:  d.Subreddit,
		})
		if len(posts) >= limit {
			break
		}
	}
	return posts, nil
}

// IsImageURL reports whether a post URL points at a direct image.
func IsImageURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "i.redd.it") || strings.Contains(lower, "i.imgur.com")
}
