// Package opentripmap provides a client for the OpenTripMap places API,
// used to find points of interest around a named place.
package opentripmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.opentripmap.com/0.1/en"

// Geoname is the geocoding response for a place name.
type Geoname struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Place is one POI feature around the geocoded point.
type Place struct {
	XID   string  `json:"xid"`
	Name  string  `json:"name"`
	Kinds string  `json:"kinds"`
	Rate  int     `json:"rate"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// radiusResponse is the GeoJSON feature collection from /places/radius.
type radiusResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat
		} `json:"geometry"`
		Properties struct {
			XID   string `json:"xid"`
			Name  string `json:"name"`
			Kinds string `json:"kinds"`
			Rate  int    `json:"rate"`
		} `json:"properties"`
	} `json:"features"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("opentripmap: http %d", e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// Client geocodes a place and lists rated POIs around it.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Place, error)
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

// WithRadiusMeters overrides the search radius (default 10km).
func WithRadiusMeters(r int) Option {
	return func(c *httpClient) { c.radius = r }
}

type httpClient struct {
	apiKey  string
	baseURL string
	radius  int
	http    *http.Client
}

// NewClient creates an OpenTripMap client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		radius:  10000,
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

// Search geocodes the query via /places/geoname, then lists rated POIs
// within the radius. Unknown place names yield an empty slice.
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	geo, err := c.geoname(ctx, query)
	if err != nil {
		return nil, err
	}
	if geo == nil || (geo.Lat == 0 && geo.Lon == 0) {
		return nil, nil
	}
	return c.radiusSearch(ctx, geo.Lat, geo.Lon, limit)
}

func (c *httpClient) geoname(ctx context.Context, name string) (*Geoname, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("apikey", c.apiKey)

	body, err := c.get(ctx, "/places/geoname?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var g Geoname
	if err := json.Unmarshal(body, &g); err != nil {
		return nil, eris.Wrap(err, "opentripmap: decode geoname")
	}
	return &g, nil
}

func (c *httpClient) radiusSearch(ctx context.Context, lat, lon float64, limit int) ([]Place, error) {
	q := url.Values{}
	q.Set("radius", strconv.Itoa(c.radius))
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("rate", "2") // rated attractions only
	q.Set("limit", strconv.Itoa(limit))
	q.Set("apikey", c.apiKey)

	body, err := c.get(ctx, "/places/radius?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var rr radiusResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, eris.Wrap(err, "opentripmap: decode radius")
	}

	places := make([]Place, 0, len(rr.Features))
	for _, f := range rr.Features {
		if f.Properties.Name == "" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		places = append(places, Place{
			XID:   f.Properties.XID,
			Name:  f.Properties.Name,
			Kinds: f.Properties.Kinds,
			Rate:  f.Properties.Rate,
			Lon:   f.Geometry.Coordinates[0],
			Lat:   f.Geometry.Coordinates[1],
		})
	}
	return places, nil
}

func (c *httpClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "opentripmap: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "opentripmap: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

// CardURL returns the public page for a POI.
func CardURL(xid string) string {
	return "https://opentripmap.com/en/card/" + xid
}
