package pinterest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
	"resource_response": {
		"data": {
			"results": [
				{
					"title": "Atlas foothills",
					"images": {
						"orig": {"url": "https://i.pinimg.com/originals/ab/cd/1.jpg", "width": 2048, "height": 1365},
						"736x": {"url": "https://i.pinimg.com/736x/ab/cd/1.jpg"}
					},
					"pinner": {"username": "atlastrails", "profile_url": "https://www.pinterest.com/atlastrails/"},
					"aggregated_pin_data": {"aggregated_stats": {"saves": 311}}
				},
				{
					"grid_title": "Berber village",
					"images": {
						"736x": {"url": "https://i.pinimg.com/736x/ef/01/2.jpg"}
					},
					"pinner": {"username": "medinawalks"},
					"aggregated_pin_data": {"aggregated_stats": {"saves": 12}}
				}
			]
		}
	}
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/BaseSearchResource/get/", r.URL.Path)
		assert.Equal(t, "/search/pins/?q=Amizmiz+Morocco", r.URL.Query().Get("source_url"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		var data struct {
			Options struct {
				Query string `json:"query"`
				Scope string `json:"scope"`
			} `json:"options"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("data")), &data))
		assert.Equal(t, "Amizmiz Morocco", data.Options.Query)
		assert.Equal(t, "pins", data.Options.Scope)

		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	pins, err := c.Search(context.Background(), "Amizmiz Morocco", 10)
	require.NoError(t, err)

	require.Len(t, pins, 2)
	assert.Equal(t, "Atlas foothills", pins[0].Title)
	assert.Equal(t, "atlastrails", pins[0].Pinner.Username)
	assert.Equal(t, 311, pins[0].Aggregated.Stats.Saves)
}

func TestSearchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	pins, err := c.Search(context.Background(), "amizmiz", 1)
	require.NoError(t, err)
	assert.Len(t, pins, 1)
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "amizmiz", 10)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode())
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resource_response": [`))
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "amizmiz", 10)
	assert.Error(t, err)
}

func TestBestImageURL(t *testing.T) {
	p := Pin{Images: map[string]Image{
		"orig": {URL: "https://i.pinimg.com/originals/1.jpg"},
		"736x": {URL: "https://i.pinimg.com/736x/1.jpg"},
		"564x": {URL: "https://i.pinimg.com/564x/1.jpg"},
	}}
	assert.Equal(t, "https://i.pinimg.com/originals/1.jpg", BestImageURL(p))

	delete(p.Images, "orig")
	assert.Equal(t, "https://i.pinimg.com/736x/1.jpg", BestImageURL(p))

	assert.Empty(t, BestImageURL(Pin{}))
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "A title", DisplayTitle(Pin{Title: "A title", GridTitle: "grid"}))
	assert.Equal(t, "grid", DisplayTitle(Pin{GridTitle: "grid"}))
}
