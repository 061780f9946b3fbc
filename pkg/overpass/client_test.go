package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/interpreter", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())

		ql := r.PostForm.Get("data")
		assert.Contains(t, ql, `area["name"="Amizmiz"]`)
		assert.Contains(t, ql, `node["tourism"~"attraction|museum|viewpoint|gallery"]`)
		assert.True(t, strings.Contains(ql, "out 10;"))

		w.Write([]byte(`{"elements":[
			{"type":"node","id":111,"lat":31.2175,"lon":-8.2370,"tags":{"name":"Kasbah","tourism":"attraction"}},
			{"type":"node","id":222,"lat":31.2200,"lon":-8.2400,"tags":{"tourism":"viewpoint"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	elements, err := c.Search(context.Background(), "Amizmiz", 10)
	require.NoError(t, err)

	require.Len(t, elements, 2)
	assert.Equal(t, int64(111), elements[0].ID)
	assert.Equal(t, "Kasbah", elements[0].Tags["name"])
}

func TestSearchRejectsQuotedArea(t *testing.T) {
	c := NewClient("test-agent")
	_, err := c.Search(context.Background(), `evil"]; out;`, 10)
	assert.Error(t, err)
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "Amizmiz", 10)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusGatewayTimeout, statusErr.StatusCode())
}

func TestNodeURL(t *testing.T) {
	assert.Equal(t, "https://www.openstreetmap.org/node/111", NodeURL(111))
}
