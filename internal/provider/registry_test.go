package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelblogr/placemedia/internal/model"
)

type nopAdapter struct{ id string }

func (a *nopAdapter) ID() string { return a.id }
func (a *nopAdapter) Search(context.Context, string, model.Kind, int) ([]model.Candidate, error) {
	return nil, nil
}

func TestRegistryPriorityOrder(t *testing.T) {
	r := NewRegistry()

	// Registered out of priority order on purpose.
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "flickr"}, Kind: model.KindImage, Priority: 3, Trust: model.TrustCommunity}))
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "unsplash"}, Kind: model.KindImage, Priority: 1, Trust: model.TrustOfficial}))
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "pexels"}, Kind: model.KindImage, Priority: 2, Trust: model.TrustCurated}))
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "overpass"}, Kind: model.KindPOI, Priority: 2, Trust: model.TrustCommunity}))

	var ids []string
	for _, reg := range r.ForKind(model.KindImage) {
		ids = append(ids, reg.Adapter.ID())
	}
	assert.Equal(t, []string{"unsplash", "pexels", "flickr"}, ids)

	assert.Len(t, r.ForKind(model.KindPOI), 1)
}

func TestRegistryDuplicateID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "unsplash"}, Kind: model.KindImage, Priority: 1}))

	err := r.Register(Registration{Adapter: &nopAdapter{id: "unsplash"}, Kind: model.KindPOI, Priority: 1})
	assert.Error(t, err)
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "reddit"}, Kind: model.KindImage, Priority: 4, Trust: model.TrustCommunity}))

	reg, ok := r.Get("reddit")
	require.True(t, ok)
	assert.Equal(t, model.TrustCommunity, reg.Trust)

	_, ok = r.Get("absent")
	assert.False(t, ok)
}

func TestRegistryIDs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "overpass"}, Kind: model.KindPOI, Priority: 2}))
	require.NoError(t, r.Register(Registration{Adapter: &nopAdapter{id: "unsplash"}, Kind: model.KindImage, Priority: 1}))

	assert.Equal(t, []string{"unsplash", "overpass"}, r.IDs())
}
