package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	req := AcquisitionRequest{EntityKey: "Paris", Kind: KindImage}.Normalize()

	assert.Equal(t, DefaultMinResults, req.MinResults)
	assert.Equal(t, DefaultMaxResultsPerLevel, req.MaxResultsPerLevel)
	assert.Equal(t, DefaultBulkQuota, req.BulkQuota)
	assert.Equal(t, DefaultProviderTimeout, req.ProviderTimeout)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	req := AcquisitionRequest{
		MinResults:         7,
		MaxResultsPerLevel: 9,
		BulkQuota:          40,
		ProviderTimeout:    time.Second,
	}.Normalize()

	assert.Equal(t, 7, req.MinResults)
	assert.Equal(t, 9, req.MaxResultsPerLevel)
	assert.Equal(t, 40, req.BulkQuota)
	assert.Equal(t, time.Second, req.ProviderTimeout)
}

func TestBulk(t *testing.T) {
	assert.False(t, AcquisitionRequest{MaxResultsPerLevel: 5, BulkQuota: 20}.Bulk())
	assert.True(t, AcquisitionRequest{MaxResultsPerLevel: 20, BulkQuota: 20}.Bulk())
	assert.True(t, AcquisitionRequest{MaxResultsPerLevel: 30, BulkQuota: 20}.Bulk())
}

func TestParseKindRejectsUnknown(t *testing.T) {
	_, err := ParseKind("gif")
	assert.Error(t, err)

	kind, err := ParseKind("poi")
	assert.NoError(t, err)
	assert.Equal(t, KindPOI, kind)
}

func TestTrustTierWeights(t *testing.T) {
	assert.Greater(t, TrustOfficial.Weight(), TrustCurated.Weight())
	assert.Greater(t, TrustCurated.Weight(), TrustCommunity.Weight())
	assert.Greater(t, TrustCommunity.Weight(), TrustUnknown.Weight())
}
