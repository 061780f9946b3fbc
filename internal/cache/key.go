package cache

import (
	"fmt"
	"time"

	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/model"
)

// TTL tiers per cached artifact. Images change rarely; POI listings churn
// faster; validation derivatives are re-checked most often.
const (
	TTLImage      = 30 * 24 * time.Hour
	TTLPOI        = 7 * 24 * time.Hour
	TTLValidation = 3 * 24 * time.Hour
)

// TTLFor returns the cache TTL for a kind.
func TTLFor(kind model.Kind) time.Duration {
	if kind == model.KindPOI {
		return TTLPOI
	}
	return TTLImage
}

// Key builds the composite cache key
// "{kind}:{canonicalEntityName}:{hierarchyHash}:{limit}". The hierarchy hash
// covers only the levels actually supplied, so differently-specified
// locations never collide.
func Key(kind model.Kind, entityName string, h hierarchy.Hierarchy, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d", kind, hierarchy.CanonicalName(entityName), h.Hash(), limit)
}

// RequestKey builds the cache key for a normalized acquisition request.
func RequestKey(req model.AcquisitionRequest) string {
	return Key(req.Kind, req.EntityKey, req.Hierarchy, req.MaxResultsPerLevel)
}

// RelatedKey names the derived entry invalidated alongside a primary key on
// refetch.
func RelatedKey(key string) string {
	return key + ":related"
}
