// Package model holds the request-scoped value types shared across the
// acquisition engine. Everything here is immutable after construction.
package model

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/travelblogr/placemedia/internal/hierarchy"
)

// Kind selects what a request acquires.
type Kind string

const (
	KindImage Kind = "image"
	KindPOI   Kind = "poi"
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, KindPOI:
		return Kind(s), nil
	default:
		return "", eris.Errorf("model: unknown kind %q (valid: image, poi)", s)
	}
}

// TrustTier is the coarse publisher-quality ranking used to break ties
// during ranking and deduplication.
type TrustTier int

const (
	TrustUnknown TrustTier = iota
	TrustCommunity
	TrustCurated
	TrustOfficial
)

// String returns the tier name.
func (t TrustTier) String() string {
	switch t {
	case TrustOfficial:
		return "official"
	case TrustCurated:
		return "curated"
	case TrustCommunity:
		return "community"
	default:
		return "unknown"
	}
}

// Weight returns the tier's contribution to a candidate's quality score.
func (t TrustTier) Weight() float64 {
	switch t {
	case TrustOfficial:
		return 3.0
	case TrustCurated:
		return 2.0
	case TrustCommunity:
		return 1.0
	default:
		return 0.25
	}
}

// Candidate is a single piece of reference data returned by a provider.
// CanonicalURL is its identity across providers.
type Candidate struct {
	CanonicalURL string          `json:"canonical_url"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	ProviderID   string          `json:"provider_id"`
	SourceLevel  hierarchy.Level `json:"source_level"`
	Trust        TrustTier       `json:"trust_tier"`
	FetchedAt    time.Time       `json:"fetched_at"`

	// Author attribution carried from the upstream source.
	Author    string `json:"author,omitempty"`
	AuthorURL string `json:"author_url,omitempty"`
	SourceURL string `json:"source_url,omitempty"`

	// SourceScore is the upstream popularity signal where the provider
	// reports one (Reddit post score, Pexels likes). Zero means unscored.
	SourceScore int `json:"source_score,omitempty"`

	// Latitude/Longitude are populated for POI candidates only.
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	HasCoords bool    `json:"has_coords,omitempty"`
}
