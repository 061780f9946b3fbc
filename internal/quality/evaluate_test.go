package quality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelblogr/placemedia/internal/model"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExclusionAlwaysWins(t *testing.T) {
	rs := DefaultRules()

	// Even a candidate matching several preferences is rejected on one
	// hard-exclusion hit.
	v := rs.Evaluate(model.Candidate{
		Title: "Skyline panorama with a bronze statue",
		Trust: model.TrustOfficial,
	})
	assert.False(t, v.Accepted)
	assert.Contains(t, v.MatchedExclusions, "statues")
	assert.Contains(t, v.MatchedPreferences, "skyline")
}

func TestTrustAndPreferenceScoring(t *testing.T) {
	rs := DefaultRules()

	v := rs.Evaluate(model.Candidate{
		Title: "Skyline over the old town",
		Trust: model.TrustOfficial,
	})
	assert.True(t, v.Accepted)
	// official 3.0 + skyline 0.5 + landmark 0.4
	assert.InDelta(t, 3.9, v.Score, 1e-9)
}

func TestSoftPenaltyDoesNotReject(t *testing.T) {
	rs := DefaultRules()

	v := rs.Evaluate(model.Candidate{
		Title: "Crowded medina rooftops",
		Trust: model.TrustCommunity,
	})
	assert.True(t, v.Accepted)
	assert.InDelta(t, 0.8, v.Score, 1e-9)
}

func TestExclusionTermsMatchWholeWords(t *testing.T) {
	rs := DefaultRules()

	// "car" and "tank" match at any position, including the end of the text.
	v := rs.Evaluate(model.Candidate{Title: "Red vintage car", Trust: model.TrustCommunity})
	assert.False(t, v.Accepted)
	assert.Contains(t, v.MatchedExclusions, "vehicles")

	v = rs.Evaluate(model.Candidate{Title: "Truck crossing the pass", Trust: model.TrustCommunity})
	assert.False(t, v.Accepted)

	v = rs.Evaluate(model.Candidate{Title: "Old water tank", Trust: model.TrustCommunity})
	assert.False(t, v.Accepted)
	assert.Contains(t, v.MatchedExclusions, "military")

	// Embedded occurrences are not matches.
	v = rs.Evaluate(model.Candidate{Title: "Cargo port panorama", Trust: model.TrustCommunity})
	assert.True(t, v.Accepted)
}

func TestURLExclusion(t *testing.T) {
	rs := DefaultRules()

	v := rs.Evaluate(model.Candidate{
		CanonicalURL: "https://cdn.example.com/assets/logo-large.png",
		Title:        "Mountain view",
	})
	assert.False(t, v.Accepted)
	assert.Contains(t, v.MatchedExclusions, "url:logo")
}

func TestPopularityBonusIsCapped(t *testing.T) {
	rs := DefaultRules()

	modest := rs.Evaluate(model.Candidate{Title: "Mountain pass", Trust: model.TrustCommunity, SourceScore: 9})
	viral := rs.Evaluate(model.Candidate{Title: "Mountain pass", Trust: model.TrustCommunity, SourceScore: 5000000})

	assert.InDelta(t, 1.1, modest.Score, 1e-9)
	assert.InDelta(t, 1.5, viral.Score, 1e-9)
	// A viral community post still scores below a bare curated one.
	curated := rs.Evaluate(model.Candidate{Title: "Mountain pass", Trust: model.TrustCurated})
	assert.Greater(t, curated.Score, viral.Score)
}

func TestLoadRulesFallsBackPerSection(t *testing.T) {
	path := writeRules(t, `
exclusions:
  - category: custom
    terms: ["watermark"]
`)
	rs, err := LoadRules(path)
	assert.NoError(t, err)

	// Custom exclusions replace the defaults...
	assert.Len(t, rs.Exclusions, 1)
	v := rs.Evaluate(model.Candidate{Title: "statue of a king"})
	assert.True(t, v.Accepted)

	// ...while untouched sections keep the built-ins.
	assert.NotEmpty(t, rs.Preferences)
	assert.NotEmpty(t, rs.URLExclusions)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules("does/not/exist.yaml")
	assert.Error(t, err)
}
