package quality

import (
	"math"
	"strings"

	"github.com/travelblogr/placemedia/internal/model"
)

// Verdict is the outcome of evaluating one candidate. It is never persisted.
type Verdict struct {
	Accepted           bool
	Score              float64
	MatchedExclusions  []string
	MatchedPreferences []string
}

// Evaluate scores a candidate against the rule set. Exclusion always wins:
// any hard-exclusion match rejects the candidate no matter how many
// preference terms also matched.
func (rs *RuleSet) Evaluate(c model.Candidate) Verdict {
	text := strings.ToLower(c.Title + " " + c.Description)
	lowerURL := strings.ToLower(c.CanonicalURL)

	var v Verdict

	for _, rule := range rs.Exclusions {
		for _, term := range rule.Terms {
			if containsWord(text, term) {
				v.MatchedExclusions = append(v.MatchedExclusions, rule.Category)
				break
			}
		}
	}
	for _, pattern := range rs.URLExclusions {
		if strings.Contains(lowerURL, pattern) {
			v.MatchedExclusions = append(v.MatchedExclusions, "url:"+pattern)
		}
	}

	score := c.Trust.Weight()
	for _, rule := range rs.Preferences {
		for _, term := range rule.Terms {
			if containsWord(text, term) {
				v.MatchedPreferences = append(v.MatchedPreferences, rule.Category)
				score += rule.Weight
				break
			}
		}
	}
	for _, rule := range rs.Soft {
		for _, term := range rule.Terms {
			if containsWord(text, term) {
				score -= rule.Weight
				break
			}
		}
	}

	// Small bonus for upstream popularity, log-damped so a viral post
	// cannot outrank a higher trust tier.
	if c.SourceScore > 0 {
		score += math.Min(0.5, math.Log10(float64(c.SourceScore)+1)*0.1)
	}

	v.Score = score
	v.Accepted = len(v.MatchedExclusions) == 0
	return v
}

// containsWord reports whether term occurs in text with word boundaries on
// both edges, so "car" matches "vintage car" but not "cargo" or "scar".
// Phrase terms match the same way on their outer edges. Both arguments must
// already be lowercased.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	off := 0
	for {
		idx := strings.Index(text[off:], term)
		if idx < 0 {
			return false
		}
		begin := off + idx
		end := begin + len(term)
		if (begin == 0 || !wordByte(text[begin-1])) && (end == len(text) || !wordByte(text[end])) {
			return true
		}
		off = begin + 1
	}
}

func wordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
