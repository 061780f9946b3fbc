// Package quality scores and rejects candidates based on their text
// metadata. Evaluation is pure: no I/O, no shared state, fully testable
// offline. Rules are declarative keyword sets so new categories are added as
// data, not code branches.
package quality

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rule is one keyword category. Weight is the score delta a match applies:
// positive for preferences, negative for soft exclusions. Hard exclusions
// ignore Weight entirely: any match rejects the candidate.
type Rule struct {
	Category string   `yaml:"category"`
	Terms    []string `yaml:"terms"`
	Weight   float64  `yaml:"weight,omitempty"`
}

// RuleSet is the full declarative filter configuration.
type RuleSet struct {
	// Exclusions reject a candidate outright on any match, regardless of
	// how many preference terms also match.
	Exclusions []Rule `yaml:"exclusions"`
	// Preferences add Weight to the score of accepted candidates.
	Preferences []Rule `yaml:"preferences"`
	// Soft terms subtract Weight from the score without rejecting.
	Soft []Rule `yaml:"soft"`
	// URLExclusions match against the candidate URL rather than its text
	// metadata, catching non-photo assets by path shape.
	URLExclusions []string `yaml:"url_exclusions"`
}

// DefaultRules returns the built-in rule set used when no rules file is
// configured.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Exclusions: []Rule{
			{Category: "people", Terms: []string{"portrait", "selfie", "my face", "person posing", "model posing", "headshot"}},
			{Category: "monochrome", Terms: []string{"black and white", "monochrome", "b&w", "grayscale"}},
			{Category: "statues", Terms: []string{"statue", "sculpture", "bust of"}},
			{Category: "night", Terms: []string{"at night", "night shot", "nighttime", "midnight", "dark alley"}},
			{Category: "vehicles", Terms: []string{"car", "truck", "motorbike", "scooter", "traffic jam", "parked car"}},
			{Category: "silhouettes", Terms: []string{"silhouette", "silhouetted"}},
			{Category: "military", Terms: []string{"military", "soldier", "tank", "warship", "parade of troops"}},
			{Category: "interiors", Terms: []string{"interior", "indoors", "inside the", "hotel room", "living room"}},
			{Category: "closeups", Terms: []string{"close-up", "closeup", "close up of", "macro shot"}},
			{Category: "food", Terms: []string{"food photography", "plate of", "dish of", "tasting menu", "street food close"}},
			// Carried over from the original community scrapers.
			{Category: "junk", Terms: []string{"meme", "funny", "joke"}},
		},
		Preferences: []Rule{
			{Category: "cityscape", Terms: []string{"cityscape", "city view", "panorama", "panoramic"}, Weight: 0.5},
			{Category: "skyline", Terms: []string{"skyline"}, Weight: 0.5},
			{Category: "landmark", Terms: []string{"landmark", "monument", "historic center", "old town"}, Weight: 0.4},
			{Category: "aerial", Terms: []string{"aerial", "from above", "drone shot", "bird's eye"}, Weight: 0.4},
			{Category: "daytime", Terms: []string{"daytime", "sunny day", "blue sky", "golden hour"}, Weight: 0.2},
			{Category: "architecture", Terms: []string{"architecture", "facade", "cathedral", "castle", "bridge"}, Weight: 0.3},
		},
		Soft: []Rule{
			{Category: "crowds", Terms: []string{"crowd", "crowded", "festival"}, Weight: 0.2},
			{Category: "weather", Terms: []string{"rainy", "overcast", "foggy", "storm"}, Weight: 0.1},
		},
		URLExclusions: []string{
			"favicon", "logo", "icon", "banner", "sprite",
			"badge", "button", "widget", "avatar",
		},
	}
}

// LoadRules reads a rule set from a YAML file. Sections left empty in the
// file fall back to the built-in defaults.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "quality: read rules %s", path)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, eris.Wrap(err, "quality: parse rules")
	}

	defaults := DefaultRules()
	if len(rs.Exclusions) == 0 {
		rs.Exclusions = defaults.Exclusions
	}
	if len(rs.Preferences) == 0 {
		rs.Preferences = defaults.Preferences
	}
	if len(rs.Soft) == 0 {
		rs.Soft = defaults.Soft
	}
	if len(rs.URLExclusions) == 0 {
		rs.URLExclusions = defaults.URLExclusions
	}
	return &rs, nil
}
