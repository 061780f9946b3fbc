package hierarchy

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidLocation is returned when even the local level is empty. It is
// the only hard error in the acquisition path: it reflects malformed caller
// input, not an upstream failure.
var ErrInvalidLocation = errors.New("hierarchy: place has no usable local level")

// Place is the raw location metadata handed over by the routing/geocoding
// subsystem. Only Name is required; everything else widens the ladder.
type Place struct {
	Name      string `json:"name"`
	District  string `json:"district,omitempty"`
	County    string `json:"county,omitempty"`
	Region    string `json:"region,omitempty"`
	Country   string `json:"country,omitempty"`
	Continent string `json:"continent,omitempty"`
}

// globalQuery is the last-resort query used when every geographic level has
// been exhausted. It is intentionally generic.
const globalQuery = "world famous travel landmarks"

// Resolve builds a Hierarchy from place metadata. Levels are populated
// top-down; missing intermediate levels are omitted. The continent is
// inferred from the country when not supplied. Resolve performs no I/O.
func Resolve(p Place) (Hierarchy, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrInvalidLocation
	}

	country := strings.TrimSpace(p.Country)
	h := Hierarchy{
		LevelLocal:  withContext(name, country),
		LevelGlobal: globalQuery,
	}

	if d := strings.TrimSpace(p.District); d != "" {
		h[LevelDistrict] = withContext(d, country)
	}
	if c := strings.TrimSpace(p.County); c != "" {
		h[LevelCounty] = withContext(c, country)
	}
	if r := strings.TrimSpace(p.Region); r != "" {
		h[LevelRegional] = withContext(r, country)
	}
	if country != "" {
		h[LevelNational] = country
	}

	continent := strings.TrimSpace(p.Continent)
	if continent == "" {
		continent = ContinentOf(country)
	}
	if continent != "" {
		h[LevelContinental] = continent
	}

	return h, nil
}

// withContext appends the country for disambiguation, matching the query
// shape the upstream search endpoints respond best to ("Amizmiz Morocco").
func withContext(term, country string) string {
	if country == "" || strings.EqualFold(term, country) {
		return term
	}
	return term + " " + country
}

// foldTransformer strips diacritics: NFD decompose, drop combining marks,
// recompose.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalName lowercases a place name, folds diacritics, and collapses
// whitespace and punctuation to single hyphens, producing the entity name
// segment used in cache keys ("München" -> "munchen").
func CanonicalName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var sb strings.Builder
	lastHyphen := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
