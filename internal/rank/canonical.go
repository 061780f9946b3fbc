// Package rank merges raw provider candidates into the final ordered,
// deduplicated, quality-filtered list.
package rank

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during URL canonicalization.
// They vary per share/click without changing the underlying asset.
var trackingParams = map[string]bool{
	"fbclid":       true,
	"gclid":        true,
	"igshid":       true,
	"mc_cid":       true,
	"mc_eid":       true,
	"ref":          true,
	"ref_src":      true,
	"share_id":     true,
	"source":       true,
	"spm":          true,
	"utm_campaign": true,
	"utm_content":  true,
	"utm_medium":   true,
	"utm_source":   true,
	"utm_term":     true,
}

// CanonicalURL normalizes a candidate URL into its identity key: lowercase
// scheme and host, tracking parameters and fragment stripped, remaining
// query sorted. Unparseable URLs canonicalize to their trimmed input so they
// still dedupe against exact repeats.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	// url.Values.Encode sorts keys, giving a stable query order.
	u.RawQuery = q.Encode()

	s := u.String()
	return strings.TrimSuffix(s, "?")
}
