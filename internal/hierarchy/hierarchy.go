// Package hierarchy turns raw place metadata into the ordered list of
// geographic query terms consumed by the acquisition fallback ladder.
package hierarchy

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Level is one geographic specificity tier. Tiers are always consulted in
// descending specificity order, local first.
type Level int

const (
	LevelLocal Level = iota + 1
	LevelDistrict
	LevelCounty
	LevelRegional
	LevelNational
	LevelContinental
	LevelGlobal
)

// Levels returns every tier in query order.
func Levels() []Level {
	return []Level{
		LevelLocal,
		LevelDistrict,
		LevelCounty,
		LevelRegional,
		LevelNational,
		LevelContinental,
		LevelGlobal,
	}
}

// String returns the human-readable level name.
func (l Level) String() string {
	switch l {
	case LevelLocal:
		return "local"
	case LevelDistrict:
		return "district"
	case LevelCounty:
		return "county"
	case LevelRegional:
		return "regional"
	case LevelNational:
		return "national"
	case LevelContinental:
		return "continental"
	case LevelGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so levels serialize by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels() {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, eris.Errorf("hierarchy: unknown level %q", s)
}

// Hierarchy maps populated levels to their query strings. Absent levels are
// simply skipped by the orchestrator, never substituted with a placeholder.
type Hierarchy map[Level]string

// Ordered returns the populated levels in fixed specificity-descending order.
func (h Hierarchy) Ordered() []Level {
	var out []Level
	for _, l := range Levels() {
		if strings.TrimSpace(h[l]) != "" {
			out = append(out, l)
		}
	}
	return out
}

// Query returns the query string for a level, or "" if the level is absent.
func (h Hierarchy) Query(l Level) string {
	return strings.TrimSpace(h[l])
}

// Hash returns a stable hex digest of the populated levels and their query
// strings. Requests that supply different level sets hash differently, so a
// request missing the district level never matches a cache entry that had one.
func (h Hierarchy) Hash() string {
	var sb strings.Builder
	for _, l := range h.Ordered() {
		sb.WriteString(l.String())
		sb.WriteByte('=')
		sb.WriteString(strings.ToLower(h.Query(l)))
		sb.WriteByte('|')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%x", sum[:8])
}
