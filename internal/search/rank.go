package search

import (
	"strings"

	"github.com/kevinmichaelchen/gh-sms/internal/models"
)

// Tier is how strongly a candidate matched the query.
type Tier int

const (
	TierNone Tier = iota
	// TierExact: bare name equals the query, or full name contains it.
	TierExact
	// TierSoft: description or bare name contains the query.
	TierSoft
	// TierWeak: nothing matched, so the top (most-starred) result is used.
	TierWeak
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSoft:
		return "soft"
	case TierWeak:
		return "weak"
	default:
		return "none"
	}
}

// Rank picks the best candidate for query. Candidates are expected in search
// order (stars, descending); within a tier the earliest one wins. All
// comparisons are case-insensitive.
func Rank(candidates []models.SearchCandidate, query string) (models.SearchCandidate, Tier, bool) {
	if len(candidates) == 0 {
		return models.SearchCandidate{}, TierNone, false
	}
	q := strings.ToLower(query)

	for _, c := range candidates {
		if strings.ToLower(c.Name) == q || strings.Contains(strings.ToLower(c.FullName), q) {
			return c, TierExact, true
		}
	}

	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Description), q) || strings.Contains(strings.ToLower(c.Name), q) {
			return c, TierSoft, true
		}
	}

	return candidates[0], TierWeak, true
}
