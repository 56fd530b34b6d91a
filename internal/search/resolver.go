package search

import (
	"context"
	"strings"

	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"go.uber.org/zap"
)

const maxCandidates = 10

// Searcher is the slice of the GitHub client the resolver needs.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string, perPage int) ([]models.SearchCandidate, error)
}

// Resolver guesses an owner/name from free text using repository search.
type Resolver struct {
	searcher Searcher
	log      *zap.SugaredLogger
}

func NewResolver(searcher Searcher, log *zap.SugaredLogger) *Resolver {
	return &Resolver{searcher: searcher, log: log}
}

// Resolve returns the best full name for query. A failed search or an empty
// result is reported as no match, never as an error.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, bool) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return "", false
	}

	q := strings.Join(terms, " ")

	candidates, err := r.searcher.SearchRepositories(ctx, q+" in:name,description", maxCandidates)
	if err != nil {
		r.log.Warnw("repository search failed", "query", query, "error", err)
		return "", false
	}

	best, tier, ok := Rank(candidates, q)
	if !ok {
		r.log.Debugw("repository search returned nothing", "query", query)
		return "", false
	}

	r.log.Infow("resolved repository", "query", query, "repo", best.FullName, "tier", tier.String())
	return best.FullName, true
}
