package metadata

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vmunix/mediar/pkg/release"
)

// SearchOptions narrows provider search results.
type SearchOptions struct {
	Language      string  // Keep this original language and unknown ones; empty keeps all
	MinPopularity float64 // Drop less popular results unless the name matches exactly
}

type matchTier int

const (
	tierExact matchTier = iota
	tierPrefix
	tierOther
)

// Rank filters results by opts and orders them: exact name matches first,
// then prefix matches, then the rest. Within a tier, more popular results
// come first and title similarity breaks ties.
func Rank(query string, results []SearchResult, opts SearchOptions) []SearchResult {
	q := release.Fold(query)

	type scored struct {
		SearchResult
		tier matchTier
		sim  float64
	}

	var kept []scored
	for _, r := range results {
		if opts.Language != "" && r.Language != "" && !strings.EqualFold(r.Language, opts.Language) {
			continue
		}
		name := release.Fold(r.Name)
		tier := tierOther
		switch {
		case name == q:
			tier = tierExact
		case q != "" && strings.HasPrefix(name, q):
			tier = tierPrefix
		}
		if tier != tierExact && r.Popularity < opts.MinPopularity {
			continue
		}
		kept = append(kept, scored{SearchResult: r, tier: tier, sim: release.Similarity(query, r.Name)})
	}

	slices.SortStableFunc(kept, func(a, b scored) int {
		if c := cmp.Compare(a.tier, b.tier); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Popularity, a.Popularity); c != 0 {
			return c
		}
		return cmp.Compare(b.sim, a.sim)
	})

	out := make([]SearchResult, len(kept))
	for i, s := range kept {
		out[i] = s.SearchResult
	}
	return out
}
