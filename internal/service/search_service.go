package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/zivgin/canonical-product-builder/internal/models"
)

// SearchLimit caps the number of listings fetched per search. Callers must
// not assume completeness beyond this bound.
const SearchLimit = 500

// SearchService queries the listing catalog and ranks candidates by how
// closely their name matches the search term.
type SearchService struct {
	listings ListingStore
}

// NewSearchService constructs a SearchService.
func NewSearchService(listings ListingStore) *SearchService {
	return &SearchService{listings: listings}
}

// Search returns ranked candidates for term, dropping listings that carry no
// chain identity and listings belonging to a sub-chain in excluded. Wrapping
// the term in ^...$ requests an exact (whole-name) match. When excludeWords
// is non-empty, any listing whose name contains one of the words is rejected
// in the store query, before the positive match.
//
// Results are sorted by relevance tier descending; equal tiers are ordered by
// item code ascending so repeated queries return a stable order.
func (s *SearchService) Search(ctx context.Context, term string, excluded map[string]struct{}, excludeWords []string, registry *RegistrySnapshot) ([]models.RankedCandidate, error) {
	matchTerm, namePattern := buildNamePattern(term)
	if matchTerm == "" {
		return nil, nil
	}

	listings, err := s.listings.Find(ctx, namePattern, buildExcludePattern(excludeWords), SearchLimit)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.RankedCandidate, 0, len(listings))
	for _, l := range listings {
		identity, ok := ExtractChainIdentity(l.FileName)
		if !ok {
			continue
		}
		key := identity.Key()
		if _, skip := excluded[key]; skip {
			continue
		}
		candidates = append(candidates, models.RankedCandidate{
			Listing:      l,
			SubChainKey:  key,
			SubChainName: registry.ResolveDisplayName(key),
			Tier:         relevanceTier(l.ItemName, matchTerm),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Tier != candidates[j].Tier {
			return candidates[i].Tier > candidates[j].Tier
		}
		return candidates[i].ItemCode < candidates[j].ItemCode
	})
	return candidates, nil
}

// buildNamePattern turns an operator search term into a case-insensitive
// store pattern. The term itself is matched literally; only the surrounding
// ^...$ anchors are honored, requesting a whole-name match.
func buildNamePattern(term string) (matchTerm, pattern string) {
	exact := strings.HasPrefix(term, "^") && strings.HasSuffix(term, "$") && len(term) >= 2
	if exact {
		term = term[1 : len(term)-1]
	}
	if strings.TrimSpace(term) == "" {
		return "", ""
	}
	pattern = regexp.QuoteMeta(term)
	if exact {
		pattern = "^" + pattern + "$"
	}
	return term, pattern
}

// buildExcludePattern joins exclude words into one alternation; the store
// applies it as a negative filter over listing names.
func buildExcludePattern(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	return strings.Join(quoted, "|")
}

// relevanceTier scores how closely a listing name matches the term. All
// comparison is case-insensitive. Listings reaching this point already
// contain the term, so TierContains is the floor.
func relevanceTier(name, term string) int {
	lowerName := strings.ToLower(name)
	lowerTerm := strings.ToLower(term)
	switch {
	case lowerName == lowerTerm:
		return models.TierExact
	case strings.HasPrefix(lowerName, lowerTerm):
		return models.TierPrefix
	default:
		return models.TierContains
	}
}

// ExactTerm wraps a product name in anchors so Search performs a whole-name
// match, as used by auto-assignment.
func ExactTerm(name string) string {
	return "^" + name + "$"
}
