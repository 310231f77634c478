// Package universe decides which symbols a build pass covers.
package universe

import (
	"sort"
	"strings"

	"MarketVault/internal/model"
)

// WeightFunc reports the ranking weight for a candidate symbol. Symbols the
// caller knows nothing about weigh zero and rank last.
type WeightFunc func(symbol string) float64

// Dedupe removes case-insensitive duplicates while preserving input order.
// The first occurrence decides the casing that survives.
func Dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	ordered := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		key := strings.ToUpper(strings.TrimSpace(symbol))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, symbol)
	}
	return ordered
}

// Shortlist picks at most limit pool candidates that are not already in the
// primary universe, ranked by descending weight. Ties and unknown weights
// keep their pool order.
func Shortlist(primary []string, pool []model.Candidate, weight WeightFunc, limit int) []string {
	if limit <= 0 {
		return nil
	}
	inPrimary := make(map[string]bool, len(primary))
	for _, symbol := range primary {
		inPrimary[strings.ToUpper(strings.TrimSpace(symbol))] = true
	}

	seen := make(map[string]bool, len(pool))
	candidates := make([]string, 0, len(pool))
	for _, c := range pool {
		key := strings.ToUpper(strings.TrimSpace(c.Symbol))
		if key == "" || inPrimary[key] || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, c.Symbol)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return weight(candidates[i]) > weight(candidates[j])
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// Build assembles the full build universe: the primary symbols, then the
// shortlisted extras, then the fixed additions, deduplicated in that order.
// The shortlist is returned separately so callers can report when it came up
// short of the requested limit.
func Build(primary []string, pool []model.Candidate, fixed []string, limit int, weight WeightFunc) (symbols, extras []string) {
	extras = Shortlist(primary, pool, weight, limit)
	merged := make([]string, 0, len(primary)+len(extras)+len(fixed))
	merged = append(merged, primary...)
	merged = append(merged, extras...)
	merged = append(merged, fixed...)
	return Dedupe(merged), extras
}
