package search

import (
	"sort"
	"strings"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/search/record"
)

// relevance tiers, lower sorts first.
const (
	tierExact = iota
	tierPrefix
	tierOther
)

// Rank orders hits in place by relevance against the query: exact display
// name matches first, then prefix matches, then everything else. The sort is
// stable, so records in the same tier keep their fetch order. There is no
// scoring and no fuzzy matching; adding either would change observable
// ordering.
func Rank(hits []record.Record, query string) {
	q := strings.ToLower(query)
	sort.SliceStable(hits, func(i, j int) bool {
		return tier(&hits[i], q) < tier(&hits[j], q)
	})
}

func tier(r *record.Record, loweredQuery string) int {
	name := strings.ToLower(r.DisplayName())
	switch {
	case name == loweredQuery:
		return tierExact
	case strings.HasPrefix(name, loweredQuery):
		return tierPrefix
	default:
		return tierOther
	}
}
