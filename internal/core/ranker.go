package core

import (
	"sort"
)

// RankResults orders findings by descending confidence. The sort is stable:
// results with equal confidence keep their relative input order.
func RankResults(results []ThreatResult) []ThreatResult {
	ranked := make([]ThreatResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
	})

	return ranked
}

// NewQueryResponse packages ranked findings into the response envelope.
// TotalFound means "found to be a threat", not "retrieved" — it counts
// findings, never candidates.
func NewQueryResponse(query string, results []ThreatResult) *QueryResponse {
	if results == nil {
		results = []ThreatResult{}
	}
	return &QueryResponse{
		Query:      query,
		Results:    results,
		TotalFound: len(results),
	}
}
