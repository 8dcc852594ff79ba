package vectorstore

import (
	"math"
)

// cosineDistance returns 1 - cosine similarity, so 0 means an exact match
// and larger means less similar. Vectors of mismatched dimension or zero
// magnitude report ok=false and are skipped by callers instead of raising.
func cosineDistance(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), true
}
