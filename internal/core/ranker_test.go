package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankResults(t *testing.T) {
	results := []ThreatResult{
		{EmailID: "a", ConfidenceScore: 0.3},
		{EmailID: "b", ConfidenceScore: 0.9},
		{EmailID: "c", ConfidenceScore: 0.6},
	}

	ranked := RankResults(results)

	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].EmailID)
	assert.Equal(t, "c", ranked[1].EmailID)
	assert.Equal(t, "a", ranked[2].EmailID)

	// input order untouched
	assert.Equal(t, "a", results[0].EmailID)
}

func TestRankResultsStableTies(t *testing.T) {
	results := []ThreatResult{
		{EmailID: "first", ConfidenceScore: 0.5},
		{EmailID: "second", ConfidenceScore: 0.5},
		{EmailID: "third", ConfidenceScore: 0.5},
	}

	ranked := RankResults(results)

	assert.Equal(t, "first", ranked[0].EmailID)
	assert.Equal(t, "second", ranked[1].EmailID)
	assert.Equal(t, "third", ranked[2].EmailID)
}

func TestNewQueryResponse(t *testing.T) {
	results := []ThreatResult{{EmailID: "a"}, {EmailID: "b"}}

	response := NewQueryResponse("urgent payments", results)

	assert.Equal(t, "urgent payments", response.Query)
	assert.Equal(t, 2, response.TotalFound)
	assert.Equal(t, results, response.Results)
}

func TestNewQueryResponseNilResults(t *testing.T) {
	response := NewQueryResponse("anything", nil)

	assert.NotNil(t, response.Results)
	assert.Empty(t, response.Results)
	assert.Zero(t, response.TotalFound)
}
