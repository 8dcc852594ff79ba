package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/utils"
)

// fixedEmbedder returns the same vector for every text
type fixedEmbedder struct {
	vector []float32
}

func (e *fixedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.vector, nil
}

func (e *fixedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = e.vector
	}
	return vectors, nil
}

// failingEmbedder always errors
type failingEmbedder struct{}

func (e *failingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding service unavailable")
}

func (e *failingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding service unavailable")
}

// cannedStore serves pre-built search results, honoring the equality filter
type cannedStore struct {
	results []SearchResult
}

func (s *cannedStore) Upsert(ctx context.Context, docs []StoredDocument) error { return nil }

func (s *cannedStore) Query(ctx context.Context, vector []float32, limit int, filter EqualityFilter) ([]SearchResult, error) {
	matched := make([]SearchResult, 0, len(s.results))
	for _, result := range s.results {
		if result.Metadata.Matches(filter) {
			matched = append(matched, result)
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *cannedStore) Count(ctx context.Context) (int, error) { return len(s.results), nil }
func (s *cannedStore) Clear(ctx context.Context) error        { return nil }

// mapCache is an in-test cache with no expiry
type mapCache struct {
	entries map[string]*QueryResponse
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*QueryResponse)}
}

func (c *mapCache) Get(ctx context.Context, key string) (*QueryResponse, error) {
	if response, ok := c.entries[key]; ok {
		return response, nil
	}
	return nil, fmt.Errorf("not found")
}

func (c *mapCache) Set(ctx context.Context, key string, response *QueryResponse, ttl time.Duration) error {
	c.sets++
	c.entries[key] = response
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error { return nil }
func (c *mapCache) Cleanup(ctx context.Context) error            { return nil }

func storedResult(email Email, distance float64) SearchResult {
	return SearchResult{
		ID:       email.ID,
		Document: FormatDocument(&email),
		Metadata: email.Metadata(),
		Distance: distance,
	}
}

func newTestService(embedder EmbeddingClient, store VectorStore, completion CompletionClient, cache CacheRepository, cacheEnabled bool) *HuntService {
	logger := zap.NewNop()
	retriever := NewRetriever(store, logger)
	classifier := NewBatchClassifier(completion, utils.NewTextProcessor(logger), 4096, logger)
	return NewHuntService(embedder, retriever, classifier, cache, cacheEnabled, time.Hour, logger)
}

func TestRunQueryEndToEnd(t *testing.T) {
	phishing := Email{
		ID:             "email-bec",
		Sender:         "ceo.office.urgent@gmail.com",
		SenderName:     "The CEO",
		Recipient:      "finance@acme.com",
		Subject:        "URGENT wire transfer needed",
		Body:           "I need you to wire $45,000 to the account in the attached instructions. Do not tell anyone.",
		HasAttachment:  true,
		AttachmentName: "wire_instructions.pdf",
	}
	benign := Email{
		ID:         "email-lunch",
		Sender:     "alice.wong@acme.com",
		SenderName: "Alice Wong",
		Recipient:  "bob.smith@acme.com",
		Subject:    "Lunch on Thursday",
		Body:       "Want to try the new ramen place?",
	}

	store := &cannedStore{results: []SearchResult{
		storedResult(phishing, 0.12),
		storedResult(benign, 0.45),
	}}

	completion := &scriptedCompletion{response: `{
  "results": [
    {
      "emailId": "email-bec",
      "isRelevant": true,
      "confidenceScore": 0.92,
      "explanation": "Executive impersonation demanding an urgent wire transfer",
      "threatIndicators": ["urgency language", "free-mail sender", "secrecy request"]
    }
  ]
}`}

	service := newTestService(&fixedEmbedder{vector: []float32{0.1, 0.2}}, store, completion, nil, false)

	response, err := service.RunQuery(context.Background(), "urgent payment requests with attachment", 10)

	require.NoError(t, err)
	assert.Equal(t, 1, response.TotalFound)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "email-bec", response.Results[0].EmailID)
	// the body was reconstructed from the stored document text
	assert.Equal(t, phishing.Body, response.Results[0].Email.Body)
	// the attachment filter reached the store: the benign email never made
	// it into the classifier prompt
	assert.NotContains(t, completion.userPrompt, "email-lunch")
}

func TestRunQueryShortCircuitsOnNoCandidates(t *testing.T) {
	completion := &scriptedCompletion{response: `{"results": []}`}
	service := newTestService(&fixedEmbedder{vector: []float32{0.1}}, &cannedStore{}, completion, nil, false)

	response, err := service.RunQuery(context.Background(), "threats from gmail", 10)

	require.NoError(t, err)
	assert.Zero(t, response.TotalFound)
	assert.NotNil(t, response.Results)
	assert.Zero(t, completion.calls, "classifier must not be invoked with zero candidates")
}

func TestRunQueryDomainPostFilter(t *testing.T) {
	gmail := Email{ID: "email-g", Sender: "attacker@gmail.com", SenderName: "Attacker", Subject: "Account alert", Body: "Verify your account now."}
	lookalike := Email{ID: "email-evil", Sender: "user@evilgmail.com", SenderName: "Lookalike", Subject: "Account alert", Body: "Verify your account now."}

	store := &cannedStore{results: []SearchResult{
		storedResult(gmail, 0.1),
		storedResult(lookalike, 0.2),
	}}

	completion := &scriptedCompletion{response: `{
  "results": [
    {"emailId": "email-g", "isRelevant": true, "confidenceScore": 0.8, "explanation": "Credential harvest", "threatIndicators": ["verification pressure"]}
  ]
}`}

	service := newTestService(&fixedEmbedder{vector: []float32{0.1}}, store, completion, nil, false)

	response, err := service.RunQuery(context.Background(), "account alerts from gmail senders", 10)

	require.NoError(t, err)
	assert.Equal(t, 1, response.TotalFound)
	assert.NotContains(t, completion.userPrompt, "email-evil")
}

func TestRunQueryEmbeddingFailureIsFatal(t *testing.T) {
	service := newTestService(&failingEmbedder{}, &cannedStore{}, &scriptedCompletion{}, nil, false)

	_, err := service.RunQuery(context.Background(), "anything", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query")
}

func TestRunQueryDefaultsTopK(t *testing.T) {
	service := newTestService(&fixedEmbedder{vector: []float32{0.1}}, &cannedStore{}, &scriptedCompletion{response: `{"results": []}`}, nil, false)

	response, err := service.RunQuery(context.Background(), "anything", 0)

	require.NoError(t, err)
	assert.NotNil(t, response)
}

func TestRunQueryCache(t *testing.T) {
	email := Email{ID: "email-1", Sender: "x@gmail.com", SenderName: "X", Subject: "Hi", Body: "Click here."}
	store := &cannedStore{results: []SearchResult{storedResult(email, 0.1)}}
	completion := &scriptedCompletion{response: `{
  "results": [
    {"emailId": "email-1", "isRelevant": true, "confidenceScore": 0.6, "explanation": "Suspicious link", "threatIndicators": ["link"]}
  ]
}`}
	cache := newMapCache()
	service := newTestService(&fixedEmbedder{vector: []float32{0.1}}, store, completion, cache, true)

	first, err := service.RunQuery(context.Background(), "Suspicious   Links", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// same query modulo case and whitespace hits the cache
	second, err := service.RunQuery(context.Background(), "suspicious links", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, completion.calls)
	assert.Equal(t, 1, cache.sets)
}
