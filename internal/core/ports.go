package core

import (
	"context"
	"time"
)

// EmbeddingClient defines the interface for text embedding providers
type EmbeddingClient interface {
	// EmbedText generates an embedding vector for a single text
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embedding vectors for multiple texts in one call
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionClient defines the interface for text completion providers
type CompletionClient interface {
	// Complete returns the raw completion for a user prompt. The system
	// prompt may be empty. The response carries no structural guarantees.
	Complete(ctx context.Context, userPrompt string, systemPrompt string) (string, error)
}

// VectorStore defines the interface for the email vector store. Its query
// language supports only equality predicates; anything richer is applied
// post-retrieval by the pipeline.
type VectorStore interface {
	// Upsert inserts or replaces embedded documents by id
	Upsert(ctx context.Context, docs []StoredDocument) error

	// Query returns up to limit matches for the vector, ordered by ascending
	// distance, restricted to metadata satisfying the filter
	Query(ctx context.Context, vector []float32, limit int, filter EqualityFilter) ([]SearchResult, error)

	// Count returns the number of stored documents
	Count(ctx context.Context) (int, error)

	// Clear removes all stored documents
	Clear(ctx context.Context) error
}

// CacheRepository defines the interface for caching hunt query responses
type CacheRepository interface {
	// Get retrieves a cached response for a query key
	Get(ctx context.Context, key string) (*QueryResponse, error)

	// Set stores a response under a query key with a TTL
	Set(ctx context.Context, key string, response *QueryResponse, ttl time.Duration) error

	// Delete removes a cached response
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
