package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// domainOverfetchFactor inflates the fetch size when a concrete sender-domain
// filter will be applied after retrieval, so enough candidates survive the
// in-memory pass to fill the requested result count.
const domainOverfetchFactor = 3

// Retriever wraps the vector store's similarity search with the filter
// handling the store cannot do itself
type Retriever struct {
	store  VectorStore
	logger *zap.Logger
}

// NewRetriever creates a new retriever over the given vector store
func NewRetriever(store VectorStore, logger *zap.Logger) *Retriever {
	return &Retriever{
		store:  store,
		logger: logger,
	}
}

// Retrieve fetches the top candidates for a query embedding. Equality
// predicates go to the store; a concrete domain filter only inflates the
// fetch size here and is enforced later by FilterByDomain. A nil result from
// the store is returned as an empty slice, never an error.
func (r *Retriever) Retrieve(ctx context.Context, embedding []float32, topK int, filters QueryFilters) ([]SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be >= 1, got %d", topK)
	}

	limit := topK
	if filters.HasConcreteDomain() {
		limit = topK * domainOverfetchFactor
		r.logger.Debug("Inflating fetch size for domain post-filter",
			zap.String("domain", filters.SenderDomain),
			zap.Int("top_k", topK),
			zap.Int("limit", limit))
	}

	results, err := r.store.Query(ctx, embedding, limit, filters.StoreFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	if results == nil {
		return []SearchResult{}, nil
	}

	return results, nil
}
