package vectorstore

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/core"
)

// MemoryStore is an in-memory implementation of the VectorStore interface.
// Similarity search is a brute-force cosine scan, which is plenty for
// corpora of a few thousand emails and keeps tests hermetic.
type MemoryStore struct {
	docs   map[string]core.StoredDocument
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory vector store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string]core.StoredDocument),
		logger: logger,
	}
}

// Upsert inserts or replaces embedded documents by id
func (s *MemoryStore) Upsert(ctx context.Context, docs []core.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}

	s.logger.Debug("Upserted documents", zap.Int("count", len(docs)))
	return nil
}

// Query returns up to limit matches ordered by ascending cosine distance.
// Documents failing the equality filter, or whose stored vector cannot be
// compared against the query vector, are skipped rather than reported as
// errors.
func (s *MemoryStore) Query(ctx context.Context, vector []float32, limit int, filter core.EqualityFilter) ([]core.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]core.SearchResult, 0, len(s.docs))
	for _, doc := range s.docs {
		if len(filter) > 0 && !doc.Metadata.Matches(filter) {
			continue
		}
		distance, ok := cosineDistance(vector, doc.Embedding)
		if !ok {
			s.logger.Warn("Skipping document with incomparable embedding",
				zap.String("id", doc.ID),
				zap.Int("dimension", len(doc.Embedding)))
			continue
		}
		results = append(results, core.SearchResult{
			ID:       doc.ID,
			Document: doc.Document,
			Metadata: doc.Metadata,
			Distance: distance,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Count returns the number of stored documents
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Clear removes all stored documents
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]core.StoredDocument)
	return nil
}
