package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTopK is the result count used when the caller does not request one
const DefaultTopK = 10

// HuntService is the core retrieval-and-classification pipeline: it turns a
// natural-language threat hunting query into a ranked set of findings.
type HuntService struct {
	embedder     EmbeddingClient
	retriever    *Retriever
	classifier   *BatchClassifier
	cache        CacheRepository
	cacheEnabled bool
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewHuntService creates a new threat hunting service
func NewHuntService(
	embedder EmbeddingClient,
	retriever *Retriever,
	classifier *BatchClassifier,
	cache CacheRepository,
	cacheEnabled bool,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *HuntService {
	return &HuntService{
		embedder:     embedder,
		retriever:    retriever,
		classifier:   classifier,
		cache:        cache,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// RunQuery executes the full pipeline for one query: filter extraction,
// query embedding, vector retrieval, domain post-filtering, batch
// classification and ranking.
//
// Embedding and store failures are fatal for the query; classification
// failures degrade to an empty result set. Zero retrieved candidates
// short-circuit before the classifier so no completion call is wasted.
func (s *HuntService) RunQuery(ctx context.Context, query string, topK int) (*QueryResponse, error) {
	if topK < 1 {
		topK = DefaultTopK
	}

	s.logger.Info("Running threat hunting query",
		zap.String("query", query),
		zap.Int("top_k", topK))

	cacheKey := queryCacheKey(query, topK)
	if s.cacheEnabled {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			s.logger.Debug("Cache hit for query", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	filters := ParseFilters(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.retriever.Retrieve(ctx, embedding, topK, filters)
	if err != nil {
		return nil, err
	}

	matches = FilterByDomain(matches, filters.SenderDomain, topK)

	if len(matches) == 0 {
		s.logger.Info("No candidates retrieved", zap.String("query", query))
		return NewQueryResponse(query, nil), nil
	}

	emails := make([]Email, len(matches))
	for i, match := range matches {
		emails[i] = match.Metadata.ToEmail(ExtractBody(match.Document))
	}

	s.logger.Debug("Classifying candidates", zap.Int("candidates", len(emails)))
	results := s.classifier.Classify(ctx, emails, query)

	response := NewQueryResponse(query, RankResults(results))

	s.logger.Info("Query complete",
		zap.Int("candidates", len(emails)),
		zap.Int("findings", response.TotalFound))

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, cacheKey, response, s.cacheTTL); err != nil {
			s.logger.Error("Failed to update query cache", zap.Error(err))
		}
	}

	return response, nil
}

// queryCacheKey normalizes a query into a cache key. Whitespace and case
// differences should not cause distinct cache entries.
func queryCacheKey(query string, topK int) string {
	return fmt.Sprintf("%d:%s", topK, strings.ToLower(strings.Join(strings.Fields(query), " ")))
}
