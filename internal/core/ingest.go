package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// defaultEmbedBatchSize keeps embedding requests within provider limits
const defaultEmbedBatchSize = 10

// IngestService loads emails into the vector store: each email is formatted
// into its document text, embedded, and upserted with its metadata.
type IngestService struct {
	embedder  EmbeddingClient
	store     VectorStore
	batchSize int
	logger    *zap.Logger
}

// NewIngestService creates a new ingestion service. A batchSize < 1 falls
// back to the default.
func NewIngestService(embedder EmbeddingClient, store VectorStore, batchSize int, logger *zap.Logger) *IngestService {
	if batchSize < 1 {
		batchSize = defaultEmbedBatchSize
	}
	return &IngestService{
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

// IngestEmails embeds and stores a set of emails in batches. An embedding or
// store failure aborts the run: a partially ingested corpus is surfaced to
// the caller rather than silently accepted.
func (s *IngestService) IngestEmails(ctx context.Context, emails []Email) error {
	if len(emails) == 0 {
		return nil
	}

	total := (len(emails) + s.batchSize - 1) / s.batchSize
	for i := 0; i < len(emails); i += s.batchSize {
		end := i + s.batchSize
		if end > len(emails) {
			end = len(emails)
		}
		batch := emails[i:end]

		s.logger.Info("Ingesting batch",
			zap.Int("batch", i/s.batchSize+1),
			zap.Int("batches", total),
			zap.Int("size", len(batch)))

		texts := make([]string, len(batch))
		for j := range batch {
			texts[j] = FormatDocument(&batch[j])
		}

		embeddings, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch starting at index %d: %w", i, err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d for %d texts", len(embeddings), len(batch))
		}

		docs := make([]StoredDocument, len(batch))
		for j := range batch {
			docs[j] = StoredDocument{
				ID:        batch[j].ID,
				Embedding: embeddings[j],
				Document:  texts[j],
				Metadata:  batch[j].Metadata(),
			}
		}

		if err := s.store.Upsert(ctx, docs); err != nil {
			return fmt.Errorf("failed to upsert batch starting at index %d: %w", i, err)
		}
	}

	s.logger.Info("Ingestion complete", zap.Int("emails", len(emails)))
	return nil
}

// IngestEmail embeds and stores a single email
func (s *IngestService) IngestEmail(ctx context.Context, email Email) error {
	return s.IngestEmails(ctx, []Email{email})
}

// Count returns the number of emails in the store
func (s *IngestService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Reset removes every email from the store
func (s *IngestService) Reset(ctx context.Context) error {
	return s.store.Clear(ctx)
}
