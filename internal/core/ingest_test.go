package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingEmbedder records batch sizes and embeds each text as a unit vector
type countingEmbedder struct {
	batchSizes []int
}

func (e *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (e *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.batchSizes = append(e.batchSizes, len(texts))
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

// mismatchEmbedder returns one vector too few
type mismatchEmbedder struct{}

func (e *mismatchEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (e *mismatchEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)-1), nil
}

// collectingStore records every upserted document
type collectingStore struct {
	docs []StoredDocument
	err  error
}

func (s *collectingStore) Upsert(ctx context.Context, docs []StoredDocument) error {
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, docs...)
	return nil
}

func (s *collectingStore) Query(ctx context.Context, vector []float32, limit int, filter EqualityFilter) ([]SearchResult, error) {
	return nil, nil
}

func (s *collectingStore) Count(ctx context.Context) (int, error) { return len(s.docs), nil }
func (s *collectingStore) Clear(ctx context.Context) error {
	s.docs = nil
	return nil
}

func ingestCorpus(n int) []Email {
	emails := make([]Email, n)
	for i := range emails {
		emails[i] = Email{
			ID:         fmt.Sprintf("email-%d", i),
			Sender:     "sender@acme.com",
			SenderName: "Sender",
			Subject:    fmt.Sprintf("Subject %d", i),
			Body:       fmt.Sprintf("Body %d", i),
		}
	}
	return emails
}

func TestIngestEmailsBatches(t *testing.T) {
	embedder := &countingEmbedder{}
	store := &collectingStore{}
	service := NewIngestService(embedder, store, 4, zap.NewNop())

	err := service.IngestEmails(context.Background(), ingestCorpus(10))
	require.NoError(t, err)

	assert.Equal(t, []int{4, 4, 2}, embedder.batchSizes)
	require.Len(t, store.docs, 10)

	// stored documents carry the formatted text and the body-free metadata
	assert.Equal(t, "email-0", store.docs[0].ID)
	assert.Contains(t, store.docs[0].Document, "Subject: Subject 0")
	assert.Equal(t, "Body 0", ExtractBody(store.docs[0].Document))
}

func TestIngestEmailsEmptyCorpus(t *testing.T) {
	embedder := &countingEmbedder{}
	service := NewIngestService(embedder, &collectingStore{}, 4, zap.NewNop())

	require.NoError(t, service.IngestEmails(context.Background(), nil))
	assert.Empty(t, embedder.batchSizes)
}

func TestIngestEmailsEmbeddingMismatch(t *testing.T) {
	service := NewIngestService(&mismatchEmbedder{}, &collectingStore{}, 4, zap.NewNop())

	err := service.IngestEmails(context.Background(), ingestCorpus(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}

func TestIngestEmailsStoreFailureAborts(t *testing.T) {
	store := &collectingStore{err: fmt.Errorf("disk full")}
	service := NewIngestService(&countingEmbedder{}, store, 4, zap.NewNop())

	err := service.IngestEmails(context.Background(), ingestCorpus(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert batch")
}

func TestIngestServiceCountAndReset(t *testing.T) {
	store := &collectingStore{}
	service := NewIngestService(&countingEmbedder{}, store, 4, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, service.IngestEmails(ctx, ingestCorpus(3)))

	count, err := service.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, service.Reset(ctx))
	count, err = service.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
