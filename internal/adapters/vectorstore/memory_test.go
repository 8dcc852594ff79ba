package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/core"
)

func testDoc(id string, embedding []float32, hasAttachment bool) core.StoredDocument {
	return core.StoredDocument{
		ID:        id,
		Embedding: embedding,
		Document:  "From: Test <test@acme.com>\nSubject: Test\nBody for " + id,
		Metadata: core.EmailMetadata{
			ID:            id,
			Sender:        "test@acme.com",
			HasAttachment: hasAttachment,
		},
	}
}

func TestMemoryStoreUpsertAndCount(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	err := store.Upsert(ctx, []core.StoredDocument{
		testDoc("a", []float32{1, 0}, false),
		testDoc("b", []float32{0, 1}, false),
	})
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// upserting an existing id replaces, not duplicates
	err = store.Upsert(ctx, []core.StoredDocument{testDoc("a", []float32{0.5, 0.5}, true)})
	require.NoError(t, err)

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStoreQueryOrdering(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []core.StoredDocument{
		testDoc("exact", []float32{1, 0}, false),
		testDoc("close", []float32{0.9, 0.1}, false),
		testDoc("far", []float32{0, 1}, false),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "exact", results[0].ID)
	assert.Equal(t, "close", results[1].ID)
	assert.Equal(t, "far", results[2].ID)
	assert.InDelta(t, 0, results[0].Distance, 1e-9)
	assert.True(t, results[0].Distance <= results[1].Distance)
	assert.True(t, results[1].Distance <= results[2].Distance)
}

func TestMemoryStoreQueryLimit(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []core.StoredDocument{
		testDoc("a", []float32{1, 0}, false),
		testDoc("b", []float32{0.9, 0.1}, false),
		testDoc("c", []float32{0, 1}, false),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryStoreQueryEqualityFilter(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []core.StoredDocument{
		testDoc("with", []float32{1, 0}, true),
		testDoc("without", []float32{1, 0}, false),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 10, core.EqualityFilter{"hasAttachment": true})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "with", results[0].ID)
}

func TestMemoryStoreQuerySkipsIncomparableEmbeddings(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []core.StoredDocument{
		testDoc("good", []float32{1, 0}, false),
		testDoc("wrong-dim", []float32{1, 0, 0}, false),
		testDoc("zero", []float32{0, 0}, false),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].ID)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []core.StoredDocument{testDoc("a", []float32{1, 0}, false)}))
	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
		ok       bool
	}{
		{name: "identical", a: []float32{1, 0}, b: []float32{1, 0}, expected: 0, ok: true},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, expected: 1, ok: true},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, expected: 2, ok: true},
		{name: "dimension mismatch", a: []float32{1, 0}, b: []float32{1}, ok: false},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, ok: false},
		{name: "both empty", a: nil, b: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance, ok := cosineDistance(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, distance, 1e-9)
			}
		})
	}
}
