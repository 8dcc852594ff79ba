package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/core"
)

// SQLiteStore is a SQLite-backed implementation of the VectorStore
// interface. Embeddings and metadata are stored as JSON; similarity search
// loads candidate rows and scores them in process, since SQLite has no
// native vector operator.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite vector store at the given path
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS email_vectors (
			id TEXT PRIMARY KEY,
			embedding TEXT NOT NULL,
			document TEXT NOT NULL,
			metadata TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces embedded documents by id
func (s *SQLiteStore) Upsert(ctx context.Context, docs []core.StoredDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO email_vectors (id, embedding, document, metadata)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		embedding, err := json.Marshal(doc.Embedding)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding for %s: %w", doc.ID, err)
		}
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, string(embedding), doc.Document, string(metadata)); err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Upserted documents", zap.Int("count", len(docs)))
	return nil
}

// Query returns up to limit matches ordered by ascending cosine distance.
// Rows that fail to decode, or whose stored vector cannot be compared
// against the query vector, are skipped rather than reported as errors.
func (s *SQLiteStore) Query(ctx context.Context, vector []float32, limit int, filter core.EqualityFilter) ([]core.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding, document, metadata FROM email_vectors`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer rows.Close()

	var results []core.SearchResult
	for rows.Next() {
		var id, embeddingJSON, document, metadataJSON string
		if err := rows.Scan(&id, &embeddingJSON, &document, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var embedding []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &embedding); err != nil {
			s.logger.Warn("Skipping row with undecodable embedding",
				zap.String("id", id), zap.Error(err))
			continue
		}
		var metadata core.EmailMetadata
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			s.logger.Warn("Skipping row with undecodable metadata",
				zap.String("id", id), zap.Error(err))
			continue
		}

		if len(filter) > 0 && !metadata.Matches(filter) {
			continue
		}
		distance, ok := cosineDistance(vector, embedding)
		if !ok {
			s.logger.Warn("Skipping row with incomparable embedding",
				zap.String("id", id),
				zap.Int("dimension", len(embedding)))
			continue
		}

		results = append(results, core.SearchResult{
			ID:       id,
			Document: document,
			Metadata: metadata,
			Distance: distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
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
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_vectors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return count, nil
}

// Clear removes all stored documents
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM email_vectors`); err != nil {
		return fmt.Errorf("failed to clear vectors: %w", err)
	}
	return nil
}
