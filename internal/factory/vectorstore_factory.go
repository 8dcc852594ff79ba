package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/adapters/vectorstore"
	"github.com/threatscope/email-hunter/internal/config"
	"github.com/threatscope/email-hunter/internal/core"
)

// VectorStoreFactory creates vector stores based on configuration
type VectorStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewVectorStoreFactory creates a new vector store factory
func NewVectorStoreFactory(cfg *config.Config, logger *zap.Logger) *VectorStoreFactory {
	return &VectorStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateVectorStore creates a vector store based on the configuration
func (f *VectorStoreFactory) CreateVectorStore() (core.VectorStore, error) {
	storeCfg := f.cfg.GetVectorStore()

	switch storeCfg.Type {
	case "memory":
		return vectorstore.NewMemoryStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return vectorstore.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported vector store type: %s", storeCfg.Type)
	}
}
