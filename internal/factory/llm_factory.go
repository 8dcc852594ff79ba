package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/adapters/bedrock"
	"github.com/threatscope/email-hunter/internal/adapters/gemini"
	"github.com/threatscope/email-hunter/internal/adapters/openai"
	"github.com/threatscope/email-hunter/internal/config"
	"github.com/threatscope/email-hunter/internal/core"
)

// ProviderClient bundles the two capabilities every configured provider
// offers: embedding and completion
type ProviderClient interface {
	core.EmbeddingClient
	core.CompletionClient
}

// LLMFactory creates provider clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a provider client based on the configuration
func (f *LLMFactory) CreateClient() (ProviderClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger)
		return factory.CreateClient()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger)
		return factory.CreateClient()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger)
		return factory.CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
