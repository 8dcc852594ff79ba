package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/adapters/ingest"
	"github.com/threatscope/email-hunter/internal/config"
	"github.com/threatscope/email-hunter/internal/core"
	"github.com/threatscope/email-hunter/internal/dataset"
	"github.com/threatscope/email-hunter/internal/factory"
	"github.com/threatscope/email-hunter/internal/logging"
	"github.com/threatscope/email-hunter/internal/utils"
)

// BuildContainer creates and configures a dependency injection container for
// the long-running service
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	return registerPipeline(container)
}

// registerPipeline registers everything downstream of config and logger; the
// service and CLI containers differ only in how those two are created
func registerPipeline(container *dig.Container) (*dig.Container, error) {
	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewVectorStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register provider client and its two capability views
	if err := container.Provide(func(f *factory.LLMFactory) (factory.ProviderClient, error) {
		return f.CreateClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(client factory.ProviderClient) core.EmbeddingClient {
		return client
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(client factory.ProviderClient) core.CompletionClient {
		return client
	}); err != nil {
		return nil, err
	}

	// Register vector store
	if err := container.Provide(func(f *factory.VectorStoreFactory) (core.VectorStore, error) {
		return f.CreateVectorStore()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register retriever
	if err := container.Provide(func(store core.VectorStore, logger *zap.Logger) *core.Retriever {
		return core.NewRetriever(store, logger)
	}); err != nil {
		return nil, err
	}

	// Register batch classifier
	if err := container.Provide(func(
		completion core.CompletionClient,
		textProcessor *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.BatchClassifier {
		return core.NewBatchClassifier(completion, textProcessor, cfg.GetHunt().MaxBodySize, logger)
	}); err != nil {
		return nil, err
	}

	// Register hunt service
	if err := container.Provide(func(
		embedder core.EmbeddingClient,
		retriever *core.Retriever,
		classifier *core.BatchClassifier,
		cacheRepo core.CacheRepository,
		cacheFactory *factory.CacheFactory,
		logger *zap.Logger,
	) (*core.HuntService, error) {
		var ttl time.Duration
		enabled := cacheFactory.IsCacheEnabled()
		if enabled {
			var err error
			if ttl, err = cacheFactory.GetCacheTTL(); err != nil {
				return nil, err
			}
		}
		return core.NewHuntService(embedder, retriever, classifier, cacheRepo, enabled, ttl, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register ingest service
	if err := container.Provide(func(
		embedder core.EmbeddingClient,
		store core.VectorStore,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.IngestService {
		return core.NewIngestService(embedder, store, cfg.GetIngest().BatchSize, logger)
	}); err != nil {
		return nil, err
	}

	// Register dataset generator
	if err := container.Provide(func(
		completion core.CompletionClient,
		cfg *config.Config,
		logger *zap.Logger,
	) *dataset.Generator {
		return dataset.NewGenerator(completion, cfg.GetDataset().BatchSize, logger)
	}); err != nil {
		return nil, err
	}

	// Register SMTP ingestion server
	if err := container.Provide(func(
		service *core.IngestService,
		cfg *config.Config,
		logger *zap.Logger,
	) *ingest.Server {
		smtpCfg := cfg.GetIngest().SMTP
		return ingest.NewServer(service, logger, smtpCfg.ListenAddress, smtpCfg.Domain, smtpCfg.MaxMessageBytes)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
