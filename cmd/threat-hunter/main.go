package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/adapters/ingest"
	"github.com/threatscope/email-hunter/internal/config"
	"github.com/threatscope/email-hunter/internal/core"
	"github.com/threatscope/email-hunter/internal/di"
	"github.com/threatscope/email-hunter/internal/factory"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected.
// The service keeps the corpus fresh over SMTP; queries run through the hunt
// CLI against the shared store.
func run(
	logger *zap.Logger,
	cfg *config.Config,
	ingestService *core.IngestService,
	smtpServer *ingest.Server,
	providerClient factory.ProviderClient,
	cacheRepo core.CacheRepository,
	store core.VectorStore,
) error {
	defer logger.Sync()

	if count, err := ingestService.Count(context.Background()); err == nil {
		logger.Info("Vector store ready", zap.Int("emails", count))
	}

	smtpCfg := cfg.GetIngest().SMTP
	if !smtpCfg.Enabled {
		logger.Warn("SMTP ingestion is disabled; the service has nothing to do")
		return nil
	}

	if err := smtpServer.Start(); err != nil {
		logger.Fatal("Failed to start SMTP ingestion server", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := smtpServer.Stop(); err != nil {
		logger.Error("Failed to stop SMTP ingestion server", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := providerClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close provider client", zap.Error(err))
		}
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close vector store", zap.Error(err))
		}
	}
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
