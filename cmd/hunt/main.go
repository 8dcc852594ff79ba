package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/config"
	"github.com/threatscope/email-hunter/internal/core"
	"github.com/threatscope/email-hunter/internal/dataset"
	"github.com/threatscope/email-hunter/internal/di"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches the requested CLI command
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	cfg *config.Config,
	generator *dataset.Generator,
	ingestService *core.IngestService,
	huntService *core.HuntService,
	store core.VectorStore,
) error {
	defer logger.Sync()
	ctx := context.Background()

	switch {
	case flags.Generate:
		return runGenerate(ctx, cfg, generator, logger)
	case flags.Ingest:
		return runIngest(ctx, cfg, ingestService, logger)
	case flags.Inspect:
		return runInspect(ctx, store, logger)
	case flags.Query != "":
		response, err := huntService.RunQuery(ctx, flags.Query, flags.TopK)
		if err != nil {
			return err
		}
		displayResults(response)
		return nil
	case flags.Interactive:
		return runInteractive(ctx, huntService, flags.TopK)
	default:
		printUsage()
		return nil
	}
}

func runGenerate(ctx context.Context, cfg *config.Config, generator *dataset.Generator, logger *zap.Logger) error {
	datasetCfg := cfg.GetDataset()

	emails, err := generator.GenerateCounts(ctx, datasetCfg.LegitimateCount, datasetCfg.PerTypeCount)
	if err != nil {
		return err
	}

	if err := dataset.SaveEmails(datasetCfg.OutputFile, emails); err != nil {
		return err
	}

	logger.Info("Dataset written",
		zap.String("file", datasetCfg.OutputFile),
		zap.Int("emails", len(emails)))
	return nil
}

func runIngest(ctx context.Context, cfg *config.Config, ingestService *core.IngestService, logger *zap.Logger) error {
	datasetCfg := cfg.GetDataset()

	emails, err := dataset.LoadEmails(datasetCfg.OutputFile)
	if err != nil {
		return fmt.Errorf("%w (run with -generate first to create the dataset)", err)
	}
	logger.Info("Loaded dataset",
		zap.String("file", datasetCfg.OutputFile),
		zap.Int("emails", len(emails)))

	return ingestService.IngestEmails(ctx, emails)
}

func runInspect(ctx context.Context, store core.VectorStore, logger *zap.Logger) error {
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Vector store contains %d emails\n", count)
	return nil
}

func runInteractive(ctx context.Context, huntService *core.HuntService, topK int) error {
	fmt.Println("Email Threat Hunting - Interactive Mode")
	fmt.Println("Type your queries to search for threats. Type \"exit\" to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Query: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(query, "exit") {
			fmt.Println("Goodbye!")
			break
		}
		if query == "" {
			continue
		}

		response, err := huntService.RunQuery(ctx, query, topK)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		displayResults(response)
	}

	return scanner.Err()
}

// displayResults prints a query response in a readable format
func displayResults(response *core.QueryResponse) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Query: %q\n", response.Query)
	fmt.Printf("Found %d threat(s)\n", response.TotalFound)
	fmt.Println(strings.Repeat("=", 80))

	if len(response.Results) == 0 {
		fmt.Println("\nNo threats detected matching your query.")
		fmt.Println()
		return
	}

	for i, result := range response.Results {
		fmt.Printf("\n[%d] Email ID: %s\n", i+1, result.EmailID)
		fmt.Printf("    Confidence: %.1f%%\n", result.ConfidenceScore*100)
		fmt.Printf("    From: %s <%s>\n", result.Email.SenderName, result.Email.Sender)
		fmt.Printf("    Subject: %s\n", result.Email.Subject)
		fmt.Printf("    Date: %s\n", result.Email.Timestamp.Format("2006-01-02 15:04"))
		fmt.Printf("    Explanation: %s\n", result.Explanation)
		fmt.Println("    Threat Indicators:")
		for _, indicator := range result.ThreatIndicators {
			fmt.Printf("      - %s\n", indicator)
		}
	}
	fmt.Println()
}

func printUsage() {
	fmt.Println("Email Threat Hunting CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hunt -generate               Generate a synthetic email dataset")
	fmt.Println("  hunt -ingest                 Ingest the dataset into the vector store")
	fmt.Println("  hunt -query \"...\"            Run a single threat hunting query")
	fmt.Println("  hunt -interactive            Start interactive query mode")
	fmt.Println("  hunt -inspect                Inspect the vector store contents")
	fmt.Println()
	fmt.Println("Run hunt -h for the full flag list.")
}
