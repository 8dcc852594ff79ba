package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/config"
	"github.com/threatscope/email-hunter/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// OpenAI flags
	OpenAIAPIKey         string
	OpenAIModelName      string
	OpenAIEmbeddingModel string

	// Bedrock flags
	BedrockRegion           string
	BedrockModelID          string
	BedrockEmbeddingModelID string

	// Gemini flags
	GeminiAPIKey         string
	GeminiModelName      string
	GeminiEmbeddingModel string

	// Vector store flags
	StoreType  string
	SQLitePath string

	// Dataset flags
	DataFile        string
	LegitimateCount int
	PerTypeCount    int

	// Command flags
	Generate    bool
	Ingest      bool
	Inspect     bool
	Interactive bool
	Query       string
	TopK        int

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	flag.StringVar(&flags.Provider, "provider", "openai", "LLM provider (openai, bedrock, gemini)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 2000, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.7, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 4096, "Maximum email body size to send to LLM")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o", "OpenAI model name")
	flag.StringVar(&flags.OpenAIEmbeddingModel, "openai-embedding-model", "text-embedding-3-small", "OpenAI embedding model")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")
	flag.StringVar(&flags.BedrockEmbeddingModelID, "bedrock-embedding-model", "amazon.titan-embed-text-v1", "Bedrock embedding model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")
	flag.StringVar(&flags.GeminiEmbeddingModel, "gemini-embedding-model", "text-embedding-004", "Gemini embedding model")

	// Vector store flags
	flag.StringVar(&flags.StoreType, "store", "sqlite", "Vector store type (memory, sqlite)")
	flag.StringVar(&flags.SQLitePath, "store-path", "./data/email_vectors.db", "Path to the SQLite vector store")

	// Dataset flags
	flag.StringVar(&flags.DataFile, "data-file", "./data/emails.json", "Path to the email dataset file")
	flag.IntVar(&flags.LegitimateCount, "legitimate-count", 60, "Number of legitimate emails to generate")
	flag.IntVar(&flags.PerTypeCount, "per-type-count", 10, "Number of phishing emails to generate per category")

	// Command flags
	flag.BoolVar(&flags.Generate, "generate", false, "Generate a synthetic email dataset")
	flag.BoolVar(&flags.Ingest, "ingest", false, "Ingest the dataset into the vector store")
	flag.BoolVar(&flags.Inspect, "inspect", false, "Inspect the vector store contents")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start interactive query mode")
	flag.StringVar(&flags.Query, "query", "", "Run a single threat hunting query")
	flag.IntVar(&flags.TopK, "top-k", 10, "Number of candidates to retrieve")

	// Output flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	return registerPipeline(container)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.embedding_model", flags.OpenAIEmbeddingModel)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.embedding_model_id", flags.BedrockEmbeddingModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.embedding_model", flags.GeminiEmbeddingModel)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	}

	// Set hunt and store configuration
	v.Set("hunt.top_k", flags.TopK)
	v.Set("hunt.max_body_size", flags.MaxBodySize)
	v.Set("vectorstore.type", flags.StoreType)
	v.Set("vectorstore.sqlite_path", flags.SQLitePath)
	v.Set("dataset.output_file", flags.DataFile)
	v.Set("dataset.legitimate_count", flags.LegitimateCount)
	v.Set("dataset.per_type_count", flags.PerTypeCount)

	return config.NewFromViper(v)
}
