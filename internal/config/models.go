package config

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey         string
	ModelName      string
	EmbeddingModel string
	MaxTokens      int
	Temperature    float32
	TopP           float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region           string
	ModelID          string
	EmbeddingModelID string
	MaxTokens        int
	Temperature      float32
	TopP             float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey         string
	ModelName      string
	EmbeddingModel string
	MaxTokens      int
	Temperature    float32
	TopP           float32
}

// HuntConfig represents the configuration for the hunt pipeline
type HuntConfig struct {
	TopK        int
	MaxBodySize int
}

// VectorStoreConfig represents the configuration for the vector store
type VectorStoreConfig struct {
	Type       string
	SQLitePath string
}

// SMTPIngestConfig represents the configuration for the SMTP ingestion server
type SMTPIngestConfig struct {
	Enabled         bool
	ListenAddress   string
	Domain          string
	MaxMessageBytes int
}

// IngestConfig represents the configuration for corpus ingestion
type IngestConfig struct {
	BatchSize int
	SMTP      SMTPIngestConfig
}

// DatasetConfig represents the configuration for synthetic dataset generation
type DatasetConfig struct {
	OutputFile      string
	LegitimateCount int
	PerTypeCount    int
	BatchSize       int
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:         c.GetString("openai.api_key"),
		ModelName:      c.GetString("openai.model_name"),
		EmbeddingModel: c.GetString("openai.embedding_model"),
		MaxTokens:      c.GetInt("openai.max_tokens"),
		Temperature:    float32(c.GetFloat64("openai.temperature")),
		TopP:           float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:           c.GetString("bedrock.region"),
		ModelID:          c.GetString("bedrock.model_id"),
		EmbeddingModelID: c.GetString("bedrock.embedding_model_id"),
		MaxTokens:        c.GetInt("bedrock.max_tokens"),
		Temperature:      float32(c.GetFloat64("bedrock.temperature")),
		TopP:             float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:         c.GetString("gemini.api_key"),
		ModelName:      c.GetString("gemini.model_name"),
		EmbeddingModel: c.GetString("gemini.embedding_model"),
		MaxTokens:      c.GetInt("gemini.max_tokens"),
		Temperature:    float32(c.GetFloat64("gemini.temperature")),
		TopP:           float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetHunt returns the hunt pipeline configuration
func (c *Config) GetHunt() HuntConfig {
	return HuntConfig{
		TopK:        c.GetInt("hunt.top_k"),
		MaxBodySize: c.GetInt("hunt.max_body_size"),
	}
}

// GetVectorStore returns the vector store configuration
func (c *Config) GetVectorStore() VectorStoreConfig {
	return VectorStoreConfig{
		Type:       c.GetString("vectorstore.type"),
		SQLitePath: c.GetString("vectorstore.sqlite_path"),
	}
}

// GetIngest returns the ingestion configuration
func (c *Config) GetIngest() IngestConfig {
	return IngestConfig{
		BatchSize: c.GetInt("ingest.batch_size"),
		SMTP: SMTPIngestConfig{
			Enabled:         c.GetBool("ingest.smtp.enabled"),
			ListenAddress:   c.GetString("ingest.smtp.listen_address"),
			Domain:          c.GetString("ingest.smtp.domain"),
			MaxMessageBytes: c.GetInt("ingest.smtp.max_message_bytes"),
		},
	}
}

// GetDataset returns the dataset generation configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		OutputFile:      c.GetString("dataset.output_file"),
		LegitimateCount: c.GetInt("dataset.legitimate_count"),
		PerTypeCount:    c.GetInt("dataset.per_type_count"),
		BatchSize:       c.GetInt("dataset.batch_size"),
	}
}
