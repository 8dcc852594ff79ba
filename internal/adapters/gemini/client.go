package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Client implements the embedding and completion capabilities using Google
// Gemini
type Client struct {
	client         *genai.Client
	model          *genai.GenerativeModel
	embedder       *genai.EmbeddingModel
	modelName      string
	embeddingModel string
	logger         *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(
	client *genai.Client,
	modelName string,
	embeddingModel string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Client {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:         client,
		model:          model,
		embedder:       client.EmbeddingModel(embeddingModel),
		modelName:      modelName,
		embeddingModel: embeddingModel,
		logger:         logger,
	}
}

// Close closes the underlying Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Complete returns the raw completion for the prompts. Gemini has no
// separate system role on this API surface, so the system prompt is folded
// into the request text.
func (c *Client) Complete(ctx context.Context, userPrompt string, systemPrompt string) (string, error) {
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// EmbedText generates an embedding vector for a single text
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content with Gemini: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding from Gemini model %s", c.embeddingModel)
	}
	return resp.Embedding.Values, nil
}

// EmbedTexts generates embedding vectors for multiple texts in one batch call
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	batch := c.embedder.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := c.embedder.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to batch embed contents with Gemini: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		embeddings[i] = embedding.Values
	}

	return embeddings, nil
}
