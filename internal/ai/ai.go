package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"fitpro/internal/metrics"
)

// Embedder turns text into fixed-length vectors. Vectors from the same model
// must be comparable by inner product.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds model client configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	EmbedModel   string
	GenModel     string
	EmbedTimeout time.Duration
	GenTimeout   time.Duration
}

// Client talks to an OpenAI-compatible API for embeddings and generation.
type Client struct {
	client     *openai.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	embedModel string
	genModel   string
	embedTO    time.Duration
	genTO      time.Duration
}

var (
	_ Embedder  = (*Client)(nil)
	_ Generator = (*Client)(nil)
)

// NewClient creates an OpenAI-compatible model client.
func NewClient(cfg Config, m *metrics.Metrics, logger *slog.Logger) *Client {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)
	return &Client{
		client:     &client,
		logger:     logger.With("component", "ai"),
		metrics:    m,
		embedModel: cfg.EmbedModel,
		genModel:   cfg.GenModel,
		embedTO:    cfg.EmbedTimeout,
		genTO:      cfg.GenTimeout,
	}
}

// Embed returns the embedding vector for a single input.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.embedTO)
	defer cancel()

	start := time.Now()
	embedding, err := c.client.Embeddings.New(reqCtx, openai.EmbeddingNewParams{
		Model: c.embedModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: param.Opt[string]{Value: text},
		},
	})
	c.observeEmbed(start, err)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(embedding.Data) == 0 {
		return nil, fmt.Errorf("embed: empty response")
	}
	return embedding.Data[0].Embedding, nil
}

// EmbedBatch embeds several inputs in one call, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.embedTO)
	defer cancel()

	start := time.Now()
	embedding, err := c.client.Embeddings.New(reqCtx, openai.EmbeddingNewParams{
		Model: c.embedModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	c.observeEmbed(start, err)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(embedding.Data) != len(texts) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d inputs", len(embedding.Data), len(texts))
	}
	vectors := make([][]float64, 0, len(embedding.Data))
	for _, d := range embedding.Data {
		vectors = append(vectors, d.Embedding)
	}
	return vectors, nil
}

// Generate runs a single-turn completion and returns the text content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.genTO)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: c.genModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("generate: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) observeEmbed(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.EmbedLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
