package llmclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

////////////////////////////////////////////////////////////////////////////////

const (
	DEFAULT_EMBEDDING_MODEL = "text-embedding-3-small"
	DEFAULT_CHAT_MODEL      = "gpt-4o-mini"
)

var (
	ErrMissingAPIKey = errors.New("missing LLM API key")
	ErrEmptyResponse = errors.New("empty response from LLM")
)

type Config struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
}

// Prompt is one chat completion request: a system message, a user message and
// the sampling settings for this call.
type Prompt struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

////////////////////////////////////////////////////////////////////////////////

type client struct {
	llm      *openai.LLM
	embedder *embeddings.EmbedderImpl
	logger   *log.Entry
}

func New(cfg Config) (*client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DEFAULT_EMBEDDING_MODEL
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DEFAULT_CHAT_MODEL
	}

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.APIKey, "Bearer ")),
		openai.WithModel(cfg.ChatModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &client{
		llm:      llm,
		embedder: embedder,
		logger:   log.WithField("service", "llm_client"),
	}, nil
}

////////////////////////////////////////////////////////////////////////////////

// Embed returns the embedding vector for text.
func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if len(vector) == 0 {
		return nil, ErrEmptyResponse
	}
	return vector, nil
}

// Complete runs one chat completion and returns the trimmed reply.
func (c *client) Complete(ctx context.Context, p Prompt) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, p.System),
		llms.TextParts(llms.ChatMessageTypeHuman, p.User),
	}

	opts := []llms.CallOption{llms.WithTemperature(p.Temperature)}
	if p.Model != "" {
		opts = append(opts, llms.WithModel(p.Model))
	}
	if p.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(p.MaxTokens))
	}

	c.logger.WithFields(log.Fields{
		"model":       p.Model,
		"temperature": p.Temperature,
	}).Debug("requesting chat completion")

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
