package agent

import (
	"context"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/llmclient"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatModel answers a single prompt.
type ChatModel interface {
	Complete(ctx context.Context, p llmclient.Prompt) (string, error)
}

// VectorStore stores texts with their embeddings and finds the closest ones.
type VectorStore interface {
	Insert(ctx context.Context, text string, vector []float32) error
	Query(ctx context.Context, vector []float32, maxResults int) ([]model.SimilarityResult, error)
}

// MarketData looks up a coin by name or symbol.
type MarketData interface {
	GetCoinInfo(ctx context.Context, name string) (*model.MarketSnapshot, error)
}

type EmbeddingRepo interface {
	Create(ctx context.Context, db *sqlx.DB, text string) (*model.Embedding, error)
}

type ConversationRepo interface {
	Create(ctx context.Context, db *sqlx.DB, conv *model.Conversation) error
	ListRecent(ctx context.Context, db *sqlx.DB, limit int) ([]model.Conversation, error)
}

////////////////////////////////////////////////////////////////////////////////

type Config struct {
	AnswerModel       string
	AnswerTemperature float64

	ExtractionModel       string
	ExtractionTemperature float64
	ExtractionMaxTokens   int
}

func DefaultConfig() Config {
	return Config{
		AnswerModel:           llmclient.DEFAULT_CHAT_MODEL,
		AnswerTemperature:     0.4,
		ExtractionModel:       llmclient.DEFAULT_CHAT_MODEL,
		ExtractionTemperature: 0.0,
		ExtractionMaxTokens:   50,
	}
}

// Agent runs the retrieval-augmented conversation pipeline. It keeps no
// per-request state; every call is independent.
type Agent struct {
	cfg Config
	db  *sqlx.DB

	embedder         Embedder
	chat             ChatModel
	store            VectorStore
	market           MarketData
	embeddingRepo    EmbeddingRepo
	conversationRepo ConversationRepo

	logger *log.Entry
}

// NewAgent wires the pipeline. With a nil db nothing is persisted.
func NewAgent(
	cfg Config,
	db *sqlx.DB,
	embedder Embedder,
	chat ChatModel,
	store VectorStore,
	market MarketData,
	embeddingRepo EmbeddingRepo,
	conversationRepo ConversationRepo,
) *Agent {
	return &Agent{
		cfg:              cfg,
		db:               db,
		embedder:         embedder,
		chat:             chat,
		store:            store,
		market:           market,
		embeddingRepo:    embeddingRepo,
		conversationRepo: conversationRepo,
		logger:           log.WithField("service", "crypto_agent"),
	}
}

func (a *Agent) persistent() bool {
	return a.db != nil
}
