package server

import (
	"context"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/agent"
)

type Agent interface {
	Embed(ctx context.Context, text string) error
	Search(ctx context.Context, text string, maxResults int) ([]model.SimilarityResult, error)
	Converse(ctx context.Context, question string, topK int) (*agent.ConversationResult, error)
	RecentConversations(ctx context.Context, limit int) ([]model.Conversation, error)
}

// VectorStore is probed by the health endpoint.
type VectorStore interface {
	Ping(ctx context.Context) error
}
