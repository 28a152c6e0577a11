package conversationrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

type repo struct {
}

func New() *repo {
	return &repo{}
}

////////////////////////////////////////////////////////////////////////////////

// Create stores a conversation together with its related answers in one
// transaction. Ids and timestamps are written back into conv.
func (r *repo) Create(ctx context.Context, db *sqlx.DB, conv *model.Conversation) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	conv.CreatedAt = time.Now().UTC()
	conversationQuery := tx.Rebind(`
		INSERT INTO conversations (embedding_id, question, answer, coin_symbol, coin_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err = tx.QueryRowxContext(
		ctx,
		conversationQuery,
		conv.EmbeddingId,
		conv.Question,
		conv.Answer,
		conv.CoinSymbol,
		conv.CoinPrice,
		conv.CreatedAt,
	).Scan(&conv.Id)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	answerQuery := tx.Rebind(`
		INSERT INTO related_answers (conversation_id, answer, distance, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	for i := range conv.RelatedAnswers {
		related := &conv.RelatedAnswers[i]
		related.ConversationId = conv.Id
		related.CreatedAt = conv.CreatedAt

		err = tx.QueryRowxContext(
			ctx,
			answerQuery,
			related.ConversationId,
			related.Answer,
			related.Distance,
			related.CreatedAt,
		).Scan(&related.Id)
		if err != nil {
			return fmt.Errorf("failed to create related answer: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit conversation: %w", err)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// ListRecent returns the newest conversations first, each with its related
// answers in insertion order.
func (r *repo) ListRecent(ctx context.Context, db *sqlx.DB, limit int) ([]model.Conversation, error) {
	query := db.Rebind(`
		SELECT id, embedding_id, question, answer, coin_symbol, coin_price, created_at
		FROM conversations
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)

	var conversations []model.Conversation
	if err := db.SelectContext(ctx, &conversations, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	if len(conversations) == 0 {
		return conversations, nil
	}

	ids := make([]int64, 0, len(conversations))
	byId := make(map[int64]int, len(conversations))
	for i, conv := range conversations {
		ids = append(ids, conv.Id)
		byId[conv.Id] = i
		conversations[i].RelatedAnswers = []model.RelatedAnswer{}
	}

	answerQuery, args, err := sqlx.In(`
		SELECT id, conversation_id, answer, distance, created_at
		FROM related_answers
		WHERE conversation_id IN (?)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build related answers query: %w", err)
	}

	var answers []model.RelatedAnswer
	if err := db.SelectContext(ctx, &answers, db.Rebind(answerQuery), args...); err != nil {
		return nil, fmt.Errorf("failed to list related answers: %w", err)
	}
	for _, answer := range answers {
		i := byId[answer.ConversationId]
		conversations[i].RelatedAnswers = append(conversations[i].RelatedAnswers, answer)
	}

	return conversations, nil
}

func (r *repo) totalCount(ctx context.Context, db *sqlx.DB) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM conversations")
	if err != nil {
		return 0, fmt.Errorf("failed to get conversation count: %w", err)
	}

	return count, nil
}
