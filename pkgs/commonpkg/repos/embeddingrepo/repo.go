package embeddingrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("embedding not found")

type repo struct {
}

func New() *repo {
	return &repo{}
}

////////////////////////////////////////////////////////////////////////////////

// Create records a text that was written to the vector store.
func (r *repo) Create(ctx context.Context, db *sqlx.DB, text string) (*model.Embedding, error) {
	query := db.Rebind(`
		INSERT INTO embeddings (text, created_at)
		VALUES (?, ?)
		RETURNING id
	`)

	embedding := &model.Embedding{
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.QueryRowxContext(ctx, query, embedding.Text, embedding.CreatedAt).Scan(&embedding.Id); err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	return embedding, nil
}

// getByText returns the most recent record for text.
func (r *repo) getByText(ctx context.Context, db *sqlx.DB, text string) (*model.Embedding, error) {
	query := db.Rebind(`
		SELECT id, text, created_at
		FROM embeddings
		WHERE text = ?
		ORDER BY id DESC
		LIMIT 1
	`)

	embedding := &model.Embedding{}
	err := db.GetContext(ctx, embedding, query, text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}

	return embedding, nil
}

func (r *repo) totalCount(ctx context.Context, db *sqlx.DB) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM embeddings")
	if err != nil {
		return 0, fmt.Errorf("failed to get embedding count: %w", err)
	}

	return count, nil
}
