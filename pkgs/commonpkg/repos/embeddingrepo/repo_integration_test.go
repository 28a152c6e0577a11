package embeddingrepo

import (
	"context"
	"testing"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/repos/repotest"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoIntegration_Sqlite(t *testing.T) {
	runRepoSuite(t, repotest.NewSqlite(t))
}

func TestRepoIntegration_Postgres(t *testing.T) {
	runRepoSuite(t, repotest.NewPostgres(t))
}

func runRepoSuite(t *testing.T, db *sqlx.DB) {
	ctx := context.Background()
	repo := New()

	t.Run("create embedding", func(t *testing.T) {
		embedding, err := repo.Create(ctx, db, "Bitcoin is the first cryptocurrency")

		require.NoError(t, err)
		assert.NotZero(t, embedding.Id)
		assert.False(t, embedding.CreatedAt.IsZero())
	})

	t.Run("get by text", func(t *testing.T) {
		created, err := repo.Create(ctx, db, "Ethereum launched in 2015")
		require.NoError(t, err)

		found, err := repo.getByText(ctx, db, "Ethereum launched in 2015")
		require.NoError(t, err)
		assert.Equal(t, created.Id, found.Id)
		assert.Equal(t, "Ethereum launched in 2015", found.Text)
	})

	t.Run("get by unknown text", func(t *testing.T) {
		_, err := repo.getByText(ctx, db, "never stored")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("total count", func(t *testing.T) {
		count, err := repo.totalCount(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
