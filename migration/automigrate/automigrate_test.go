package automigrate

import (
	"path/filepath"
	"testing"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrateUpSqlite(t *testing.T) {
	db, err := database.ConnectWithConfig(database.DatabaseConfig{
		Type: database.DATABASE_TYPE_SQLITE,
		Path: filepath.Join(t.TempDir(), "migrate.db"),
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, AutoMigrateUp(AutoMigrateConfig{SqlxDB: db}))
	// second run is a no-op
	require.NoError(t, AutoMigrateUp(AutoMigrateConfig{SqlxDB: db}))

	version, dirty, err := GetMigrationVersion(AutoMigrateConfig{SqlxDB: db})
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"embeddings", "conversations", "related_answers"} {
		var count int
		err := db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}
}

func TestNewRejectsMissingDB(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestDriverNameToDatabaseType(t *testing.T) {
	assert.Equal(t, PostgreSQL, driverNameToDatabaseType("postgres"))
	assert.Equal(t, SQLite, driverNameToDatabaseType("sqlite3"))
	assert.Equal(t, DatabaseType(""), driverNameToDatabaseType("mysql"))
}
