package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSqliteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "agent.db")

	db, err := ConnectWithConfig(DatabaseConfig{Type: DATABASE_TYPE_SQLITE, Path: path})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite3", db.DriverName())
	assert.NoError(t, db.Ping())
}

func TestConnectRejectsBadConfig(t *testing.T) {
	_, err := ConnectWithConfig(DatabaseConfig{Type: DATABASE_TYPE_SQLITE})
	assert.Error(t, err)

	_, err = ConnectWithConfig(DatabaseConfig{Type: "mysql"})
	assert.ErrorContains(t, err, "unsupported database type")
}
