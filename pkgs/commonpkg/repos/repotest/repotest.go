// Package repotest provides migrated databases for repo integration tests.
package repotest

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/WangWilly/cryptoagent/migration/automigrate"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

////////////////////////////////////////////////////////////////////////////////

// NewSqlite returns a migrated SQLite database living in the test's temp dir.
func NewSqlite(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.ConnectWithConfig(database.DatabaseConfig{
		Type: database.DATABASE_TYPE_SQLITE,
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, automigrate.AutoMigrateUp(automigrate.AutoMigrateConfig{SqlxDB: db}))
	return db
}

// NewPostgres starts a throwaway PostgreSQL container and returns a migrated
// connection. The test is skipped in -short mode or when docker is unreachable.
func NewPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=testdb",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var db *sqlx.DB
	err = pool.Retry(func() error {
		var err error
		db, err = database.ConnectWithConfig(database.DatabaseConfig{
			Type:     database.DATABASE_TYPE_POSTGRES,
			Host:     "localhost",
			Port:     resource.GetPort("5432/tcp"),
			User:     "postgres",
			Password: "postgres",
			DBName:   "testdb",
		})
		if err != nil {
			return fmt.Errorf("postgres not ready: %w", err)
		}
		return db.Ping()
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, automigrate.AutoMigrateUp(automigrate.AutoMigrateConfig{SqlxDB: db}))
	return db
}
