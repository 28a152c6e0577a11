package automigrate

import (
	"fmt"

	"github.com/WangWilly/cryptoagent/migration/sqlfiles"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

////////////////////////////////////////////////////////////////////////////////

type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
	SQLite     DatabaseType = "sqlite"
)

func driverNameToDatabaseType(driverName string) DatabaseType {
	switch driverName {
	case "postgres":
		return PostgreSQL
	case "sqlite3":
		return SQLite
	default:
		return ""
	}
}

////////////////////////////////////////////////////////////////////////////////

// New builds a migrate instance over the embedded migrations matching the
// driver of db.
func New(db *sqlx.DB) (*migrate.Migrate, error) {
	if db == nil {
		return nil, fmt.Errorf("no database connection provided")
	}

	databaseType := driverNameToDatabaseType(db.DriverName())

	dir, err := getMigrationDir(databaseType)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration dir: %w", err)
	}
	source, err := iofs.New(sqlfiles.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := getDriver(db, databaseType)
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(databaseType), driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func getMigrationDir(databaseType DatabaseType) (string, error) {
	switch databaseType {
	case PostgreSQL:
		return sqlfiles.POSTGRES_DIR, nil
	case SQLite:
		return sqlfiles.SQLITE_DIR, nil
	default:
		return "", fmt.Errorf("unsupported database type: %q", databaseType)
	}
}

func getDriver(db *sqlx.DB, databaseType DatabaseType) (database.Driver, error) {
	switch databaseType {
	case PostgreSQL:
		return postgres.WithInstance(db.DB, &postgres.Config{})
	case SQLite:
		return sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported database type: %q", databaseType)
	}
}
