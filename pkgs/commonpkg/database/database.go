package database

import (
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/utils"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

const (
	DATABASE_TYPE_SQLITE   = "sqlite"
	DATABASE_TYPE_POSTGRES = "postgres"
)

type DatabaseConfig struct {
	Type string `yaml:"type"` // "sqlite" or "postgres"

	Host     string `yaml:"host"`     // For PostgreSQL
	Port     string `yaml:"port"`     // For PostgreSQL
	User     string `yaml:"user"`     // For PostgreSQL
	Password string `yaml:"password"` // For PostgreSQL
	DBName   string `yaml:"dbname"`   // For PostgreSQL
	SSLMode  string `yaml:"sslmode"`  // For PostgreSQL

	Path string `yaml:"path"` // For SQLite
}

////////////////////////////////////////////////////////////////////////////////

func ConnectWithConfig(dbConfig DatabaseConfig) (*sqlx.DB, error) {
	logger := log.WithFields(log.Fields{
		"caller": "ConnectWithConfig",
		"type":   dbConfig.Type,
	})

	switch dbConfig.Type {
	case DATABASE_TYPE_POSTGRES:
		logger.WithFields(log.Fields{
			"host":   dbConfig.Host,
			"port":   dbConfig.Port,
			"dbname": dbConfig.DBName,
		}).Info("Connecting to PostgreSQL database")
		return connectPostgres(dbConfig)

	case DATABASE_TYPE_SQLITE:
		if dbConfig.Path == "" {
			return nil, fmt.Errorf("SQLite database path is required")
		}
		logger.
			WithField("path", dbConfig.Path).
			Info("Connecting to SQLite database")
		return connectSqlite(dbConfig.Path)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbConfig.Type)
	}
}

////////////////////////////////////////////////////////////////////////////////

func connectSqlite(path string) (*sqlx.DB, error) {
	logger := log.WithFields(log.Fields{
		"caller": "connectSqlite",
		"path":   path,
	})

	ok, err := utils.PathExists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := utils.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		logger.Debugln("created new db file")
	}

	db, err := sqlx.Connect(
		"sqlite3",
		fmt.Sprintf(
			"file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on",
			path,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	return db, nil
}

////////////////////////////////////////////////////////////////////////////////

func connectPostgres(dbConfig DatabaseConfig) (*sqlx.DB, error) {
	logger := log.WithFields(log.Fields{
		"caller": "connectPostgres",
		"host":   dbConfig.Host,
		"port":   dbConfig.Port,
		"dbname": dbConfig.DBName,
	})

	sslMode := dbConfig.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		sslMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to PostgreSQL")
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}
