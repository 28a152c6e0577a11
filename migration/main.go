package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/WangWilly/cryptoagent/migration/automigrate"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/config"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/database"
	"github.com/golang-migrate/migrate/v4"
)

const (
	usageText = `Migration tool for the cryptoagent database

Usage:
  migrate [flags] [command]

Available Commands:
  up                   Run all available migrations
  down                 Revert all migrations
  steps [N]            Migrate up/down by N steps (can be negative)
  goto [version]       Migrate to specific version
  force [version]      Force set version without running migrations
  version              Print current migration version

The database is taken from the "database" section of the config file
(-config or $CRYPTOAGENT_CONFIG). -sqlite overrides it with a SQLite path.

Examples:
  migrate -config ./config.yaml up
  migrate -sqlite ./data/cryptoagent.db version
`
)

var (
	configPath = flag.String("config", "", "Path to the YAML config file")
	sqlitePath = flag.String("sqlite", "", "SQLite database file path")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	args := flag.Args()
	if *help || len(args) == 0 {
		fmt.Print(usageText)
		if !*help {
			os.Exit(1)
		}
		return
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	dbConfig := conf.Database
	if *sqlitePath != "" {
		dbConfig = database.DatabaseConfig{Type: database.DATABASE_TYPE_SQLITE, Path: *sqlitePath}
	}

	db, err := database.ConnectWithConfig(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := automigrate.New(db)
	if err != nil {
		log.Fatalf("Failed to create migrate instance: %v", err)
	}

	if err := run(m, args); err != nil {
		log.Fatal(err)
	}
}

func run(m *migrate.Migrate, args []string) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations up: %w", err)
		}
		fmt.Println("Migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations down: %w", err)
		}
		fmt.Println("Migrations reverted successfully")

	case "steps":
		steps, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Steps(steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migration steps: %w", err)
		}
		fmt.Printf("Applied %d migration steps\n", steps)

	case "goto":
		version, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Migrate(uint(version)); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", version, err)
		}
		fmt.Printf("Migrated to version %d\n", version)

	case "force":
		version, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("failed to force version %d: %w", version, err)
		}
		fmt.Printf("Forced version to %d\n", version)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		status := "clean"
		if dirty {
			status = "dirty"
		}
		fmt.Printf("Current version: %d (%s)\n", version, status)

	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		fmt.Print(usageText)
		os.Exit(1)
	}
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s command requires a number argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", args[1], err)
	}
	return n, nil
}
