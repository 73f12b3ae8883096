package main

import (
	"errors"
	"flag"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		dbPath         = flag.String("db", "./data/users.db", "Database file path")
		migrationsPath = flag.String("migrations", "./internal/store/migrations", "Migrations directory path")
		action         = flag.String("action", "up", "Migration action: up, down, version")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}
	absMigrationsPath, err := filepath.Abs(*migrationsPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute migrations path")
	}

	logger.WithFields(logrus.Fields{
		"db_path":         absDBPath,
		"migrations_path": absMigrationsPath,
		"action":          *action,
	}).Info("Starting migration tool")

	m, err := migrate.New("file://"+absMigrationsPath, "sqlite3://"+absDBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migrator")
	}
	defer m.Close()

	switch *action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.WithError(err).Fatal("Migration up failed")
		}
		logger.Info("Migrations applied")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.WithError(err).Fatal("Migration down failed")
		}
		logger.Info("Migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logger.WithError(err).Fatal("Failed to read migration version")
		}
		logger.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("Current migration version")
	default:
		logger.WithField("action", *action).Fatal("Unknown action")
	}
}
