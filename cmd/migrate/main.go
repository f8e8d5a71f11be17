package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"soundshelf/shared/go/logging"
)

func main() {
	logger := logging.New(logging.Config{Level: "info", Format: "text"})

	if len(os.Args) != 2 || (os.Args[1] != "up" && os.Args[1] != "down") {
		logger.Fatal(errors.New("invalid arguments"), "Usage: migrate [up|down]")
	}

	_ = godotenv.Load("config/local.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal(errors.New("DATABASE_URL env var is required"), "Missing database configuration")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.Fatal(err, "Failed to create postgres driver")
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "migrations"
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		logger.Fatal(err, "Failed to resolve migrations directory")
	}
	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(absPath))

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		logger.Fatal(err, "Failed to create migrate instance")
	}

	if os.Args[1] == "up" {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal(err, "Failed to run migrations")
		}
		logger.Info("Migrations applied successfully")
		return
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal(err, "Failed to rollback migrations")
	}
	logger.Info("Migrations rolled back successfully")
}
