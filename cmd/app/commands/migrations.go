package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/passvault/internal/database"
)

// RunMigrations applies every pending migration from migrations/<postgresql|mysql>.
// Returns nil when the schema is already up to date.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	migrationDriver, err := database.MigrationDriver(driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.New(
		"file://migrations/"+migrationDriver,
		migrationURL(migrationDriver, connectionString),
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationURL turns a go-sql-driver/mysql DSN into the mysql:// URL golang-migrate
// expects. PostgreSQL URLs are passed through.
func migrationURL(migrationDriver, connectionString string) string {
	if migrationDriver == "mysql" && !strings.HasPrefix(connectionString, "mysql://") {
		return "mysql://" + connectionString
	}
	return connectionString
}
