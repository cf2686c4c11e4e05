// Package database provides database connection management and utilities.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Supported database/sql driver names. "pgx" and "postgres" share the PostgreSQL
// repositories.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
)

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect establishes a database connection with the given configuration.
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// IsPostgres reports whether driver talks to PostgreSQL.
func IsPostgres(driver string) bool {
	return driver == DriverPostgres || driver == DriverPgx
}

// MigrationDriver maps a connection driver to the golang-migrate database scheme
// and migrations directory name.
func MigrationDriver(driver string) (string, error) {
	switch {
	case IsPostgres(driver):
		return "postgresql", nil
	case driver == DriverMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
