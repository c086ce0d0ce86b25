package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"meetings-api/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects SQL flavour differences (placeholders, error codes).
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB is a connection pool tagged with the dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Connect opens the database selected by cfg.DBDriver and verifies it answers.
func Connect(ctx context.Context, cfg *config.Config) (*DB, error) {
	switch Dialect(cfg.DBDriver) {
	case DialectPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN())
	case DialectSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &DB{DB: sqlDB, Dialect: DialectPostgres}, nil
}

// OpenSQLite opens path (":memory:" allowed) with foreign keys enforced.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// SQLite has a single writer; one connection also keeps ":memory:" databases shared.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return &DB{DB: sqlDB, Dialect: DialectSQLite}, nil
}

// HealthCheck pings the database with a short deadline.
func HealthCheck(ctx context.Context, db *DB) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
