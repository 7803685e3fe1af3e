// Package db opens the recurring payments store and keeps its schema current.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring-payments/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
	pingTimeout     = 2 * time.Second
)

// Store is the postgres database shared by the recurring payment repositories.
type Store struct {
	gorm *gorm.DB
	sql  *sql.DB
	cfg  *config.DatabaseConfig
}

// Open connects to postgres, retrying while the server is still starting up.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		store, err := connect(ctx, cfg)
		if err == nil {
			slog.InfoContext(ctx, "Database connection established",
				"attempt", attempt,
				"max_open_conns", cfg.MaxOpenConns,
				"max_idle_conns", cfg.MaxIdleConns,
				"conn_max_lifetime", cfg.ConnMaxLifetime.String(),
			)
			return store, nil
		}
		lastErr = err
		slog.WarnContext(ctx, "Database not ready", "attempt", attempt, "error", err)

		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, lastErr)
}

func connect(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: NewQueryLogger(slowQueryThreshold),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Store{gorm: gormDB, sql: sqlDB, cfg: cfg}, nil
}

// Migrate applies the embedded schema migrations unless they are disabled,
// in which case the schema is expected to be managed outside the service.
func (s *Store) Migrate(ctx context.Context) error {
	if !s.cfg.MigrationsEnabled {
		slog.InfoContext(ctx, "Schema migrations disabled")
		return nil
	}
	return RunMigrations(s.cfg.URL)
}

// Gorm returns the gorm handle the repositories are built on.
func (s *Store) Gorm() *gorm.DB {
	return s.gorm
}

// Healthy pings the database. It is used as the health endpoint's database check.
func (s *Store) Healthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := s.sql.PingContext(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		return false
	}
	return true
}

// Close releases the connection pool.
func (s *Store) Close() error {
	stats := s.sql.Stats()
	if err := s.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	slog.Info("Database connection closed",
		"open_connections", stats.OpenConnections,
		"wait_count", stats.WaitCount,
	)
	return nil
}
