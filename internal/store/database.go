package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// Database wraps the shared PostgreSQL connection pool.
type Database struct {
	conn *sqlx.DB
	dsn  string
}

// NewDatabase opens and verifies a connection to the shared database.
func NewDatabase(dsn string) (*Database, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection.
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sqlx.DB for queries.
func (db *Database) DB() *sqlx.DB {
	return db.conn
}

// HealthCheck performs a health check on the database.
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}

// RunMigrations executes all migration files in order.
func (db *Database) RunMigrations(logger *zap.Logger) error {
	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	migrations := []string{
		"001_create_clubs.sql",
		"002_create_club_teams.sql",
		"003_create_club_players.sql",
		"004_create_league_teams.sql",
		"005_create_league_roster_appearances.sql",
		"006_create_goals.sql",
		"007_create_penalties.sql",
		"008_create_player_season_stats.sql",
		"009_create_reconciliation_runs.sql",
	}

	for _, migration := range migrations {
		if err := db.runMigration(migration, logger); err != nil {
			return fmt.Errorf("run migration %s: %w", migration, err)
		}
	}

	return nil
}

// createMigrationsTable creates a table to track which migrations have been run.
func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.Exec(query)
	return err
}

// runMigration runs a single migration file if it hasn't been applied yet.
func (db *Database) runMigration(filename string, logger *zap.Logger) error {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", filename).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		logger.Debug("skipping migration, already applied", zap.String("migration", filename))
		return nil
	}

	migrationPath := filepath.Join("migrations", filename)
	content, err := os.ReadFile(migrationPath)
	if err != nil {
		// Alternate path for container deployments
		migrationPath = filepath.Join("infra", "migrations", filename)
		content, err = os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("read migration file: %w", err)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", filename); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info("applied migration", zap.String("migration", filename))
	return nil
}
