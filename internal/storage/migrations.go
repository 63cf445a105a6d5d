package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: expenses and sync queue",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					hash TEXT NOT NULL,
					amount REAL NOT NULL,
					description TEXT NOT NULL,
					merchant_name TEXT,
					category TEXT NOT NULL,
					timestamp INTEGER NOT NULL,
					notes TEXT,
					receipt_uri TEXT,
					is_auto_logged INTEGER DEFAULT 0,
					source_app TEXT,
					user_id TEXT,
					is_synced INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_expenses_timestamp ON expenses(timestamp)`,
				`CREATE INDEX idx_expenses_category ON expenses(category)`,
				`CREATE INDEX idx_expenses_user_id ON expenses(user_id)`,
				`CREATE INDEX idx_expenses_is_synced ON expenses(is_synced)`,

				`CREATE TABLE IF NOT EXISTS sync_queue (
					id TEXT PRIMARY KEY,
					operation TEXT NOT NULL,
					table_name TEXT NOT NULL,
					data TEXT NOT NULL,
					timestamp INTEGER NOT NULL
				)`,
				`CREATE INDEX idx_sync_queue_timestamp ON sync_queue(timestamp)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add training examples for the classifier fallback",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS training_examples (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					description TEXT NOT NULL,
					category TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_training_examples_category ON training_examples(category)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add pending transactions and processed-id history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS pending_transactions (
					id TEXT PRIMARY KEY,
					transaction_id TEXT NOT NULL,
					amount REAL NOT NULL,
					merchant_name TEXT NOT NULL,
					source_app TEXT,
					detected_at INTEGER NOT NULL,
					expires_at INTEGER NOT NULL,
					status TEXT NOT NULL DEFAULT 'PENDING'
				)`,
				`CREATE INDEX idx_pending_status ON pending_transactions(status)`,
				`CREATE INDEX idx_pending_expires_at ON pending_transactions(expires_at)`,

				`CREATE TABLE IF NOT EXISTS processed_notifications (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					transaction_id TEXT UNIQUE NOT NULL,
					processed_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS migration_markers (
					key TEXT PRIMARY KEY,
					value TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		// PRAGMA does not support placeholders
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("schema version mismatch: have %d, expected %d", finalVersion, ExpectedSchemaVersion)
	}

	return nil
}
