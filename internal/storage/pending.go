package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pennylog/pennylog/internal/model"
)

// processedHistoryCap bounds the processed-id history used for dedup.
const processedHistoryCap = 100

// SavePendingTransaction stores a newly detected transaction.
func (s *SQLiteStorage) SavePendingTransaction(ctx context.Context, pending *model.PendingTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePending(pending); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_transactions (
			id, transaction_id, amount, merchant_name, source_app,
			detected_at, expires_at, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		pending.ID,
		pending.TransactionID,
		pending.Amount,
		pending.MerchantName,
		pending.SourceApp,
		pending.DetectedAt.Unix(),
		pending.ExpiresAt.Unix(),
		string(pending.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save pending transaction: %w", err)
	}
	return nil
}

// GetPendingTransactions returns live pending entries: confirmed, dismissed,
// and expired entries are excluded. Expiry is evaluated against now, so an
// entry past its expires_at never surfaces even if it was never dismissed.
func (s *SQLiteStorage) GetPendingTransactions(ctx context.Context, now time.Time) ([]model.PendingTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, amount, merchant_name, source_app,
		       detected_at, expires_at, status
		FROM pending_transactions
		WHERE status = ? AND expires_at > ?
		ORDER BY detected_at DESC
	`, string(model.PendingStatusPending), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pendings []model.PendingTransaction
	for rows.Next() {
		pending, scanErr := scanPending(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan pending transaction: %w", scanErr)
		}
		pendings = append(pendings, *pending)
	}

	return pendings, rows.Err()
}

// ExpirePendingTransactions marks aged-out pending entries Expired and
// returns how many rows transitioned. Reads already exclude stale entries by
// expires_at; this records the terminal status explicitly.
func (s *SQLiteStorage) ExpirePendingTransactions(ctx context.Context, now time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE pending_transactions
		SET status = ?
		WHERE status = ? AND expires_at <= ?
	`, string(model.PendingStatusExpired), string(model.PendingStatusPending), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending transactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired transactions: %w", err)
	}
	return int(rows), nil
}

// UpdatePendingStatus moves a pending entry to a terminal status. Dismissed
// and expired entries are logically deleted, not physically removed.
func (s *SQLiteStorage) UpdatePendingStatus(ctx context.Context, id string, status model.PendingStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE pending_transactions SET status = ? WHERE id = ?
	`, string(status), id); err != nil {
		return fmt.Errorf("failed to update pending status: %w", err)
	}
	return nil
}

// RecordProcessedTransactionID appends to the bounded processed-id history,
// evicting the oldest entries beyond the cap.
func (s *SQLiteStorage) RecordProcessedTransactionID(ctx context.Context, transactionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO processed_notifications (transaction_id)
		VALUES (?)
	`, transactionID); err != nil {
		return fmt.Errorf("failed to record processed id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM processed_notifications
		WHERE seq NOT IN (
			SELECT seq FROM processed_notifications
			ORDER BY seq DESC LIMIT ?
		)
	`, processedHistoryCap); err != nil {
		return fmt.Errorf("failed to trim processed history: %w", err)
	}

	return tx.Commit()
}

// HasProcessedTransactionID reports whether the id is in the history.
func (s *SQLiteStorage) HasProcessedTransactionID(ctx context.Context, transactionID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM processed_notifications WHERE transaction_id = ?)
	`, transactionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check processed id: %w", err)
	}
	return exists, nil
}

func scanPending(row scanner) (*model.PendingTransaction, error) {
	var pending model.PendingTransaction
	var detectedAt, expiresAt int64
	var status string

	err := row.Scan(
		&pending.ID,
		&pending.TransactionID,
		&pending.Amount,
		&pending.MerchantName,
		&pending.SourceApp,
		&detectedAt,
		&expiresAt,
		&status,
	)
	if err != nil {
		return nil, err
	}

	pending.DetectedAt = time.Unix(detectedAt, 0)
	pending.ExpiresAt = time.Unix(expiresAt, 0)
	pending.Status = model.PendingStatus(status)
	return &pending, nil
}
