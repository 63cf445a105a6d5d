package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
)

const expenseColumns = `id, hash, amount, description, merchant_name, category,
	timestamp, notes, receipt_uri, is_auto_logged, source_app, user_id,
	is_synced, created_at, updated_at`

// SaveExpense inserts a single expense into the local cache.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}
	if expense.UpdatedAt.IsZero() {
		expense.UpdatedAt = expense.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (
			id, hash, amount, description, merchant_name, category,
			timestamp, notes, receipt_uri, is_auto_logged, source_app,
			user_id, is_synced, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		expense.ID,
		expense.GenerateHash(),
		expense.Amount,
		expense.Description,
		expense.MerchantName,
		expense.Category,
		expense.Date.Unix(),
		expense.Note,
		expense.ReceiptURL,
		boolToInt(expense.IsAutoLogged),
		expense.SourceApp,
		expense.UserID,
		boolToInt(expense.Synced),
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", expense.ID, err)
	}

	return nil
}

// GetExpenseByID retrieves a single expense.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// GetExpenses retrieves expenses matching the filter, newest first.
func (s *SQLiteStorage) GetExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []any{}

	if filter.StartDate != nil {
		query += ` AND timestamp >= ?`
		args = append(args, filter.StartDate.Unix())
	}
	if filter.EndDate != nil {
		query += ` AND timestamp <= ?`
		args = append(args, filter.EndDate.Unix())
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY timestamp DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", scanErr)
		}
		expenses = append(expenses, *expense)
	}

	return expenses, rows.Err()
}

// UpdateExpense replaces a stored expense's mutable fields.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	expense.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET
			hash = ?, amount = ?, description = ?, merchant_name = ?,
			category = ?, timestamp = ?, notes = ?, receipt_uri = ?,
			is_synced = ?, updated_at = ?
		WHERE id = ?
	`,
		expense.GenerateHash(),
		expense.Amount,
		expense.Description,
		expense.MerchantName,
		expense.Category,
		expense.Date.Unix(),
		expense.Note,
		expense.ReceiptURL,
		boolToInt(expense.Synced),
		expense.UpdatedAt,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteExpense removes an expense from the local cache.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// MarkExpenseSynced flags a locally-written expense as mirrored, rewriting
// its id when the remote store assigned a canonical one during replay.
func (s *SQLiteStorage) MarkExpenseSynced(ctx context.Context, localID, canonicalID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(localID, "localID"); err != nil {
		return err
	}
	if canonicalID == "" {
		canonicalID = localID
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET id = ?, is_synced = 1, updated_at = ?
		WHERE id = ?
	`, canonicalID, time.Now(), localID)
	if err != nil {
		return fmt.Errorf("failed to mark expense synced: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check sync-mark result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ReplaceExpenses swaps the mirrored expense set for a fresh remote read.
// Unsynced local rows are preserved; only synced mirror rows are replaced.
func (s *SQLiteStorage) ReplaceExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE is_synced = 1`); err != nil {
		return fmt.Errorf("failed to clear mirrored expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO expenses (
			id, hash, amount, description, merchant_name, category,
			timestamp, notes, receipt_uri, is_auto_logged, source_app,
			user_id, is_synced, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for _, expense := range expenses {
		createdAt := expense.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			expense.ID,
			expense.GenerateHash(),
			expense.Amount,
			expense.Description,
			expense.MerchantName,
			expense.Category,
			expense.Date.Unix(),
			expense.Note,
			expense.ReceiptURL,
			boolToInt(expense.IsAutoLogged),
			expense.SourceApp,
			expense.UserID,
			createdAt,
			now,
		); err != nil {
			return fmt.Errorf("failed to mirror expense %s: %w", expense.ID, err)
		}
	}

	return tx.Commit()
}

// ClearMigrationMarkers removes any guest-to-account migration flags. The
// product decision is that guest data is never migrated; markers left by
// older builds are actively cleared rather than honored.
func (s *SQLiteStorage) ClearMigrationMarkers(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM migration_markers`); err != nil {
		return fmt.Errorf("failed to clear migration markers: %w", err)
	}
	return nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*model.Expense, error) {
	var expense model.Expense
	var timestamp int64
	var autoLogged, synced int
	var merchant, notes, receipt, sourceApp, userID sql.NullString

	err := row.Scan(
		&expense.ID,
		new(string), // hash is derived, not carried on the model
		&expense.Amount,
		&expense.Description,
		&merchant,
		&expense.Category,
		&timestamp,
		&notes,
		&receipt,
		&autoLogged,
		&sourceApp,
		&userID,
		&synced,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Date = time.Unix(timestamp, 0)
	expense.MerchantName = merchant.String
	expense.Note = notes.String
	expense.ReceiptURL = receipt.String
	expense.SourceApp = sourceApp.String
	expense.UserID = userID.String
	expense.IsAutoLogged = autoLogged != 0
	expense.Synced = synced != 0
	return &expense, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
