// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pennylog/pennylog/internal/model"
)

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Limit     int
	Offset    int
}

// LocalStore defines the contract for the local cache.
type LocalStore interface {
	// Expense operations
	SaveExpense(ctx context.Context, expense *model.Expense) error
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	GetExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	UpdateExpense(ctx context.Context, expense *model.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	MarkExpenseSynced(ctx context.Context, localID, canonicalID string) error
	ReplaceExpenses(ctx context.Context, expenses []model.Expense) error

	// Sync queue operations
	AppendSyncQueueItem(ctx context.Context, item *model.SyncQueueItem) error
	GetSyncQueue(ctx context.Context) ([]model.SyncQueueItem, error)
	UpdateSyncQueueItemPayload(ctx context.Context, id string, payload []byte) error
	DeleteSyncQueueItem(ctx context.Context, id string) error

	// Training store operations
	AppendTrainingExample(ctx context.Context, example model.TrainingExample) error
	GetTrainingExamples(ctx context.Context) ([]model.TrainingExample, error)

	// Pending transaction operations
	SavePendingTransaction(ctx context.Context, pending *model.PendingTransaction) error
	GetPendingTransactions(ctx context.Context, now time.Time) ([]model.PendingTransaction, error)
	UpdatePendingStatus(ctx context.Context, id string, status model.PendingStatus) error
	ExpirePendingTransactions(ctx context.Context, now time.Time) (int, error)
	RecordProcessedTransactionID(ctx context.Context, transactionID string) error
	HasProcessedTransactionID(ctx context.Context, transactionID string) (bool, error)

	// Session boundary bookkeeping
	ClearMigrationMarkers(ctx context.Context) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RemoteStore defines the contract for the backend expense store. It is the
// source of truth whenever it is reachable.
type RemoteStore interface {
	Ping(ctx context.Context) error
	CreateExpense(ctx context.Context, userID string, expense *model.Expense) (*model.Expense, error)
	UpdateExpense(ctx context.Context, userID string, expense *model.Expense) (*model.Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) error
	ListExpenses(ctx context.Context, userID string) ([]model.Expense, error)
}

// ExpenseClassifier assigns a category id to free text.
type ExpenseClassifier interface {
	Categorize(text string) string
}

// CorrectionRecorder appends user-confirmed training examples. Callers may
// ignore the returned error; training failures never block the primary
// operation.
type CorrectionRecorder interface {
	RecordCorrection(ctx context.Context, description, category string) error
}

// SyncStats shows the results of a sync-queue drain.
type SyncStats struct {
	Duration  time.Duration
	Replayed  int
	Remaining int
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Count  int
	Amount float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
