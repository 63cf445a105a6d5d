// Package storage provides the local cache persistence layer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/taxonomy"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidExpense   = common.ErrInvalidExpense
	ErrInvalidQueueItem = errors.New("invalid sync queue item")
	ErrInvalidPending   = errors.New("invalid pending transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpense validates a single expense.
func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if expense.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidExpense)
	}
	if expense.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidExpense)
	}
	if expense.Amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidExpense)
	}
	if expense.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if !taxonomy.ValidID(expense.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, expense.Category)
	}
	return nil
}

// validateQueueItem validates a sync queue item.
func validateQueueItem(item *model.SyncQueueItem) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if item.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidQueueItem)
	}
	switch item.Operation {
	case model.SyncOpCreate, model.SyncOpUpdate, model.SyncOpDelete:
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidQueueItem, item.Operation)
	}
	if item.TableName == "" {
		return fmt.Errorf("%w: missing table name", ErrInvalidQueueItem)
	}
	if len(item.Payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidQueueItem)
	}
	return nil
}

// validatePending validates a pending transaction.
func validatePending(pending *model.PendingTransaction) error {
	if pending == nil {
		return fmt.Errorf("%w: pending", ErrNilParameter)
	}
	if pending.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPending)
	}
	if pending.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction id", ErrInvalidPending)
	}
	if pending.MerchantName == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidPending)
	}
	if pending.Amount <= 0 {
		return fmt.Errorf("%w: non-positive amount", ErrInvalidPending)
	}
	return nil
}
