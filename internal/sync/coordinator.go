// Package sync implements the offline-aware write coordinator. Every
// mutating operation probes connectivity and routes to the remote store or
// the local cache plus the sync queue; user input is never lost, only
// deferred.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
	"github.com/pennylog/pennylog/internal/taxonomy"
)

// expensesTable is the remote table mutations are replayed against.
const expensesTable = "expenses"

// Coordinator routes expense mutations between the local cache and the
// remote store according to session kind and connectivity.
type Coordinator struct {
	local      service.LocalStore
	remote     service.RemoteStore
	classifier service.ExpenseClassifier
	trainer    service.CorrectionRecorder
}

// New creates a coordinator. remote may be nil for guest-only use.
func New(local service.LocalStore, remote service.RemoteStore, classifier service.ExpenseClassifier, trainer service.CorrectionRecorder) *Coordinator {
	return &Coordinator{
		local:      local,
		remote:     remote,
		classifier: classifier,
		trainer:    trainer,
	}
}

// CreateInput carries the user-supplied fields for a new expense.
type CreateInput struct {
	Date         time.Time
	Description  string
	MerchantName string
	Category     string // Empty or the fallback id means "let the classifier pick"
	Note         string
	ReceiptURL   string
	SourceApp    string
	Amount       float64
	IsAutoLogged bool
}

// CreateExpense applies the create decision table:
//
//	guest                     -> duplicate guard, then local-only write
//	authenticated + reachable -> remote write, mirror locally as synced
//	authenticated + offline   -> local write, append sync-queue entry
//
// A remote write failure on the reachable path degrades to the offline
// branch instead of failing the operation.
func (c *Coordinator) CreateExpense(ctx context.Context, sess model.Session, input CreateInput) (*model.Expense, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	suggested := c.classifier.Categorize(input.Description + " " + input.Note)
	category := input.Category
	if category == "" || category == model.FallbackCategoryID {
		category = suggested
	}

	expense := &model.Expense{
		Date:         input.Date,
		Description:  input.Description,
		MerchantName: input.MerchantName,
		Category:     category,
		Note:         input.Note,
		ReceiptURL:   input.ReceiptURL,
		SourceApp:    input.SourceApp,
		Amount:       input.Amount,
		IsAutoLogged: input.IsAutoLogged,
		CreatedAt:    time.Now(),
	}

	created, err := c.routeCreate(ctx, sess, expense)
	if err != nil {
		return nil, err
	}

	c.recordCorrectionIfOverridden(ctx, input, suggested, category)

	return created, nil
}

// routeCreate picks the write path for a validated, categorized expense.
func (c *Coordinator) routeCreate(ctx context.Context, sess model.Session, expense *model.Expense) (*model.Expense, error) {
	if !sess.Authenticated() {
		return c.createGuest(ctx, expense)
	}

	expense.UserID = sess.UserID

	// Connectivity is probed immediately before the write, never cached.
	if err := c.remote.Ping(ctx); err != nil {
		slog.Info("Remote unreachable, writing offline", "error", err)
		return c.createOffline(ctx, expense)
	}

	canonical, err := c.remote.CreateExpense(ctx, sess.UserID, expense)
	if err != nil {
		slog.Warn("Remote create failed, degrading to offline write", "error", err)
		return c.createOffline(ctx, expense)
	}

	if err := c.local.SaveExpense(ctx, canonical); err != nil {
		// The remote write already succeeded; a mirror failure is logged
		// and the canonical record is still returned.
		common.LogError(err, "failed to mirror expense locally", common.Fields{
			"expense_id": canonical.ID,
		})
	}

	return canonical, nil
}

// createGuest writes to the guest store only, after the duplicate guard.
func (c *Coordinator) createGuest(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	existing, err := c.local.GetExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for duplicates: %w", err)
	}
	for i := range existing {
		if expense.DuplicateOf(&existing[i]) {
			return nil, common.ErrDuplicateExpense
		}
	}

	expense.ID = uuid.NewString()
	if err := c.local.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return expense, nil
}

// createOffline writes locally and records the create for later replay.
func (c *Coordinator) createOffline(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	expense.ID = uuid.NewString()
	expense.Synced = false

	if err := c.local.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	if err := c.enqueue(ctx, model.SyncOpCreate, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense follows the same decision shape as create.
func (c *Coordinator) UpdateExpense(ctx context.Context, sess model.Session, expense *model.Expense) (*model.Expense, error) {
	if !sess.Authenticated() {
		if err := c.local.UpdateExpense(ctx, expense); err != nil {
			return nil, err
		}
		return expense, nil
	}

	expense.UserID = sess.UserID

	if err := c.remote.Ping(ctx); err == nil {
		canonical, remoteErr := c.remote.UpdateExpense(ctx, sess.UserID, expense)
		if remoteErr == nil {
			if err := c.local.UpdateExpense(ctx, canonical); err != nil {
				common.LogError(err, "failed to mirror update locally", common.Fields{
					"expense_id": canonical.ID,
				})
			}
			return canonical, nil
		}
		slog.Warn("Remote update failed, degrading to offline write", "error", remoteErr)
	}

	expense.Synced = false
	if err := c.local.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	if err := c.enqueue(ctx, model.SyncOpUpdate, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense follows the same decision shape as create.
func (c *Coordinator) DeleteExpense(ctx context.Context, sess model.Session, id string) error {
	expense, err := c.local.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}

	if !sess.Authenticated() {
		return c.local.DeleteExpense(ctx, id)
	}

	if pingErr := c.remote.Ping(ctx); pingErr == nil {
		remoteErr := c.remote.DeleteExpense(ctx, sess.UserID, id)
		if remoteErr == nil {
			return c.local.DeleteExpense(ctx, id)
		}
		slog.Warn("Remote delete failed, deferring", "error", remoteErr)
	}

	if err := c.local.DeleteExpense(ctx, id); err != nil {
		return err
	}
	return c.enqueue(ctx, model.SyncOpDelete, expense)
}

// ListExpenses reads from the remote store when it is reachable (refreshing
// the local mirror), and from the local cache otherwise.
func (c *Coordinator) ListExpenses(ctx context.Context, sess model.Session, filter service.ExpenseFilter) ([]model.Expense, error) {
	if !sess.Authenticated() || c.remote.Ping(ctx) != nil {
		return c.local.GetExpenses(ctx, filter)
	}

	expenses, err := c.remote.ListExpenses(ctx, sess.UserID)
	if err != nil {
		slog.Warn("Remote list failed, serving local cache", "error", err)
		return c.local.GetExpenses(ctx, filter)
	}

	if err := c.local.ReplaceExpenses(ctx, expenses); err != nil {
		common.LogError(err, "failed to refresh local mirror", nil)
	}

	return c.local.GetExpenses(ctx, filter)
}

// recordCorrectionIfOverridden appends a training example when the user's
// chosen category differs from the classifier's suggestion. Failures are
// logged inside the trainer and deliberately ignored here.
func (c *Coordinator) recordCorrectionIfOverridden(ctx context.Context, input CreateInput, suggested, chosen string) {
	if c.trainer == nil {
		return
	}
	if input.Category == "" || input.Category == model.FallbackCategoryID {
		return // Classifier's own suggestion, nothing to learn
	}
	if chosen == suggested {
		return
	}
	_ = c.trainer.RecordCorrection(ctx, input.Description, chosen)
}

func (c *Coordinator) enqueue(ctx context.Context, op model.SyncOp, expense *model.Expense) error {
	payload, err := json.Marshal(expense)
	if err != nil {
		return fmt.Errorf("failed to encode queue payload: %w", err)
	}

	item := &model.SyncQueueItem{
		ID:        uuid.NewString(),
		Operation: op,
		TableName: expensesTable,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	if err := c.local.AppendSyncQueueItem(ctx, item); err != nil {
		return fmt.Errorf("failed to append sync queue item: %w", err)
	}
	return nil
}

func validateInput(input CreateInput) error {
	if input.Description == "" {
		return fmt.Errorf("%w: missing description", common.ErrInvalidExpense)
	}
	if input.Amount < 0 {
		return fmt.Errorf("%w: negative amount", common.ErrInvalidExpense)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidExpense)
	}
	if input.Category != "" && !taxonomy.ValidID(input.Category) {
		return fmt.Errorf("%w: unknown category %q", common.ErrInvalidExpense, input.Category)
	}
	return nil
}
