// Package pending implements the auto-detected transaction queue: parsed
// payment notifications pass validity and duplicate checks, wait for the
// user to confirm or dismiss them, and expire after 24 hours.
package pending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
	syncer "github.com/pennylog/pennylog/internal/sync"
)

const (
	// amountCeiling is the sanity limit for a detected payment.
	amountCeiling = 100000.0
	// duplicateWindow is how close two detections must be to count as the
	// same real-world payment.
	duplicateWindow = 2 * time.Minute
	// pendingTTL is how long a detection waits for confirm/dismiss.
	pendingTTL = 24 * time.Hour
)

// Detection errors.
var (
	ErrInvalidDetection = errors.New("invalid detection")
	ErrDuplicatePayment = errors.New("duplicate payment discarded")
	ErrUnknownDetection = errors.New("unknown pending transaction")
)

// Detection is a parsed payment notification payload.
type Detection struct {
	DetectedAt    time.Time
	TransactionID string
	MerchantName  string
	SourceApp     string
	Amount        float64
}

// Detector runs the pending-transaction state machine.
type Detector struct {
	store service.LocalStore
	now   func() time.Time
}

// NewDetector creates a detector over the given store.
func NewDetector(store service.LocalStore) *Detector {
	return &Detector{store: store, now: time.Now}
}

// Ingest takes a detection through validity and duplicate checks. A valid,
// novel detection becomes Pending with a 24h expiry; a duplicate is
// discarded with ErrDuplicatePayment.
func (d *Detector) Ingest(ctx context.Context, detection Detection) (*model.PendingTransaction, error) {
	if err := validateDetection(detection); err != nil {
		return nil, err
	}

	detectedAt := detection.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = d.now()
	}

	// Transaction-id dedup against the bounded processed history.
	seen, err := d.store.HasProcessedTransactionID(ctx, detection.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check processed history: %w", err)
	}
	if seen {
		return nil, ErrDuplicatePayment
	}

	// Amount+merchant dedup within the time window among live entries.
	live, err := d.store.GetPendingTransactions(ctx, d.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load pending transactions: %w", err)
	}
	for i := range live {
		if live[i].MatchesPayment(detection.Amount, detection.MerchantName) &&
			detectedAt.Sub(live[i].DetectedAt) < duplicateWindow {
			return nil, ErrDuplicatePayment
		}
	}

	pending := &model.PendingTransaction{
		ID:            uuid.NewString(),
		TransactionID: detection.TransactionID,
		Amount:        detection.Amount,
		MerchantName:  detection.MerchantName,
		SourceApp:     detection.SourceApp,
		DetectedAt:    detectedAt,
		ExpiresAt:     detectedAt.Add(pendingTTL),
		Status:        model.PendingStatusPending,
	}

	if err := d.store.SavePendingTransaction(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to save pending transaction: %w", err)
	}
	if err := d.store.RecordProcessedTransactionID(ctx, detection.TransactionID); err != nil {
		slog.Warn("Failed to record processed transaction id",
			"transaction_id", detection.TransactionID,
			"error", err)
	}

	return pending, nil
}

// List returns live pending transactions. Stale entries are transitioned to
// Expired on load, then excluded.
func (d *Detector) List(ctx context.Context) ([]model.PendingTransaction, error) {
	if err := d.ExpireStale(ctx); err != nil {
		return nil, err
	}
	return d.store.GetPendingTransactions(ctx, d.now())
}

// Confirm accepts a pending transaction: an expense is created through the
// coordinator and the entry leaves the queue.
func (d *Detector) Confirm(ctx context.Context, coordinator *syncer.Coordinator, sess model.Session, id string) (*model.Expense, error) {
	pending, err := d.find(ctx, id)
	if err != nil {
		return nil, err
	}

	expense, err := coordinator.CreateExpense(ctx, sess, syncer.CreateInput{
		Date:         pending.DetectedAt,
		Description:  pending.MerchantName,
		MerchantName: pending.MerchantName,
		SourceApp:    pending.SourceApp,
		Amount:       pending.Amount,
		IsAutoLogged: true,
	})
	if err != nil {
		return nil, err
	}

	if err := d.store.UpdatePendingStatus(ctx, id, model.PendingStatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to mark confirmed: %w", err)
	}
	return expense, nil
}

// Dismiss rejects a pending transaction; it is logically deleted and
// excluded from future reads.
func (d *Detector) Dismiss(ctx context.Context, id string) error {
	if _, err := d.find(ctx, id); err != nil {
		return err
	}
	return d.store.UpdatePendingStatus(ctx, id, model.PendingStatusDismissed)
}

// ExpireStale marks aged-out entries Expired. Reads already exclude them;
// this makes the transition explicit on queue load.
func (d *Detector) ExpireStale(ctx context.Context) error {
	expired, err := d.store.ExpirePendingTransactions(ctx, d.now())
	if err != nil {
		return fmt.Errorf("failed to expire stale transactions: %w", err)
	}
	if expired > 0 {
		slog.Debug("Expired stale pending transactions", "count", expired)
	}
	return nil
}

// find returns the live entry with the given id.
func (d *Detector) find(ctx context.Context, id string) (*model.PendingTransaction, error) {
	live, err := d.store.GetPendingTransactions(ctx, d.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load pending transactions: %w", err)
	}
	for i := range live {
		if live[i].ID == id {
			return &live[i], nil
		}
	}
	return nil, ErrUnknownDetection
}

func validateDetection(detection Detection) error {
	if detection.Amount <= 0 {
		return fmt.Errorf("%w: non-positive amount", ErrInvalidDetection)
	}
	if detection.Amount >= amountCeiling {
		return fmt.Errorf("%w: amount above sanity ceiling", ErrInvalidDetection)
	}
	if detection.MerchantName == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidDetection)
	}
	if detection.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction id", ErrInvalidDetection)
	}
	return nil
}
