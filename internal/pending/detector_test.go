package pending_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/classifier"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/pending"
	"github.com/pennylog/pennylog/internal/remote"
	syncer "github.com/pennylog/pennylog/internal/sync"
	"github.com/pennylog/pennylog/internal/testutil"
)

func detection(txnID, merchant string, amount float64) pending.Detection {
	return pending.Detection{
		TransactionID: txnID,
		MerchantName:  merchant,
		SourceApp:     "gpay",
		Amount:        amount,
		DetectedAt:    time.Now(),
	}
}

func TestIngestValidDetection(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	ctx := context.Background()

	entry, err := detector.Ingest(ctx, detection("txn-1", "Swiggy", 450))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, model.PendingStatusPending, entry.Status)
	assert.Equal(t, 24*time.Hour, entry.ExpiresAt.Sub(entry.DetectedAt))

	live, err := detector.List(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

func TestIngestValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*pending.Detection)
	}{
		{name: "zero amount", mutate: func(d *pending.Detection) { d.Amount = 0 }},
		{name: "negative amount", mutate: func(d *pending.Detection) { d.Amount = -50 }},
		{name: "amount at ceiling", mutate: func(d *pending.Detection) { d.Amount = 100000 }},
		{name: "missing merchant", mutate: func(d *pending.Detection) { d.MerchantName = "" }},
		{name: "missing transaction id", mutate: func(d *pending.Detection) { d.TransactionID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := detection("txn-1", "Swiggy", 450)
			tt.mutate(&d)
			_, err := detector.Ingest(ctx, d)
			assert.ErrorIs(t, err, pending.ErrInvalidDetection)
		})
	}
}

func TestIngestTransactionIDDedup(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	ctx := context.Background()

	_, err := detector.Ingest(ctx, detection("txn-1", "Swiggy", 450))
	require.NoError(t, err)

	// Same id, completely different payment details: still a duplicate.
	_, err = detector.Ingest(ctx, detection("txn-1", "Zomato", 900))
	assert.ErrorIs(t, err, pending.ErrDuplicatePayment)
}

func TestIngestAmountMerchantWindowDedup(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	ctx := context.Background()

	first := detection("txn-1", "Swiggy", 450)
	_, err := detector.Ingest(ctx, first)
	require.NoError(t, err)

	// Different id, same amount and merchant inside the window.
	second := detection("txn-2", "SWIGGY", 450)
	second.DetectedAt = first.DetectedAt.Add(time.Minute)
	_, err = detector.Ingest(ctx, second)
	assert.ErrorIs(t, err, pending.ErrDuplicatePayment)

	// Outside the window it is a legitimate repeat purchase.
	third := detection("txn-3", "Swiggy", 450)
	third.DetectedAt = first.DetectedAt.Add(3 * time.Minute)
	_, err = detector.Ingest(ctx, third)
	assert.NoError(t, err)

	// Same merchant, different amount inside the window is not a duplicate.
	fourth := detection("txn-4", "Swiggy", 250)
	fourth.DetectedAt = first.DetectedAt.Add(time.Minute)
	_, err = detector.Ingest(ctx, fourth)
	assert.NoError(t, err)
}

func TestConfirmCreatesExpense(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	coord := syncer.New(store, remote.NewMockStore(), classifier.New(nil), nil)
	ctx := context.Background()

	entry, err := detector.Ingest(ctx, detection("txn-1", "Swiggy", 450))
	require.NoError(t, err)

	expense, err := detector.Confirm(ctx, coord, model.GuestSession(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 450.0, expense.Amount)
	assert.Equal(t, "Swiggy", expense.MerchantName)
	assert.Equal(t, "food", expense.Category) // "swiggy" keyword
	assert.True(t, expense.IsAutoLogged)
	assert.Equal(t, "gpay", expense.SourceApp)

	// Confirmed entries leave the queue.
	live, err := detector.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestConfirmUnknownID(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	coord := syncer.New(store, remote.NewMockStore(), classifier.New(nil), nil)

	_, err := detector.Confirm(context.Background(), coord, model.GuestSession(), "ghost")
	assert.ErrorIs(t, err, pending.ErrUnknownDetection)
}

func TestDismiss(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	ctx := context.Background()

	entry, err := detector.Ingest(ctx, detection("txn-1", "Swiggy", 450))
	require.NoError(t, err)

	require.NoError(t, detector.Dismiss(ctx, entry.ID))

	live, err := detector.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)

	// Dismissing twice fails: the entry is no longer live.
	assert.ErrorIs(t, detector.Dismiss(ctx, entry.ID), pending.ErrUnknownDetection)
}

func TestExpiredEntriesNeverSurface(t *testing.T) {
	store := testutil.SetupTestDB(t)
	detector := pending.NewDetector(store)
	ctx := context.Background()

	old := detection("txn-1", "Swiggy", 450)
	old.DetectedAt = time.Now().Add(-25 * time.Hour)
	_, err := detector.Ingest(ctx, old)
	require.NoError(t, err)

	live, err := detector.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)

	// List already moved the stale entry to Expired: a direct sweep has
	// nothing left to transition.
	expired, err := store.ExpirePendingTransactions(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	// An expired entry cannot be confirmed or dismissed.
	coord := syncer.New(store, remote.NewMockStore(), classifier.New(nil), nil)
	_, err = detector.Confirm(ctx, coord, model.GuestSession(), "txn-1")
	assert.ErrorIs(t, err, pending.ErrUnknownDetection)
}
