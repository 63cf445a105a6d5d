package storage_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/testutil"
)

func pendingTxn(id string, detected time.Time) *model.PendingTransaction {
	return &model.PendingTransaction{
		ID:            id,
		TransactionID: "txn-" + id,
		Amount:        450,
		MerchantName:  "Swiggy",
		SourceApp:     "gpay",
		DetectedAt:    detected,
		ExpiresAt:     detected.Add(24 * time.Hour),
		Status:        model.PendingStatusPending,
	}
}

func TestGetPendingTransactionsExcludesExpiredAndResolved(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	live := pendingTxn("live", now.Add(-time.Hour))
	require.NoError(t, store.SavePendingTransaction(ctx, live))

	expired := pendingTxn("expired", now.Add(-25*time.Hour))
	require.NoError(t, store.SavePendingTransaction(ctx, expired))

	dismissed := pendingTxn("dismissed", now.Add(-time.Hour))
	require.NoError(t, store.SavePendingTransaction(ctx, dismissed))
	require.NoError(t, store.UpdatePendingStatus(ctx, "dismissed", model.PendingStatusDismissed))

	confirmed := pendingTxn("confirmed", now.Add(-time.Hour))
	require.NoError(t, store.SavePendingTransaction(ctx, confirmed))
	require.NoError(t, store.UpdatePendingStatus(ctx, "confirmed", model.PendingStatusConfirmed))

	got, err := store.GetPendingTransactions(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "live", got[0].ID)
	assert.Equal(t, model.PendingStatusPending, got[0].Status)
}

func TestExpirePendingTransactions(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SavePendingTransaction(ctx, pendingTxn("live", now.Add(-time.Hour))))
	require.NoError(t, store.SavePendingTransaction(ctx, pendingTxn("stale", now.Add(-25*time.Hour))))

	// A dismissed entry past its expiry keeps its terminal status.
	dismissed := pendingTxn("dismissed", now.Add(-25*time.Hour))
	require.NoError(t, store.SavePendingTransaction(ctx, dismissed))
	require.NoError(t, store.UpdatePendingStatus(ctx, "dismissed", model.PendingStatusDismissed))

	expired, err := store.ExpirePendingTransactions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// The transition is persistent: a second sweep finds nothing left.
	expired, err = store.ExpirePendingTransactions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	got, err := store.GetPendingTransactions(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "live", got[0].ID)
}

func TestProcessedTransactionIDHistory(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.RecordProcessedTransactionID(ctx, "txn-1"))

	seen, err := store.HasProcessedTransactionID(ctx, "txn-1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.HasProcessedTransactionID(ctx, "txn-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestProcessedTransactionIDHistoryCap(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		require.NoError(t, store.RecordProcessedTransactionID(ctx, fmt.Sprintf("txn-%03d", i)))
	}

	// The oldest entries fall off the 100-entry history.
	seen, err := store.HasProcessedTransactionID(ctx, "txn-000")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.HasProcessedTransactionID(ctx, "txn-019")
	require.NoError(t, err)
	assert.False(t, seen)

	// The most recent 100 remain.
	seen, err = store.HasProcessedTransactionID(ctx, "txn-020")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.HasProcessedTransactionID(ctx, "txn-119")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSavePendingTransactionValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	valid := pendingTxn("ok", now)
	require.NoError(t, store.SavePendingTransaction(ctx, valid))

	missingMerchant := pendingTxn("bad-1", now)
	missingMerchant.MerchantName = ""
	assert.Error(t, store.SavePendingTransaction(ctx, missingMerchant))

	zeroAmount := pendingTxn("bad-2", now)
	zeroAmount.Amount = 0
	assert.Error(t, store.SavePendingTransaction(ctx, zeroAmount))
}
