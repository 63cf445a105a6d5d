package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/testutil"
)

func queueItem(id string, op model.SyncOp, ts time.Time) *model.SyncQueueItem {
	return &model.SyncQueueItem{
		ID:        id,
		Operation: op,
		TableName: "expenses",
		Payload:   []byte(`{"id":"` + id + `"}`),
		Timestamp: ts,
	}
}

func TestSyncQueueFIFO(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	// Inserted out of order; read back must follow timestamps.
	require.NoError(t, store.AppendSyncQueueItem(ctx, queueItem("b", model.SyncOpUpdate, base.Add(time.Second))))
	require.NoError(t, store.AppendSyncQueueItem(ctx, queueItem("a", model.SyncOpCreate, base)))
	require.NoError(t, store.AppendSyncQueueItem(ctx, queueItem("c", model.SyncOpDelete, base.Add(2*time.Second))))

	items, err := store.GetSyncQueue(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
	assert.Equal(t, model.SyncOpCreate, items[0].Operation)
	assert.JSONEq(t, `{"id":"a"}`, string(items[0].Payload))
}

func TestDeleteSyncQueueItem(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	ts := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendSyncQueueItem(ctx, queueItem("a", model.SyncOpCreate, ts)))
	require.NoError(t, store.AppendSyncQueueItem(ctx, queueItem("b", model.SyncOpCreate, ts.Add(time.Second))))

	require.NoError(t, store.DeleteSyncQueueItem(ctx, "a"))

	items, err := store.GetSyncQueue(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	// Deleting an already-consumed item is a no-op.
	assert.NoError(t, store.DeleteSyncQueueItem(ctx, "a"))
}

func TestUpdateSyncQueueItemPayload(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	ts := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendSyncQueueItem(ctx, queueItem("a", model.SyncOpUpdate, ts)))

	require.NoError(t, store.UpdateSyncQueueItemPayload(ctx, "a", []byte(`{"id":"remote-9"}`)))

	items, err := store.GetSyncQueue(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.JSONEq(t, `{"id":"remote-9"}`, string(items[0].Payload))

	// Unknown ids and empty payloads are rejected.
	assert.Error(t, store.UpdateSyncQueueItemPayload(ctx, "ghost", []byte(`{}`)))
	assert.Error(t, store.UpdateSyncQueueItemPayload(ctx, "a", nil))
}

func TestAppendSyncQueueItemValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	ts := time.Now()

	tests := []struct {
		name string
		item *model.SyncQueueItem
	}{
		{name: "missing id", item: &model.SyncQueueItem{Operation: model.SyncOpCreate, TableName: "expenses", Payload: []byte("{}"), Timestamp: ts}},
		{name: "unknown operation", item: &model.SyncQueueItem{ID: "x", Operation: "upsert", TableName: "expenses", Payload: []byte("{}"), Timestamp: ts}},
		{name: "missing table", item: &model.SyncQueueItem{ID: "x", Operation: model.SyncOpCreate, Payload: []byte("{}"), Timestamp: ts}},
		{name: "empty payload", item: &model.SyncQueueItem{ID: "x", Operation: model.SyncOpCreate, TableName: "expenses", Timestamp: ts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.AppendSyncQueueItem(ctx, tt.item))
		})
	}
}
