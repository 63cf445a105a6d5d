package sync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
)

func TestDrainReplaysQueueInOrder(t *testing.T) {
	coord, local, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	// Build a backlog of three offline creates.
	mock.SetUnreachable(true)
	descriptions := []string{"Lunch at cafe", "Uber to airport", "bigbasket order"}
	for i, desc := range descriptions {
		input := createInput()
		input.Description = desc
		input.Amount = float64(100 + i)
		_, err := coord.CreateExpense(ctx, sess, input)
		require.NoError(t, err)
	}

	mock.SetUnreachable(false)

	stats, err := coord.Drain(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Replayed)
	assert.Equal(t, 0, stats.Remaining)
	assert.Equal(t, 3, mock.ExpenseCount())

	queue, err := local.GetSyncQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)

	// Replayed rows carry canonical remote ids and are marked synced.
	expenses, err := local.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	for i := range expenses {
		assert.True(t, expenses[i].Synced)
		assert.Contains(t, expenses[i].ID, "remote-")
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	coord, _, _ := setupCoordinator(t)

	stats, err := coord.Drain(context.Background(), model.AuthenticatedSession("user-42"))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Replayed)
	assert.Equal(t, 0, stats.Remaining)
}

func TestDrainRequiresAuthenticatedSession(t *testing.T) {
	coord, _, _ := setupCoordinator(t)

	_, err := coord.Drain(context.Background(), model.GuestSession())
	assert.Error(t, err)
}

func TestDrainStopsOnFailure(t *testing.T) {
	coord, local, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	mock.SetUnreachable(true)
	for _, desc := range []string{"first", "second", "third"} {
		input := createInput()
		input.Description = desc
		_, err := coord.CreateExpense(ctx, sess, input)
		require.NoError(t, err)
	}

	// The remote stays down; nothing is consumed.
	stats, err := coord.Drain(ctx, sess)
	assert.Error(t, err)
	assert.Equal(t, 0, stats.Replayed)
	assert.Equal(t, 3, stats.Remaining)

	queue, queueErr := local.GetSyncQueue(ctx)
	require.NoError(t, queueErr)
	assert.Len(t, queue, 3, "failed items must stay queued for the next drain")
}

func TestDrainResumesAfterPartialFailure(t *testing.T) {
	coord, _, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	mock.SetUnreachable(true)
	for _, desc := range []string{"first", "second"} {
		input := createInput()
		input.Description = desc
		_, err := coord.CreateExpense(ctx, sess, input)
		require.NoError(t, err)
	}
	mock.SetUnreachable(false)

	stats, err := coord.Drain(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Replayed)

	// A second drain finds nothing left: items are consumed exactly once.
	stats, err = coord.Drain(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Replayed)
	assert.Equal(t, 2, mock.ExpenseCount())
}

func TestDrainOfflineCreateThenEdit(t *testing.T) {
	coord, local, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	// Create and then edit the same expense while offline: both mutations
	// queue under the provisional local id.
	mock.SetUnreachable(true)
	created, err := coord.CreateExpense(ctx, sess, createInput())
	require.NoError(t, err)

	created.Amount = 300
	_, err = coord.UpdateExpense(ctx, sess, created)
	require.NoError(t, err)
	mock.SetUnreachable(false)

	stats, err := coord.Drain(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Replayed)

	queue, err := local.GetSyncQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)

	// The edit followed the canonical id the create received.
	require.Equal(t, 1, mock.ExpenseCount())
	remoteExpense, ok := mock.Expense("remote-1")
	require.True(t, ok)
	assert.Equal(t, 300.0, remoteExpense.Amount)

	expenses, err := local.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "remote-1", expenses[0].ID)
	assert.True(t, expenses[0].Synced)
}

func TestDrainOfflineCreateThenDelete(t *testing.T) {
	coord, local, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	mock.SetUnreachable(true)
	created, err := coord.CreateExpense(ctx, sess, createInput())
	require.NoError(t, err)
	require.NoError(t, coord.DeleteExpense(ctx, sess, created.ID))
	mock.SetUnreachable(false)

	stats, err := coord.Drain(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Replayed)

	// The queued delete followed the canonical id: the expense the user
	// deleted offline does not survive remotely.
	assert.Equal(t, 0, mock.ExpenseCount())

	queue, err := local.GetSyncQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestDrainDropsStaleUpdate(t *testing.T) {
	coord, local, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	created, err := coord.CreateExpense(ctx, sess, createInput())
	require.NoError(t, err)

	// Queue an offline update, then make the remote reject it as stale.
	mock.SetUnreachable(true)
	created.Amount = 300
	_, err = coord.UpdateExpense(ctx, sess, created)
	require.NoError(t, err)
	mock.SetUnreachable(false)

	mock.FailNext("update", common.ErrStaleWrite)

	stats, err := coord.Drain(ctx, sess)
	require.NoError(t, err, "a stale queued update is dropped, not fatal")
	assert.Equal(t, 1, stats.Replayed)

	queue, err := local.GetSyncQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestDrainDeleteOfMissingRemoteRow(t *testing.T) {
	coord, local, mock := setupCoordinator(t)
	ctx := context.Background()
	sess := model.AuthenticatedSession("user-42")

	created, err := coord.CreateExpense(ctx, sess, createInput())
	require.NoError(t, err)

	mock.SetUnreachable(true)
	require.NoError(t, coord.DeleteExpense(ctx, sess, created.ID))
	mock.SetUnreachable(false)

	// Someone else already deleted the row remotely.
	require.NoError(t, mock.DeleteExpense(ctx, "user-42", created.ID))

	stats, err := coord.Drain(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Replayed)

	queue, err := local.GetSyncQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)
}
