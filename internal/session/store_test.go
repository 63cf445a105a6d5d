package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
	"github.com/pennylog/pennylog/internal/session"
)

func TestOpenSelectsDisjointStores(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	guest, err := session.Open(ctx, dir, model.GuestSession())
	require.NoError(t, err)
	defer func() { _ = guest.Close() }()

	user, err := session.Open(ctx, dir, model.AuthenticatedSession("user-42"))
	require.NoError(t, err)
	defer func() { _ = user.Close() }()

	// Two separate database files on disk.
	_, err = os.Stat(filepath.Join(dir, "guest.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "user.db"))
	assert.NoError(t, err)

	// A guest write is invisible through the authenticated store.
	expense := &model.Expense{
		ID:          "guest-1",
		Description: "Lunch",
		Category:    "food",
		Amount:      250,
		Date:        time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, guest.SaveExpense(ctx, expense))

	guestRows, err := guest.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, guestRows, 1)

	userRows, err := user.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, userRows)
}

func TestTransitionToAuthenticatedLeavesGuestDataInPlace(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	guest, err := session.Open(ctx, dir, model.GuestSession())
	require.NoError(t, err)

	expense := &model.Expense{
		ID:          "guest-1",
		Description: "Lunch",
		Category:    "food",
		Amount:      250,
		Date:        time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, guest.SaveExpense(ctx, expense))
	require.NoError(t, guest.Close())

	require.NoError(t, session.TransitionToAuthenticated(ctx, dir))

	// Guest data survives the transition but is never merged.
	guest, err = session.Open(ctx, dir, model.GuestSession())
	require.NoError(t, err)
	defer func() { _ = guest.Close() }()

	rows, err := guest.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	user, err := session.Open(ctx, dir, model.AuthenticatedSession("user-42"))
	require.NoError(t, err)
	defer func() { _ = user.Close() }()

	userRows, err := user.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, userRows)
}
