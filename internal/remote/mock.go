package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
)

// MockStore is an in-memory RemoteStore for testing. Reachability and
// per-operation failures can be toggled to exercise the offline paths.
type MockStore struct {
	expenses    map[string]model.Expense
	failNext    map[string]error
	mu          sync.Mutex
	nextID      int
	unreachable bool
}

// NewMockStore creates an empty mock remote store.
func NewMockStore() *MockStore {
	return &MockStore{
		expenses: make(map[string]model.Expense),
		failNext: make(map[string]error),
	}
}

// SetUnreachable toggles the simulated connectivity state.
func (m *MockStore) SetUnreachable(unreachable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unreachable = unreachable
}

// FailNext makes the next call to the named operation return err.
func (m *MockStore) FailNext(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[operation] = err
}

// Expense returns a stored expense by id.
func (m *MockStore) Expense(id string) (model.Expense, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.expenses[id]
	return expense, ok
}

// ExpenseCount returns the number of stored expenses.
func (m *MockStore) ExpenseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.expenses)
}

func (m *MockStore) checkFailure(operation string) error {
	if m.unreachable {
		return common.ErrRemoteUnreachable
	}
	if err, ok := m.failNext[operation]; ok {
		delete(m.failNext, operation)
		return err
	}
	return nil
}

// Ping implements service.RemoteStore.
func (m *MockStore) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkFailure("ping")
}

// CreateExpense implements service.RemoteStore.
func (m *MockStore) CreateExpense(_ context.Context, userID string, expense *model.Expense) (*model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFailure("create"); err != nil {
		return nil, err
	}

	m.nextID++
	stored := *expense
	stored.ID = fmt.Sprintf("remote-%d", m.nextID)
	stored.UserID = userID
	stored.Synced = true
	m.expenses[stored.ID] = stored

	result := stored
	return &result, nil
}

// UpdateExpense implements service.RemoteStore.
func (m *MockStore) UpdateExpense(_ context.Context, userID string, expense *model.Expense) (*model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFailure("update"); err != nil {
		return nil, err
	}

	existing, ok := m.expenses[expense.ID]
	if !ok || existing.UserID != userID {
		return nil, common.ErrNotFound
	}

	stored := *expense
	stored.UserID = userID
	stored.Synced = true
	m.expenses[stored.ID] = stored

	result := stored
	return &result, nil
}

// DeleteExpense implements service.RemoteStore.
func (m *MockStore) DeleteExpense(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFailure("delete"); err != nil {
		return err
	}

	existing, ok := m.expenses[id]
	if !ok || existing.UserID != userID {
		return common.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

// ListExpenses implements service.RemoteStore.
func (m *MockStore) ListExpenses(_ context.Context, userID string) ([]model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFailure("list"); err != nil {
		return nil, err
	}

	var out []model.Expense
	for _, expense := range m.expenses {
		if expense.UserID == userID {
			out = append(out, expense)
		}
	}
	return out, nil
}
