package remote

import (
	"time"

	"github.com/pennylog/pennylog/internal/model"
)

// expenseRow mirrors the remote expenses table. Column names are snake_case;
// all translation to and from the camelCase model happens here and nowhere
// else.
type expenseRow struct {
	ID           string  `json:"id,omitempty"`
	UserID       string  `json:"user_id"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	MerchantName string  `json:"merchant_name,omitempty"`
	Category     string  `json:"category"`
	Timestamp    int64   `json:"timestamp"`
	Notes        string  `json:"notes,omitempty"`
	ReceiptURL   string  `json:"receipt_url,omitempty"`
	IsAutoLogged bool    `json:"is_auto_logged"`
	SourceApp    string  `json:"source_app,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

// toExpenseRow converts a model expense to its storage representation.
func toExpenseRow(expense *model.Expense) *expenseRow {
	row := &expenseRow{
		ID:           expense.ID,
		UserID:       expense.UserID,
		Amount:       expense.Amount,
		Description:  expense.Description,
		MerchantName: expense.MerchantName,
		Category:     expense.Category,
		Timestamp:    expense.Date.Unix(),
		Notes:        expense.Note,
		ReceiptURL:   expense.ReceiptURL,
		IsAutoLogged: expense.IsAutoLogged,
		SourceApp:    expense.SourceApp,
	}
	if !expense.CreatedAt.IsZero() {
		row.CreatedAt = expense.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !expense.UpdatedAt.IsZero() {
		row.UpdatedAt = expense.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// fromExpenseRow converts a storage row back to the model. Remote records
// are synced by definition.
func fromExpenseRow(row *expenseRow) *model.Expense {
	expense := &model.Expense{
		ID:           row.ID,
		UserID:       row.UserID,
		Amount:       row.Amount,
		Description:  row.Description,
		MerchantName: row.MerchantName,
		Category:     row.Category,
		Date:         time.Unix(row.Timestamp, 0),
		Note:         row.Notes,
		ReceiptURL:   row.ReceiptURL,
		IsAutoLogged: row.IsAutoLogged,
		SourceApp:    row.SourceApp,
		Synced:       true,
	}
	if row.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
			expense.CreatedAt = t
		}
	}
	if row.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, row.UpdatedAt); err == nil {
			expense.UpdatedAt = t
		}
	}
	return expense
}
