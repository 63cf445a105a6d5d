package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
)

// Summary is the aggregate header of the JSON envelope format.
type Summary struct {
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

// Envelope wraps expenses with summary statistics for the enriched JSON
// export. The plain-array format is also accepted on import.
type Envelope struct {
	Summary           Summary                            `json:"summary"`
	CategoryBreakdown map[string]service.CategorySummary `json:"categoryBreakdown"`
	Expenses          []model.Expense                    `json:"expenses"`
}

// WriteJSON writes expenses as a plain JSON array.
func WriteJSON(w io.Writer, expenses []model.Expense) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(expenses); err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	return nil
}

// WriteJSONEnvelope writes expenses wrapped in a summary envelope.
func WriteJSONEnvelope(w io.Writer, expenses []model.Expense) error {
	envelope := Envelope{
		Expenses:          expenses,
		CategoryBreakdown: make(map[string]service.CategorySummary),
	}
	for i := range expenses {
		envelope.Summary.TotalAmount += expenses[i].Amount
		envelope.Summary.Count++

		cs := envelope.CategoryBreakdown[expenses[i].Category]
		cs.Count++
		cs.Amount += expenses[i].Amount
		envelope.CategoryBreakdown[expenses[i].Category] = cs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	return nil
}

// ReadJSON parses expenses from either the plain-array or envelope format.
// Invalid rows are skipped, never fatal; the skip count is returned.
func ReadJSON(r io.Reader) ([]model.Expense, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read JSON: %w", err)
	}

	var raw []model.Expense
	if err := json.Unmarshal(data, &raw); err != nil {
		var envelope Envelope
		if envErr := json.Unmarshal(data, &envelope); envErr != nil {
			return nil, 0, fmt.Errorf("failed to parse JSON: %w", err)
		}
		raw = envelope.Expenses
	}

	var expenses []model.Expense
	skipped := 0
	for i := range raw {
		if raw[i].Description == "" || raw[i].Amount <= 0 ||
			raw[i].Date.IsZero() || raw[i].Category == "" {
			skipped++
			continue
		}
		expenses = append(expenses, raw[i])
	}

	return expenses, skipped, nil
}
