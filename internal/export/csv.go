// Package export implements CSV and JSON export/import of expenses.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pennylog/pennylog/internal/model"
)

// csvHeader is the exact column layout of the CSV format. Receipt URLs and
// auto-logged flags do not round-trip through CSV; use JSON for full
// fidelity.
var csvHeader = []string{"Date", "Description", "Category", "Amount (₹)", "Note", "Receipt"}

// csvDateLayout is the date format used in exports.
const csvDateLayout = "2006-01-02"

// WriteCSV writes expenses as CSV.
func WriteCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		e := &expenses[i]
		record := []string{
			e.Date.Format(csvDateLayout),
			e.Description,
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Note,
			e.ReceiptURL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses expenses from CSV. Rows missing a description, a positive
// amount, a parseable date, or a category are skipped, never fatal; the
// skip count is returned alongside the accepted rows.
func ReadCSV(r io.Reader) ([]model.Expense, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, nil
	}

	// Skip a header row if present
	start := 0
	if len(records[0]) > 0 && records[0][0] == csvHeader[0] {
		start = 1
	}

	var expenses []model.Expense
	skipped := 0
	for _, record := range records[start:] {
		expense, ok := parseCSVRecord(record)
		if !ok {
			skipped++
			continue
		}
		expenses = append(expenses, expense)
	}

	return expenses, skipped, nil
}

func parseCSVRecord(record []string) (model.Expense, bool) {
	if len(record) < 4 {
		return model.Expense{}, false
	}

	date, err := time.Parse(csvDateLayout, record[0])
	if err != nil {
		return model.Expense{}, false
	}

	description := record[1]
	category := record[2]
	if description == "" || category == "" {
		return model.Expense{}, false
	}

	amount, err := strconv.ParseFloat(record[3], 64)
	if err != nil || amount <= 0 {
		return model.Expense{}, false
	}

	expense := model.Expense{
		Date:        date,
		Description: description,
		Category:    category,
		Amount:      amount,
	}
	if len(record) > 4 {
		expense.Note = record[4]
	}
	if len(record) > 5 {
		expense.ReceiptURL = record[5]
	}
	return expense, true
}
