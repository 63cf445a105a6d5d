package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/model"
)

func sampleExpenses() []model.Expense {
	return []model.Expense{
		{
			Date:        time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			Description: "Lunch at cafe",
			Category:    "food",
			Amount:      250,
			Note:        "team lunch",
			ReceiptURL:  "https://example.com/r/1",
		},
		{
			Date:        time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
			Description: "Uber to airport",
			Category:    "transport",
			Amount:      480.5,
		},
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "Date,Description,Category,Amount (₹),Note,Receipt\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleExpenses()))

	got, skipped, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 2)

	assert.Equal(t, "Lunch at cafe", got[0].Description)
	assert.Equal(t, "food", got[0].Category)
	assert.Equal(t, 250.0, got[0].Amount)
	assert.Equal(t, "team lunch", got[0].Note)
	assert.Equal(t, "https://example.com/r/1", got[0].ReceiptURL)
	assert.Equal(t, "2026-08-15", got[0].Date.Format("2006-01-02"))

	assert.Equal(t, 480.5, got[1].Amount)
	assert.Empty(t, got[1].Note)
}

func TestReadCSVSkipsInvalidRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Category,Amount (₹),Note,Receipt",
		"2026-08-15,Lunch,food,250,,",
		"not-a-date,Lunch,food,250,,",     // bad date
		"2026-08-15,,food,250,,",          // missing description
		"2026-08-15,Lunch,,250,,",         // missing category
		"2026-08-15,Lunch,food,zero,,",    // unparseable amount
		"2026-08-15,Lunch,food,-5,,",      // non-positive amount
		"2026-08-16,Dinner,food,300,ok,r", // valid
	}, "\n")

	got, skipped, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 5, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "Lunch", got[0].Description)
	assert.Equal(t, "Dinner", got[1].Description)
}

func TestReadCSVWithoutHeader(t *testing.T) {
	input := "2026-08-15,Lunch,food,250,,\n"

	got, skipped, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, got, 1)
}

func TestReadCSVEmpty(t *testing.T) {
	got, skipped, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, got)
}
