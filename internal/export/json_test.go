package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleExpenses()))

	got, skipped, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "Lunch at cafe", got[0].Description)
	assert.Equal(t, 480.5, got[1].Amount)
}

func TestJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONEnvelope(&buf, sampleExpenses()))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Summary.Count)
	assert.InDelta(t, 730.5, envelope.Summary.TotalAmount, 0.001)
	assert.Equal(t, 1, envelope.CategoryBreakdown["food"].Count)
	assert.InDelta(t, 250.0, envelope.CategoryBreakdown["food"].Amount, 0.001)
	assert.Equal(t, 1, envelope.CategoryBreakdown["transport"].Count)

	// The envelope format is also accepted on import.
	got, skipped, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, got, 2)
}

func TestReadJSONSkipsInvalidRows(t *testing.T) {
	input := `[
		{"description": "Lunch", "category": "food", "amount": 250, "date": "2026-08-15T00:00:00Z"},
		{"description": "", "category": "food", "amount": 250, "date": "2026-08-15T00:00:00Z"},
		{"description": "Dinner", "category": "food", "amount": 0, "date": "2026-08-15T00:00:00Z"},
		{"description": "Snack", "category": "", "amount": 50, "date": "2026-08-15T00:00:00Z"},
		{"description": "Coffee", "category": "food", "amount": 80, "date": "0001-01-01T00:00:00Z"}
	]`

	got, skipped, err := ReadJSON(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, "Lunch", got[0].Description)
}

func TestReadJSONGarbage(t *testing.T) {
	_, _, err := ReadJSON(strings.NewReader("not json"))
	assert.Error(t, err)
}
