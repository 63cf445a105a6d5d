package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestNormalizedDescription(t *testing.T) {
	e := Expense{Description: "  Uber Eats DINNER "}
	assert.Equal(t, "uber eats dinner", e.NormalizedDescription())
}

func TestGenerateHashStable(t *testing.T) {
	a := Expense{Date: date("2026-01-15"), Amount: 250, Description: "Lunch"}
	b := Expense{Date: date("2026-01-15"), Amount: 250, Description: "  lunch  "}
	c := Expense{Date: date("2026-01-16"), Amount: 250, Description: "Lunch"}

	assert.Equal(t, a.GenerateHash(), b.GenerateHash())
	assert.NotEqual(t, a.GenerateHash(), c.GenerateHash())
}

func TestDuplicateOf(t *testing.T) {
	base := Expense{Date: date("2026-01-15"), Amount: 250, Description: "Lunch"}

	tests := []struct {
		name  string
		other Expense
		want  bool
	}{
		{
			name:  "exact match",
			other: Expense{Date: date("2026-01-15"), Amount: 250, Description: "lunch"},
			want:  true,
		},
		{
			name:  "amount within tolerance",
			other: Expense{Date: date("2026-01-15"), Amount: 250.005, Description: "Lunch"},
			want:  true,
		},
		{
			name:  "amount outside tolerance",
			other: Expense{Date: date("2026-01-15"), Amount: 250.02, Description: "Lunch"},
			want:  false,
		},
		{
			name:  "different date",
			other: Expense{Date: date("2026-01-16"), Amount: 250, Description: "Lunch"},
			want:  false,
		},
		{
			name:  "different description",
			other: Expense{Date: date("2026-01-15"), Amount: 250, Description: "Dinner"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.DuplicateOf(&tt.other))
		})
	}
}
