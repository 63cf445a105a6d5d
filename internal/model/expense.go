// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Expense represents a single logged expense in any session scope.
// JSON encoding is camelCase; the remote store's snake_case translation
// lives in the remote package.
type Expense struct {
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
	ID           string    `json:"id,omitempty"`
	Description  string    `json:"description"`  // Raw description entered by the user or parsed from a notification
	MerchantName string    `json:"merchantName"` // Cleaned merchant name
	Category     string    `json:"category"`     // Category id from the taxonomy
	Note         string    `json:"note,omitempty"`
	ReceiptURL   string    `json:"receiptUrl,omitempty"`
	SourceApp    string    `json:"sourceApp,omitempty"` // Originating payment app for auto-logged expenses
	UserID       string    `json:"userId,omitempty"`    // Empty in guest scope
	Amount       float64   `json:"amount"`
	IsAutoLogged bool      `json:"isAutoLogged"`
	Synced       bool      `json:"synced"`
}

// NormalizedDescription returns the description lowered and trimmed,
// as used by the duplicate guard and the classifier.
func (e *Expense) NormalizedDescription() string {
	return strings.ToLower(strings.TrimSpace(e.Description))
}

// GenerateHash creates a unique hash for duplicate detection.
func (e *Expense) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s",
		e.Date.Format("2006-01-02"),
		e.Amount,
		e.NormalizedDescription())
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// DuplicateOf reports whether this expense matches another on the
// duplicate-guard criteria: same normalized description, amount within
// 0.01, and same calendar date.
func (e *Expense) DuplicateOf(other *Expense) bool {
	if e.NormalizedDescription() != other.NormalizedDescription() {
		return false
	}
	diff := e.Amount - other.Amount
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.01 {
		return false
	}
	return e.Date.Format("2006-01-02") == other.Date.Format("2006-01-02")
}
