package model

import (
	"strings"
	"time"
)

// PendingStatus tracks a detected transaction through its lifecycle.
type PendingStatus string

const (
	// PendingStatusPending means the transaction awaits user confirmation.
	PendingStatusPending PendingStatus = "PENDING"
	// PendingStatusConfirmed means the user accepted it and an expense was created.
	PendingStatusConfirmed PendingStatus = "CONFIRMED"
	// PendingStatusDismissed means the user rejected it.
	PendingStatusDismissed PendingStatus = "DISMISSED"
	// PendingStatusExpired means it aged out before confirm/dismiss.
	PendingStatusExpired PendingStatus = "EXPIRED"
)

// PendingTransaction is an auto-detected, not-yet-confirmed expense
// candidate parsed from a payment notification.
type PendingTransaction struct {
	DetectedAt    time.Time
	ExpiresAt     time.Time
	ID            string
	TransactionID string // Id assigned by the payment app, used for dedup
	MerchantName  string
	SourceApp     string
	Status        PendingStatus
	Amount        float64
}

// Expired reports whether the entry aged out relative to now.
func (p *PendingTransaction) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// MatchesPayment reports whether another detection looks like the same
// real-world payment: equal amount and case-insensitive merchant match.
func (p *PendingTransaction) MatchesPayment(amount float64, merchant string) bool {
	return p.Amount == amount &&
		strings.EqualFold(p.MerchantName, merchant)
}
