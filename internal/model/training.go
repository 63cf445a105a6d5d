package model

import "time"

// TrainingExample is a user-confirmed (description, category) pair.
// Examples are append-only and never deduplicated; they serve as
// secondary evidence when keyword matching fails, never as ground truth.
type TrainingExample struct {
	CreatedAt   time.Time
	Description string // Stored lowercased
	Category    string
}
