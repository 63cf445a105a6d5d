package classifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pennylog/pennylog/internal/model"
)

// TrainingStore persists user corrections.
type TrainingStore interface {
	AppendTrainingExample(ctx context.Context, example model.TrainingExample) error
}

// Trainer appends (description, category) corrections to the training store.
type Trainer struct {
	store TrainingStore
}

// NewTrainer creates a trainer backed by the given store.
func NewTrainer(store TrainingStore) *Trainer {
	return &Trainer{store: store}
}

// RecordCorrection appends a user-confirmed example. The returned error is
// informational: training is a quality-of-life improvement and callers are
// expected to log and continue rather than fail their primary operation.
func (t *Trainer) RecordCorrection(ctx context.Context, description, category string) error {
	example := model.TrainingExample{
		Description: strings.ToLower(strings.TrimSpace(description)),
		Category:    category,
		CreatedAt:   time.Now(),
	}

	if err := t.store.AppendTrainingExample(ctx, example); err != nil {
		slog.Warn("Failed to record training correction",
			"category", category,
			"error", err)
		return err
	}
	return nil
}
