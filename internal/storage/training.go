package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pennylog/pennylog/internal/model"
)

// AppendTrainingExample records a user-confirmed (description, category)
// pair. The log is append-only: no deduplication, no capping.
func (s *SQLiteStorage) AppendTrainingExample(ctx context.Context, example model.TrainingExample) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(example.Description, "description"); err != nil {
		return err
	}
	if err := validateString(example.Category, "category"); err != nil {
		return err
	}

	if example.CreatedAt.IsZero() {
		example.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_examples (description, category, created_at)
		VALUES (?, ?, ?)
	`, example.Description, example.Category, example.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append training example: %w", err)
	}
	return nil
}

// GetTrainingExamples returns all examples in insertion order.
func (s *SQLiteStorage) GetTrainingExamples(ctx context.Context) ([]model.TrainingExample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT description, category, created_at
		FROM training_examples
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query training examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var examples []model.TrainingExample
	for rows.Next() {
		var ex model.TrainingExample
		if err := rows.Scan(&ex.Description, &ex.Category, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan training example: %w", err)
		}
		examples = append(examples, ex)
	}

	return examples, rows.Err()
}
