package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/testutil"
)

func TestTrainingExamplesInsertionOrder(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	examples := []model.TrainingExample{
		{Description: "chaiwala corner", Category: "food"},
		{Description: "society dues", Category: "bills"},
		{Description: "chaiwala corner", Category: "food"}, // duplicates are kept
	}
	for _, ex := range examples {
		require.NoError(t, store.AppendTrainingExample(ctx, ex))
	}

	got, err := store.GetTrainingExamples(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "chaiwala corner", got[0].Description)
	assert.Equal(t, "society dues", got[1].Description)
	assert.Equal(t, "chaiwala corner", got[2].Description)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestAppendTrainingExampleValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	assert.Error(t, store.AppendTrainingExample(ctx, model.TrainingExample{Category: "food"}))
	assert.Error(t, store.AppendTrainingExample(ctx, model.TrainingExample{Description: "something"}))
}
