package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
)

// drainRetryOptions bounds the per-item replay attempts. A still-failing
// item stops the drain; it retries on the next reconnect.
var drainRetryOptions = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2.0,
}

// Drain replays queued offline mutations against the remote store in FIFO
// order. An item is removed only after its remote write is confirmed. The
// first unrecoverable failure stops the drain, leaving the remaining items
// for the next connectivity-restored event.
func (c *Coordinator) Drain(ctx context.Context, sess model.Session) (service.SyncStats, error) {
	start := time.Now()
	stats := service.SyncStats{}

	if !sess.Authenticated() {
		return stats, fmt.Errorf("%w: drain requires an authenticated session", common.ErrInvalidConfig)
	}

	items, err := c.local.GetSyncQueue(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to read sync queue: %w", err)
	}
	stats.Remaining = len(items)

	if len(items) == 0 {
		return stats, nil
	}

	slog.Info("Draining sync queue", "items", len(items))

	for i := range items {
		select {
		case <-ctx.Done():
			stats.Duration = time.Since(start)
			return stats, ctx.Err()
		default:
		}

		item := items[i]
		remap, err := c.replayItem(ctx, sess, item)
		if err != nil {
			stats.Duration = time.Since(start)
			slog.Warn("Sync drain stopped on failure",
				"item_id", item.ID,
				"operation", item.Operation,
				"replayed", stats.Replayed,
				"error", err)
			return stats, err
		}

		if err := c.local.DeleteSyncQueueItem(ctx, item.ID); err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("failed to consume queue item %s: %w", item.ID, err)
		}
		stats.Replayed++
		stats.Remaining--

		if remap != nil {
			if err := c.rewriteQueuedIDs(ctx, items[i+1:], remap); err != nil {
				stats.Duration = time.Since(start)
				return stats, err
			}
		}
	}

	stats.Duration = time.Since(start)
	slog.Info("Sync queue drained", "replayed", stats.Replayed, "duration", stats.Duration)
	return stats, nil
}

// idRemap records the rename a replayed create performed: the provisional
// local id and the canonical id the remote assigned.
type idRemap struct {
	local     string
	canonical string
}

// replayItem applies one queued mutation to the remote store with retries.
// A create that received a new canonical id returns the remap so the drain
// can redirect later queued mutations still holding the provisional id.
func (c *Coordinator) replayItem(ctx context.Context, sess model.Session, item model.SyncQueueItem) (*idRemap, error) {
	var expense model.Expense
	if err := json.Unmarshal(item.Payload, &expense); err != nil {
		return nil, fmt.Errorf("corrupt queue payload %s: %w", item.ID, err)
	}

	var remap *idRemap
	err := common.WithRetry(ctx, func() error {
		switch item.Operation {
		case model.SyncOpCreate:
			canonical, err := c.remote.CreateExpense(ctx, sess.UserID, &expense)
			if err != nil {
				return err
			}
			if canonical.ID != expense.ID {
				remap = &idRemap{local: expense.ID, canonical: canonical.ID}
			}
			if err := c.local.MarkExpenseSynced(ctx, expense.ID, canonical.ID); err != nil {
				// The local row may already carry the canonical id from a
				// mirror refresh; treat a missing row as already reconciled.
				if !errors.Is(err, common.ErrNotFound) {
					return err
				}
			}
			return nil

		case model.SyncOpUpdate:
			_, err := c.remote.UpdateExpense(ctx, sess.UserID, &expense)
			if errors.Is(err, common.ErrStaleWrite) {
				// The remote row moved on; drop the stale queued write.
				slog.Warn("Dropping stale queued update", "expense_id", expense.ID)
				return nil
			}
			if err != nil {
				return err
			}
			if err := c.local.MarkExpenseSynced(ctx, expense.ID, expense.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}
			return nil

		case model.SyncOpDelete:
			err := c.remote.DeleteExpense(ctx, sess.UserID, expense.ID)
			if errors.Is(err, common.ErrNotFound) {
				return nil // Already gone remotely
			}
			return err

		default:
			return fmt.Errorf("unknown queue operation %q", item.Operation)
		}
	}, drainRetryOptions)
	if err != nil {
		return nil, err
	}
	return remap, nil
}

// rewriteQueuedIDs redirects queued mutations that still reference a
// provisional local id to the canonical one. An offline create followed by
// an offline edit or delete queues both mutations under the local id;
// without the rewrite the later items would target a row the remote never had.
// Payloads are rewritten in the store too, so an interrupted drain resumes
// with the rename already applied.
func (c *Coordinator) rewriteQueuedIDs(ctx context.Context, remaining []model.SyncQueueItem, remap *idRemap) error {
	for i := range remaining {
		var expense model.Expense
		if err := json.Unmarshal(remaining[i].Payload, &expense); err != nil {
			continue // Corrupt payloads fail at their own replay
		}
		if expense.ID != remap.local {
			continue
		}

		expense.ID = remap.canonical
		payload, err := json.Marshal(&expense)
		if err != nil {
			return fmt.Errorf("failed to encode reconciled payload: %w", err)
		}

		remaining[i].Payload = payload
		if err := c.local.UpdateSyncQueueItemPayload(ctx, remaining[i].ID, payload); err != nil {
			return fmt.Errorf("failed to reconcile queue item %s: %w", remaining[i].ID, err)
		}
	}
	return nil
}
