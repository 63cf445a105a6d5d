package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
)

// AppendSyncQueueItem records a locally-applied mutation for later replay.
func (s *SQLiteStorage) AppendSyncQueueItem(ctx context.Context, item *model.SyncQueueItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateQueueItem(item); err != nil {
		return err
	}

	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (id, operation, table_name, data, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`,
		item.ID,
		string(item.Operation),
		item.TableName,
		string(item.Payload),
		item.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append sync queue item: %w", err)
	}
	return nil
}

// GetSyncQueue returns all pending items in FIFO order.
func (s *SQLiteStorage) GetSyncQueue(ctx context.Context) ([]model.SyncQueueItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation, table_name, data, timestamp
		FROM sync_queue
		ORDER BY timestamp ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync queue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.SyncQueueItem
	for rows.Next() {
		var item model.SyncQueueItem
		var op, payload string
		var ts int64
		if err := rows.Scan(&item.ID, &op, &item.TableName, &payload, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan sync queue item: %w", err)
		}
		item.Operation = model.SyncOp(op)
		item.Payload = []byte(payload)
		item.Timestamp = time.Unix(0, ts)
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateSyncQueueItemPayload rewrites a queued item's payload in place. The
// drain uses this to propagate canonical ids into later queued mutations.
func (s *SQLiteStorage) UpdateSyncQueueItemPayload(ctx context.Context, id string, payload []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidQueueItem)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sync_queue SET data = ? WHERE id = ?
	`, string(payload), id)
	if err != nil {
		return fmt.Errorf("failed to update sync queue item %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check sync queue update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: sync queue item %s", common.ErrNotFound, id)
	}
	return nil
}

// DeleteSyncQueueItem consumes a queue entry after a confirmed remote write.
func (s *SQLiteStorage) DeleteSyncQueueItem(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sync queue item %s: %w", id, err)
	}
	return nil
}
