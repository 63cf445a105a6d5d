package model

import "time"

// SyncOp identifies the kind of mutation recorded in the sync queue.
type SyncOp string

const (
	// SyncOpCreate records a locally-applied insert awaiting remote replay.
	SyncOpCreate SyncOp = "create"
	// SyncOpUpdate records a locally-applied update awaiting remote replay.
	SyncOpUpdate SyncOp = "update"
	// SyncOpDelete records a locally-applied delete awaiting remote replay.
	SyncOpDelete SyncOp = "delete"
)

// SyncQueueItem is one entry in the ordered log of offline mutations.
// Items are appended when a write cannot reach the remote store and are
// consumed exactly once after a confirmed replay.
type SyncQueueItem struct {
	Timestamp time.Time
	ID        string
	Operation SyncOp
	TableName string
	Payload   []byte // JSON-encoded record as it was applied locally
}
