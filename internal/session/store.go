// Package session enforces the guest/authenticated storage boundary.
//
// Guest data and authenticated data live in two disjoint SQLite databases
// selected by the session kind. There is deliberately no path that copies or
// merges guest rows into an account: signing up leaves the guest store
// untouched, and any migration markers left behind by older builds are
// actively cleared on transition.
package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/service"
	"github.com/pennylog/pennylog/internal/storage"
)

// Store names for the two scopes. Selecting by session kind, never by an
// owner filter over a shared store, is what keeps guest rows out of
// authenticated queries.
const (
	guestDBName = "guest.db"
	userDBName  = "user.db"
)

// Open returns the local store for the given session, migrated and ready.
// The caller owns the returned store and must Close it.
func Open(ctx context.Context, dataDir string, sess model.Session) (service.LocalStore, error) {
	name := guestDBName
	if sess.Authenticated() {
		name = userDBName
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dataDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", sess.Kind, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate %s store: %w", sess.Kind, err)
	}

	return store, nil
}

// TransitionToAuthenticated runs the sign-up/sign-in transition. Guest data
// is left exactly where it is; only stale migration markers are removed,
// recording that migration is permanently disabled rather than pending.
func TransitionToAuthenticated(ctx context.Context, dataDir string) error {
	guest, err := Open(ctx, dataDir, model.GuestSession())
	if err != nil {
		return err
	}
	defer func() { _ = guest.Close() }()

	if err := guest.ClearMigrationMarkers(ctx); err != nil {
		return fmt.Errorf("failed to clear migration markers: %w", err)
	}
	return nil
}
