package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// SnapshotStore defines the interface for persisting machine sessions.
// This allows a long computation to be stepped, stopped and resumed later.
type SnapshotStore interface {
	// Save persists the snapshot under snap.SessionID, replacing any previous one.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSnapshotNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	// Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
