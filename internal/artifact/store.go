package artifact

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named artifact does not exist for the
// session.
var ErrNotFound = errors.New("artifact not found")

// Store persists named binary artifacts (rendered chart PNGs) scoped to a
// session. Names are unique within a session; Save replaces.
type Store interface {
	// Save stores an artifact under a session-scoped name
	Save(ctx context.Context, sessionID, name string, data []byte) error
	// Load returns an artifact's raw bytes
	Load(ctx context.Context, sessionID, name string) ([]byte, error)
	// Delete removes all artifacts for a session
	Delete(ctx context.Context, sessionID string) error
}
