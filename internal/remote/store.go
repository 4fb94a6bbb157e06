package remote

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notes-workspace/internal/remote NoteStore

import (
	"context"
	"errors"

	"notes-workspace/internal/notes"
)

var (
	// ErrNetwork is returned when the remote store cannot be reached or a
	// call fails for a non-auth reason. Callers degrade to local-only data.
	ErrNetwork = errors.New("remote unavailable")
	// ErrAuth is returned when the remote store rejects the credentials.
	ErrAuth = errors.New("remote authentication failed")
)

// NoteStore is the remote sync adapter: a network-backed note collection
// keyed by the authenticated user. All failures unwrap to ErrNetwork or
// ErrAuth; neither is fatal to the offline-first caller.
type NoteStore interface {
	// Fetch returns every note stored remotely for the user.
	Fetch(ctx context.Context, userID string) ([]notes.Note, error)
	// Push upserts the full note collection for the user, keyed by note id.
	Push(ctx context.Context, userID string, all []notes.Note) error
}
