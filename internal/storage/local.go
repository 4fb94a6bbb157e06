package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/notes"
)

// GuestScope is the storage partition used when nobody is logged in.
// An empty scope always maps onto it.
const GuestScope = "guest"

const (
	// DefaultPrefix namespaces all per-scope note keys.
	DefaultPrefix  = "notesWorkspace.notes"
	activeScopeKey = "notesWorkspace.activeUser"
	accountsKey    = "notesWorkspace.accounts"
)

// LocalStore is the local persistence adapter: durable, scope-namespaced
// JSON blobs in a single SQLite key/value table. Reads never fail the
// caller; missing or corrupt payloads degrade to an empty result.
type LocalStore struct {
	db     *sql.DB
	prefix string
}

// NewLocalStore creates a local store over an opened, migrated database.
// An empty prefix falls back to DefaultPrefix.
func NewLocalStore(db *sql.DB, prefix string) *LocalStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &LocalStore{db: db, prefix: prefix}
}

// Ping verifies the underlying database is reachable.
func (s *LocalStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// KeyForScope derives the storage key for a scope's notes. Empty scopes map
// to the guest namespace.
func (s *LocalStore) KeyForScope(scope string) string {
	if scope == "" {
		scope = GuestScope
	}
	return s.prefix + "." + scope
}

// ReadNotes loads the note list for a scope. Missing or corrupt data yields
// an empty slice, never an error.
func (s *LocalStore) ReadNotes(ctx context.Context, scope string) []notes.Note {
	var all []notes.Note
	s.readJSON(ctx, s.KeyForScope(scope), &all)
	if all == nil {
		all = []notes.Note{}
	}
	return all
}

// WriteNotes stores the full note list for a scope. The returned error is a
// degradation signal; callers keep their in-memory state authoritative.
func (s *LocalStore) WriteNotes(ctx context.Context, scope string, all []notes.Note) error {
	return s.writeJSON(ctx, s.KeyForScope(scope), all)
}

// ClearNotes removes a scope's stored note list entirely.
func (s *LocalStore) ClearNotes(ctx context.Context, scope string) error {
	return s.delete(ctx, s.KeyForScope(scope))
}

// ReadCustomTags loads the scope's custom tag definitions.
func (s *LocalStore) ReadCustomTags(ctx context.Context, scope string) []notes.CustomTag {
	var tags []notes.CustomTag
	s.readJSON(ctx, s.KeyForScope(scope)+".tags", &tags)
	if tags == nil {
		tags = []notes.CustomTag{}
	}
	return tags
}

// WriteCustomTags stores the scope's custom tag definitions.
func (s *LocalStore) WriteCustomTags(ctx context.Context, scope string, tags []notes.CustomTag) error {
	return s.writeJSON(ctx, s.KeyForScope(scope)+".tags", tags)
}

// ReadFolders loads the scope's folder list.
func (s *LocalStore) ReadFolders(ctx context.Context, scope string) []notes.Folder {
	var folders []notes.Folder
	s.readJSON(ctx, s.KeyForScope(scope)+".folders", &folders)
	if folders == nil {
		folders = []notes.Folder{}
	}
	return folders
}

// WriteFolders stores the scope's folder list.
func (s *LocalStore) WriteFolders(ctx context.Context, scope string, folders []notes.Folder) error {
	return s.writeJSON(ctx, s.KeyForScope(scope)+".folders", folders)
}

// ActiveScope returns the persisted active scope, or "" when nobody is
// logged in.
func (s *LocalStore) ActiveScope(ctx context.Context) string {
	value, ok := s.get(ctx, activeScopeKey)
	if !ok {
		return ""
	}
	return value
}

// SetActiveScope persists the active scope. Blank scopes are ignored.
func (s *LocalStore) SetActiveScope(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}
	return s.set(ctx, activeScopeKey, scope)
}

// ClearActiveScope removes the persisted active scope.
func (s *LocalStore) ClearActiveScope(ctx context.Context) error {
	return s.delete(ctx, activeScopeKey)
}

// ReadAccounts loads the registered account list.
func (s *LocalStore) ReadAccounts(ctx context.Context) []notes.Account {
	var accounts []notes.Account
	s.readJSON(ctx, accountsKey, &accounts)
	if accounts == nil {
		accounts = []notes.Account{}
	}
	return accounts
}

// WriteAccounts stores the registered account list.
func (s *LocalStore) WriteAccounts(ctx context.Context, accounts []notes.Account) error {
	return s.writeJSON(ctx, accountsKey, accounts)
}

func (s *LocalStore) readJSON(ctx context.Context, key string, out any) {
	raw, ok := s.get(ctx, key)
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger(ctx).WarnContext(ctx, "corrupt local payload, treating as empty", "key", key, "error", err)
	}
}

func (s *LocalStore) writeJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize payload for %s: %w", key, err)
	}
	return s.set(ctx, key, string(payload))
}

func (s *LocalStore) get(ctx context.Context, key string) (string, bool) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM local_store WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		logger(ctx).WarnContext(ctx, "local read failed, treating as empty", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *LocalStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_store (key, value, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET
		 value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM local_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func logger(ctx context.Context) *slog.Logger {
	return contextutil.LoggerFromContext(ctx)
}
