package workspace

import (
	"context"
	"sort"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/notes"
	"notes-workspace/internal/remote"
	"notes-workspace/internal/storage"
)

// Engine reconciles the local and remote note sets for a scope into one
// collection, and writes mutations through both adapters. Local storage is
// the durability source of truth; the remote store is an
// eventually-consistent cache that is only consulted for authenticated,
// non-guest scopes.
type Engine struct {
	local  *storage.LocalStore
	remote remote.NoteStore // nil when no remote is configured
}

// NewEngine creates a merge engine. remoteStore may be nil for local-only
// deployments.
func NewEngine(local *storage.LocalStore, remoteStore remote.NoteStore) *Engine {
	return &Engine{local: local, remote: remoteStore}
}

// LoadStatus reports whether a load consulted the remote store and how it
// degraded, if it did. A degraded load still yields a usable local-only
// collection.
type LoadStatus struct {
	RemoteAttempted bool
	RemoteErr       error
}

// Degraded reports whether the remote side of the load failed.
func (s LoadStatus) Degraded() bool { return s.RemoteErr != nil }

// SaveStatus reports the outcome of a write-through. Neither error rolls the
// other side back; the in-memory collection stays authoritative.
type SaveStatus struct {
	LocalErr     error
	RemotePushed bool
	RemoteErr    error
}

// Degraded reports whether either side of the write-through failed.
func (s SaveStatus) Degraded() bool { return s.LocalErr != nil || s.RemoteErr != nil }

// LoadNotes produces the authoritative collection for a scope: the union of
// remote and local notes keyed by id, remote content winning on collision,
// sorted by UpdatedAt descending. Remote failures degrade to local-only and
// are reported in the status, never as an error.
func (e *Engine) LoadNotes(ctx context.Context, scope string, authed bool) ([]notes.Note, LoadStatus) {
	var (
		status LoadStatus
		cloud  []notes.Note
	)

	if e.remoteEnabled(scope, authed) {
		status.RemoteAttempted = true
		fetched, err := e.remote.Fetch(ctx, scope)
		if err != nil {
			status.RemoteErr = err
			contextutil.LoggerFromContext(ctx).WarnContext(ctx,
				"remote fetch failed, using local notes only", "scope", scope, "error", err)
		} else {
			cloud = fetched
		}
	}

	local := e.local.ReadNotes(ctx, scope)
	return merge(cloud, local), status
}

// SaveNotes writes the collection through both adapters: local first, so
// durability never depends on the network, then remote when authenticated
// outside the guest scope. A remote push failure is recorded, not fatal.
func (e *Engine) SaveNotes(ctx context.Context, scope string, authed bool, all []notes.Note) SaveStatus {
	var status SaveStatus

	if err := e.local.WriteNotes(ctx, scope, all); err != nil {
		status.LocalErr = err
		contextutil.LoggerFromContext(ctx).WarnContext(ctx,
			"local write failed", "scope", scope, "error", err)
	}

	if e.remoteEnabled(scope, authed) {
		if err := e.remote.Push(ctx, scope, all); err != nil {
			status.RemoteErr = err
			contextutil.LoggerFromContext(ctx).WarnContext(ctx,
				"remote push failed, local copy retained", "scope", scope, "error", err)
		} else {
			status.RemotePushed = true
		}
	}

	return status
}

// AdoptGuestNotes appends the guest scope's locally stored notes to the
// given scope's local set and clears the guest key, so a fresh login picks
// up everything written before authenticating. Returns the number of notes
// adopted.
func (e *Engine) AdoptGuestNotes(ctx context.Context, scope string) (int, error) {
	if scope == "" || scope == storage.GuestScope {
		return 0, nil
	}

	guest := e.local.ReadNotes(ctx, storage.GuestScope)
	if len(guest) == 0 {
		return 0, nil
	}

	combined := append(e.local.ReadNotes(ctx, scope), guest...)
	if err := e.local.WriteNotes(ctx, scope, combined); err != nil {
		return 0, WrapError(err, "failed to adopt guest notes")
	}
	if err := e.local.ClearNotes(ctx, storage.GuestScope); err != nil {
		return len(guest), WrapError(err, "failed to clear guest notes")
	}
	return len(guest), nil
}

func (e *Engine) remoteEnabled(scope string, authed bool) bool {
	return e.remote != nil && authed && scope != "" && scope != storage.GuestScope
}

// merge unions two note sets by id. Remote notes take identity precedence;
// local notes survive only when their id is absent remotely, which keeps
// offline-created notes without ever duplicating a synced one. This is a
// last-writer-union, not a field-level merge: divergent edits to the same id
// resolve to the remote copy.
func merge(cloud, local []notes.Note) []notes.Note {
	seen := make(map[string]struct{}, len(cloud))
	result := make([]notes.Note, 0, len(cloud)+len(local))

	for _, n := range cloud {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		result = append(result, n)
	}
	for _, n := range local {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		result = append(result, n)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt > result[j].UpdatedAt
	})
	return result
}
