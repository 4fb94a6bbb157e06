package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-workspace/internal/notes"
	"notes-workspace/internal/workspace"
)

// NotesHandler exposes the note collection and its lifecycle operations.
// The UI collaborator supplies editor state explicitly in request bodies;
// nothing here reaches into rendering concerns.
type NotesHandler struct {
	session *workspace.Session
}

// NewNotesHandler creates a handler bound to the application session.
func NewNotesHandler(session *workspace.Session) *NotesHandler {
	return &NotesHandler{session: session}
}

// SyncResult tells the caller whether a persisted operation degraded
// (e.g. the remote push failed and only the local copy was written).
type SyncResult struct {
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

func saveResult(s workspace.SaveStatus) SyncResult {
	out := SyncResult{Degraded: s.Degraded()}
	if s.LocalErr != nil {
		out.Reason = s.LocalErr.Error()
	} else if s.RemoteErr != nil {
		out.Reason = s.RemoteErr.Error()
	}
	return out
}

// NoteResponse wraps a note together with the persistence outcome.
type NoteResponse struct {
	Note notes.Note `json:"note"`
	Sync SyncResult `json:"sync"`
}

// ListResponse is the payload for the collection listing.
type ListResponse struct {
	Notes    []notes.Note `json:"notes"`
	ActiveID string       `json:"activeId,omitempty"`
}

// List returns the query-pipeline view of the collection. Filter, search,
// date and sort arrive as query parameters and are best-effort: malformed
// values fall back to their defaults.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := notes.Query{
		FilterTag: r.URL.Query().Get("filter"),
		Search:    r.URL.Query().Get("q"),
		Date:      r.URL.Query().Get("date"),
		Sort:      notes.SortMode(r.URL.Query().Get("sort")),
	}

	resp := ListResponse{Notes: h.session.Query(q)}
	if active, ok := h.session.ActiveNote(); ok {
		resp.ActiveID = active.ID
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// CreateRequest carries the collaborator state seeding a new note.
type CreateRequest struct {
	ActiveFilter string `json:"activeFilter,omitempty"`
	SelectedDate string `json:"selectedDate,omitempty"`
	FolderID     string `json:"folderId,omitempty"`
}

// Create allocates a new note and makes it active.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	note, status := h.session.CreateNote(ctx, workspace.CreateInput{
		ActiveFilter: req.ActiveFilter,
		SelectedDate: req.SelectedDate,
		FolderID:     req.FolderID,
	})
	writeJSON(ctx, w, http.StatusCreated, NoteResponse{Note: note, Sync: saveResult(status)})
}

// Get returns a single note by id.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, ok := h.session.Note(chi.URLParam(r, "id"))
	if !ok {
		writeError(ctx, w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(ctx, w, http.StatusOK, note)
}

// Select makes a note the active one.
func (h *NotesHandler) Select(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.session.SetActiveNote(chi.URLParam(r, "id")); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveRequest carries the editor state for a save.
type SaveRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	ActiveFilter string   `json:"activeFilter,omitempty"`
}

// Save writes the supplied editor state into the note. Guests are rejected
// with a prompt to log in; saving is a durable action reserved for accounts.
func (h *NotesHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.session.SetActiveNote(chi.URLParam(r, "id")); err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	note, status, err := h.session.SaveActive(ctx, workspace.SaveInput{
		Title:        req.Title,
		Content:      req.Content,
		Tags:         req.Tags,
		ActiveFilter: req.ActiveFilter,
	})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, NoteResponse{Note: note, Sync: saveResult(status)})
}

// Delete removes the note. Deleting the only note clears it in place so the
// collection never becomes empty.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.session.SetActiveNote(chi.URLParam(r, "id")); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	status, err := h.session.DeleteActive(ctx)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	resp := struct {
		Sync     SyncResult `json:"sync"`
		ActiveID string     `json:"activeId,omitempty"`
	}{Sync: saveResult(status)}
	if active, ok := h.session.ActiveNote(); ok {
		resp.ActiveID = active.ID
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Duplicate clones the note into a new active note.
func (h *NotesHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.session.SetActiveNote(chi.URLParam(r, "id")); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	note, status, err := h.session.DuplicateActive(ctx)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, NoteResponse{Note: note, Sync: saveResult(status)})
}

// TagRequest names a tag to add.
type TagRequest struct {
	Tag string `json:"tag"`
}

// AddTag adds a tag to the note; duplicates and blanks are silent no-ops.
func (h *NotesHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.session.SetActiveNote(chi.URLParam(r, "id")); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	status, err := h.session.AddTag(ctx, req.Tag)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	note, _ := h.session.ActiveNote()
	writeJSON(ctx, w, http.StatusOK, NoteResponse{Note: note, Sync: saveResult(status)})
}

// RemoveTag removes a tag from the note; an absent tag is a no-op.
func (h *NotesHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.session.SetActiveNote(chi.URLParam(r, "id")); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	status, err := h.session.RemoveTag(ctx, chi.URLParam(r, "tag"))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	note, _ := h.session.ActiveNote()
	writeJSON(ctx, w, http.StatusOK, NoteResponse{Note: note, Sync: saveResult(status)})
}

// SyncResponse reports the outcome of a merge-on-demand.
type SyncResponse struct {
	Degraded        bool   `json:"degraded"`
	RemoteAttempted bool   `json:"remoteAttempted"`
	Reason          string `json:"reason,omitempty"`
	Count           int    `json:"count"`
}

// Sync re-merges the local and remote sets into the in-memory collection.
func (h *NotesHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := h.session.Load(ctx)
	resp := SyncResponse{
		Degraded:        status.Degraded(),
		RemoteAttempted: status.RemoteAttempted,
		Count:           len(h.session.Notes()),
	}
	if status.RemoteErr != nil {
		resp.Reason = status.RemoteErr.Error()
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
