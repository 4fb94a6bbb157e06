package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-workspace/internal/notes"
	"notes-workspace/internal/workspace"
)

// FoldersHandler exposes the scope's folder list.
type FoldersHandler struct {
	session *workspace.Session
}

// NewFoldersHandler creates a handler bound to the application session.
func NewFoldersHandler(session *workspace.Session) *FoldersHandler {
	return &FoldersHandler{session: session}
}

// List returns the scope's folders.
func (h *FoldersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, struct {
		Folders []notes.Folder `json:"folders"`
	}{Folders: h.session.Folders()})
}

// FolderRequest names a folder.
type FolderRequest struct {
	Name string `json:"name"`
}

// Create adds a folder. A blank name gets the default.
func (h *FoldersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FolderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	folder, err := h.session.CreateFolder(ctx, req.Name)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, folder)
}

// Rename changes a folder's name. Blank names are rejected.
func (h *FoldersHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.session.RenameFolder(ctx, chi.URLParam(r, "id"), req.Name); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a folder. Member notes survive with their folder detached.
func (h *FoldersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.session.DeleteFolder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, struct {
		Sync SyncResult `json:"sync"`
	}{Sync: saveResult(status)})
}
