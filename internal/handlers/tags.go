package handlers

import (
	"encoding/json"
	"net/http"

	"notes-workspace/internal/notes"
	"notes-workspace/internal/workspace"
)

// TagsHandler exposes the scope's custom tag definitions.
type TagsHandler struct {
	session *workspace.Session
}

// NewTagsHandler creates a handler bound to the application session.
func NewTagsHandler(session *workspace.Session) *TagsHandler {
	return &TagsHandler{session: session}
}

// List returns the scope's custom tag definitions.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, struct {
		Tags []notes.CustomTag `json:"tags"`
	}{Tags: h.session.CustomTags(ctx)})
}

// Replace stores the full custom tag list for the scope.
func (h *TagsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Tags []notes.CustomTag `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Tags == nil {
		req.Tags = []notes.CustomTag{}
	}

	if err := h.session.SaveCustomTags(ctx, req.Tags); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, struct {
		Tags []notes.CustomTag `json:"tags"`
	}{Tags: req.Tags})
}
