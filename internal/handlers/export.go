package handlers

import (
	"net/http"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/notes"
	"notes-workspace/internal/workspace"
)

// ExportHandler serves the whole collection as a plain-text document.
type ExportHandler struct {
	session *workspace.Session
}

// NewExportHandler creates a handler bound to the application session.
func NewExportHandler(session *workspace.Session) *ExportHandler {
	return &ExportHandler{session: session}
}

// ServeHTTP writes every note in the session's current order as delimited
// text blocks, suitable for download.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	text := notes.FormatText(h.session.Notes())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="notes-export.txt"`)
	if _, err := w.Write([]byte(text)); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to write export", "error", err)
	}
}
