package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/workspace"
)

// ErrorResponse is the JSON error payload shared by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, ErrorResponse{Error: message})
}

// writeDomainError maps workspace errors onto HTTP statuses. Validation
// problems are the caller's fault; auth policy maps to 401 with the login
// prompt; everything unknown is a 500.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *workspace.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(ctx, w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, workspace.ErrAuthRequired):
		writeError(ctx, w, http.StatusUnauthorized, "You need to be logged in to save notes. Log in to continue.")
	case errors.Is(err, workspace.ErrBadCredentials):
		writeError(ctx, w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, workspace.ErrUsernameTaken):
		writeError(ctx, w, http.StatusConflict, err.Error())
	case errors.Is(err, workspace.ErrNotFound), errors.Is(err, workspace.ErrNoActiveNote):
		writeError(ctx, w, http.StatusNotFound, err.Error())
	default:
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "unhandled domain error", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "internal error")
	}
}
