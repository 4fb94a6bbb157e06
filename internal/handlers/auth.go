package handlers

import (
	"encoding/json"
	"net/http"

	"notes-workspace/internal/workspace"
)

// AuthHandler exposes the local account flows: sign-up, login, logout and
// the current session view.
type AuthHandler struct {
	session *workspace.Session
}

// NewAuthHandler creates a handler bound to the application session.
func NewAuthHandler(session *workspace.Session) *AuthHandler {
	return &AuthHandler{session: session}
}

// CredentialsRequest carries a username/password pair.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes who is logged in and how the switch-over load
// went.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Degraded      bool   `json:"degraded,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func (h *AuthHandler) sessionResponse(r *http.Request, status workspace.LoadStatus) SessionResponse {
	resp := SessionResponse{
		Authenticated: h.session.Authenticated(),
		Degraded:      status.Degraded(),
	}
	if status.RemoteErr != nil {
		resp.Reason = status.RemoteErr.Error()
	}
	if account, ok := h.session.CurrentAccount(r.Context()); ok {
		resp.Username = account.Username
		resp.Avatar = account.Avatar
	}
	return resp
}

// SignUp registers a new account and logs it in.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status, err := h.session.SignUp(ctx, req.Username, req.Password)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, h.sessionResponse(r, status))
}

// LogIn authenticates and switches the workspace to the user's scope.
// Guest notes are carried over into the user's set.
func (h *AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status, err := h.session.LogIn(ctx, req.Username, req.Password)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, h.sessionResponse(r, status))
}

// LogOut drops back to the guest workspace.
func (h *AuthHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := h.session.LogOut(ctx)
	writeJSON(ctx, w, http.StatusOK, h.sessionResponse(r, status))
}

// Session reports the current authentication state.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, h.sessionResponse(r, workspace.LoadStatus{}))
}

// ProfileRequest carries editable account fields.
type ProfileRequest struct {
	Avatar string `json:"avatar"`
}

// UpdateProfile merges profile changes into the logged-in account.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.session.UpdateAccount(ctx, req.Avatar); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, h.sessionResponse(r, workspace.LoadStatus{}))
}
