package workspace

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/notes"
	"notes-workspace/internal/storage"
)

// SignUp registers a new account and logs it in. Usernames are unique
// case-insensitively; the password is stored as a bcrypt hash. This is a
// local login simulation, not a security boundary.
func (s *Session) SignUp(ctx context.Context, username, password string) (LoadStatus, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return LoadStatus{}, &ValidationError{Field: "username", Message: "cannot be empty"}
	}
	if password == "" {
		return LoadStatus{}, &ValidationError{Field: "password", Message: "cannot be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.local.ReadAccounts(ctx)
	if findAccount(accounts, username) >= 0 {
		return LoadStatus{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return LoadStatus{}, WrapError(err, "failed to hash password")
	}

	accounts = append(accounts, notes.Account{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    notes.NowISO(),
	})
	if err := s.local.WriteAccounts(ctx, accounts); err != nil {
		return LoadStatus{}, WrapError(err, "failed to store account")
	}

	return s.becomeLocked(ctx, username)
}

// LogIn authenticates against the stored accounts and switches the session
// to the user's scope. Notes written while browsing as guest are adopted
// into the user's local set before the merged load, so nothing created
// offline is lost.
func (s *Session) LogIn(ctx context.Context, username, password string) (LoadStatus, error) {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.local.ReadAccounts(ctx)
	i := findAccount(accounts, username)
	if i < 0 {
		return LoadStatus{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(accounts[i].PasswordHash), []byte(password)); err != nil {
		return LoadStatus{}, ErrBadCredentials
	}

	return s.becomeLocked(ctx, accounts[i].Username)
}

// LogOut persists the current collection under its scope, clears the active
// scope and drops back to the guest workspace.
func (s *Session) LogOut(ctx context.Context) LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authed {
		return LoadStatus{}
	}

	// Pending changes stay under the user before switching away.
	s.persistLocked(ctx)

	if err := s.local.ClearActiveScope(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx,
			"failed to clear active scope", "error", err)
	}

	s.authed = false
	s.scope = storage.GuestScope
	s.activeID = ""
	return s.loadLocked(ctx)
}

// CurrentAccount returns the logged-in user's account record.
func (s *Session) CurrentAccount(ctx context.Context) (notes.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authed {
		return notes.Account{}, false
	}
	accounts := s.local.ReadAccounts(ctx)
	if i := findAccount(accounts, s.scope); i >= 0 {
		return accounts[i], true
	}
	return notes.Account{}, false
}

// UpdateAccount merges profile changes into the logged-in user's account.
func (s *Session) UpdateAccount(ctx context.Context, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authed {
		return ErrAuthRequired
	}
	accounts := s.local.ReadAccounts(ctx)
	i := findAccount(accounts, s.scope)
	if i < 0 {
		return ErrNotFound
	}
	accounts[i].Avatar = avatar
	return s.local.WriteAccounts(ctx, accounts)
}

// becomeLocked switches the session to an authenticated scope: guest notes
// are adopted, the scope is persisted as active, and the merged collection
// is loaded.
func (s *Session) becomeLocked(ctx context.Context, username string) (LoadStatus, error) {
	logger := contextutil.LoggerFromContext(ctx)

	adopted, err := s.engine.AdoptGuestNotes(ctx, username)
	if err != nil {
		logger.WarnContext(ctx, "guest note adoption degraded", "user", username, "error", err)
	}
	if adopted > 0 {
		logger.InfoContext(ctx, "adopted guest notes", "user", username, "count", adopted)
	}

	if err := s.local.SetActiveScope(ctx, username); err != nil {
		logger.WarnContext(ctx, "failed to persist active scope", "user", username, "error", err)
	}

	s.scope = username
	s.authed = true
	s.activeID = ""
	return s.loadLocked(ctx), nil
}

func findAccount(accounts []notes.Account, username string) int {
	for i, a := range accounts {
		if strings.EqualFold(a.Username, username) {
			return i
		}
	}
	return -1
}
