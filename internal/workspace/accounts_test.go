package workspace

import (
	"context"
	"errors"
	"testing"

	"notes-workspace/internal/storage"
)

func TestSignUp_Validation(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := s.SignUp(ctx, "  ", "pw"); !errors.As(err, &vErr) {
		t.Errorf("SignUp(blank user) error = %v, want ValidationError", err)
	}
	if _, err := s.SignUp(ctx, "alice", ""); !errors.As(err, &vErr) {
		t.Errorf("SignUp(blank password) error = %v, want ValidationError", err)
	}
}

func TestSignUp_LogsIn(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()

	if _, err := s.SignUp(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if !s.Authenticated() || s.Scope() != "alice" {
		t.Errorf("session = %q authed=%v, want alice/true", s.Scope(), s.Authenticated())
	}

	account, ok := s.CurrentAccount(ctx)
	if !ok || account.Username != "alice" {
		t.Fatalf("CurrentAccount() = %+v, %v", account, ok)
	}
	if account.PasswordHash == "hunter2" || account.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestSignUp_UsernameTakenCaseInsensitive(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()

	if _, err := s.SignUp(ctx, "alice", "pw"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	s.LogOut(ctx)

	if _, err := s.SignUp(ctx, "ALICE", "other"); err != ErrUsernameTaken {
		t.Errorf("SignUp(ALICE) error = %v, want ErrUsernameTaken", err)
	}
}

func TestLogIn(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()
	if _, err := s.SignUp(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	s.LogOut(ctx)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"unknown user", "bob", "pw", ErrBadCredentials},
		{"wrong password", "alice", "nope", ErrBadCredentials},
		// Password comparison stays case-sensitive.
		{"password case matters", "alice", "HUNTER2", ErrBadCredentials},
		{"username case does not", "Alice", "hunter2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.LogIn(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LogIn(%q) error = %v, want %v", tt.username, err, tt.wantErr)
			}
			if tt.wantErr == nil {
				// The stored casing wins over the typed one.
				if s.Scope() != "alice" {
					t.Errorf("scope = %q, want alice", s.Scope())
				}
				s.LogOut(ctx)
			}
		})
	}
}

// Notes written as guest follow the user in on login, and the guest scope is
// left empty.
func TestLogIn_AdoptsGuestNotes(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()

	s.CreateNote(ctx, CreateInput{})
	guestNote, ok := s.ActiveNote()
	if !ok {
		t.Fatal("guest note missing")
	}

	if _, err := s.SignUp(ctx, "alice", "pw"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, ok := s.Note(guestNote.ID); !ok {
		t.Error("guest note must be carried into the user scope")
	}
	if got := s.local.ReadNotes(ctx, storage.GuestScope); len(got) != 0 {
		t.Errorf("guest scope must be emptied, got %v", got)
	}
	if got := s.local.ReadNotes(ctx, "alice"); len(got) != 1 || got[0].ID != guestNote.ID {
		t.Errorf("alice scope = %v", got)
	}
}

func TestLogOut(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()

	if _, err := s.SignUp(ctx, "alice", "pw"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	s.CreateNote(ctx, CreateInput{})
	aliceNote, _ := s.ActiveNote()

	s.LogOut(ctx)

	if s.Authenticated() || s.Scope() != storage.GuestScope {
		t.Errorf("session after logout = %q authed=%v", s.Scope(), s.Authenticated())
	}
	if s.local.ActiveScope(ctx) != "" {
		t.Error("active scope must be cleared on logout")
	}
	// Alice's notes stay in her partition, invisible to the guest.
	if _, ok := s.Note(aliceNote.ID); ok {
		t.Error("user notes must not leak into the guest scope")
	}
	if got := s.local.ReadNotes(ctx, "alice"); len(got) != 1 {
		t.Errorf("alice's stored notes = %v", got)
	}
}

// A restarted session resumes the persisted active scope.
func TestNewSession_ResumesActiveScope(t *testing.T) {
	local := testLocal(t)
	engine := NewEngine(local, nil)
	ctx := context.Background()

	first := NewSession(ctx, engine, local)
	first.Load(ctx)
	if _, err := first.SignUp(ctx, "alice", "pw"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	first.CreateNote(ctx, CreateInput{})

	second := NewSession(ctx, engine, local)
	second.Load(ctx)
	if !second.Authenticated() || second.Scope() != "alice" {
		t.Errorf("resumed session = %q authed=%v", second.Scope(), second.Authenticated())
	}
	if got := second.Notes(); len(got) != 1 {
		t.Errorf("resumed notes = %v", got)
	}
}
