package workspace

import (
	"context"
	"testing"

	"notes-workspace/internal/notes"
)

// newGuestSession builds a local-only session in the guest scope.
func newGuestSession(t *testing.T) *Session {
	t.Helper()
	local := testLocal(t)
	engine := NewEngine(local, nil)
	s := NewSession(context.Background(), engine, local)
	s.Load(context.Background())
	return s
}

// newUserSession builds a local-only session logged in as alice.
func newUserSession(t *testing.T) *Session {
	t.Helper()
	s := newGuestSession(t)
	if _, err := s.SignUp(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	return s
}

func TestSession_CreateNote(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()

	first, status := s.CreateNote(ctx, CreateInput{})
	if status.Degraded() {
		t.Fatalf("CreateNote() degraded: %+v", status)
	}
	second, _ := s.CreateNote(ctx, CreateInput{ActiveFilter: "work", FolderID: "f1"})

	all := s.Notes()
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("new notes must be prepended, got %v", all)
	}
	if active, ok := s.ActiveNote(); !ok || active.ID != second.ID {
		t.Error("new note must become active")
	}
	if len(second.Tags) != 1 || second.Tags[0] != "work" {
		t.Errorf("active filter must seed tags, got %v", second.Tags)
	}
	if second.FolderID != "f1" {
		t.Errorf("folder assignment lost: %q", second.FolderID)
	}
	if len(first.Tags) != 0 {
		t.Errorf("no filter means no tags, got %v", first.Tags)
	}
}

func TestSession_CreateNote_SelectedDateSeedsTimestamps(t *testing.T) {
	s := newUserSession(t)

	n, _ := s.CreateNote(context.Background(), CreateInput{SelectedDate: "2026-03-14"})

	want := "2026-03-14T00:00:00.000Z"
	if n.CreatedAt != want || n.UpdatedAt != want {
		t.Errorf("timestamps = %q/%q, want midnight UTC %q", n.CreatedAt, n.UpdatedAt, want)
	}

	// The "all" sentinel never becomes a tag.
	n2, _ := s.CreateNote(context.Background(), CreateInput{ActiveFilter: notes.FilterAll})
	if len(n2.Tags) != 0 {
		t.Errorf("sentinel filter seeded tags: %v", n2.Tags)
	}
}

func TestSession_SaveActive_RequiresAuth(t *testing.T) {
	s := newGuestSession(t)
	s.CreateNote(context.Background(), CreateInput{})

	_, _, err := s.SaveActive(context.Background(), SaveInput{Title: "draft"})
	if err != ErrAuthRequired {
		t.Errorf("SaveActive() as guest error = %v, want ErrAuthRequired", err)
	}
}

func TestSession_SaveActive(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	s.CreateNote(ctx, CreateInput{})

	saved, status, err := s.SaveActive(ctx, SaveInput{
		Title:   "  Meeting notes  ",
		Content: "<p>agenda</p>",
		Tags:    []string{"work"},
	})
	if err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}
	if status.Degraded() {
		t.Fatalf("SaveActive() degraded: %+v", status)
	}
	if saved.Title != "Meeting notes" {
		t.Errorf("title must be trimmed, got %q", saved.Title)
	}
	if saved.Content != "<p>agenda</p>" || len(saved.Tags) != 1 || saved.Tags[0] != "work" {
		t.Errorf("saved note = %+v", saved)
	}
	if saved.UpdatedAt < saved.CreatedAt {
		t.Error("save must refresh UpdatedAt")
	}
}

func TestSession_SaveActive_FilterFallbackTags(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	s.CreateNote(ctx, CreateInput{})

	saved, _, err := s.SaveActive(ctx, SaveInput{Title: "x", ActiveFilter: "personal"})
	if err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}
	if len(saved.Tags) != 1 || saved.Tags[0] != "personal" {
		t.Errorf("active filter must back-fill empty tags, got %v", saved.Tags)
	}

	// Explicit tags win over the filter.
	saved, _, err = s.SaveActive(ctx, SaveInput{Title: "x", Tags: []string{"ideas"}, ActiveFilter: "personal"})
	if err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}
	if len(saved.Tags) != 1 || saved.Tags[0] != "ideas" {
		t.Errorf("explicit tags must win, got %v", saved.Tags)
	}
}

func TestSession_DeleteActive_SingleNoteClearsInPlace(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	created, _ := s.CreateNote(ctx, CreateInput{ActiveFilter: "work"})
	if _, _, err := s.SaveActive(ctx, SaveInput{Title: "only", Content: "body"}); err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}

	if _, err := s.DeleteActive(ctx); err != nil {
		t.Fatalf("DeleteActive() error = %v", err)
	}

	all := s.Notes()
	if len(all) != 1 {
		t.Fatalf("collection length = %d, want 1 (never empty)", len(all))
	}
	only := all[0]
	if only.ID != created.ID {
		t.Error("clearing must keep the note's identity")
	}
	if only.Title != "" || only.Content != "" || len(only.Tags) != 0 {
		t.Errorf("fields must be cleared, got %+v", only)
	}
}

func TestSession_DeleteActive_SelectsFirstRemaining(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	oldest, _ := s.CreateNote(ctx, CreateInput{})
	middle, _ := s.CreateNote(ctx, CreateInput{})
	newest, _ := s.CreateNote(ctx, CreateInput{})

	if err := s.SetActiveNote(middle.ID); err != nil {
		t.Fatalf("SetActiveNote() error = %v", err)
	}
	if _, err := s.DeleteActive(ctx); err != nil {
		t.Fatalf("DeleteActive() error = %v", err)
	}

	all := s.Notes()
	if len(all) != 2 || all[0].ID != newest.ID || all[1].ID != oldest.ID {
		t.Errorf("collection after delete = %v", all)
	}
	if active, ok := s.ActiveNote(); !ok || active.ID != newest.ID {
		t.Error("first remaining note must become active")
	}
}

func TestSession_DuplicateActive(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	s.CreateNote(ctx, CreateInput{})
	original, _, err := s.SaveActive(ctx, SaveInput{Title: "Plan", Content: "body", Tags: []string{"work"}})
	if err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}

	dup, _, err := s.DuplicateActive(ctx)
	if err != nil {
		t.Fatalf("DuplicateActive() error = %v", err)
	}

	if dup.ID == original.ID {
		t.Error("duplicate must get a fresh id")
	}
	if dup.Title != "Plan (Copy)" {
		t.Errorf("duplicate title = %q", dup.Title)
	}
	if dup.Content != "body" || len(dup.Tags) != 1 || dup.Tags[0] != "work" {
		t.Errorf("duplicate = %+v", dup)
	}
	if active, _ := s.ActiveNote(); active.ID != dup.ID {
		t.Error("duplicate must become active")
	}

	// Tag slices must not alias: retagging the copy leaves the original.
	if _, err := s.AddTag(ctx, "extra"); err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	got, _ := s.Note(original.ID)
	if len(got.Tags) != 1 {
		t.Errorf("original tags mutated through the duplicate: %v", got.Tags)
	}
}

func TestSession_DuplicateActive_UntitledFallback(t *testing.T) {
	s := newUserSession(t)
	s.CreateNote(context.Background(), CreateInput{})

	dup, _, err := s.DuplicateActive(context.Background())
	if err != nil {
		t.Fatalf("DuplicateActive() error = %v", err)
	}
	if dup.Title != "Untitled note (Copy)" {
		t.Errorf("duplicate of untitled = %q", dup.Title)
	}
}

func TestSession_Tags(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	s.CreateNote(ctx, CreateInput{})

	if _, err := s.AddTag(ctx, "work"); err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	// Idempotent add and blank add are silent no-ops.
	if _, err := s.AddTag(ctx, "work"); err != nil {
		t.Fatalf("AddTag(dup) error = %v", err)
	}
	if _, err := s.AddTag(ctx, "  "); err != nil {
		t.Fatalf("AddTag(blank) error = %v", err)
	}

	active, _ := s.ActiveNote()
	if len(active.Tags) != 1 || active.Tags[0] != "work" {
		t.Errorf("tags = %v", active.Tags)
	}

	if _, err := s.RemoveTag(ctx, "absent"); err != nil {
		t.Fatalf("RemoveTag(absent) error = %v", err)
	}
	if _, err := s.RemoveTag(ctx, "work"); err != nil {
		t.Fatalf("RemoveTag() error = %v", err)
	}
	active, _ = s.ActiveNote()
	if len(active.Tags) != 0 {
		t.Errorf("tags after remove = %v", active.Tags)
	}
}

func TestSession_NoActiveNote(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()

	if _, err := s.DeleteActive(ctx); err != ErrNoActiveNote {
		t.Errorf("DeleteActive() error = %v, want ErrNoActiveNote", err)
	}
	if _, _, err := s.DuplicateActive(ctx); err != ErrNoActiveNote {
		t.Errorf("DuplicateActive() error = %v, want ErrNoActiveNote", err)
	}
	if _, err := s.AddTag(ctx, "x"); err != ErrNoActiveNote {
		t.Errorf("AddTag() error = %v, want ErrNoActiveNote", err)
	}
	if err := s.SetActiveNote("missing"); err != ErrNotFound {
		t.Errorf("SetActiveNote(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSession_EnsureWelcomeNote(t *testing.T) {
	s := newGuestSession(t)
	ctx := context.Background()

	s.EnsureWelcomeNote(ctx)

	all := s.Notes()
	if len(all) != 1 || all[0].Title != welcomeTitle {
		t.Fatalf("welcome note missing: %v", all)
	}
	if active, ok := s.ActiveNote(); !ok || active.ID != all[0].ID {
		t.Error("welcome note must be active")
	}

	// A populated collection is left alone.
	s.EnsureWelcomeNote(ctx)
	if got := s.Notes(); len(got) != 1 {
		t.Errorf("EnsureWelcomeNote() duplicated the seed: %v", got)
	}
}

func TestSession_Query(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()
	s.CreateNote(ctx, CreateInput{})
	if _, _, err := s.SaveActive(ctx, SaveInput{Title: "grocery list", Tags: []string{"personal"}}); err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}
	s.CreateNote(ctx, CreateInput{})
	if _, _, err := s.SaveActive(ctx, SaveInput{Title: "sprint plan", Tags: []string{"work"}}); err != nil {
		t.Fatalf("SaveActive() error = %v", err)
	}

	got := s.Query(notes.Query{FilterTag: "work"})
	if len(got) != 1 || got[0].Title != "sprint plan" {
		t.Errorf("Query(work) = %v", got)
	}
	if got := s.Query(notes.Query{Search: "grocery"}); len(got) != 1 {
		t.Errorf("Query(search) = %v", got)
	}
}

func TestSession_Folders(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, "Projects")
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	if err := s.RenameFolder(ctx, folder.ID, "Active Projects"); err != nil {
		t.Fatalf("RenameFolder() error = %v", err)
	}
	if err := s.RenameFolder(ctx, folder.ID, "  "); err == nil {
		t.Error("RenameFolder(blank) expected validation error")
	}
	if err := s.RenameFolder(ctx, "missing", "x"); err != ErrNotFound {
		t.Errorf("RenameFolder(missing) error = %v, want ErrNotFound", err)
	}

	// A note filed in the folder is detached, not deleted, with the folder.
	n, _ := s.CreateNote(ctx, CreateInput{FolderID: folder.ID})
	if _, err := s.DeleteFolder(ctx, folder.ID); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	if got := s.Folders(); len(got) != 0 {
		t.Errorf("folders after delete = %v", got)
	}
	detached, ok := s.Note(n.ID)
	if !ok {
		t.Fatal("note deleted together with its folder")
	}
	if detached.FolderID != "" {
		t.Errorf("note still references deleted folder %q", detached.FolderID)
	}
}

func TestSession_CustomTags(t *testing.T) {
	s := newUserSession(t)
	ctx := context.Background()

	if got := s.CustomTags(ctx); len(got) != 0 {
		t.Errorf("initial custom tags = %v", got)
	}
	if err := s.SaveCustomTags(ctx, []notes.CustomTag{{Name: "urgent", Color: "#f00"}}); err != nil {
		t.Fatalf("SaveCustomTags() error = %v", err)
	}
	if got := s.CustomTags(ctx); len(got) != 1 || got[0].Name != "urgent" {
		t.Errorf("custom tags = %v", got)
	}
}
