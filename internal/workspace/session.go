package workspace

import (
	"context"
	"strings"
	"sync"

	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/notes"
	"notes-workspace/internal/storage"
)

const (
	welcomeTitle   = "Welcome to Notes Workspace"
	welcomeContent = "This is your first note. Use the sidebar to switch notes, add tags above, and search from the top bar.\n\nYour notes are saved locally in this browser."
)

// Session owns the in-memory note collection for the active scope, the
// active note selection, and the authentication state. It is the single
// holder of mutable workspace state; handlers pass explicit inputs instead
// of reaching into ambient globals. A mutex serializes callers, since HTTP
// requests arrive concurrently.
type Session struct {
	mu     sync.Mutex
	engine *Engine
	local  *storage.LocalStore

	scope    string
	authed   bool
	notes    []notes.Note
	folders  []notes.Folder
	activeID string
}

// NewSession creates a session bound to the persisted active scope, or the
// guest scope when nobody is logged in. Call Load to populate it.
func NewSession(ctx context.Context, engine *Engine, local *storage.LocalStore) *Session {
	s := &Session{engine: engine, local: local, scope: storage.GuestScope}
	if active := local.ActiveScope(ctx); active != "" {
		s.scope = active
		s.authed = true
	}
	return s
}

// Load populates the session from the merged local and remote sets and
// restores the folder list. The first note becomes active when the previous
// selection is gone.
func (s *Session) Load(ctx context.Context) LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Session) loadLocked(ctx context.Context) LoadStatus {
	all, status := s.engine.LoadNotes(ctx, s.scope, s.authed)
	s.notes = all
	s.folders = s.local.ReadFolders(ctx, s.scope)
	s.reselectLocked()
	return status
}

// EnsureWelcomeNote seeds an empty collection with the welcome note so the
// collection is never empty on first run.
func (s *Session) EnsureWelcomeNote(ctx context.Context) SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notes) > 0 {
		s.reselectLocked()
		return SaveStatus{}
	}

	welcome := notes.New(notes.Draft{
		Title:   welcomeTitle,
		Content: welcomeContent,
		Tags:    []string{"ideas"},
	})
	s.notes = []notes.Note{welcome}
	s.activeID = welcome.ID
	return s.persistLocked(ctx)
}

// Scope returns the session's storage scope.
func (s *Session) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// Notes returns a snapshot of the collection in its current order.
func (s *Session) Notes() []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Query derives a filtered, sorted view of the collection.
func (s *Session) Query(q notes.Query) []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return notes.ApplyQuery(s.notes, q)
}

// ActiveNote returns the currently selected note.
func (s *Session) ActiveNote() (notes.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.notes[i], true
	}
	return notes.Note{}, false
}

// SetActiveNote selects a note by id.
func (s *Session) SetActiveNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return ErrNotFound
	}
	s.activeID = id
	return nil
}

// Note returns a note by id.
func (s *Session) Note(id string) (notes.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.notes[i], true
	}
	return notes.Note{}, false
}

// CreateInput carries the collaborator state feeding a new note: the active
// tag filter seeds the tag set, a selected calendar date seeds both
// timestamps at midnight UTC, and the active folder claims the note.
type CreateInput struct {
	ActiveFilter string
	SelectedDate string
	FolderID     string
}

// CreateNote allocates a fresh note, prepends it and makes it active.
func (s *Session) CreateNote(ctx context.Context, in CreateInput) (notes.Note, SaveStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tags []string
	if in.ActiveFilter != "" && in.ActiveFilter != notes.FilterAll {
		tags = []string{in.ActiveFilter}
	}

	created := ""
	if in.SelectedDate != "" {
		created = notes.MidnightUTC(in.SelectedDate)
	}

	note := notes.New(notes.Draft{
		Tags:      tags,
		FolderID:  in.FolderID,
		CreatedAt: created,
		UpdatedAt: created,
	})

	s.notes = append([]notes.Note{note}, s.notes...)
	s.activeID = note.ID
	return note, s.persistLocked(ctx)
}

// SaveInput carries the editor state for saving the active note. The UI
// collaborator supplies it explicitly; the core never reads widgets.
type SaveInput struct {
	Title        string
	Content      string
	Tags         []string
	ActiveFilter string
}

// SaveActive writes the editor state into the active note. Saving is a
// durable named action reserved for logged-in users; guests get
// ErrAuthRequired and a login prompt instead. When no tags are supplied,
// the active non-"all" filter becomes the note's tag set.
func (s *Session) SaveActive(ctx context.Context, in SaveInput) (notes.Note, SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authed {
		return notes.Note{}, SaveStatus{}, ErrAuthRequired
	}
	i := s.indexLocked(s.activeID)
	if i < 0 {
		return notes.Note{}, SaveStatus{}, ErrNoActiveNote
	}

	note := &s.notes[i]
	note.Title = strings.TrimSpace(in.Title)
	note.Content = in.Content

	tags := in.Tags
	if len(tags) == 0 && in.ActiveFilter != "" && in.ActiveFilter != notes.FilterAll {
		tags = []string{in.ActiveFilter}
	}
	if tags == nil {
		tags = []string{}
	}
	note.Tags = tags
	note.Touch()

	return *note, s.persistLocked(ctx), nil
}

// DeleteActive removes the active note. A single-note collection is cleared
// in place instead, so the collection is never empty; otherwise the first
// remaining note becomes active.
func (s *Session) DeleteActive(ctx context.Context) (SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(s.activeID)
	if i < 0 {
		return SaveStatus{}, ErrNoActiveNote
	}

	if len(s.notes) == 1 {
		s.notes[0].Clear()
		return s.persistLocked(ctx), nil
	}

	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.activeID = ""
	if len(s.notes) > 0 {
		s.activeID = s.notes[0].ID
	}
	return s.persistLocked(ctx), nil
}

// DuplicateActive clones the active note's title, content and tags into a
// fresh note, prepends it and makes it active.
func (s *Session) DuplicateActive(ctx context.Context) (notes.Note, SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(s.activeID)
	if i < 0 {
		return notes.Note{}, SaveStatus{}, ErrNoActiveNote
	}

	src := s.notes[i]
	title := "Untitled note (Copy)"
	if src.Title != "" {
		title = src.Title + " (Copy)"
	}

	copyNote := notes.New(notes.Draft{
		Title:   title,
		Content: src.Content,
		Tags:    append([]string{}, src.Tags...),
	})

	s.notes = append([]notes.Note{copyNote}, s.notes...)
	s.activeID = copyNote.ID
	return copyNote, s.persistLocked(ctx), nil
}

// AddTag adds a tag to the active note. Blank tags and duplicates are
// silent no-ops.
func (s *Session) AddTag(ctx context.Context, tag string) (SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(s.activeID)
	if i < 0 {
		return SaveStatus{}, ErrNoActiveNote
	}
	if !s.notes[i].AddTag(tag) {
		return SaveStatus{}, nil
	}
	return s.persistLocked(ctx), nil
}

// RemoveTag removes a tag from the active note. An absent tag is a silent
// no-op.
func (s *Session) RemoveTag(ctx context.Context, tag string) (SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(s.activeID)
	if i < 0 {
		return SaveStatus{}, ErrNoActiveNote
	}
	if !s.notes[i].RemoveTag(tag) {
		return SaveStatus{}, nil
	}
	return s.persistLocked(ctx), nil
}

// Folders returns a snapshot of the scope's folders.
func (s *Session) Folders() []notes.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notes.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// CreateFolder adds a folder to the scope.
func (s *Session) CreateFolder(ctx context.Context, name string) (notes.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder := notes.NewFolder(name)
	s.folders = append(s.folders, folder)
	if err := s.local.WriteFolders(ctx, s.scope, s.folders); err != nil {
		return folder, WrapError(err, "failed to persist folders")
	}
	return folder, nil
}

// RenameFolder changes a folder's name.
func (s *Session) RenameFolder(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].Name = name
			return s.local.WriteFolders(ctx, s.scope, s.folders)
		}
	}
	return ErrNotFound
}

// DeleteFolder removes a folder and detaches its notes: member notes keep
// existing with no folder, their UpdatedAt refreshed.
func (s *Session) DeleteFolder(ctx context.Context, id string) (SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.folders[:0]
	for _, f := range s.folders {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return SaveStatus{}, ErrNotFound
	}
	s.folders = kept

	detached := false
	for i := range s.notes {
		if s.notes[i].FolderID == id {
			s.notes[i].FolderID = ""
			s.notes[i].Touch()
			detached = true
		}
	}

	if err := s.local.WriteFolders(ctx, s.scope, s.folders); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx,
			"failed to persist folders after delete", "error", err)
	}
	if detached {
		return s.persistLocked(ctx), nil
	}
	return SaveStatus{}, nil
}

// CustomTags returns the scope's custom tag definitions.
func (s *Session) CustomTags(ctx context.Context) []notes.CustomTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.ReadCustomTags(ctx, s.scope)
}

// SaveCustomTags replaces the scope's custom tag definitions.
func (s *Session) SaveCustomTags(ctx context.Context, tags []notes.CustomTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.WriteCustomTags(ctx, s.scope, tags)
}

func (s *Session) snapshotLocked() []notes.Note {
	out := make([]notes.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Session) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// reselectLocked recomputes the active note after the collection changed
// under the selection.
func (s *Session) reselectLocked() {
	if s.indexLocked(s.activeID) >= 0 {
		return
	}
	s.activeID = ""
	if len(s.notes) > 0 {
		s.activeID = s.notes[0].ID
	}
}

func (s *Session) persistLocked(ctx context.Context) SaveStatus {
	return s.engine.SaveNotes(ctx, s.scope, s.authed, s.notes)
}
