package notes

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the timestamp format used everywhere a note timestamp is
// stored or compared. It matches JavaScript's Date.toISOString so that
// lexicographic order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// NowISO returns the current UTC time in TimeLayout.
func NowISO() string {
	return time.Now().UTC().Format(TimeLayout)
}

// MidnightUTC converts a YYYY-MM-DD date into a TimeLayout timestamp at
// midnight UTC of that day. Returns "" for malformed input.
func MidnightUTC(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// Note is a single rich-text note. Content is opaque markup; Theme and
// EditorPattern are display metadata passed through unchanged.
type Note struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	FolderID      string   `json:"folderId,omitempty"`
	Theme         string   `json:"theme,omitempty"`
	EditorPattern string   `json:"editorPattern,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// Draft holds the optional fields for a new note. Zero values fall back to
// defaults: empty title/content/tags, timestamps of "now".
type Draft struct {
	Title     string
	Content   string
	Tags      []string
	FolderID  string
	CreatedAt string
	UpdatedAt string
}

// New creates a note from a draft, allocating a fresh id.
func New(d Draft) Note {
	now := NowISO()
	n := Note{
		ID:        uuid.New().String(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		FolderID:  d.FolderID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.CreatedAt == "" {
		n.CreatedAt = now
	}
	if n.UpdatedAt == "" {
		n.UpdatedAt = now
	}
	return n
}

// Touch refreshes the note's UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = NowISO()
}

// HasTag reports whether the note carries the tag (exact, case-sensitive).
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag if the trimmed value is non-empty and not already
// present. Returns true when the note was modified.
func (n *Note) AddTag(tag string) bool {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" || n.HasTag(trimmed) {
		return false
	}
	n.Tags = append(n.Tags, trimmed)
	n.Touch()
	return true
}

// RemoveTag removes a tag. Removing an absent tag is a no-op and returns
// false.
func (n *Note) RemoveTag(tag string) bool {
	if !n.HasTag(tag) {
		return false
	}
	kept := n.Tags[:0]
	for _, t := range n.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	n.Tags = kept
	n.Touch()
	return true
}

// Clear empties the note's user-editable fields in place, keeping its
// identity and creation time.
func (n *Note) Clear() {
	n.Title = ""
	n.Content = ""
	n.Tags = []string{}
	n.Touch()
}

// Folder groups notes. References from notes are weak: deleting a folder
// detaches its notes rather than deleting them.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// NewFolder creates a folder, defaulting the name of a blank folder.
func NewFolder(name string) Folder {
	if strings.TrimSpace(name) == "" {
		name = "New Folder"
	}
	return Folder{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: NowISO(),
	}
}

// CustomTag is a user-defined tag with display metadata, stored per scope
// alongside the notes.
type CustomTag struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// Account is a locally registered user. Usernames are unique
// case-insensitively; the password is stored as a bcrypt hash. This is a
// login simulation, not a security boundary.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Avatar       string `json:"avatar,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}
