package notes

import (
	"fmt"
	"strings"
)

// FormatText serializes notes into the plain-text backup format: one
// numbered block per note with title, tags, timestamps and content. The
// format is a one-way human-readable export; no importer reads it back.
func FormatText(all []Note) string {
	if len(all) == 0 {
		return "(No notes to export)"
	}

	blocks := make([]string, 0, len(all))
	for i, note := range all {
		title := note.Title
		if title == "" {
			title = "Untitled note"
		}
		tags := strings.Join(note.Tags, ", ")
		if tags == "" {
			tags = "none"
		}

		lines := []string{
			fmt.Sprintf("=== NOTE %d ===", i+1),
			"Title: " + title,
			"Tags: " + tags,
		}
		if note.CreatedAt != "" {
			lines = append(lines, "Created: "+note.CreatedAt)
		}
		if note.UpdatedAt != "" {
			lines = append(lines, "Updated: "+note.UpdatedAt)
		}

		content := note.Content
		if content == "" {
			content = "(empty)"
		}
		lines = append(lines, "", "Content:", content)
		lines = append(lines, "", fmt.Sprintf("=== END NOTE %d ===", i+1), "")

		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n")
}
