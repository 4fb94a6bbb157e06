package notes

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering of a queried note list.
type SortMode string

const (
	SortUpdatedDesc SortMode = "updated_desc"
	SortUpdatedAsc  SortMode = "updated_asc"
	SortTitleAsc    SortMode = "title_asc"
	SortTitleDesc   SortMode = "title_desc"
)

// FilterAll is the sentinel tag filter meaning "no tag filter".
const FilterAll = "all"

// Query describes one derived view over a note collection. Zero values skip
// the corresponding stage.
type Query struct {
	// FilterTag keeps notes carrying this exact tag; "" or "all" skips.
	FilterTag string
	// Search is a case-insensitive substring match over title, content and
	// joined tags; "" skips.
	Search string
	// Date keeps notes whose creation day (viewer-local) equals this
	// YYYY-MM-DD value; "" skips.
	Date string
	// Sort orders the result; unknown values fall back to updated_desc.
	Sort SortMode
}

// ApplyQuery derives a filtered, sorted view of the collection. It is pure:
// the input slice and its notes are never mutated.
func ApplyQuery(in []Note, q Query) []Note {
	result := make([]Note, len(in))
	copy(result, in)

	if q.FilterTag != "" && q.FilterTag != FilterAll {
		result = filterNotes(result, func(n Note) bool {
			return n.HasTag(q.FilterTag)
		})
	}

	if query := strings.ToLower(strings.TrimSpace(q.Search)); query != "" {
		result = filterNotes(result, func(n Note) bool {
			haystack := strings.ToLower(strings.Join([]string{
				n.Title,
				n.Content,
				strings.Join(n.Tags, " "),
			}, " "))
			return strings.Contains(haystack, query)
		})
	}

	if q.Date != "" {
		result = filterNotes(result, func(n Note) bool {
			ts := n.CreatedAt
			if ts == "" {
				ts = n.UpdatedAt
			}
			return localDay(ts) == q.Date
		})
	}

	sortNotes(result, q.Sort)
	return result
}

func filterNotes(in []Note, keep func(Note) bool) []Note {
	out := in[:0]
	for _, n := range in {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// localDay converts a stored timestamp to the viewer's local calendar date.
// Malformed timestamps yield "" and never match a selected date.
func localDay(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

// sortNotes orders notes in place. Timestamps compare lexicographically,
// which is chronological for ISO-8601 strings; titles use locale-aware,
// case-insensitive collation. The sort is stable so equal keys keep their
// incoming order.
func sortNotes(result []Note, mode SortMode) {
	var titles *collate.Collator
	if mode == SortTitleAsc || mode == SortTitleDesc {
		titles = collate.New(language.Und, collate.Loose)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch mode {
		case SortUpdatedAsc:
			return a.UpdatedAt < b.UpdatedAt
		case SortTitleAsc:
			return titles.CompareString(a.Title, b.Title) < 0
		case SortTitleDesc:
			return titles.CompareString(b.Title, a.Title) < 0
		default: // SortUpdatedDesc
			return a.UpdatedAt > b.UpdatedAt
		}
	})
}
