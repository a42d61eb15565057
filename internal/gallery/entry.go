// Package gallery holds the state of the interactive media gallery: the
// ordered entry list, the current selection, the lightbox dock and the
// pointer gestures that reorder or select entries.
package gallery

import "strings"

// ID identifies an entry. It is stable across reorders.
type ID int

// Kind is the media type of an entry.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

// ParseKind maps the content type string to a Kind. Anything that is not a
// video renders as an image.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), "video") {
		return KindVideo
	}
	return KindImage
}

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// Entry is one media item shown in the grid and the lightbox.
type Entry struct {
	ID          ID
	Kind        Kind
	Title       string
	Description string
	SourceURL   string
	// LayoutHint is a sizing directive passed through to the markup untouched.
	LayoutHint string
}

// IsVideo reports whether the entry needs a playback controller.
func (e Entry) IsVideo() bool {
	return e.Kind == KindVideo
}

// IndexOf returns the position of id in entries, or -1.
func IndexOf(entries []Entry, id ID) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
