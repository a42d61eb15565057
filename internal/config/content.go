package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ramunarlapati-13/Master/internal/gallery"
)

//go:embed default_gallery.json
var defaultGallery []byte

// Gallery is the content a gallery is mounted with.
type Gallery struct {
	Title       string
	Description string
	Entries     []gallery.Entry
}

// rawGallery mirrors the JSON content file.
type rawGallery struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Entries     []rawEntry `json:"entries"`
}

type rawEntry struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	URL   string `json:"url"`
	Span  string `json:"span"`
}

// LoadGallery reads the content file at path. An empty path yields the
// built-in portfolio gallery.
func LoadGallery(path string) (*Gallery, error) {
	if path == "" {
		return ParseGallery(defaultGallery)
	}
	absPath, _ := filepath.Abs(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gallery content %q (abs %q): %w", path, absPath, err)
	}
	return ParseGallery(data)
}

// ParseGallery decodes gallery content. Empty titles, descriptions or urls
// are accepted as-is; a repeated id is rejected.
func ParseGallery(data []byte) (*Gallery, error) {
	var raw rawGallery
	if err := json.Unmarshal(data, &raw); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		if errors.As(err, &syntaxErr) {
			line, col := position(data, syntaxErr.Offset)
			return nil, fmt.Errorf("gallery content syntax error (line %d, column %d): %w", line, col, err)
		}
		if errors.As(err, &typeErr) {
			line, col := position(data, typeErr.Offset)
			return nil, fmt.Errorf("gallery content type error (line %d, column %d, field %q): expected %v, got %v: %w",
				line, col, typeErr.Field, typeErr.Type, typeErr.Value, err)
		}
		return nil, fmt.Errorf("parsing gallery content: %w", err)
	}

	g := &Gallery{
		Title:       raw.Title,
		Description: raw.Description,
		Entries:     make([]gallery.Entry, 0, len(raw.Entries)),
	}
	seen := make(map[int]bool, len(raw.Entries))
	for i, e := range raw.Entries {
		if seen[e.ID] {
			return nil, fmt.Errorf("gallery entry %d: duplicate id %d", i, e.ID)
		}
		seen[e.ID] = true
		g.Entries = append(g.Entries, gallery.Entry{
			ID:          gallery.ID(e.ID),
			Kind:        gallery.ParseKind(e.Type),
			Title:       e.Title,
			Description: e.Desc,
			SourceURL:   e.URL,
			LayoutHint:  e.Span,
		})
	}
	return g, nil
}

// position turns a decoder byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset < 0 || int(offset) > len(data) {
		return 0, 0
	}
	before := data[:offset]
	lineStart := bytes.LastIndexByte(before, '\n') + 1
	return bytes.Count(before, []byte{'\n'}) + 1, len(before) - lineStart + 1
}
