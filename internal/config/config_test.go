package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ramunarlapati-13/Master/internal/gallery"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "GALLERY_CONTENT", "ADMIN_USERNAME", "ADMIN_PASSWORD", "SESSION_TTL", "VIEWPORT_RPS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s, want 30m", cfg.SessionTTL)
	}
	if cfg.ViewportReportsPerSecond != 20 {
		t.Errorf("ViewportReportsPerSecond = %v, want 20", cfg.ViewportReportsPerSecond)
	}
	if !cfg.UsingDefaultAdmin {
		t.Error("expected default admin credentials to be flagged")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("ADMIN_USERNAME", "owner")
	t.Setenv("ADMIN_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.UsingDefaultAdmin {
		t.Error("explicit credentials flagged as defaults")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_TTL") {
		t.Fatalf("Load with bad SESSION_TTL = %v", err)
	}

	t.Setenv("SESSION_TTL", "")
	t.Setenv("VIEWPORT_RPS", "-1")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "VIEWPORT_RPS") {
		t.Fatalf("Load with bad VIEWPORT_RPS = %v", err)
	}
}

func TestLoadGalleryFixture(t *testing.T) {
	g, err := LoadGallery(filepath.Join("testdata", "gallery.json"))
	if err != nil {
		t.Fatalf("LoadGallery: %v", err)
	}
	if g.Title != "Test Shots" || len(g.Entries) != 3 {
		t.Fatalf("unexpected gallery %+v", g)
	}
	if g.Entries[1].Kind != gallery.KindVideo || g.Entries[1].LayoutHint != "md:col-span-2" {
		t.Errorf("entry 2 decoded as %+v", g.Entries[1])
	}
	if g.Entries[2].Title != "" || g.Entries[2].SourceURL != "" {
		t.Errorf("empty fields should be kept empty, got %+v", g.Entries[2])
	}
}

func TestLoadGalleryDefault(t *testing.T) {
	g, err := LoadGallery("")
	if err != nil {
		t.Fatalf("LoadGallery default: %v", err)
	}
	if g.Title != "Gallery Shots Collection" {
		t.Errorf("Title = %q", g.Title)
	}
	if len(g.Entries) == 0 || g.Entries[0].ID != 12 {
		t.Fatalf("default entries start with %+v, want id 12", g.Entries)
	}
}

func TestParseGalleryErrors(t *testing.T) {
	_, err := ParseGallery([]byte("{\n  \"title\": \"x\",\n  \"entries\": [\n}"))
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("syntax error = %v, want line 4", err)
	}

	_, err = ParseGallery([]byte(`{"entries": [{"id": "one"}]}`))
	if err == nil || !strings.Contains(err.Error(), "type error") {
		t.Fatalf("type error = %v", err)
	}

	_, err = ParseGallery([]byte(`{"entries": [{"id": 1}, {"id": 1}]}`))
	if err == nil || !strings.Contains(err.Error(), "duplicate id 1") {
		t.Fatalf("duplicate id error = %v", err)
	}
}

func TestLoadGalleryMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if _, err := LoadGallery(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadGallery(missing) = %v", err)
	}
}


func TestPosition(t *testing.T) {
	data := []byte("{\n  \"a\": 1,\n  \"b\"\n}")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 2, 1},
		{4, 2, 3},
		{12, 3, 1},
		{13, 3, 2},
		{int64(len(data)), 4, 2},
		{-1, 0, 0},
		{int64(len(data)) + 1, 0, 0},
	}
	for _, tt := range tests {
		line, col := position(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("position(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}
