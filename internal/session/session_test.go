package session

import (
	"path/filepath"
	"testing"

	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewStore(path)
	s.Touch("/tmp/a.go")
	s.Touch("/tmp/b.go")
	s.SetCursor("/tmp/b.go", types.Position{Line: 12, Col: 4})
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := NewStore(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.LastFile() != "/tmp/b.go" {
		t.Errorf("last file = %q", loaded.LastFile())
	}
	recent := loaded.RecentFiles()
	if len(recent) != 2 || recent[0] != "/tmp/b.go" || recent[1] != "/tmp/a.go" {
		t.Errorf("recent = %v", recent)
	}
	pos, ok := loaded.Cursor("/tmp/b.go")
	if !ok || pos.Line != 12 || pos.Col != 4 {
		t.Errorf("cursor = %v ok=%v", pos, ok)
	}
}

func TestMinimapVisibilityRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewStore(path)
	if _, ok := s.MinimapVisible(); ok {
		t.Fatal("fresh store should not report a minimap state")
	}
	s.SetMinimapVisible(false)
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := NewStore(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	visible, ok := loaded.MinimapVisible()
	if !ok || visible {
		t.Errorf("minimap = %v ok=%v, want hidden", visible, ok)
	}
}

func TestTouchDedupesAndTrims(t *testing.T) {
	s := NewStore("")
	for i := 0; i < config.MaxRecentFiles+5; i++ {
		s.Touch(filepath.Join("/tmp", string(rune('a'+i))+".txt"))
	}
	s.Touch("/tmp/a.txt")

	recent := s.RecentFiles()
	if len(recent) != config.MaxRecentFiles {
		t.Fatalf("recent len = %d, want %d", len(recent), config.MaxRecentFiles)
	}
	if recent[0] != "/tmp/a.txt" {
		t.Errorf("most recent = %q", recent[0])
	}
	seen := make(map[string]bool)
	for _, p := range recent {
		if seen[p] {
			t.Errorf("duplicate entry %q", p)
		}
		seen[p] = true
	}
}

func TestLoadMissingFileIsNoError(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if s.LastFile() != "" || len(s.RecentFiles()) != 0 {
		t.Error("missing file should leave store empty")
	}
}

func TestEmptyPathDisablesPersistence(t *testing.T) {
	s := NewStore("")
	s.Touch("/tmp/x.go")
	if err := s.Save(); err != nil {
		t.Fatalf("save with empty path: %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("load with empty path: %v", err)
	}
}
