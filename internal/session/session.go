// internal/session/session.go
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// Store persists editing session state (recent files, last open file and the
// cursor position per file) to a JSON file. All paths are stored absolute.
type Store struct {
	path    string
	recent  []string
	last    string
	cursors map[string]types.Position

	minimapVisible bool
	minimapSet     bool
}

// NewStore creates a store backed by the given file path. An empty path
// disables persistence; the store still tracks state in memory.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		cursors: make(map[string]types.Position),
	}
}

// Load reads session state from disk. A missing file is not an error.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		logger.Debugf("Session: no session file at %s", s.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file '%s': %w", s.path, err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("session file '%s' is not valid JSON", s.path)
	}

	root := gjson.ParseBytes(data)
	s.last = root.Get("last_file").String()
	if v := root.Get("minimap_visible"); v.Exists() {
		s.minimapVisible = v.Bool()
		s.minimapSet = true
	}
	s.recent = s.recent[:0]
	for _, entry := range root.Get("recent_files").Array() {
		if p := entry.String(); p != "" {
			s.recent = append(s.recent, p)
		}
	}
	root.Get("cursors").ForEach(func(key, value gjson.Result) bool {
		s.cursors[key.String()] = types.Position{
			Line: int(value.Get("line").Int()),
			Col:  int(value.Get("col").Int()),
		}
		return true
	})
	logger.Debugf("Session: loaded %d recent files from %s", len(s.recent), s.path)
	return nil
}

// Save writes the session state back to disk, creating the parent
// directory when needed.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	out := "{}"
	var err error
	if out, err = sjson.Set(out, "last_file", s.last); err != nil {
		return err
	}
	if out, err = sjson.Set(out, "recent_files", s.recent); err != nil {
		return err
	}
	if s.minimapSet {
		if out, err = sjson.Set(out, "minimap_visible", s.minimapVisible); err != nil {
			return err
		}
	}
	for path, pos := range s.cursors {
		key := "cursors." + escapeKey(path)
		if out, err = sjson.Set(out, key+".line", pos.Line); err != nil {
			return err
		}
		if out, err = sjson.Set(out, key+".col", pos.Col); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session directory '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write session file '%s': %w", s.path, err)
	}
	logger.Debugf("Session: saved to %s", s.path)
	return nil
}

// escapeKey protects path separators and dots from sjson path syntax.
func escapeKey(key string) string {
	escaped := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '\\', '|':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, key[i])
	}
	return string(escaped)
}

// Touch records a file as the most recently opened one and trims the
// recent list to the configured maximum.
func (s *Store) Touch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.last = abs

	updated := []string{abs}
	for _, p := range s.recent {
		if p != abs {
			updated = append(updated, p)
		}
	}
	if len(updated) > config.MaxRecentFiles {
		updated = updated[:config.MaxRecentFiles]
	}
	s.recent = updated
}

// SetCursor remembers the cursor position for a file.
func (s *Store) SetCursor(path string, pos types.Position) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.cursors[abs] = pos
}

// Cursor returns the remembered cursor position for a file.
func (s *Store) Cursor(path string) (types.Position, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pos, ok := s.cursors[abs]
	return pos, ok
}

// SetMinimapVisible remembers the minimap toggle state.
func (s *Store) SetMinimapVisible(visible bool) {
	s.minimapVisible = visible
	s.minimapSet = true
}

// MinimapVisible returns the remembered minimap state; ok is false when no
// session ever recorded one.
func (s *Store) MinimapVisible() (visible, ok bool) {
	return s.minimapVisible, s.minimapSet
}

// LastFile returns the most recently opened file, or "".
func (s *Store) LastFile() string {
	return s.last
}

// RecentFiles returns the recent file list, most recent first.
func (s *Store) RecentFiles() []string {
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}
