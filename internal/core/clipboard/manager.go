// Package clipboard handles copy/cut/paste, backed by the system clipboard
// when enabled and an internal register otherwise (or when the system
// clipboard is unavailable, e.g. headless sessions).
package clipboard

import (
	"bytes"
	"fmt"

	systemclip "github.com/atotto/clipboard"

	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// EditorInterface defines the editor methods the clipboard needs.
type EditorInterface interface {
	Selections() []types.Selection
	RangeText(start, end types.Position) ([]byte, error)
	CurrentLineText() ([]byte, bool)
	InsertText(text string) error
	DeleteSelection() error
}

// Manager holds the internal register and the system-clipboard preference.
type Manager struct {
	editor    EditorInterface
	register  []byte
	useSystem bool
}

// NewManager creates a clipboard manager. useSystem enables the OS
// clipboard; failures there degrade to the internal register.
func NewManager(editor EditorInterface, useSystem bool) *Manager {
	return &Manager{editor: editor, useSystem: useSystem}
}

// Copy captures the selected text. Multiple selections are joined with line
// breaks in document order. With nothing selected the primary caret's whole
// line is copied, matching the common editor convention.
func (m *Manager) Copy() (bool, error) {
	content, err := m.selectionText()
	if err != nil {
		return false, err
	}
	if content == nil {
		line, ok := m.editor.CurrentLineText()
		if !ok {
			return false, nil
		}
		content = append(append([]byte(nil), line...), '\n')
	}
	m.write(content)
	logger.DebugTagf("clipboard", "Copied %d bytes", len(content))
	return true, nil
}

// Cut copies the selected text, then deletes it. Without a selection it is
// a no-op (the caret's line is not cut).
func (m *Manager) Cut() (bool, error) {
	content, err := m.selectionText()
	if err != nil {
		return false, err
	}
	if content == nil {
		return false, nil
	}
	m.write(content)
	if err := m.editor.DeleteSelection(); err != nil {
		return false, fmt.Errorf("cut: %w", err)
	}
	logger.DebugTagf("clipboard", "Cut %d bytes", len(content))
	return true, nil
}

// Paste inserts the clipboard content at every cursor.
func (m *Manager) Paste() (bool, error) {
	content := m.read()
	if len(content) == 0 {
		return false, nil
	}
	if err := m.editor.InsertText(string(content)); err != nil {
		return false, fmt.Errorf("paste: %w", err)
	}
	logger.DebugTagf("clipboard", "Pasted %d bytes", len(content))
	return true, nil
}

// selectionText concatenates all non-empty selections, or nil when none.
func (m *Manager) selectionText() ([]byte, error) {
	var parts [][]byte
	for _, sel := range m.editor.Selections() {
		if sel.IsCaret() {
			continue
		}
		start, end := sel.Normalized()
		text, err := m.editor.RangeText(start, end)
		if err != nil {
			return nil, fmt.Errorf("extract selection: %w", err)
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return bytes.Join(parts, []byte("\n")), nil
}

func (m *Manager) write(content []byte) {
	m.register = content
	if m.useSystem {
		if err := systemclip.WriteAll(string(content)); err != nil {
			logger.Warnf("Clipboard: system write failed, using register: %v", err)
		}
	}
}

func (m *Manager) read() []byte {
	if m.useSystem {
		if s, err := systemclip.ReadAll(); err == nil && s != "" {
			return []byte(s)
		}
	}
	return m.register
}
