// internal/tui/tui.go
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/darealtrueblue/codeforge/internal/theme"
)

// TUI owns the terminal screen. Drawing code goes through its cell and
// cursor methods; Layout derives the frame partition from the live screen
// size so callers never pass stale dimensions.
type TUI struct {
	screen tcell.Screen
}

// New initializes the terminal with the current theme's default style and
// mouse reporting enabled.
func New() (*TUI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	s.SetStyle(theme.GetCurrentTheme().GetStyle("Default"))
	s.EnableMouse()

	return &TUI{screen: s}, nil
}

// Close restores the terminal to its previous state.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// Layout partitions the current screen size for one frame.
func (t *TUI) Layout(lineCount int, showMinimap bool) Layout {
	width, height := t.screen.Size()
	return ComputeLayout(width, height, lineCount, showMinimap)
}

// SetCell writes one cell. Combining runes may be nil.
func (t *TUI) SetCell(x, y int, r rune, combining []rune, style tcell.Style) {
	t.screen.SetContent(x, y, r, combining, style)
}

// ShowCursor places the terminal cursor; HideCursor removes it.
func (t *TUI) ShowCursor(x, y int) { t.screen.ShowCursor(x, y) }

func (t *TUI) HideCursor() { t.screen.HideCursor() }

// PollEvent blocks until the next terminal event.
func (t *TUI) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Clear erases the back buffer; Show flushes it; Sync forces a full
// repaint after a resize.
func (t *TUI) Clear() { t.screen.Clear() }

func (t *TUI) Show() { t.screen.Show() }

func (t *TUI) Sync() { t.screen.Sync() }

// Size returns the terminal dimensions.
func (t *TUI) Size() (int, int) {
	return t.screen.Size()
}

// Screen exposes the underlying tcell screen for components that draw
// themselves, like the status bar.
func (t *TUI) Screen() tcell.Screen {
	return t.screen
}
