// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/theme"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// StatusBar renders the status line: file name, modified marker, cursor
// position, language and cursor count, or a temporary message / input prompt.
type StatusBar struct {
	mu sync.RWMutex

	filePath    string
	isModified  bool
	cursorPos   types.Position
	cursorCount int
	language    string

	tempMessage     string
	tempMessageTime time.Time

	promptLabel string
	promptText  string
	promptMode  bool
}

// New creates an empty status bar.
func New() *StatusBar {
	return &StatusBar{cursorCount: 1}
}

// SetFileInfo updates the file path and modified flag.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetCursorInfo updates the primary cursor position and the cursor count.
func (sb *StatusBar) SetCursorInfo(pos types.Position, count int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
	sb.cursorCount = count
}

// SetLanguage updates the displayed language name.
func (sb *StatusBar) SetLanguage(lang string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.language = lang
}

// SetTemporaryMessage displays a message until config.MessageTimeout expires.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

// ResetTemporaryMessage clears any temporary message.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// SetPrompt switches the bar into input mode (find, goto line).
func (sb *StatusBar) SetPrompt(label, text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.promptMode = true
	sb.promptLabel = label
	sb.promptText = text
}

// ClearPrompt leaves input mode.
func (sb *StatusBar) ClearPrompt() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.promptMode = false
	sb.promptLabel = ""
	sb.promptText = ""
}

// InPrompt reports whether the bar is showing an input prompt.
func (sb *StatusBar) InPrompt() bool {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.promptMode
}

// PromptText returns the current prompt input.
func (sb *StatusBar) PromptText() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.promptText
}

// defaultDisplayText builds the left-hand side of the status line.
func (sb *StatusBar) defaultDisplayText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	} else {
		fPath = filepath.Base(fPath)
	}
	modifiedIndicator := ""
	if sb.isModified {
		modifiedIndicator = " [+]"
	}
	cursorsIndicator := ""
	if sb.cursorCount > 1 {
		cursorsIndicator = fmt.Sprintf(" -- %d cursors", sb.cursorCount)
	}
	return fmt.Sprintf("%s%s%s", fPath, modifiedIndicator, cursorsIndicator)
}

// positionDisplayText builds the right-aligned position segment.
func (sb *StatusBar) positionDisplayText() string {
	lang := sb.language
	if lang == "" {
		lang = "text"
	}
	return fmt.Sprintf("%s | Ln %d, Col %d ", lang, sb.cursorPos.Line+1, sb.cursorPos.Col+1)
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	th := theme.GetCurrentTheme()

	sb.mu.Lock()
	tempActive := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !tempActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	var style tcell.Style
	var text, rightText string
	switch {
	case sb.promptMode:
		text = sb.promptLabel + sb.promptText
		style = th.GetStyle("StatusBarPrompt")
	case tempActive:
		text = sb.tempMessage
		style = th.GetStyle("StatusBarMessage")
	case sb.isModified:
		text = sb.defaultDisplayText()
		rightText = sb.positionDisplayText()
		style = th.GetStyle("StatusBarModified")
	default:
		text = sb.defaultDisplayText()
		rightText = sb.positionDisplayText()
		style = th.GetStyle("StatusBar")
	}
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	drawText(screen, 0, y, width, text, style)

	if rightText != "" {
		rightWidth := runewidth.StringWidth(rightText)
		if startX := width - rightWidth; startX > runewidth.StringWidth(text)+1 {
			drawText(screen, startX, y, width, rightText, style)
		}
	}
}

// drawText renders a string starting at x, clipping at maxWidth columns.
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	gr := uniseg.NewGraphemes(text)
	currentX := x
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > maxWidth {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			screen.SetContent(currentX, y, runes[0], combining, style)
		}
		currentX += clusterWidth
	}
}
