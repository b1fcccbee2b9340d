// internal/core/editor.go
package core

import (
	"errors"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/core/cursor"
	"github.com/darealtrueblue/codeforge/internal/core/history"
	"github.com/darealtrueblue/codeforge/internal/core/smartedit"
	"github.com/darealtrueblue/codeforge/internal/event"
	"github.com/darealtrueblue/codeforge/internal/highlight"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// ErrReadOnly is returned by mutating operations on a read-only document.
var ErrReadOnly = errors.New("editor: buffer is read-only")

// Editor owns one open document: the buffer, the cursor set, and the undo
// history. All mutations flow through its edit pipeline so history, the
// highlighter, and the minimap always observe the same ordered stream of
// EditInfo events. A single goroutine (the app loop) drives it.
type Editor struct {
	buffer  buffer.Buffer
	cursors *cursor.Set
	history *history.Manager

	eventManager *event.Manager

	language string
	editOpts smartedit.Options
	readOnly bool

	ViewportY  int // Top visible line index (0-based)
	ViewportX  int // Leftmost visible rune index (0-based)
	viewWidth  int
	viewHeight int
	ScrollOff  int

	searchHighlights []types.Selection
}

// NewEditor creates an editor around an existing buffer.
func NewEditor(buf buffer.Buffer) *Editor {
	return &Editor{
		buffer:   buf,
		cursors:  cursor.NewSet(),
		history:  history.NewManager(history.DefaultMaxHistory),
		language: "text",
		editOpts: smartedit.Options{
			IndentUnit:        "    ",
			AutoIndent:        true,
			AutoCloseBrackets: true,
		},
		ScrollOff: config.DefaultScrollOff,
	}
}

// SetEventManager sets the event manager for dispatching events.
func (e *Editor) SetEventManager(mgr *event.Manager) {
	e.eventManager = mgr
}

// SetEditOptions installs the smart-edit knobs derived from config.
func (e *Editor) SetEditOptions(opts smartedit.Options) {
	e.editOpts = opts
}

// SetReadOnly toggles whether mutating operations are accepted.
func (e *Editor) SetReadOnly(ro bool) { e.readOnly = ro }

// IsReadOnly reports whether the document rejects edits.
func (e *Editor) IsReadOnly() bool { return e.readOnly }

// GetBuffer returns the editor's buffer.
func (e *Editor) GetBuffer() buffer.Buffer { return e.buffer }

// Cursors returns the editor's cursor set.
func (e *Editor) Cursors() *cursor.Set { return e.cursors }

// Selections returns all selections in document order.
func (e *Editor) Selections() []types.Selection { return e.cursors.All() }

// CurrentLineText returns the primary caret's line content.
func (e *Editor) CurrentLineText() ([]byte, bool) {
	line, err := e.buffer.Line(e.cursors.Primary().Active.Line)
	if err != nil {
		return nil, false
	}
	return line, true
}

// GetHistoryManager returns the undo/redo manager.
func (e *Editor) GetHistoryManager() *history.Manager { return e.history }

// GetEventManager returns the event manager (may be nil in tests).
func (e *Editor) GetEventManager() *event.Manager { return e.eventManager }

// Language returns the active language name.
func (e *Editor) Language() string { return e.language }

// SetLanguage switches the document's language tag and announces it; the
// highlight pipeline listens and swaps rule sets.
func (e *Editor) SetLanguage(name string) {
	if name == e.language {
		return
	}
	e.language = name
	e.dispatch(event.TypeLanguageChanged, event.LanguageChangedData{Language: name})
}

// LoadFile loads a file into the buffer, resetting cursors and history and
// detecting the language from the file extension.
func (e *Editor) LoadFile(path string) error {
	if err := e.buffer.Load(path); err != nil {
		return err
	}
	e.cursors.ResetTo(e.buffer, types.Position{})
	e.history.Clear(e.buffer.Revision())
	e.ViewportY, e.ViewportX = 0, 0
	e.ClearHighlights()

	lang := highlight.DefaultRegistry().Detect(path).Name()
	e.language = lang
	logger.Infof("Editor: loaded %q (%s)", path, lang)
	e.dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: path, Language: lang})
	e.notifyCursors()
	e.notifyHistory()
	return nil
}

// SaveBuffer writes the buffer back to its file.
func (e *Editor) SaveBuffer() error {
	path := e.buffer.FilePath()
	if err := e.buffer.Save(path); err != nil {
		return err
	}
	e.dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	return nil
}

// SetViewSize updates the cached view dimensions. Called on resize and
// before drawing.
func (e *Editor) SetViewSize(width, height int) {
	e.viewWidth = width
	if height > config.StatusBarHeight {
		e.viewHeight = height - config.StatusBarHeight
	} else {
		e.viewHeight = 0
	}
	if e.ScrollOff*2 >= e.viewHeight && e.viewHeight > 0 {
		e.ScrollOff = (e.viewHeight - 1) / 2
	}
	e.ScrollToCursor()
}

// GetViewport returns the scroll position (top line, leftmost column).
func (e *Editor) GetViewport() (int, int) {
	return e.ViewportY, e.ViewportX
}

// ViewHeight returns the number of buffer lines the view can show.
func (e *Editor) ViewHeight() int { return e.viewHeight }

// ScrollToCursor adjusts the viewport so the primary caret stays visible
// with ScrollOff lines of context.
func (e *Editor) ScrollToCursor() {
	if e.viewHeight <= 0 {
		return
	}
	pos := e.cursors.Primary().Active

	top := e.ViewportY
	if pos.Line < top+e.ScrollOff {
		top = pos.Line - e.ScrollOff
	}
	if pos.Line >= top+e.viewHeight-e.ScrollOff {
		top = pos.Line - e.viewHeight + e.ScrollOff + 1
	}
	if max := e.buffer.LineCount() - e.viewHeight; top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}

	left := e.ViewportX
	if e.viewWidth > 0 {
		if pos.Col < left {
			left = pos.Col
		}
		if pos.Col >= left+e.viewWidth {
			left = pos.Col - e.viewWidth + 1
		}
	}

	if top != e.ViewportY || left != e.ViewportX {
		e.ViewportY, e.ViewportX = top, left
		e.dispatch(event.TypeViewportChanged, event.ViewportChangedData{TopLine: top, Height: e.viewHeight})
	}
}

// ScrollTo brings a line into view, centered where possible. Used by the
// minimap's scroll requests and goto-line.
func (e *Editor) ScrollTo(line int) {
	if line < 0 {
		line = 0
	}
	if max := e.buffer.LineCount() - 1; line > max {
		line = max
	}
	top := line - e.viewHeight/2
	if max := e.buffer.LineCount() - e.viewHeight; top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	if top != e.ViewportY {
		e.ViewportY = top
		e.dispatch(event.TypeViewportChanged, event.ViewportChangedData{TopLine: top, Height: e.viewHeight})
	}
}

// --- event helpers ---

func (e *Editor) dispatch(t event.Type, data interface{}) {
	if e.eventManager != nil {
		e.eventManager.Dispatch(t, data)
	}
}

func (e *Editor) notifyEdit(edit types.EditInfo) {
	e.dispatch(event.TypeBufferModified, event.BufferModifiedData{Edit: edit})
}

func (e *Editor) notifyCursors() {
	e.dispatch(event.TypeCursorsChanged, event.CursorsChangedData{Selections: e.cursors.All()})
}

func (e *Editor) notifyHistory() {
	e.dispatch(event.TypeHistoryChanged, event.HistoryChangedData{
		CanUndo: e.history.CanUndo(),
		CanRedo: e.history.CanRedo(),
	})
}

func (e *Editor) snapshotSelections() history.SelSnapshot {
	return history.SelSnapshot{
		Sels:    e.cursors.All(),
		Primary: e.cursors.PrimaryIndex(),
	}
}
