// internal/event/event.go
package event

import (
	"github.com/darealtrueblue/codeforge/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Core editing events
	TypeBufferModified  // Fired on every buffer mutation, carries the dirty range
	TypeBufferLoaded    // Fired after a document is loaded from disk
	TypeBufferSaved     // Fired after a document is saved
	TypeCursorsChanged  // Fired when the cursor set changes (move, add, merge)
	TypeHistoryChanged  // Fired when undo/redo availability changes
	TypeLanguageChanged // Fired when the document's language tag changes

	// View boundary events
	TypeViewportChanged  // Fired when the visible line window moves
	TypeScrollRequested  // Fired by the minimap to ask the view to scroll
	TypeSettingsReloaded // Fired when the config file is reloaded from disk

	// Input events
	TypeKeyPressed // Raw key press forwarded for observers

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// --- Event payloads ---

// BufferModifiedData carries the dirty range of a single mutation.
type BufferModifiedData struct {
	Edit types.EditInfo
}

// BufferLoadedData contains info about the loaded document.
type BufferLoadedData struct {
	FilePath string
	Language string
}

// BufferSavedData contains info about the saved document.
type BufferSavedData struct {
	FilePath string
}

// CursorsChangedData carries a snapshot of all selections; the primary is
// always first.
type CursorsChangedData struct {
	Selections []types.Selection
}

// HistoryChangedData mirrors the undo/redo menu state.
type HistoryChangedData struct {
	CanUndo bool
	CanRedo bool
}

// LanguageChangedData names the newly active language rule set.
type LanguageChangedData struct {
	Language string
}

// ViewportChangedData describes the visible line window.
type ViewportChangedData struct {
	TopLine int
	Height  int
}

// ScrollRequestedData asks the view layer to bring a line into view.
type ScrollRequestedData struct {
	Line int
}

// SettingsReloadedData is fired after a config hot reload.
type SettingsReloadedData struct{}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// AppReadyData is fired when the application is fully initialized.
type AppReadyData struct{}

// AppQuitData is fired just before termination begins.
type AppQuitData struct{}
