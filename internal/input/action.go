// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// The set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota
	ActionQuit
	ActionForceQuit // Quit without checking modified status
	ActionSave
	ActionEscape // Cancel prompt / collapse to one cursor

	// --- Cursor Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome // Smart home: first non-blank, then column zero
	ActionMoveEnd
	ActionMoveDocStart
	ActionMoveDocEnd
	ActionMoveWordLeft
	ActionMoveWordRight

	// --- Multi-cursor ---
	ActionAddCursorAbove
	ActionAddCursorBelow
	ActionSelectAll

	// --- Text Manipulation ---
	ActionInsertRune // Requires Rune argument
	ActionInsertNewLine
	ActionInsertTab
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key
	ActionIndent
	ActionUnindent
	ActionToggleComment
	ActionDuplicateLines
	ActionMoveLinesUp
	ActionMoveLinesDown

	// --- History ---
	ActionUndo
	ActionRedo

	// --- Clipboard ---
	ActionCopy
	ActionCut
	ActionPaste

	// --- Search / Navigation ---
	ActionFind
	ActionFindNext
	ActionFindPrev
	ActionReplace
	ActionGotoLine

	// --- View ---
	ActionToggleMinimap
)

// ActionEvent is a decoded input event. Extend is set when Shift was held on
// a movement key, turning the move into a selection extension.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
	Extend bool
}
