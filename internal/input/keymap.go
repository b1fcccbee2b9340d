// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action

// ModKeymap holds bindings for keys combined with modifiers (Ctrl, Alt).
type ModKeymap map[tcell.ModMask]Keymap

// movementActions are the actions Shift extends into a selection.
var movementActions = map[Action]bool{
	ActionMoveUp: true, ActionMoveDown: true,
	ActionMoveLeft: true, ActionMoveRight: true,
	ActionMovePageUp: true, ActionMovePageDown: true,
	ActionMoveHome: true, ActionMoveEnd: true,
	ActionMoveDocStart: true, ActionMoveDocEnd: true,
	ActionMoveWordLeft: true, ActionMoveWordRight: true,
}

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap    Keymap
	modKeymap ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:    make(Keymap),
		modKeymap: make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyTab] = ActionInsertTab
	p.keymap[tcell.KeyBacktab] = ActionUnindent
	p.keymap[tcell.KeyEscape] = ActionEscape
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyF3] = ActionFindNext

	// --- Ctrl chords ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionQuit
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlC] = ActionCopy
	ctrlMap[tcell.KeyCtrlX] = ActionCut
	ctrlMap[tcell.KeyCtrlV] = ActionPaste
	ctrlMap[tcell.KeyCtrlA] = ActionSelectAll
	ctrlMap[tcell.KeyCtrlF] = ActionFind
	// Ctrl+H is indistinguishable from Backspace on terminals, so replace
	// lives on Ctrl+R.
	ctrlMap[tcell.KeyCtrlR] = ActionReplace
	ctrlMap[tcell.KeyCtrlG] = ActionGotoLine
	ctrlMap[tcell.KeyCtrlD] = ActionDuplicateLines
	ctrlMap[tcell.KeyCtrlUnderscore] = ActionToggleComment // Ctrl+/
	ctrlMap[tcell.KeyCtrlB] = ActionToggleMinimap
	ctrlMap[tcell.KeyHome] = ActionMoveDocStart
	ctrlMap[tcell.KeyEnd] = ActionMoveDocEnd
	ctrlMap[tcell.KeyLeft] = ActionMoveWordLeft
	ctrlMap[tcell.KeyRight] = ActionMoveWordRight
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Shift chords (non-movement; movement keys get Extend instead) ---
	shiftMap := make(Keymap)
	shiftMap[tcell.KeyF3] = ActionFindPrev
	p.modKeymap[tcell.ModShift] = shiftMap

	// --- Alt chords ---
	altMap := make(Keymap)
	altMap[tcell.KeyUp] = ActionMoveLinesUp
	altMap[tcell.KeyDown] = ActionMoveLinesDown
	p.modKeymap[tcell.ModAlt] = altMap

	// --- Ctrl+Alt chords ---
	ctrlAltMap := make(Keymap)
	ctrlAltMap[tcell.KeyUp] = ActionAddCursorAbove
	ctrlAltMap[tcell.KeyDown] = ActionAddCursorBelow
	p.modKeymap[tcell.ModCtrl|tcell.ModAlt] = ctrlAltMap
}

// ProcessEvent takes a tcell key event and returns the corresponding
// ActionEvent. Shift on a movement key becomes the Extend flag; mode
// handling (prompt vs. buffer) stays with the app.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// Dedicated Shift chords (Shift+F3 etc.) win before Shift is folded
	// into the Extend flag.
	if mod&tcell.ModShift != 0 {
		if shiftMap, ok := p.modKeymap[mod]; ok {
			if action, ok := shiftMap[key]; ok {
				return ActionEvent{Action: action}
			}
		}
	}

	extend := mod&tcell.ModShift != 0
	mod &^= tcell.ModShift

	// Ctrl chord keys (KeyCtrlA..KeyCtrlZ) already imply the modifier.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod |= tcell.ModCtrl
	}

	if mod != tcell.ModNone {
		if modMap, ok := p.modKeymap[mod]; ok {
			if action, ok := modMap[key]; ok {
				return ActionEvent{Action: action, Extend: extend && movementActions[action]}
			}
		}
		if key == tcell.KeyRune {
			return ActionEvent{Action: ActionUnknown}
		}
	}

	if action, ok := p.keymap[key]; ok {
		return ActionEvent{Action: action, Extend: extend && movementActions[action]}
	}

	if key == tcell.KeyRune && mod == tcell.ModNone {
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}

	return ActionEvent{Action: ActionUnknown}
}
