// internal/app/actions.go
package app

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/darealtrueblue/codeforge/internal/core"
	"github.com/darealtrueblue/codeforge/internal/input"
	"github.com/darealtrueblue/codeforge/internal/logger"
)

// handleKeyEvent decodes a key event and executes the resulting action.
// Returns true when the screen needs a redraw.
func (a *App) handleKeyEvent(ev *tcell.EventKey) bool {
	actionEvent := a.inputProcessor.ProcessEvent(ev)
	if actionEvent.Action == input.ActionUnknown {
		return false
	}
	if a.prompt != promptNone {
		return a.handlePromptAction(actionEvent)
	}
	return a.executeAction(actionEvent)
}

// handlePromptAction edits and submits the status bar prompt (find, goto).
func (a *App) handlePromptAction(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionInsertRune:
		a.promptInput = append(a.promptInput, ae.Rune)
	case input.ActionDeleteCharBackward:
		if len(a.promptInput) > 0 {
			a.promptInput = a.promptInput[:len(a.promptInput)-1]
		}
	case input.ActionInsertNewLine:
		a.submitPrompt()
		return true
	case input.ActionEscape:
		if a.prompt != promptGoto {
			a.editor.ClearHighlights()
		}
		a.replaceTerm = ""
		a.closePrompt()
		return true
	default:
		return false
	}

	if a.prompt == promptFind || a.prompt == promptReplace {
		// Live highlight while the search term is typed.
		term := string(a.promptInput)
		if term == "" {
			a.editor.ClearHighlights()
		} else {
			a.editor.HighlightMatches(term)
		}
	}
	a.refreshPrompt()
	return true
}

func (a *App) submitPrompt() {
	text := string(a.promptInput)
	kind := a.prompt
	a.closePrompt()

	switch kind {
	case promptFind:
		if text == "" {
			a.editor.ClearHighlights()
			return
		}
		a.lastSearch = text
		a.editor.HighlightMatches(text)
		if !a.editor.FindAndSelect(text, true) {
			a.statusBar.SetTemporaryMessage("Pattern not found: %s", text)
		}
	case promptReplace:
		if text == "" {
			a.editor.ClearHighlights()
			return
		}
		a.lastSearch = text
		a.replaceTerm = text
		a.openPrompt(promptReplaceWith, "")
	case promptReplaceWith:
		term := a.replaceTerm
		a.replaceTerm = ""
		a.editor.ClearHighlights()
		count, err := a.editor.ReplaceAll(term, text)
		if err != nil {
			a.statusBar.SetTemporaryMessage("Replace failed: %v", err)
			return
		}
		a.statusBar.SetTemporaryMessage("Replaced %d occurrence(s) of %q", count, term)
	case promptGoto:
		n, err := strconv.Atoi(text)
		if err != nil {
			a.statusBar.SetTemporaryMessage("Not a line number: %s", text)
			return
		}
		a.editor.GotoLine(n)
	}
}

func (a *App) openPrompt(kind promptKind, prefill string) {
	a.prompt = kind
	a.promptInput = []rune(prefill)
	a.refreshPrompt()
}

func (a *App) refreshPrompt() {
	label := "Find: "
	switch a.prompt {
	case promptGoto:
		label = "Goto line: "
	case promptReplace:
		label = "Replace: "
	case promptReplaceWith:
		label = "Replace with: "
	}
	a.statusBar.SetPrompt(label, string(a.promptInput))
}

func (a *App) closePrompt() {
	a.prompt = promptNone
	a.promptInput = nil
	a.statusBar.ClearPrompt()
}

// executeAction runs one editor action in normal (buffer) mode.
func (a *App) executeAction(ae input.ActionEvent) bool {
	var err error

	switch ae.Action {
	// --- Lifecycle ---
	case input.ActionQuit:
		if a.editor.GetBuffer().IsModified() && !a.confirmQuit {
			a.confirmQuit = true
			a.statusBar.SetTemporaryMessage("Unsaved changes. Ctrl+Q again to quit, Ctrl+S to save.")
			return true
		}
		close(a.quit)
		return false
	case input.ActionForceQuit:
		close(a.quit)
		return false
	case input.ActionSave:
		if err = a.editor.SaveBuffer(); err != nil {
			a.statusBar.SetTemporaryMessage("Save failed: %v", err)
		} else {
			a.statusBar.SetTemporaryMessage("Saved %s", a.editor.GetBuffer().FilePath())
			a.confirmQuit = false
		}
	case input.ActionEscape:
		a.editor.ClearHighlights()
		a.editor.CollapseCursors()
		a.confirmQuit = false

	// --- Movement ---
	case input.ActionMoveUp:
		a.editor.MoveCursor(-1, 0, ae.Extend)
	case input.ActionMoveDown:
		a.editor.MoveCursor(1, 0, ae.Extend)
	case input.ActionMoveLeft:
		a.editor.MoveCursor(0, -1, ae.Extend)
	case input.ActionMoveRight:
		a.editor.MoveCursor(0, 1, ae.Extend)
	case input.ActionMovePageUp:
		a.editor.MoveCursor(-a.editor.ViewHeight(), 0, ae.Extend)
	case input.ActionMovePageDown:
		a.editor.MoveCursor(a.editor.ViewHeight(), 0, ae.Extend)
	case input.ActionMoveHome:
		a.editor.MoveLineStart(ae.Extend)
	case input.ActionMoveEnd:
		a.editor.MoveLineEnd(ae.Extend)
	case input.ActionMoveDocStart:
		a.editor.MoveDocStart(ae.Extend)
	case input.ActionMoveDocEnd:
		a.editor.MoveDocEnd(ae.Extend)
	case input.ActionMoveWordLeft:
		a.editor.MoveWord(-1, ae.Extend)
	case input.ActionMoveWordRight:
		a.editor.MoveWord(1, ae.Extend)

	// --- Multi-cursor ---
	case input.ActionAddCursorAbove:
		a.editor.AddCursorAbove()
	case input.ActionAddCursorBelow:
		a.editor.AddCursorBelow()
	case input.ActionSelectAll:
		a.editor.SelectAll()

	// --- Text manipulation ---
	case input.ActionInsertRune:
		err = a.editor.InsertRune(ae.Rune)
	case input.ActionInsertNewLine:
		err = a.editor.InsertNewLine()
	case input.ActionInsertTab:
		if a.hasSelection() {
			err = a.editor.IndentLines(1)
		} else {
			err = a.editor.InsertText(a.indentUnit())
		}
	case input.ActionIndent:
		err = a.editor.IndentLines(1)
	case input.ActionUnindent:
		err = a.editor.IndentLines(-1)
	case input.ActionDeleteCharBackward:
		err = a.editor.DeleteBackward()
	case input.ActionDeleteCharForward:
		err = a.editor.DeleteForward()
	case input.ActionToggleComment:
		err = a.editor.ToggleComment()
	case input.ActionDuplicateLines:
		err = a.editor.DuplicateLines()
	case input.ActionMoveLinesUp:
		err = a.editor.MoveLines(-1)
	case input.ActionMoveLinesDown:
		err = a.editor.MoveLines(1)

	// --- History ---
	case input.ActionUndo:
		err = a.editor.Undo()
	case input.ActionRedo:
		err = a.editor.Redo()

	// --- Clipboard ---
	case input.ActionCopy:
		if ok, cErr := a.clip.Copy(); cErr != nil {
			logger.Warnf("App: copy failed: %v", cErr)
		} else if ok {
			a.statusBar.SetTemporaryMessage("Copied")
		}
	case input.ActionCut:
		if _, cErr := a.clip.Cut(); cErr != nil {
			a.statusBar.SetTemporaryMessage("Cut failed: %v", cErr)
		}
	case input.ActionPaste:
		if _, pErr := a.clip.Paste(); pErr != nil {
			a.statusBar.SetTemporaryMessage("Paste failed: %v", pErr)
		}

	// --- Search / navigation ---
	case input.ActionFind:
		a.openPrompt(promptFind, "")
	case input.ActionFindNext:
		if a.lastSearch == "" {
			a.openPrompt(promptFind, "")
		} else if !a.editor.FindAndSelect(a.lastSearch, true) {
			a.statusBar.SetTemporaryMessage("Pattern not found: %s", a.lastSearch)
		}
	case input.ActionFindPrev:
		if a.lastSearch == "" {
			a.openPrompt(promptFind, "")
		} else if !a.editor.FindAndSelect(a.lastSearch, false) {
			a.statusBar.SetTemporaryMessage("Pattern not found: %s", a.lastSearch)
		}
	case input.ActionReplace:
		a.openPrompt(promptReplace, "")
	case input.ActionGotoLine:
		a.openPrompt(promptGoto, "")

	// --- View ---
	case input.ActionToggleMinimap:
		a.showMinimap = !a.showMinimap
		if a.showMinimap {
			a.mmap.Rebuild(a.editor.GetBuffer(), a.engine)
			viewY, _ := a.editor.GetViewport()
			a.mmap.SetViewport(viewY, a.editor.ViewHeight())
		}

	default:
		return false
	}

	if err != nil {
		if errors.Is(err, core.ErrReadOnly) {
			a.statusBar.SetTemporaryMessage("Buffer is read-only")
		} else {
			logger.Errorf("App: action %d failed: %v", ae.Action, err)
			a.statusBar.SetTemporaryMessage("Error: %v", err)
		}
	}
	return true
}

func (a *App) hasSelection() bool {
	for _, sel := range a.editor.Selections() {
		if !sel.IsCaret() {
			return true
		}
	}
	return false
}

func (a *App) indentUnit() string {
	return strings.Repeat(" ", a.cfg.Editor.TabWidth)
}
