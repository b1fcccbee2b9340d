// internal/core/movement.go
package core

import (
	"github.com/darealtrueblue/codeforge/internal/types"
)

// afterMove is the shared tail of every cursor command: it ends the current
// typing burst, keeps the caret visible, and republishes the cursor set.
func (e *Editor) afterMove() {
	e.history.BreakCoalescing()
	e.ScrollToCursor()
	e.notifyCursors()
}

// MoveCursor shifts every caret by the given line/column deltas. Vertical
// movement keeps the preferred column; a plain horizontal move with an
// active selection collapses to its edge.
func (e *Editor) MoveCursor(deltaLine, deltaCol int, extend bool) {
	if deltaLine != 0 {
		e.cursors.MoveVertical(e.buffer, deltaLine, extend)
	}
	if deltaCol != 0 {
		e.cursors.MoveHorizontal(e.buffer, deltaCol, extend)
	}
	e.afterMove()
}

// MoveWord jumps every caret to the next (dir > 0) or previous word boundary.
func (e *Editor) MoveWord(dir int, extend bool) {
	e.cursors.MoveWord(e.buffer, dir, extend)
	e.afterMove()
}

// MoveLineStart implements smart Home: first non-blank column, then zero.
func (e *Editor) MoveLineStart(extend bool) {
	e.cursors.MoveLineStart(e.buffer, extend)
	e.afterMove()
}

// MoveLineEnd moves every caret past the last rune of its line.
func (e *Editor) MoveLineEnd(extend bool) {
	e.cursors.MoveLineEnd(e.buffer, extend)
	e.afterMove()
}

// MoveDocStart collapses all cursors to the top of the document.
func (e *Editor) MoveDocStart(extend bool) {
	e.cursors.MoveDocStart(extend)
	e.afterMove()
}

// MoveDocEnd collapses all cursors to the end of the document.
func (e *Editor) MoveDocEnd(extend bool) {
	e.cursors.MoveDocEnd(e.buffer, extend)
	e.afterMove()
}

// AddCursorAbove spawns a caret on the line above the topmost cursor.
func (e *Editor) AddCursorAbove() {
	e.cursors.AddAbove(e.buffer)
	e.afterMove()
}

// AddCursorBelow spawns a caret on the line below the bottommost cursor.
func (e *Editor) AddCursorBelow() {
	e.cursors.AddBelow(e.buffer)
	e.afterMove()
}

// CollapseCursors drops secondary cursors and any selection; Escape.
func (e *Editor) CollapseCursors() {
	e.cursors.CollapseToPrimary()
	e.cursors.CollapseAll()
	e.afterMove()
}

// SelectAll selects the whole document with a single cursor.
func (e *Editor) SelectAll() {
	lastLine := e.buffer.LineCount() - 1
	end := types.Position{Line: lastLine, Col: lineRuneCount(e.buffer, lastLine)}
	e.cursors.SetAll(e.buffer, []types.Selection{{Anchor: types.Position{}, Active: end}}, 0)
	e.afterMove()
}

// SetCursor collapses the set to a single caret at pos (clamped).
func (e *Editor) SetCursor(pos types.Position) {
	e.cursors.ResetTo(e.buffer, pos)
	e.afterMove()
}

// GotoLine moves the caret to the start of a 1-based line number and centers
// the view on it.
func (e *Editor) GotoLine(n int) {
	line := n - 1
	if line < 0 {
		line = 0
	}
	if max := e.buffer.LineCount() - 1; line > max {
		line = max
	}
	e.cursors.ResetTo(e.buffer, types.Position{Line: line})
	e.history.BreakCoalescing()
	e.ScrollTo(line)
	e.notifyCursors()
}
