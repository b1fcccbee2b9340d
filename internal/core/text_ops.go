// internal/core/text_ops.go
package core

import (
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/core/smartedit"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// InsertText types text at every cursor, replacing active selections.
func (e *Editor) InsertText(text string) error {
	if text == "" {
		return nil
	}
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		return replacePlan(sel, text), true
	})
}

// InsertRune types a single rune at every cursor, with bracket/quote pairing
// when the rune qualifies.
func (e *Editor) InsertRune(r rune) error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		if plan, ok := smartedit.InsertRune(e.buffer, sel, r, e.editOpts); ok {
			return plan, true
		}
		return replacePlan(sel, string(r)), true
	})
}

// InsertNewLine handles Enter: line break plus auto-indent at every cursor.
func (e *Editor) InsertNewLine() error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		return smartedit.Newline(e.buffer, sel, e.editOpts), true
	})
}

// DeleteBackward handles Backspace: selection delete, pair delete, line
// join, or a single rune, per cursor.
func (e *Editor) DeleteBackward() error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		return smartedit.Backspace(e.buffer, sel, e.editOpts)
	})
}

// DeleteForward handles Delete: the selection, or the rune after the caret,
// joining with the next line at line end.
func (e *Editor) DeleteForward() error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		if !sel.IsCaret() {
			start, end := sel.Normalized()
			return smartedit.Plan{
				Edits: []smartedit.Edit{{Start: start, End: end}},
				Caret: types.Caret(start),
			}, true
		}
		pos := sel.Active
		line, err := e.buffer.Line(pos.Line)
		if err != nil {
			return smartedit.Plan{}, false
		}
		end := pos
		if pos.Col < utf8.RuneCount(line) {
			end.Col++
		} else if pos.Line < e.buffer.LineCount()-1 {
			end = types.Position{Line: pos.Line + 1, Col: 0}
		} else {
			return smartedit.Plan{}, false
		}
		return smartedit.Plan{
			Edits: []smartedit.Edit{{Start: pos, End: end}},
			Caret: types.Caret(pos),
		}, true
	})
}

// DeleteSelection removes the selected text at every cursor that has any.
// Carets without a selection are left alone. Used by cut.
func (e *Editor) DeleteSelection() error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		if sel.IsCaret() {
			return smartedit.Plan{}, false
		}
		start, end := sel.Normalized()
		return smartedit.Plan{
			Edits: []smartedit.Edit{{Start: start, End: end}},
			Caret: types.Caret(start),
		}, true
	})
}
