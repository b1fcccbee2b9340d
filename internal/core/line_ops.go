// internal/core/line_ops.go
package core

import (
	"bytes"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/core/smartedit"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// ToggleComment comments or uncomments the lines each selection touches,
// using the active language's line-comment prefix.
func (e *Editor) ToggleComment() error {
	prefix := smartedit.CommentPrefix(e.language)
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		return smartedit.ToggleComment(e.buffer, sel, prefix)
	})
}

// DuplicateLines copies each selection's lines below themselves and moves
// the cursors onto the copies.
func (e *Editor) DuplicateLines() error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		return smartedit.DuplicateLines(e.buffer, sel), true
	})
}

// MoveLines shifts each selection's lines one line up (dir < 0) or down.
func (e *Editor) MoveLines(dir int) error {
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		return smartedit.MoveLines(e.buffer, sel, dir)
	})
}

// IndentLines shifts the lines each selection touches one indent unit right
// (dir > 0) or left. Unindenting strips at most one unit of leading
// whitespace per line; blank lines are skipped.
func (e *Editor) IndentLines(dir int) error {
	unit := e.editOpts.IndentUnit
	if unit == "" {
		unit = "\t"
	}
	return e.applyPlans(func(sel types.Selection) (smartedit.Plan, bool) {
		start, end := sel.Normalized()
		firstLine, lastLine := start.Line, end.Line
		if lastLine > firstLine && end.Col == 0 {
			lastLine--
		}

		var edits []smartedit.Edit
		for i := firstLine; i <= lastLine; i++ {
			line, err := e.buffer.Line(i)
			if err != nil {
				continue
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			if dir > 0 {
				edits = append(edits, smartedit.Edit{
					Start: types.Position{Line: i},
					End:   types.Position{Line: i},
					Text:  []byte(unit),
				})
			} else if n := unindentCols(line, unit); n > 0 {
				edits = append(edits, smartedit.Edit{
					Start: types.Position{Line: i},
					End:   types.Position{Line: i, Col: n},
				})
			}
		}
		if len(edits) == 0 {
			return smartedit.Plan{}, false
		}
		// Keep the same lines selected; downstream clamping fixes columns.
		return smartedit.Plan{Edits: edits, Caret: sel}, true
	})
}

// unindentCols returns how many leading columns one unindent removes: a
// whole indent unit when present, otherwise a lone tab or the leading run
// of spaces shorter than a unit.
func unindentCols(line []byte, unit string) int {
	if bytes.HasPrefix(line, []byte(unit)) {
		return utf8.RuneCountInString(unit)
	}
	if len(line) > 0 && line[0] == '\t' {
		return 1
	}
	n := 0
	for n < len(line) && n < len(unit) && line[n] == ' ' {
		n++
	}
	return n
}
