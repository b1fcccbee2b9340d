// internal/core/pipeline.go
package core

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/core/history"
	"github.com/darealtrueblue/codeforge/internal/core/smartedit"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// planFunc produces the plan for one selection. Returning ok=false leaves
// that selection untouched.
type planFunc func(sel types.Selection) (smartedit.Plan, bool)

// applyPlans is the single mutation pipeline: it runs one planner per
// selection from the bottom of the document up, applies each plan's edits,
// records everything as one undo unit, and republishes cursors. Working
// bottom-up keeps the positions of not-yet-edited selections valid; carets
// already placed below are remapped across each later edit.
func (e *Editor) applyPlans(fn planFunc) error {
	if e.readOnly {
		return ErrReadOnly
	}

	before := e.snapshotSelections()
	sels := e.cursors.All()
	primary := e.cursors.PrimaryIndex()

	var ops []history.Op
	var edits []types.EditInfo
	newSels := make([]types.Selection, len(sels))
	planned := false

	for i := len(sels) - 1; i >= 0; i-- {
		plan, ok := fn(sels[i])
		if !ok {
			newSels[i] = sels[i]
			continue
		}
		planned = true
		// Within one plan, edits are listed in document order; apply them
		// last-to-first so earlier positions stay valid.
		for j := len(plan.Edits) - 1; j >= 0; j-- {
			pe := plan.Edits[j]
			if pe.Start != pe.End {
				removed, edit, err := e.buffer.Delete(pe.Start, pe.End)
				if err != nil {
					e.finishBatch(ops, edits, before, sels, newSels, primary, i)
					return fmt.Errorf("edit pipeline: delete failed: %w", err)
				}
				ops = append(ops, history.Op{Type: history.DeleteAction, Text: removed, Start: pe.Start, End: pe.End})
				edits = append(edits, edit)
				remapBelow(newSels, i, edit)
			}
			if len(pe.Text) > 0 {
				end, edit, err := e.buffer.Insert(pe.Start, pe.Text)
				if err != nil {
					e.finishBatch(ops, edits, before, sels, newSels, primary, i)
					return fmt.Errorf("edit pipeline: insert failed: %w", err)
				}
				text := append([]byte(nil), pe.Text...)
				ops = append(ops, history.Op{Type: history.InsertAction, Text: text, Start: pe.Start, End: end})
				edits = append(edits, edit)
				remapBelow(newSels, i, edit)
			}
		}
		newSels[i] = plan.Caret
	}

	if len(ops) == 0 {
		if !planned {
			return nil
		}
		// Caret-only plans (e.g. typing over an auto-closed bracket) move
		// cursors without touching the buffer.
		e.cursors.SetAll(e.buffer, newSels, primary)
		e.history.BreakCoalescing()
		e.ScrollToCursor()
		e.notifyCursors()
		return nil
	}

	e.cursors.SetAll(e.buffer, newSels, primary)
	after := e.snapshotSelections()
	e.history.Record(history.Unit{Ops: ops, Before: before, After: after}, e.buffer.Revision())
	e.ScrollToCursor()
	for _, edit := range edits {
		e.notifyEdit(edit)
	}
	e.notifyCursors()
	e.notifyHistory()
	return nil
}

// remapBelow shifts the carets already placed for selections below index i
// across an edit made at or above them.
func remapBelow(newSels []types.Selection, i int, edit types.EditInfo) {
	for k := i + 1; k < len(newSels); k++ {
		newSels[k] = edit.TransformSelection(newSels[k])
	}
}

// finishBatch commits whatever part of a failed batch was already applied so
// undo can still revert it, then republishes state. The untouched selections
// keep their old positions, clamped by SetAll.
func (e *Editor) finishBatch(ops []history.Op, edits []types.EditInfo, before history.SelSnapshot, sels, newSels []types.Selection, primary, failed int) {
	if len(ops) == 0 {
		return
	}
	for k := 0; k <= failed; k++ {
		newSels[k] = sels[k]
	}
	e.cursors.SetAll(e.buffer, newSels, primary)
	after := e.snapshotSelections()
	e.history.Record(history.Unit{Ops: ops, Before: before, After: after}, e.buffer.Revision())
	for _, edit := range edits {
		e.notifyEdit(edit)
	}
	e.notifyCursors()
	e.notifyHistory()
}

// replacePlan is the plain-typing plan: the selection is replaced by text
// and the caret lands after it.
func replacePlan(sel types.Selection, text string) smartedit.Plan {
	start, end := sel.Normalized()
	return smartedit.Plan{
		Edits: []smartedit.Edit{{Start: start, End: end, Text: []byte(text)}},
		Caret: types.Caret(advancePosition(start, text)),
	}
}

// advancePosition computes where a caret lands after inserting text at pos.
func advancePosition(pos types.Position, text string) types.Position {
	lines := bytes.Count([]byte(text), []byte("\n"))
	if lines == 0 {
		pos.Col += utf8.RuneCountInString(text)
		return pos
	}
	lastBreak := bytes.LastIndexByte([]byte(text), '\n')
	return types.Position{
		Line: pos.Line + lines,
		Col:  utf8.RuneCountInString(text[lastBreak+1:]),
	}
}
