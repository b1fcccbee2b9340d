// internal/core/undo.go
package core

import (
	"errors"

	"github.com/darealtrueblue/codeforge/internal/core/history"
	"github.com/darealtrueblue/codeforge/internal/logger"
)

// Undo reverts the most recent undo unit and restores the cursor set it
// captured. A stale history (the buffer changed outside the pipeline) is
// discarded and logged, never applied.
func (e *Editor) Undo() error {
	if e.readOnly {
		return ErrReadOnly
	}
	edits, snap, err := e.history.Undo(e.buffer)
	for _, edit := range edits {
		e.notifyEdit(edit)
	}
	if err != nil {
		e.notifyHistory()
		if errors.Is(err, history.ErrStale) {
			logger.Warnf("Editor: %v", err)
			return nil
		}
		return err
	}
	if len(edits) == 0 {
		return nil
	}
	e.restoreSnapshot(snap)
	return nil
}

// Redo reapplies the most recently undone unit.
func (e *Editor) Redo() error {
	if e.readOnly {
		return ErrReadOnly
	}
	edits, snap, err := e.history.Redo(e.buffer)
	for _, edit := range edits {
		e.notifyEdit(edit)
	}
	if err != nil {
		e.notifyHistory()
		if errors.Is(err, history.ErrStale) {
			logger.Warnf("Editor: %v", err)
			return nil
		}
		return err
	}
	if len(edits) == 0 {
		return nil
	}
	e.restoreSnapshot(snap)
	return nil
}

func (e *Editor) restoreSnapshot(snap history.SelSnapshot) {
	if len(snap.Sels) > 0 {
		e.cursors.SetAll(e.buffer, snap.Sels, snap.Primary)
	} else {
		e.cursors.Clamp(e.buffer)
	}
	e.ScrollToCursor()
	e.notifyCursors()
	e.notifyHistory()
}
