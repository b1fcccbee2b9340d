package history

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

const DefaultMaxHistory = 1000

// ErrStale is returned when the buffer was mutated outside the history
// pipeline; the stacks no longer describe reachable states and are cleared.
var ErrStale = errors.New("history: buffer changed outside history, stack discarded")

// Manager handles the undo/redo stack. It does not mutate the buffer on
// Record; the editor applies operations first and records what it did.
// Undo/Redo apply the stored inverse/original operations themselves.
type Manager struct {
	units        []Unit
	currentIndex int // Index of the *next* unit to potentially Redo
	maxHistory   int
	lastRevision uint64 // Buffer revision after the last history-tracked mutation
	breakNext    bool   // Set by BreakCoalescing; next Record starts a fresh unit
	mutex        sync.Mutex
}

// NewManager creates a history manager.
func NewManager(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		units:      make([]Unit, 0, 64),
		maxHistory: maxHistory,
	}
}

// Record adds a completed unit, clearing any redo history. revAfter is the
// buffer revision once all of the unit's operations were applied. Adjacent
// typing units coalesce when they form an uninterrupted single-cursor burst.
func (m *Manager) Record(unit Unit, revAfter uint64) {
	if len(unit.Ops) == 0 {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Truncate the redo history
	if m.currentIndex < len(m.units) {
		m.units = m.units[:m.currentIndex]
	}

	if !m.breakNext && m.currentIndex > 0 && canCoalesce(&m.units[m.currentIndex-1], &unit) {
		prev := &m.units[m.currentIndex-1]
		prev.Ops[0].Text = append(prev.Ops[0].Text, unit.Ops[0].Text...)
		prev.Ops[0].End = unit.Ops[0].End
		prev.After = unit.After
		m.lastRevision = revAfter
		logger.DebugTagf("history", "Coalesced typing into unit %d (%q)", m.currentIndex-1, prev.Ops[0].Text)
		return
	}
	m.breakNext = false

	m.units = append(m.units, unit)
	if len(m.units) > m.maxHistory {
		m.units = m.units[len(m.units)-m.maxHistory:]
	}
	m.currentIndex = len(m.units)
	m.lastRevision = revAfter
	logger.DebugTagf("history", "Recorded unit with %d op(s). Index: %d", len(unit.Ops), m.currentIndex)
}

// BreakCoalescing ends the current typing burst. Called on cursor movement
// and any non-editing action so the next keystroke starts a new undo unit.
func (m *Manager) BreakCoalescing() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.breakNext = true
}

// canCoalesce reports whether next continues the typing burst of prev:
// both single-cursor single-op inserts, next starting exactly where prev
// ended, and next inserting no whitespace.
func canCoalesce(prev, next *Unit) bool {
	if len(prev.Ops) != 1 || len(next.Ops) != 1 {
		return false
	}
	p, n := prev.Ops[0], next.Ops[0]
	if p.Type != InsertAction || n.Type != InsertAction {
		return false
	}
	if len(prev.After.Sels) != 1 || len(next.Before.Sels) != 1 {
		return false
	}
	if n.Start != p.End {
		return false
	}
	for _, r := range string(n.Text) {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return utf8.Valid(n.Text)
}

// Undo reverts the most recent unit, applying its operations' inverses in
// reverse order. It returns the edits performed and the selection snapshot
// from before the unit.
func (m *Manager) Undo(buf buffer.Buffer) ([]types.EditInfo, SelSnapshot, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex <= 0 {
		return nil, SelSnapshot{}, nil
	}
	if buf.Revision() != m.lastRevision {
		m.discardLocked()
		return nil, SelSnapshot{}, ErrStale
	}

	unit := m.units[m.currentIndex-1]
	edits := make([]types.EditInfo, 0, len(unit.Ops))
	for i := len(unit.Ops) - 1; i >= 0; i-- {
		edit, err := applyOp(buf, unit.Ops[i].Inverse())
		if err != nil {
			// A failed half-applied undo leaves unknown state; drop the stack.
			m.discardLocked()
			return edits, SelSnapshot{}, fmt.Errorf("undo failed: %w", err)
		}
		edits = append(edits, edit)
	}
	m.currentIndex--
	m.lastRevision = buf.Revision()
	m.breakNext = true
	logger.DebugTagf("history", "Undid unit %d (%d op(s))", m.currentIndex, len(unit.Ops))
	return edits, unit.Before, nil
}

// Redo reapplies the most recently undone unit in original order. It returns
// the edits performed and the selection snapshot from after the unit.
func (m *Manager) Redo(buf buffer.Buffer) ([]types.EditInfo, SelSnapshot, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex >= len(m.units) {
		return nil, SelSnapshot{}, nil
	}
	if buf.Revision() != m.lastRevision {
		m.discardLocked()
		return nil, SelSnapshot{}, ErrStale
	}

	unit := m.units[m.currentIndex]
	edits := make([]types.EditInfo, 0, len(unit.Ops))
	for _, op := range unit.Ops {
		edit, err := applyOp(buf, op)
		if err != nil {
			m.discardLocked()
			return edits, SelSnapshot{}, fmt.Errorf("redo failed: %w", err)
		}
		edits = append(edits, edit)
	}
	m.currentIndex++
	m.lastRevision = buf.Revision()
	m.breakNext = true
	logger.DebugTagf("history", "Redid unit %d (%d op(s))", m.currentIndex-1, len(unit.Ops))
	return edits, unit.After, nil
}

// applyOp performs one operation against the buffer.
func applyOp(buf buffer.Buffer, op Op) (types.EditInfo, error) {
	switch op.Type {
	case InsertAction:
		_, edit, err := buf.Insert(op.Start, op.Text)
		return edit, err
	case DeleteAction:
		removed, edit, err := buf.Delete(op.Start, op.End)
		if err == nil && !bytes.Equal(removed, op.Text) {
			logger.Warnf("History: removed text %q differs from recorded %q", removed, op.Text)
		}
		return edit, err
	}
	return types.EditInfo{}, fmt.Errorf("unknown action type %d", op.Type)
}

// SyncRevision records the buffer revision after a history-tracked mutation
// that bypassed Record (e.g. the edit half of a unit still being built).
func (m *Manager) SyncRevision(rev uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.lastRevision = rev
}

func (m *Manager) discardLocked() {
	m.units = m.units[:0]
	m.currentIndex = 0
	logger.DebugTagf("history", "History discarded")
}

// Clear resets the history stack. Call this on file load.
func (m *Manager) Clear(rev uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.units = m.units[:0]
	m.currentIndex = 0
	m.lastRevision = rev
	m.breakNext = false
}

// CanUndo returns true if there are units that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex > 0
}

// CanRedo returns true if there are units that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex < len(m.units)
}
