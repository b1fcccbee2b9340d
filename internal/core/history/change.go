// Package history provides undo/redo via a stack of grouped, reversible
// operations. One unit holds every operation a single user action produced,
// so a multi-cursor edit undoes in one step.
package history

import "github.com/darealtrueblue/codeforge/internal/types"

// ActionType indicates whether text was inserted or deleted.
type ActionType int

const (
	InsertAction ActionType = iota
	DeleteAction
)

// Op represents a single, reversible text operation.
type Op struct {
	Type  ActionType
	Text  []byte         // Text inserted or text deleted
	Start types.Position // Where the change began
	End   types.Position // Position after inserted text, or end of deleted range
}

// Inverse returns the operation that cancels this one.
func (op Op) Inverse() Op {
	inv := op
	if op.Type == InsertAction {
		inv.Type = DeleteAction
	} else {
		inv.Type = InsertAction
	}
	return inv
}

// SelSnapshot captures the cursor set around a unit so undo/redo can restore
// the selections along with the text.
type SelSnapshot struct {
	Sels    []types.Selection
	Primary int
}

// Unit groups the operations of one user action. Ops are stored in the order
// they were applied; undo replays their inverses in reverse.
type Unit struct {
	Ops    []Op
	Before SelSnapshot
	After  SelSnapshot
}
