// Package cursor maintains the ordered set of selections driving all edits.
// The set is always normalized: selections sorted by start position, overlaps
// merged, exactly one selection marked primary. Unlike the buffer, this layer
// clamps out-of-range positions instead of failing.
package cursor

import (
	"sort"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// Doc is the read-only view of the document the cursor set needs.
type Doc interface {
	LineCount() int
	Line(index int) ([]byte, error)
}

// Set holds one or more selections plus the index of the primary one. The
// zero value is not usable; call NewSet.
type Set struct {
	sels    []types.Selection
	goals   []int // preferred column for vertical movement, -1 when unset
	primary int
}

// NewSet creates a set with a single caret at the origin.
func NewSet() *Set {
	return &Set{
		sels:  []types.Selection{types.Caret(types.Position{})},
		goals: []int{-1},
	}
}

// Primary returns the primary selection.
func (s *Set) Primary() types.Selection {
	return s.sels[s.primary]
}

// PrimaryIndex returns the index of the primary selection in All().
func (s *Set) PrimaryIndex() int { return s.primary }

// All returns the selections in document order. The slice is a copy.
func (s *Set) All() []types.Selection {
	out := make([]types.Selection, len(s.sels))
	copy(out, s.sels)
	return out
}

// Count returns the number of selections.
func (s *Set) Count() int { return len(s.sels) }

// IsMulti reports whether more than one cursor is active.
func (s *Set) IsMulti() bool { return len(s.sels) > 1 }

// HasSelection reports whether any selection covers text.
func (s *Set) HasSelection() bool {
	for _, sel := range s.sels {
		if !sel.IsCaret() {
			return true
		}
	}
	return false
}

// ResetTo collapses the set to a single caret at pos, clamped to doc.
func (s *Set) ResetTo(doc Doc, pos types.Position) {
	s.sels = []types.Selection{types.Caret(clampPosition(doc, pos))}
	s.goals = []int{-1}
	s.primary = 0
}

// SetPrimary replaces the primary selection, clamped to doc, then
// renormalizes.
func (s *Set) SetPrimary(doc Doc, sel types.Selection) {
	s.sels[s.primary] = clampSelection(doc, sel)
	s.goals[s.primary] = -1
	s.Normalize()
}

// SetAll replaces all selections; the primary becomes the one at
// primaryIndex (clamped to a valid index). Positions are clamped to doc.
func (s *Set) SetAll(doc Doc, sels []types.Selection, primaryIndex int) {
	if len(sels) == 0 {
		return
	}
	s.sels = make([]types.Selection, len(sels))
	s.goals = make([]int, len(sels))
	for i, sel := range sels {
		s.sels[i] = clampSelection(doc, sel)
		s.goals[i] = -1
	}
	if primaryIndex < 0 {
		primaryIndex = 0
	}
	if primaryIndex >= len(sels) {
		primaryIndex = len(sels) - 1
	}
	s.primary = primaryIndex
	s.Normalize()
}

// Add inserts an additional selection, clamped to doc, and renormalizes.
// The primary does not change unless the new selection merges into it.
func (s *Set) Add(doc Doc, sel types.Selection) {
	s.sels = append(s.sels, clampSelection(doc, sel))
	s.goals = append(s.goals, -1)
	s.Normalize()
}

// CollapseAll reduces every selection to a caret at its active end.
func (s *Set) CollapseAll() {
	for i, sel := range s.sels {
		s.sels[i] = types.Caret(sel.Active)
	}
	s.Normalize()
}

// CollapseToPrimary drops all secondary cursors.
func (s *Set) CollapseToPrimary() {
	primary := s.sels[s.primary]
	goal := s.goals[s.primary]
	s.sels = []types.Selection{primary}
	s.goals = []int{goal}
	s.primary = 0
}

// Normalize sorts selections by start position and merges any that overlap
// or touch. The primary marker follows its selection; when the primary is
// merged away, the merged selection becomes primary.
func (s *Set) Normalize() {
	if len(s.sels) == 1 {
		return
	}

	type entry struct {
		sel     types.Selection
		goal    int
		primary bool
	}
	entries := make([]entry, len(s.sels))
	for i, sel := range s.sels {
		entries[i] = entry{sel: sel, goal: s.goals[i], primary: i == s.primary}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		iStart, iEnd := entries[i].sel.Normalized()
		jStart, jEnd := entries[j].sel.Normalized()
		if iStart != jStart {
			return iStart.Before(jStart)
		}
		// Same start: larger range first so merging absorbs the smaller.
		return jEnd.Before(iEnd)
	})

	merged := entries[:1]
	for _, e := range entries[1:] {
		last := &merged[len(merged)-1]
		if e.sel.Overlaps(last.sel) {
			last.sel = last.sel.Merge(e.sel)
			last.primary = last.primary || e.primary
			if e.goal >= 0 && last.goal < 0 {
				last.goal = e.goal
			}
		} else {
			merged = append(merged, e)
		}
	}

	s.sels = s.sels[:0]
	s.goals = s.goals[:0]
	s.primary = 0
	for i, e := range merged {
		s.sels = append(s.sels, e.sel)
		s.goals = append(s.goals, e.goal)
		if e.primary {
			s.primary = i
		}
	}
}

// ApplyEdit remaps every selection across a buffer mutation and renormalizes.
// Cursors strictly inside the replaced range collapse onto its new end.
func (s *Set) ApplyEdit(edit types.EditInfo) {
	for i, sel := range s.sels {
		s.sels[i] = edit.TransformSelection(sel)
		s.goals[i] = -1
	}
	s.Normalize()
}

// AddAbove spawns a caret on the line above the topmost cursor, keeping the
// preferred column where the line is long enough. At the first line it is a
// no-op.
func (s *Set) AddAbove(doc Doc) {
	top := s.sels[0].Active
	for _, sel := range s.sels {
		if sel.Active.Before(top) {
			top = sel.Active
		}
	}
	if top.Line == 0 {
		return
	}
	goal := s.goals[s.primary]
	if goal < 0 {
		goal = top.Col
	}
	pos := types.Position{Line: top.Line - 1, Col: goal}
	s.addClampedCaret(doc, pos, goal)
}

// AddBelow spawns a caret on the line below the bottommost cursor. At the
// last line it is a no-op.
func (s *Set) AddBelow(doc Doc) {
	bottom := s.sels[0].Active
	for _, sel := range s.sels {
		if bottom.Before(sel.Active) {
			bottom = sel.Active
		}
	}
	if bottom.Line >= doc.LineCount()-1 {
		return
	}
	goal := s.goals[s.primary]
	if goal < 0 {
		goal = bottom.Col
	}
	pos := types.Position{Line: bottom.Line + 1, Col: goal}
	s.addClampedCaret(doc, pos, goal)
}

func (s *Set) addClampedCaret(doc Doc, pos types.Position, goal int) {
	s.sels = append(s.sels, types.Caret(clampPosition(doc, pos)))
	s.goals = append(s.goals, goal)
	s.Normalize()
}

// Clamp re-clamps every selection to the document, for callers that mutated
// the buffer outside the edit pipeline (e.g. a full reload).
func (s *Set) Clamp(doc Doc) {
	for i, sel := range s.sels {
		s.sels[i] = clampSelection(doc, sel)
	}
	s.Normalize()
}

// --- clamping helpers ---

func lineRuneLen(doc Doc, line int) int {
	b, err := doc.Line(line)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(b)
}

func clampPosition(doc Doc, pos types.Position) types.Position {
	if pos.Line < 0 {
		pos.Line = 0
	}
	if max := doc.LineCount() - 1; pos.Line > max {
		pos.Line = max
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if maxCol := lineRuneLen(doc, pos.Line); pos.Col > maxCol {
		pos.Col = maxCol
	}
	return pos
}

func clampSelection(doc Doc, sel types.Selection) types.Selection {
	return types.Selection{
		Anchor: clampPosition(doc, sel.Anchor),
		Active: clampPosition(doc, sel.Active),
	}
}
