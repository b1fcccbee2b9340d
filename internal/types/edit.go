// internal/types/edit.go
package types

// EditInfo describes a single buffer mutation: the text between Start and
// OldEnd was replaced by text ending at NewEnd. It serves two consumers: the
// highlight engine and minimap read it as a dirty line interval, and the
// cursor set uses the position triple to remap positions across the edit.
type EditInfo struct {
	Start    Position
	OldEnd   Position
	NewEnd   Position
	Revision uint64 // Buffer revision after the edit was applied
}

// StartLine returns the first dirty line.
func (e EditInfo) StartLine() int { return e.Start.Line }

// OldLineCount returns how many lines the replaced region spanned before the edit.
func (e EditInfo) OldLineCount() int { return e.OldEnd.Line - e.Start.Line + 1 }

// NewLineCount returns how many lines the replacement region spans.
func (e EditInfo) NewLineCount() int { return e.NewEnd.Line - e.Start.Line + 1 }

// LineDelta returns the net change in document line count.
func (e EditInfo) LineDelta() int { return e.NewEnd.Line - e.OldEnd.Line }

// Transform remaps a position captured before this edit to its equivalent
// afterwards. Positions at or before the edit start are unchanged; positions
// inside the replaced range collapse to NewEnd; positions past the replaced
// range shift by the edit's line/column delta.
func (e EditInfo) Transform(p Position) Position {
	if p.Before(e.Start) || p == e.Start {
		return p
	}
	if p.Before(e.OldEnd) {
		return e.NewEnd
	}
	if p.Line == e.OldEnd.Line {
		// Same line as the old end: the column shifts with the replacement.
		p.Col = e.NewEnd.Col + (p.Col - e.OldEnd.Col)
	}
	p.Line += e.NewEnd.Line - e.OldEnd.Line
	return p
}

// TransformSelection remaps both ends of a selection across the edit.
func (e EditInfo) TransformSelection(s Selection) Selection {
	return Selection{
		Anchor: e.Transform(s.Anchor),
		Active: e.Transform(s.Active),
	}
}
