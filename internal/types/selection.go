// internal/types/selection.go
package types

// Selection is an ordered pair of positions: Anchor is where the selection
// started, Active is the moving end (the caret). Anchor == Active denotes a
// caret with no selected text. Range operations use the normalized order;
// the raw pair preserves direction for shift/extend semantics.
type Selection struct {
	Anchor Position
	Active Position
}

// Caret returns a zero-width selection at pos.
func Caret(pos Position) Selection {
	return Selection{Anchor: pos, Active: pos}
}

// IsCaret reports whether the selection covers no text.
func (s Selection) IsCaret() bool {
	return s.Anchor == s.Active
}

// Normalized returns the selection's range with start <= end, regardless of
// the direction the user dragged.
func (s Selection) Normalized() (start, end Position) {
	if s.Anchor.After(s.Active) {
		return s.Active, s.Anchor
	}
	return s.Anchor, s.Active
}

// Overlaps reports whether the normalized ranges of s and other intersect or
// touch. Two carets at the same position overlap, as does a caret sitting on
// the boundary of another selection.
func (s Selection) Overlaps(other Selection) bool {
	aStart, aEnd := s.Normalized()
	bStart, bEnd := other.Normalized()
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

// Merge returns a selection spanning both s and other: earlier start as the
// anchor, later end as the active position.
func (s Selection) Merge(other Selection) Selection {
	aStart, aEnd := s.Normalized()
	bStart, bEnd := other.Normalized()
	start := aStart
	if bStart.Before(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.After(end) {
		end = bEnd
	}
	return Selection{Anchor: start, Active: end}
}
