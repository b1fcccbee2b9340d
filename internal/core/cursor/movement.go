// internal/core/cursor/movement.go
package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// move applies fn to the active end of every selection. With extend false
// the anchors collapse onto the moved carets; with extend true the anchors
// stay put.
func (s *Set) move(extend bool, fn func(i int, active types.Position) types.Position) {
	for i, sel := range s.sels {
		active := fn(i, sel.Active)
		if extend {
			s.sels[i] = types.Selection{Anchor: sel.Anchor, Active: active}
		} else {
			s.sels[i] = types.Caret(active)
		}
	}
	s.Normalize()
}

// MoveHorizontal shifts every caret by delta columns, wrapping across line
// boundaries. A plain (non-extending) horizontal move with an active
// selection collapses to the selection's edge instead, matching the common
// editor convention.
func (s *Set) MoveHorizontal(doc Doc, delta int, extend bool) {
	if !extend && s.HasSelection() {
		for i, sel := range s.sels {
			start, end := sel.Normalized()
			if sel.IsCaret() {
				continue
			}
			if delta < 0 {
				s.sels[i] = types.Caret(start)
			} else {
				s.sels[i] = types.Caret(end)
			}
		}
		s.clearGoals()
		s.Normalize()
		return
	}

	s.move(extend, func(i int, p types.Position) types.Position {
		p.Col += delta
		for p.Col < 0 {
			if p.Line == 0 {
				p.Col = 0
				break
			}
			p.Line--
			p.Col += lineRuneLen(doc, p.Line) + 1
		}
		for p.Col > lineRuneLen(doc, p.Line) {
			if p.Line >= doc.LineCount()-1 {
				p.Col = lineRuneLen(doc, p.Line)
				break
			}
			p.Col -= lineRuneLen(doc, p.Line) + 1
			p.Line++
		}
		return p
	})
	s.clearGoals()
}

// MoveVertical shifts every caret by delta lines, holding the preferred
// column across short lines.
func (s *Set) MoveVertical(doc Doc, delta int, extend bool) {
	s.move(extend, func(i int, p types.Position) types.Position {
		goal := s.goals[i]
		if goal < 0 {
			goal = p.Col
			s.goals[i] = goal
		}
		p.Line += delta
		if p.Line < 0 {
			p.Line = 0
		}
		if max := doc.LineCount() - 1; p.Line > max {
			p.Line = max
		}
		p.Col = goal
		if maxCol := lineRuneLen(doc, p.Line); p.Col > maxCol {
			p.Col = maxCol
		}
		return p
	})
}

// MoveLineStart moves each caret to the first non-whitespace rune of its
// line, or to column zero when already there.
func (s *Set) MoveLineStart(doc Doc, extend bool) {
	s.move(extend, func(i int, p types.Position) types.Position {
		line, err := doc.Line(p.Line)
		if err != nil {
			p.Col = 0
			return p
		}
		firstNonWS := 0
		for off := 0; off < len(line); {
			r, size := utf8.DecodeRune(line[off:])
			if r != ' ' && r != '\t' {
				break
			}
			firstNonWS++
			off += size
		}
		if p.Col == firstNonWS {
			p.Col = 0
		} else {
			p.Col = firstNonWS
		}
		return p
	})
	s.clearGoals()
}

// MoveLineEnd moves each caret past the last rune of its line.
func (s *Set) MoveLineEnd(doc Doc, extend bool) {
	s.move(extend, func(i int, p types.Position) types.Position {
		p.Col = lineRuneLen(doc, p.Line)
		return p
	})
	s.clearGoals()
}

// MoveDocStart collapses movement to the start of the document.
func (s *Set) MoveDocStart(extend bool) {
	s.move(extend, func(i int, p types.Position) types.Position {
		return types.Position{}
	})
	s.clearGoals()
}

// MoveDocEnd collapses movement to the end of the document.
func (s *Set) MoveDocEnd(doc Doc, extend bool) {
	s.move(extend, func(i int, p types.Position) types.Position {
		line := doc.LineCount() - 1
		return types.Position{Line: line, Col: lineRuneLen(doc, line)}
	})
	s.clearGoals()
}

// MoveWord moves each caret to the next (dir > 0) or previous (dir < 0)
// word boundary, crossing line breaks.
func (s *Set) MoveWord(doc Doc, dir int, extend bool) {
	s.move(extend, func(i int, p types.Position) types.Position {
		if dir > 0 {
			return nextWordBoundary(doc, p)
		}
		return prevWordBoundary(doc, p)
	})
	s.clearGoals()
}

func (s *Set) clearGoals() {
	for i := range s.goals {
		s.goals[i] = -1
	}
}

func runeAt(line []byte, col int) (rune, bool) {
	off := 0
	for count := 0; off < len(line); count++ {
		r, size := utf8.DecodeRune(line[off:])
		if count == col {
			return r, true
		}
		off += size
	}
	return 0, false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func nextWordBoundary(doc Doc, p types.Position) types.Position {
	line, err := doc.Line(p.Line)
	if err != nil {
		return p
	}
	lineLen := utf8.RuneCount(line)
	if p.Col >= lineLen {
		if p.Line < doc.LineCount()-1 {
			return types.Position{Line: p.Line + 1, Col: 0}
		}
		return p
	}
	col := p.Col
	// Skip the current run of word or non-word runes, then trailing spaces.
	r, _ := runeAt(line, col)
	inWord := isWordRune(r)
	for col < lineLen {
		r, _ := runeAt(line, col)
		if isWordRune(r) != inWord || unicode.IsSpace(r) {
			break
		}
		col++
	}
	for col < lineLen {
		r, _ := runeAt(line, col)
		if !unicode.IsSpace(r) {
			break
		}
		col++
	}
	return types.Position{Line: p.Line, Col: col}
}

func prevWordBoundary(doc Doc, p types.Position) types.Position {
	if p.Col == 0 {
		if p.Line > 0 {
			return types.Position{Line: p.Line - 1, Col: lineRuneLen(doc, p.Line-1)}
		}
		return p
	}
	line, err := doc.Line(p.Line)
	if err != nil {
		return p
	}
	col := p.Col
	for col > 0 {
		r, _ := runeAt(line, col-1)
		if !unicode.IsSpace(r) {
			break
		}
		col--
	}
	if col == 0 {
		return types.Position{Line: p.Line, Col: 0}
	}
	r, _ := runeAt(line, col-1)
	inWord := isWordRune(r)
	for col > 0 {
		r, _ := runeAt(line, col-1)
		if isWordRune(r) != inWord {
			break
		}
		col--
	}
	return types.Position{Line: p.Line, Col: col}
}
