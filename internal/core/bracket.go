// internal/core/bracket.go
package core

import (
	"github.com/darealtrueblue/codeforge/internal/types"
)

var openToClose = map[rune]rune{'(': ')', '[': ']', '{': '}'}
var closeToOpen = map[rune]rune{')': '(', ']': '[', '}': '{'}

// MatchBracket locates the bracket adjacent to the primary caret and its
// counterpart, preferring the character before the caret. The scan counts
// nesting over the flat rune stream of the document. Returns both positions
// for the view to paint, or ok=false when the caret touches no bracket or
// the bracket is unbalanced.
func (e *Editor) MatchBracket() (at, match types.Position, ok bool) {
	pos := e.cursors.Primary().Active

	if pos.Col > 0 {
		p := types.Position{Line: pos.Line, Col: pos.Col - 1}
		if m, found := e.matchAt(p); found {
			return p, m, true
		}
	}
	if m, found := e.matchAt(pos); found {
		return pos, m, true
	}
	return types.Position{}, types.Position{}, false
}

func (e *Editor) matchAt(pos types.Position) (types.Position, bool) {
	line, err := e.buffer.Line(pos.Line)
	if err != nil {
		return types.Position{}, false
	}
	r, found := runeAtCol(line, pos.Col)
	if !found {
		return types.Position{}, false
	}

	var open, close rune
	dir := 0
	if c, isOpen := openToClose[r]; isOpen {
		open, close, dir = r, c, 1
	} else if o, isClose := closeToOpen[r]; isClose {
		open, close, dir = o, r, -1
	} else {
		return types.Position{}, false
	}

	startOffset, err := e.buffer.OffsetOf(pos)
	if err != nil {
		return types.Position{}, false
	}
	content := []rune(string(e.buffer.Bytes()))

	count := 0
	for i := startOffset; 0 <= i && i < len(content); i += dir {
		switch content[i] {
		case open:
			count++
		case close:
			count--
		}
		if count == 0 && i != startOffset {
			match, err := e.buffer.PositionOf(i)
			if err != nil {
				return types.Position{}, false
			}
			return match, true
		}
	}
	return types.Position{}, false
}

func runeAtCol(line []byte, col int) (rune, bool) {
	count := 0
	for _, r := range string(line) {
		if count == col {
			return r, true
		}
		count++
	}
	return 0, false
}
