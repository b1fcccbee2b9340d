// Package smartedit plans language-aware editing behaviors: auto-indent on
// newline, bracket/quote pairing, smart backspace, comment toggling, and
// line duplication/moves. Planners only read the document and return the
// edits to perform; the editor applies them through its normal pipeline so
// history and highlighting see ordinary inserts and deletes.
package smartedit

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// Doc is the read-only view planners work against.
type Doc interface {
	LineCount() int
	Line(index int) ([]byte, error)
}

// Edit replaces the range [Start, End) with Text. A caret insert has
// Start == End; a pure deletion has empty Text.
type Edit struct {
	Start types.Position
	End   types.Position
	Text  []byte
}

// Plan is the outcome of one planner for one selection. Edits are listed in
// document order and must be applied last-to-first so earlier positions stay
// valid. Caret is the selection after all edits, in post-edit coordinates.
type Plan struct {
	Edits []Edit
	Caret types.Selection
}

// Options carries the config knobs planners honor.
type Options struct {
	IndentUnit        string // inserted per indent level, e.g. four spaces
	AutoIndent        bool
	AutoCloseBrackets bool
}

var bracketPairs = map[rune]rune{'(': ')', '[': ']', '{': '}'}
var closingBrackets = map[rune]rune{')': '(', ']': '[', '}': '{'}
var quoteRunes = map[rune]bool{'"': true, '\'': true, '`': true}

// openersThatIndent are the line endings that push the next line one level
// deeper.
var openersThatIndent = []string{":", "{", "[", "("}

// Newline plans an Enter keystroke: replace the selection with a line break
// plus the current line's leading whitespace, one level deeper when the line
// ends with a colon or an open bracket.
func Newline(doc Doc, sel types.Selection, opts Options) Plan {
	start, end := sel.Normalized()
	indent := ""
	if opts.AutoIndent {
		if line, err := doc.Line(start.Line); err == nil {
			indent = leadingWhitespace(line)
			stripped := strings.TrimRight(string(line[:byteOffset(line, start.Col)]), " \t")
			for _, opener := range openersThatIndent {
				if strings.HasSuffix(stripped, opener) {
					indent += opts.IndentUnit
					break
				}
			}
		}
	}
	text := "\n" + indent
	caret := types.Caret(types.Position{Line: start.Line + 1, Col: utf8.RuneCountInString(indent)})
	return Plan{
		Edits: []Edit{{Start: start, End: end, Text: []byte(text)}},
		Caret: caret,
	}
}

// InsertRune plans typing a single rune, applying pairing behavior:
//   - an opening bracket or quote around a selection wraps it
//   - an opening bracket or quote at a caret inserts the pair and parks the
//     caret between
//   - a closing bracket or quote typed right before an identical character
//     skips over it instead of inserting
//
// It returns ok=false when the rune needs no special handling and the caller
// should insert it normally.
func InsertRune(doc Doc, sel types.Selection, r rune, opts Options) (Plan, bool) {
	if !opts.AutoCloseBrackets {
		return Plan{}, false
	}

	closer, isOpener := bracketPairs[r]
	isQuote := quoteRunes[r]
	if isQuote {
		closer = r
	}

	start, end := sel.Normalized()

	if (isOpener || isQuote) && !sel.IsCaret() {
		selected := rangeText(doc, start, end)
		text := string(r) + selected + string(closer)
		// Keep the wrapped text selected, now shifted one rune right.
		caretStart := types.Position{Line: start.Line, Col: start.Col + 1}
		caretEnd := end
		if end.Line == start.Line {
			caretEnd.Col++
		}
		return Plan{
			Edits: []Edit{{Start: start, End: end, Text: []byte(text)}},
			Caret: types.Selection{Anchor: caretStart, Active: caretEnd},
		}, true
	}

	if sel.IsCaret() {
		next, hasNext := runeAfter(doc, start)
		if (quoteRunes[r] || closingBrackets[r] != 0) && hasNext && next == r {
			// Skip over the already-present closer.
			return Plan{
				Caret: types.Caret(types.Position{Line: start.Line, Col: start.Col + 1}),
			}, true
		}
		if isOpener || isQuote {
			return Plan{
				Edits: []Edit{{Start: start, End: start, Text: []byte(string(r) + string(closer))}},
				Caret: types.Caret(types.Position{Line: start.Line, Col: start.Col + 1}),
			}, true
		}
	}

	return Plan{}, false
}

// Backspace plans a Backspace keystroke. A selection deletes the selection;
// a caret sitting between a matching pair deletes both characters; a caret
// at column zero joins with the previous line; otherwise the previous rune
// goes.
func Backspace(doc Doc, sel types.Selection, opts Options) (Plan, bool) {
	start, end := sel.Normalized()
	if !sel.IsCaret() {
		return Plan{
			Edits: []Edit{{Start: start, End: end}},
			Caret: types.Caret(start),
		}, true
	}

	pos := start
	if pos.Col == 0 {
		if pos.Line == 0 {
			return Plan{}, false
		}
		prevLen := lineLen(doc, pos.Line-1)
		return Plan{
			Edits: []Edit{{Start: types.Position{Line: pos.Line - 1, Col: prevLen}, End: pos}},
			Caret: types.Caret(types.Position{Line: pos.Line - 1, Col: prevLen}),
		}, true
	}

	prev, _ := runeBefore(doc, pos)
	next, hasNext := runeAfter(doc, pos)
	pairDelete := false
	if opts.AutoCloseBrackets && hasNext {
		if c, ok := bracketPairs[prev]; ok && next == c {
			pairDelete = true
		}
		if quoteRunes[prev] && next == prev {
			pairDelete = true
		}
	}

	delStart := types.Position{Line: pos.Line, Col: pos.Col - 1}
	delEnd := pos
	if pairDelete {
		delEnd = types.Position{Line: pos.Line, Col: pos.Col + 1}
	}
	return Plan{
		Edits: []Edit{{Start: delStart, End: delEnd}},
		Caret: types.Caret(delStart),
	}, true
}

// ToggleComment plans commenting for every line the selection touches. When
// all non-blank lines already carry the prefix they are uncommented;
// otherwise every non-blank line gains the prefix at its indentation. An
// empty prefix (unknown language) plans nothing.
func ToggleComment(doc Doc, sel types.Selection, prefix string) (Plan, bool) {
	if prefix == "" {
		return Plan{}, false
	}
	start, end := sel.Normalized()
	firstLine, lastLine := start.Line, end.Line
	// A selection ending at column zero doesn't include that line.
	if lastLine > firstLine && end.Col == 0 {
		lastLine--
	}

	allCommented := true
	anyContent := false
	for i := firstLine; i <= lastLine; i++ {
		line, err := doc.Line(i)
		if err != nil {
			continue
		}
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 {
			continue
		}
		anyContent = true
		if !bytes.HasPrefix(trimmed, []byte(prefix)) {
			allCommented = false
			break
		}
	}
	if !anyContent {
		return Plan{}, false
	}

	var edits []Edit
	for i := firstLine; i <= lastLine; i++ {
		line, err := doc.Line(i)
		if err != nil {
			continue
		}
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 {
			continue
		}
		indentCols := utf8.RuneCount(line) - utf8.RuneCount(trimmed)
		if allCommented {
			// Remove the prefix and one following space if present.
			removed := len(prefix)
			rest := trimmed[len(prefix):]
			if len(rest) > 0 && rest[0] == ' ' {
				removed++
			}
			edits = append(edits, Edit{
				Start: types.Position{Line: i, Col: indentCols},
				End:   types.Position{Line: i, Col: indentCols + removed},
			})
		} else {
			edits = append(edits, Edit{
				Start: types.Position{Line: i, Col: indentCols},
				End:   types.Position{Line: i, Col: indentCols},
				Text:  []byte(prefix + " "),
			})
		}
	}
	if len(edits) == 0 {
		return Plan{}, false
	}

	// Keep the same lines selected; columns shift with the first/last line's
	// edit but clamping downstream keeps this safe.
	return Plan{Edits: edits, Caret: sel}, true
}

// DuplicateLines plans duplicating the selection's lines below themselves.
// The caret moves onto the copy.
func DuplicateLines(doc Doc, sel types.Selection) Plan {
	start, end := sel.Normalized()
	firstLine, lastLine := start.Line, end.Line
	if lastLine > firstLine && end.Col == 0 {
		lastLine--
	}

	var block bytes.Buffer
	for i := firstLine; i <= lastLine; i++ {
		line, err := doc.Line(i)
		if err != nil {
			break
		}
		block.WriteByte('\n')
		block.Write(line)
	}
	insertAt := types.Position{Line: lastLine, Col: lineLen(doc, lastLine)}
	span := lastLine - firstLine + 1

	caret := types.Selection{
		Anchor: types.Position{Line: sel.Anchor.Line + span, Col: sel.Anchor.Col},
		Active: types.Position{Line: sel.Active.Line + span, Col: sel.Active.Col},
	}
	return Plan{
		Edits: []Edit{{Start: insertAt, End: insertAt, Text: block.Bytes()}},
		Caret: caret,
	}
}

// MoveLines plans shifting the selection's lines one line up (dir < 0) or
// down (dir > 0) by swapping with the neighbor. At the document edge it
// plans nothing.
func MoveLines(doc Doc, sel types.Selection, dir int) (Plan, bool) {
	start, end := sel.Normalized()
	firstLine, lastLine := start.Line, end.Line
	if lastLine > firstLine && end.Col == 0 {
		lastLine--
	}

	if dir < 0 {
		if firstLine == 0 {
			return Plan{}, false
		}
		neighbor, err := doc.Line(firstLine - 1)
		if err != nil {
			return Plan{}, false
		}
		var text bytes.Buffer
		for i := firstLine; i <= lastLine; i++ {
			line, _ := doc.Line(i)
			text.Write(line)
			text.WriteByte('\n')
		}
		text.Write(neighbor)
		return Plan{
			Edits: []Edit{{
				Start: types.Position{Line: firstLine - 1, Col: 0},
				End:   types.Position{Line: lastLine, Col: lineLen(doc, lastLine)},
				Text:  text.Bytes(),
			}},
			Caret: shiftLines(sel, -1),
		}, true
	}

	if lastLine >= doc.LineCount()-1 {
		return Plan{}, false
	}
	neighbor, err := doc.Line(lastLine + 1)
	if err != nil {
		return Plan{}, false
	}
	var text bytes.Buffer
	text.Write(neighbor)
	for i := firstLine; i <= lastLine; i++ {
		line, _ := doc.Line(i)
		text.WriteByte('\n')
		text.Write(line)
	}
	return Plan{
		Edits: []Edit{{
			Start: types.Position{Line: firstLine, Col: 0},
			End:   types.Position{Line: lastLine + 1, Col: lineLen(doc, lastLine+1)},
			Text:  text.Bytes(),
		}},
		Caret: shiftLines(sel, 1),
	}, true
}

// CommentPrefix returns the line-comment leader for a language name, or ""
// when the language has no line comments.
func CommentPrefix(language string) string {
	switch language {
	case "python":
		return "#"
	case "go", "javascript", "c":
		return "//"
	default:
		return ""
	}
}

// --- helpers ---

func shiftLines(sel types.Selection, delta int) types.Selection {
	sel.Anchor.Line += delta
	sel.Active.Line += delta
	return sel
}

func leadingWhitespace(line []byte) string {
	for i, b := range line {
		if b != ' ' && b != '\t' {
			return string(line[:i])
		}
	}
	return string(line)
}

func lineLen(doc Doc, line int) int {
	b, err := doc.Line(line)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(b)
}

func byteOffset(line []byte, col int) int {
	off := 0
	for count := 0; off < len(line) && count < col; count++ {
		_, size := utf8.DecodeRune(line[off:])
		off += size
	}
	return off
}

func runeBefore(doc Doc, pos types.Position) (rune, bool) {
	if pos.Col == 0 {
		return 0, false
	}
	line, err := doc.Line(pos.Line)
	if err != nil {
		return 0, false
	}
	off := byteOffset(line, pos.Col-1)
	r, _ := utf8.DecodeRune(line[off:])
	return r, r != utf8.RuneError
}

func runeAfter(doc Doc, pos types.Position) (rune, bool) {
	line, err := doc.Line(pos.Line)
	if err != nil {
		return 0, false
	}
	off := byteOffset(line, pos.Col)
	if off >= len(line) {
		return 0, false
	}
	r, _ := utf8.DecodeRune(line[off:])
	return r, true
}

// rangeText extracts [start, end) as a string; multi-line ranges include the
// separating line breaks.
func rangeText(doc Doc, start, end types.Position) string {
	if start.Line == end.Line {
		line, err := doc.Line(start.Line)
		if err != nil {
			return ""
		}
		return string(line[byteOffset(line, start.Col):byteOffset(line, end.Col)])
	}
	var buf bytes.Buffer
	for i := start.Line; i <= end.Line; i++ {
		line, err := doc.Line(i)
		if err != nil {
			break
		}
		switch i {
		case start.Line:
			buf.Write(line[byteOffset(line, start.Col):])
		case end.Line:
			buf.WriteByte('\n')
			buf.Write(line[:byteOffset(line, end.Col)])
		default:
			buf.WriteByte('\n')
			buf.Write(line)
		}
	}
	return buf.String()
}
