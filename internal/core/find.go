// internal/core/find.go
package core

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/core/history"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// Find searches for a regex term from the primary caret. Forward search
// begins at the caret; backward search considers only matches strictly
// before it. Returns the match position, or ok=false when the term is
// missing, invalid, or absent from the document.
func (e *Editor) Find(term string, forward bool) (types.Position, bool) {
	if term == "" {
		return types.Position{}, false
	}
	re, err := regexp.Compile(term)
	if err != nil {
		logger.Warnf("Find: invalid regex %q: %v", term, err)
		return types.Position{}, false
	}

	start := e.cursors.Primary().Active
	lineCount := e.buffer.LineCount()

	if forward {
		for lineIdx := start.Line; lineIdx < lineCount; lineIdx++ {
			line, err := e.buffer.Line(lineIdx)
			if err != nil {
				continue
			}
			from := 0
			if lineIdx == start.Line {
				// Start past the caret so repeated Find advances.
				from = runeIndexToByteOffset(line, start.Col+1)
				if from > len(line) {
					continue
				}
			}
			if loc := re.FindIndex(line[from:]); loc != nil {
				col := byteOffsetToRuneIndex(line, from+loc[0])
				return types.Position{Line: lineIdx, Col: col}, true
			}
		}
		return types.Position{}, false
	}

	for lineIdx := start.Line; lineIdx >= 0; lineIdx-- {
		line, err := e.buffer.Line(lineIdx)
		if err != nil {
			continue
		}
		to := len(line)
		if lineIdx == start.Line {
			to = runeIndexToByteOffset(line, start.Col)
		}
		locs := re.FindAllIndex(line[:to], -1)
		if len(locs) > 0 {
			col := byteOffsetToRuneIndex(line, locs[len(locs)-1][0])
			return types.Position{Line: lineIdx, Col: col}, true
		}
	}
	return types.Position{}, false
}

// FindAndSelect moves the primary caret onto the next match and selects it.
func (e *Editor) FindAndSelect(term string, forward bool) bool {
	pos, ok := e.Find(term, forward)
	if !ok {
		return false
	}
	re := regexp.MustCompile(term) // Find already validated it
	line, err := e.buffer.Line(pos.Line)
	if err != nil {
		return false
	}
	from := runeIndexToByteOffset(line, pos.Col)
	loc := re.FindIndex(line[from:])
	if loc == nil {
		return false
	}
	end := types.Position{Line: pos.Line, Col: byteOffsetToRuneIndex(line, from+loc[1])}
	e.cursors.SetAll(e.buffer, []types.Selection{{Anchor: pos, Active: end}}, 0)
	e.history.BreakCoalescing()
	e.ScrollToCursor()
	e.notifyCursors()
	return true
}

// HighlightMatches stores every occurrence of term for the view to paint.
func (e *Editor) HighlightMatches(term string) {
	e.ClearHighlights()
	if term == "" {
		return
	}
	re, err := regexp.Compile(term)
	if err != nil {
		logger.Warnf("HighlightMatches: invalid regex %q: %v", term, err)
		return
	}
	for lineIdx := 0; lineIdx < e.buffer.LineCount(); lineIdx++ {
		line, err := e.buffer.Line(lineIdx)
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllIndex(line, -1) {
			e.searchHighlights = append(e.searchHighlights, types.Selection{
				Anchor: types.Position{Line: lineIdx, Col: byteOffsetToRuneIndex(line, loc[0])},
				Active: types.Position{Line: lineIdx, Col: byteOffsetToRuneIndex(line, loc[1])},
			})
		}
	}
	logger.DebugTagf("find", "%d matches for %q", len(e.searchHighlights), term)
}

// ClearHighlights drops the stored search matches.
func (e *Editor) ClearHighlights() {
	e.searchHighlights = nil
}

// GetHighlights returns the stored search match ranges.
func (e *Editor) GetHighlights() []types.Selection {
	return e.searchHighlights
}

// ReplaceAll replaces every match of a regex term, expanding $1-style group
// references in repl. The whole sweep is one undo unit. Returns how many
// matches were replaced.
func (e *Editor) ReplaceAll(term, repl string) (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	re, err := regexp.Compile(term)
	if err != nil {
		return 0, fmt.Errorf("replace: invalid regex %q: %w", term, err)
	}

	before := e.snapshotSelections()
	var ops []history.Op
	var edits []types.EditInfo
	count := 0

	// Bottom-up, right-to-left, so earlier match positions stay valid.
	for lineIdx := e.buffer.LineCount() - 1; lineIdx >= 0; lineIdx-- {
		line, err := e.buffer.Line(lineIdx)
		if err != nil {
			continue
		}
		matches := re.FindAllSubmatchIndex(line, -1)
		for m := len(matches) - 1; m >= 0; m-- {
			loc := matches[m]
			replacement := re.Expand(nil, []byte(repl), line, loc)
			start := types.Position{Line: lineIdx, Col: byteOffsetToRuneIndex(line, loc[0])}
			end := types.Position{Line: lineIdx, Col: byteOffsetToRuneIndex(line, loc[1])}

			removed, delEdit, err := e.buffer.Delete(start, end)
			if err != nil {
				logger.Warnf("ReplaceAll: delete at %v: %v", start, err)
				continue
			}
			ops = append(ops, history.Op{Type: history.DeleteAction, Text: removed, Start: start, End: end})
			edits = append(edits, delEdit)
			if len(replacement) > 0 {
				endPos, insEdit, err := e.buffer.Insert(start, replacement)
				if err != nil {
					logger.Warnf("ReplaceAll: insert at %v: %v", start, err)
					break
				}
				ops = append(ops, history.Op{Type: history.InsertAction, Text: replacement, Start: start, End: endPos})
				edits = append(edits, insEdit)
			}
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	e.cursors.Clamp(e.buffer)
	after := e.snapshotSelections()
	e.history.Record(history.Unit{Ops: ops, Before: before, After: after}, e.buffer.Revision())
	for _, edit := range edits {
		e.notifyEdit(edit)
	}
	e.notifyCursors()
	e.notifyHistory()
	return count, nil
}

// RangeText extracts [start, end) from the buffer; multi-line ranges include
// the separating line breaks.
func (e *Editor) RangeText(start, end types.Position) ([]byte, error) {
	if end.Before(start) {
		start, end = end, start
	}
	var out bytes.Buffer
	for lineIdx := start.Line; lineIdx <= end.Line; lineIdx++ {
		line, err := e.buffer.Line(lineIdx)
		if err != nil {
			return nil, fmt.Errorf("cannot read line %d: %w", lineIdx, err)
		}
		from, to := 0, len(line)
		if lineIdx == start.Line {
			from = runeIndexToByteOffset(line, start.Col)
		}
		if lineIdx == end.Line {
			to = runeIndexToByteOffset(line, end.Col)
		}
		if lineIdx > start.Line {
			out.WriteByte('\n')
		}
		out.Write(line[from:to])
	}
	return out.Bytes(), nil
}

// --- rune/byte offset helpers ---

func lineRuneCount(buf buffer.Buffer, line int) int {
	b, err := buf.Line(line)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(b)
}

// runeIndexToByteOffset converts a rune index to a byte offset, clamping
// past-the-end indexes to the line length plus one byte (so "start past the
// caret" searches can fall off the line safely).
func runeIndexToByteOffset(line []byte, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	off := 0
	for count := 0; off < len(line); count++ {
		if count == runeIndex {
			return off
		}
		_, size := utf8.DecodeRune(line[off:])
		off += size
	}
	if utf8.RuneCount(line) < runeIndex {
		return len(line) + 1
	}
	return len(line)
}

// byteOffsetToRuneIndex converts a byte offset to a rune index.
func byteOffsetToRuneIndex(line []byte, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	idx := 0
	for off := 0; off < byteOffset; idx++ {
		_, size := utf8.DecodeRune(line[off:])
		if off+size > byteOffset {
			break
		}
		off += size
	}
	return idx
}
