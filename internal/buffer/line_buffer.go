// internal/buffer/line_buffer.go
package buffer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// LineBuffer stores the document as one byte slice per line, without
// terminators. It always holds at least one line.
type LineBuffer struct {
	lines    [][]byte
	filePath string
	modified bool
	revision uint64
}

// NewLineBuffer creates an empty LineBuffer.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{
		// Start with a single empty line, common for new files
		lines: [][]byte{[]byte("")},
	}
}

// NewLineBufferFromString creates a buffer pre-filled with content. Mostly
// useful in tests.
func NewLineBufferFromString(content string) *LineBuffer {
	lb := NewLineBuffer()
	lb.setContent([]byte(content))
	return lb
}

func (lb *LineBuffer) setContent(content []byte) {
	raw := bytes.Split(content, []byte("\n"))
	lines := make([][]byte, len(raw))
	for i, l := range raw {
		lineCopy := make([]byte, len(l))
		copy(lineCopy, bytes.TrimSuffix(l, []byte("\r")))
		lines[i] = lineCopy
	}
	if len(lines) == 0 {
		lines = [][]byte{[]byte("")}
	}
	lb.lines = lines
}

// Load reads a file into the buffer, replacing existing content. A missing
// file yields an empty buffer bound to that path.
func (lb *LineBuffer) Load(filePath string) error {
	lb.modified = false

	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			lb.lines = [][]byte{[]byte("")}
			lb.filePath = filePath
			return nil
		}
		return fmt.Errorf("failed to open file '%s': %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	newLines := [][]byte{}
	for scanner.Scan() {
		line := scanner.Bytes()
		lineCopy := make([]byte, len(line))
		copy(lineCopy, line)
		newLines = append(newLines, lineCopy)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file '%s': %w", filePath, err)
	}
	if len(newLines) == 0 {
		newLines = append(newLines, []byte(""))
	}
	lb.lines = newLines
	lb.filePath = filePath
	return nil
}

// Save writes the buffer content to the stored filePath, or to the given
// path when non-empty.
func (lb *LineBuffer) Save(filePath string) error {
	path := lb.filePath
	if filePath != "" { // Allow overriding path during save
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}

	if err := os.WriteFile(path, lb.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}

	lb.filePath = path
	lb.modified = false
	return nil
}

func (lb *LineBuffer) FilePath() string { return lb.filePath }

// IsModified returns true if the buffer has unsaved changes.
func (lb *LineBuffer) IsModified() bool { return lb.modified }

// Revision returns the current mutation counter.
func (lb *LineBuffer) Revision() uint64 { return lb.revision }

func (lb *LineBuffer) Lines() [][]byte { return lb.lines }

func (lb *LineBuffer) LineCount() int { return len(lb.lines) }

func (lb *LineBuffer) Line(index int) ([]byte, error) {
	if index < 0 || index >= len(lb.lines) {
		return nil, fmt.Errorf("%w: line %d (have %d)", ErrOutOfRange, index, len(lb.lines))
	}
	return lb.lines[index], nil
}

func (lb *LineBuffer) Bytes() []byte {
	var buf bytes.Buffer
	for i, line := range lb.lines {
		buf.Write(line)
		if i < len(lb.lines)-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// --- Position handling ---

// byteOffsetForCol maps a rune column to a byte offset on the given line.
// The column equal to the line's rune count is valid (end of line); anything
// past it is ErrOutOfRange.
func byteOffsetForCol(line []byte, col int) (int, error) {
	if col < 0 {
		return 0, fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	byteOff := 0
	runeCount := 0
	for byteOff < len(line) && runeCount < col {
		_, size := utf8.DecodeRune(line[byteOff:])
		byteOff += size
		runeCount++
	}
	if runeCount < col {
		return 0, fmt.Errorf("%w: column %d past end of line (len %d)", ErrOutOfRange, col, runeCount)
	}
	return byteOff, nil
}

// resolve validates pos and returns the byte offset of its column.
func (lb *LineBuffer) resolve(pos types.Position) (int, error) {
	if pos.Line < 0 || pos.Line >= len(lb.lines) {
		return 0, fmt.Errorf("%w: line %d (have %d)", ErrOutOfRange, pos.Line, len(lb.lines))
	}
	return byteOffsetForCol(lb.lines[pos.Line], pos.Col)
}

// OffsetOf converts a position into a document-wide rune offset. Each line
// break counts as a single rune.
func (lb *LineBuffer) OffsetOf(pos types.Position) (int, error) {
	if _, err := lb.resolve(pos); err != nil {
		return 0, err
	}
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += utf8.RuneCount(lb.lines[i]) + 1 // +1 for the line break
	}
	return offset + pos.Col, nil
}

// PositionOf converts a document-wide rune offset back into a position.
func (lb *LineBuffer) PositionOf(offset int) (types.Position, error) {
	if offset < 0 {
		return types.Position{}, fmt.Errorf("%w: offset %d", ErrOutOfRange, offset)
	}
	remaining := offset
	for i, line := range lb.lines {
		runes := utf8.RuneCount(line)
		if remaining <= runes {
			return types.Position{Line: i, Col: remaining}, nil
		}
		remaining -= runes + 1 // consume the line break too
	}
	return types.Position{}, fmt.Errorf("%w: offset %d past end of document", ErrOutOfRange, offset)
}

// --- Mutations ---

// Insert places text at pos. Multi-line text splits the target line at pos
// and splices the new lines in between.
func (lb *LineBuffer) Insert(pos types.Position, text []byte) (types.Position, types.EditInfo, error) {
	byteOffset, err := lb.resolve(pos)
	if err != nil {
		return types.Position{}, types.EditInfo{}, err
	}
	if len(text) == 0 {
		return pos, types.EditInfo{Start: pos, OldEnd: pos, NewEnd: pos, Revision: lb.revision}, nil
	}

	lb.modified = true
	lb.revision++

	currentLine := lb.lines[pos.Line]
	insertLines := bytes.Split(text, []byte("\n"))

	tail := make([]byte, len(currentLine[byteOffset:]))
	copy(tail, currentLine[byteOffset:])

	head := make([]byte, byteOffset, byteOffset+len(insertLines[0]))
	copy(head, currentLine[:byteOffset])
	lb.lines[pos.Line] = append(head, insertLines[0]...)

	var end types.Position
	if len(insertLines) == 1 {
		end = types.Position{Line: pos.Line, Col: pos.Col + utf8.RuneCount(insertLines[0])}
		lb.lines[pos.Line] = append(lb.lines[pos.Line], tail...)
	} else {
		newLines := make([][]byte, len(insertLines)-1)
		for i := 1; i < len(insertLines); i++ {
			lineCopy := make([]byte, len(insertLines[i]))
			copy(lineCopy, insertLines[i])
			newLines[i-1] = lineCopy
		}
		lastLen := utf8.RuneCount(newLines[len(newLines)-1])
		newLines[len(newLines)-1] = append(newLines[len(newLines)-1], tail...)

		rest := make([][]byte, len(lb.lines[pos.Line+1:]))
		copy(rest, lb.lines[pos.Line+1:])
		lb.lines = append(lb.lines[:pos.Line+1], append(newLines, rest...)...)

		end = types.Position{Line: pos.Line + len(newLines), Col: lastLen}
	}

	edit := types.EditInfo{Start: pos, OldEnd: pos, NewEnd: end, Revision: lb.revision}
	return end, edit, nil
}

// Delete removes the range [start, end). Reversed ranges are swapped. The
// removed text is returned so history can restore it.
func (lb *LineBuffer) Delete(start, end types.Position) ([]byte, types.EditInfo, error) {
	if end.Before(start) {
		start, end = end, start
	}

	startOffset, err := lb.resolve(start)
	if err != nil {
		return nil, types.EditInfo{}, err
	}
	endOffset, err := lb.resolve(end)
	if err != nil {
		return nil, types.EditInfo{}, err
	}

	if start == end {
		return nil, types.EditInfo{Start: start, OldEnd: end, NewEnd: start, Revision: lb.revision}, nil
	}

	lb.modified = true
	lb.revision++

	var removed []byte
	startLineBytes := lb.lines[start.Line]

	if start.Line == end.Line {
		removed = append(removed, startLineBytes[startOffset:endOffset]...)
		head := make([]byte, startOffset, startOffset+len(startLineBytes)-endOffset)
		copy(head, startLineBytes[:startOffset])
		lb.lines[start.Line] = append(head, startLineBytes[endOffset:]...)
	} else {
		endLineBytes := lb.lines[end.Line]

		removed = append(removed, startLineBytes[startOffset:]...)
		for i := start.Line + 1; i < end.Line; i++ {
			removed = append(removed, '\n')
			removed = append(removed, lb.lines[i]...)
		}
		removed = append(removed, '\n')
		removed = append(removed, endLineBytes[:endOffset]...)

		head := make([]byte, startOffset, startOffset+len(endLineBytes)-endOffset)
		copy(head, startLineBytes[:startOffset])
		lb.lines[start.Line] = append(head, endLineBytes[endOffset:]...)

		lb.lines = append(lb.lines[:start.Line+1], lb.lines[end.Line+1:]...)
	}

	if len(lb.lines) == 0 {
		lb.lines = [][]byte{[]byte("")}
	}

	edit := types.EditInfo{Start: start, OldEnd: end, NewEnd: start, Revision: lb.revision}
	return removed, edit, nil
}

// Ensure LineBuffer satisfies the Buffer interface
var _ Buffer = (*LineBuffer)(nil)
