// internal/minimap/minimap.go
package minimap

import (
	"bytes"
	"sync"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// Doc is the read-only document view the projector samples.
type Doc interface {
	LineCount() int
	Line(index int) ([]byte, error)
}

// SpanSource supplies cached highlight spans per line; the highlight
// engine satisfies it. A nil source classifies every row as plain code.
type SpanSource interface {
	LineSpans(line int) []types.HighlightSpan
}

// Mark classifies a row for rendering without caring about glyphs.
type Mark int

const (
	MarkBlank Mark = iota
	MarkComment
	MarkCode
	MarkHeading // Keyword-led lines (func/class/def and friends)
)

// densityCap is the trimmed line length that maps to full density.
const densityCap = 80

// Row is one projected row of the minimap.
type Row struct {
	Density float64 // Relative trimmed length, 0..1
	Indent  int     // Leading whitespace in indent units
	Mark    Mark
}

// Projector maintains a scaled-down projection of the document plus the
// viewport band. It never owns scroll position: clicks are translated to
// a target line and handed to the scroll callback.
type Projector struct {
	mu       sync.RWMutex
	scale    int // Buffer lines per row
	rows     []Row
	topLine  int
	viewRows int
	onScroll func(line int)
}

// New creates a projector grouping scale buffer lines per row; scale
// below 1 is treated as 1.
func New(scale int) *Projector {
	if scale < 1 {
		scale = 1
	}
	return &Projector{scale: scale}
}

// SetScrollRequestFunc installs the callback invoked when a click asks
// the view to scroll.
func (p *Projector) SetScrollRequestFunc(fn func(line int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onScroll = fn
}

// Scale returns how many buffer lines each row covers.
func (p *Projector) Scale() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scale
}

// RowCount returns how many rows the projection currently has.
func (p *Projector) RowCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rows)
}

// Row returns the projected row at index; out-of-range rows are blank.
func (p *Projector) Row(index int) Row {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.rows) {
		return Row{}
	}
	return p.rows[index]
}

// Rows returns a copy of the current projection.
func (p *Projector) Rows() []Row {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}

// Rebuild recomputes the whole projection from scratch.
func (p *Projector) Rebuild(doc Doc, spans SpanSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := rowCountFor(doc.LineCount(), p.scale)
	p.rows = make([]Row, count)
	for r := 0; r < count; r++ {
		p.rows[r] = p.projectRow(doc, spans, r)
	}
}

// ApplyEdit recomputes only the rows a dirty range touches. When the edit
// changes the document's line count every row grouping after it shifts, so
// the recompute runs to the end; same-line-count edits touch only the rows
// covering the dirty interval. Returns the [first, last] recomputed rows.
func (p *Projector) ApplyEdit(doc Doc, spans SpanSource, edit types.EditInfo) (first, last int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := rowCountFor(doc.LineCount(), p.scale)
	firstRow := edit.StartLine() / p.scale
	if firstRow < 0 {
		firstRow = 0
	}
	if firstRow >= count {
		firstRow = count - 1
	}

	lastRow := edit.NewEnd.Line / p.scale
	if edit.LineDelta() != 0 || count != len(p.rows) {
		lastRow = count - 1
	}
	if lastRow >= count {
		lastRow = count - 1
	}

	if count != len(p.rows) {
		rows := make([]Row, count)
		copy(rows, p.rows)
		p.rows = rows
	}
	for r := firstRow; r <= lastRow && r >= 0; r++ {
		p.rows[r] = p.projectRow(doc, spans, r)
	}
	return firstRow, lastRow
}

// SetViewport records the view's top line and height in buffer lines.
func (p *Projector) SetViewport(topLine, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if topLine < 0 {
		topLine = 0
	}
	if height < 1 {
		height = 1
	}
	p.topLine = topLine
	p.viewRows = (height + p.scale - 1) / p.scale
}

// ViewportBand returns the row range covering the visible viewport,
// clamped to the projection.
func (p *Projector) ViewportBand() (topRow, rowCount int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	topRow = p.topLine / p.scale
	rowCount = p.viewRows
	if topRow >= len(p.rows) {
		topRow = len(p.rows) - 1
	}
	if topRow < 0 {
		topRow = 0
	}
	if topRow+rowCount > len(p.rows) {
		rowCount = len(p.rows) - topRow
	}
	if rowCount < 0 {
		rowCount = 0
	}
	return topRow, rowCount
}

// LineAt maps a clicked row back to its first buffer line.
func (p *Projector) LineAt(row int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.rows) == 0 || row < 0 {
		return 0
	}
	if row >= len(p.rows) {
		row = len(p.rows) - 1
	}
	return row * p.scale
}

// Click translates a row click into a scroll-to-line request.
func (p *Projector) Click(row int) {
	line := p.LineAt(row)
	p.mu.RLock()
	fn := p.onScroll
	p.mu.RUnlock()
	if fn != nil {
		logger.DebugTagf("minimap", "Click on row %d -> line %d", row, line)
		fn(line)
	}
}

func rowCountFor(lines, scale int) int {
	if lines <= 0 {
		return 0
	}
	return (lines + scale - 1) / scale
}

// projectRow folds the row's buffer lines into one Row: densest line wins
// the density, the shallowest non-blank line wins the indent, and the
// strongest mark wins overall. Unreadable lines degrade to blank.
func (p *Projector) projectRow(doc Doc, spans SpanSource, row int) Row {
	start := row * p.scale
	end := start + p.scale
	if end > doc.LineCount() {
		end = doc.LineCount()
	}

	out := Row{Indent: -1}
	for i := start; i < end; i++ {
		line, err := doc.Line(i)
		if err != nil {
			logger.Warnf("Minimap: line %d unreadable: %v", i, err)
			continue
		}
		var lineSpans []types.HighlightSpan
		if spans != nil {
			lineSpans = spans.LineSpans(i)
		}
		d, indent, mark := projectLine(line, lineSpans)
		if d > out.Density {
			out.Density = d
		}
		if mark != MarkBlank && (out.Indent < 0 || indent < out.Indent) {
			out.Indent = indent
		}
		if mark > out.Mark {
			out.Mark = mark
		}
	}
	if out.Indent < 0 {
		out.Indent = 0
	}
	return out
}

func projectLine(line []byte, spans []types.HighlightSpan) (density float64, indent int, mark Mark) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return 0, 0, MarkBlank
	}

	length := utf8.RuneCount(trimmed)
	if length > densityCap {
		length = densityCap
	}
	density = float64(length) / densityCap
	indent = indentLevel(line)
	mark = classify(line, spans)
	return density, indent, mark
}

// classify picks the row mark from the span covering the first non-blank
// column: comment-led lines render dim, keyword-led lines render as
// structural headings, everything else is code.
func classify(line []byte, spans []types.HighlightSpan) Mark {
	firstCol := 0
	for _, r := range string(line) {
		if r != ' ' && r != '\t' {
			break
		}
		firstCol++
	}
	for _, s := range spans {
		if s.StartCol <= firstCol && firstCol < s.EndCol {
			switch s.Kind {
			case types.KindComment:
				return MarkComment
			case types.KindKeyword, types.KindPreproc:
				return MarkHeading
			}
			break
		}
	}
	return MarkCode
}

// indentLevel counts leading whitespace in units of four columns, a tab
// counting as one unit.
func indentLevel(line []byte) int {
	cols := 0
	for _, r := range string(line) {
		if r == ' ' {
			cols++
		} else if r == '\t' {
			cols += 4
		} else {
			break
		}
	}
	return cols / 4
}
