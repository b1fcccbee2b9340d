// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"

	"github.com/rivo/uniseg"

	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/core"
	"github.com/darealtrueblue/codeforge/internal/highlight"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/minimap"
	"github.com/darealtrueblue/codeforge/internal/theme"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// Layout describes how the screen is partitioned for one frame. The app
// uses it for mouse hit-testing; drawing recomputes it each frame.
type Layout struct {
	GutterWidth int
	TextX       int // First column of buffer text
	TextWidth   int
	MinimapX    int // -1 when the minimap is hidden
	ViewHeight  int // Rows available for buffer text
}

// ComputeLayout partitions the screen into gutter, text area and minimap.
func ComputeLayout(width, height, lineCount int, showMinimap bool) Layout {
	l := Layout{MinimapX: -1}
	l.ViewHeight = height - config.StatusBarHeight
	if l.ViewHeight < 0 {
		l.ViewHeight = 0
	}

	if lineCount < 1 {
		lineCount = 1
	}
	maxDigits := int(math.Log10(float64(lineCount))) + 1
	l.GutterWidth = maxDigits + 1
	if l.GutterWidth >= width {
		l.GutterWidth = 0
	}

	mapWidth := 0
	if showMinimap && width > l.GutterWidth+config.MinimapWidth+10 {
		mapWidth = config.MinimapWidth
		l.MinimapX = width - mapWidth
	}

	l.TextX = l.GutterWidth
	l.TextWidth = width - l.GutterWidth - mapWidth
	return l
}

func calculateVisualColumn(line []byte, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0

	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

// isPositionWithin checks if pos is within [start, end). The end position is
// exclusive: a character at the exact end is not covered.
func isPositionWithin(pos, start, end types.Position) bool {
	if pos.Line < start.Line || pos.Line > end.Line {
		return false
	}
	if pos.Line == start.Line && pos.Col < start.Col {
		return false
	}
	if pos.Line == end.Line && pos.Col >= end.Col {
		return false
	}
	return true
}

// DrawBuffer draws the visible portion of the buffer, including the line
// number gutter and, when enabled, the minimap column.
func DrawBuffer(tuiManager *TUI, editor *core.Editor, engine *highlight.Engine, mm *minimap.Projector, showMinimap bool) {
	activeTheme := theme.GetCurrentTheme()
	defaultStyle := activeTheme.GetStyle("Default")
	lineNumberStyle := activeTheme.GetStyle("LineNumber")
	selectionStyle := activeTheme.GetStyle("Selection")
	searchHighlightStyle := activeTheme.GetStyle("SearchHighlight")
	bracketStyle := activeTheme.GetStyle("MatchBracket")

	width, _ := tuiManager.Size()
	buf := editor.GetBuffer()
	layout := tuiManager.Layout(buf.LineCount(), showMinimap)
	if layout.ViewHeight <= 0 || layout.TextWidth <= 0 {
		return
	}

	tabWidth := config.Get().Editor.TabWidth
	viewY, viewX := editor.GetViewport()
	selections := editor.Selections()
	primary := editor.Cursors().Primary()
	highlights := editor.GetHighlights()

	bracketAt, bracketMatch, bracketOK := editor.MatchBracket()

	// Secondary carets get a drawn block; the terminal cursor marks the
	// primary one.
	secondaryCarets := make(map[types.Position]bool)
	for i, sel := range selections {
		if i != editor.Cursors().PrimaryIndex() && sel.IsCaret() {
			secondaryCarets[sel.Active] = true
		}
	}

	maxDigits := layout.GutterWidth - 1

	for screenY := 0; screenY < layout.ViewHeight; screenY++ {
		bufferLineIdx := screenY + viewY

		for fillX := 0; fillX < width; fillX++ {
			tuiManager.SetCell(fillX, screenY, ' ', nil, defaultStyle)
		}

		if layout.GutterWidth > 0 && bufferLineIdx < buf.LineCount() {
			numStyle := lineNumberStyle
			if primary.Active.Line == bufferLineIdx {
				numStyle = numStyle.Bold(true)
			}
			for i, r := range fmt.Sprintf("%*d", maxDigits, bufferLineIdx+1) {
				if i < maxDigits {
					tuiManager.SetCell(i, screenY, r, nil, numStyle)
				}
			}
		}

		if bufferLineIdx < 0 || bufferLineIdx >= buf.LineCount() {
			continue
		}

		lineBytes, err := buf.Line(bufferLineIdx)
		if err != nil {
			logger.Debugf("DrawBuffer: line %d: %v", bufferLineIdx, err)
			continue
		}
		var lineSpans []types.HighlightSpan
		if engine != nil {
			lineSpans = engine.LineSpans(bufferLineIdx)
		}

		gr := uniseg.NewGraphemes(string(lineBytes))
		currentVisualX := 0
		currentRuneIndex := 0

		for gr.Next() {
			clusterRunes := gr.Runes()
			clusterWidth := gr.Width()
			clusterVisualStart := currentVisualX
			screenX := (clusterVisualStart - viewX) + layout.TextX

			if clusterVisualStart+clusterWidth > viewX && clusterVisualStart < viewX+layout.TextWidth {
				currentPos := types.Position{Line: bufferLineIdx, Col: currentRuneIndex}
				currentStyle := defaultStyle

				for _, span := range lineSpans {
					if currentRuneIndex >= span.StartCol && currentRuneIndex < span.EndCol {
						currentStyle = activeTheme.StyleForKind(span.Kind)
						break
					}
				}
				for _, h := range highlights {
					start, end := h.Normalized()
					if isPositionWithin(currentPos, start, end) {
						currentStyle = searchHighlightStyle
						break
					}
				}
				if bracketOK && (currentPos == bracketAt || currentPos == bracketMatch) {
					currentStyle = bracketStyle
				}
				for _, sel := range selections {
					if sel.IsCaret() {
						continue
					}
					start, end := sel.Normalized()
					if isPositionWithin(currentPos, start, end) {
						currentStyle = selectionStyle
						break
					}
				}
				if secondaryCarets[currentPos] {
					currentStyle = currentStyle.Reverse(true)
				}

				if screenX >= layout.TextX && screenX < layout.TextX+layout.TextWidth {
					mainRune := clusterRunes[0]
					combining := clusterRunes[1:]

					if mainRune == '\t' {
						visualScreenX := currentVisualX - viewX
						spaces := tabWidth - (visualScreenX % tabWidth)
						for i := 0; i < spaces && screenX+i < layout.TextX+layout.TextWidth; i++ {
							tuiManager.SetCell(screenX+i, screenY, ' ', nil, currentStyle)
						}
					} else {
						tuiManager.SetCell(screenX, screenY, mainRune, combining, currentStyle)
						for cw := 1; cw < clusterWidth; cw++ {
							if fillX := screenX + cw; fillX < layout.TextX+layout.TextWidth {
								tuiManager.SetCell(fillX, screenY, ' ', nil, currentStyle)
							}
						}
					}
				}
			}

			currentVisualX += clusterWidth
			currentRuneIndex += len(clusterRunes)
			if currentVisualX >= viewX+layout.TextWidth {
				break
			}
		}

		// Line-end carets sit past the last cluster.
		endPos := types.Position{Line: bufferLineIdx, Col: currentRuneIndex}
		if secondaryCarets[endPos] {
			screenX := (currentVisualX - viewX) + layout.TextX
			if screenX >= layout.TextX && screenX < layout.TextX+layout.TextWidth {
				tuiManager.SetCell(screenX, screenY, ' ', nil, defaultStyle.Reverse(true))
			}
		}
	}

	if layout.MinimapX >= 0 && mm != nil {
		drawMinimap(tuiManager, mm, layout, activeTheme)
	}
}

// drawMinimap renders the projector rows as density bars on the right edge.
func drawMinimap(tuiManager *TUI, mm *minimap.Projector, layout Layout, activeTheme *theme.Theme) {
	baseStyle := activeTheme.GetStyle("Minimap")
	commentStyle := activeTheme.GetStyle("MinimapComment")
	headingStyle := activeTheme.GetStyle("MinimapHeading")
	bandStyle := activeTheme.GetStyle("MinimapViewport")

	mapWidth := config.MinimapWidth
	bandTop, bandRows := mm.ViewportBand()
	_, bandBG, _ := bandStyle.Decompose()

	for screenY := 0; screenY < layout.ViewHeight; screenY++ {
		inBand := screenY >= bandTop && screenY < bandTop+bandRows

		rowStyle := baseStyle
		if inBand {
			rowStyle = rowStyle.Background(bandBG)
		}
		for x := 0; x < mapWidth; x++ {
			tuiManager.SetCell(layout.MinimapX+x, screenY, ' ', nil, rowStyle)
		}

		if screenY >= mm.RowCount() {
			continue
		}
		row := mm.Row(screenY)
		if row.Mark == minimap.MarkBlank {
			continue
		}

		style := baseStyle
		switch row.Mark {
		case minimap.MarkComment:
			style = commentStyle
		case minimap.MarkHeading:
			style = headingStyle
		}
		if inBand {
			style = style.Background(bandBG)
		}

		indent := row.Indent
		if indent > mapWidth-1 {
			indent = mapWidth - 1
		}
		barLen := int(row.Density*float64(mapWidth-indent) + 0.5)
		if barLen < 1 {
			barLen = 1
		}
		glyph := '▬'
		if row.Mark == minimap.MarkComment {
			glyph = '┄'
		}
		for x := 0; x < barLen && indent+x < mapWidth; x++ {
			tuiManager.SetCell(layout.MinimapX+indent+x, screenY, glyph, nil, style)
		}
	}
}

// DrawCursor positions the terminal cursor at the primary caret.
func DrawCursor(tuiManager *TUI, editor *core.Editor, showMinimap bool) {
	primary := editor.Cursors().Primary()
	cursor := primary.Active
	viewY, viewX := editor.GetViewport()

	buf := editor.GetBuffer()
	layout := tuiManager.Layout(buf.LineCount(), showMinimap)

	cursorVisualCol := 0
	if lineBytes, err := buf.Line(cursor.Line); err == nil {
		cursorVisualCol = calculateVisualColumn(lineBytes, cursor.Col)
	} else {
		logger.Debugf("DrawCursor: line %d: %v", cursor.Line, err)
	}

	screenX := (cursorVisualCol - viewX) + layout.TextX
	screenY := cursor.Line - viewY

	if screenX < layout.TextX || screenX >= layout.TextX+layout.TextWidth ||
		screenY < 0 || screenY >= layout.ViewHeight || layout.TextWidth <= 0 {
		tuiManager.HideCursor()
	} else {
		tuiManager.ShowCursor(screenX, screenY)
	}
}
