// internal/highlight/engine.go
package highlight

import (
	"sync"

	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// Doc is the read-only view of the document the engine scans.
type Doc interface {
	LineCount() int
	Line(index int) ([]byte, error)
}

// Engine caches per-line spans and exit states and recomputes the minimum
// range after each edit: the dirty lines themselves, then following lines
// only while their entry state actually changed.
type Engine struct {
	mu    sync.RWMutex
	lang  *Language
	spans [][]types.HighlightSpan
	exits []LineState
}

// NewEngine creates an engine for the given language; nil means plain text.
func NewEngine(lang *Language) *Engine {
	if lang == nil {
		lang = PlainText()
	}
	return &Engine{lang: lang}
}

// Language returns the engine's current language.
func (e *Engine) Language() *Language {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lang
}

// SetLanguage switches languages and drops all cached state; call
// HighlightAll afterwards.
func (e *Engine) SetLanguage(lang *Language) {
	if lang == nil {
		lang = PlainText()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lang = lang
	e.spans = nil
	e.exits = nil
}

// LineSpans returns the cached spans for a line. Lines not yet highlighted
// return nil, which renders as plain text.
func (e *Engine) LineSpans(line int) []types.HighlightSpan {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if line < 0 || line >= len(e.spans) {
		return nil
	}
	return e.spans[line]
}

// HighlightAll recomputes every line from scratch.
func (e *Engine) HighlightAll(doc Doc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.highlightAllLocked(doc)
}

func (e *Engine) highlightAllLocked(doc Doc) {
	count := doc.LineCount()
	e.spans = make([][]types.HighlightSpan, count)
	e.exits = make([]LineState, count)

	state := StateNormal
	for i := 0; i < count; i++ {
		line, err := doc.Line(i)
		if err != nil {
			logger.Warnf("Highlight: line %d unreadable: %v", i, err)
			break
		}
		e.spans[i], e.exits[i] = e.lang.HighlightLine(line, state)
		state = e.exits[i]
	}
}

// ApplyEdit splices the cache to match the edit's line delta and recomputes
// from the first dirty line. The recompute cascades past the edited region
// only while a line's exit state changed, so closing a block comment
// re-lexes everything below it but ordinary edits stop immediately. The
// returned range is [first, last] of the lines whose spans changed.
func (e *Engine) ApplyEdit(doc Doc, edit types.EditInfo) (first, last int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.exits) == 0 {
		e.highlightAllLocked(doc)
		return 0, doc.LineCount() - 1
	}

	from := edit.StartLine()
	if from < 0 {
		from = 0
	}
	if from >= len(e.exits) {
		from = len(e.exits) - 1
	}

	// Splice the cache so its line count matches the document again. The
	// exit state the replaced region used to end with decides whether the
	// recompute may stop at the region's edge.
	oldEnd := edit.OldEnd.Line
	if oldEnd >= len(e.exits) {
		oldEnd = len(e.exits) - 1
	}
	oldRegionExit := e.exits[oldEnd]
	newCount := edit.NewEnd.Line - edit.Start.Line + 1

	newSpans := make([][]types.HighlightSpan, 0, len(e.spans)+edit.LineDelta())
	newSpans = append(newSpans, e.spans[:from]...)
	newExits := make([]LineState, 0, len(e.exits)+edit.LineDelta())
	newExits = append(newExits, e.exits[:from]...)
	for i := 0; i < newCount; i++ {
		newSpans = append(newSpans, nil)
		newExits = append(newExits, stateUnknown)
	}
	newSpans = append(newSpans, e.spans[oldEnd+1:]...)
	newExits = append(newExits, e.exits[oldEnd+1:]...)
	e.spans = newSpans
	e.exits = newExits

	state := StateNormal
	if from > 0 {
		state = e.exits[from-1]
	}

	last = from
	for i := from; i < doc.LineCount() && i < len(e.exits); i++ {
		line, err := doc.Line(i)
		if err != nil {
			logger.Warnf("Highlight: line %d unreadable: %v", i, err)
			break
		}
		oldExit := e.exits[i]
		if i == edit.NewEnd.Line {
			oldExit = oldRegionExit
		}
		e.spans[i], e.exits[i] = e.lang.HighlightLine(line, state)
		state = e.exits[i]
		last = i
		if i >= edit.NewEnd.Line && state == oldExit {
			break
		}
	}
	return from, last
}

// LineCount returns how many lines the cache currently covers.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.exits)
}
