package app

import (
	"sync"
	"time"

	"github.com/darealtrueblue/codeforge/internal/core"
	"github.com/darealtrueblue/codeforge/internal/highlight"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/minimap"
	"github.com/darealtrueblue/codeforge/internal/types"
)

const highlightDebounceDuration = 65 * time.Millisecond

// HighlightManager handles debounced background updates of the highlight
// engine and the minimap projection. Edits arrive from the event bus on the
// UI goroutine; the actual recompute runs in a goroutine so bursts of typing
// never stall the draw loop.
type HighlightManager struct {
	editor    *core.Editor
	engine    *highlight.Engine
	projector func() *minimap.Projector // App may swap projectors on rescale
	appRedraw func()

	mu           sync.Mutex
	timer        *time.Timer
	isRunning    bool
	pendingEdits []types.EditInfo
	lastRevision uint64
}

// NewHighlightManager creates a manager.
func NewHighlightManager(editor *core.Editor, engine *highlight.Engine, projector func() *minimap.Projector, redrawFunc func()) *HighlightManager {
	return &HighlightManager{
		editor:       editor,
		engine:       engine,
		projector:    projector,
		appRedraw:    redrawFunc,
		pendingEdits: make([]types.EditInfo, 0, 5),
	}
}

// AccumulateEdit adds an edit to the pending list and resets the debounce
// timer.
func (hm *HighlightManager) AccumulateEdit(edit types.EditInfo) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.pendingEdits = append(hm.pendingEdits, edit)

	if hm.timer != nil {
		hm.timer.Reset(highlightDebounceDuration)
		return
	}
	hm.timer = time.AfterFunc(highlightDebounceDuration, hm.runUpdate)
}

// Reset discards pending edits and marks the engine state as current for
// the given revision. Called after a full rehighlight (load, language
// switch).
func (hm *HighlightManager) Reset(revision uint64) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.pendingEdits = hm.pendingEdits[:0]
	hm.lastRevision = revision
}

// runUpdate applies pending edits in the background.
func (hm *HighlightManager) runUpdate() {
	hm.mu.Lock()
	hm.timer = nil

	if hm.isRunning {
		// A task is in flight; re-arm so these edits get picked up after.
		hm.timer = time.AfterFunc(highlightDebounceDuration, hm.runUpdate)
		hm.mu.Unlock()
		return
	}
	if len(hm.pendingEdits) == 0 {
		hm.mu.Unlock()
		return
	}

	hm.isRunning = true
	edits := make([]types.EditInfo, len(hm.pendingEdits))
	copy(edits, hm.pendingEdits)
	hm.pendingEdits = hm.pendingEdits[:0]
	lastRev := hm.lastRevision
	hm.mu.Unlock()

	go func() {
		defer func() {
			hm.mu.Lock()
			hm.isRunning = false
			hm.mu.Unlock()
		}()

		buf := hm.editor.GetBuffer()
		mm := hm.projector()

		// Edits must form an unbroken revision chain on top of what the
		// engine last saw; any gap means a batch was lost and incremental
		// state can't be trusted.
		contiguous := true
		for _, edit := range edits {
			if edit.Revision != lastRev+1 {
				contiguous = false
				break
			}
			lastRev = edit.Revision
		}

		if !contiguous {
			logger.Debugf("HighlightManager: revision gap, full rehighlight")
			hm.engine.HighlightAll(buf)
			if mm != nil {
				mm.Rebuild(buf, hm.engine)
			}
			lastRev = buf.Revision()
		} else {
			for _, edit := range edits {
				hm.engine.ApplyEdit(buf, edit)
				if mm != nil {
					mm.ApplyEdit(buf, hm.engine, edit)
				}
			}
		}

		hm.mu.Lock()
		hm.lastRevision = lastRev
		hm.mu.Unlock()

		hm.appRedraw()
	}()
}

// Shutdown stops any pending timer.
func (hm *HighlightManager) Shutdown() {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	if hm.timer != nil {
		hm.timer.Stop()
		hm.timer = nil
	}
}
