// internal/app/events.go
package app

import (
	"github.com/darealtrueblue/codeforge/internal/event"
	"github.com/darealtrueblue/codeforge/internal/logger"
)

// subscribeEvents wires the app's reactions to editor events.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeBufferModified, a.handleBufferModified)
	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoaded)
	a.eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSaved)
	a.eventManager.Subscribe(event.TypeCursorsChanged, a.handleCursorsChanged)
	a.eventManager.Subscribe(event.TypeLanguageChanged, a.handleLanguageChanged)
	a.eventManager.Subscribe(event.TypeViewportChanged, a.handleViewportChanged)
	a.eventManager.Subscribe(event.TypeScrollRequested, a.handleScrollRequested)
}

func (a *App) handleBufferModified(e event.Event) bool {
	data, ok := e.Data.(event.BufferModifiedData)
	if !ok {
		logger.Warnf("App: BufferModified event with unexpected data type: %T", e.Data)
		return false
	}
	a.highlightMgr.AccumulateEdit(data.Edit)
	a.confirmQuit = false
	a.updateStatusBarContent()
	return false
}

func (a *App) handleBufferLoaded(e event.Event) bool {
	data, ok := e.Data.(event.BufferLoadedData)
	if !ok {
		return false
	}
	a.rehighlightAll()
	a.sess.Touch(data.FilePath)
	if pos, ok := a.sess.Cursor(data.FilePath); ok {
		a.editor.SetCursor(pos)
	}
	a.updateStatusBarContent()
	a.requestRedraw()
	return false
}

func (a *App) handleBufferSaved(e event.Event) bool {
	a.updateStatusBarContent()
	return false
}

func (a *App) handleCursorsChanged(e event.Event) bool {
	a.statusBar.SetCursorInfo(a.editor.Cursors().Primary().Active, a.editor.Cursors().Count())
	return false
}

func (a *App) handleLanguageChanged(e event.Event) bool {
	a.rehighlightAll()
	a.updateStatusBarContent()
	a.requestRedraw()
	return false
}

func (a *App) handleViewportChanged(e event.Event) bool {
	data, ok := e.Data.(event.ViewportChangedData)
	if !ok {
		return false
	}
	a.mmap.SetViewport(data.TopLine, data.Height)
	return false
}

func (a *App) handleScrollRequested(e event.Event) bool {
	data, ok := e.Data.(event.ScrollRequestedData)
	if !ok {
		return false
	}
	a.editor.ScrollTo(data.Line)
	a.requestRedraw()
	return false
}
