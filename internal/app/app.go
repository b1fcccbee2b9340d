// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/core"
	"github.com/darealtrueblue/codeforge/internal/core/clipboard"
	"github.com/darealtrueblue/codeforge/internal/core/smartedit"
	"github.com/darealtrueblue/codeforge/internal/event"
	"github.com/darealtrueblue/codeforge/internal/highlight"
	"github.com/darealtrueblue/codeforge/internal/input"
	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/minimap"
	"github.com/darealtrueblue/codeforge/internal/session"
	"github.com/darealtrueblue/codeforge/internal/statusbar"
	"github.com/darealtrueblue/codeforge/internal/tui"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// promptKind tells the action handler what an open status bar prompt is for.
type promptKind int

const (
	promptNone promptKind = iota
	promptFind
	promptGoto
	promptReplace     // First stage: search pattern
	promptReplaceWith // Second stage: replacement text
)

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg        *config.Config
	configPath string

	tuiManager     *tui.TUI
	editor         *core.Editor
	engine         *highlight.Engine
	mmap           *minimap.Projector
	statusBar      *statusbar.StatusBar
	eventManager   *event.Manager
	inputProcessor *input.InputProcessor
	clip           *clipboard.Manager
	sess           *session.Store
	highlightMgr   *HighlightManager

	showMinimap bool

	prompt      promptKind
	promptInput []rune
	lastSearch  string
	replaceTerm string
	confirmQuit bool

	quit          chan struct{}
	redrawRequest chan struct{}
	configUpdates chan *config.Config

	watchCancel context.CancelFunc
}

// NewApp creates and initializes a new application instance. filePath may be
// empty for a scratch buffer; language overrides extension detection when
// non-empty.
func NewApp(cfg *config.Config, configPath, filePath, language string, readOnly bool) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	buf := buffer.NewLineBufferFromString("")
	editor := core.NewEditor(buf)
	editor.SetReadOnly(readOnly)
	editor.ScrollOff = cfg.Editor.ScrollOff
	editor.SetEditOptions(smartedit.Options{
		IndentUnit:        strings.Repeat(" ", cfg.Editor.TabWidth),
		AutoIndent:        cfg.Editor.AutoIndent,
		AutoCloseBrackets: cfg.Editor.AutoCloseBrackets,
	})

	eventManager := event.NewManager()
	editor.SetEventManager(eventManager)

	engine := highlight.NewEngine(highlight.DefaultRegistry().Get("text"))

	sess := session.NewStore(config.DefaultSessionPath())
	if err := sess.Load(); err != nil {
		logger.Warnf("App: session restore failed: %v", err)
	}

	showMinimap := cfg.Editor.ShowMinimap
	if visible, ok := sess.MinimapVisible(); ok && showMinimap {
		showMinimap = visible
	}

	a := &App{
		cfg:            cfg,
		configPath:     configPath,
		tuiManager:     tuiManager,
		editor:         editor,
		engine:         engine,
		mmap:           minimap.New(1),
		statusBar:      statusbar.New(),
		eventManager:   eventManager,
		inputProcessor: input.NewInputProcessor(),
		sess:           sess,
		showMinimap:    showMinimap,
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
		configUpdates:  make(chan *config.Config, 1),
	}
	a.clip = clipboard.NewManager(editor, cfg.Editor.SystemClipboard)
	a.highlightMgr = NewHighlightManager(editor, engine, func() *minimap.Projector { return a.mmap }, a.requestRedraw)
	a.mmap.SetScrollRequestFunc(func(line int) {
		eventManager.Dispatch(event.TypeScrollRequested, event.ScrollRequestedData{Line: line})
	})

	a.subscribeEvents()

	width, height := tuiManager.Size()
	editor.SetViewSize(width, height)

	openPath := startupFilePath(sess, filePath)
	if openPath != "" {
		if err := editor.LoadFile(openPath); err != nil {
			logger.Warnf("App: could not load '%s': %v", openPath, err)
			a.statusBar.SetTemporaryMessage("New file: %s", openPath)
		} else if filePath == "" {
			a.statusBar.SetTemporaryMessage("Resumed %s", openPath)
		}
	}
	if language != "" {
		editor.SetLanguage(language)
	}
	a.rehighlightAll()

	return a, nil
}

// startupFilePath picks the file to open at launch. An explicit argument
// wins; otherwise the session's last open file is resumed when it still
// exists on disk.
func startupFilePath(sess *session.Store, arg string) string {
	if arg != "" {
		return arg
	}
	last := sess.LastFile()
	if last == "" {
		return ""
	}
	if _, err := os.Stat(last); err != nil {
		logger.Debugf("App: not resuming '%s': %v", last, err)
		return ""
	}
	return last
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.highlightMgr.Shutdown()

	go a.eventLoop()
	a.startConfigWatch()
	defer a.stopConfigWatch()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("%s - Ctrl+S Save | Ctrl+Q Quit | Ctrl+F Find", config.AppName)
	a.requestRedraw()

	var autosaveC <-chan time.Time
	if a.cfg.Editor.AutoSaveInterval > 0 {
		ticker := time.NewTicker(a.cfg.Editor.AutoSaveInterval)
		defer ticker.Stop()
		autosaveC = ticker.C
	}

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			a.saveSession()
			logger.Infof("Exiting application.")
			return nil
		case <-a.redrawRequest:
			w, h := a.tuiManager.Size()
			a.editor.SetViewSize(w, h)
			a.drawEditor()
		case <-autosaveC:
			a.autosave()
		case cfg := <-a.configUpdates:
			a.applyConfig(cfg)
			a.requestRedraw()
		}
	}
}

// eventLoop handles TUI events, delegating key events to the action handler.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.Sync()
			needsRedraw = true
		case *tcell.EventKey:
			a.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: eventData})
			needsRedraw = a.handleKeyEvent(eventData)
		case *tcell.EventMouse:
			needsRedraw = a.handleMouseEvent(eventData)
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// handleMouseEvent translates clicks and wheel motion into cursor and
// scroll changes.
func (a *App) handleMouseEvent(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	layout := a.tuiManager.Layout(a.editor.GetBuffer().LineCount(), a.showMinimap)

	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scrollBy(-3)
		return true
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scrollBy(3)
		return true
	case ev.Buttons()&tcell.Button1 != 0:
		if y >= layout.ViewHeight {
			return false
		}
		if layout.MinimapX >= 0 && x >= layout.MinimapX {
			a.mmap.Click(y)
			return true
		}
		viewY, viewX := a.editor.GetViewport()
		col := viewX + x - layout.TextX
		if col < 0 {
			col = 0
		}
		a.editor.SetCursor(types.Position{Line: viewY + y, Col: col})
		return true
	}
	return false
}

// scrollBy moves the viewport without touching the cursor.
func (a *App) scrollBy(delta int) {
	viewY, _ := a.editor.GetViewport()
	top := viewY + delta
	if max := a.editor.GetBuffer().LineCount() - a.editor.ViewHeight(); top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	if top != viewY {
		a.editor.ViewportY = top
		a.eventManager.Dispatch(event.TypeViewportChanged, event.ViewportChangedData{
			TopLine: top,
			Height:  a.editor.ViewHeight(),
		})
	}
}

// autosave writes the buffer when it has a path and unsaved changes.
func (a *App) autosave() {
	buf := a.editor.GetBuffer()
	if a.editor.IsReadOnly() || !buf.IsModified() || buf.FilePath() == "" {
		return
	}
	if err := a.editor.SaveBuffer(); err != nil {
		logger.Warnf("App: autosave failed: %v", err)
		return
	}
	a.statusBar.SetTemporaryMessage("Autosaved %s", buf.FilePath())
	a.requestRedraw()
}

// startConfigWatch hot-reloads settings when the config file changes.
func (a *App) startConfigWatch() {
	if a.configPath == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel
	go func() {
		err := config.Watch(ctx, a.configPath, func(cfg *config.Config) {
			select {
			case a.configUpdates <- cfg:
			default:
			}
		})
		if err != nil && ctx.Err() == nil {
			logger.Warnf("App: config watch stopped: %v", err)
		}
	}()
}

func (a *App) stopConfigWatch() {
	if a.watchCancel != nil {
		a.watchCancel()
	}
}

// applyConfig pushes reloaded settings into the running components.
func (a *App) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	a.editor.ScrollOff = cfg.Editor.ScrollOff
	a.editor.SetEditOptions(smartedit.Options{
		IndentUnit:        strings.Repeat(" ", cfg.Editor.TabWidth),
		AutoIndent:        cfg.Editor.AutoIndent,
		AutoCloseBrackets: cfg.Editor.AutoCloseBrackets,
	})
	a.showMinimap = cfg.Editor.ShowMinimap
	a.clip = clipboard.NewManager(a.editor, cfg.Editor.SystemClipboard)
	a.eventManager.Dispatch(event.TypeSettingsReloaded, event.SettingsReloadedData{})
	a.statusBar.SetTemporaryMessage("Settings reloaded")
}

// saveSession records the cursor position and recent file list on exit.
func (a *App) saveSession() {
	if path := a.editor.GetBuffer().FilePath(); path != "" {
		a.sess.SetCursor(path, a.editor.Cursors().Primary().Active)
	}
	a.sess.SetMinimapVisible(a.showMinimap)
	if err := a.sess.Save(); err != nil {
		logger.Warnf("App: session save failed: %v", err)
	}
}

// --- Drawing ---

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()
	a.syncMinimapScale()

	screen := a.tuiManager.Screen()
	width, height := a.tuiManager.Size()

	a.tuiManager.Clear()
	tui.DrawBuffer(a.tuiManager, a.editor, a.engine, a.mmap, a.showMinimap)
	a.statusBar.Draw(screen, width, height)
	if a.statusBar.InPrompt() {
		a.tuiManager.HideCursor()
	} else {
		tui.DrawCursor(a.tuiManager, a.editor, a.showMinimap)
	}
	a.tuiManager.Show()
}

// syncMinimapScale rebuilds the projector when the document no longer fits
// the view at the current scale.
func (a *App) syncMinimapScale() {
	if !a.showMinimap {
		return
	}
	viewHeight := a.editor.ViewHeight()
	if viewHeight <= 0 {
		return
	}
	lines := a.editor.GetBuffer().LineCount()
	scale := (lines + viewHeight - 1) / viewHeight
	if scale < 1 {
		scale = 1
	}
	if scale == a.mmap.Scale() {
		return
	}

	mm := minimap.New(scale)
	mm.SetScrollRequestFunc(func(line int) {
		a.eventManager.Dispatch(event.TypeScrollRequested, event.ScrollRequestedData{Line: line})
	})
	mm.Rebuild(a.editor.GetBuffer(), a.engine)
	viewY, _ := a.editor.GetViewport()
	mm.SetViewport(viewY, viewHeight)
	a.mmap = mm
}

// updateStatusBarContent pushes current editor state to the status bar.
func (a *App) updateStatusBarContent() {
	buf := a.editor.GetBuffer()
	a.statusBar.SetFileInfo(buf.FilePath(), buf.IsModified())
	a.statusBar.SetCursorInfo(a.editor.Cursors().Primary().Active, a.editor.Cursors().Count())
	a.statusBar.SetLanguage(a.editor.Language())
}

// rehighlightAll recomputes highlighting and the minimap from scratch.
func (a *App) rehighlightAll() {
	buf := a.editor.GetBuffer()
	a.engine.SetLanguage(highlight.DefaultRegistry().Get(a.editor.Language()))
	a.engine.HighlightAll(buf)
	a.mmap.Rebuild(buf, a.engine)
	viewY, _ := a.editor.GetViewport()
	a.mmap.SetViewport(viewY, a.editor.ViewHeight())
	a.highlightMgr.Reset(buf.Revision())
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}
