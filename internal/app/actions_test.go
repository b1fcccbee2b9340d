package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/core"
	"github.com/darealtrueblue/codeforge/internal/input"
	"github.com/darealtrueblue/codeforge/internal/session"
	"github.com/darealtrueblue/codeforge/internal/statusbar"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func newTestApp(content string) *App {
	return &App{
		editor:    core.NewEditor(buffer.NewLineBufferFromString(content)),
		statusBar: statusbar.New(),
	}
}

func typeIntoPrompt(a *App, text string) {
	for _, r := range text {
		a.handlePromptAction(input.ActionEvent{Action: input.ActionInsertRune, Rune: r})
	}
}

func TestReplacePromptFlow(t *testing.T) {
	a := newTestApp("foo bar\nbar foo")

	a.executeAction(input.ActionEvent{Action: input.ActionReplace})
	if a.prompt != promptReplace {
		t.Fatalf("prompt = %d, want search stage", a.prompt)
	}

	typeIntoPrompt(a, "foo")
	a.handlePromptAction(input.ActionEvent{Action: input.ActionInsertNewLine})
	if a.prompt != promptReplaceWith {
		t.Fatalf("prompt = %d, want replacement stage", a.prompt)
	}
	if a.replaceTerm != "foo" {
		t.Fatalf("replaceTerm = %q", a.replaceTerm)
	}

	typeIntoPrompt(a, "qux")
	a.handlePromptAction(input.ActionEvent{Action: input.ActionInsertNewLine})

	if got := string(a.editor.GetBuffer().Bytes()); got != "qux bar\nbar qux" {
		t.Errorf("content = %q, want %q", got, "qux bar\nbar qux")
	}
	if a.prompt != promptNone || a.replaceTerm != "" {
		t.Errorf("prompt state not reset: kind=%d term=%q", a.prompt, a.replaceTerm)
	}
	if len(a.editor.GetHighlights()) != 0 {
		t.Errorf("highlights should be cleared after replacing")
	}
}

func TestReplacePromptEscapeResetsState(t *testing.T) {
	a := newTestApp("foo foo")

	a.executeAction(input.ActionEvent{Action: input.ActionReplace})
	typeIntoPrompt(a, "foo")
	a.handlePromptAction(input.ActionEvent{Action: input.ActionInsertNewLine})

	a.handlePromptAction(input.ActionEvent{Action: input.ActionEscape})
	if a.prompt != promptNone || a.replaceTerm != "" {
		t.Errorf("escape left prompt state: kind=%d term=%q", a.prompt, a.replaceTerm)
	}
	if len(a.editor.GetHighlights()) != 0 {
		t.Errorf("escape should clear search highlights")
	}
	if got := string(a.editor.GetBuffer().Bytes()); got != "foo foo" {
		t.Errorf("buffer changed on cancel: %q", got)
	}
}

func TestFindPrevSearchesBackward(t *testing.T) {
	a := newTestApp("alpha\nbeta\nalpha")
	a.lastSearch = "alpha"
	a.editor.SetCursor(types.Position{Line: 2, Col: 0})

	a.executeAction(input.ActionEvent{Action: input.ActionFindPrev})

	sel := a.editor.Selections()[0]
	start, end := sel.Normalized()
	if start != (types.Position{Line: 0, Col: 0}) || end != (types.Position{Line: 0, Col: 5}) {
		t.Errorf("selection = %v..%v, want the match on line 0", start, end)
	}
}

func TestFindPrevWithoutTermOpensPrompt(t *testing.T) {
	a := newTestApp("text")
	a.executeAction(input.ActionEvent{Action: input.ActionFindPrev})
	if a.prompt != promptFind {
		t.Errorf("prompt = %d, want find prompt", a.prompt)
	}
}

func TestStartupFilePathPrefersArgument(t *testing.T) {
	sess := session.NewStore("")
	sess.Touch("/somewhere/else.txt")
	if got := startupFilePath(sess, "explicit.go"); got != "explicit.go" {
		t.Errorf("startupFilePath = %q, want the explicit argument", got)
	}
}

func TestStartupFilePathResumesLastFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sess := session.NewStore("")
	sess.Touch(file)
	if got := startupFilePath(sess, ""); got != file {
		t.Errorf("startupFilePath = %q, want %q", got, file)
	}

	sess.Touch(filepath.Join(dir, "gone.txt"))
	if got := startupFilePath(sess, ""); got != "" {
		t.Errorf("startupFilePath = %q, want empty for a missing file", got)
	}
}

func TestStartupFilePathEmptySession(t *testing.T) {
	if got := startupFilePath(session.NewStore(""), ""); got != "" {
		t.Errorf("startupFilePath = %q, want empty", got)
	}
}
