package core

import (
	"testing"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func newTestEditor(content string) *Editor {
	return NewEditor(buffer.NewLineBufferFromString(content))
}

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func content(e *Editor) string { return string(e.GetBuffer().Bytes()) }

func TestInsertTextSingleCursor(t *testing.T) {
	e := newTestEditor("world")
	if err := e.InsertText("hello "); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "hello world" {
		t.Errorf("content = %q", got)
	}
	if got := e.Cursors().Primary().Active; got != pos(0, 6) {
		t.Errorf("caret = %v, want {0 6}", got)
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	e := newTestEditor("hello world")
	e.Cursors().SetAll(e.GetBuffer(), []types.Selection{{Anchor: pos(0, 0), Active: pos(0, 5)}}, 0)
	if err := e.InsertText("bye"); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "bye world" {
		t.Errorf("content = %q", got)
	}
}

func TestMultiCursorInsertOrdering(t *testing.T) {
	// Two carets on one line: both inserts land at their own caret, and the
	// right caret shifts by the left insert's width.
	e := newTestEditor("ab")
	e.Cursors().SetAll(e.GetBuffer(), []types.Selection{
		types.Caret(pos(0, 1)),
		types.Caret(pos(0, 2)),
	}, 0)
	if err := e.InsertText("X"); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "aXbX" {
		t.Errorf("content = %q, want aXbX", got)
	}
	sels := e.Cursors().All()
	if len(sels) != 2 {
		t.Fatalf("cursor count = %d, want 2", len(sels))
	}
	if sels[0].Active != pos(0, 2) || sels[1].Active != pos(0, 4) {
		t.Errorf("carets = %v and %v, want {0 2} and {0 4}", sels[0].Active, sels[1].Active)
	}
}

func TestMultiCursorEditIsOneUndoUnit(t *testing.T) {
	e := newTestEditor("one\ntwo\nthree")
	e.Cursors().SetAll(e.GetBuffer(), []types.Selection{
		types.Caret(pos(0, 3)),
		types.Caret(pos(1, 3)),
		types.Caret(pos(2, 5)),
	}, 0)
	if err := e.InsertText("!"); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "one!\ntwo!\nthree!" {
		t.Errorf("content = %q", got)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "one\ntwo\nthree" {
		t.Errorf("after undo: %q", got)
	}
	if e.Cursors().Count() != 3 {
		t.Errorf("undo should restore all three cursors, got %d", e.Cursors().Count())
	}

	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "one!\ntwo!\nthree!" {
		t.Errorf("after redo: %q", got)
	}
}

func TestUndoRestoresCursorSet(t *testing.T) {
	e := newTestEditor("abc")
	e.SetCursor(pos(0, 3))
	if err := e.InsertText("d"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := e.Cursors().Primary().Active; got != pos(0, 3) {
		t.Errorf("caret after undo = %v, want {0 3}", got)
	}
}

func TestTypingCoalescesIntoOneUndo(t *testing.T) {
	e := newTestEditor("")
	for _, r := range "test" {
		if err := e.InsertRune(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "" {
		t.Errorf("typing a word should undo in one step, got %q", got)
	}
}

func TestCursorMoveBreaksCoalescing(t *testing.T) {
	e := newTestEditor("")
	_ = e.InsertRune('a')
	e.MoveCursor(0, 0, false)
	_ = e.InsertRune('b')
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "a" {
		t.Errorf("content after one undo = %q, want %q", got, "a")
	}
}

func TestInsertRuneAutoCloses(t *testing.T) {
	e := newTestEditor("")
	if err := e.InsertRune('('); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "()" {
		t.Errorf("content = %q, want auto-closed pair", got)
	}
	if got := e.Cursors().Primary().Active; got != pos(0, 1) {
		t.Errorf("caret = %v, want between the pair", got)
	}

	// Typing the closer skips over the existing one.
	if err := e.InsertRune(')'); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "()" {
		t.Errorf("content = %q after skip, want unchanged", got)
	}
	if got := e.Cursors().Primary().Active; got != pos(0, 2) {
		t.Errorf("caret = %v after skip, want {0 2}", got)
	}
}

func TestBackspaceDeletesPair(t *testing.T) {
	e := newTestEditor("")
	_ = e.InsertRune('(')
	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "" {
		t.Errorf("content = %q, want both pair characters gone", got)
	}
}

func TestNewlineAutoIndents(t *testing.T) {
	e := newTestEditor("def f():")
	e.SetCursor(pos(0, 8))
	if err := e.InsertNewLine(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "def f():\n    " {
		t.Errorf("content = %q", got)
	}
	if got := e.Cursors().Primary().Active; got != pos(1, 4) {
		t.Errorf("caret = %v, want {1 4}", got)
	}
}

func TestDeleteForwardJoinsLines(t *testing.T) {
	e := newTestEditor("ab\ncd")
	e.SetCursor(pos(0, 2))
	if err := e.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "abcd" {
		t.Errorf("content = %q", got)
	}
}

func TestToggleCommentRoundTrip(t *testing.T) {
	e := newTestEditor("x = 1\ny = 2")
	e.SetLanguage("python")
	e.Cursors().SetAll(e.GetBuffer(), []types.Selection{{Anchor: pos(0, 0), Active: pos(1, 5)}}, 0)

	if err := e.ToggleComment(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "# x = 1\n# y = 2" {
		t.Errorf("after comment: %q", got)
	}
	if err := e.ToggleComment(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "x = 1\ny = 2" {
		t.Errorf("after uncomment: %q", got)
	}
}

func TestDuplicateAndMoveLines(t *testing.T) {
	e := newTestEditor("one\ntwo")
	e.SetCursor(pos(0, 1))
	if err := e.DuplicateLines(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "one\none\ntwo" {
		t.Errorf("after duplicate: %q", got)
	}

	if err := e.MoveLines(1); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "one\none\ntwo" && got != "one\ntwo\none" {
		t.Errorf("after move down: %q", got)
	}
}

func TestIndentAndUnindent(t *testing.T) {
	e := newTestEditor("a\nb")
	e.Cursors().SetAll(e.GetBuffer(), []types.Selection{{Anchor: pos(0, 0), Active: pos(1, 1)}}, 0)
	if err := e.IndentLines(1); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "    a\n    b" {
		t.Errorf("after indent: %q", got)
	}
	if err := e.IndentLines(-1); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "a\nb" {
		t.Errorf("after unindent: %q", got)
	}
}

func TestReplaceAll(t *testing.T) {
	e := newTestEditor("foo bar\nbar foo foo")
	n, err := e.ReplaceAll(`foo`, "qux")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("replaced %d matches, want 3", n)
	}
	if got := content(e); got != "qux bar\nbar qux qux" {
		t.Errorf("content = %q", got)
	}

	// The whole sweep is one undo unit.
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "foo bar\nbar foo foo" {
		t.Errorf("after undo: %q", got)
	}
}

func TestReplaceAllExpandsGroups(t *testing.T) {
	e := newTestEditor("a=1")
	if _, err := e.ReplaceAll(`(\w+)=(\w+)`, "$2=$1"); err != nil {
		t.Fatal(err)
	}
	if got := content(e); got != "1=a" {
		t.Errorf("content = %q", got)
	}
}

func TestFindForwardAndBackward(t *testing.T) {
	e := newTestEditor("alpha\nbeta\nalpha")
	e.SetCursor(pos(0, 0))

	p, ok := e.Find("alpha", true)
	if !ok || p != pos(2, 0) {
		t.Errorf("forward find = %v %v, want {2 0} (search starts past the caret)", p, ok)
	}

	e.SetCursor(pos(2, 0))
	p, ok = e.Find("alpha", false)
	if !ok || p != pos(0, 0) {
		t.Errorf("backward find = %v %v, want {0 0}", p, ok)
	}

	if _, ok := e.Find("missing", true); ok {
		t.Error("found a term that is not there")
	}
}

func TestFindAndSelect(t *testing.T) {
	e := newTestEditor("say hello twice hello")
	e.SetCursor(pos(0, 0))
	if !e.FindAndSelect("hello", true) {
		t.Fatal("expected a match")
	}
	start, end := e.Cursors().Primary().Normalized()
	if start != pos(0, 4) || end != pos(0, 9) {
		t.Errorf("selection = %v..%v, want 4..9", start, end)
	}
}

func TestHighlightMatches(t *testing.T) {
	e := newTestEditor("x x x")
	e.HighlightMatches("x")
	if got := len(e.GetHighlights()); got != 3 {
		t.Errorf("highlight count = %d, want 3", got)
	}
	e.ClearHighlights()
	if len(e.GetHighlights()) != 0 {
		t.Error("highlights should be cleared")
	}
}

func TestMatchBracket(t *testing.T) {
	e := newTestEditor("f(a, g(b))")
	e.SetCursor(pos(0, 2)) // Just after the first '('
	at, match, ok := e.MatchBracket()
	if !ok {
		t.Fatal("expected a match")
	}
	if at != pos(0, 1) || match != pos(0, 9) {
		t.Errorf("match = %v -> %v, want {0 1} -> {0 9}", at, match)
	}

	e.SetCursor(pos(0, 10)) // Just after the outer ')'
	at, match, ok = e.MatchBracket()
	if !ok || at != pos(0, 9) || match != pos(0, 1) {
		t.Errorf("closer match = %v -> %v %v, want {0 9} -> {0 1}", at, match, ok)
	}

	e.SetCursor(pos(0, 0))
	if _, _, ok := e.MatchBracket(); ok {
		t.Error("no bracket at caret should not match")
	}
}

func TestMatchBracketAcrossLines(t *testing.T) {
	e := newTestEditor("{\n  x\n}")
	e.SetCursor(pos(0, 1))
	_, match, ok := e.MatchBracket()
	if !ok || match != pos(2, 0) {
		t.Errorf("match = %v %v, want {2 0}", match, ok)
	}
}

func TestGotoLineClamps(t *testing.T) {
	e := newTestEditor("a\nb\nc")
	e.GotoLine(2)
	if got := e.Cursors().Primary().Active; got != pos(1, 0) {
		t.Errorf("caret = %v, want {1 0}", got)
	}
	e.GotoLine(99)
	if got := e.Cursors().Primary().Active; got != pos(2, 0) {
		t.Errorf("caret = %v, want clamped to last line", got)
	}
}

func TestReadOnlyRejectsEdits(t *testing.T) {
	e := newTestEditor("x")
	e.SetReadOnly(true)
	if err := e.InsertText("y"); err != ErrReadOnly {
		t.Errorf("err = %v, want ErrReadOnly", err)
	}
	if got := content(e); got != "x" {
		t.Errorf("content changed: %q", got)
	}
}

func TestStaleHistoryAfterExternalEdit(t *testing.T) {
	e := newTestEditor("")
	_ = e.InsertText("abc")
	// Mutate the buffer behind the editor's back.
	if _, _, err := e.GetBuffer().Insert(pos(0, 0), []byte("zzz")); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("stale undo should be swallowed, got %v", err)
	}
	if got := content(e); got != "zzzabc" {
		t.Errorf("stale undo must not touch the buffer: %q", got)
	}
	if e.GetHistoryManager().CanUndo() {
		t.Error("stale history should be discarded")
	}
}

func TestRangeTextMultiLine(t *testing.T) {
	e := newTestEditor("hello\nworld")
	got, err := e.RangeText(pos(0, 3), pos(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "lo\nwo" {
		t.Errorf("RangeText = %q", got)
	}
}
