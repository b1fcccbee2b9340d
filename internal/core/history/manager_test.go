package history

import (
	"errors"
	"testing"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func snap(p types.Position) SelSnapshot {
	return SelSnapshot{Sels: []types.Selection{types.Caret(p)}}
}

// typeText inserts text at p and records the resulting unit, the way the
// editor layer does for a keystroke.
func typeText(t *testing.T, m *Manager, buf buffer.Buffer, p types.Position, text string) types.Position {
	t.Helper()
	end, _, err := buf.Insert(p, []byte(text))
	if err != nil {
		t.Fatalf("Insert %q at %v: %v", text, p, err)
	}
	m.Record(Unit{
		Ops:    []Op{{Type: InsertAction, Text: []byte(text), Start: p, End: end}},
		Before: snap(p),
		After:  snap(end),
	}, buf.Revision())
	return end
}

func TestUndoRedoRoundTrip(t *testing.T) {
	buf := buffer.NewLineBufferFromString("hello")
	m := NewManager(0)
	m.Clear(buf.Revision())

	typeText(t, m, buf, pos(0, 5), "!")
	if got := string(buf.Bytes()); got != "hello!" {
		t.Fatalf("content = %q", got)
	}

	edits, before, err := m.Undo(buf)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(edits))
	}
	if got := string(buf.Bytes()); got != "hello" {
		t.Errorf("after undo: %q", got)
	}
	if before.Sels[0].Active != pos(0, 5) {
		t.Errorf("restored selection = %v", before.Sels[0])
	}

	_, after, err := m.Redo(buf)
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := string(buf.Bytes()); got != "hello!" {
		t.Errorf("after redo: %q", got)
	}
	if after.Sels[0].Active != pos(0, 6) {
		t.Errorf("redo selection = %v", after.Sels[0])
	}
}

func TestTypingBurstCoalesces(t *testing.T) {
	buf := buffer.NewLineBufferFromString("")
	m := NewManager(0)
	m.Clear(buf.Revision())

	p := pos(0, 0)
	for _, ch := range []string{"t", "e", "s", "t"} {
		p = typeText(t, m, buf, p, ch)
	}
	if got := string(buf.Bytes()); got != "test" {
		t.Fatalf("content = %q", got)
	}

	// The whole burst undoes in one step.
	if _, _, err := m.Undo(buf); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := string(buf.Bytes()); got != "" {
		t.Errorf("after undo: %q, want empty", got)
	}
	if m.CanUndo() {
		t.Error("burst should have been a single unit")
	}
}

func TestWhitespaceBreaksBurst(t *testing.T) {
	buf := buffer.NewLineBufferFromString("")
	m := NewManager(0)
	m.Clear(buf.Revision())

	p := pos(0, 0)
	p = typeText(t, m, buf, p, "a")
	p = typeText(t, m, buf, p, "b")
	p = typeText(t, m, buf, p, " ")
	typeText(t, m, buf, p, "c")

	if _, _, err := m.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if got := string(buf.Bytes()); got != "ab " {
		t.Errorf("after one undo: %q, want %q", got, "ab ")
	}
}

func TestCursorMoveBreaksBurst(t *testing.T) {
	buf := buffer.NewLineBufferFromString("")
	m := NewManager(0)
	m.Clear(buf.Revision())

	p := typeText(t, m, buf, pos(0, 0), "a")
	m.BreakCoalescing() // user moved the cursor and came back
	typeText(t, m, buf, p, "b")

	if _, _, err := m.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if got := string(buf.Bytes()); got != "a" {
		t.Errorf("after one undo: %q, want %q", got, "a")
	}
}

func TestRecordTruncatesRedo(t *testing.T) {
	buf := buffer.NewLineBufferFromString("")
	m := NewManager(0)
	m.Clear(buf.Revision())

	p := typeText(t, m, buf, pos(0, 0), "a")
	m.BreakCoalescing()
	typeText(t, m, buf, p, "b")
	if _, _, err := m.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if !m.CanRedo() {
		t.Fatal("expected redo available")
	}

	typeText(t, m, buf, pos(0, 1), "x")
	if m.CanRedo() {
		t.Error("new edit must clear the redo stack")
	}
	if got := string(buf.Bytes()); got != "ax" {
		t.Errorf("content = %q", got)
	}
}

func TestMultiCursorUnitUndoesAtOnce(t *testing.T) {
	buf := buffer.NewLineBufferFromString("aa\nbb")
	m := NewManager(0)
	m.Clear(buf.Revision())

	// Simulate a two-cursor insert applied bottom-up.
	end1, _, err := buf.Insert(pos(1, 2), []byte("!"))
	if err != nil {
		t.Fatal(err)
	}
	end0, _, err := buf.Insert(pos(0, 2), []byte("!"))
	if err != nil {
		t.Fatal(err)
	}
	m.Record(Unit{
		Ops: []Op{
			{Type: InsertAction, Text: []byte("!"), Start: pos(1, 2), End: end1},
			{Type: InsertAction, Text: []byte("!"), Start: pos(0, 2), End: end0},
		},
		Before: SelSnapshot{Sels: []types.Selection{types.Caret(pos(0, 2)), types.Caret(pos(1, 2))}},
		After:  SelSnapshot{Sels: []types.Selection{types.Caret(end0), types.Caret(end1)}},
	}, buf.Revision())

	if got := string(buf.Bytes()); got != "aa!\nbb!" {
		t.Fatalf("content = %q", got)
	}

	edits, before, err := m.Undo(buf)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(edits) != 2 {
		t.Errorf("edits = %d, want 2", len(edits))
	}
	if got := string(buf.Bytes()); got != "aa\nbb" {
		t.Errorf("after undo: %q", got)
	}
	if len(before.Sels) != 2 {
		t.Errorf("restored %d selections, want 2", len(before.Sels))
	}

	if _, _, err := m.Redo(buf); err != nil {
		t.Fatal(err)
	}
	if got := string(buf.Bytes()); got != "aa!\nbb!" {
		t.Errorf("after redo: %q", got)
	}
}

func TestStaleBufferDiscardsHistory(t *testing.T) {
	buf := buffer.NewLineBufferFromString("abc")
	m := NewManager(0)
	m.Clear(buf.Revision())

	typeText(t, m, buf, pos(0, 3), "!")

	// Mutation outside the history pipeline.
	if _, _, err := buf.Insert(pos(0, 0), []byte("x")); err != nil {
		t.Fatal(err)
	}

	_, _, err := m.Undo(buf)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("Undo after external edit: err = %v, want ErrStale", err)
	}
	if m.CanUndo() || m.CanRedo() {
		t.Error("stale history should be discarded entirely")
	}
	// The buffer is untouched by the failed undo.
	if got := string(buf.Bytes()); got != "xabc!" {
		t.Errorf("content = %q", got)
	}
}

func TestUndoOnEmptyStackIsNoOp(t *testing.T) {
	buf := buffer.NewLineBufferFromString("abc")
	m := NewManager(0)
	m.Clear(buf.Revision())

	edits, _, err := m.Undo(buf)
	if err != nil || edits != nil {
		t.Errorf("Undo on empty stack: edits=%v err=%v", edits, err)
	}
	edits, _, err = m.Redo(buf)
	if err != nil || edits != nil {
		t.Errorf("Redo on empty stack: edits=%v err=%v", edits, err)
	}
}
