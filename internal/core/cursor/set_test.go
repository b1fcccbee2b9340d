package cursor

import (
	"testing"

	"github.com/darealtrueblue/codeforge/internal/buffer"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func doc(content string) Doc {
	return buffer.NewLineBufferFromString(content)
}

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func TestNewSetStartsAtOrigin(t *testing.T) {
	s := NewSet()
	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1", s.Count())
	}
	if s.Primary() != types.Caret(pos(0, 0)) {
		t.Errorf("Primary = %v", s.Primary())
	}
}

func TestResetToClamps(t *testing.T) {
	d := doc("abc\nde")
	s := NewSet()
	s.ResetTo(d, pos(9, 9))
	if got := s.Primary().Active; got != pos(1, 2) {
		t.Errorf("Active = %v, want {1 2}", got)
	}
	s.ResetTo(d, pos(-1, -5))
	if got := s.Primary().Active; got != pos(0, 0) {
		t.Errorf("Active = %v, want {0 0}", got)
	}
}

func TestAddAndNormalizeMergesOverlaps(t *testing.T) {
	d := doc("aaaa\nbbbb\ncccc")
	s := NewSet()
	s.SetPrimary(d, types.Selection{Anchor: pos(0, 0), Active: pos(0, 3)})
	s.Add(d, types.Selection{Anchor: pos(0, 2), Active: pos(1, 1)})
	if s.Count() != 1 {
		t.Fatalf("overlapping selections should merge, Count = %d", s.Count())
	}
	start, end := s.Primary().Normalized()
	if start != pos(0, 0) || end != pos(1, 1) {
		t.Errorf("merged range = %v..%v", start, end)
	}
}

func TestNormalizeMergesTouchingCarets(t *testing.T) {
	d := doc("aaaa")
	s := NewSet()
	s.ResetTo(d, pos(0, 2))
	s.Add(d, types.Caret(pos(0, 2)))
	if s.Count() != 1 {
		t.Errorf("coincident carets should merge, Count = %d", s.Count())
	}
}

func TestNormalizeKeepsDisjoint(t *testing.T) {
	d := doc("aaaa\nbbbb")
	s := NewSet()
	s.ResetTo(d, pos(0, 1))
	s.Add(d, types.Caret(pos(1, 1)))
	if s.Count() != 2 {
		t.Errorf("disjoint carets should stay, Count = %d", s.Count())
	}
	all := s.All()
	if !all[0].Active.Before(all[1].Active) {
		t.Errorf("selections not in document order: %v", all)
	}
}

func TestPrimaryFollowsMerge(t *testing.T) {
	d := doc("aaaaaa")
	s := NewSet()
	s.ResetTo(d, pos(0, 5))
	s.Add(d, types.Caret(pos(0, 1)))
	// Two cursors; primary is still the one at col 5.
	if s.Primary().Active != pos(0, 5) {
		t.Fatalf("Primary = %v", s.Primary())
	}
	// A selection swallowing the primary becomes primary itself.
	s.Add(d, types.Selection{Anchor: pos(0, 4), Active: pos(0, 6)})
	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}
	start, end := s.Primary().Normalized()
	if start != pos(0, 4) || end != pos(0, 6) {
		t.Errorf("primary after merge = %v..%v", start, end)
	}
}

func TestAddAboveBelow(t *testing.T) {
	d := doc("aaaa\nbb\ncccc")
	s := NewSet()
	s.ResetTo(d, pos(1, 2))

	s.AddAbove(d)
	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}
	all := s.All()
	if all[0].Active != pos(0, 2) {
		t.Errorf("cursor above = %v, want {0 2}", all[0].Active)
	}

	s.AddBelow(d)
	all = s.All()
	if len(all) != 3 || all[2].Active != pos(2, 2) {
		t.Errorf("cursor below = %v", all)
	}
}

func TestAddAboveClampsShortLine(t *testing.T) {
	d := doc("a\nlonger")
	s := NewSet()
	s.ResetTo(d, pos(1, 5))
	s.AddAbove(d)
	all := s.All()
	if all[0].Active != pos(0, 1) {
		t.Errorf("cursor above = %v, want clamped to {0 1}", all[0].Active)
	}
}

func TestAddAboveAtFirstLineIsNoOp(t *testing.T) {
	d := doc("aa\nbb")
	s := NewSet()
	s.ResetTo(d, pos(0, 1))
	s.AddAbove(d)
	if s.Count() != 1 {
		t.Errorf("AddAbove at line 0 should be a no-op, Count = %d", s.Count())
	}
	s.ResetTo(d, pos(1, 1))
	s.AddBelow(d)
	if s.Count() != 1 {
		t.Errorf("AddBelow at last line should be a no-op, Count = %d", s.Count())
	}
}

func TestApplyEditShiftsLaterCursors(t *testing.T) {
	d := doc("aaaa\nbbbb\ncccc")
	s := NewSet()
	s.ResetTo(d, pos(0, 2))
	s.Add(d, types.Caret(pos(2, 2)))

	// Insert two lines at the top.
	edit := types.EditInfo{
		Start:  pos(0, 0),
		OldEnd: pos(0, 0),
		NewEnd: pos(2, 0),
	}
	s.ApplyEdit(edit)
	all := s.All()
	if all[0].Active != pos(2, 2) {
		t.Errorf("first cursor = %v, want {2 2}", all[0].Active)
	}
	if all[1].Active != pos(4, 2) {
		t.Errorf("second cursor = %v, want {4 2}", all[1].Active)
	}
}

func TestApplyEditCollapsesCursorInsideDeletion(t *testing.T) {
	s := NewSet()
	d := doc("aaaa\nbbbb\ncccc")
	s.ResetTo(d, pos(1, 2))

	// Delete lines 1..2; the cursor sat inside the removed range.
	edit := types.EditInfo{
		Start:  pos(0, 4),
		OldEnd: pos(2, 0),
		NewEnd: pos(0, 4),
	}
	s.ApplyEdit(edit)
	if got := s.Primary().Active; got != pos(0, 4) {
		t.Errorf("cursor = %v, want collapsed to {0 4}", got)
	}
}

func TestMoveHorizontalWrapsLines(t *testing.T) {
	d := doc("ab\ncd")
	s := NewSet()
	s.ResetTo(d, pos(0, 2))
	s.MoveHorizontal(d, 1, false)
	if got := s.Primary().Active; got != pos(1, 0) {
		t.Errorf("after right at EOL: %v, want {1 0}", got)
	}
	s.MoveHorizontal(d, -1, false)
	if got := s.Primary().Active; got != pos(0, 2) {
		t.Errorf("after left at BOL: %v, want {0 2}", got)
	}
}

func TestMoveHorizontalCollapsesSelection(t *testing.T) {
	d := doc("abcdef")
	s := NewSet()
	s.SetPrimary(d, types.Selection{Anchor: pos(0, 1), Active: pos(0, 4)})
	s.MoveHorizontal(d, -1, false)
	if got := s.Primary(); got != types.Caret(pos(0, 1)) {
		t.Errorf("left over selection = %v, want caret at start", got)
	}
}

func TestMoveVerticalKeepsGoalColumn(t *testing.T) {
	d := doc("abcdef\nab\nabcdef")
	s := NewSet()
	s.ResetTo(d, pos(0, 5))
	s.MoveVertical(d, 1, false)
	if got := s.Primary().Active; got != pos(1, 2) {
		t.Errorf("on short line: %v, want {1 2}", got)
	}
	s.MoveVertical(d, 1, false)
	if got := s.Primary().Active; got != pos(2, 5) {
		t.Errorf("goal column lost: %v, want {2 5}", got)
	}
}

func TestMoveLineStartTogglesSmartHome(t *testing.T) {
	d := doc("    indented")
	s := NewSet()
	s.ResetTo(d, pos(0, 8))
	s.MoveLineStart(d, false)
	if got := s.Primary().Active; got != pos(0, 4) {
		t.Errorf("first home: %v, want first non-blank {0 4}", got)
	}
	s.MoveLineStart(d, false)
	if got := s.Primary().Active; got != pos(0, 0) {
		t.Errorf("second home: %v, want {0 0}", got)
	}
}

func TestMoveWord(t *testing.T) {
	d := doc("foo bar_baz  qux")
	s := NewSet()
	s.ResetTo(d, pos(0, 0))
	s.MoveWord(d, 1, false)
	if got := s.Primary().Active; got != pos(0, 4) {
		t.Errorf("word right: %v, want {0 4}", got)
	}
	s.MoveWord(d, 1, false)
	if got := s.Primary().Active; got != pos(0, 13) {
		t.Errorf("word right over underscore ident: %v, want {0 13}", got)
	}
	s.MoveWord(d, -1, false)
	if got := s.Primary().Active; got != pos(0, 4) {
		t.Errorf("word left: %v, want {0 4}", got)
	}
}

func TestExtendKeepsAnchor(t *testing.T) {
	d := doc("abcdef")
	s := NewSet()
	s.ResetTo(d, pos(0, 1))
	s.MoveHorizontal(d, 3, true)
	sel := s.Primary()
	if sel.Anchor != pos(0, 1) || sel.Active != pos(0, 4) {
		t.Errorf("extended selection = %v", sel)
	}
}
