package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEventBasicKeys(t *testing.T) {
	p := NewInputProcessor()

	cases := []struct {
		ev   *tcell.EventKey
		want ActionEvent
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionEvent{Action: ActionMoveUp}},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), ActionEvent{Action: ActionMoveUp, Extend: true}},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionEvent{Action: ActionInsertNewLine}},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionEvent{Action: ActionInsertRune, Rune: 'x'}},
		{tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionEvent{Action: ActionUndo}},
		{tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), ActionEvent{Action: ActionSave}},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModCtrl), ActionEvent{Action: ActionMoveWordLeft}},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModCtrl | tcell.ModShift), ActionEvent{Action: ActionMoveWordLeft, Extend: true}},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt), ActionEvent{Action: ActionMoveLinesUp}},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModCtrl | tcell.ModAlt), ActionEvent{Action: ActionAddCursorAbove}},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionEvent{Action: ActionEscape}},
		{tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), ActionEvent{Action: ActionUnindent}},
		{tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone), ActionEvent{Action: ActionFindNext}},
		{tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift), ActionEvent{Action: ActionFindPrev}},
		{tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), ActionEvent{Action: ActionReplace}},
	}
	for _, tc := range cases {
		if got := p.ProcessEvent(tc.ev); got != tc.want {
			t.Errorf("ProcessEvent(%v/%v) = %+v, want %+v", tc.ev.Key(), tc.ev.Modifiers(), got, tc.want)
		}
	}
}

func TestCtrlChordImpliesModifier(t *testing.T) {
	p := NewInputProcessor()
	// Some terminals deliver Ctrl+Z without the modifier bit set.
	got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModNone))
	if got.Action != ActionUndo {
		t.Errorf("bare KeyCtrlZ = %+v, want undo", got)
	}
}

func TestDuplicateLinesNotCoalescedWithShift(t *testing.T) {
	p := NewInputProcessor()
	// Shift on a non-movement chord must not set Extend.
	got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl|tcell.ModShift))
	if got.Action != ActionDuplicateLines || got.Extend {
		t.Errorf("got %+v, want duplicate without extend", got)
	}
}
