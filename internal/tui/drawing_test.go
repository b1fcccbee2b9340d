package tui

import (
	"testing"

	"github.com/darealtrueblue/codeforge/internal/config"
	"github.com/darealtrueblue/codeforge/internal/types"
)

func TestComputeLayoutPartitions(t *testing.T) {
	l := ComputeLayout(120, 40, 250, true)

	if l.ViewHeight != 40-config.StatusBarHeight {
		t.Errorf("ViewHeight = %d", l.ViewHeight)
	}
	// 250 lines needs 3 digits plus one padding column.
	if l.GutterWidth != 4 {
		t.Errorf("GutterWidth = %d", l.GutterWidth)
	}
	if l.MinimapX != 120-config.MinimapWidth {
		t.Errorf("MinimapX = %d", l.MinimapX)
	}
	if l.TextX != l.GutterWidth {
		t.Errorf("TextX = %d", l.TextX)
	}
	if l.TextWidth != 120-l.GutterWidth-config.MinimapWidth {
		t.Errorf("TextWidth = %d", l.TextWidth)
	}
}

func TestComputeLayoutHidesMinimapOnNarrowScreens(t *testing.T) {
	l := ComputeLayout(24, 10, 10, true)
	if l.MinimapX != -1 {
		t.Errorf("narrow screen should hide minimap, MinimapX = %d", l.MinimapX)
	}
	if l.TextWidth != 24-l.GutterWidth {
		t.Errorf("TextWidth = %d", l.TextWidth)
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	if got := calculateVisualColumn([]byte("hello"), 3); got != 3 {
		t.Errorf("ascii col = %d", got)
	}
	// CJK runes occupy two cells each.
	if got := calculateVisualColumn([]byte("日本語"), 2); got != 4 {
		t.Errorf("wide col = %d", got)
	}
	if got := calculateVisualColumn([]byte("abc"), 10); got != 3 {
		t.Errorf("past-end col = %d", got)
	}
}

func TestIsPositionWithin(t *testing.T) {
	start := types.Position{Line: 1, Col: 2}
	end := types.Position{Line: 2, Col: 1}

	cases := []struct {
		pos  types.Position
		want bool
	}{
		{types.Position{Line: 1, Col: 2}, true},
		{types.Position{Line: 1, Col: 1}, false},
		{types.Position{Line: 1, Col: 9}, true},
		{types.Position{Line: 2, Col: 0}, true},
		{types.Position{Line: 2, Col: 1}, false}, // End is exclusive
		{types.Position{Line: 0, Col: 5}, false},
	}
	for _, tc := range cases {
		if got := isPositionWithin(tc.pos, start, end); got != tc.want {
			t.Errorf("isPositionWithin(%v) = %v, want %v", tc.pos, got, tc.want)
		}
	}
}
