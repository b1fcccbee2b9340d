// internal/theme/theme.go
package theme

import (
	"github.com/gdamore/tcell/v2"

	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/darealtrueblue/codeforge/internal/types"
)

// Theme maps style names to tcell styles. Syntax styles are keyed by the
// TokenKind names; UI elements use their own names.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle looks up a style by name, falling back to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if def, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme %q: style %q not found, using Default", t.Name, name)
		}
		return def
	}
	logger.Warnf("Theme %q: style %q and Default missing, using tcell default", t.Name, name)
	return tcell.StyleDefault
}

// StyleForKind returns the style for a syntax token kind.
func (t *Theme) StyleForKind(kind types.TokenKind) tcell.Style {
	return t.GetStyle(kind.String())
}

// ForgeDark is the default theme.
var ForgeDark Theme

func init() {
	fg := tcell.NewHexColor(0xc5cdd9)      // Soft off-white
	comment := tcell.NewHexColor(0x5c6370) // Muted grey
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	magenta := tcell.NewHexColor(0xc678dd)
	barBG := tcell.NewHexColor(0x2a2f38)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)

	ForgeDark = Theme{
		Name:   "Forge Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			// --- UI elements ---
			"Default":         base,
			"Selection":       base.Reverse(true),
			"SearchHighlight": tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),
			"MatchBracket":    base.Background(tcell.NewHexColor(0x515c6a)).Foreground(tcell.ColorYellow),
			"LineNumber":      base.Foreground(comment),

			"StatusBar":         tcell.StyleDefault.Background(barBG).Foreground(fg),
			"StatusBarModified": tcell.StyleDefault.Background(barBG).Foreground(yellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(barBG).Foreground(fg).Bold(true),
			"StatusBarPrompt":   tcell.StyleDefault.Background(barBG).Foreground(green).Bold(true),

			"Minimap":         base.Foreground(comment),
			"MinimapComment":  base.Foreground(comment).Dim(true),
			"MinimapHeading":  base.Foreground(blue),
			"MinimapViewport": tcell.StyleDefault.Background(tcell.NewHexColor(0x3a4250)),

			// --- Syntax, keyed by TokenKind names ---
			"Text":      base,
			"Keyword":   base.Foreground(blue).Bold(true),
			"String":    base.Foreground(green),
			"Comment":   base.Foreground(comment).Italic(true),
			"Number":    base.Foreground(orange),
			"Function":  base.Foreground(yellow),
			"Type":      base.Foreground(cyan),
			"Constant":  base.Foreground(orange),
			"Operator":  base.Foreground(fg),
			"Preproc":   base.Foreground(magenta),
			"Tag":       base.Foreground(blue),
			"Attribute": base.Foreground(yellow),
		},
	}

	CurrentTheme = &ForgeDark
}

// CurrentTheme is the process-wide active theme.
var CurrentTheme *Theme

// GetCurrentTheme returns the active theme, defaulting to ForgeDark.
func GetCurrentTheme() *Theme {
	if CurrentTheme == nil {
		CurrentTheme = &ForgeDark
	}
	return CurrentTheme
}

// SetCurrentTheme switches the active theme.
func SetCurrentTheme(t *Theme) {
	if t != nil {
		CurrentTheme = t
		logger.Infof("Theme switched to: %s", t.Name)
	}
}
