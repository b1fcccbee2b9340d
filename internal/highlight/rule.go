// Package highlight implements an incremental regex lexer. Each language is
// an ordered list of rules; scanning tries rules in order at each position
// and the first match wins. Multi-line constructs carry a lexer state from
// one line to the next, so a line's tokens depend only on its text and its
// entry state.
package highlight

import (
	"errors"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// ErrPatternCompile is returned when a language definition contains an
// invalid regular expression. The language then degrades to plain text
// instead of failing the whole registry.
var ErrPatternCompile = errors.New("highlight: rule pattern failed to compile")

// RuleSpec defines one highlighting rule. Patterns are implicitly anchored
// at the scan position; a non-empty BlockEnd makes this a multi-line rule
// whose construct may continue onto following lines.
type RuleSpec struct {
	// Pattern matches the token (or the opening delimiter for block rules).
	Pattern string

	// BlockEnd, when non-empty, is the closing delimiter pattern searched
	// for after the opening match, possibly on a later line.
	BlockEnd string

	// Kind is the token kind assigned to matches.
	Kind types.TokenKind

	// Submatch selects a capture group to highlight instead of the whole
	// match; the scanner resumes right after the group, so trailing context
	// in the pattern is rescanned.
	Submatch int
}

// LanguageSpec is the uncompiled definition of a language's rules.
type LanguageSpec struct {
	Name       string
	Extensions []string
	Rules      []RuleSpec
}

// LineState identifies which multi-line construct, if any, a line ends
// inside. StateNormal means none; other values index the language's block
// rules.
type LineState int

const (
	// StateNormal is the default state between constructs.
	StateNormal LineState = 0

	// stateUnknown marks freshly spliced lines whose exit state has not
	// been computed yet; it never equals a computed state.
	stateUnknown LineState = -1
)
