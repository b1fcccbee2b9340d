// internal/highlight/language.go
package highlight

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// compiledRule is a RuleSpec with its patterns compiled. The main pattern is
// wrapped in "^(?:...)" so it only matches at the scan position.
type compiledRule struct {
	re       *regexp.Regexp
	endRe    *regexp.Regexp // non-nil for block rules
	kind     types.TokenKind
	submatch int
	state    LineState // state entered when a block rule runs past the line
}

// Language is the compiled, immutable form of a LanguageSpec. A Language
// with no rules highlights everything as plain text.
type Language struct {
	name       string
	extensions []string
	rules      []compiledRule
	blocks     []compiledRule // block rules indexed by LineState - 1
}

// Compile turns a spec into a usable Language. Any invalid pattern aborts
// with ErrPatternCompile; callers typically fall back to PlainText.
func Compile(spec LanguageSpec) (*Language, error) {
	lang := &Language{
		name:       spec.Name,
		extensions: spec.Extensions,
	}
	for _, rs := range spec.Rules {
		re, err := regexp.Compile("^(?:" + rs.Pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("%w: %s rule %q: %v", ErrPatternCompile, spec.Name, rs.Pattern, err)
		}
		cr := compiledRule{re: re, kind: rs.Kind, submatch: rs.Submatch}
		if rs.BlockEnd != "" {
			endRe, err := regexp.Compile(rs.BlockEnd)
			if err != nil {
				return nil, fmt.Errorf("%w: %s block end %q: %v", ErrPatternCompile, spec.Name, rs.BlockEnd, err)
			}
			cr.endRe = endRe
			cr.state = LineState(len(lang.blocks) + 1)
			lang.blocks = append(lang.blocks, cr)
		}
		lang.rules = append(lang.rules, cr)
	}
	return lang, nil
}

// PlainText returns a language with no rules.
func PlainText() *Language {
	return &Language{name: "text"}
}

// Name returns the language name.
func (l *Language) Name() string { return l.name }

// Extensions returns the file extensions this language claims.
func (l *Language) Extensions() []string { return l.extensions }

// HighlightLine tokenizes one line given the state its previous line ended
// in. Columns in the returned spans are rune indices. Plain text produces no
// spans.
func (l *Language) HighlightLine(line []byte, entry LineState) ([]types.HighlightSpan, LineState) {
	var spans []types.HighlightSpan
	pos := 0
	runeCol := 0

	// Finish a construct carried over from the previous line.
	if entry != StateNormal {
		block := l.block(entry)
		if block == nil {
			entry = StateNormal
		} else {
			loc := block.endRe.FindIndex(line)
			if loc == nil {
				if len(line) > 0 {
					spans = append(spans, types.HighlightSpan{
						StartCol: 0,
						EndCol:   utf8.RuneCount(line),
						Kind:     block.kind,
					})
				}
				return spans, entry
			}
			end := loc[1]
			spans = append(spans, types.HighlightSpan{
				StartCol: 0,
				EndCol:   utf8.RuneCount(line[:end]),
				Kind:     block.kind,
			})
			pos = end
			runeCol = utf8.RuneCount(line[:end])
		}
	}

	state := StateNormal
	for pos < len(line) {
		rule, loc := l.matchAt(line[pos:])
		if rule == nil {
			// No rule here. Skip a whole word run so keyword patterns never
			// anchor in the middle of an identifier.
			r, size := utf8.DecodeRune(line[pos:])
			if isWordRune(r) {
				for pos < len(line) {
					r, size = utf8.DecodeRune(line[pos:])
					if !isWordRune(r) {
						break
					}
					pos += size
					runeCol++
				}
			} else {
				pos += size
				runeCol++
			}
			continue
		}

		start, end := loc[0], loc[1]
		if rule.submatch > 0 && len(loc) > rule.submatch*2+1 && loc[rule.submatch*2] >= 0 {
			start = loc[rule.submatch*2]
			end = loc[rule.submatch*2+1]
		}
		if end <= 0 || end <= start {
			// Zero-width match; treat as no match to guarantee progress.
			_, size := utf8.DecodeRune(line[pos:])
			pos += size
			runeCol++
			continue
		}

		if rule.endRe != nil {
			// Block rule: look for the closing delimiter after the opener.
			openEnd := pos + loc[1]
			closeLoc := rule.endRe.FindIndex(line[openEnd:])
			if closeLoc == nil {
				// Construct runs past the line.
				spans = append(spans, types.HighlightSpan{
					StartCol: runeCol,
					EndCol:   runeCol + utf8.RuneCount(line[pos:]),
					Kind:     rule.kind,
				})
				return spans, rule.state
			}
			constructEnd := openEnd + closeLoc[1]
			spans = append(spans, types.HighlightSpan{
				StartCol: runeCol,
				EndCol:   runeCol + utf8.RuneCount(line[pos:constructEnd]),
				Kind:     rule.kind,
			})
			runeCol += utf8.RuneCount(line[pos:constructEnd])
			pos = constructEnd
			continue
		}

		if rule.kind != types.KindText {
			spans = append(spans, types.HighlightSpan{
				StartCol: runeCol + utf8.RuneCount(line[pos:pos+start]),
				EndCol:   runeCol + utf8.RuneCount(line[pos:pos+end]),
				Kind:     rule.kind,
			})
		}
		runeCol += utf8.RuneCount(line[pos : pos+end])
		pos += end
	}

	return spans, state
}

// matchAt tries every rule at the given offset and returns the first that
// matches, honoring declaration order.
func (l *Language) matchAt(rest []byte) (*compiledRule, []int) {
	for i := range l.rules {
		rule := &l.rules[i]
		loc := rule.re.FindSubmatchIndex(rest)
		if loc != nil && loc[1] > 0 {
			return rule, loc
		}
	}
	return nil, nil
}

func (l *Language) block(state LineState) *compiledRule {
	idx := int(state) - 1
	if idx < 0 || idx >= len(l.blocks) {
		return nil
	}
	return &l.blocks[idx]
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r >= utf8.RuneSelf
}
