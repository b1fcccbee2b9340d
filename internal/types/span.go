// internal/types/span.go
package types

// TokenKind classifies a highlighted span of text.
type TokenKind int

const (
	KindText TokenKind = iota // Default / unstyled
	KindKeyword
	KindString
	KindComment
	KindNumber
	KindFunction
	KindType
	KindConstant
	KindOperator
	KindPreproc
	KindTag       // Markup element names
	KindAttribute // Markup attributes
)

var kindNames = map[TokenKind]string{
	KindText:      "Text",
	KindKeyword:   "Keyword",
	KindString:    "String",
	KindComment:   "Comment",
	KindNumber:    "Number",
	KindFunction:  "Function",
	KindType:      "Type",
	KindConstant:  "Constant",
	KindOperator:  "Operator",
	KindPreproc:   "Preproc",
	KindTag:       "Tag",
	KindAttribute: "Attribute",
}

// String returns the name used for theme style lookup.
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Text"
}

// HighlightSpan is a styled run within a single line, in rune columns
// (StartCol inclusive, EndCol exclusive).
type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     TokenKind
}
