// internal/types/position.go
package types

// Position represents a cursor or text position within the buffer.
// Line is the 0-based line index.
// Col is the 0-based column (rune) index within the line.
// Using rune indices keeps column math correct for Unicode content.
type Position struct {
	Line int
	Col  int // Rune index
}

// Before reports whether p is strictly before other in document order.
func (p Position) Before(other Position) bool {
	return p.Line < other.Line || (p.Line == other.Line && p.Col < other.Col)
}

// After reports whether p is strictly after other in document order.
func (p Position) After(other Position) bool {
	return other.Before(p)
}
