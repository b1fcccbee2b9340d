// internal/buffer/buffer.go
package buffer

import (
	"errors"

	"github.com/darealtrueblue/codeforge/internal/types"
)

// ErrOutOfRange is returned when a position or range does not address valid
// content. The buffer never clamps; callers that want clamping (the cursor
// layer does) clamp before calling.
var ErrOutOfRange = errors.New("buffer: position out of range")

// Buffer defines the interface for text buffer operations. Positions are
// (line, rune column) pairs; the column one past the last rune of a line is
// valid and addresses the line's end.
type Buffer interface {
	Load(filePath string) error
	Save(filePath string) error
	FilePath() string
	IsModified() bool

	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	Bytes() []byte

	// Insert places text at pos and returns the position just past the
	// inserted text along with the edit's dirty range.
	Insert(pos types.Position, text []byte) (types.Position, types.EditInfo, error)
	// Delete removes [start, end) and returns the removed bytes along with
	// the edit's dirty range.
	Delete(start, end types.Position) ([]byte, types.EditInfo, error)

	// OffsetOf and PositionOf convert between positions and document-wide
	// rune offsets, counting each line break as one rune.
	OffsetOf(pos types.Position) (int, error)
	PositionOf(offset int) (types.Position, error)

	// Revision is a counter incremented by every successful mutation.
	Revision() uint64
}
