package syntax

import "fmt"

// Loc is a single line/column location in a source file.
// Lines and columns are 1-based; the zero value is invalid.
type Loc struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// String returns "line:col".
func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Pos is the source range a node was parsed from.
// The zero value is an invalid position.
type Pos struct {
	start Loc
	end   Loc
}

// NewPos creates a position spanning start to end.
func NewPos(startLine, startCol, endLine, endCol uint32) Pos {
	return Pos{start: Loc{startLine, startCol}, end: Loc{endLine, endCol}}
}

// PosAt creates a position covering a single location.
func PosAt(line, col uint32) Pos {
	return NewPos(line, col, line, col)
}

// String returns "[start]" when the range is empty and "[start-end]" otherwise.
func (p Pos) String() string {
	if p.start == p.end {
		return "[" + p.start.String() + "]"
	}
	return "[" + p.start.String() + "-" + p.end.String() + "]"
}

// IsValid reports whether the position is valid.
func (p Pos) IsValid() bool {
	return p.start.Line > 0
}

// Start returns the first location of the range.
func (p Pos) Start() Loc { return p.start }

// End returns the last location of the range.
func (p Pos) End() Loc { return p.end }
