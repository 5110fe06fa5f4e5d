package irgen

import (
	"fmt"

	"github.com/you-not-fish/pinsc/internal/syntax"
)

// Error is a code generation error: a node is missing one of the
// annotations the generator depends on.
type Error struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type bailout struct{ err *Error }
