package frame

import (
	"fmt"

	"github.com/you-not-fish/pinsc/internal/syntax"
)

// Error is a layout error. Layout only fails when the annotations it
// depends on are missing.
type Error struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// bailout is panicked with to abandon a layout on the first error.
type bailout struct{ err *Error }
