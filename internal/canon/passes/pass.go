// Package passes runs named rewrites over code chunks.
package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/you-not-fish/pinsc/internal/canon"
	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
)

// Pass describes a single rewrite of a code chunk.
type Pass struct {
	Name string
	Fn   func(c *ir.CodeChunk) error
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump IR before this pass ("*" for all)
	DumpAfter  string    // dump IR after this pass ("*" for all)
	Verify     bool      // verify canonical form after each pass
	DumpFunc   string    // restrict dumps to this chunk label
	Out        io.Writer // dump destination; os.Stderr if nil
}

// Run executes the given passes on c in order.
func Run(c *ir.CodeChunk, passes []Pass, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	name := c.Label().String()

	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, name) {
			fmt.Fprintf(out, "--- before %s (%s) ---\n", p.Name, name)
			ir.Fprint(out, c.Code)
			fmt.Fprintln(out)
		}

		if err := p.Fn(c); err != nil {
			return fmt.Errorf("%s (%s): %w", p.Name, name, err)
		}

		if cfg.Verify {
			if err := ir.VerifyCanonical(c.Code); err != nil {
				return fmt.Errorf("verify after %s (%s): %w", p.Name, name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, name) {
			fmt.Fprintf(out, "--- after %s (%s) ---\n", p.Name, name)
			ir.Fprint(out, c.Code)
			fmt.Fprintln(out)
		}
	}
	return nil
}

// Default returns the passes every code chunk goes through before it is
// loaded: canonicalization followed by a check of jump targets.
func Default(cz *canon.Canonicalizer) []Pass {
	return []Pass{
		{Name: "canonicalize", Fn: func(c *ir.CodeChunk) error {
			c.Code = cz.Chunk(c).Code
			return nil
		}},
		{Name: "jumps", Fn: CheckJumps},
	}
}

// CheckJumps reports a jump whose target label is not defined in c.
func CheckJumps(c *ir.CodeChunk) error {
	stmts := ir.Flatten(c.Code)
	defined := make(map[frame.Label]bool)
	for _, s := range stmts {
		if l, ok := s.(*ir.LabelStmt); ok {
			defined[l.Label] = true
		}
	}
	for i, s := range stmts {
		switch s := s.(type) {
		case *ir.Jump:
			if !defined[s.Label] {
				return fmt.Errorf("stmt %d: JUMP to undefined label %s", i, s.Label)
			}
		case *ir.CJump:
			for _, l := range [...]frame.Label{s.Then, s.Else} {
				if !defined[l] {
					return fmt.Errorf("stmt %d: CJUMP to undefined label %s", i, l)
				}
			}
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
