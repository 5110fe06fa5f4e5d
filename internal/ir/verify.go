package ir

import (
	"fmt"
	"strings"
)

// VerifyCanonical checks that s is in canonical form: a flat statement
// list whose expressions contain no Eseq, whose sequences contain no
// sequences, whose moves write only to Mem or TempRef and whose calls
// take only temps as arguments.
// It returns an error describing all violations found, or nil.
func VerifyCanonical(s Stmt) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	for i, st := range Flatten(s) {
		if st == nil {
			add("stmt %d: nil statement", i)
			continue
		}
		if _, ok := st.(*Seq); ok {
			add("stmt %d: nested SEQ", i)
			continue
		}
		if m, ok := st.(*Move); ok {
			switch m.Dst.(type) {
			case *Mem, *TempRef:
			default:
				add("stmt %d: MOVE destination is %T", i, m.Dst)
			}
		}
		Inspect(st, func(n Node) bool {
			switch n := n.(type) {
			case *Eseq:
				add("stmt %d: ESEQ inside expression", i)
			case *Seq:
				add("stmt %d: SEQ inside statement", i)
			case *Binop:
				if !n.Op.Valid() {
					add("stmt %d: invalid operator %d", i, n.Op)
				}
			case *Call:
				for j, a := range n.Args {
					if _, ok := a.(*TempRef); !ok {
						add("stmt %d: CALL %s argument %d is %T, want temp", i, n.Label, j, a)
					}
				}
			}
			return true
		})
	}

	return combineErrors(errs)
}

func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("IR is not canonical:\n  %s", strings.Join(errs, "\n  "))
}
