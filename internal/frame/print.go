package frame

import (
	"fmt"
	"io"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/you-not-fish/pinsc/internal/syntax"
)

// Fprint writes the frames and accesses of res to w, one line per
// definition in node ID order. root supplies the definition names.
func Fprint(w io.Writer, root syntax.Node, res *Result) {
	names := make(map[syntax.NodeID]string)
	syntax.Inspect(root, func(n syntax.Node) bool {
		switch d := n.(type) {
		case *syntax.FunDef:
			names[d.ID()] = "fun " + d.Name
		case *syntax.Param:
			names[d.ID()] = "par " + d.Name
		case *syntax.VarDef:
			names[d.ID()] = "var " + d.Name
		}
		return true
	})

	ids := maps.Keys(res.Frames)
	ids = append(ids, maps.Keys(res.Accesses)...)
	slices.Sort(ids)

	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = "?"
		}
		if f, ok := res.Frames[id]; ok {
			fmt.Fprintf(w, "#%d %s: %s\n", id, name, f)
			continue
		}
		fmt.Fprintf(w, "#%d %s: %s\n", id, name, res.Accesses[id])
	}
}
