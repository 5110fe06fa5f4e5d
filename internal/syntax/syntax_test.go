package syntax

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSample builds:
//
//	var g : integer
//	fun main() : integer = { g = 2 + 3; print_int(g) } { where fun f(a : arr[3] integer) : string = 'hi' }
func buildSample(t *testing.T) (*Allocator, *Defs) {
	t.Helper()
	a := NewAllocator()
	pos := PosAt(1, 1)

	g := a.VarDef(pos, "g", a.AtomType(pos, Int))
	assign := a.Binary(pos, Assign, a.Name(pos, "g"), a.Binary(pos, Add,
		a.Literal(pos, Int, "2"), a.Literal(pos, Int, "3")))
	call := a.Call(pos, "print_int", a.Name(pos, "g"))
	f := a.FunDef(pos, "f",
		[]*Param{a.Param(pos, "a", a.ArrayType(pos, 3, a.AtomType(pos, Int)))},
		a.AtomType(pos, Str), a.Literal(pos, Str, "hi"))
	body := a.Where(NewPos(2, 1, 2, 40), a.Block(pos, assign, call), a.Defs(pos, f))
	main := a.FunDef(pos, "main", nil, a.AtomType(pos, Int), body)
	return a, a.Defs(pos, g, main)
}

func TestAllocatorIDs(t *testing.T) {
	a, root := buildSample(t)

	seen := map[NodeID]bool{}
	Inspect(root, func(n Node) bool {
		require.NotZero(t, n.ID())
		require.False(t, seen[n.ID()], "duplicate id %d", n.ID())
		seen[n.ID()] = true
		return true
	})
	assert.Len(t, seen, a.Count())
	assert.Equal(t, NodeID(a.Count()), root.ID(), "root is created last")
}

func TestWalkOrder(t *testing.T) {
	_, root := buildSample(t)

	var kinds []string
	Inspect(root, func(n Node) bool {
		switch n := n.(type) {
		case *FunDef:
			kinds = append(kinds, "fun "+n.Name)
		case *Where:
			kinds = append(kinds, "where")
		case *Block:
			kinds = append(kinds, "block")
		case *Call:
			kinds = append(kinds, "call "+n.Name)
		}
		return true
	})
	assert.Equal(t, []string{"fun main", "where", "fun f", "block", "call print_int"}, kinds)
}

func TestWalkSkipsChildren(t *testing.T) {
	_, root := buildSample(t)

	count := 0
	Inspect(root, func(n Node) bool {
		count++
		_, isFun := n.(*FunDef)
		return !isFun
	})
	// Defs, VarDef, its AtomType and the FunDef main.
	assert.Equal(t, 4, count)
}

func TestFprint(t *testing.T) {
	_, root := buildSample(t)

	var buf bytes.Buffer
	Fprint(&buf, root)
	out := buf.String()

	assert.Contains(t, out, "VarDef #2 [1:1] g : integer")
	assert.Contains(t, out, "FunDef")
	assert.Contains(t, out, "Param")
	assert.Contains(t, out, "a : arr[3] integer")
	assert.Contains(t, out, `Literal #`)
	assert.Contains(t, out, `string "hi"`)
	assert.Contains(t, out, "Where")
	assert.Contains(t, out, "[2:1-2:40]")
	assert.False(t, strings.Contains(out, "unknown node"))
}

func TestJSONRoundTrip(t *testing.T) {
	_, root := buildSample(t)

	data, err := MarshalJSONTree(root)
	require.NoError(t, err)

	alloc := NewAllocator()
	back, err := UnmarshalJSONDefs(data, alloc)
	require.NoError(t, err)

	var want, got bytes.Buffer
	Fprint(&want, root)
	Fprint(&got, back)
	assert.Equal(t, want.String(), got.String())

	// New nodes continue after the decoded IDs.
	n := alloc.Name(Pos{}, "fresh")
	assert.Greater(t, n.ID(), root.ID())
}

func TestFprintJSON(t *testing.T) {
	a := NewAllocator()
	lit := a.Literal(PosAt(3, 7), Str, "")

	var buf bytes.Buffer
	require.NoError(t, FprintJSON(&buf, lit))
	assert.Contains(t, buf.String(), `"kind": "Literal"`)
	assert.Contains(t, buf.String(), `"value": ""`)

	back, err := UnmarshalJSONTree(buf.Bytes(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", back.(*Literal).Value)
	assert.Equal(t, "[3:7]", back.Pos().String())
}

func TestUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad json", `{`, "decoding tree"},
		{"unknown kind", `{"kind":"Loop","id":1}`, "unknown node kind"},
		{"zero id", `{"kind":"Name","id":0,"value":"x"}`, "invalid node id"},
		{"duplicate id", `{"kind":"Binary","id":1,"op":"+","x":{"kind":"Name","id":1,"value":"x"},"y":{"kind":"Name","id":2,"value":"y"}}`, "duplicate node id"},
		{"bad op", `{"kind":"Unary","id":2,"op":"~","x":{"kind":"Name","id":1,"value":"x"}}`, "unknown operator"},
		{"missing operand", `{"kind":"Binary","id":1,"op":"+","x":{"kind":"Name","id":2,"value":"x"}}`, "missing y"},
		{"empty block", `{"kind":"Block","id":1}`, "empty block"},
		{"type as expr", `{"kind":"Unary","id":2,"op":"-","x":{"kind":"AtomType","id":1,"atom":"integer"}}`, "not an expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalJSONTree([]byte(tt.data), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnmarshalJSONDefsRejectsOtherRoots(t *testing.T) {
	_, err := UnmarshalJSONDefs([]byte(`{"kind":"Name","id":1,"value":"x"}`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want *Defs")
}

func TestOperators(t *testing.T) {
	for _, s := range []string{"+", "-", "*", "/", "%", "&", "|", "==", "!=", "<", ">", "<=", ">=", "=", "[]"} {
		op, ok := ParseBinaryOp(s)
		require.True(t, ok, s)
		assert.Equal(t, s, op.String())
	}
	assert.True(t, Mod.IsArithmetic())
	assert.False(t, And.IsArithmetic())
	assert.True(t, Or.IsLogical())
	assert.True(t, Geq.IsComparison())
	assert.False(t, Assign.IsComparison())

	_, ok := ParseBinaryOp("**")
	assert.False(t, ok)
	assert.Equal(t, "BinaryOp(99)", BinaryOp(99).String())

	op, ok := ParseUnaryOp("!")
	require.True(t, ok)
	assert.Equal(t, Not, op)

	atom, ok := ParseAtom("logical")
	require.True(t, ok)
	assert.Equal(t, Log, atom)
}
