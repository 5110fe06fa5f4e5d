package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/pinsc/internal/frame"
)

func TestOps(t *testing.T) {
	assert.Equal(t, "ADD", OpAdd.String())
	assert.Equal(t, "GEQ", OpGeq.String())
	assert.True(t, OpLt.IsComparison())
	assert.False(t, OpMul.IsComparison())
	assert.True(t, OpOr.IsLogical())
	assert.True(t, OpMod.Valid())
	assert.False(t, OpInvalid.Valid())
	assert.Equal(t, "INVALID", Op(99).String())
}

func TestFlatten(t *testing.T) {
	j := &Jump{Label: "L"}
	assert.Equal(t, []Stmt{j}, Flatten(j))

	l := &LabelStmt{Label: "L"}
	seq := NewSeq(l, j)
	assert.Equal(t, []Stmt{l, j}, Flatten(seq))

	// Only one level is removed.
	outer := NewSeq(seq, j)
	assert.Len(t, Flatten(outer), 2)
}

func TestFprint(t *testing.T) {
	code := NewMove(NewMem(FP()), NewBinop(OpAdd, NewConst(2), NewTemp(3)))

	var buf bytes.Buffer
	Fprint(&buf, code)
	want := `MOVE:
    MEM:
        NAME: {FP}
    BINOP ADD:
        CONSTANT: 2
        TEMP: T[3]
`
	assert.Equal(t, want, buf.String())

	buf.Reset()
	Fprint(&buf, NewSeq(
		&CJump{Cond: NewConst(1), Then: "a", Else: "b"},
		&Jump{Label: "a"},
		&ExprStmt{X: &Call{Label: "f", Args: []Expr{SP()}}},
		&LabelStmt{Label: "b"},
	))
	want = `SEQ:
    CJUMP:
        CONSTANT: 1
        a
        b
    JUMP:
        a
    EXP:
        CALL f:
            NAME: {SP}
    LABEL: b
`
	assert.Equal(t, want, buf.String())
}

func TestFprintChunks(t *testing.T) {
	fb := frame.NewBuilder("main", 1)
	fb.AddParameter(4)
	chunks := []Chunk{
		&CodeChunk{Frame: fb.Build(), Code: NewMove(NewMem(FP()), NewConst(0))},
		&DataChunk{Access: frame.NewGlobal(4, ".L0"), Data: "hi"},
		&GlobalChunk{Access: frame.NewGlobal(20, ".L1")},
	}

	var buf bytes.Buffer
	FprintChunks(&buf, chunks)
	out := buf.String()
	assert.Contains(t, out, "FRAME [main]: level=1,locals_size=0,arguments_size=0,parameters_size=4,size=8\nMOVE:\n")
	assert.Contains(t, out, "Global: size[4],label[.L0]: hi\n")
	assert.Contains(t, out, "Global: size[20],label[.L1]: \n")

	assert.Equal(t, frame.Label("main"), chunks[0].Label())
	assert.Equal(t, frame.Label(".L1"), chunks[2].Label())
}

func TestContainsCall(t *testing.T) {
	call := &Call{Label: "f"}
	assert.False(t, ContainsCall(NewBinop(OpAdd, NewConst(1), NewMem(FP()))))
	assert.True(t, ContainsCall(NewBinop(OpAdd, NewConst(1), call)))
	assert.True(t, ContainsCall(&Eseq{Stmt: &ExprStmt{X: call}, X: NewConst(0)}))
}

func TestVerifyCanonical(t *testing.T) {
	good := NewSeq(
		NewMove(NewTemp(0), FP()),
		NewMove(NewTemp(1), NewConst(14)),
		&ExprStmt{X: &Call{Label: "print_int", Args: []Expr{NewTemp(0), NewTemp(1)}}},
		NewMove(NewMem(FP()), NewConst(0)),
	)
	require.NoError(t, VerifyCanonical(good))
	require.NoError(t, VerifyCanonical(&Jump{Label: "x"}))

	bad := NewSeq(
		NewSeq(&Jump{Label: "x"}),
		NewMove(NewConst(1), NewConst(2)),
		&ExprStmt{X: &Eseq{Stmt: &Jump{Label: "x"}, X: NewConst(0)}},
		&ExprStmt{X: &Call{Label: "f", Args: []Expr{NewConst(1)}}},
		&ExprStmt{X: NewBinop(OpInvalid, NewConst(1), NewConst(2))},
	)
	err := VerifyCanonical(bad)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "stmt 0: nested SEQ")
	assert.Contains(t, msg, "stmt 1: MOVE destination is *ir.Const")
	assert.Contains(t, msg, "stmt 2: ESEQ inside expression")
	assert.Contains(t, msg, "stmt 3: CALL f argument 0 is *ir.Const, want temp")
	assert.Contains(t, msg, "stmt 4: invalid operator")
}
