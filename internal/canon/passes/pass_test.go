package passes

import (
	"bytes"
	"strings"
	"testing"

	"github.com/you-not-fish/pinsc/internal/canon"
	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
)

func newChunk(code ir.Stmt) *ir.CodeChunk {
	return &ir.CodeChunk{Frame: frame.NewBuilder("main", 1).Build(), Code: code}
}

// loopChunk returns a chunk whose result is computed inside an ESEQ.
func loopChunk() *ir.CodeChunk {
	return newChunk(ir.NewMove(ir.NewMem(ir.FP()), &ir.Eseq{
		Stmt: ir.NewSeq(
			&ir.LabelStmt{Label: ".L0"},
			&ir.ExprStmt{X: &ir.Call{Label: "print_int", Args: []ir.Expr{ir.FP(), ir.NewConst(1)}}},
			&ir.CJump{Cond: ir.NewConst(0), Then: ".L0", Else: ".L1"},
			&ir.LabelStmt{Label: ".L1"},
		),
		X: ir.NewConst(0),
	}))
}

func TestRunEmpty(t *testing.T) {
	err := Run(newChunk(ir.NewSeq()), nil, Config{})
	if err != nil {
		t.Fatalf("Run with no passes: %v", err)
	}
}

func TestRunSinglePass(t *testing.T) {
	called := false
	passes := []Pass{
		{Name: "test", Fn: func(c *ir.CodeChunk) error { called = true; return nil }},
	}

	err := Run(newChunk(ir.NewSeq()), passes, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("pass was not called")
	}
}

func TestRunMultiplePasses(t *testing.T) {
	var order []string
	passes := []Pass{
		{Name: "first", Fn: func(c *ir.CodeChunk) error { order = append(order, "first"); return nil }},
		{Name: "second", Fn: func(c *ir.CodeChunk) error { order = append(order, "second"); return nil }},
	}

	err := Run(newChunk(ir.NewSeq()), passes, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("pass order = %v, want [first second]", order)
	}
}

func TestRunDefault(t *testing.T) {
	c := loopChunk()
	err := Run(c, Default(canon.New(frame.NewTempGen())), Config{Verify: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := len(c.Stmts()); n != 7 {
		t.Errorf("canonical chunk has %d statements, want 7", n)
	}
}

func TestRunVerifyFails(t *testing.T) {
	passes := []Pass{
		{Name: "noop", Fn: func(c *ir.CodeChunk) error { return nil }},
	}
	err := Run(loopChunk(), passes, Config{Verify: true})
	if err == nil {
		t.Fatal("expected verify error for non-canonical chunk")
	}
	if !strings.Contains(err.Error(), "verify after noop (main)") {
		t.Errorf("error = %q", err)
	}
}

func TestRunDump(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{DumpBefore: "jumps", DumpAfter: "*", Out: &buf}
	if err := Run(loopChunk(), Default(canon.New(frame.NewTempGen())), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"--- after canonicalize (main) ---",
		"--- before jumps (main) ---",
		"--- after jumps (main) ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q", want)
		}
	}
	if strings.Contains(out, "--- before canonicalize") {
		t.Error("unexpected dump before canonicalize")
	}

	buf.Reset()
	cfg.DumpFunc = "other"
	if err := Run(loopChunk(), Default(canon.New(frame.NewTempGen())), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("dump for filtered chunk: %q", buf.String())
	}
}

func TestCheckJumps(t *testing.T) {
	ok := newChunk(ir.NewSeq(&ir.LabelStmt{Label: ".L0"}, &ir.Jump{Label: ".L0"}))
	if err := CheckJumps(ok); err != nil {
		t.Errorf("CheckJumps: %v", err)
	}

	bad := newChunk(ir.NewSeq(
		&ir.LabelStmt{Label: ".L0"},
		&ir.CJump{Cond: ir.NewConst(1), Then: ".L0", Else: ".L9"},
	))
	err := CheckJumps(bad)
	if err == nil || !strings.Contains(err.Error(), ".L9") {
		t.Errorf("CheckJumps = %v, want undefined .L9", err)
	}
}
