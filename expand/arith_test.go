package expand

import (
	"context"
	"testing"

	"github.com/coreshell/coreshell/ops"
)

func TestArithWordFormatsResult(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithBinary{Op: ArithAdd, L: ArithLit(2), R: ArithLit(3)}}
	f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "5" {
		t.Errorf("Join() = %q, want 5", got)
	}
}

func TestArithVarUnsetReadsZero(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithVar("UNSET")}
	f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "0" {
		t.Errorf("Join() = %q, want 0", got)
	}
}

func TestArithAssignWritesVariable(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithAssign{Name: "X", X: ArithLit(7)}}
	if _, err := w.Eval(context.Background(), e, ops.WordEvalConfig{}); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	v, _, ok := e.Get("X")
	if !ok || v != "7" {
		t.Errorf("X = %q, %v, want 7, true", v, ok)
	}
}

func TestArithIncDecPreVsPost(t *testing.T) {
	e := newTestEnv(t, map[string]string{"X": "5"})

	post := ArithWord{Expr: ArithIncDec{Name: "X", Delta: 1, Post: true}}
	f, err := post.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "5" {
		t.Errorf("post-increment result = %q, want 5", got)
	}
	if v, _, _ := e.Get("X"); v != "6" {
		t.Errorf("X after post-increment = %q, want 6", v)
	}

	pre := ArithWord{Expr: ArithIncDec{Name: "X", Delta: 1, Post: false}}
	f, err = pre.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "7" {
		t.Errorf("pre-increment result = %q, want 7", got)
	}
}

func TestArithDivideByZero(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithBinary{Op: ArithDiv, L: ArithLit(1), R: ArithLit(0)}}
	_, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err == nil {
		t.Fatal("Eval: want error, got nil")
	}
	se, ok := err.(*ops.Error)
	if !ok || se.Kind != ops.KindExpansion {
		t.Errorf("err = %v, want *ops.Error{Kind: KindExpansion}", err)
	}
}

func TestArithModByZero(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithBinary{Op: ArithMod, L: ArithLit(1), R: ArithLit(0)}}
	if _, err := w.Eval(context.Background(), e, ops.WordEvalConfig{}); err == nil {
		t.Fatal("Eval: want error, got nil")
	}
}

func TestArithNegativeExponent(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithBinary{Op: ArithPow, L: ArithLit(2), R: ArithLit(-1)}}
	_, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err == nil {
		t.Fatal("Eval: want error, got nil")
	}
}

func TestArithPow(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithBinary{Op: ArithPow, L: ArithLit(2), R: ArithLit(10)}}
	f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "1024" {
		t.Errorf("Join() = %q, want 1024", got)
	}
}

func TestArithLogicalShortCircuitSkipsRightSideEffect(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithBinary{
		Op: ArithLogAnd,
		L:  ArithLit(0),
		R:  ArithAssign{Name: "TOUCHED", X: ArithLit(1)},
	}}
	f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "0" {
		t.Errorf("Join() = %q, want 0", got)
	}
	if _, _, ok := e.Get("TOUCHED"); ok {
		t.Error("TOUCHED was set, want && to short-circuit before evaluating its right side")
	}
}

func TestArithComparisonOperators(t *testing.T) {
	e := newTestEnv(t, nil)
	cases := []struct {
		op   ArithBinOp
		l, r int64
		want string
	}{
		{ArithLt, 1, 2, "1"},
		{ArithLe, 2, 2, "1"},
		{ArithGt, 2, 1, "1"},
		{ArithGe, 2, 2, "1"},
		{ArithEq, 2, 2, "1"},
		{ArithNe, 2, 3, "1"},
		{ArithNe, 2, 2, "0"},
	}
	for _, c := range cases {
		w := ArithWord{Expr: ArithBinary{Op: c.op, L: ArithLit(c.l), R: ArithLit(c.r)}}
		f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
		if err != nil {
			t.Fatalf("Eval(%s): %v", c.op, err)
		}
		if got := string(f.Join()); got != c.want {
			t.Errorf("%d %s %d = %q, want %q", c.l, c.op, c.r, got, c.want)
		}
	}
}

func TestArithCondTernary(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithCond{Cond: ArithLit(0), Then: ArithLit(1), Else: ArithLit(2)}}
	f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "2" {
		t.Errorf("Join() = %q, want 2", got)
	}
}

func TestArithCommaEvaluatesAllReturnsLast(t *testing.T) {
	e := newTestEnv(t, nil)
	w := ArithWord{Expr: ArithComma{Exprs: []ArithExpr{
		ArithAssign{Name: "A", X: ArithLit(1)},
		ArithAssign{Name: "B", X: ArithLit(2)},
	}}}
	f, err := w.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "2" {
		t.Errorf("Join() = %q, want 2", got)
	}
	if v, _, _ := e.Get("A"); v != "1" {
		t.Errorf("A = %q, want 1", v)
	}
}
