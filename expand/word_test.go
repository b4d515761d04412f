package expand

import (
	"context"
	"testing"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
	"github.com/google/go-cmp/cmp"
)

func newTestEnv(t *testing.T, vars map[string]string) *env.Env {
	t.Helper()
	e, err := env.New()
	if err != nil {
		t.Fatalf("env.New: %v", err)
	}
	for k, v := range vars {
		e.Set(k, v, false)
	}
	return e
}

func TestTildeExpandsHome(t *testing.T) {
	e := newTestEnv(t, map[string]string{"HOME": "/home/gopher"})
	f, err := Tilde{}.Eval(context.Background(), e, ops.WordEvalConfig{Tilde: ops.TildeFirst})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "/home/gopher" {
		t.Errorf("Join() = %q, want /home/gopher", got)
	}
}

func TestTildeLiteralWhenHomeUnset(t *testing.T) {
	e := newTestEnv(t, nil)
	f, err := Tilde{}.Eval(context.Background(), e, ops.WordEvalConfig{Tilde: ops.TildeFirst})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := string(f.Join()); got != "~" {
		t.Errorf("Join() = %q, want ~ (spec §8 scenario 2)", got)
	}
}

func TestDoubleQuotedCoalescesAt(t *testing.T) {
	e := newTestEnv(t, nil)
	e.SetArgs("sh", []string{"a", "b", "c"})

	dq := DoubleQuoted{Parts: []ops.WordEval{
		Lit("x"),
		ParamWord{Param: Param{Kind: ParamAt}},
		Lit("y"),
	}}
	f, err := dq.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got := f.Elements()
	want := []string{"xa", "b", "cy"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
}

func TestConcatFusesAcrossBoundary(t *testing.T) {
	e := newTestEnv(t, nil)
	e.SetArgs("sh", []string{"a", "b", "c"})

	c := Concat{Parts: []ops.WordEval{
		Lit("pre-"),
		ParamWord{Param: Param{Kind: ParamAt}},
		Lit("-post"),
	}}
	f, err := c.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got := f.Elements()
	want := []string{"pre-a", "b", "c-post"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
}

func TestConcatAllZeroCollapsesToZero(t *testing.T) {
	e := newTestEnv(t, nil)
	c := Concat{Parts: []ops.WordEval{
		ParamWord{Param: Param{Kind: ParamName, Name: "UNSET"}},
	}}
	f, err := c.Eval(context.Background(), e, ops.WordEvalConfig{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !f.IsZero() {
		t.Errorf("IsZero() = false, want true")
	}
}
