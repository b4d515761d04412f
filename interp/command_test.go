package interp

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/expand"
	"github.com/coreshell/coreshell/fields"
	"github.com/coreshell/coreshell/ops"
	"github.com/google/go-cmp/cmp"
)

func newTestEnv(t *testing.T) *env.Env {
	t.Helper()
	e, err := env.New()
	if err != nil {
		t.Fatalf("env.New: %v", err)
	}
	return e
}

// capturedStdout redirects fd 1 of e to an os.Pipe and returns a func that
// closes the write end and returns everything written.
func capturedStdout(t *testing.T, e *env.Env) func() string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	e.SetFileDesc(1, env.NewFileDesc(w), env.WriteOnly)
	return func() string {
		e.CloseFileDesc(1)
		var buf bytes.Buffer
		buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}

func TestSimpleCommandPureAssignmentCommits(t *testing.T) {
	e := newTestEnv(t)
	cmd := SimpleCommand{
		Pre: []AssignOrRedirect{
			{Assign: &Assignment{Name: "FOO", Word: expand.Lit("bar")}},
		},
	}
	status, err := cmd.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if !status.IsSuccess() {
		t.Errorf("status = %v, want Success", status)
	}
	if v, _, ok := e.Get("FOO"); !ok || v != "bar" {
		t.Errorf("FOO = %q, %v, want bar, true", v, ok)
	}
}

func TestSimpleCommandAssignmentRestoredAfterRunningCommand(t *testing.T) {
	e := newTestEnv(t)
	e.SetBuiltin("true", func(context.Context, env.BuiltinContext) env.ExitStatus { return env.Success })
	e.Set("FOO", "outer", false)

	cmd := SimpleCommand{
		Pre: []AssignOrRedirect{
			{Assign: &Assignment{Name: "FOO", Word: expand.Lit("inner")}},
		},
		Main: []WordOrRedirect{{Word: expand.Lit("true")}},
	}
	if _, err := cmd.Spawn(context.Background(), e); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if v, _, _ := e.Get("FOO"); v != "outer" {
		t.Errorf("FOO after command = %q, want restored to outer", v)
	}
}

func TestSimpleCommandFunctionPrecedesBuiltinAndExecutable(t *testing.T) {
	e := newTestEnv(t)
	var ran string
	e.SetFunc("greet", fakeFunc(func() { ran = "function" }))
	e.SetBuiltin("greet", func(context.Context, env.BuiltinContext) env.ExitStatus {
		ran = "builtin"
		return env.Success
	})

	cmd := SimpleCommand{Main: []WordOrRedirect{{Word: expand.Lit("greet")}}}
	if _, err := cmd.Spawn(context.Background(), e); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if ran != "function" {
		t.Errorf("ran = %q, want function (function lookup must win over builtin)", ran)
	}
}

type fakeFunc func()

func (f fakeFunc) Spawn(context.Context, env.SpawnEnv) (env.ExitStatus, error) {
	f()
	return env.Success, nil
}

func TestSimpleCommandBuiltinMutatesRealEnv(t *testing.T) {
	e := newTestEnv(t)
	e.SetBuiltin("setit", func(_ context.Context, bc env.BuiltinContext) env.ExitStatus {
		bc.Env.Set("PERSIST", "yes", false)
		return env.Success
	})

	cmd := SimpleCommand{Main: []WordOrRedirect{{Word: expand.Lit("setit")}}}
	if _, err := cmd.Spawn(context.Background(), e); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if v, _, ok := e.Get("PERSIST"); !ok || v != "yes" {
		t.Errorf("PERSIST = %q, %v, want yes, true (builtin mutation must survive the command's own var restorer)", v, ok)
	}
}

func TestSimpleCommandRedirectRestoredAfterBuiltin(t *testing.T) {
	e := newTestEnv(t)
	done := capturedStdout(t, e)
	origStdout, origPerms, _ := e.FileDesc(1)
	_ = origPerms

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer w.Close()
	defer r.Close()

	redirect := fakeRedirect{action: env.OpenAction(1, env.NewFileDesc(w), env.WriteOnly)}
	e.SetBuiltin("echo1", func(_ context.Context, bc env.BuiltinContext) env.ExitStatus {
		bc.Stdout.Write([]byte("x"))
		return env.Success
	})

	cmd := SimpleCommand{
		Pre:  []AssignOrRedirect{{Redirect: redirect}},
		Main: []WordOrRedirect{{Word: expand.Lit("echo1")}},
	}
	if _, err := cmd.Spawn(context.Background(), e); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	after, _, _ := e.FileDesc(1)
	if after.File() != origStdout.File() {
		t.Errorf("fd 1 not restored to the original stdout handle after the command")
	}
	_ = done()
}

type fakeRedirect struct {
	action env.RedirectAction
	err    error
}

func (f fakeRedirect) Eval(context.Context, env.WordEnv) (env.RedirectAction, error) {
	return f.action, f.err
}

func TestSimpleCommandWordErrorPropagates(t *testing.T) {
	e := newTestEnv(t)
	wantErr := &ops.Error{Kind: ops.KindExpansion, Msg: "boom"}
	cmd := SimpleCommand{Main: []WordOrRedirect{{Word: errWord{wantErr}}}}
	_, err := cmd.Spawn(context.Background(), e)
	if !errors.Is(err, wantErr) {
		t.Errorf("Spawn err = %v, want %v", err, wantErr)
	}
}

type errWord struct{ err error }

func (w errWord) Eval(context.Context, env.WordEnv, ops.WordEvalConfig) (fields.Fields[string], error) {
	return fields.Fields[string]{}, w.err
}

func TestAssignmentValueJoinsStarWithIFS(t *testing.T) {
	e := newTestEnv(t)
	e.Set("IFS", ",", false)
	f := fields.Star([]string{"a", "b", "c"})
	got := assignmentValue(f, e)
	want := "a,b,c"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("assignmentValue mismatch (-want +got):\n%s", diff)
	}
}
