package interp

import (
	"context"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/fields"
	"github.com/coreshell/coreshell/ops"
)

// Assignment is a single `name=word` item from a simple command's
// assignment-or-redirect prefix (spec §4.6 step 2). A nil Word assigns the
// empty string.
type Assignment struct {
	Name string
	Word ops.WordEval
}

// AssignOrRedirect is one item of the prefix sequence `A` spec §4.6
// describes ("sequence A of redirect-or-var-assign items"). Exactly one of
// Assign/Redirect is set.
type AssignOrRedirect struct {
	Assign   *Assignment
	Redirect ops.RedirectEval
}

// WordOrRedirect is one item of the command sequence `W` (spec §4.6
// "sequence W of redirect-or-cmd-word items"). Exactly one of Word/Redirect
// is set.
type WordOrRedirect struct {
	Word     ops.WordEval
	Redirect ops.RedirectEval
}

// SimpleCommand is a single command: leading assignments/redirects
// followed by the command words and any interspersed redirects (spec
// §4.6).
type SimpleCommand struct {
	Pre  []AssignOrRedirect
	Main []WordOrRedirect
}

func (c SimpleCommand) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	redirects := env.NewRedirectRestorer(e, e)
	vars := env.NewVarRestorer(e)
	varsCommitted := false
	defer func() {
		redirects.Restore()
		if !varsCommitted {
			vars.Restore()
		}
	}()

	var localNames []string
	for _, item := range c.Pre {
		if item.Redirect != nil {
			action, err := item.Redirect.Eval(ctx, e)
			if err != nil {
				return env.ExitStatus{}, err
			}
			if err := redirects.Apply(action); err != nil {
				return env.ExitStatus{}, ops.IO(err, "")
			}
			continue
		}
		value := ""
		if item.Assign.Word != nil {
			wf, err := item.Assign.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeAll, SplitFieldsFurther: false})
			if err != nil {
				return env.ExitStatus{}, err
			}
			value = assignmentValue(wf, e)
		}
		vars.Set(item.Assign.Name, value)
		localNames = append(localNames, item.Assign.Name)
	}

	var words []string
	for _, item := range c.Main {
		if item.Redirect != nil {
			action, err := item.Redirect.Eval(ctx, e)
			if err != nil {
				return env.ExitStatus{}, err
			}
			if err := redirects.Apply(action); err != nil {
				return env.ExitStatus{}, ops.IO(err, "")
			}
			continue
		}
		wf, err := item.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeFirst, SplitFieldsFurther: true})
		if err != nil {
			return env.ExitStatus{}, err
		}
		words = append(words, wf.Elements()...)
	}

	if len(words) == 0 {
		// Pure assignment: keep the variable changes, undo only the
		// redirects (spec §4.6 step 3).
		varsCommitted = true
		return env.Success, nil
	}

	name, args := words[0], words[1:]

	if fn, ok := e.Func(name); ok {
		return invokeFunction(ctx, e, fn, args)
	}

	if b, ok := e.Builtin(name); ok {
		stdin, _, _ := e.FileDesc(0)
		stdout, _, _ := e.FileDesc(1)
		stderr, _, _ := e.FileDesc(2)
		// Builtins run against the real environment, not a clone: cd/pwd
		// mutate cwd and $OLDPWD/$PWD directly, and those mutations must
		// outlive this simple command's redirect/var restorer (spec §4.6
		// step 4 "exported-only assignments persist only if the builtin
		// itself mutates env").
		status := b(ctx, env.BuiltinContext{
			Args:   args,
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: stderr,
			Env:    concreteEnv(e),
		})
		return status, nil
	}

	stdin, _, _ := e.FileDesc(0)
	stdout, _, _ := e.FileDesc(1)
	stderr, _, _ := e.FileDesc(2)
	spec := env.ExecSpec{
		Name:   name,
		Args:   args,
		Env:    execEnviron(e, localNames),
		Dir:    e.Getwd(),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	return e.Exec(ctx, spec)
}

// concreteEnv recovers the *env.Env backing e. Every SpawnEnv value in this
// module is in practice produced by env.New or (*env.Env).Sub, so this
// always succeeds; built-ins need the concrete type because they share
// BuiltinContext with code that constructs one directly from env.New.
func concreteEnv(e env.SpawnEnv) *env.Env {
	return e.(*env.Env)
}

// execEnviron builds the NAME=VALUE list a spawned executable sees: every
// exported variable, plus localNames (this command's own prefix
// assignments) marked exported for this child even if not exported in the
// variable table itself (spec §4.6 step 4: "a snapshot of the final
// environment variables that are exported (plus the command-local
// assignments, marked exported for this child only)").
func execEnviron(e env.SpawnEnv, localNames []string) []string {
	seen := make(map[string]bool, len(localNames))
	var out []string
	e.Each(func(name, value string, exported bool) bool {
		if exported {
			out = append(out, name+"="+value)
			seen[name] = true
		}
		return true
	})
	for _, name := range localNames {
		if seen[name] {
			continue
		}
		v, _, _ := e.Get(name)
		out = append(out, name+"="+v)
		seen[name] = true
	}
	return out
}

// assignmentValue renders an evaluated assignment-RHS word as the scalar
// string a variable holds: Star joins with IFS, everything else joins with
// a single space (spec §4.2 "assignment-RHS eval... if the result is Star,
// joins with IFS, else join()").
func assignmentValue(f fields.Fields[string], ifs fields.IFSSource) string {
	if f.IsStar() {
		return string(f.JoinWithIFS(ifs))
	}
	return string(f.Join())
}
