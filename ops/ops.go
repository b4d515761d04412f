// Package ops defines the abstract operations the spawn/eval layers
// consume from parsed shell syntax (spec §6 "Consumed from AST"). The
// runtime never depends on a concrete AST node shape: anything satisfying
// these interfaces — a real parser's node, a test double, a generated
// fixture — can be evaluated or spawned.
package ops

import (
	"context"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/fields"
)

// TildeExpansion selects how eagerly a leading "~" is expanded.
type TildeExpansion int

const (
	TildeNone TildeExpansion = iota
	TildeFirst
	TildeAll
)

// WordEvalConfig is the configuration threaded through word evaluation
// (spec §4.2).
type WordEvalConfig struct {
	Tilde              TildeExpansion
	SplitFieldsFurther bool
}

// WordEval is a word: the thing that expands to a Fields[string] (spec §6
// "WordEval::eval_with_config").
type WordEval interface {
	Eval(ctx context.Context, e env.WordEnv, cfg WordEvalConfig) (fields.Fields[string], error)
}

// ParamEval is a `$name`/`${...}` parameter reference (spec §6
// "ParamEval::eval", "ParamEval::assig_name").
type ParamEval interface {
	// Eval returns the parameter's fields, or ok=false if unset.
	Eval(e env.ParamEnv, split bool) (f fields.Fields[string], ok bool)
	// AssigName returns the plain variable name this parameter refers to,
	// if any (e.g. "foo" for $foo, empty for $1 or $@).
	AssigName() (name string, ok bool)
}

// RedirectEval evaluates a redirect descriptor into a concrete action
// (spec §4.5, §6 "RedirectEval::eval").
type RedirectEval interface {
	Eval(ctx context.Context, e env.WordEnv) (env.RedirectAction, error)
}

// Spawner is anything that can run to completion against an environment
// and yield an exit status (spec §6 "Spawn::spawn"). Concrete ASTs for
// pipelines, lists, simple commands, etc. all implement this.
type Spawner interface {
	Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error)
}
