package env

import "context"

// Func is anything a function name can be bound to: spawn it against an
// environment and get back an exit status. This mirrors ops.Spawner
// structurally (same method set) without importing the ops package, so
// env stays below ops in the dependency graph per the spec's layering
// (§2 "each depending only on those below").
type Func interface {
	Spawn(ctx context.Context, env SpawnEnv) (ExitStatus, error)
}

// FunctionEnvironment is the function sub-environment (spec §3): name ->
// callable, reference-counted/shareable, set-once-or-overwrite, visible in
// the current env and all sub-envs derived from it (§3 "Lifecycle").
type FunctionEnvironment interface {
	Func(name string) (Func, bool)
	SetFunc(name string, f Func)
	UnsetFunc(name string)
	Sub() FunctionEnvironment
}

type funcEnv struct {
	parent *funcEnv
	table  map[string]Func
	owned  bool
}

// NewFuncEnv builds an empty root function environment.
func NewFuncEnv() FunctionEnvironment {
	return &funcEnv{table: make(map[string]Func), owned: true}
}

func (e *funcEnv) Func(name string) (Func, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if f, ok := cur.table[name]; ok {
			return f, f != nil
		}
	}
	return nil, false
}

func (e *funcEnv) own() {
	if e.owned {
		return
	}
	fresh := make(map[string]Func, len(e.table)+4)
	for k, v := range e.table {
		fresh[k] = v
	}
	e.table = fresh
	e.owned = true
}

// SetFunc binds name to f. Because Func values are already reference
// types (interfaces wrapping whatever the caller's AST body is),
// redefining a name never invalidates a closure currently executing the
// old body (spec's supplemented `rc.rs` behavior in SPEC_FULL.md): the
// running call holds its own Func value from before the rebind.
func (e *funcEnv) SetFunc(name string, f Func) {
	e.own()
	e.table[name] = f
}

func (e *funcEnv) UnsetFunc(name string) {
	e.own()
	e.table[name] = nil
}

func (e *funcEnv) Sub() FunctionEnvironment {
	return &funcEnv{parent: e}
}
