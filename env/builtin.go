package env

import "context"

// BuiltinContext bundles exactly what a builtin needs — its arguments and
// its three standard streams plus the environment — rather than handing it
// the raw command-spawning machinery. Grounded on the supplemented
// `spawn/builtin/generic.rs` design noted in SPEC_FULL.md.
type BuiltinContext struct {
	Args           []string
	Stdin, Stdout, Stderr FileDesc
	Env            *Env
}

// Builtin runs synchronously against a BuiltinContext and reports its exit
// status (spec §4.9: "All built-ins ... exit with EXIT_SUCCESS or
// EXIT_ERROR").
type Builtin func(ctx context.Context, bc BuiltinContext) ExitStatus

// BuiltinEnvironment is the builtin sub-environment (spec §3): name ->
// builtin dispatcher.
type BuiltinEnvironment interface {
	Builtin(name string) (Builtin, bool)
	SetBuiltin(name string, b Builtin)
}

type builtinEnv struct {
	table map[string]Builtin
}

// NewBuiltinEnv builds an empty builtin table; interp.RegisterBuiltins
// populates the standard set (§4.9).
func NewBuiltinEnv() BuiltinEnvironment {
	return &builtinEnv{table: make(map[string]Builtin)}
}

func (b *builtinEnv) Builtin(name string) (Builtin, bool) {
	f, ok := b.table[name]
	return f, ok
}

func (b *builtinEnv) SetBuiltin(name string, f Builtin) {
	b.table[name] = f
}
