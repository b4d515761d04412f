package interp

import (
	"context"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
)

// FuncDef wraps a function's parsed body as an env.Func, the unit bound
// into the function environment by `name() { body }` (spec §4.8). Body
// values are reference types already (an interface over whatever AST the
// caller built), so rebinding a name never invalidates a call currently
// executing the old body (spec's supplemented rc.rs-style sharing, see
// DESIGN.md).
type FuncDef struct {
	Body ops.Spawner
}

func (f FuncDef) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	return f.Body.Spawn(ctx, e)
}

// invokeFunction runs fn against a new argument vector, following spec
// §4.8's save/install/replace/spawn/restore protocol. The restore defer
// runs during a panicking unwind too, so the caller's arguments and frame
// marker are never left clobbered even if the body panics; the panic
// itself still propagates past this call.
func invokeFunction(ctx context.Context, e env.SpawnEnv, fn env.Func, args []string) (env.ExitStatus, error) {
	savedName, savedArgs := e.Name(), e.Args()
	wasRunning := e.IsFunctionRunning()

	e.SetArgs(savedName, args)
	e.SetFunctionRunning(true)
	defer func() {
		e.SetArgs(savedName, savedArgs)
		e.SetFunctionRunning(wasRunning)
	}()

	return fn.Spawn(ctx, e)
}
