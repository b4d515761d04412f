package env

import "os"

// Env is the concrete product type composing every capability
// sub-environment (spec §2 diagram, §3 "Environment. A composition of:").
// It is the one type that satisfies WordEnv, ParamEnv, and SpawnEnv.
type Env struct {
	VariableEnvironment
	FileDescEnvironment
	ArgumentsEnvironment
	FunctionEnvironment
	WorkingDirEnvironment
	ExecEnvironment
	AsyncIOEnvironment
	BuiltinEnvironment

	lastStatus ExitStatus
}

func (e *Env) LastStatus() ExitStatus     { return e.lastStatus }
func (e *Env) SetLastStatus(s ExitStatus) { e.lastStatus = s }

// IFS implements fields.IFSSource by delegating to the variable
// environment, so *Env itself can be passed wherever an IFS source is
// needed.
func (e *Env) IFS() (string, bool) { return e.VariableEnvironment.IFS() }

// Option configures a new Env, following the teacher's RunnerOption
// functional-options pattern (interp.New(options...), see
// _examples/mvdan-sh/interp/api.go).
type Option func(*Env)

// WithProcessEnviron seeds the variable environment from the host
// process's environment (spec §3 "read current-process env on init
// (optional)").
func WithProcessEnviron() Option {
	return func(e *Env) { e.VariableEnvironment = NewVarEnv(os.Environ()) }
}

// WithVariableEnviron installs a pre-built variable environment, e.g. one
// restored from a snapshot.
func WithVariableEnviron(v VariableEnvironment) Option {
	return func(e *Env) { e.VariableEnvironment = v }
}

// WithStdio wires the three standard streams.
func WithStdio(stdin, stdout, stderr FileDesc) Option {
	return func(e *Env) { e.FileDescEnvironment = NewFileDescEnv(stdin, stdout, stderr) }
}

// WithArgs seeds $0 and the positional parameters.
func WithArgs(shellName string, args []string) Option {
	return func(e *Env) { e.ArgumentsEnvironment = NewArgsEnv(shellName, args) }
}

// New builds a root Env with sensible defaults (empty vars, stdio wired to
// the process's own stdin/stdout/stderr, no args, an empty function and
// builtin table, cwd from the OS), then applies opts in order.
func New(opts ...Option) (*Env, error) {
	wd, err := NewWorkingDirEnv()
	if err != nil {
		return nil, err
	}
	e := &Env{
		VariableEnvironment:    NewVarEnv(nil),
		FileDescEnvironment:    NewFileDescEnv(NewFileDesc(os.Stdin), NewFileDesc(os.Stdout), NewFileDesc(os.Stderr)),
		ArgumentsEnvironment:   NewArgsEnv("coreshell", nil),
		FunctionEnvironment:    NewFuncEnv(),
		WorkingDirEnvironment:  wd,
		ExecEnvironment:        NewExecEnv(),
		AsyncIOEnvironment:     NewAsyncIOEnv(),
		BuiltinEnvironment:     NewBuiltinEnv(),
		lastStatus:             Success,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Sub returns a copy-on-write clone suitable for a subshell, command
// substitution, or pipeline stage (spec §2, §4.7): variables, fds, and
// functions clone cheaply; $0 and the positional arguments are copied into
// a fresh arguments environment (with the function-frame marker cleared);
// exec, async-io, and builtins are shared views since they have no
// per-scope mutable state of their own; the working directory *value* is
// copied so a subshell's `cd` never changes the parent's logical cwd (spec
// §3 "visible to children of subshells only through clones").
func (e *Env) Sub() *Env {
	return &Env{
		VariableEnvironment:   e.VariableEnvironment.Sub(),
		FileDescEnvironment:   e.FileDescEnvironment.Sub(),
		ArgumentsEnvironment:  NewArgsEnv(e.ArgumentsEnvironment.Name(), append([]string(nil), e.ArgumentsEnvironment.Args()...)),
		FunctionEnvironment:   e.FunctionEnvironment.Sub(),
		WorkingDirEnvironment: &workdirEnv{logical: e.WorkingDirEnvironment.Getwd()},
		ExecEnvironment:       e.ExecEnvironment,
		AsyncIOEnvironment:    e.AsyncIOEnvironment,
		BuiltinEnvironment:    e.BuiltinEnvironment,
		lastStatus:            e.lastStatus,
	}
}

// ExportedEnviron renders the exported variables as NAME=VALUE pairs, the
// form ExecSpec.Env and BuiltinContext need (spec §4.6 step 4: "a snapshot
// of the final environment variables that are exported").
func (e *Env) ExportedEnviron() []string {
	var out []string
	e.Each(func(name, value string, exported bool) bool {
		if exported {
			out = append(out, name+"="+value)
		}
		return true
	})
	return out
}
