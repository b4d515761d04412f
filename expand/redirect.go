package expand

import (
	"context"
	"os"
	"strconv"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
)

// RedirectKind discriminates the redirect descriptor shapes spec §4.5
// names. Every kind takes its operand from the Word field: the path for the
// file kinds, the dup source text, or the heredoc body.
type RedirectKind int

const (
	RedirRead RedirectKind = iota
	RedirWrite
	RedirAppend
	RedirReadWrite
	RedirDupRead
	RedirDupWrite
	RedirHeredoc
)

// RedirectDescriptor is a single redirect, implementing ops.RedirectEval
// (spec §4.5). Fd is the explicit target file descriptor, or -1 to use
// the per-kind default (0 for Read, 1 otherwise).
type RedirectDescriptor struct {
	Kind RedirectKind
	Fd   int
	Word ops.WordEval
}

func (r RedirectDescriptor) defaultFd() int {
	if r.Fd >= 0 {
		return r.Fd
	}
	if r.Kind == RedirRead {
		return 0
	}
	return 1
}

func (r RedirectDescriptor) Eval(ctx context.Context, e env.WordEnv) (env.RedirectAction, error) {
	fd := r.defaultFd()

	switch r.Kind {
	case RedirRead, RedirWrite, RedirAppend, RedirReadWrite:
		path, err := r.resolvePath(ctx, e)
		if err != nil {
			return env.RedirectAction{}, err
		}
		flags, perm := openFlags(r.Kind)
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return env.RedirectAction{}, ops.IO(err, path)
		}
		return env.OpenAction(fd, env.NewFileDesc(f), perm), nil

	case RedirDupRead, RedirDupWrite:
		return r.evalDup(ctx, e, fd)

	case RedirHeredoc:
		wf, err := r.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeNone, SplitFieldsFurther: false})
		if err != nil {
			return env.RedirectAction{}, err
		}
		return env.HereDocAction(fd, []byte(wf.Join())), nil

	default:
		return env.RedirectAction{}, nil
	}
}

func openFlags(kind RedirectKind) (int, env.Permissions) {
	switch kind {
	case RedirRead:
		return os.O_RDONLY, env.ReadOnly
	case RedirAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, env.WriteOnly
	case RedirReadWrite:
		return os.O_RDWR | os.O_CREATE, env.ReadWrite
	default: // RedirWrite
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, env.WriteOnly
	}
}

// resolvePath evaluates the path word with {First, is_interactive} and
// rejects any result that isn't exactly one field (spec §4.5 "Path
// resolution").
func (r RedirectDescriptor) resolvePath(ctx context.Context, e env.WordEnv) (string, error) {
	interactive := false
	if stdin, _, ok := e.FileDesc(0); ok {
		interactive = env.IsInteractive(stdin)
	}
	wf, err := r.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeFirst, SplitFieldsFurther: interactive})
	if err != nil {
		return "", err
	}
	elems := wf.Elements()
	if len(elems) != 1 {
		return "", ops.Ambiguous(elems)
	}
	return elems[0], nil
}

func (r RedirectDescriptor) evalDup(ctx context.Context, e env.WordEnv, fd int) (env.RedirectAction, error) {
	wf, err := r.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeNone, SplitFieldsFurther: false})
	if err != nil {
		return env.RedirectAction{}, err
	}
	src := string(wf.Join())
	if src == "-" {
		return env.CloseAction(fd), nil
	}
	n, err := strconv.Atoi(src)
	if err != nil {
		return env.RedirectAction{}, ops.BadFdSrc(src)
	}
	h, perms, ok := e.FileDesc(n)
	if !ok {
		return env.RedirectAction{}, ops.BadFdSrc(src)
	}
	want := env.ReadOnly
	if r.Kind == RedirDupWrite {
		want = env.WriteOnly
	}
	if (want == env.ReadOnly && !perms.Readable()) || (want == env.WriteOnly && !perms.Writable()) {
		return env.RedirectAction{}, ops.BadFdPerms(n, want)
	}
	return env.OpenAction(fd, h.Dup(), want), nil
}
