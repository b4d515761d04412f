// Package expand implements word evaluation, parameter substitution,
// arithmetic, and redirect evaluation: the eval layer that sits between
// the environment and the spawn layer.
package expand

import (
	"context"
	"strings"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/fields"
	"github.com/coreshell/coreshell/ops"
)

// Lit is a literal word piece: always Single(text), regardless of config.
type Lit string

func (l Lit) Eval(context.Context, env.WordEnv, ops.WordEvalConfig) (fields.Fields[string], error) {
	return fields.Single(string(l)), nil
}

// EscLit is a backslash-escaped literal piece. It evaluates identically to
// Lit; the escape only matters at parse time, to keep a character from
// being treated as a metacharacter there.
type EscLit string

func (l EscLit) Eval(context.Context, env.WordEnv, ops.WordEvalConfig) (fields.Fields[string], error) {
	return fields.Single(string(l)), nil
}

// Tilde is a leading "~". It expands to $HOME under TildeFirst/TildeAll
// when HOME is set, and to the literal "~" otherwise.
type Tilde struct{}

func (Tilde) Eval(_ context.Context, e env.WordEnv, cfg ops.WordEvalConfig) (fields.Fields[string], error) {
	if cfg.Tilde != ops.TildeNone {
		if home, _, ok := e.Get("HOME"); ok {
			return fields.Single(home), nil
		}
	}
	return fields.Single("~"), nil
}

// SingleQuoted is a '...' word: the literal text, with no expansion of any
// kind regardless of config.
type SingleQuoted string

func (s SingleQuoted) Eval(context.Context, env.WordEnv, ops.WordEvalConfig) (fields.Fields[string], error) {
	return fields.Single(string(s)), nil
}

// ParamWord wraps a bare parameter reference ($foo, $1, $@, ...) as a word.
type ParamWord struct {
	Param ops.ParamEval
}

func (p ParamWord) Eval(_ context.Context, e env.WordEnv, cfg ops.WordEvalConfig) (fields.Fields[string], error) {
	f, ok := p.Param.Eval(e, cfg.SplitFieldsFurther)
	if !ok {
		return fields.Zero[string](), nil
	}
	return f, nil
}

// DoubleQuoted is a "..." word: a sequence of inner parts, each evaluated
// with tilde expansion off and no further splitting, then coalesced into a
// quoted result (spec §4.2 "Compound words").
type DoubleQuoted struct {
	Parts []ops.WordEval
}

func (d DoubleQuoted) Eval(ctx context.Context, e env.WordEnv, _ ops.WordEvalConfig) (fields.Fields[string], error) {
	innerCfg := ops.WordEvalConfig{Tilde: ops.TildeNone, SplitFieldsFurther: false}
	parts := make([]fields.Fields[string], 0, len(d.Parts))
	for _, p := range d.Parts {
		f, err := p.Eval(ctx, e, innerCfg)
		if err != nil {
			return fields.Zero[string](), err
		}
		parts = append(parts, f)
	}
	return coalesceQuoted(parts, e), nil
}

// coalesceQuoted implements the quoted-word coalescing rule (spec §4.2):
// Zero parts vanish; Single/Split/Star parts join with IFS and merge into
// the field currently being built; At parts are the only ones that can
// introduce new standalone fields, one per middle element, with their
// first and last elements fusing into the surrounding text.
func coalesceQuoted(parts []fields.Fields[string], ifs fields.IFSSource) fields.Fields[string] {
	var out []string
	var cur strings.Builder
	for _, f := range parts {
		if f.IsAt() {
			elems := f.Elements()
			if len(elems) == 0 {
				continue
			}
			cur.WriteString(elems[0])
			if len(elems) == 1 {
				continue
			}
			out = append(out, cur.String())
			cur.Reset()
			out = append(out, elems[1:len(elems)-1]...)
			cur.WriteString(elems[len(elems)-1])
			continue
		}
		cur.WriteString(string(f.JoinWithIFS(ifs)))
	}
	out = append(out, cur.String())
	return fields.FromSlice(out)
}

// Concat is an unquoted run of adjacent word parts (e.g. foo$bar"baz"):
// each part keeps its own field boundaries, but the text touching an
// adjacent part fuses across the boundary (spec §4.2 "Concat/complex
// words").
type Concat struct {
	Parts []ops.WordEval
}

func (c Concat) Eval(ctx context.Context, e env.WordEnv, cfg ops.WordEvalConfig) (fields.Fields[string], error) {
	var out []string
	var cur strings.Builder
	anyContent := false
	for i, p := range c.Parts {
		partCfg := ops.WordEvalConfig{Tilde: ops.TildeNone, SplitFieldsFurther: cfg.SplitFieldsFurther}
		if i == 0 {
			partCfg.Tilde = cfg.Tilde
		}
		f, err := p.Eval(ctx, e, partCfg)
		if err != nil {
			return fields.Zero[string](), err
		}
		elems := f.Elements()
		if len(elems) == 0 {
			continue
		}
		anyContent = true
		cur.WriteString(elems[0])
		if len(elems) == 1 {
			continue
		}
		out = append(out, cur.String())
		out = append(out, elems[1:len(elems)-1]...)
		cur.Reset()
		cur.WriteString(elems[len(elems)-1])
	}
	if !anyContent {
		return fields.Zero[string](), nil
	}
	out = append(out, cur.String())
	return fields.FromSlice(out), nil
}

// CommandSub is a $(cmd) or `cmd` word: run cmd to completion in a cloned
// sub-environment with its stdout captured, then strip trailing newlines
// (spec §4.4 "$(cmd) command subst").
type CommandSub struct {
	Cmd ops.Spawner
}

func (c CommandSub) Eval(ctx context.Context, e env.WordEnv, cfg ops.WordEvalConfig) (fields.Fields[string], error) {
	sub := e.Sub()
	r, w, err := env.Pipe()
	if err != nil {
		return fields.Zero[string](), ops.IO(err, "")
	}
	sub.SetFileDesc(1, w, env.WriteOnly)

	type result struct {
		status env.ExitStatus
		err    error
	}
	done := make(chan result, 1)
	go func() {
		defer w.Close()
		status, err := c.Cmd.Spawn(ctx, sub)
		done <- result{status, err}
	}()

	data, readErr := e.ReadAll(ctx, r)
	r.Close()
	res := <-done
	if readErr != nil {
		return fields.Zero[string](), ops.IO(readErr, "")
	}
	if res.err != nil {
		return fields.Zero[string](), res.err
	}

	trimmed := strings.TrimRight(string(data), "\n")
	f := fields.Single(trimmed)
	if cfg.SplitFieldsFurther {
		f = f.Split(e)
	}
	return f, nil
}
