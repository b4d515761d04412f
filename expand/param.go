package expand

import (
	"context"
	"os"
	"strconv"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/fields"
	"github.com/coreshell/coreshell/ops"
	"github.com/coreshell/coreshell/pattern"
)

// ParamKind discriminates the handful of parameter shapes §4.3 names.
type ParamKind int

const (
	ParamName ParamKind = iota // $var
	ParamPositional            // $1, $2, ...
	ParamAt                    // $@
	ParamStar                  // $*
	ParamCount                 // $#
	ParamPID                   // $$
	ParamStatus                // $?
	ParamZero                  // $0
)

// Param is a bare parameter reference, implementing ops.ParamEval directly
// (spec §4.3).
type Param struct {
	Kind ParamKind
	Name string // ParamName
	N    int    // ParamPositional, 1-based
}

func (p Param) Eval(e env.ParamEnv, split bool) (fields.Fields[string], bool) {
	var f fields.Fields[string]
	switch p.Kind {
	case ParamAt:
		args := e.Args()
		if len(args) == 0 {
			return fields.Zero[string](), true
		}
		return fields.At(args), true
	case ParamStar:
		args := e.Args()
		if len(args) == 0 {
			return fields.Zero[string](), true
		}
		return fields.Star(args), true
	case ParamCount:
		f = fields.Single(strconv.Itoa(len(e.Args())))
	case ParamPID:
		f = fields.Single(strconv.Itoa(os.Getpid()))
	case ParamStatus:
		f = fields.Single(e.LastStatus().String())
	case ParamZero:
		f = fields.Single(e.Name())
	case ParamPositional:
		args := e.Args()
		if p.N < 1 || p.N > len(args) {
			return fields.Zero[string](), false
		}
		f = fields.Single(args[p.N-1])
	case ParamName:
		v, _, ok := e.Get(p.Name)
		if !ok {
			return fields.Zero[string](), false
		}
		f = fields.Single(v)
	default:
		return fields.Zero[string](), false
	}
	if split {
		f = f.Split(e)
	}
	return f, true
}

func (p Param) AssigName() (string, bool) {
	if p.Kind == ParamName {
		return p.Name, true
	}
	return "", false
}

// display renders p the way error messages reference it.
func (p Param) display() string {
	switch p.Kind {
	case ParamName:
		return p.Name
	case ParamPositional:
		return strconv.Itoa(p.N)
	case ParamAt:
		return "@"
	case ParamStar:
		return "*"
	case ParamCount:
		return "#"
	case ParamPID:
		return "$"
	case ParamStatus:
		return "?"
	case ParamZero:
		return "0"
	default:
		return ""
	}
}

// SubstOp discriminates the ${...} operator family (spec §4.4).
type SubstOp int

const (
	SubstDefault     SubstOp = iota // ${p-w}
	SubstAssign                     // ${p=w}
	SubstError                      // ${p?w}
	SubstAlternative                // ${p+w}
	SubstLength                     // ${#p}
	SubstRemoveSuffixShortest
	SubstRemoveSuffixLongest
	SubstRemovePrefixShortest
	SubstRemovePrefixLongest
)

// Substitution is a ${...} parameter substitution, implementing
// ops.WordEval: the whole expansion evaluates directly to Fields (spec
// §4.2 "Subst returns the result of its inner parameter substitution").
type Substitution struct {
	Param  Param
	Strict bool
	Op     SubstOp
	Word   ops.WordEval // nil for SubstLength
}

func (s Substitution) Eval(ctx context.Context, e env.WordEnv, cfg ops.WordEvalConfig) (fields.Fields[string], error) {
	f, present := s.Param.Eval(e, false)
	unsetOrNull := !present || (s.Strict && f.IsNull())

	switch s.Op {
	case SubstLength:
		if !present {
			return fields.Single("0"), nil
		}
		return fields.Single(strconv.Itoa(len(string(f.Join())))), nil

	case SubstDefault:
		if !unsetOrNull {
			return f, nil
		}
		return s.evalWord(ctx, e)

	case SubstAlternative:
		if unsetOrNull {
			return fields.Zero[string](), nil
		}
		return s.evalWord(ctx, e)

	case SubstAssign:
		if !unsetOrNull {
			return f, nil
		}
		wf, err := s.evalWord(ctx, e)
		if err != nil {
			return fields.Zero[string](), err
		}
		name, ok := s.Param.AssigName()
		if !ok {
			return fields.Zero[string](), ops.BadAssig(s.Param.display())
		}
		assigned := assignmentString(wf, e)
		_, exported, _ := e.Get(name)
		e.Set(name, assigned, exported)
		return fields.Single(assigned), nil

	case SubstError:
		if !unsetOrNull {
			return f, nil
		}
		detail := ""
		if s.Word != nil {
			wf, err := s.evalWord(ctx, e)
			if err != nil {
				return fields.Zero[string](), err
			}
			detail = assignmentString(wf, e)
		}
		return fields.Zero[string](), ops.EmptyParameter(s.Param.display(), detail)

	case SubstRemovePrefixShortest, SubstRemovePrefixLongest,
		SubstRemoveSuffixShortest, SubstRemoveSuffixLongest:
		if !present {
			return fields.Zero[string](), nil
		}
		return s.removePattern(ctx, e, f)

	default:
		return fields.Zero[string](), nil
	}
}

// evalWord evaluates the substitution's word w with {All, false}, per spec
// §4.4 "Word evaluation inside substitutions uses {All, false}".
func (s Substitution) evalWord(ctx context.Context, e env.WordEnv) (fields.Fields[string], error) {
	if s.Word == nil {
		return fields.Zero[string](), nil
	}
	return s.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeAll, SplitFieldsFurther: false})
}

// assignmentString renders an evaluated word as the scalar string an
// assignment needs, per the assignment-RHS rule in §4.2: Star joins with
// IFS, everything else joins with a single space.
func assignmentString(f fields.Fields[string], ifs fields.IFSSource) string {
	if f.IsStar() {
		return string(f.JoinWithIFS(ifs))
	}
	return string(f.Join())
}

// removePattern implements the four prefix/suffix removal operators (spec
// §4.4 "Pattern removal semantics").
func (s Substitution) removePattern(ctx context.Context, e env.WordEnv, f fields.Fields[string]) (fields.Fields[string], error) {
	patSrc := ""
	if s.Word != nil {
		wf, err := s.Word.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeFirst, SplitFieldsFurther: false})
		if err != nil {
			return fields.Zero[string](), err
		}
		patSrc = string(wf.Join())
	}

	elems := f.Elements()
	out := make([]string, len(elems))
	for i, v := range elems {
		out[i] = removeOne(s.Op, v, patSrc)
	}
	if f.IsAt() {
		return fields.At(out), nil
	}
	if f.IsStar() {
		return fields.Star(out), nil
	}
	return fields.FromSlice(out), nil
}

func removeOne(op SubstOp, s, patSrc string) string {
	switch op {
	case SubstRemovePrefixShortest:
		p := pattern.Compile(patSrc, pattern.Shortest)
		if n := p.FindPrefixLen(s); n >= 0 {
			return s[n:]
		}
		return s
	case SubstRemovePrefixLongest:
		p := pattern.Compile(patSrc, 0)
		if n := p.FindPrefixLen(s); n >= 0 {
			return s[n:]
		}
		return s
	case SubstRemoveSuffixShortest:
		return removeSuffix(s, patSrc, false)
	case SubstRemoveSuffixLongest:
		return removeSuffix(s, patSrc, true)
	default:
		return s
	}
}

// removeSuffix scans codepoint boundaries to find where a full-string
// match of patSrc against the tail s[i:] begins: forward from the start
// for the longest suffix (spec "scans forward... earliest index"),
// backward from the end for the shortest (the mirrored rule).
func removeSuffix(s, patSrc string, longest bool) string {
	p := pattern.Compile(patSrc, pattern.EntireString)
	runes := []rune(s)
	n := len(runes)
	if longest {
		for i := 0; i <= n; i++ {
			if p.Match(string(runes[i:])) {
				return string(runes[:i])
			}
		}
		return s
	}
	for i := n; i >= 0; i-- {
		if p.Match(string(runes[i:])) {
			return string(runes[:i])
		}
	}
	return s
}
