package expand

import (
	"context"
	"strconv"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/fields"
	"github.com/coreshell/coreshell/ops"
)

// ArithExpr is a node in an arithmetic expression tree (spec §4.4
// "Arithmetic"). Variable reads/writes go through the same parameter
// environment word evaluation uses; an unset or non-numeric variable
// reads as 0.
type ArithExpr interface {
	eval(e env.ParamEnv) (int64, error)
}

// ArithWord is a $((...)) word: it evaluates an arithmetic expression and
// returns its decimal string form as a single field.
type ArithWord struct {
	Expr ArithExpr
}

func (a ArithWord) Eval(_ context.Context, e env.WordEnv, _ ops.WordEvalConfig) (fields.Fields[string], error) {
	var pe env.ParamEnv = e
	n, err := a.Expr.eval(pe)
	if err != nil {
		return fields.Zero[string](), err
	}
	return fields.Single(strconv.FormatInt(n, 10)), nil
}

// ArithLit is an integer literal.
type ArithLit int64

func (a ArithLit) eval(env.ParamEnv) (int64, error) { return int64(a), nil }

// ArithVar reads (and, via assignment nodes, writes) a shell variable as
// an integer. An unset or non-numeric value reads as 0.
type ArithVar string

func (a ArithVar) eval(e env.ParamEnv) (int64, error) { return readVar(e, string(a)), nil }

func readVar(e env.ParamEnv, name string) int64 {
	v, _, ok := e.Get(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return 0
	}
	return n
}

func writeVar(e env.ParamEnv, name string, n int64) {
	_, exported, _ := e.Get(name)
	e.Set(name, strconv.FormatInt(n, 10), exported)
}

// ArithUnary is a prefix unary operator: +, -, ~, or !.
type ArithUnary struct {
	Op byte
	X  ArithExpr
}

func (a ArithUnary) eval(e env.ParamEnv) (int64, error) {
	n, err := a.X.eval(e)
	if err != nil {
		return 0, err
	}
	switch a.Op {
	case '+':
		return n, nil
	case '-':
		return -n, nil
	case '~':
		return ^n, nil
	case '!':
		if n == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return n, nil
}

// ArithIncDec is a variable pre/post increment or decrement. Pre forms
// return the updated value; post forms return the prior value.
type ArithIncDec struct {
	Name  string
	Delta int64 // +1 or -1
	Post  bool
}

func (a ArithIncDec) eval(e env.ParamEnv) (int64, error) {
	cur := readVar(e, a.Name)
	writeVar(e, a.Name, cur+a.Delta)
	if a.Post {
		return cur, nil
	}
	return cur + a.Delta, nil
}

// ArithAssign is a plain `name = expr` assignment, returning the assigned
// value.
type ArithAssign struct {
	Name string
	X    ArithExpr
}

func (a ArithAssign) eval(e env.ParamEnv) (int64, error) {
	n, err := a.X.eval(e)
	if err != nil {
		return 0, err
	}
	writeVar(e, a.Name, n)
	return n, nil
}

// ArithBinOp names one of the spec's binary operators.
type ArithBinOp string

const (
	ArithAdd    ArithBinOp = "+"
	ArithSub    ArithBinOp = "-"
	ArithMul    ArithBinOp = "*"
	ArithDiv    ArithBinOp = "/"
	ArithMod    ArithBinOp = "%"
	ArithPow    ArithBinOp = "**"
	ArithShl    ArithBinOp = "<<"
	ArithShr    ArithBinOp = ">>"
	ArithLt     ArithBinOp = "<"
	ArithLe     ArithBinOp = "<="
	ArithGt     ArithBinOp = ">"
	ArithGe     ArithBinOp = ">="
	ArithEq     ArithBinOp = "=="
	ArithNe     ArithBinOp = "!="
	ArithAnd    ArithBinOp = "&"
	ArithXor    ArithBinOp = "^"
	ArithOr     ArithBinOp = "|"
	ArithLogAnd ArithBinOp = "&&"
	ArithLogOr  ArithBinOp = "||"
)

// ArithBinary is a binary operator node. && and || short-circuit: the
// right side is only evaluated when it can affect the result.
type ArithBinary struct {
	Op   ArithBinOp
	L, R ArithExpr
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (a ArithBinary) eval(e env.ParamEnv) (int64, error) {
	l, err := a.L.eval(e)
	if err != nil {
		return 0, err
	}

	switch a.Op {
	case ArithLogAnd:
		if l == 0 {
			return 0, nil
		}
		r, err := a.R.eval(e)
		if err != nil {
			return 0, err
		}
		return boolInt(r != 0), nil
	case ArithLogOr:
		if l != 0 {
			return 1, nil
		}
		r, err := a.R.eval(e)
		if err != nil {
			return 0, err
		}
		return boolInt(r != 0), nil
	}

	r, err := a.R.eval(e)
	if err != nil {
		return 0, err
	}

	switch a.Op {
	case ArithAdd:
		return l + r, nil
	case ArithSub:
		return l - r, nil
	case ArithMul:
		return l * r, nil
	case ArithDiv:
		if r == 0 {
			return 0, ops.DivideByZero()
		}
		return l / r, nil
	case ArithMod:
		if r == 0 {
			return 0, ops.DivideByZero()
		}
		return l % r, nil
	case ArithPow:
		if r < 0 {
			return 0, ops.NegativeExponent()
		}
		return intPow(l, r), nil
	case ArithShl:
		return l << uint64(r), nil
	case ArithShr:
		return l >> uint64(r), nil
	case ArithLt:
		return boolInt(l < r), nil
	case ArithLe:
		return boolInt(l <= r), nil
	case ArithGt:
		return boolInt(l > r), nil
	case ArithGe:
		return boolInt(l >= r), nil
	case ArithEq:
		return boolInt(l == r), nil
	case ArithNe:
		return boolInt(l != r), nil
	case ArithAnd:
		return l & r, nil
	case ArithXor:
		return l ^ r, nil
	case ArithOr:
		return l | r, nil
	default:
		return 0, nil
	}
}

func intPow(base, exp int64) int64 {
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// ArithCond is the ternary `cond ? then : else` operator.
type ArithCond struct {
	Cond, Then, Else ArithExpr
}

func (a ArithCond) eval(e env.ParamEnv) (int64, error) {
	c, err := a.Cond.eval(e)
	if err != nil {
		return 0, err
	}
	if c != 0 {
		return a.Then.eval(e)
	}
	return a.Else.eval(e)
}

// ArithComma is a comma-separated sequence; every expression evaluates in
// order and the sequence's value is the last one's.
type ArithComma struct {
	Exprs []ArithExpr
}

func (a ArithComma) eval(e env.ParamEnv) (int64, error) {
	var last int64
	for _, x := range a.Exprs {
		n, err := x.eval(e)
		if err != nil {
			return 0, err
		}
		last = n
	}
	return last, nil
}
