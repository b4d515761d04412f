package interp

import (
	"context"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
	"github.com/coreshell/coreshell/pattern"
)

// IfArm is one `elif`/`if` guard-body pair.
type IfArm struct {
	Guard ops.Spawner
	Body  ops.Spawner
}

// If is `if ...; then ...; elif ...; then ...; else ...; fi` (spec §4.7
// "If"): walk guard/body pairs, first guard returning success runs its
// body; else the optional Else branch; else EXIT_SUCCESS.
type If struct {
	Arms     []IfArm
	Else     ops.Spawner
	Reporter ErrorReporter
}

func (n If) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	report := reportOrDefault(n.Reporter)
	for _, arm := range n.Arms {
		status, err := arm.Guard.Spawn(ctx, e)
		if err != nil {
			if ops.IsFatal(err) {
				return status, err
			}
			report(e, err)
			status = env.Error
		}
		if status.IsSuccess() {
			return arm.Body.Spawn(ctx, e)
		}
	}
	if n.Else != nil {
		return n.Else.Spawn(ctx, e)
	}
	return env.Success, nil
}

// CaseArm is one `pattern1|pattern2) body ;;` arm. Patterns are evaluated
// lazily: an arm isn't compiled or matched until the walk reaches it, and
// an arm with no patterns at all never matches (spec §4.7 "Case").
type CaseArm struct {
	Patterns []ops.WordEval
	Body     ops.Spawner
}

// Case is `case word in arm... esac` (spec §4.7 "Case"): the subject word
// is evaluated once with {First, false}, joined with a space if it came
// back multi-field, then matched against each arm's patterns in order.
type Case struct {
	Word     ops.WordEval
	Arms     []CaseArm
	Reporter ErrorReporter
}

func (n Case) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	report := reportOrDefault(n.Reporter)

	subject, err := evalCaseSubject(ctx, e, n.Word)
	if err != nil {
		if ops.IsFatal(err) {
			return env.ExitStatus{}, err
		}
		report(e, err)
		return env.Error, nil
	}

	for _, arm := range n.Arms {
		if len(arm.Patterns) == 0 {
			continue
		}
		matched, err := caseArmMatches(ctx, e, arm, subject)
		if err != nil {
			if ops.IsFatal(err) {
				return env.ExitStatus{}, err
			}
			report(e, err)
			return env.Error, nil
		}
		if matched {
			return arm.Body.Spawn(ctx, e)
		}
	}
	return env.Success, nil
}

func evalCaseSubject(ctx context.Context, e env.WordEnv, w ops.WordEval) (string, error) {
	wf, err := w.Eval(ctx, e, ops.WordEvalConfig{Tilde: ops.TildeFirst, SplitFieldsFurther: false})
	if err != nil {
		return "", err
	}
	return string(wf.Join()), nil
}

func caseArmMatches(ctx context.Context, e env.WordEnv, arm CaseArm, subject string) (bool, error) {
	for _, pw := range arm.Patterns {
		patSrc, err := evalCaseSubject(ctx, e, pw)
		if err != nil {
			return false, err
		}
		p := pattern.Compile(patSrc, pattern.EntireString)
		if p.Match(subject) {
			return true, nil
		}
	}
	return false, nil
}

// LoopKind discriminates `while`/`until` (spec §4.7 "loop (while|until)").
type LoopKind int

const (
	While LoopKind = iota
	Until
)

// Loop is `while/until guard; do body; done`. An empty guard and body is
// EXIT_SUCCESS (spec §4.7). The body's last status becomes the loop's
// status; a guard that errors non-fatally counts as "fails" for Until's
// continue condition, per spec's explicit "continue while guard fails or
// errors non-fatally".
type Loop struct {
	Kind     LoopKind
	Guard    ops.Spawner
	Body     ops.Spawner
	Reporter ErrorReporter
}

func (n Loop) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	if n.Guard == nil && n.Body == nil {
		return env.Success, nil
	}
	report := reportOrDefault(n.Reporter)
	status := env.Success
	for {
		guardStatus, err := n.Guard.Spawn(ctx, e)
		guardFailed := !guardStatus.IsSuccess()
		if err != nil {
			if ops.IsFatal(err) {
				return status, err
			}
			report(e, err)
			guardFailed = true
		}

		var cont bool
		switch n.Kind {
		case While:
			cont = !guardFailed
		case Until:
			cont = guardFailed
		}
		if !cont {
			break
		}

		status, err = n.Body.Spawn(ctx, e)
		if err != nil {
			if ops.IsFatal(err) {
				return status, err
			}
			report(e, err)
			status = env.Error
		}
	}
	return status, nil
}
