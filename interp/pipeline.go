package interp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
)

// Pipeline is `stage1 | stage2 | ...`, optionally inverted with a leading
// `!` (spec §4.7 "Pipeline").
type Pipeline struct {
	Stages []ops.Spawner
	Invert bool
}

func (p Pipeline) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	status, err := p.run(ctx, e)
	if err != nil {
		return status, err
	}
	if p.Invert {
		return status.Invert(), nil
	}
	return status, nil
}

func (p Pipeline) run(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	if len(p.Stages) == 0 {
		return env.Success, nil
	}
	if len(p.Stages) == 1 {
		return p.Stages[0].Spawn(ctx, e)
	}

	n := len(p.Stages)
	stageEnvs := make([]*env.Env, n)
	// writeEnds[i] is the pipe write handle stage i must close once it
	// finishes, so stage i+1's read of fd 0 observes EOF (spec §4.7
	// "connect pipes by installing the previous stage's read end at stdin
	// and a fresh write end at stdout").
	writeEnds := make([]env.FileDesc, n)
	readEnds := make([]env.FileDesc, n)

	for i := range stageEnvs {
		stageEnvs[i] = e.Sub()
	}
	if stdin, _, ok := e.FileDesc(0); ok {
		stageEnvs[0].SetFileDesc(0, stdin, env.ReadOnly)
	}
	for i := 0; i < n-1; i++ {
		r, w, err := env.Pipe()
		if err != nil {
			return env.ExitStatus{}, ops.IO(err, "")
		}
		stageEnvs[i].SetFileDesc(1, w, env.WriteOnly)
		stageEnvs[i+1].SetFileDesc(0, r, env.ReadOnly)
		writeEnds[i] = w
		readEnds[i+1] = r
	}
	if stdout, _, ok := e.FileDesc(1); ok {
		stageEnvs[n-1].SetFileDesc(1, stdout, env.WriteOnly)
	}

	statuses := make([]env.ExitStatus, n)
	errs := make([]error, n)
	g, gctx := errgroup.WithContext(ctx)
	for i, stage := range p.Stages {
		i, stage := i, stage
		g.Go(func() error {
			if readEnds[i].Valid() {
				defer readEnds[i].Close()
			}
			if writeEnds[i].Valid() {
				defer writeEnds[i].Close()
			}
			status, err := stage.Spawn(gctx, stageEnvs[i])
			statuses[i] = status
			errs[i] = err
			if err != nil && ops.IsFatal(err) {
				return err
			}
			return nil
		})
	}
	// Every error but the last stage's is swallowed, unconditionally,
	// fatal or not (spec §4.7, ground truth poll_pipeline): only the last
	// stage's result is ever visible outside the pipeline. g.Wait()'s own
	// return value only drives gctx cancellation between stages above; it
	// is not the pipeline's result.
	g.Wait()

	return statuses[n-1], errs[n-1]
}
