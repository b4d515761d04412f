package interp

import (
	"context"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
)

// AndOrOp tags how a list item is conditioned on the previous item's
// status (spec §4.7 "And/Or list").
type AndOrOp int

const (
	// And runs this item iff the previous item succeeded.
	And AndOrOp = iota
	// Or runs this item iff the previous item failed.
	Or
)

// AndOrItem is one item of an and/or list. Op is ignored for the first
// item, which always runs.
type AndOrItem struct {
	Op   AndOrOp
	Node ops.Spawner
}

// AndOrList is `a && b || c && ...` (spec §4.7 "And/Or list").
type AndOrList struct {
	Items    []AndOrItem
	Reporter ErrorReporter
}

func (l AndOrList) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	if len(l.Items) == 0 {
		return env.Success, nil
	}
	report := reportOrDefault(l.Reporter)

	status, err := l.Items[0].Node.Spawn(ctx, e)
	if err != nil {
		if ops.IsFatal(err) {
			return status, err
		}
		report(e, err)
		status = env.Error
	}

	for _, item := range l.Items[1:] {
		runIt := (item.Op == And && status.IsSuccess()) || (item.Op == Or && !status.IsSuccess())
		if !runIt {
			continue
		}
		status, err = item.Node.Spawn(ctx, e)
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

// Sequence is `a; b; c` (spec §4.7 "Sequence"): run every item in order,
// the last status wins.
type Sequence struct {
	Items    []ops.Spawner
	Reporter ErrorReporter
}

func (s Sequence) Spawn(ctx context.Context, e env.SpawnEnv) (env.ExitStatus, error) {
	report := reportOrDefault(s.Reporter)
	status := env.Success
	for _, item := range s.Items {
		var err error
		status, err = item.Spawn(ctx, e)
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
