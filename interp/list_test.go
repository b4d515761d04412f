package interp

import (
	"context"
	"testing"

	"github.com/coreshell/coreshell/env"
	"github.com/coreshell/coreshell/ops"
)

func TestAndOrListFirstItemAlwaysRuns(t *testing.T) {
	e := newTestEnv(t)
	l := AndOrList{Items: []AndOrItem{{Node: statusSpawner{status: env.Error}}}}
	status, err := l.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if status.IsSuccess() {
		t.Errorf("status = %v, want Error", status)
	}
}

func TestAndOrListAndSkipsAfterFailure(t *testing.T) {
	e := newTestEnv(t)
	ran := false
	l := AndOrList{Items: []AndOrItem{
		{Node: statusSpawner{status: env.Error}},
		{Op: And, Node: trackingSpawner{&ran, env.Success}},
	}}
	status, err := l.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if ran {
		t.Error("second item ran after a failing left side of &&")
	}
	if status.IsSuccess() {
		t.Errorf("status = %v, want Error (last-run item's status)", status)
	}
}

func TestAndOrListOrRunsAfterFailure(t *testing.T) {
	e := newTestEnv(t)
	ran := false
	l := AndOrList{Items: []AndOrItem{
		{Node: statusSpawner{status: env.Error}},
		{Op: Or, Node: trackingSpawner{&ran, env.Success}},
	}}
	status, err := l.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if !ran {
		t.Error("|| right side did not run after a failing left side")
	}
	if !status.IsSuccess() {
		t.Errorf("status = %v, want Success", status)
	}
}

func TestAndOrListNonFatalErrorCoercesToErrorAndContinues(t *testing.T) {
	e := newTestEnv(t)
	ran := false
	nonFatal := &ops.Error{Kind: ops.KindCommand, Msg: "boom"}
	l := AndOrList{
		Reporter: silentReporter,
		Items: []AndOrItem{
			{Node: statusSpawner{status: env.Success, err: nonFatal}},
			{Op: Or, Node: trackingSpawner{&ran, env.Success}},
		},
	}
	status, err := l.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v, want the non-fatal error coerced away", err)
	}
	if !ran {
		t.Error("|| right side did not run after the first item's coerced-to-error status")
	}
	if !status.IsSuccess() {
		t.Errorf("final status = %v, want Success", status)
	}
}

func TestAndOrListFatalErrorShortCircuits(t *testing.T) {
	e := newTestEnv(t)
	ran := false
	l := AndOrList{Items: []AndOrItem{
		{Node: statusSpawner{status: env.Error, err: ops.WrapFatal(errBoom)}},
		{Op: Or, Node: trackingSpawner{&ran, env.Success}},
	}}
	_, err := l.Spawn(context.Background(), e)
	if err == nil || !ops.IsFatal(err) {
		t.Errorf("Spawn err = %v, want a fatal error", err)
	}
	if ran {
		t.Error("second item ran despite a fatal error from the first")
	}
}

func TestSequenceRunsEveryItemLastStatusWins(t *testing.T) {
	e := newTestEnv(t)
	var order []int
	s := Sequence{Items: []ops.Spawner{
		orderSpawner{&order, 1, env.Success},
		orderSpawner{&order, 2, env.Success},
		orderSpawner{&order, 3, env.Code(9)},
	}}
	status, err := s.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if status.Value() != 9 {
		t.Errorf("status = %v, want Code(9) (last item)", status)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestSequenceNonFatalErrorCoercesAndContinues(t *testing.T) {
	e := newTestEnv(t)
	ran := false
	nonFatal := &ops.Error{Kind: ops.KindCommand, Msg: "boom"}
	s := Sequence{
		Reporter: silentReporter,
		Items: []ops.Spawner{
			statusSpawner{status: env.Success, err: nonFatal},
			trackingSpawner{&ran, env.Success},
		},
	}
	status, err := s.Spawn(context.Background(), e)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if !ran {
		t.Error("second item did not run after a non-fatal first-item error")
	}
	if !status.IsSuccess() {
		t.Errorf("status = %v, want Success", status)
	}
}

func silentReporter(env.SpawnEnv, error) {}

type trackingSpawner struct {
	ran    *bool
	status env.ExitStatus
}

func (s trackingSpawner) Spawn(context.Context, env.SpawnEnv) (env.ExitStatus, error) {
	*s.ran = true
	return s.status, nil
}

type orderSpawner struct {
	order  *[]int
	n      int
	status env.ExitStatus
}

func (s orderSpawner) Spawn(context.Context, env.SpawnEnv) (env.ExitStatus, error) {
	*s.order = append(*s.order, s.n)
	return s.status, nil
}
