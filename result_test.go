package loom_test

import (
	"context"
	"errors"
	"testing"

	"github.com/km-arc/loom"
)

func TestJoinResults_AllReady(t *testing.T) {
	joined := loom.JoinResults([]loom.Result{
		loom.Ready("a"),
		loom.Ready(2),
		loom.Ready(nil),
	})

	if joined.IsPending() {
		t.Fatal("all-ready inputs must collapse to Ready")
	}
	values := joined.Value().([]any)
	if values[0] != "a" || values[1] != 2 || values[2] != nil {
		t.Errorf("values = %v, want positional order preserved", values)
	}
}

func TestJoinResults_Empty(t *testing.T) {
	joined := loom.JoinResults(nil)
	if joined.IsPending() {
		t.Fatal("empty join must be Ready")
	}
	if len(joined.Value().([]any)) != 0 {
		t.Errorf("values = %v", joined.Value())
	}
}

func TestJoinResults_AnyPendingMakesJoinPending(t *testing.T) {
	p1 := loom.NewPromise()
	p2 := loom.NewPromise()
	joined := loom.JoinResults([]loom.Result{
		loom.Pending(p1),
		loom.Ready("mid"),
		loom.Pending(p2),
	})

	if !joined.IsPending() {
		t.Fatal("a pending input must make the join pending")
	}

	// Settle out of declaration order; positional order must still hold.
	p2.Resolve("last")
	if joined.Promise().Settled() {
		t.Fatal("join must wait for every input")
	}
	p1.Resolve("first")

	values, err := joined.Promise().Await(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := values.([]any)
	if got[0] != "first" || got[1] != "mid" || got[2] != "last" {
		t.Errorf("values = %v, want declaration-order assembly", got)
	}
}

func TestJoinResults_FirstRejectionRejectsJoin(t *testing.T) {
	p1 := loom.NewPromise()
	p2 := loom.NewPromise()
	joined := loom.JoinResults([]loom.Result{loom.Pending(p1), loom.Pending(p2)})

	boom := errors.New("boom")
	p1.Reject(boom)

	_, err := joined.Promise().Await(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the rejection", err)
	}

	// A straggling success must not flip the already-rejected join.
	p2.Resolve("late")
	if _, err := joined.Promise().Await(context.Background()); !errors.Is(err, boom) {
		t.Error("join settlement must be final")
	}
}

func TestResultOf_Classification(t *testing.T) {
	if loom.ResultOf("plain").IsPending() {
		t.Error("plain value should be Ready")
	}

	pending := loom.NewPromise()
	if !loom.ResultOf(pending).IsPending() {
		t.Error("unsettled promise should be Pending")
	}

	settled := loom.NewPromise()
	settled.Resolve("done")
	r := loom.ResultOf(settled)
	if r.IsPending() || r.Value() != "done" {
		t.Error("a settled promise should unwrap to a Ready value")
	}
}
