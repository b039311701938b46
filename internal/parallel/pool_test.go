package parallel

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestGroup_Workers(t *testing.T) {
	g := NewGroup(context.Background(), 0)
	if g.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want GOMAXPROCS", g.Workers())
	}
	if err := g.Wait(); err != nil {
		t.Errorf("Wait() on empty group = %v", err)
	}
}

func TestGroup_RunsAll(t *testing.T) {
	g := NewGroup(context.Background(), 4)
	var counter atomic.Int64
	for range 100 {
		g.Go(func() { counter.Add(1) })
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

// TestGroup_NestedSpawn builds a binary tree of tasks from inside tasks.
func TestGroup_NestedSpawn(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		g := NewGroup(context.Background(), workers)
		var counter atomic.Int64
		var spawn func(depth int)
		spawn = func(depth int) {
			counter.Add(1)
			if depth == 0 {
				return
			}
			g.Go(func() { spawn(depth - 1) })
			g.Go(func() { spawn(depth - 1) })
		}
		g.Go(func() { spawn(6) })
		if err := g.Wait(); err != nil {
			t.Fatalf("workers=%d: Wait() = %v", workers, err)
		}
		if counter.Load() != 127 {
			t.Errorf("workers=%d: counter = %d, want 127", workers, counter.Load())
		}
	}
}

func TestGroup_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGroup(ctx, 2)
	var ran atomic.Int64
	for range 10 {
		g.Go(func() { ran.Add(1) })
	}
	if err := g.Wait(); err != context.Canceled {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
	if ran.Load() != 0 {
		t.Errorf("%d tasks ran after cancellation", ran.Load())
	}
}

func TestGroup_GoAfterWait(t *testing.T) {
	g := NewGroup(context.Background(), 2)
	_ = g.Wait()
	g.Go(func() { t.Error("task ran after Wait") })
}
