// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Group runs a dynamic set of tasks on a fixed number of workers and
// waits for all of them, including tasks submitted by other tasks.
//
// Tasks are queued FIFO. The group stays open until Wait is called and
// the last task has returned. Once the group's context is cancelled, queued
// tasks are dropped without running; tasks already running finish.
//
// Thread safety: Go may be called from any goroutine, including from
// inside a running task. Wait must be called once.
type Group struct {
	ctx     context.Context
	workers int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	pending int // queued + running
	waiting bool
	closed  bool

	wg sync.WaitGroup
}

// NewGroup creates a group and starts its workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewGroup(ctx context.Context, workers int) *Group {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g := &Group{ctx: ctx, workers: workers}
	g.cond = sync.NewCond(&g.mu)

	g.wg.Add(workers)
	for range workers {
		go g.worker()
	}
	return g
}

// Go queues fn. It is a no-op once the group has finished.
func (g *Group) Go(fn func()) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.queue = append(g.queue, fn)
	g.pending++
	g.cond.Signal()
}

// worker is the main loop for each worker goroutine.
func (g *Group) worker() {
	defer g.wg.Done()
	for {
		g.mu.Lock()
		for len(g.queue) == 0 && !g.closed {
			g.cond.Wait()
		}
		if g.closed {
			g.mu.Unlock()
			return
		}
		fn := g.queue[0]
		g.queue[0] = nil
		g.queue = g.queue[1:]
		cancelled := g.ctx.Err() != nil
		g.mu.Unlock()

		if !cancelled {
			fn()
		}
		g.done()
	}
}

// done retires one task and releases the workers when none remain.
func (g *Group) done() {
	g.mu.Lock()
	g.pending--
	if g.pending == 0 && g.waiting {
		g.closed = true
		g.cond.Broadcast()
	}
	g.mu.Unlock()
}

// Wait blocks until every task has run or been dropped, then stops the
// workers. It returns the context error if the group was cancelled.
func (g *Group) Wait() error {
	g.mu.Lock()
	g.waiting = true
	if g.pending == 0 {
		g.closed = true
		g.cond.Broadcast()
	}
	g.mu.Unlock()

	g.wg.Wait()
	return g.ctx.Err()
}

// Workers returns the number of workers in the group.
func (g *Group) Workers() int {
	return g.workers
}
