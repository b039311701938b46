// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fill implements a concurrent scan-line flood fill over the
// composited colour of an indexed canvas.
//
// # Algorithm
//
// Filling happens in two phases. Discovery runs concurrently and only
// reads the canvas; it records horizontal spans. Apply then writes every
// span through [indexed.Canvas.WriteColor] in one pass, so layer and rank
// rules still apply and no partially filled state is ever visible.
//
// Discovery starts three tasks from the seed: the seed row itself, a walk
// north and a walk south. A walk advances one row at a time until it
// meets a border, then walks back toward the seed recording one span per
// row. While scanning a row on the way back it inspects the row further
// from the seed; an open, uncovered cell there starts a new walk in the
// same direction from the middle of its run, which finds side branches
// and pockets without per-pixel recursion.
//
// A cell is a border when it lies outside the canvas or when its
// composited colour differs from both the seed colour and the fill
// colour. Background counts as one colour.
//
// # Limitation
//
// The fill is approximate. If an enclosed obstacle shares a row with the
// seed, the part of that row beyond the obstacle is not reached from the
// seed row, and is filled only if a walk from another row finds it. This
// trades coverage on some topologies for throughput on large canvases.
package fill

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/internal/parallel"
	"github.com/gogpu/indexed/palette"
)

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of discovery goroutines.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// Engine runs flood fills. An Engine holds no per-fill state and may be
// shared.
type Engine struct {
	workers int
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fill recolors the region reachable from (x, y) with color.
// It is Plan followed by Apply.
func (e *Engine) Fill(ctx context.Context, c *indexed.Canvas, x, y int, color palette.Color) error {
	spans, err := e.Plan(ctx, c, x, y, color)
	if err != nil {
		return err
	}
	return Apply(c, spans, color)
}

// Plan discovers the spans a fill from (x, y) with color would write,
// without modifying the canvas.
//
// It returns no spans when the seed already has the fill colour or when
// the active layer is locked or hidden. If ctx is cancelled, queued
// discovery work is dropped and ctx.Err() is returned.
func (e *Engine) Plan(ctx context.Context, c *indexed.Canvas, x, y int, color palette.Color) ([]image.Rectangle, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil canvas", indexed.ErrInvalidArgument)
	}
	if !image.Pt(x, y).In(c.Bounds()) {
		return nil, fmt.Errorf("%w: seed (%d,%d) outside %v", indexed.ErrInvalidArgument, x, y, c.Bounds())
	}
	active := c.ActiveLayer()
	if active == nil {
		return nil, indexed.ErrNoActiveLayer
	}
	if active.Locked() || active.Hidden() {
		return nil, nil
	}

	p := &planner{
		c:    c,
		w:    c.Width(),
		h:    c.Height(),
		seed: keyAt(c, x, y),
	}
	if idx, ok := c.ActivePalette().Lookup(color); ok {
		p.target = key{idx: idx, ok: true}
		if p.seed == p.target {
			return nil, nil
		}
	} else {
		// A colour not yet in the palette cannot be on the canvas.
		p.target = p.seed
	}

	p.group = parallel.NewGroup(ctx, e.workers)
	p.group.Go(func() { p.initialRow(x, y) })
	p.group.Go(func() { p.startWalk(x, y, north) })
	p.group.Go(func() { p.startWalk(x, y, south) })
	if err := p.group.Wait(); err != nil {
		return nil, err
	}

	indexed.Logger().Debug("fill: planned", "seed", image.Pt(x, y), "spans", len(p.spans))
	return p.spans, nil
}

// Apply writes color to every span with the canvas' normal write path.
func Apply(c *indexed.Canvas, spans []image.Rectangle, color palette.Color) error {
	for _, r := range spans {
		if err := c.WriteColor(r, color); err != nil {
			return fmt.Errorf("fill: apply %v: %w", r, err)
		}
	}
	return nil
}

// key is a composited colour; ok is false for background.
type key struct {
	idx palette.Index
	ok  bool
}

func keyAt(c *indexed.Canvas, x, y int) key {
	idx, ok := c.Resolve(x, y)
	return key{idx: idx, ok: ok}
}

// Walk directions: the row step away from the seed.
const (
	north = -1
	south = 1
)

type planner struct {
	c            *indexed.Canvas
	w, h         int
	seed, target key
	group        *parallel.Group

	mu    sync.Mutex
	spans []image.Rectangle
}

func (p *planner) border(x, y int) bool {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return true
	}
	k := keyAt(p.c, x, y)
	return k != p.seed && k != p.target
}

// covered reports whether a recorded span contains (x, y). Out-of-bounds
// cells count as covered.
func (p *planner) covered(x, y int) bool {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return true
	}
	pt := image.Pt(x, y)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.spans {
		if pt.In(r) {
			return true
		}
	}
	return false
}

func (p *planner) addSpan(west, east, y int) {
	if east < west {
		return
	}
	p.mu.Lock()
	p.spans = append(p.spans, image.Rect(west, y, east+1, y+1))
	p.mu.Unlock()
}

// findEast returns the first border column east of x on row y.
func (p *planner) findEast(x, y int) int {
	for !p.border(x, y) {
		x++
	}
	return x
}

// findWest returns the first border column west of x on row y.
func (p *planner) findWest(x, y int) int {
	for !p.border(x, y) {
		x--
	}
	return x
}

// initialRow records the open run of row y around x.
func (p *planner) initialRow(x, y int) {
	p.addSpan(p.findWest(x, y)+1, p.findEast(x, y)-1, y)
}

// startWalk walks from row y in direction dir until a border, then walks
// back recording a span per row, the row y itself excluded.
func (p *planner) startWalk(x, y, dir int) {
	if y+dir < 0 || y+dir >= p.h {
		return
	}
	far := y + dir
	for !p.border(x, far) {
		far += dir
	}
	far -= dir

	for row := far; row != y; row -= dir {
		east := p.scanBack(x+1, row, 1, dir)
		west := p.scanBack(x-1, row, -1, dir)
		p.addSpan(west, east, row)
	}
}

// scanBack scans row from x in steps of dx until a border or a covered
// cell and returns the last open column. Along the way, open uncovered
// cells in the row further from the seed start new walks.
func (p *planner) scanBack(x, row, dx, dir int) int {
	for !p.border(x, row) && !p.covered(x, row) {
		check := row + dir
		if !p.border(x, check) && !p.covered(x, check) {
			var end int
			if dx > 0 {
				end = p.findEast(x, check) - 1
			} else {
				end = p.findWest(x, check) + 1
			}
			lo, hi := min(x, end), max(x, end)
			mid := lo + (hi-lo)/2

			p.initialRow(x, check)
			p.group.Go(func() { p.startWalk(mid, check, dir) })
		}
		x += dx
	}
	return x - dx
}
