// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"image"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/fill"
	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// WriteColor writes a colour to a rectangle of the active layer.
type WriteColor struct {
	toggle
	c     *indexed.Canvas
	rect  image.Rectangle
	color palette.Color
	snap  *indexed.Snapshot
}

// NewWriteColor snapshots r and returns a command writing color to it.
func NewWriteColor(c *indexed.Canvas, r image.Rectangle, color palette.Color) (*WriteColor, error) {
	snap, err := c.Snapshot(r)
	if err != nil {
		return nil, err
	}
	return &WriteColor{c: c, rect: r, color: color, snap: snap}, nil
}

func (w *WriteColor) Do() error      { return w.do(func() error { return w.c.WriteColor(w.rect, w.color) }) }
func (w *WriteColor) Undo() error    { return w.undo(func() error { return w.c.Restore(w.snap) }) }
func (w *WriteColor) Domain() Domain { return RenderDomain }
func (w *WriteColor) Type() Type     { return TypeWriteColor }

// Erase removes the active layer's pixels in a rectangle.
type Erase struct {
	toggle
	c    *indexed.Canvas
	rect image.Rectangle
	snap *indexed.Snapshot
}

// NewErase snapshots r and returns a command erasing it.
func NewErase(c *indexed.Canvas, r image.Rectangle) (*Erase, error) {
	snap, err := c.Snapshot(r)
	if err != nil {
		return nil, err
	}
	return &Erase{c: c, rect: r, snap: snap}, nil
}

func (e *Erase) Do() error      { return e.do(func() error { return e.c.Erase(e.rect) }) }
func (e *Erase) Undo() error    { return e.undo(func() error { return e.c.Restore(e.snap) }) }
func (e *Erase) Domain() Domain { return RenderDomain }
func (e *Erase) Type() Type     { return TypeErase }

// FloodFill applies the spans of a planned flood fill.
type FloodFill struct {
	toggle
	c     *indexed.Canvas
	spans []image.Rectangle
	color palette.Color
	snap  *indexed.Snapshot
}

// NewFloodFill plans a fill from (x, y) with engine and snapshots the
// bounding box of the discovered spans. Planning happens here so that
// redo replays exactly the same spans.
func NewFloodFill(ctx context.Context, engine *fill.Engine, c *indexed.Canvas, x, y int, color palette.Color) (*FloodFill, error) {
	spans, err := engine.Plan(ctx, c, x, y, color)
	if err != nil {
		return nil, err
	}
	f := &FloodFill{c: c, spans: spans, color: color}
	if len(spans) == 0 {
		return f, nil
	}
	var bounds image.Rectangle
	for _, r := range spans {
		bounds = bounds.Union(r)
	}
	if f.snap, err = c.Snapshot(bounds); err != nil {
		return nil, err
	}
	return f, nil
}

// Spans returns the rectangles the fill writes.
func (f *FloodFill) Spans() []image.Rectangle { return f.spans }

func (f *FloodFill) Do() error {
	return f.do(func() error { return fill.Apply(f.c, f.spans, f.color) })
}

func (f *FloodFill) Undo() error {
	return f.undo(func() error {
		if f.snap == nil {
			return nil
		}
		return f.c.Restore(f.snap)
	})
}

func (f *FloodFill) Domain() Domain { return RenderDomain }
func (f *FloodFill) Type() Type     { return TypeFloodFill }

// MoveRank moves a visual layer between ranks. Undo moves it back.
type MoveRank struct {
	toggle
	c        *indexed.Canvas
	from, to int
}

// NewMoveRank returns a command moving the layer at from to to.
func NewMoveRank(c *indexed.Canvas, from, to int) *MoveRank {
	return &MoveRank{c: c, from: from, to: to}
}

func (m *MoveRank) Do() error      { return m.do(func() error { return m.c.MoveRank(m.from, m.to) }) }
func (m *MoveRank) Undo() error    { return m.undo(func() error { return m.c.MoveRank(m.to, m.from) }) }
func (m *MoveRank) Domain() Domain { return RenderDomain }
func (m *MoveRank) Type() Type     { return TypeMoveRank }

// SetHidden hides or shows a layer.
type SetHidden struct {
	toggle
	c            *indexed.Canvas
	layer        *indexed.Layer
	hidden, prev bool
}

// NewSetHidden returns a command setting l's visibility.
func NewSetHidden(c *indexed.Canvas, l *indexed.Layer, hidden bool) *SetHidden {
	return &SetHidden{c: c, layer: l, hidden: hidden, prev: l.Hidden()}
}

func (s *SetHidden) Do() error {
	return s.do(func() error { return s.c.SetHidden(s.layer, s.hidden) })
}

func (s *SetHidden) Undo() error {
	return s.undo(func() error { return s.c.SetHidden(s.layer, s.prev) })
}

func (s *SetHidden) Domain() Domain { return RenderDomain }
func (s *SetHidden) Type() Type     { return TypeSetHidden }

// SetLocked locks or unlocks a layer. It does not touch the cache.
type SetLocked struct {
	toggle
	c            *indexed.Canvas
	layer        *indexed.Layer
	locked, prev bool
}

// NewSetLocked returns a command setting l's lock.
func NewSetLocked(c *indexed.Canvas, l *indexed.Layer, locked bool) *SetLocked {
	return &SetLocked{c: c, layer: l, locked: locked, prev: l.Locked()}
}

func (s *SetLocked) Do() error {
	return s.do(func() error { return s.c.SetLocked(s.layer, s.locked) })
}

func (s *SetLocked) Undo() error {
	return s.undo(func() error { return s.c.SetLocked(s.layer, s.prev) })
}

func (s *SetLocked) Domain() Domain { return AnyDomain }
func (s *SetLocked) Type() Type     { return TypeSetLocked }

// SetActive changes the active layer.
type SetActive struct {
	toggle
	c     *indexed.Canvas
	layer *indexed.Layer
	prev  *indexed.Layer
}

// NewSetActive returns a command making l active.
func NewSetActive(c *indexed.Canvas, l *indexed.Layer) *SetActive {
	return &SetActive{c: c, layer: l, prev: c.ActiveLayer()}
}

func (s *SetActive) Do() error {
	return s.do(func() error { return s.c.SetActiveLayer(s.layer) })
}

func (s *SetActive) Undo() error {
	return s.undo(func() error {
		if s.prev == nil {
			return nil
		}
		return s.c.SetActiveLayer(s.prev)
	})
}

func (s *SetActive) Domain() Domain { return RenderDomain }
func (s *SetActive) Type() Type     { return TypeSetActive }

// RemoveLayer detaches a layer. Undo puts it back at its rank with its
// pixels, and reactivates it if it was active.
type RemoveLayer struct {
	toggle
	c         *indexed.Canvas
	layer     *indexed.Layer
	rank      int
	wasActive bool
}

// NewRemoveLayer returns a command removing l.
func NewRemoveLayer(c *indexed.Canvas, l *indexed.Layer) *RemoveLayer {
	return &RemoveLayer{c: c, layer: l}
}

func (r *RemoveLayer) Do() error {
	return r.do(func() error {
		r.wasActive = r.c.ActiveLayer() == r.layer
		rank, err := r.c.RemoveLayer(r.layer)
		r.rank = rank
		return err
	})
}

func (r *RemoveLayer) Undo() error {
	return r.undo(func() error {
		var err error
		if r.layer.Kind() == indexed.Visual {
			err = r.c.InsertVisualLayer(r.layer, r.rank)
		} else {
			err = r.c.InsertNonVisualLayer(r.layer)
		}
		if err != nil || !r.wasActive {
			return err
		}
		return r.c.SetActiveLayer(r.layer)
	})
}

func (r *RemoveLayer) Domain() Domain { return RenderDomain }
func (r *RemoveLayer) Type() Type     { return TypeRemoveLayer }

// AddLayer adds an empty layer. The layer is created by the first Do;
// redo puts the same layer back, so later commands that captured it
// stay valid.
type AddLayer struct {
	toggle
	c     *indexed.Canvas
	name  string
	kind  indexed.Kind
	pal   *palette.Store
	layer *indexed.Layer
	rank  int
}

// NewAddVisualLayer returns a command appending a visual layer.
func NewAddVisualLayer(c *indexed.Canvas, name string) *AddLayer {
	return &AddLayer{c: c, name: name, kind: indexed.Visual}
}

// NewAddNonVisualLayer returns a command adding a non-visual layer
// whose values are lookups into pal.
func NewAddNonVisualLayer(c *indexed.Canvas, name string, pal *palette.Store) *AddLayer {
	return &AddLayer{c: c, name: name, kind: indexed.NonVisual, pal: pal}
}

// Layer returns the added layer, or nil before the first Do.
func (a *AddLayer) Layer() *indexed.Layer { return a.layer }

func (a *AddLayer) Do() error {
	return a.do(func() error {
		if a.layer != nil {
			if a.kind == indexed.Visual {
				return a.c.InsertVisualLayer(a.layer, a.rank)
			}
			return a.c.InsertNonVisualLayer(a.layer)
		}
		var err error
		if a.kind == indexed.Visual {
			a.layer, err = a.c.AddVisualLayer(a.name)
		} else {
			a.layer, err = a.c.AddNonVisualLayer(a.name, a.pal)
		}
		if err != nil {
			return err
		}
		a.rank, _ = a.c.Rank(a.layer)
		return nil
	})
}

func (a *AddLayer) Undo() error {
	return a.undo(func() error {
		_, err := a.c.RemoveLayer(a.layer)
		return err
	})
}

func (a *AddLayer) Domain() Domain { return RenderDomain }
func (a *AddLayer) Type() Type     { return TypeAddLayer }

// LoadLayer replaces a layer's pixels. Undo loads a copy of the pixels
// taken when the command was built.
type LoadLayer struct {
	toggle
	c     *indexed.Canvas
	layer *indexed.Layer
	store layerstore.Store
	prev  layerstore.Store
}

// NewLoadLayer returns a command loading s into l.
func NewLoadLayer(c *indexed.Canvas, l *indexed.Layer, s layerstore.Store) *LoadLayer {
	return &LoadLayer{c: c, layer: l, store: s, prev: layerstore.Copy(l.Store(), c.StoreKind())}
}

func (l *LoadLayer) Do() error      { return l.do(func() error { return l.c.LoadLayer(l.layer, l.store) }) }
func (l *LoadLayer) Undo() error    { return l.undo(func() error { return l.c.LoadLayer(l.layer, l.prev) }) }
func (l *LoadLayer) Domain() Domain { return RenderDomain }
func (l *LoadLayer) Type() Type     { return TypeLoadLayer }

// SetCheckerSize resizes the background tiles.
type SetCheckerSize struct {
	toggle
	c            *indexed.Canvas
	w, h         int
	prevW, prevH int
}

// NewSetCheckerSize returns a command setting the tile size to w by h.
func NewSetCheckerSize(c *indexed.Canvas, w, h int) *SetCheckerSize {
	pw, ph := c.CheckerSize()
	return &SetCheckerSize{c: c, w: w, h: h, prevW: pw, prevH: ph}
}

func (s *SetCheckerSize) Do() error {
	return s.do(func() error { return s.c.SetCheckerSize(s.w, s.h) })
}

func (s *SetCheckerSize) Undo() error {
	return s.undo(func() error { return s.c.SetCheckerSize(s.prevW, s.prevH) })
}

func (s *SetCheckerSize) Domain() Domain { return RenderDomain }
func (s *SetCheckerSize) Type() Type     { return TypeSetCheckerSize }
