// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// IsShadowed reports whether a visible visual layer ranked above rank
// modifies (x, y).
func (c *Canvas) IsShadowed(rank, x, y int) bool {
	for i := 0; i < rank && i < len(c.visual); i++ {
		if l := c.visual[i]; !l.hidden && l.store.Contains(x, y) {
			return true
		}
	}
	return false
}

// IsShadowedBelow reports whether a visible visual layer ranked below
// rank modifies (x, y).
func (c *Canvas) IsShadowedBelow(rank, x, y int) bool {
	_, ok := c.NearestLowerModifier(rank, x, y)
	return ok
}

// NearestLowerModifier returns the highest-priority visible layer ranked
// below rank that modifies (x, y).
func (c *Canvas) NearestLowerModifier(rank, x, y int) (*Layer, bool) {
	for i := max(rank+1, 0); i < len(c.visual); i++ {
		if l := c.visual[i]; !l.hidden && l.store.Contains(x, y) {
			return l, true
		}
	}
	return nil, false
}

// lowerOrBackground returns what shows at (x, y) once every layer at or
// above rank stops contributing.
func (c *Canvas) lowerOrBackground(rank, x, y int) palette.Index {
	if l, ok := c.NearestLowerModifier(rank, x, y); ok {
		p, _ := l.store.Get(x, y)
		return p.Lookup
	}
	return c.Background(x, y)
}

// shadowsRect reports whether any visible layer above rank modifies at
// least one pixel of r.
func (c *Canvas) shadowsRect(rank int, r image.Rectangle) bool {
	area := r.Dx() * r.Dy()
	for i := 0; i < rank && i < len(c.visual); i++ {
		l := c.visual[i]
		if l.hidden || l.store.Len() == 0 {
			continue
		}
		if l.store.Len() < area {
			hit := false
			l.store.ForEach(func(p layerstore.Pixel) bool {
				hit = image.Pt(int(p.X), int(p.Y)).In(r)
				return !hit
			})
			if hit {
				return true
			}
			continue
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if l.store.Contains(x, y) {
					return true
				}
			}
		}
	}
	return false
}

// Resolve returns the highest-ranking modification at (x, y): the
// lookup of the layer that wins there, or false when only the
// background shows. Unlike Composited it does not read the cache.
func (c *Canvas) Resolve(x, y int) (palette.Index, bool) {
	if !c.inBounds(x, y) || c.active == nil {
		return palette.Index{}, false
	}
	if c.active.kind == NonVisual {
		if c.active.hidden {
			return palette.Index{}, false
		}
		p, ok := c.active.store.Get(x, y)
		return p.Lookup, ok
	}
	for _, l := range c.visual {
		if l.hidden {
			continue
		}
		if p, ok := l.store.Get(x, y); ok {
			return p.Lookup, true
		}
	}
	return palette.Index{}, false
}

// Rebuild recomputes the whole composited cache from the layers.
func (c *Canvas) Rebuild() {
	for y := range c.height {
		for x := range c.width {
			idx, ok := c.Resolve(x, y)
			if !ok {
				idx = c.Background(x, y)
			}
			c.cache[y*c.width+x] = idx
		}
	}
	c.dirty.MarkAll()
	Logger().Debug("indexed: cache rebuilt", "width", c.width, "height", c.height)
}

// WriteColor records color in the active layer for every pixel of r and
// updates the composited cache. The colour is added to the active
// layer's palette if needed.
//
// Writing to a locked or hidden active layer does nothing.
func (c *Canvas) WriteColor(r image.Rectangle, color palette.Color) error {
	l, err := c.writeTarget(r)
	if l == nil {
		return err
	}
	idx, err := l.palette.PutOrGet(color)
	if err != nil {
		Logger().Warn("indexed: palette allocation failed", "layer", l.name, "err", err)
		return fmt.Errorf("indexed: write %v: %w", r, err)
	}
	c.writeIndex(l, r, idx)
	return nil
}

// WriteIndex is like WriteColor for a colour already in the active
// layer's palette.
func (c *Canvas) WriteIndex(r image.Rectangle, idx palette.Index) error {
	l, err := c.writeTarget(r)
	if l == nil {
		return err
	}
	if !l.palette.Allocated(idx) {
		return fmt.Errorf("%w: index %v not in palette", ErrInvalidArgument, idx)
	}
	c.writeIndex(l, r, idx)
	return nil
}

// writeTarget validates a write and returns the layer to write to, or
// nil when the write must be skipped.
func (c *Canvas) writeTarget(r image.Rectangle) (*Layer, error) {
	if err := c.checkRect(r); err != nil {
		return nil, err
	}
	if c.active == nil {
		return nil, ErrNoActiveLayer
	}
	if !c.active.writable() {
		return nil, nil
	}
	return c.active, nil
}

func (c *Canvas) writeIndex(l *Layer, r image.Rectangle, idx palette.Index) {
	layerstore.PutRect(l.store, r, idx)

	if l.kind == NonVisual {
		c.fillCache(r, idx)
		return
	}
	rank := c.rankOf(l)
	if !c.shadowsRect(rank, r) {
		c.fillCache(r, idx)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !c.IsShadowed(rank, x, y) {
				c.setCache(x, y, idx)
			}
		}
	}
}

// Erase removes the active layer's pixels in r. What was underneath
// becomes visible: the next lower modifier or the background for a
// visual layer, the background for a non-visual one.
//
// Erasing on a locked or hidden active layer does nothing.
func (c *Canvas) Erase(r image.Rectangle) error {
	l, err := c.writeTarget(r)
	if l == nil {
		return err
	}
	removed := layerstore.RemoveRect(l.store, r)
	rank := c.rankOf(l)
	for _, s := range removed {
		if !s.Ok {
			continue
		}
		x, y := int(s.X), int(s.Y)
		if l.kind == NonVisual {
			c.setCache(x, y, c.Background(x, y))
			continue
		}
		if c.IsShadowed(rank, x, y) {
			continue
		}
		c.setCache(x, y, c.lowerOrBackground(rank, x, y))
	}
	return nil
}

// MoveRank moves the visual layer at rank from to rank to and updates
// the cache for exactly the pixels that layer modifies. Moving to the
// same rank does nothing.
func (c *Canvas) MoveRank(from, to int) error {
	n := len(c.visual)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move rank %d to %d of %d", ErrInvalidArgument, from, to, n)
	}
	if from == to {
		return nil
	}
	l := c.visual[from]
	c.visual = slices.Delete(c.visual, from, from+1)
	c.visual = slices.Insert(c.visual, to, l)
	Logger().Debug("indexed: layer moved", "name", l.name, "from", from, "to", to)

	if l.hidden || !c.showsVisual() {
		return nil
	}
	l.store.ForEach(func(p layerstore.Pixel) bool {
		x, y := int(p.X), int(p.Y)
		if to < from {
			// Moving up: l wins unless a layer now above it modifies here.
			if !c.IsShadowed(to, x, y) {
				c.setCache(x, y, p.Lookup)
			}
			return true
		}
		// Moving down: the layers that were in (from, to] now sit in
		// [from, to). The first of them modifying here wins, unless a
		// layer above from already shadowed l.
		if c.IsShadowed(from, x, y) {
			return true
		}
		for i := from; i < to; i++ {
			m := c.visual[i]
			if m.hidden {
				continue
			}
			if q, ok := m.store.Get(x, y); ok {
				c.setCache(x, y, q.Lookup)
				break
			}
		}
		return true
	})
	return nil
}

// MoveLayer moves visual layer l to rank to.
func (c *Canvas) MoveLayer(l *Layer, to int) error {
	from := c.rankOf(l)
	if from < 0 {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	return c.MoveRank(from, to)
}

// SetHidden hides or shows l and updates the cache for the pixels l
// modifies.
func (c *Canvas) SetHidden(l *Layer, hidden bool) error {
	if !c.owns(l) {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	if l.hidden == hidden {
		return nil
	}
	l.hidden = hidden
	if hidden {
		behaviors[l.kind].hide(c, l)
	} else {
		behaviors[l.kind].show(c, l)
	}
	return nil
}

// Hide is shorthand for SetHidden(l, true).
func (c *Canvas) Hide(l *Layer) error { return c.SetHidden(l, true) }

// Show is shorthand for SetHidden(l, false).
func (c *Canvas) Show(l *Layer) error { return c.SetHidden(l, false) }
