// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"fmt"
	"image"

	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// Snapshot holds a region of one layer and of the composited cache, so
// a pixel edit can be undone exactly.
type Snapshot struct {
	layer *Layer
	rect  image.Rectangle
	slots []layerstore.Slot
	cache []palette.Index
}

// Rect returns the captured region.
func (s *Snapshot) Rect() image.Rectangle { return s.rect }

// Layer returns the captured layer.
func (s *Snapshot) Layer() *Layer { return s.layer }

// Snapshot captures r of the active layer and the cache. r is clipped to
// the canvas; an empty result is an error.
func (c *Canvas) Snapshot(r image.Rectangle) (*Snapshot, error) {
	if c.active == nil {
		return nil, ErrNoActiveLayer
	}
	return c.SnapshotLayer(c.active, r)
}

// SnapshotLayer captures r of l and the cache.
func (c *Canvas) SnapshotLayer(l *Layer, r image.Rectangle) (*Snapshot, error) {
	if !c.owns(l) {
		return nil, fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	r = r.Intersect(c.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%w: empty snapshot region", ErrInvalidArgument)
	}
	return &Snapshot{
		layer: l,
		rect:  r,
		slots: layerstore.GetRect(l.store, r),
		cache: c.CompositedRect(make([]palette.Index, 0, r.Dx()*r.Dy()), r),
	}, nil
}

// Restore writes a snapshot back. Lock and visibility are not checked:
// restoring undoes an edit that already passed those gates.
func (c *Canvas) Restore(s *Snapshot) error {
	if s == nil || !c.owns(s.layer) {
		return fmt.Errorf("%w: snapshot does not belong to canvas", ErrInvalidArgument)
	}
	layerstore.Restore(s.layer.store, s.slots)
	i := 0
	for y := s.rect.Min.Y; y < s.rect.Max.Y; y++ {
		row := y * c.width
		copy(c.cache[row+s.rect.Min.X:row+s.rect.Max.X], s.cache[i:i+s.rect.Dx()])
		i += s.rect.Dx()
	}
	c.dirty.MarkRect(s.rect)
	return nil
}
