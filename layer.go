// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"fmt"

	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// Kind distinguishes layers that take part in rank compositing from
// exclusive metadata layers.
type Kind uint8

const (
	// Visual layers are ordered by rank; the topmost modification wins.
	Visual Kind = iota

	// NonVisual layers hold per-pixel metadata of a fixed byte width.
	// While one is active the canvas shows only that layer.
	NonVisual
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Visual:
		return "visual"
	case NonVisual:
		return "nonvisual"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// kindBehavior is the per-kind part of Layer.
type kindBehavior struct {
	// hide updates the cache after l stopped contributing.
	hide func(c *Canvas, l *Layer)
	// show updates the cache after l started contributing again.
	show func(c *Canvas, l *Layer)
	// pixelSize is the byte width of one recorded value.
	pixelSize func(l *Layer) int
}

var behaviors = [...]kindBehavior{
	Visual: {
		hide:      hideVisual,
		show:      showVisual,
		pixelSize: func(l *Layer) int { return l.palette.Channels() },
	},
	NonVisual: {
		hide:      hideNonVisual,
		show:      showNonVisual,
		pixelSize: func(l *Layer) int { return l.width },
	},
}

// Layer is a named owner of one LayerStore.
//
// Layers are created by a Canvas and must be mutated through it so the
// composited cache stays correct. Reading through Store is safe.
type Layer struct {
	name    string
	kind    Kind
	locked  bool
	hidden  bool
	width   int // NonVisual only
	store   layerstore.Store
	palette *palette.Store
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Kind returns Visual or NonVisual.
func (l *Layer) Kind() Kind { return l.kind }

// Locked reports whether writes to the layer are ignored.
func (l *Layer) Locked() bool { return l.locked }

// Hidden reports whether the layer is excluded from compositing.
func (l *Layer) Hidden() bool { return l.hidden }

// ByteWidth returns the number of bytes per recorded value.
func (l *Layer) ByteWidth() int { return behaviors[l.kind].pixelSize(l) }

// Palette returns the palette the layer's lookups refer to.
func (l *Layer) Palette() *palette.Store { return l.palette }

// Store returns the layer's pixels. Callers must not mutate it.
func (l *Layer) Store() layerstore.Store { return l.store }

// Len returns the number of recorded pixels.
func (l *Layer) Len() int { return l.store.Len() }

// Contains reports whether the layer modifies (x, y).
func (l *Layer) Contains(x, y int) bool { return l.store.Contains(x, y) }

// Get returns the layer's pixel at (x, y).
func (l *Layer) Get(x, y int) (layerstore.Pixel, bool) { return l.store.Get(x, y) }

// Color returns the colour the layer records at (x, y).
func (l *Layer) Color(x, y int) (palette.Color, bool) {
	p, ok := l.store.Get(x, y)
	if !ok {
		return palette.Color{}, false
	}
	c, err := l.palette.Get(p.Lookup)
	return c, err == nil
}

// writable reports whether writes through the canvas take effect.
func (l *Layer) writable() bool { return !l.locked && !l.hidden }

// String implements fmt.Stringer.
func (l *Layer) String() string {
	return fmt.Sprintf("%s layer %q", l.kind, l.name)
}

// hideVisual reveals, for each pixel of l not shadowed from above, the
// next lower modifier or the background.
func hideVisual(c *Canvas, l *Layer) {
	if !c.showsVisual() {
		return
	}
	rank := c.rankOf(l)
	l.store.ForEach(func(p layerstore.Pixel) bool {
		x, y := int(p.X), int(p.Y)
		if c.IsShadowed(rank, x, y) {
			return true
		}
		c.setCache(x, y, c.lowerOrBackground(rank, x, y))
		return true
	})
}

// showVisual writes l's lookups wherever no higher layer shadows them.
func showVisual(c *Canvas, l *Layer) {
	if !c.showsVisual() {
		return
	}
	rank := c.rankOf(l)
	l.store.ForEach(func(p layerstore.Pixel) bool {
		x, y := int(p.X), int(p.Y)
		if !c.IsShadowed(rank, x, y) {
			c.setCache(x, y, p.Lookup)
		}
		return true
	})
}

func hideNonVisual(c *Canvas, l *Layer) {
	if c.active != l {
		return
	}
	l.store.ForEach(func(p layerstore.Pixel) bool {
		c.setCache(int(p.X), int(p.Y), c.Background(int(p.X), int(p.Y)))
		return true
	})
}

func showNonVisual(c *Canvas, l *Layer) {
	if c.active != l {
		return
	}
	l.store.ForEach(func(p layerstore.Pixel) bool {
		c.setCache(int(p.X), int(p.Y), p.Lookup)
		return true
	})
}
