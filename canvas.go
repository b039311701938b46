// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/indexed/internal/parallel"
	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// Canvas is a fixed-size raster made of layers.
//
// Visual layers are kept in rank order: rank 0 is the topmost. NonVisual
// layers are unordered. One layer is active and receives every write.
// The canvas keeps a composited buffer of palette indices that always
// equals what resolving every layer from scratch would produce:
//
//   - with a Visual layer active, each pixel holds the lookup of the
//     lowest-ranked visible Visual layer that modifies it, or the
//     checkerboard background;
//   - with a NonVisual layer active, each pixel holds that layer's own
//     lookup, or the background.
//
// Canvas is not safe for concurrent mutation. Concurrent readers are fine
// while no goroutine mutates.
type Canvas struct {
	width, height int
	opts          options

	palette   *palette.Store
	visual    []*Layer
	nonVisual []*Layer
	active    *Layer

	cache []palette.Index
	dirty *parallel.DirtyRegion
}

// New creates a canvas of the given size. Visual layers use pal.
func New(width, height int, pal *palette.Store, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas size %dx%d", ErrInvalidArgument, width, height)
	}
	if pal == nil {
		return nil, fmt.Errorf("%w: nil palette", ErrInvalidArgument)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Canvas{
		width:   width,
		height:  height,
		opts:    o,
		palette: pal,
		cache:   make([]palette.Index, width*height),
		dirty:   parallel.NewDirtyRegion(width, height, o.dirtyTile),
	}
	c.Rebuild()
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// Palette returns the palette shared by the visual layers.
func (c *Canvas) Palette() *palette.Store { return c.palette }

// ActivePalette returns the palette the composited buffer refers to:
// the active NonVisual layer's palette, or the visual palette.
func (c *Canvas) ActivePalette() *palette.Store {
	if c.active != nil && c.active.kind == NonVisual {
		return c.active.palette
	}
	return c.palette
}

// StoreKind returns the LayerStore implementation new layers use.
func (c *Canvas) StoreKind() layerstore.Kind { return c.opts.storeKind }

// ActiveLayer returns the layer receiving writes, or nil when the canvas
// has no layers.
func (c *Canvas) ActiveLayer() *Layer { return c.active }

// VisualLayers returns the visual layers in rank order.
func (c *Canvas) VisualLayers() []*Layer { return slices.Clone(c.visual) }

// NonVisualLayers returns the non-visual layers.
func (c *Canvas) NonVisualLayers() []*Layer { return slices.Clone(c.nonVisual) }

// Rank returns the rank of a visual layer.
func (c *Canvas) Rank(l *Layer) (int, bool) {
	r := c.rankOf(l)
	return r, r >= 0
}

func (c *Canvas) rankOf(l *Layer) int {
	return slices.Index(c.visual, l)
}

// Layer returns the layer with the given name, compared case-insensitively.
func (c *Canvas) Layer(name string) (*Layer, bool) {
	key := nameKey(name)
	for _, l := range c.visual {
		if nameKey(l.name) == key {
			return l, true
		}
	}
	for _, l := range c.nonVisual {
		if nameKey(l.name) == key {
			return l, true
		}
	}
	return nil, false
}

func (c *Canvas) owns(l *Layer) bool {
	if l == nil {
		return false
	}
	if l.kind == Visual {
		return c.rankOf(l) >= 0
	}
	return slices.Contains(c.nonVisual, l)
}

// showsVisual reports whether the cache currently resolves visual layers.
func (c *Canvas) showsVisual() bool {
	return c.active == nil || c.active.kind == Visual
}

// Background returns the checkerboard index at (x, y). It depends only on
// the tile coordinates: odd tile columns are dark, and even tile rows
// invert the choice.
func (c *Canvas) Background(x, y int) palette.Index {
	dark := (x/c.opts.checkerW)%2 == 1
	if (y/c.opts.checkerH)%2 == 0 {
		dark = !dark
	}
	if dark {
		return palette.BackgroundDark
	}
	return palette.BackgroundLight
}

// CheckerSize returns the background tile size.
func (c *Canvas) CheckerSize() (w, h int) { return c.opts.checkerW, c.opts.checkerH }

// SetCheckerSize changes the background tile size and rebuilds the cache.
func (c *Canvas) SetCheckerSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: checker size %dx%d", ErrInvalidArgument, w, h)
	}
	c.opts.checkerW, c.opts.checkerH = w, h
	c.Rebuild()
	return nil
}

// Composited returns the cached index at (x, y). Out-of-bounds
// coordinates return the zero Index.
func (c *Canvas) Composited(x, y int) palette.Index {
	if !c.inBounds(x, y) {
		return palette.Index{}
	}
	return c.cache[y*c.width+x]
}

// CompositedBuffer returns a row-major copy of the composited cache.
func (c *Canvas) CompositedBuffer() []palette.Index {
	return slices.Clone(c.cache)
}

// CompositedRect appends the cached indices of r, row-major, to dst.
// r is clipped to the canvas.
func (c *Canvas) CompositedRect(dst []palette.Index, r image.Rectangle) []palette.Index {
	r = r.Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * c.width
		dst = append(dst, c.cache[row+r.Min.X:row+r.Max.X]...)
	}
	return dst
}

// TakeDirty returns the rectangles changed since the last call and
// resets tracking. The rectangles are tile aligned and may cover more
// than what changed.
func (c *Canvas) TakeDirty() []image.Rectangle {
	return c.dirty.TakeRects()
}

// MarkAllDirty flags the whole canvas as changed.
func (c *Canvas) MarkAllDirty() { c.dirty.MarkAll() }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *Canvas) checkRect(r image.Rectangle) error {
	if r.Empty() {
		return fmt.Errorf("%w: empty rectangle %v", ErrInvalidArgument, r)
	}
	if !r.In(c.Bounds()) {
		return fmt.Errorf("%w: rectangle %v outside %v", ErrInvalidArgument, r, c.Bounds())
	}
	return nil
}

func (c *Canvas) setCache(x, y int, idx palette.Index) {
	c.cache[y*c.width+x] = idx
	c.dirty.MarkPixel(x, y)
}

func (c *Canvas) fillCache(r image.Rectangle, idx palette.Index) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.cache[y*c.width+r.Min.X : y*c.width+r.Max.X]
		for i := range row {
			row[i] = idx
		}
	}
	c.dirty.MarkRect(r)
}

func (c *Canvas) newLayer(name string, kind Kind, pal *palette.Store) (*Layer, error) {
	n, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if _, taken := c.Layer(n); taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, n)
	}
	return &Layer{
		name:    n,
		kind:    kind,
		width:   pal.Channels(),
		store:   layerstore.New(c.opts.storeKind, c.width, c.height),
		palette: pal,
	}, nil
}

// AddVisualLayer appends an empty visual layer at the lowest priority.
// The first layer added to a canvas becomes active.
func (c *Canvas) AddVisualLayer(name string) (*Layer, error) {
	l, err := c.newLayer(name, Visual, c.palette)
	if err != nil {
		return nil, err
	}
	c.visual = append(c.visual, l)
	c.activateIfFirst(l)
	Logger().Debug("indexed: visual layer added", "name", l.name, "rank", len(c.visual)-1)
	return l, nil
}

// AddNonVisualLayer adds an empty non-visual layer whose values are
// lookups into pal. The byte width of the layer is pal.Channels().
func (c *Canvas) AddNonVisualLayer(name string, pal *palette.Store) (*Layer, error) {
	if pal == nil {
		return nil, fmt.Errorf("%w: nil palette", ErrInvalidArgument)
	}
	l, err := c.newLayer(name, NonVisual, pal)
	if err != nil {
		return nil, err
	}
	c.nonVisual = append(c.nonVisual, l)
	c.activateIfFirst(l)
	Logger().Debug("indexed: non-visual layer added", "name", l.name, "width", l.width)
	return l, nil
}

func (c *Canvas) activateIfFirst(l *Layer) {
	if c.active == nil {
		c.active = l
		c.Rebuild()
	}
}

// InsertVisualLayer puts a detached visual layer back at rank, keeping
// its pixels and flags. It is the inverse of RemoveLayer.
func (c *Canvas) InsertVisualLayer(l *Layer, rank int) error {
	if l == nil || l.kind != Visual || c.owns(l) {
		return fmt.Errorf("%w: cannot insert %v", ErrInvalidArgument, l)
	}
	if rank < 0 || rank > len(c.visual) {
		return fmt.Errorf("%w: rank %d of %d", ErrInvalidArgument, rank, len(c.visual))
	}
	if w, h := l.store.Bounds(); w != c.width || h != c.height {
		return fmt.Errorf("%w: layer is %dx%d, canvas is %dx%d", ErrInvalidArgument, w, h, c.width, c.height)
	}
	if _, taken := c.Layer(l.name); taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, l.name)
	}
	c.visual = slices.Insert(c.visual, rank, l)
	if c.active == nil {
		c.active = l
		c.Rebuild()
		return nil
	}
	if !l.hidden {
		behaviors[Visual].show(c, l)
	}
	return nil
}

// InsertNonVisualLayer puts a detached non-visual layer back.
func (c *Canvas) InsertNonVisualLayer(l *Layer) error {
	if l == nil || l.kind != NonVisual || c.owns(l) {
		return fmt.Errorf("%w: cannot insert %v", ErrInvalidArgument, l)
	}
	if _, taken := c.Layer(l.name); taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, l.name)
	}
	c.nonVisual = append(c.nonVisual, l)
	c.activateIfFirst(l)
	return nil
}

// RemoveLayer detaches l from the canvas. For a visual layer the returned
// rank is where it was; for a non-visual layer it is -1. When l was
// active, the topmost visual layer (or the first non-visual one) becomes
// active.
func (c *Canvas) RemoveLayer(l *Layer) (int, error) {
	if !c.owns(l) {
		return 0, fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	rank := -1
	if l.kind == Visual {
		rank = c.rankOf(l)
		if !l.hidden {
			behaviors[Visual].hide(c, l)
		}
		c.visual = slices.Delete(c.visual, rank, rank+1)
	} else {
		i := slices.Index(c.nonVisual, l)
		c.nonVisual = slices.Delete(c.nonVisual, i, i+1)
	}
	if c.active == l {
		c.active = nil
		switch {
		case len(c.visual) > 0:
			c.active = c.visual[0]
		case len(c.nonVisual) > 0:
			c.active = c.nonVisual[0]
		}
		c.Rebuild()
	}
	Logger().Debug("indexed: layer removed", "name", l.name, "rank", rank)
	return rank, nil
}

// SetActiveLayer makes l receive writes. Switching between kinds, or to
// a different non-visual layer, rebuilds the composited cache.
func (c *Canvas) SetActiveLayer(l *Layer) error {
	if !c.owns(l) {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	prev := c.active
	c.active = l
	if prev == nil || prev.kind != l.kind || (l.kind == NonVisual && prev != l) {
		c.Rebuild()
	}
	return nil
}

// SetLocked sets whether writes to l are ignored.
func (c *Canvas) SetLocked(l *Layer, locked bool) error {
	if !c.owns(l) {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	l.locked = locked
	return nil
}

// LoadLayer replaces the pixels of l with those of s, typically a store
// decoded from a file, and rebuilds the cache.
func (c *Canvas) LoadLayer(l *Layer, s layerstore.Store) error {
	if !c.owns(l) {
		return fmt.Errorf("%w: %v", ErrLayerNotFound, l)
	}
	if w, h := s.Bounds(); w != c.width || h != c.height {
		return fmt.Errorf("%w: store is %dx%d, canvas is %dx%d", ErrInvalidArgument, w, h, c.width, c.height)
	}
	var bad error
	s.ForEach(func(p layerstore.Pixel) bool {
		if !l.palette.Allocated(p.Lookup) {
			bad = fmt.Errorf("%w: lookup %v at (%d,%d) not in palette", ErrInvalidArgument, p.Lookup, p.X, p.Y)
			return false
		}
		return true
	})
	if bad != nil {
		return bad
	}
	l.store = layerstore.Copy(s, c.opts.storeKind)
	c.Rebuild()
	return nil
}

// Clone returns an independent copy of the canvas sharing the palettes.
func (c *Canvas) Clone() *Canvas {
	out := &Canvas{
		width:   c.width,
		height:  c.height,
		opts:    c.opts,
		palette: c.palette,
		cache:   slices.Clone(c.cache),
		dirty:   parallel.NewDirtyRegion(c.width, c.height, c.opts.dirtyTile),
	}
	clone := func(l *Layer) *Layer {
		cp := *l
		cp.store = layerstore.Copy(l.store, c.opts.storeKind)
		if c.active == l {
			out.active = &cp
		}
		return &cp
	}
	for _, l := range c.visual {
		out.visual = append(out.visual, clone(l))
	}
	for _, l := range c.nonVisual {
		out.nonVisual = append(out.nonVisual, clone(l))
	}
	out.dirty.MarkAll()
	return out
}
