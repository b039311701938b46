// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DefaultTileSize is the edge length of a dirty tile in pixels.
const DefaultTileSize = 32

// DirtyRegion tracks which tiles of a pixel grid changed using an atomic
// bitmap, one bit per tile packed into uint64 words.
//
// All methods are safe for concurrent use without external
// synchronization, so an editor goroutine can mark while a render
// goroutine drains.
type DirtyRegion struct {
	// words is the bitmap. Bit index = ty*tilesX + tx.
	words []atomic.Uint64

	width, height int
	tile          int
	tilesX        int
	tilesY        int
}

// NewDirtyRegion creates a tracker for a width x height pixel grid split
// into tile x tile squares. All tiles start clean.
// Returns nil if any dimension is zero or negative.
func NewDirtyRegion(width, height, tile int) *DirtyRegion {
	if width <= 0 || height <= 0 || tile <= 0 {
		return nil
	}
	tilesX := (width + tile - 1) / tile
	tilesY := (height + tile - 1) / tile
	return &DirtyRegion{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		width:  width,
		height: height,
		tile:   tile,
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// Mark marks a single tile as dirty.
// Does nothing if coordinates are out of bounds.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect marks every tile intersecting the pixel rectangle r.
func (d *DirtyRegion) MarkRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, d.width, d.height))
	if r.Empty() {
		return
	}
	tx1, ty1 := r.Min.X/d.tile, r.Min.Y/d.tile
	tx2, ty2 := (r.Max.X-1)/d.tile, (r.Max.Y-1)/d.tile
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// MarkPixel marks the tile containing pixel (x, y).
func (d *DirtyRegion) MarkPixel(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	d.Mark(x/d.tile, y/d.tile)
}

// MarkAll marks all tiles as dirty.
func (d *DirtyRegion) MarkAll() {
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		d.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		d.words[full].Store((uint64(1) << rem) - 1)
	}
}

// TakeRects atomically clears the bitmap and returns the pixel rectangle
// of every tile that was dirty, clipped to the grid, in row-major tile
// order.
func (d *DirtyRegion) TakeRects() []image.Rectangle {
	var out []image.Rectangle
	total := d.tilesX * d.tilesY
	for w := range d.words {
		word := d.words[w].Swap(0)
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			idx := w*64 + bit
			if idx >= total {
				break
			}
			out = append(out, d.tileRect(idx%d.tilesX, idx/d.tilesX))
			word &^= 1 << bit
		}
	}
	return out
}

func (d *DirtyRegion) tileRect(tx, ty int) image.Rectangle {
	r := image.Rect(tx*d.tile, ty*d.tile, (tx+1)*d.tile, (ty+1)*d.tile)
	return r.Intersect(image.Rect(0, 0, d.width, d.height))
}
