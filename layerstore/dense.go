// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layerstore

import "github.com/gogpu/indexed/palette"

// Dense is a Store backed by a row-major array the size of the canvas.
type Dense struct {
	width, height int
	lookups       []palette.Index
	present       []uint64
	count         int
}

// NewDense creates an empty dense store for a w x h canvas.
func NewDense(w, h int) *Dense {
	w, h = max(w, 0), max(h, 0)
	return &Dense{
		width:   w,
		height:  h,
		lookups: make([]palette.Index, w*h),
		present: make([]uint64, (w*h+63)/64),
	}
}

// Bounds implements Store.
func (d *Dense) Bounds() (int, int) { return d.width, d.height }

// Len implements Store.
func (d *Dense) Len() int { return d.count }

func (d *Dense) has(i int) bool {
	return d.present[i/64]&(1<<(i&63)) != 0
}

// Contains implements Store.
func (d *Dense) Contains(x, y int) bool {
	if !inBounds(x, y, d.width, d.height) {
		return false
	}
	return d.has(y*d.width + x)
}

// Get implements Store.
func (d *Dense) Get(x, y int) (Pixel, bool) {
	if !d.Contains(x, y) {
		return Pixel{}, false
	}
	return Pixel{X: int32(x), Y: int32(y), Lookup: d.lookups[y*d.width+x]}, true
}

// Put implements Store.
func (d *Dense) Put(p Pixel) {
	x, y := int(p.X), int(p.Y)
	if !inBounds(x, y, d.width, d.height) {
		return
	}
	i := y*d.width + x
	if !d.has(i) {
		d.present[i/64] |= 1 << (i & 63)
		d.count++
	}
	d.lookups[i] = p.Lookup
}

// Remove implements Store.
func (d *Dense) Remove(x, y int) (Pixel, bool) {
	p, ok := d.Get(x, y)
	if !ok {
		return Pixel{}, false
	}
	i := y*d.width + x
	d.present[i/64] &^= 1 << (i & 63)
	d.lookups[i] = palette.Index{}
	d.count--
	return p, true
}

// ForEach implements Store.
func (d *Dense) ForEach(fn func(Pixel) bool) {
	for _, p := range d.Pixels() {
		if !fn(p) {
			return
		}
	}
}

// Pixels implements Store.
func (d *Dense) Pixels() []Pixel {
	out := make([]Pixel, 0, d.count)
	for w, word := range d.present {
		for word != 0 {
			bit := trailingZeros(word)
			i := w*64 + bit
			out = append(out, Pixel{X: int32(i % d.width), Y: int32(i / d.width), Lookup: d.lookups[i]})
			word &^= 1 << bit
		}
	}
	return out
}

// Clear implements Store.
func (d *Dense) Clear() {
	clear(d.lookups)
	clear(d.present)
	d.count = 0
}
