// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layerstore

import (
	"math/bits"
	"slices"
)

// Sparse is a Store backed by an arena of pixels.
//
// Entries live in one growable slice; removed entries go on a free list
// and are reused. A map from packed coordinate to arena slot gives
// lookup, and a slice of packed coordinates kept sorted gives row-major
// iteration.
type Sparse struct {
	width, height int

	arena []Pixel
	free  []int32
	index map[uint64]int32
	order []uint64
}

// NewSparse creates an empty sparse store for a w x h canvas.
func NewSparse(w, h int) *Sparse {
	return &Sparse{
		width:  max(w, 0),
		height: max(h, 0),
		index:  make(map[uint64]int32),
	}
}

// key packs a coordinate so that unsigned order is row-major order.
// Coordinates are non-negative here.
func key(x, y int) uint64 {
	return uint64(uint32(y))<<32 | uint64(uint32(x))
}

// Bounds implements Store.
func (s *Sparse) Bounds() (int, int) { return s.width, s.height }

// Len implements Store.
func (s *Sparse) Len() int { return len(s.index) }

// Contains implements Store.
func (s *Sparse) Contains(x, y int) bool {
	if !inBounds(x, y, s.width, s.height) {
		return false
	}
	_, ok := s.index[key(x, y)]
	return ok
}

// Get implements Store.
func (s *Sparse) Get(x, y int) (Pixel, bool) {
	if !inBounds(x, y, s.width, s.height) {
		return Pixel{}, false
	}
	slot, ok := s.index[key(x, y)]
	if !ok {
		return Pixel{}, false
	}
	return s.arena[slot], true
}

// Put implements Store.
func (s *Sparse) Put(p Pixel) {
	x, y := int(p.X), int(p.Y)
	if !inBounds(x, y, s.width, s.height) {
		return
	}
	k := key(x, y)
	if slot, ok := s.index[k]; ok {
		s.arena[slot] = p
		return
	}
	var slot int32
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
		s.arena[slot] = p
	} else {
		slot = int32(len(s.arena))
		s.arena = append(s.arena, p)
	}
	s.index[k] = slot
	pos, _ := slices.BinarySearch(s.order, k)
	s.order = slices.Insert(s.order, pos, k)
}

// Remove implements Store.
func (s *Sparse) Remove(x, y int) (Pixel, bool) {
	if !inBounds(x, y, s.width, s.height) {
		return Pixel{}, false
	}
	k := key(x, y)
	slot, ok := s.index[k]
	if !ok {
		return Pixel{}, false
	}
	p := s.arena[slot]
	delete(s.index, k)
	s.free = append(s.free, slot)
	if pos, found := slices.BinarySearch(s.order, k); found {
		s.order = slices.Delete(s.order, pos, pos+1)
	}
	return p, true
}

// ForEach implements Store.
func (s *Sparse) ForEach(fn func(Pixel) bool) {
	for _, p := range s.Pixels() {
		if !fn(p) {
			return
		}
	}
}

// Pixels implements Store.
func (s *Sparse) Pixels() []Pixel {
	out := make([]Pixel, len(s.order))
	for i, k := range s.order {
		out[i] = s.arena[s.index[k]]
	}
	return out
}

// Clear implements Store.
func (s *Sparse) Clear() {
	s.arena = s.arena[:0]
	s.free = s.free[:0]
	s.order = s.order[:0]
	clear(s.index)
}

func trailingZeros(v uint64) int { return bits.TrailingZeros64(v) }
