// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layerstore holds the pixel modifications recorded by one layer.
//
// A Store maps canvas coordinates to palette lookups. Two implementations
// share the same contract and differ only in cost:
//
//   - [Dense] keeps a row-major array sized to the canvas. Every operation
//     is O(1).
//   - [Sparse] keeps an arena of entries indexed by coordinate plus a
//     sorted order. It stays compact on large, lightly edited canvases.
//
// Both iterate in row-major order (ascending y, then ascending x) and
// silently ignore coordinates outside their bounds.
package layerstore

import (
	"fmt"
	"image"

	"github.com/gogpu/indexed/palette"
)

// Pixel is one layer's recorded modification at (X, Y).
type Pixel struct {
	X, Y   int32
	Lookup palette.Index
}

// Slot is the state of one coordinate: a Pixel when Ok, absent otherwise.
// Bulk reads return slots so a rectangle can be restored exactly.
type Slot struct {
	Pixel
	Ok bool
}

// Store is the contract shared by Dense and Sparse.
type Store interface {
	// Bounds returns the canvas size the store was created for.
	Bounds() (w, h int)

	// Len returns the number of recorded pixels.
	Len() int

	// Contains reports whether (x, y) has a recorded pixel.
	Contains(x, y int) bool

	// Get returns the pixel at (x, y).
	Get(x, y int) (Pixel, bool)

	// Put records p, replacing any pixel at the same coordinate.
	Put(p Pixel)

	// Remove deletes the pixel at (x, y) and returns the previous value.
	Remove(x, y int) (Pixel, bool)

	// ForEach calls fn for every recorded pixel in row-major order until
	// fn returns false. It iterates a snapshot taken before the first
	// call, so fn may mutate the store.
	ForEach(fn func(Pixel) bool)

	// Pixels returns a row-major snapshot of every recorded pixel.
	Pixels() []Pixel

	// Clear removes every pixel.
	Clear()
}

// Kind selects a Store implementation.
type Kind uint8

const (
	// KindDense selects Dense.
	KindDense Kind = iota
	// KindSparse selects Sparse.
	KindSparse
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// New creates an empty store of the given kind for a w x h canvas.
func New(kind Kind, w, h int) Store {
	if kind == KindSparse {
		return NewSparse(w, h)
	}
	return NewDense(w, h)
}

// GetRect returns the slots of r in row-major order.
func GetRect(s Store, r image.Rectangle) []Slot {
	out := make([]Slot, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p, ok := s.Get(x, y)
			if !ok {
				p = Pixel{X: int32(x), Y: int32(y)}
			}
			out = append(out, Slot{Pixel: p, Ok: ok})
		}
	}
	return out
}

// PutRect records lookup at every coordinate of r.
func PutRect(s Store, r image.Rectangle, lookup palette.Index) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.Put(Pixel{X: int32(x), Y: int32(y), Lookup: lookup})
		}
	}
}

// RemoveRect deletes every pixel of r and returns the previous slots in
// row-major order.
func RemoveRect(s Store, r image.Rectangle) []Slot {
	out := make([]Slot, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p, ok := s.Remove(x, y)
			if !ok {
				p = Pixel{X: int32(x), Y: int32(y)}
			}
			out = append(out, Slot{Pixel: p, Ok: ok})
		}
	}
	return out
}

// Restore writes slots back: present slots are put, absent ones removed.
func Restore(s Store, slots []Slot) {
	for _, sl := range slots {
		if sl.Ok {
			s.Put(sl.Pixel)
		} else {
			s.Remove(int(sl.X), int(sl.Y))
		}
	}
}

// Copy returns a new store of the given kind holding the pixels of s.
func Copy(s Store, kind Kind) Store {
	w, h := s.Bounds()
	out := New(kind, w, h)
	s.ForEach(func(p Pixel) bool {
		out.Put(p)
		return true
	})
	return out
}

func inBounds(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}
