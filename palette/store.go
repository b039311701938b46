// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package palette

import (
	"errors"
	"fmt"
)

// Errors returned by Store.
var (
	// ErrOutOfRange is returned by Get for an index that was never allocated.
	ErrOutOfRange = errors.New("palette: index out of range")

	// ErrExhausted is returned when no slot is left for a new colour.
	ErrExhausted = errors.New("palette: exhausted")

	// ErrInvalidColor is returned when a colour's channel count does not
	// match the store.
	ErrInvalidColor = errors.New("palette: invalid color")

	// ErrInvalidChannels is returned by NewStore for a channel count
	// outside 1..MaxChannels.
	ErrInvalidChannels = errors.New("palette: invalid channel count")
)

// Default limits. Serialized lookups use one byte per component, so
// neither limit can exceed 256.
const (
	DefaultRowWidth = 256
	DefaultMaxRows  = 256
)

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	rowWidth int
	maxRows  int
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		rowWidth: DefaultRowWidth,
		maxRows:  DefaultMaxRows,
	}
}

// WithRowWidth sets the number of slots per row. Values outside
// [2, DefaultRowWidth] are ignored.
func WithRowWidth(n int) Option {
	return func(o *storeOptions) {
		if n >= 2 && n <= DefaultRowWidth {
			o.rowWidth = n
		}
	}
}

// WithMaxRows caps the number of rows. Values outside
// [1, DefaultMaxRows] are ignored.
func WithMaxRows(n int) Option {
	return func(o *storeOptions) {
		if n >= 1 && n <= DefaultMaxRows {
			o.maxRows = n
		}
	}
}

// Store is a deduplicating colour table. Colours are allocated row-major
// and never removed, so an Index stays valid for the life of the Store.
//
// Store is not safe for concurrent mutation. Concurrent readers are fine
// as long as no goroutine is calling PutOrGet.
type Store struct {
	channels int
	rowWidth int
	maxRows  int

	colors  []Color
	indices map[Color]Index
	version uint64
}

// NewStore creates a palette of colours with the given channel count.
// The two checker background colours are allocated at BackgroundDark
// and BackgroundLight.
func NewStore(channels int, opts ...Option) (*Store, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store{
		channels: channels,
		rowWidth: o.rowWidth,
		maxRows:  o.maxRows,
		indices:  make(map[Color]Index),
	}
	// Two slots always fit: rowWidth >= 2.
	_, _ = s.PutOrGet(backgroundColor(backgroundDarkValue, channels))
	_, _ = s.PutOrGet(backgroundColor(backgroundLightValue, channels))
	return s, nil
}

// MustNewStore is like NewStore but panics on error.
func MustNewStore(channels int, opts ...Option) *Store {
	s, err := NewStore(channels, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// PutOrGet returns the index of c, allocating the next free slot if c
// is not present yet.
func (s *Store) PutOrGet(c Color) (Index, error) {
	if c.Channels() != s.channels {
		return Index{}, fmt.Errorf("%w: %d channels, palette has %d", ErrInvalidColor, c.Channels(), s.channels)
	}
	if idx, ok := s.indices[c]; ok {
		return idx, nil
	}
	n := len(s.colors)
	if n >= s.rowWidth*s.maxRows {
		return Index{}, fmt.Errorf("%w: %d colors", ErrExhausted, n)
	}
	idx := Index{Col: uint16(n % s.rowWidth), Row: uint16(n / s.rowWidth)}
	s.colors = append(s.colors, c)
	s.indices[c] = idx
	s.version++
	return idx, nil
}

// Lookup returns the index of c without allocating.
func (s *Store) Lookup(c Color) (Index, bool) {
	idx, ok := s.indices[c]
	return idx, ok
}

// Get returns the colour stored at idx.
func (s *Store) Get(idx Index) (Color, error) {
	if !s.Allocated(idx) {
		return Color{}, fmt.Errorf("%w: %v", ErrOutOfRange, idx)
	}
	return s.colors[s.offset(idx)], nil
}

// Allocated reports whether idx names an allocated slot.
func (s *Store) Allocated(idx Index) bool {
	if int(idx.Col) >= s.rowWidth {
		return false
	}
	return s.offset(idx) < len(s.colors)
}

func (s *Store) offset(idx Index) int {
	return int(idx.Row)*s.rowWidth + int(idx.Col)
}

// Len returns the number of allocated colours.
func (s *Store) Len() int { return len(s.colors) }

// Channels returns the channel count of every colour in the store.
func (s *Store) Channels() int { return s.channels }

// Width returns the number of slots per row.
func (s *Store) Width() int { return s.rowWidth }

// Rows returns the number of rows in use.
func (s *Store) Rows() int {
	return (len(s.colors) + s.rowWidth - 1) / s.rowWidth
}

// Version changes every time a colour is allocated.
func (s *Store) Version() uint64 { return s.version }

// Texels returns the table as Width x Rows texels of Channels bytes each,
// row-major. Unallocated slots in the last row are zero.
func (s *Store) Texels() []byte {
	out := make([]byte, s.rowWidth*s.Rows()*s.channels)
	for i, c := range s.colors {
		copy(out[i*s.channels:], c.ch[:s.channels])
	}
	return out
}

// Colors returns the allocated colours in slot order.
func (s *Store) Colors() []Color {
	out := make([]Color, len(s.colors))
	copy(out, s.colors)
	return out
}
