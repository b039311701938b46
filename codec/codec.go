// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package codec serializes layer stores.
//
// A layer is a sequence of fixed-size records, one per recorded pixel:
//
//	offset  size  field
//	0       4     x, int32 little-endian
//	4       4     y, int32 little-endian
//	8       1     palette column
//	9       1     palette row
//
// Records are written in row-major order but may appear in any order on
// decode. EncodeLayer wraps the records in a zstd frame preceded by the
// record count.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// RecordSize is the encoded size of one pixel.
const RecordSize = 10

// ErrCorrupt is returned when encoded data cannot describe a layer.
var ErrCorrupt = errors.New("codec: corrupt data")

// AppendRecords appends the records of every pixel in s to dst.
//
// Lookups are written one byte per component; palettes created with the
// default limits always fit.
func AppendRecords(dst []byte, s layerstore.Store) []byte {
	dst = grow(dst, s.Len()*RecordSize)
	s.ForEach(func(p layerstore.Pixel) bool {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.X))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Y))
		dst = append(dst, byte(p.Lookup.Col), byte(p.Lookup.Row))
		return true
	})
	return dst
}

// DecodeRecords puts every record of data into dst. Existing pixels at
// other coordinates are kept.
//
// It fails with ErrCorrupt when data is not a whole number of records or
// a record lies outside dst's bounds. dst is left untouched on failure.
func DecodeRecords(data []byte, dst layerstore.Store) error {
	if len(data)%RecordSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrCorrupt, len(data), RecordSize)
	}
	w, h := dst.Bounds()
	pixels := make([]layerstore.Pixel, 0, len(data)/RecordSize)
	for off := 0; off < len(data); off += RecordSize {
		rec := data[off : off+RecordSize]
		p := layerstore.Pixel{
			X: int32(binary.LittleEndian.Uint32(rec[0:])),
			Y: int32(binary.LittleEndian.Uint32(rec[4:])),
			Lookup: palette.Index{
				Col: uint16(rec[8]),
				Row: uint16(rec[9]),
			},
		}
		if p.X < 0 || p.Y < 0 || int(p.X) >= w || int(p.Y) >= h {
			return fmt.Errorf("%w: record %d at (%d, %d) outside %dx%d",
				ErrCorrupt, off/RecordSize, p.X, p.Y, w, h)
		}
		pixels = append(pixels, p)
	}
	for _, p := range pixels {
		dst.Put(p)
	}
	return nil
}

// CheckLookups reports ErrCorrupt if any pixel of s refers to a slot pal
// never allocated.
func CheckLookups(s layerstore.Store, pal *palette.Store) error {
	var bad *layerstore.Pixel
	s.ForEach(func(p layerstore.Pixel) bool {
		if !pal.Allocated(p.Lookup) {
			bad = &p
			return false
		}
		return true
	})
	if bad != nil {
		return fmt.Errorf("%w: lookup %v at (%d, %d) not in palette", ErrCorrupt, bad.Lookup, bad.X, bad.Y)
	}
	return nil
}

func grow(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b
	}
	nb := make([]byte, len(b), len(b)+n)
	copy(nb, b)
	return nb
}

// Option configures EncodeLayer.
type Option func(*options)

type options struct {
	level zstd.EncoderLevel
}

// WithLevel sets the zstd compression level. The default is
// zstd.SpeedDefault.
func WithLevel(level zstd.EncoderLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// EncodeLayer returns the records of s as a compressed blob: a 4-byte
// little-endian record count followed by a zstd frame.
func EncodeLayer(s layerstore.Store, opts ...Option) ([]byte, error) {
	o := options{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(o.level))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd writer: %w", err)
	}
	defer enc.Close()

	raw := AppendRecords(nil, s)
	out := binary.LittleEndian.AppendUint32(nil, uint32(s.Len()))
	return enc.EncodeAll(raw, out), nil
}

// DecodeLayer decodes a blob produced by EncodeLayer into dst.
func DecodeLayer(blob []byte, dst layerstore.Store) error {
	if len(blob) < 4 {
		return fmt.Errorf("%w: short header", ErrCorrupt)
	}
	count := binary.LittleEndian.Uint32(blob)

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("codec: zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob[4:], nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(len(raw)) != uint64(count)*RecordSize {
		return fmt.Errorf("%w: header says %d records, payload holds %d bytes", ErrCorrupt, count, len(raw))
	}
	return DecodeRecords(raw, dst)
}
