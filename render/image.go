// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/palette"
)

// Errors returned by this package.
var (
	// ErrNilCanvas is returned when a nil canvas is passed.
	ErrNilCanvas = errors.New("render: nil canvas")

	// ErrNoTexture is returned when the host cannot create textures.
	ErrNoTexture = errors.New("render: no texture creator")

	// ErrPaletteTooLarge is returned by Paletted when the palette holds
	// more colours than image.Paletted can address.
	ErrPaletteTooLarge = errors.New("render: palette exceeds 256 colors")
)

// lut maps palette slot offsets (row*width + col) to premultiplied RGBA.
type lut struct {
	width  int
	colors []color.RGBA
}

func newLUT(p *palette.Store) lut {
	colors := p.Colors()
	l := lut{width: p.Width(), colors: make([]color.RGBA, len(colors))}
	for i, c := range colors {
		l.colors[i] = color.RGBAModel.Convert(c.NRGBA()).(color.RGBA)
	}
	return l
}

// at returns the colour of idx, or transparent black for a slot the
// palette never allocated.
func (l lut) at(idx palette.Index) color.RGBA {
	off := int(idx.Row)*l.width + int(idx.Col)
	if int(idx.Col) >= l.width || off >= len(l.colors) {
		return color.RGBA{}
	}
	return l.colors[off]
}

// paletteFor returns p, or the canvas's active palette when p is nil.
func paletteFor(c *indexed.Canvas, p *palette.Store) *palette.Store {
	if p != nil {
		return p
	}
	return c.ActivePalette()
}

// Image resolves the composited buffer of c through p. A nil p selects
// c.ActivePalette().
func Image(c *indexed.Canvas, p *palette.Store) (*image.RGBA, error) {
	if c == nil {
		return nil, ErrNilCanvas
	}
	img := image.NewRGBA(c.Bounds())
	fillRGBA(img.Pix, img.Stride, c.CompositedBuffer(), c.Width(), newLUT(paletteFor(c, p)))
	return img, nil
}

// fillRGBA writes the colours of idx, a row-major buffer width wide, into
// pix with the given stride.
func fillRGBA(pix []byte, stride int, idx []palette.Index, width int, l lut) {
	for i, v := range idx {
		x, y := i%width, i/width
		o := y*stride + x*4
		c := l.at(v)
		pix[o+0] = c.R
		pix[o+1] = c.G
		pix[o+2] = c.B
		pix[o+3] = c.A
	}
}

// Paletted returns the composited buffer as an *image.Paletted whose
// palette lists p's colours in slot order.
func Paletted(c *indexed.Canvas, p *palette.Store) (*image.Paletted, error) {
	if c == nil {
		return nil, ErrNilCanvas
	}
	p = paletteFor(c, p)
	if p.Len() > 256 {
		return nil, fmt.Errorf("%w: %d", ErrPaletteTooLarge, p.Len())
	}
	colors := p.Colors()
	pal := make(color.Palette, len(colors))
	for i, col := range colors {
		pal[i] = col.NRGBA()
	}
	img := image.NewPaletted(c.Bounds(), pal)
	w := p.Width()
	for i, v := range c.CompositedBuffer() {
		if off := int(v.Row)*w + int(v.Col); off < len(colors) {
			img.Pix[i] = uint8(off)
		}
	}
	return img, nil
}

// Scale returns src enlarged by factor using nearest-neighbour sampling,
// which keeps pixel edges hard. factor must be at least 1.
func Scale(src image.Image, factor int) (*image.RGBA, error) {
	if factor < 1 {
		return nil, fmt.Errorf("render: scale factor %d < 1", factor)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

// EncodeBMP writes img to w in BMP format.
func EncodeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode bmp: %w", err)
	}
	return nil
}
