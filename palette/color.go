// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package palette

import (
	"fmt"
	"image/color"
)

// MaxChannels is the widest colour a palette can hold.
const MaxChannels = 4

// Color is an immutable colour of 1 to 4 byte channels.
//
// Color is comparable: two colours are the same palette entry exactly
// when they compare equal with ==.
type Color struct {
	ch [MaxChannels]byte
	n  uint8
}

// NewColor returns a colour made of the given channels.
// Channels beyond MaxChannels are dropped.
func NewColor(channels ...byte) Color {
	var c Color
	n := copy(c.ch[:], channels)
	c.n = uint8(n)
	return c
}

// RGBA returns a four channel colour.
func RGBA(r, g, b, a byte) Color {
	return Color{ch: [MaxChannels]byte{r, g, b, a}, n: 4}
}

// Gray returns a single channel colour.
func Gray(v byte) Color {
	return Color{ch: [MaxChannels]byte{v}, n: 1}
}

// FromColor converts a standard library colour to a four channel Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(n.R, n.G, n.B, n.A)
}

// Channels returns the number of channels in c.
func (c Color) Channels() int { return int(c.n) }

// Channel returns channel i, or 0 when i is out of range.
func (c Color) Channel(i int) byte {
	if i < 0 || i >= int(c.n) {
		return 0
	}
	return c.ch[i]
}

// Bytes returns a copy of the channel bytes.
func (c Color) Bytes() []byte {
	out := make([]byte, c.n)
	copy(out, c.ch[:c.n])
	return out
}

// NRGBA expands c to 8-bit non-premultiplied RGBA for display.
//
// One channel is gray, two channels are gray plus alpha, three channels
// are opaque RGB.
func (c Color) NRGBA() color.NRGBA {
	switch c.n {
	case 1:
		return color.NRGBA{R: c.ch[0], G: c.ch[0], B: c.ch[0], A: 255}
	case 2:
		return color.NRGBA{R: c.ch[0], G: c.ch[0], B: c.ch[0], A: c.ch[1]}
	case 3:
		return color.NRGBA{R: c.ch[0], G: c.ch[1], B: c.ch[2], A: 255}
	case 4:
		return color.NRGBA{R: c.ch[0], G: c.ch[1], B: c.ch[2], A: c.ch[3]}
	}
	return color.NRGBA{}
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("Color%v", c.ch[:c.n])
}

// Index names a slot in a palette.
type Index struct {
	Col uint16
	Row uint16
}

// String implements fmt.Stringer.
func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.Col, i.Row)
}

// Reserved slots holding the two checkerboard background colours.
// Every Store allocates them first.
var (
	BackgroundDark  = Index{Col: 0, Row: 0}
	BackgroundLight = Index{Col: 1, Row: 0}
)

const (
	backgroundDarkValue  = 77
	backgroundLightValue = 115
)

// backgroundColor builds a checker colour for a palette of n channels.
// Palettes with an alpha channel (2 and 4) get an opaque alpha.
func backgroundColor(v byte, n int) Color {
	c := Color{n: uint8(n)}
	for i := range n {
		c.ch[i] = v
	}
	if n == 2 || n == 4 {
		c.ch[n-1] = 255
	}
	return c
}
