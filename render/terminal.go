// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/palette"
)

// upperHalf is drawn with the upper pixel as foreground and the lower one
// as background.
const upperHalf = '▀'

// DrawTerminal draws c at cell (x, y) of screen, two canvas rows per
// cell, clipped to the screen. Translucent colours are flattened onto
// black. A nil p selects c.ActivePalette().
func DrawTerminal(screen tcell.Screen, c *indexed.Canvas, p *palette.Store, x, y int) error {
	if c == nil {
		return ErrNilCanvas
	}
	l := newLUT(paletteFor(c, p))
	sw, sh := screen.Size()
	for row := 0; row*2 < c.Height(); row++ {
		cy := y + row
		if cy < 0 || cy >= sh {
			continue
		}
		for col := range c.Width() {
			cx := x + col
			if cx < 0 || cx >= sw {
				continue
			}
			style := tcell.StyleDefault.Foreground(termColor(l.at(c.Composited(col, row*2))))
			if row*2+1 < c.Height() {
				style = style.Background(termColor(l.at(c.Composited(col, row*2+1))))
			} else {
				style = style.Background(tcell.ColorBlack)
			}
			screen.SetContent(cx, cy, upperHalf, nil, style)
		}
	}
	return nil
}

// termColor takes a premultiplied colour, which is already the colour
// over black.
func termColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
