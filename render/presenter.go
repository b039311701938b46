// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/palette"
)

// textureDestroyer matches hosts whose textures need explicit release.
type textureDestroyer interface {
	Destroy()
}

// Presenter keeps GPU textures in step with a canvas.
//
// The canvas texture holds the composited buffer expanded to RGBA. It is
// created on the first Flush; later flushes upload only the tiles the
// canvas reports dirty, through gpucontext.TextureRegionUpdater when the
// texture supports it.
//
// The palette texture holds the active palette as RGBA and is uploaded
// again whenever the palette grows or the active palette changes.
//
// Presenter drains the canvas's dirty tracking, so a canvas should have at
// most one Presenter. It is not safe for concurrent use.
type Presenter struct {
	canvas *indexed.Canvas

	texture gpucontext.Texture
	pending bool // a full upload is needed

	palTexture gpucontext.Texture
	pal        *palette.Store
	palVersion uint64
	lut        lut

	buf []byte
}

// NewPresenter returns a Presenter for c.
func NewPresenter(c *indexed.Canvas) (*Presenter, error) {
	if c == nil {
		return nil, ErrNilCanvas
	}
	return &Presenter{canvas: c, pending: true}, nil
}

// Texture returns the canvas texture, or nil before the first Flush.
func (p *Presenter) Texture() gpucontext.Texture { return p.texture }

// PaletteTexture returns the palette texture, or nil before the first Flush.
func (p *Presenter) PaletteTexture() gpucontext.Texture { return p.palTexture }

// Invalidate forces a full upload on the next Flush.
func (p *Presenter) Invalidate() { p.pending = true }

// Flush brings the textures up to date and returns the canvas texture.
func (p *Presenter) Flush(creator gpucontext.TextureCreator) (gpucontext.Texture, error) {
	if creator == nil {
		return nil, ErrNoTexture
	}
	c := p.canvas

	palChanged, err := p.syncPalette(creator)
	if err != nil {
		return nil, err
	}
	if palChanged {
		p.pending = true
	}

	dirty := c.TakeDirty()
	if p.texture == nil || p.pending {
		if err := p.uploadAll(creator); err != nil {
			return nil, err
		}
		p.pending = false
		return p.texture, nil
	}
	if len(dirty) == 0 {
		return p.texture, nil
	}

	// The dirty tiles are drained, so a failed upload falls back to a
	// full one next time.
	ru, ok := p.texture.(gpucontext.TextureRegionUpdater)
	if !ok {
		if err := p.uploadAll(creator); err != nil {
			p.pending = true
			return nil, err
		}
		return p.texture, nil
	}
	var idx []palette.Index
	for _, r := range dirty {
		idx = c.CompositedRect(idx[:0], r)
		data := p.rgba(idx, r.Dx())
		if err := ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), data); err != nil {
			p.pending = true
			return nil, fmt.Errorf("render: update region %v: %w", r, err)
		}
	}
	indexed.Logger().Debug("render: regions uploaded", "count", len(dirty), "pixels", dirtyArea(dirty))
	return p.texture, nil
}

// syncPalette refreshes the lookup table and palette texture. It reports
// whether the active palette was replaced, which changes every pixel's
// colour.
func (p *Presenter) syncPalette(creator gpucontext.TextureCreator) (bool, error) {
	pal := p.canvas.ActivePalette()
	replaced := pal != p.pal
	if !replaced && pal.Version() == p.palVersion && p.palTexture != nil {
		return false, nil
	}
	p.lut = newLUT(pal)
	p.pal = pal
	p.palVersion = pal.Version()

	data := paletteRGBA(pal)
	w, h := pal.Width(), max(pal.Rows(), 1)
	if t := p.palTexture; t != nil && t.Width() == w && t.Height() == h {
		if u, ok := t.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(data); err != nil {
				p.pal = nil
				return false, fmt.Errorf("render: update palette: %w", err)
			}
			return replaced, nil
		}
	}
	tex, err := creator.NewTextureFromRGBA(w, h, data)
	if err != nil {
		p.pal = nil
		return false, fmt.Errorf("render: create palette texture: %w", err)
	}
	destroy(p.palTexture)
	p.palTexture = tex
	indexed.Logger().Debug("render: palette uploaded", "colors", pal.Len(), "version", p.palVersion)
	return replaced, nil
}

func (p *Presenter) uploadAll(creator gpucontext.TextureCreator) error {
	c := p.canvas
	data := p.rgba(c.CompositedBuffer(), c.Width())
	if t := p.texture; t != nil && t.Width() == c.Width() && t.Height() == c.Height() {
		if u, ok := t.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(data); err != nil {
				return fmt.Errorf("render: update texture: %w", err)
			}
			return nil
		}
	}
	tex, err := creator.NewTextureFromRGBA(c.Width(), c.Height(), data)
	if err != nil {
		return fmt.Errorf("render: create texture: %w", err)
	}
	destroy(p.texture)
	p.texture = tex
	indexed.Logger().Debug("render: texture created", "width", c.Width(), "height", c.Height())
	return nil
}

// rgba expands idx, a row-major buffer width wide, into p's scratch buffer.
func (p *Presenter) rgba(idx []palette.Index, width int) []byte {
	n := len(idx) * 4
	if cap(p.buf) < n {
		p.buf = make([]byte, n)
	}
	p.buf = p.buf[:n]
	fillRGBA(p.buf, width*4, idx, width, p.lut)
	return p.buf
}

// Draw flushes and draws the canvas texture at (x, y).
func (p *Presenter) Draw(dc gpucontext.TextureDrawer, x, y float32) error {
	tex, err := p.Flush(dc.TextureCreator())
	if err != nil {
		return err
	}
	return dc.DrawTexture(tex, x, y)
}

// Close releases the textures. The Presenter may be flushed again
// afterwards; it then recreates them.
func (p *Presenter) Close() {
	destroy(p.texture)
	destroy(p.palTexture)
	p.texture, p.palTexture, p.pal = nil, nil, nil
	p.pending = true
}

func destroy(t gpucontext.Texture) {
	if d, ok := t.(textureDestroyer); ok {
		d.Destroy()
	}
}

// dirtyArea sums the pixel area of rs.
func dirtyArea(rs []image.Rectangle) int {
	n := 0
	for _, r := range rs {
		n += r.Dx() * r.Dy()
	}
	return n
}
