// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/palette"
)

const textureUsage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst

func texture2D(label string, w, h int, format gputypes.TextureFormat) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label: label,
		Size: gputypes.Extent3D{
			Width:              uint32(max(w, 1)), //nolint:gosec // clamped positive
			Height:             uint32(max(h, 1)), //nolint:gosec // clamped positive
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         textureUsage,
	}
}

// IndexTextureDescriptor describes a texture holding the composited
// buffer of c: one RG8 texel per pixel, R = palette column, G = palette
// row. Fill it with IndexTexels.
func IndexTextureDescriptor(c *indexed.Canvas) gputypes.TextureDescriptor {
	return texture2D("indexed.composite", c.Width(), c.Height(), gputypes.TextureFormatRG8Unorm)
}

// IndexTexels returns the composited buffer of c in the layout of
// IndexTextureDescriptor.
func IndexTexels(c *indexed.Canvas) []byte {
	buf := c.CompositedBuffer()
	out := make([]byte, 0, len(buf)*2)
	for _, idx := range buf {
		out = append(out, byte(idx.Col), byte(idx.Row))
	}
	return out
}

// PaletteTextureDescriptor describes a Width x Rows texture holding p.
// One-channel palettes use R8, two-channel palettes RG8, and the rest
// RGBA8. Fill it with PaletteTexels.
func PaletteTextureDescriptor(p *palette.Store) gputypes.TextureDescriptor {
	return texture2D("indexed.palette", p.Width(), p.Rows(), paletteFormat(p.Channels()))
}

func paletteFormat(channels int) gputypes.TextureFormat {
	switch channels {
	case 1:
		return gputypes.TextureFormatR8Unorm
	case 2:
		return gputypes.TextureFormatRG8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// PaletteTexels returns p in the layout of PaletteTextureDescriptor.
// Three-channel colours gain an opaque alpha byte.
func PaletteTexels(p *palette.Store) []byte {
	texels := p.Texels()
	if p.Channels() != 3 {
		return texels
	}
	out := make([]byte, 0, len(texels)/3*4)
	for i := 0; i+3 <= len(texels); i += 3 {
		a := byte(255)
		if i/3 >= p.Len() {
			a = 0
		}
		out = append(out, texels[i], texels[i+1], texels[i+2], a)
	}
	return out
}

// paletteRGBA returns p expanded to display RGBA, Width x Rows texels,
// for hosts that only accept RGBA textures.
func paletteRGBA(p *palette.Store) []byte {
	colors := p.Colors()
	out := make([]byte, p.Width()*max(p.Rows(), 1)*4)
	for i, c := range colors {
		n := c.NRGBA()
		copy(out[i*4:], []byte{n.R, n.G, n.B, n.A})
	}
	return out
}
