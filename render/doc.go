// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render turns a canvas's composited index buffer into something
// a host can display.
//
// Every view in this package is read-only: it reads the cache that
// [indexed.Canvas] keeps current and never touches layers.
//
// # CPU views
//
//   - [Image] expands indices to an *image.RGBA.
//   - [Paletted] keeps them as an *image.Paletted.
//   - [Scale] enlarges an image by an integer factor with nearest-neighbour
//     sampling, and [EncodeBMP] writes it out.
//
// # GPU views
//
// [Presenter] owns the textures a host draws with. It creates them
// lazily through gpucontext.TextureCreator, then uploads only the tiles
// the canvas reports dirty.
//
// Hosts that resolve colours on the GPU instead upload the raw index
// buffer and the palette texture described by [IndexTextureDescriptor]
// and [PaletteTextureDescriptor], and sample them with the shader from
// [CompilePaletteShader].
//
// # Terminal
//
// [DrawTerminal] previews a canvas on a tcell screen, two canvas rows per
// cell.
//
// # Usage
//
//	p, _ := render.NewPresenter(canvas)
//	app.OnDraw(func(dc *gogpu.Context) {
//	    _ = p.Draw(dc.AsTextureDrawer(), 0, 0)
//	})
package render
