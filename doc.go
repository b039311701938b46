// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package indexed implements the core of a palette-indexed layered raster
// editor.
//
// # Overview
//
// A [Canvas] is a fixed-size image made of layers. Each [Layer] records
// only the pixels it modifies, as lookups into a [palette.Store]. The
// visible image is resolved by rank: rank 0 is the topmost visual layer
// and the topmost layer modifying a pixel wins. There is no blending.
//
// The canvas keeps a composited buffer of palette indices in sync with
// every mutation, so renderers and the flood fill read it directly.
//
// # Quick Start
//
//	proj, _ := indexed.NewProject()
//	c, _ := proj.AddCanvas(64, 64)
//
//	// Paint a red square into the active layer.
//	_ = c.WriteColor(image.Rect(8, 8, 24, 24), palette.RGBA(255, 0, 0, 255))
//
//	// New layers start at the lowest priority; raise this one to the top.
//	shadows, _ := c.AddVisualLayer("shadows")
//	_ = c.MoveLayer(shadows, 0)
//
// # Layers
//
// Visual layers compete by rank. NonVisual layers carry 1 to 4 bytes of
// arbitrary per-pixel metadata; while one is active the canvas shows that
// layer alone over the checkerboard background.
//
// Writes to a locked or hidden active layer are ignored without error.
//
// # Packages
//
//   - palette: deduplicating colour table
//   - layerstore: dense and sparse per-layer pixel stores
//   - fill: concurrent scan-line flood fill over composited colour
//   - history: undoable commands and a bounded undo/redo log
//   - codec: layer serialization
//   - render: image, BMP, GPU texture and terminal output
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down.
package indexed

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
