// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"github.com/gogpu/indexed/internal/parallel"
	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// DefaultCheckerSize is the edge length of a background checker tile.
const DefaultCheckerSize = 8

// Option configures a Canvas during creation.
//
// Example:
//
//	c, err := indexed.New(4096, 4096, pal,
//	    indexed.WithStoreKind(layerstore.KindSparse),
//	    indexed.WithCheckerSize(16, 16))
type Option func(*options)

// options holds optional configuration for Canvas creation.
type options struct {
	storeKind layerstore.Kind
	checkerW  int
	checkerH  int
	dirtyTile int
}

func defaultOptions() options {
	return options{
		storeKind: layerstore.KindDense,
		checkerW:  DefaultCheckerSize,
		checkerH:  DefaultCheckerSize,
		dirtyTile: parallel.DefaultTileSize,
	}
}

// WithStoreKind selects the LayerStore implementation used for layers
// created by the canvas. Dense is the default; Sparse suits very large
// canvases with few edits.
func WithStoreKind(k layerstore.Kind) Option {
	return func(o *options) {
		o.storeKind = k
	}
}

// WithCheckerSize sets the background checker tile size in pixels.
// Non-positive values are ignored.
func WithCheckerSize(w, h int) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.checkerW, o.checkerH = w, h
		}
	}
}

// WithDirtyTileSize sets the granularity of dirty tracking.
// Non-positive values are ignored.
func WithDirtyTileSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.dirtyTile = n
		}
	}
}

// ProjectOption configures a Project.
type ProjectOption func(*projectOptions)

type projectOptions struct {
	canvas         []Option
	visualChannels int
	palette        []palette.Option
	defaultLayer   string
}

func defaultProjectOptions() projectOptions {
	return projectOptions{
		visualChannels: 4,
		defaultLayer:   "Layer 1",
	}
}

// WithCanvasOptions sets the options applied to every canvas the project
// creates.
func WithCanvasOptions(opts ...Option) ProjectOption {
	return func(o *projectOptions) {
		o.canvas = append(o.canvas, opts...)
	}
}

// WithVisualChannels sets the channel count of the palette shared by
// visual layers. Values outside 1..4 are ignored.
func WithVisualChannels(n int) ProjectOption {
	return func(o *projectOptions) {
		if n >= 1 && n <= palette.MaxChannels {
			o.visualChannels = n
		}
	}
}

// WithPaletteOptions sets the options used for every palette the project
// creates.
func WithPaletteOptions(opts ...palette.Option) ProjectOption {
	return func(o *projectOptions) {
		o.palette = append(o.palette, opts...)
	}
}

// WithDefaultLayer names the visual prototype a new project starts with.
// An empty name starts the project without layers.
func WithDefaultLayer(name string) ProjectOption {
	return func(o *projectOptions) {
		o.defaultLayer = name
	}
}
