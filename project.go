// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package indexed

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/indexed/palette"
)

// prototype describes a layer every canvas of a project carries.
type prototype struct {
	name  string
	kind  Kind
	width int // NonVisual only
}

// Project groups canvases that share layer prototypes and palettes.
//
// Adding a prototype adds a matching empty layer to every canvas;
// removing it removes that layer everywhere. Visual layers of all
// canvases share one palette; non-visual layers share one palette per
// byte width, kept apart from the visual one.
type Project struct {
	opts       projectOptions
	visual     *palette.Store
	nonVisual  [palette.MaxChannels]*palette.Store
	prototypes []prototype
	canvases   []*Canvas
}

// NewProject creates a project with one visual prototype, named by
// WithDefaultLayer.
func NewProject(opts ...ProjectOption) (*Project, error) {
	o := defaultProjectOptions()
	for _, opt := range opts {
		opt(&o)
	}
	visual, err := palette.NewStore(o.visualChannels, o.palette...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	p := &Project{opts: o, visual: visual}
	if o.defaultLayer != "" {
		if err := p.AddVisualPrototype(o.defaultLayer); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// VisualPalette returns the palette shared by visual layers.
func (p *Project) VisualPalette() *palette.Store { return p.visual }

// NonVisualPalette returns the palette shared by non-visual layers of
// the given byte width, creating it on first use. It is never the visual
// palette, even when the widths match.
func (p *Project) NonVisualPalette(width int) (*palette.Store, error) {
	if width < 1 || width > palette.MaxChannels {
		return nil, fmt.Errorf("%w: non-visual width %d", ErrInvalidArgument, width)
	}
	if s := p.nonVisual[width-1]; s != nil {
		return s, nil
	}
	s, err := palette.NewStore(width, p.opts.palette...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	p.nonVisual[width-1] = s
	return s, nil
}

// Canvases returns the project's canvases in creation order.
func (p *Project) Canvases() []*Canvas { return slices.Clone(p.canvases) }

// AddCanvas creates a canvas carrying one layer per prototype. The first
// visual prototype's layer is active.
func (p *Project) AddCanvas(width, height int) (*Canvas, error) {
	c, err := New(width, height, p.VisualPalette(), p.opts.canvas...)
	if err != nil {
		return nil, err
	}
	for _, proto := range p.prototypes {
		if _, err := p.addLayer(c, proto); err != nil {
			return nil, err
		}
	}
	p.canvases = append(p.canvases, c)
	Logger().Info("indexed: canvas added", "width", width, "height", height, "layers", len(p.prototypes))
	return c, nil
}

// RemoveCanvas removes c from the project.
func (p *Project) RemoveCanvas(c *Canvas) error {
	i := slices.Index(p.canvases, c)
	if i < 0 {
		return ErrCanvasNotFound
	}
	p.canvases = slices.Delete(p.canvases, i, i+1)
	Logger().Info("indexed: canvas removed", "index", i)
	return nil
}

// DuplicateCanvas adds a copy of c to the project.
func (p *Project) DuplicateCanvas(c *Canvas) (*Canvas, error) {
	if !slices.Contains(p.canvases, c) {
		return nil, ErrCanvasNotFound
	}
	d := c.Clone()
	p.canvases = append(p.canvases, d)
	return d, nil
}

// AddVisualPrototype adds a visual layer named name to every canvas, at
// the lowest priority.
func (p *Project) AddVisualPrototype(name string) error {
	return p.addPrototype(prototype{name: name, kind: Visual})
}

// AddNonVisualPrototype adds a non-visual layer of width bytes per pixel
// to every canvas. width must be in 1..4.
func (p *Project) AddNonVisualPrototype(name string, width int) error {
	if _, err := p.NonVisualPalette(width); err != nil {
		return err
	}
	return p.addPrototype(prototype{name: name, kind: NonVisual, width: width})
}

func (p *Project) addPrototype(proto prototype) error {
	n, err := normalizeName(proto.name)
	if err != nil {
		return err
	}
	for _, existing := range p.prototypes {
		if nameKey(existing.name) == nameKey(n) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, n)
		}
	}
	proto.name = n
	for i, c := range p.canvases {
		if _, taken := c.Layer(n); taken {
			return fmt.Errorf("%w: %q on canvas %d", ErrDuplicateName, n, i)
		}
	}
	added := make([]*Layer, 0, len(p.canvases))
	for _, c := range p.canvases {
		l, err := p.addLayer(c, proto)
		if err != nil {
			for j, prev := range added {
				_, _ = p.canvases[j].RemoveLayer(prev)
			}
			return err
		}
		added = append(added, l)
	}
	p.prototypes = append(p.prototypes, proto)
	return nil
}

func (p *Project) addLayer(c *Canvas, proto prototype) (*Layer, error) {
	if proto.kind == Visual {
		return c.AddVisualLayer(proto.name)
	}
	pal, err := p.NonVisualPalette(proto.width)
	if err != nil {
		return nil, err
	}
	return c.AddNonVisualLayer(proto.name, pal)
}

// RemovePrototype removes the named prototype and its layer from every
// canvas.
func (p *Project) RemovePrototype(name string) error {
	key := nameKey(name)
	i := slices.IndexFunc(p.prototypes, func(proto prototype) bool {
		return nameKey(proto.name) == key
	})
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	var errs []error
	for _, c := range p.canvases {
		if l, ok := c.Layer(name); ok {
			if _, err := c.RemoveLayer(l); err != nil {
				errs = append(errs, err)
			}
		}
	}
	p.prototypes = slices.Delete(p.prototypes, i, i+1)
	return errors.Join(errs...)
}

// Prototypes returns the names of the layer prototypes: visual ones in
// the order they were added, followed by non-visual ones.
func (p *Project) Prototypes() []string {
	var names []string
	for _, kind := range []Kind{Visual, NonVisual} {
		for _, proto := range p.prototypes {
			if proto.kind == kind {
				names = append(names, proto.name)
			}
		}
	}
	return names
}
