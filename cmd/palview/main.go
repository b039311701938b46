// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command palview builds a small indexed canvas, paints and fills it, and
// writes the result as a BMP. With -term it also previews the canvas in
// the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/codec"
	"github.com/gogpu/indexed/fill"
	"github.com/gogpu/indexed/history"
	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
	"github.com/gogpu/indexed/render"
)

func main() {
	var (
		width   = flag.Int("width", 64, "canvas width")
		height  = flag.Int("height", 48, "canvas height")
		scale   = flag.Int("scale", 8, "output scale factor")
		output  = flag.String("output", "palview.bmp", "output file")
		layers  = flag.String("layers", "", "also write the ink layer as a compressed record blob")
		sparse  = flag.Bool("sparse", false, "use sparse layer stores")
		workers = flag.Int("workers", 0, "flood fill workers (0 = GOMAXPROCS)")
		term    = flag.Bool("term", false, "preview in the terminal")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		indexed.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	kind := layerstore.KindDense
	if *sparse {
		kind = layerstore.KindSparse
	}
	proj, err := indexed.NewProject(
		indexed.WithDefaultLayer("ink"),
		indexed.WithVisualChannels(3),
		indexed.WithCanvasOptions(indexed.WithStoreKind(kind)),
	)
	if err != nil {
		log.Fatalf("project: %v", err)
	}
	if err := proj.AddVisualPrototype("sketch"); err != nil {
		log.Fatalf("prototype: %v", err)
	}
	c, err := proj.AddCanvas(*width, *height)
	if err != nil {
		log.Fatalf("canvas: %v", err)
	}

	if err := paint(c, *workers); err != nil {
		log.Fatalf("paint: %v", err)
	}

	img, err := render.Image(c, nil)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	big, err := render.Scale(img, *scale)
	if err != nil {
		log.Fatalf("scale: %v", err)
	}
	if err := writeBMP(*output, big); err != nil {
		log.Fatalf("write: %v", err)
	}
	log.Printf("Canvas saved to %s (%dx%d, %d colors)\n", *output, big.Bounds().Dx(), big.Bounds().Dy(), c.Palette().Len())

	if *layers != "" {
		if err := writeLayer(*layers, c); err != nil {
			log.Fatalf("layers: %v", err)
		}
	}
	if *term {
		if err := preview(c); err != nil {
			log.Fatalf("preview: %v", err)
		}
	}
}

// paint draws a frame on the ink layer, a bar on the sketch layer below
// it, then flood fills the inside of the frame. The last stroke is undone
// to exercise the history.
func paint(c *indexed.Canvas, workers int) error {
	w, h := c.Width(), c.Height()
	if w < 8 || h < 8 {
		return fmt.Errorf("canvas %dx%d too small", w, h)
	}
	ink, _ := c.Layer("ink")
	sketch, _ := c.Layer("sketch")
	frame := palette.NewColor(30, 30, 60)
	bar := palette.NewColor(240, 180, 40)
	inside := palette.NewColor(90, 160, 220)
	stray := palette.NewColor(255, 0, 255)

	edits := history.NewLog()
	push := func(cmd history.Command, err error) error {
		if err != nil {
			return err
		}
		return edits.Push(cmd)
	}
	write := func(r image.Rectangle, col palette.Color) error {
		cmd, err := history.NewWriteColor(c, r, col)
		return push(cmd, err)
	}

	if err := push(history.NewSetActive(c, sketch), nil); err != nil {
		return err
	}
	if err := write(image.Rect(0, h/2-2, w, h/2+2), bar); err != nil {
		return err
	}
	if err := push(history.NewSetActive(c, ink), nil); err != nil {
		return err
	}
	for _, r := range []image.Rectangle{
		image.Rect(2, 2, w-2, 4),
		image.Rect(2, h-4, w-2, h-2),
		image.Rect(2, 2, 4, h-2),
		image.Rect(w-4, 2, w-2, h-2),
	} {
		if err := write(r, frame); err != nil {
			return err
		}
	}

	engine := fill.New(fill.WithWorkers(workers))
	ff, err := history.NewFloodFill(context.Background(), engine, c, w/2, 5, inside)
	if err := push(ff, err); err != nil {
		return err
	}
	if err := write(image.Rect(w/2, h/2, w/2+2, h/2+2), stray); err != nil {
		return err
	}
	return edits.Undo()
}

func writeBMP(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return render.EncodeBMP(f, img)
}

func writeLayer(path string, c *indexed.Canvas) error {
	ink, ok := c.Layer("ink")
	if !ok {
		return fmt.Errorf("no ink layer")
	}
	blob, err := codec.EncodeLayer(ink.Store(), codec.WithLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return err
	}
	log.Printf("Layer %q saved to %s (%d pixels, %d bytes)\n", ink.Name(), path, ink.Len(), len(blob))
	return nil
}

// preview shows c until a key is pressed.
func preview(c *indexed.Canvas) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.Clear()
	if err := render.DrawTerminal(screen, c, nil, 0, 0); err != nil {
		return err
	}
	screen.Show()
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}
