package parallel

import (
	"image"
	"slices"
	"sync"
	"testing"
)

func TestDirtyRegion_Create(t *testing.T) {
	tests := []struct {
		name       string
		w, h, tile int
		wantOK     bool
		tiles      int
	}{
		{"exact", 64, 64, 32, true, 4},
		{"partial", 65, 10, 32, true, 3},
		{"single", 1, 1, 32, true, 1},
		{"zero width", 0, 10, 32, false, 0},
		{"zero tile", 10, 10, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirtyRegion(tt.w, tt.h, tt.tile)
			if (d != nil) != tt.wantOK {
				t.Fatalf("NewDirtyRegion(%d, %d, %d) nil=%v, want ok=%v", tt.w, tt.h, tt.tile, d == nil, tt.wantOK)
			}
			if d == nil {
				return
			}
			if got := d.TakeRects(); len(got) != 0 {
				t.Errorf("new region has dirty tiles %v", got)
			}
			d.MarkAll()
			if got := len(d.TakeRects()); got != tt.tiles {
				t.Errorf("MarkAll marked %d tiles, want %d", got, tt.tiles)
			}
		})
	}
}

func TestDirtyRegion_MarkRect(t *testing.T) {
	d := NewDirtyRegion(100, 100, 10)
	d.MarkRect(image.Rect(15, 5, 31, 6))
	want := []image.Rectangle{
		image.Rect(10, 0, 20, 10),
		image.Rect(20, 0, 30, 10),
		image.Rect(30, 0, 40, 10),
	}
	if got := d.TakeRects(); !slices.Equal(got, want) {
		t.Errorf("TakeRects() = %v, want %v", got, want)
	}

	d.MarkRect(image.Rect(-50, -50, -1, -1))
	d.Mark(10, 0)
	d.MarkPixel(-1, 3)
	if got := d.TakeRects(); len(got) != 0 {
		t.Errorf("out-of-grid marks produced %v", got)
	}
}

func TestDirtyRegion_TakeRects(t *testing.T) {
	d := NewDirtyRegion(25, 25, 10)
	d.MarkPixel(24, 24)
	d.MarkPixel(0, 0)

	got := d.TakeRects()
	want := []image.Rectangle{image.Rect(0, 0, 10, 10), image.Rect(20, 20, 25, 25)}
	if !slices.Equal(got, want) {
		t.Fatalf("TakeRects() = %v, want %v", got, want)
	}
	if got := d.TakeRects(); len(got) != 0 {
		t.Errorf("second TakeRects() = %v, want none", got)
	}
}

func TestDirtyRegion_MarkAll(t *testing.T) {
	d := NewDirtyRegion(100, 90, 10) // 90 tiles spans two words
	d.MarkAll()
	got := d.TakeRects()
	if len(got) != 90 {
		t.Fatalf("TakeRects() returned %d tiles, want 90", len(got))
	}
	if last := got[len(got)-1]; last != image.Rect(90, 80, 100, 90) {
		t.Errorf("last tile = %v", last)
	}
}

func TestDirtyRegion_Concurrent(t *testing.T) {
	d := NewDirtyRegion(640, 640, 10)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			for x := 0; x < 640; x += 10 {
				d.MarkPixel(x, row*10)
			}
		}(i)
	}
	wg.Wait()
	if got := len(d.TakeRects()); got != 8*64 {
		t.Errorf("TakeRects() returned %d tiles, want %d", got, 8*64)
	}
}
