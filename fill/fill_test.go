package fill

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/indexed"
	"github.com/gogpu/indexed/palette"
)

var (
	red  = palette.RGBA(255, 0, 0, 255)
	blue = palette.RGBA(0, 0, 255, 255)
)

// newCanvas returns a w x h canvas with one visual layer whose pixels in
// obstacles are painted blue.
func newCanvas(t *testing.T, w, h int, obstacles ...image.Point) *indexed.Canvas {
	t.Helper()
	c, err := indexed.New(w, h, palette.MustNewStore(4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddVisualLayer("paint"); err != nil {
		t.Fatal(err)
	}
	for _, pt := range obstacles {
		if err := c.WriteColor(image.Rect(pt.X, pt.Y, pt.X+1, pt.Y+1), blue); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

// filled returns the set of pixels whose composited index is color's.
func filled(c *indexed.Canvas, color palette.Color) map[image.Point]bool {
	out := make(map[image.Point]bool)
	idx, ok := c.ActivePalette().Lookup(color)
	if !ok {
		return out
	}
	for y := range c.Height() {
		for x := range c.Width() {
			if got, ok := c.Resolve(x, y); ok && got == idx {
				out[image.Pt(x, y)] = true
			}
		}
	}
	return out
}

var workerCounts = []int{1, 3, 8}

// TestFillSingleObstacle fills a 5x5 background canvas around one
// differently coloured pixel.
func TestFillSingleObstacle(t *testing.T) {
	for _, workers := range workerCounts {
		c := newCanvas(t, 5, 5, image.Pt(2, 2))
		if err := New(WithWorkers(workers)).Fill(context.Background(), c, 0, 0, red); err != nil {
			t.Fatalf("workers=%d: Fill() error: %v", workers, err)
		}
		got := filled(c, red)
		if len(got) != 24 {
			t.Errorf("workers=%d: filled %d pixels, want 24", workers, len(got))
		}
		if got[image.Pt(2, 2)] {
			t.Errorf("workers=%d: obstacle was recolored", workers)
		}
		if b, _ := c.ActivePalette().Lookup(blue); c.Composited(2, 2) != b {
			t.Errorf("workers=%d: obstacle composited = %v, want blue", workers, c.Composited(2, 2))
		}
	}
}

// TestFillStopsAtWall fills the left side of a vertical wall.
func TestFillStopsAtWall(t *testing.T) {
	var wall []image.Point
	for y := range 5 {
		wall = append(wall, image.Pt(2, y))
	}
	for _, workers := range workerCounts {
		c := newCanvas(t, 5, 5, wall...)
		if err := New(WithWorkers(workers)).Fill(context.Background(), c, 0, 0, red); err != nil {
			t.Fatal(err)
		}
		got := filled(c, red)
		if len(got) != 10 {
			t.Errorf("workers=%d: filled %d pixels, want 10", workers, len(got))
		}
		for pt := range got {
			if pt.X >= 2 {
				t.Errorf("workers=%d: fill crossed the wall at %v", workers, pt)
			}
		}
	}
}

// TestFillSameRowObstacleGap checks the accepted coverage gap: an
// obstacle on the seed row hides the rest of that row from the fill.
func TestFillSameRowObstacleGap(t *testing.T) {
	for _, workers := range workerCounts {
		c := newCanvas(t, 7, 3, image.Pt(3, 1))
		if err := New(WithWorkers(workers)).Fill(context.Background(), c, 1, 1, red); err != nil {
			t.Fatal(err)
		}
		got := filled(c, red)
		for x := range 7 {
			for _, y := range []int{0, 2} {
				if !got[image.Pt(x, y)] {
					t.Errorf("workers=%d: (%d,%d) not filled", workers, x, y)
				}
			}
		}
		for x := 0; x < 3; x++ {
			if !got[image.Pt(x, 1)] {
				t.Errorf("workers=%d: seed row pixel (%d,1) not filled", workers, x)
			}
		}
		for x := 4; x < 7; x++ {
			if got[image.Pt(x, 1)] {
				t.Errorf("workers=%d: (%d,1) beyond the obstacle was filled", workers, x)
			}
		}
	}
}

// TestFillTreatsTargetColorAsOpen checks that pixels already holding the
// fill colour do not stop the fill.
func TestFillTreatsTargetColorAsOpen(t *testing.T) {
	c := newCanvas(t, 5, 5)
	_ = c.WriteColor(image.Rect(0, 2, 5, 3), red)
	if err := New().Fill(context.Background(), c, 0, 0, red); err != nil {
		t.Fatal(err)
	}
	if got := len(filled(c, red)); got != 25 {
		t.Errorf("filled %d pixels, want 25", got)
	}
}

func TestPlanSeedHasTargetColor(t *testing.T) {
	c := newCanvas(t, 4, 4, image.Pt(1, 1))
	spans, err := New().Plan(context.Background(), c, 1, 1, blue)
	if err != nil || len(spans) != 0 {
		t.Errorf("Plan() = %v, %v, want no spans", spans, err)
	}
}

// TestFillUsesCompositedColor fills on a lower layer whose border comes
// from the layer above it.
func TestFillUsesCompositedColor(t *testing.T) {
	c := newCanvas(t, 5, 1, image.Pt(2, 0))
	bottom, _ := c.AddVisualLayer("bottom")
	if err := c.SetActiveLayer(bottom); err != nil {
		t.Fatal(err)
	}
	if err := New().Fill(context.Background(), c, 0, 0, red); err != nil {
		t.Fatal(err)
	}
	if bottom.Len() != 2 {
		t.Errorf("bottom layer recorded %d pixels, want 2", bottom.Len())
	}
}

func TestPlanDoesNotWrite(t *testing.T) {
	c := newCanvas(t, 6, 6, image.Pt(3, 3))
	before := c.CompositedBuffer()
	spans, err := New().Plan(context.Background(), c, 0, 0, red)
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) == 0 {
		t.Fatal("Plan() found no spans")
	}
	after := c.CompositedBuffer()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("Plan() modified the canvas")
		}
	}
	if err := Apply(c, spans, red); err != nil {
		t.Fatal(err)
	}
	if len(filled(c, red)) != 35 {
		t.Errorf("filled %d pixels, want 35", len(filled(c, red)))
	}
}

func TestPlanCancelled(t *testing.T) {
	c := newCanvas(t, 16, 16)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spans, err := New().Plan(ctx, c, 0, 0, red)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Plan() error = %v, want context.Canceled", err)
	}
	if spans != nil {
		t.Errorf("Plan() returned %d spans after cancellation", len(spans))
	}
	if c.ActiveLayer().Len() != 0 {
		t.Error("cancelled fill wrote pixels")
	}
}

func TestPlanInvalid(t *testing.T) {
	c := newCanvas(t, 4, 4)
	if _, err := New().Plan(context.Background(), c, 4, 0, red); !errors.Is(err, indexed.ErrInvalidArgument) {
		t.Errorf("out-of-bounds seed error = %v, want ErrInvalidArgument", err)
	}
	empty, _ := indexed.New(4, 4, palette.MustNewStore(4))
	if _, err := New().Plan(context.Background(), empty, 0, 0, red); !errors.Is(err, indexed.ErrNoActiveLayer) {
		t.Errorf("no layer error = %v, want ErrNoActiveLayer", err)
	}
}

func TestFillLockedLayer(t *testing.T) {
	c := newCanvas(t, 4, 4)
	_ = c.SetLocked(c.ActiveLayer(), true)
	spans, err := New().Plan(context.Background(), c, 0, 0, red)
	if err != nil || spans != nil {
		t.Errorf("Plan() on locked layer = %v, %v, want nil, nil", spans, err)
	}
}

// TestFillLargeRing fills the inside of a hollow square and leaves the
// outside alone.
func TestFillLargeRing(t *testing.T) {
	const n = 40
	var ring []image.Point
	for i := 5; i <= 34; i++ {
		ring = append(ring, image.Pt(i, 5), image.Pt(i, 34), image.Pt(5, i), image.Pt(34, i))
	}
	c := newCanvas(t, n, n, ring...)
	if err := New(WithWorkers(4)).Fill(context.Background(), c, 20, 20, red); err != nil {
		t.Fatal(err)
	}
	got := filled(c, red)
	if len(got) != 28*28 {
		t.Errorf("filled %d pixels, want %d", len(got), 28*28)
	}
	for pt := range got {
		if pt.X <= 5 || pt.X >= 34 || pt.Y <= 5 || pt.Y >= 34 {
			t.Errorf("fill escaped the ring at %v", pt)
		}
	}
}
