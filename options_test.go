package indexed

import (
	"testing"

	"github.com/gogpu/indexed/internal/parallel"
	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

// TestDefaultOptions tests the settings a canvas gets without options.
func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.storeKind != layerstore.KindDense {
		t.Errorf("storeKind = %v, want dense", o.storeKind)
	}
	if o.checkerW != DefaultCheckerSize || o.checkerH != DefaultCheckerSize {
		t.Errorf("checker = %dx%d, want %d", o.checkerW, o.checkerH, DefaultCheckerSize)
	}
	if o.dirtyTile != parallel.DefaultTileSize {
		t.Errorf("dirtyTile = %d, want %d", o.dirtyTile, parallel.DefaultTileSize)
	}
}

// TestOptionsIgnoreInvalid tests that out-of-range values keep defaults.
func TestOptionsIgnoreInvalid(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{WithCheckerSize(0, 4), WithCheckerSize(4, -1), WithDirtyTileSize(0)} {
		opt(&o)
	}
	if o != defaultOptions() {
		t.Errorf("options = %+v, want defaults", o)
	}

	po := defaultProjectOptions()
	WithVisualChannels(0)(&po)
	WithVisualChannels(palette.MaxChannels + 1)(&po)
	if po.visualChannels != 4 {
		t.Errorf("visualChannels = %d, want 4", po.visualChannels)
	}
}

// TestWithStoreKind tests that layers use the configured store.
func TestWithStoreKind(t *testing.T) {
	c, err := New(8, 8, palette.MustNewStore(3), WithStoreKind(layerstore.KindSparse))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l, err := c.AddVisualLayer("a")
	if err != nil {
		t.Fatalf("AddVisualLayer: %v", err)
	}
	if _, ok := l.Store().(*layerstore.Sparse); !ok {
		t.Errorf("Store() = %T, want *layerstore.Sparse", l.Store())
	}
	if c.StoreKind() != layerstore.KindSparse {
		t.Errorf("StoreKind() = %v", c.StoreKind())
	}
}

// TestProjectOptionsAccumulate tests that repeated options append.
func TestProjectOptionsAccumulate(t *testing.T) {
	po := defaultProjectOptions()
	WithCanvasOptions(WithCheckerSize(2, 2))(&po)
	WithCanvasOptions(WithDirtyTileSize(8))(&po)
	WithPaletteOptions(palette.WithRowWidth(16))(&po)
	if len(po.canvas) != 2 || len(po.palette) != 1 {
		t.Errorf("canvas=%d palette=%d options, want 2 and 1", len(po.canvas), len(po.palette))
	}
}
